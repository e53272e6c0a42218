package memory

// Entry is a key-value pair in the store. Keys are /-separated paths and
// values are raw bytes.
type Entry struct {
	Key   string
	Value []byte
}

// Size is the number of bytes the entry occupies against a quota: key plus value.
func (e Entry) Size() int64 {
	return int64(len(e.Key) + len(e.Value))
}
