package history

import (
	"bytes"
	"encoding/json"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/tailored-agentic-units/chatstore/chat"
)

// DefaultKey is the slot chat history is stored under.
const DefaultKey = "chat"

// DefaultLimit is the largest encoded history accepted, in UTF-16 code units
// (5 MiB worth of units).
const DefaultLimit = 5 * 1024 * 1024

// Encode renders msgs as a JSON array. A nil slice encodes as "[]". HTML
// characters and the line and paragraph separators U+2028 and U+2029 are
// written unescaped, matching JSON.stringify, so Units of the result is the
// length a browser would measure.
func Encode(msgs []chat.Message) ([]byte, error) {
	if msgs == nil {
		msgs = []chat.Message{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(msgs); err != nil {
		return nil, err
	}
	return unescapeSeparators(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

// unescapeSeparators replaces the \u2028 and \u2029 escapes encoding/json
// always emits with the raw characters. A backslash that is itself escaped
// is copied along with the character after it, so "\\u2028" is left alone.
func unescapeSeparators(data []byte) []byte {
	if !bytes.Contains(data, []byte(`\u202`)) {
		return data
	}

	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		if data[i] != '\\' || i+1 == len(data) {
			out = append(out, data[i])
			continue
		}
		if esc := data[i:]; len(esc) >= 6 && string(esc[:5]) == `\u202` && (esc[5] == '8' || esc[5] == '9') {
			out = utf8.AppendRune(out, rune(0x2028+int(esc[5]-'8')))
			i += 5
			continue
		}
		out = append(out, data[i], data[i+1])
		i++
	}
	return out
}

// Decode parses a JSON message array. It does not validate message shape;
// "null" decodes to an empty history.
func Decode(data []byte) ([]chat.Message, error) {
	var msgs []chat.Message
	if err := json.Unmarshal(data, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// Units returns the length of s in UTF-16 code units. Characters outside the
// Basic Multilingual Plane count twice; invalid UTF-8 bytes count once each.
func Units(s string) int {
	n := 0
	for _, r := range s {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}
