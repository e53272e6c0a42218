package history

import (
	"context"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/tailored-agentic-units/chatstore/chat"
	"github.com/tailored-agentic-units/chatstore/memory"
)

// Summary describes the stored slot without decoding it into messages.
type Summary struct {
	Key       string            `json:"key"`
	Messages  int               `json:"messages"`
	Roles     map[chat.Role]int `json:"roles"`
	Units     int               `json:"units"`
	Bytes     int               `json:"bytes"`
	Limit     int               `json:"limit"`
	Remaining int               `json:"remaining"`
}

// Inspect reports the size and composition of the slot. An absent slot
// returns an error matching memory.ErrKeyNotFound; text that is not a JSON
// array returns ErrDecode.
func (h *History) Inspect(ctx context.Context) (Summary, error) {
	data, err := h.read(ctx)
	if err != nil {
		if errors.Is(err, memory.ErrKeyNotFound) {
			return Summary{}, fmt.Errorf("inspect %s: %w", h.key, memory.ErrKeyNotFound)
		}
		return Summary{}, err
	}

	text := string(data)
	if !gjson.Valid(text) {
		return Summary{}, fmt.Errorf("%w: %s: invalid JSON", ErrDecode, h.key)
	}

	root := gjson.Parse(text)
	if !root.IsArray() && root.Type != gjson.Null {
		return Summary{}, fmt.Errorf("%w: %s: not an array", ErrDecode, h.key)
	}

	roles := make(map[chat.Role]int)
	root.Get("#.role").ForEach(func(_, role gjson.Result) bool {
		roles[chat.Role(role.String())]++
		return true
	})

	units := Units(text)
	return Summary{
		Key:       h.key,
		Messages:  int(root.Get("#").Int()),
		Roles:     roles,
		Units:     units,
		Bytes:     len(data),
		Limit:     h.limit,
		Remaining: h.limit - units,
	}, nil
}
