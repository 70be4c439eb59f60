package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ErrMalformedBag signals session data that does not decode into a bag.
var ErrMalformedBag = errors.New("malformed bag data")

type sizedWire struct {
	ItemsBySize map[string]int `json:"items_by_size"`
}

// Decode parses the session representation `{"<id>": qty | {"items_by_size": {"<size>": qty}}}`.
// Empty input yields an empty bag. The JSON shape of each value selects the entry kind.
func Decode(data []byte) (*Bag, error) {
	b := New()
	if len(bytes.TrimSpace(data)) == 0 {
		return b, nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedBag, err)
	}
	entries := make([]Entry, 0, len(raw))
	for key, value := range raw {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: product key %q", ErrMalformedBag, key)
		}
		value = bytes.TrimSpace(value)
		if len(value) > 0 && value[0] == '{' {
			var sized sizedWire
			if err := json.Unmarshal(value, &sized); err != nil {
				return nil, fmt.Errorf("%w: product %d: %w", ErrMalformedBag, id, err)
			}
			entries = append(entries, Sized(id, sized.ItemsBySize))
			continue
		}
		var qty int
		if err := json.Unmarshal(value, &qty); err != nil {
			return nil, fmt.Errorf("%w: product %d: %w", ErrMalformedBag, id, err)
		}
		entries = append(entries, Plain(id, qty))
	}
	bag, err := FromEntries(entries...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedBag, err)
	}
	return bag, nil
}

// Encode renders the bag in its session representation.
func Encode(b *Bag) ([]byte, error) {
	wire := make(map[string]any)
	for _, e := range b.Entries() {
		key := strconv.FormatInt(e.ProductID, 10)
		if e.Kind == EntrySized {
			wire[key] = sizedWire{ItemsBySize: e.Sizes}
			continue
		}
		wire[key] = e.Quantity
	}
	return json.Marshal(wire)
}
