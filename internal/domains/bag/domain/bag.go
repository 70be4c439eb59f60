package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// EntryKind tags the shape of a bag entry.
type EntryKind int

const (
	// EntryPlain holds a bare quantity for products without size variants.
	EntryPlain EntryKind = iota + 1
	// EntrySized holds a quantity per size label.
	EntrySized
)

var (
	ErrInvalidProduct  = errors.New("product id must be positive")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrNotInBag        = errors.New("item not in bag")
	ErrInvalidSize     = fmt.Errorf("size label must be at most %d characters", MaxSizeLength)
)

// MaxSizeLength bounds a size label; it matches the order line item column.
const MaxSizeLength = 8

// Entry is the bag content for one product. Exactly one of Quantity or Sizes is meaningful,
// selected by Kind.
type Entry struct {
	ProductID int64
	Kind      EntryKind
	Quantity  int
	Sizes     map[string]int
}

// Line is a single (size, quantity) pairing; Size is empty for plain entries.
type Line struct {
	Size     string
	Quantity int
}

// Plain builds a bare-quantity entry.
func Plain(productID int64, quantity int) Entry {
	return Entry{ProductID: productID, Kind: EntryPlain, Quantity: quantity}
}

// Sized builds a per-size entry.
func Sized(productID int64, sizes map[string]int) Entry {
	copy := make(map[string]int, len(sizes))
	for size, qty := range sizes {
		copy[size] = qty
	}
	return Entry{ProductID: productID, Kind: EntrySized, Sizes: copy}
}

// Lines expands the entry into its (size, quantity) pairs, ordered by size label.
func (e Entry) Lines() []Line {
	if e.Kind != EntrySized {
		return []Line{{Quantity: e.Quantity}}
	}
	sizes := make([]string, 0, len(e.Sizes))
	for size := range e.Sizes {
		sizes = append(sizes, size)
	}
	sort.Strings(sizes)
	lines := make([]Line, 0, len(sizes))
	for _, size := range sizes {
		lines = append(lines, Line{Size: size, Quantity: e.Sizes[size]})
	}
	return lines
}

// TotalQuantity sums every line of the entry.
func (e Entry) TotalQuantity() int {
	total := 0
	for _, line := range e.Lines() {
		total += line.Quantity
	}
	return total
}

func (e Entry) clone() Entry {
	if e.Kind == EntrySized {
		return Sized(e.ProductID, e.Sizes)
	}
	return e
}

// Bag is the session shopping bag keyed by product id.
type Bag struct {
	entries map[int64]Entry
}

// New returns an empty bag.
func New() *Bag {
	return &Bag{entries: map[int64]Entry{}}
}

// FromEntries builds a bag from already-shaped entries, validating each quantity.
func FromEntries(entries ...Entry) (*Bag, error) {
	b := New()
	for _, e := range entries {
		if err := validateEntry(e); err != nil {
			return nil, err
		}
		b.entries[e.ProductID] = e.clone()
	}
	return b, nil
}

// Add increases the quantity of a product, per size when size is set.
// Adding with a size to a plain entry (or without one to a sized entry) replaces the entry.
func (b *Bag) Add(productID int64, quantity int, size string) error {
	if err := validateLine(productID, quantity); err != nil {
		return err
	}
	size = strings.TrimSpace(size)
	if err := validateSize(size); err != nil {
		return err
	}
	existing, ok := b.entries[productID]
	if size == "" {
		if ok && existing.Kind == EntryPlain {
			existing.Quantity += quantity
			b.entries[productID] = existing
			return nil
		}
		b.entries[productID] = Plain(productID, quantity)
		return nil
	}
	if !ok || existing.Kind != EntrySized {
		existing = Sized(productID, nil)
	}
	existing.Sizes[size] += quantity
	b.entries[productID] = existing
	return nil
}

// Adjust sets the quantity of a product (or one of its sizes). A zero quantity removes it.
func (b *Bag) Adjust(productID int64, quantity int, size string) error {
	if quantity == 0 {
		return b.Remove(productID, size)
	}
	if err := validateLine(productID, quantity); err != nil {
		return err
	}
	size = strings.TrimSpace(size)
	if err := validateSize(size); err != nil {
		return err
	}
	if size == "" {
		b.entries[productID] = Plain(productID, quantity)
		return nil
	}
	existing, ok := b.entries[productID]
	if !ok || existing.Kind != EntrySized {
		existing = Sized(productID, nil)
	}
	existing.Sizes[size] = quantity
	b.entries[productID] = existing
	return nil
}

// Remove drops a product, or only one of its sizes when size is set.
func (b *Bag) Remove(productID int64, size string) error {
	existing, ok := b.entries[productID]
	if !ok {
		return ErrNotInBag
	}
	size = strings.TrimSpace(size)
	if size == "" || existing.Kind != EntrySized {
		delete(b.entries, productID)
		return nil
	}
	if _, ok := existing.Sizes[size]; !ok {
		return ErrNotInBag
	}
	delete(existing.Sizes, size)
	if len(existing.Sizes) == 0 {
		delete(b.entries, productID)
	}
	return nil
}

// Entries returns copies of all entries ordered by product id.
func (b *Bag) Entries() []Entry {
	if b == nil {
		return nil
	}
	list := make([]Entry, 0, len(b.entries))
	for _, e := range b.entries {
		list = append(list, e.clone())
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ProductID < list[j].ProductID })
	return list
}

// Entry returns the entry for a product.
func (b *Bag) Entry(productID int64) (Entry, bool) {
	if b == nil {
		return Entry{}, false
	}
	e, ok := b.entries[productID]
	if !ok {
		return Entry{}, false
	}
	return e.clone(), true
}

// IsEmpty reports whether the bag holds nothing.
func (b *Bag) IsEmpty() bool {
	return b == nil || len(b.entries) == 0
}

// Clone returns an independent copy of the bag.
func (b *Bag) Clone() *Bag {
	clone := New()
	if b == nil {
		return clone
	}
	for id, e := range b.entries {
		clone.entries[id] = e.clone()
	}
	return clone
}

func validateLine(productID int64, quantity int) error {
	if productID <= 0 {
		return ErrInvalidProduct
	}
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	return nil
}

func validateSize(size string) error {
	if utf8.RuneCountInString(size) > MaxSizeLength {
		return ErrInvalidSize
	}
	return nil
}

func validateEntry(e Entry) error {
	if e.Kind == EntrySized {
		if len(e.Sizes) == 0 {
			return ErrInvalidQuantity
		}
		for size, qty := range e.Sizes {
			if err := validateLine(e.ProductID, qty); err != nil {
				return err
			}
			if err := validateSize(size); err != nil {
				return err
			}
		}
		return nil
	}
	if e.Kind != EntryPlain {
		return errors.New("unknown bag entry kind")
	}
	return validateLine(e.ProductID, e.Quantity)
}
