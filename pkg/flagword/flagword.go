// Package flagword packs independent enumerated settings into a single
// 64-bit word, one disjoint bit range per setting.
package flagword

import (
	"errors"
	"fmt"
	"math/bits"
	"sort"
)

var (
	// ErrOutOfRange indicates a value has bits outside its field's mask.
	ErrOutOfRange = errors.New("value out of field range")

	// ErrOverlap indicates two fields of a layout share bits.
	ErrOverlap = errors.New("overlapping field masks")

	// ErrEmptyMask indicates a field was declared without any bits.
	ErrEmptyMask = errors.New("empty field mask")

	// ErrUnknownField indicates a layout lookup for an undeclared field.
	ErrUnknownField = errors.New("unknown field")
)

// Set replaces the bits selected by mask with the corresponding bits of value.
// Bits of value outside mask are dropped.
func Set(current, value, mask uint64) uint64 {
	return current&^mask | value&mask
}

// Get returns the bits of current selected by mask, still in position.
func Get(current, mask uint64) uint64 {
	return current & mask
}

// MulHex shifts n left by the given number of hex digits.
func MulHex(n uint64, zeros int) uint64 {
	return n << (4 * uint(zeros))
}

// DivHex shifts n right by the given number of hex digits.
func DivHex(n uint64, zeros int) uint64 {
	return n >> (4 * uint(zeros))
}

// Field is a named bit range inside a packed word.
type Field struct {
	Name string
	Mask uint64
}

// HexZeros returns the number of whole trailing zero hex digits in the mask.
func (f Field) HexZeros() int {
	if f.Mask == 0 {
		return 0
	}
	return bits.TrailingZeros64(f.Mask) / 4
}

// Get returns the field's bits of word, still in position.
func (f Field) Get(word uint64) uint64 {
	return word & f.Mask
}

// Set writes a pre-shifted value into the field.
// Returns ErrOutOfRange if value would spill into neighbouring bits.
func (f Field) Set(word, value uint64) (uint64, error) {
	if value&^f.Mask != 0 {
		return word, fmt.Errorf("%s: %#x outside mask %#x: %w", f.Name, value, f.Mask, ErrOutOfRange)
	}
	return Set(word, value, f.Mask), nil
}

// Pack scales a small integer up into the field's position.
func (f Field) Pack(n uint64) (uint64, error) {
	zeros := f.HexZeros()
	if bits.Len64(n)+4*zeros > 64 {
		return 0, fmt.Errorf("%s: %d does not fit: %w", f.Name, n, ErrOutOfRange)
	}
	v := MulHex(n, zeros)
	if v&^f.Mask != 0 {
		return 0, fmt.Errorf("%s: %d does not fit: %w", f.Name, n, ErrOutOfRange)
	}
	return v, nil
}

// Unpack extracts the field from word and scales it back down.
func (f Field) Unpack(word uint64) uint64 {
	return DivHex(word&f.Mask, f.HexZeros())
}

// Layout is a set of non-overlapping fields sharing one word.
type Layout struct {
	fields []Field
	byName map[string]Field
}

// NewLayout validates that every field has bits and no two fields overlap.
func NewLayout(fields ...Field) (*Layout, error) {
	l := &Layout{byName: make(map[string]Field, len(fields))}
	var used uint64
	for _, f := range fields {
		if f.Mask == 0 {
			return nil, fmt.Errorf("field %q: %w", f.Name, ErrEmptyMask)
		}
		if used&f.Mask != 0 {
			return nil, fmt.Errorf("field %q (%#x): %w", f.Name, f.Mask, ErrOverlap)
		}
		used |= f.Mask
		l.fields = append(l.fields, f)
		l.byName[f.Name] = f
	}
	return l, nil
}

// MustLayout is like NewLayout but panics on an invalid layout.
// Intended for package-level layout declarations.
func MustLayout(fields ...Field) *Layout {
	l, err := NewLayout(fields...)
	if err != nil {
		panic(err)
	}
	return l
}

// Field looks up a field by name.
func (l *Layout) Field(name string) (Field, error) {
	f, ok := l.byName[name]
	if !ok {
		return Field{}, fmt.Errorf("%q: %w", name, ErrUnknownField)
	}
	return f, nil
}

// Fields returns the fields in declaration order.
func (l *Layout) Fields() []Field {
	out := make([]Field, len(l.fields))
	copy(out, l.fields)
	return out
}

// Mask returns the union of all field masks.
func (l *Layout) Mask() uint64 {
	var m uint64
	for _, f := range l.fields {
		m |= f.Mask
	}
	return m
}

// Set writes value into the named field of word.
func (l *Layout) Set(word uint64, name string, value uint64) (uint64, error) {
	f, err := l.Field(name)
	if err != nil {
		return word, err
	}
	return f.Set(word, value)
}

// SetScaled packs the small integer n into the named field of word.
func (l *Layout) SetScaled(word uint64, name string, n uint64) (uint64, error) {
	f, err := l.Field(name)
	if err != nil {
		return word, err
	}
	v, err := f.Pack(n)
	if err != nil {
		return word, err
	}
	return f.Set(word, v)
}

// Describe returns each field's in-position value, keyed by field name.
func (l *Layout) Describe(word uint64) map[string]uint64 {
	out := make(map[string]uint64, len(l.fields))
	for _, f := range l.fields {
		out[f.Name] = f.Get(word)
	}
	return out
}

// Names returns the field names sorted alphabetically.
func (l *Layout) Names() []string {
	names := make([]string, 0, len(l.fields))
	for _, f := range l.fields {
		names = append(names, f.Name)
	}
	sort.Strings(names)
	return names
}
