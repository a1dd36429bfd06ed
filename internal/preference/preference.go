package preference

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/samber/lo"
)

// Preference is a typed handle on one key of a Store.
type Preference[T any] struct {
	store  Store
	key    string
	def    T
	encode func(T) string
	decode func(string) (T, error)
}

func newPreference[T any](s Store, key string, def T, encode func(T) string, decode func(string) (T, error)) *Preference[T] {
	return &Preference[T]{store: s, key: key, def: def, encode: encode, decode: decode}
}

func (p *Preference[T]) Key() string { return p.key }

func (p *Preference[T]) Default() T { return p.def }

// Get returns the stored value, or the default when the key is unset or
// its value cannot be decoded.
func (p *Preference[T]) Get(ctx context.Context) (T, error) {
	raw, ok, err := p.store.Get(ctx, p.key)
	if err != nil {
		return p.def, err
	}
	if !ok {
		return p.def, nil
	}
	v, err := p.decode(raw)
	if err != nil {
		return p.def, nil
	}
	return v, nil
}

func (p *Preference[T]) Set(ctx context.Context, v T) error {
	return p.store.Set(ctx, p.key, p.encode(v))
}

func (p *Preference[T]) IsSet(ctx context.Context) (bool, error) {
	_, ok, err := p.store.Get(ctx, p.key)
	return ok, err
}

// Delete resets the preference to its default.
func (p *Preference[T]) Delete(ctx context.Context) error {
	return p.store.Delete(ctx, p.key)
}

// String returns a string preference.
func String(s Store, key, def string) *Preference[string] {
	return newPreference(s, key, def,
		func(v string) string { return v },
		func(raw string) (string, error) { return raw, nil })
}

// Bool returns a boolean preference.
func Bool(s Store, key string, def bool) *Preference[bool] {
	return newPreference(s, key, def, strconv.FormatBool, strconv.ParseBool)
}

// Int returns an int preference.
func Int(s Store, key string, def int) *Preference[int] {
	return newPreference(s, key, def, strconv.Itoa, strconv.Atoi)
}

// Long returns an int64 preference.
func Long(s Store, key string, def int64) *Preference[int64] {
	return newPreference(s, key, def,
		func(v int64) string { return strconv.FormatInt(v, 10) },
		func(raw string) (int64, error) { return strconv.ParseInt(raw, 10, 64) })
}

// Uint returns a uint64 preference, used for packed flag words.
func Uint(s Store, key string, def uint64) *Preference[uint64] {
	return newPreference(s, key, def,
		func(v uint64) string { return strconv.FormatUint(v, 10) },
		func(raw string) (uint64, error) { return strconv.ParseUint(raw, 10, 64) })
}

// Float returns a float64 preference.
func Float(s Store, key string, def float64) *Preference[float64] {
	return newPreference(s, key, def,
		func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) },
		func(raw string) (float64, error) { return strconv.ParseFloat(raw, 64) })
}

// StringSet returns a preference holding a set of strings.
// Values are deduplicated and kept sorted.
func StringSet(s Store, key string, def []string) *Preference[[]string] {
	return newPreference(s, key, normalizeSet(def),
		func(v []string) string {
			b, _ := json.Marshal(normalizeSet(v))
			return string(b)
		},
		func(raw string) ([]string, error) {
			var v []string
			if err := json.Unmarshal([]byte(raw), &v); err != nil {
				return nil, err
			}
			return normalizeSet(v), nil
		})
}

func normalizeSet(v []string) []string {
	out := lo.Uniq(v)
	if out == nil {
		out = []string{}
	}
	sort.Strings(out)
	return out
}

// Enum returns a preference storing one of values by its String name.
// Unknown names fall back to def.
func Enum[E interface {
	comparable
	fmt.Stringer
}](s Store, key string, def E, values []E) *Preference[E] {
	return newPreference(s, key, def,
		func(v E) string { return v.String() },
		func(raw string) (E, error) {
			v, ok := lo.Find(values, func(e E) bool { return e.String() == raw })
			if !ok {
				return def, fmt.Errorf("unknown value %q", raw)
			}
			return v, nil
		})
}

// Object returns a preference with a custom serializer.
func Object[T any](s Store, key string, def T, serialize func(T) string, deserialize func(string) (T, error)) *Preference[T] {
	return newPreference(s, key, def, serialize, deserialize)
}
