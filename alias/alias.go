package alias

import (
	"maps"
	"slices"

	"github.com/robertof/go-parasite-monitor/sensor"
)

// Lookup maps a canonical sensor address to its configured display name.
type Lookup interface {
	Lookup(key string) (string, bool)
}

// Table is an alias table keyed by canonical address (see sensor.Addr.String). It is built
// once at startup and only read afterwards.
type Table map[string]string

func (t Table) Lookup(key string) (string, bool) {
	name, ok := t[key]
	return name, ok
}

// Set stores an alias, normalizing the address to its canonical form.
func (t Table) Set(addr, name string) {
	t[sensor.CanonicalAddr(addr)] = name
}

// Merge copies every entry of other into t, overriding existing keys.
func (t Table) Merge(other Table) {
	for addr, name := range other {
		t.Set(addr, name)
	}
}

// Addrs returns the addresses of all entries that parse as sensor addresses, sorted.
func (t Table) Addrs() (out []sensor.Addr) {
	for _, key := range slices.Sorted(maps.Keys(t)) {
		if a, err := sensor.ParseAddr(key); err == nil {
			out = append(out, a)
		}
	}

	return out
}

// Resolve returns the alias configured for addr, or its canonical string when there is
// none. An empty alias counts as none.
func Resolve(addr sensor.Addr, l Lookup) string {
	key := addr.String()

	if l == nil {
		return key
	}

	if name, ok := l.Lookup(key); ok && name != "" {
		return name
	}

	return key
}
