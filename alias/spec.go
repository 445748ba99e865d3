package alias

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/robertof/go-parasite-monitor/sensor"
)

const (
	SpecFieldName    = "name"
	SpecFieldAddress = "addr"
)

// Spec is a single `-alias` flag value in the form `addr=...,name=...`.
type Spec map[string]string

func NewSpec(s string) Spec {
	spec := Spec{}
	entries := strings.Split(s, ",")

	for _, entry := range entries {
		parts := strings.SplitN(entry, "=", 2)

		if len(parts) != 2 {
			log.Warn().Str("Entry", entry).Msg("Skipping invalid alias spec entry")
			continue
		}

		spec[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}

	return spec
}

func (s Spec) Name() string {
	return s[SpecFieldName]
}

func (s Spec) Addr() (sensor.Addr, error) {
	return sensor.ParseAddr(s[SpecFieldAddress])
}

// FlagValue collects repeated `-alias` flags into a Table.
type FlagValue struct {
	Table Table
}

func (f *FlagValue) String() string {
	if f == nil || len(f.Table) == 0 {
		return ""
	}

	return fmt.Sprintf("%d aliases", len(f.Table))
}

func (f *FlagValue) Set(v string) error {
	spec := NewSpec(v)

	addr, err := spec.Addr()
	if err != nil {
		return fmt.Errorf("invalid alias %q: %w", v, err)
	}

	if spec.Name() == "" {
		return fmt.Errorf("invalid alias %q: missing %q", v, SpecFieldName)
	}

	if f.Table == nil {
		f.Table = Table{}
	}

	f.Table[addr.String()] = spec.Name()

	return nil
}

func (f *FlagValue) Help() string {
	return `Alias for a sensor in the form of ` + "`addr=<address>,name=<display name>`" + `. Repeatable.
addr (string, required): hardware address of the sensor, ':' or '-' separated
name (string, required): name shown instead of the address`
}
