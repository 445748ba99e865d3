package alias

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// LoadFile reads a YAML alias file: a mapping from sensor address to name, one per line.
// Addresses may use either ':' or '-' separators as long as ':' ones are quoted. Names must be
// quoted when they contain "#" (otherwise the rest is read as a comment), ": ", or start with
// a YAML indicator such as '[', '{', '&', '*', '!' or '|':
//
//	d0-11-22-33-44-55: Tomato Bed
//	"D0:11:22:33:44:66": "Bed #2"
//	d0-11-22-33-44-77: "[west] Basil"
func LoadFile(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read alias file %q", path)
	}

	return Parse(data)
}

// Parse decodes the contents of an alias file, see LoadFile.
func Parse(data []byte) (Table, error) {
	raw := map[string]string{}

	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "failed to parse alias file")
	}

	t := Table{}

	for addr, name := range raw {
		t.Set(addr, strings.TrimSpace(name))
	}

	return t, nil
}
