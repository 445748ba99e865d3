package sensor

import (
  "errors"
  "fmt"
  "net"
  "strconv"
  "strings"
)

var ErrInvalidAddr = errors.New("invalid sensor address")

// Addr is the 6-byte hardware address of a sensor, in transmitted order.
type Addr [6]byte

// String returns the canonical form of the address: lowercase hex octets joined by dashes.
func (a Addr) String() string {
  const hexd = "0123456789abcdef"

  out := make([]byte, 0, len(a)*3-1)

  for i, b := range a {
    if i > 0 {
      out = append(out, '-')
    }

    out = append(out, hexd[b>>4], hexd[b&0x0f])
  }

  return string(out)
}

func (a Addr) HardwareAddr() net.HardwareAddr {
  hw := make(net.HardwareAddr, len(a))
  copy(hw, a[:])

  return hw
}

// ParseAddr accepts six hex octets separated by either ':' or '-', in any case.
func ParseAddr(s string) (a Addr, err error) {
  parts := strings.FieldsFunc(strings.TrimSpace(s), func(r rune) bool {
    return r == ':' || r == '-'
  })

  if len(parts) != len(a) {
    return a, fmt.Errorf("%w: %q", ErrInvalidAddr, s)
  }

  for i, part := range parts {
    if len(part) != 2 {
      return a, fmt.Errorf("%w: %q", ErrInvalidAddr, s)
    }

    v, err := strconv.ParseUint(part, 16, 8)
    if err != nil {
      return a, fmt.Errorf("%w: %q", ErrInvalidAddr, s)
    }

    a[i] = byte(v)
  }

  return a, nil
}

// CanonicalAddr normalizes an address string into its canonical form. Strings that do not
// parse as an address are returned lowercased and trimmed.
func CanonicalAddr(s string) string {
  if a, err := ParseAddr(s); err == nil {
    return a.String()
  }

  return strings.ToLower(strings.TrimSpace(s))
}
