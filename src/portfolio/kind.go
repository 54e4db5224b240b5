// Package portfolio holds the generation/storage portfolio configuration:
// per-component capacity ranges, cost parameters, and the store that owns them.
package portfolio

import (
	"fmt"
	"strings"
)

// Kind identifies one asset class in the portfolio
type Kind int

const (
	KindPV Kind = iota
	KindWind
	KindHydro
	KindBESS
)

// Kinds lists every asset class in display order
var Kinds = []Kind{KindPV, KindWind, KindHydro, KindBESS}

func (k Kind) String() string {
	switch k {
	case KindPV:
		return "pv"
	case KindWind:
		return "wind"
	case KindHydro:
		return "hydro"
	case KindBESS:
		return "bess"
	default:
		return "unknown"
	}
}

// Label returns the human readable name
func (k Kind) Label() string {
	switch k {
	case KindPV:
		return "Solar PV"
	case KindWind:
		return "Wind"
	case KindHydro:
		return "Hydro"
	case KindBESS:
		return "BESS"
	default:
		return "Unknown"
	}
}

// ParseKind accepts the short name ("pv", "wind", "hydro", "bess"), case-insensitive
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, k := range Kinds {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown component: %q", s)
}

// Selection is the component currently being edited, if any
type Selection struct {
	kind Kind
	set  bool
}

// None is the empty selection
var None = Selection{}

// Select returns a selection of the given kind
func Select(k Kind) Selection {
	return Selection{kind: k, set: true}
}

// Kind returns the selected kind and whether anything is selected
func (s Selection) Kind() (Kind, bool) {
	return s.kind, s.set
}

func (s Selection) String() string {
	if !s.set {
		return "none"
	}
	return s.kind.String()
}

// MarshalText encodes the selection as a kind name or "none"
func (s Selection) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText reads a selection written by MarshalText
func (s *Selection) UnmarshalText(text []byte) error {
	name := string(text)
	if name == "" || name == "none" {
		*s = None
		return nil
	}
	k, err := ParseKind(name)
	if err != nil {
		return err
	}
	*s = Select(k)
	return nil
}
