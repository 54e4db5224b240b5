package portfolio

import (
	"fmt"
	"sync"
)

// Snapshot is an immutable copy of a store's contents
type Snapshot struct {
	PV       PV           `json:"pv" yaml:"pv"`
	Wind     Wind         `json:"wind" yaml:"wind"`
	Hydro    Hydro        `json:"hydro" yaml:"hydro"`
	BESS     BESS         `json:"bess" yaml:"bess"`
	Global   GlobalConfig `json:"global" yaml:"global"`
	Selected Selection    `json:"selected" yaml:"-"`
}

// DefaultSnapshot returns the session-start configuration
func DefaultSnapshot() Snapshot {
	return Snapshot{
		PV:     DefaultPV(),
		Wind:   DefaultWind(),
		Hydro:  DefaultHydro(),
		BESS:   DefaultBESS(),
		Global: DefaultGlobal(),
	}
}

// Specs returns every component spec in display order
func (s Snapshot) Specs() []Spec {
	return []Spec{s.PV, s.Wind, s.Hydro, s.BESS}
}

// Spec returns the spec for a kind
func (s Snapshot) Spec(k Kind) Spec {
	switch k {
	case KindWind:
		return s.Wind
	case KindHydro:
		return s.Hydro
	case KindBESS:
		return s.BESS
	default:
		return s.PV
	}
}

// Enabled reports whether the component of kind k is enabled
func (s Snapshot) Enabled(k Kind) bool {
	return s.Spec(k).Common().Enabled
}

// AnyEnabled is false when the portfolio has nothing to size
func (s Snapshot) AnyEnabled() bool {
	for _, spec := range s.Specs() {
		if spec.Common().Enabled {
			return true
		}
	}
	return false
}

func (s *Snapshot) put(spec Spec) {
	switch v := spec.(type) {
	case PV:
		s.PV = v
	case Wind:
		s.Wind = v
	case Hydro:
		s.Hydro = v
	case BESS:
		s.BESS = v
	}
}

// Validate checks every component and the global parameters
func (s Snapshot) Validate() error {
	for _, spec := range s.Specs() {
		if err := Validate(spec); err != nil {
			return fmt.Errorf("%s: %w", spec.Kind(), err)
		}
	}
	if err := ValidateGlobal(s.Global); err != nil {
		return fmt.Errorf("global: %w", err)
	}
	return nil
}

// Store holds one session's portfolio. Writers replace whole specs, so readers
// always see a complete snapshot.
type Store struct {
	mux  sync.RWMutex
	snap Snapshot
}

// NewStore returns a store seeded with the session-start defaults
func NewStore() *Store {
	return &Store{snap: DefaultSnapshot()}
}

// NewStoreFrom returns a store seeded with a previously saved snapshot
func NewStoreFrom(snap Snapshot) (*Store, error) {
	if err := snap.Validate(); err != nil {
		return nil, err
	}
	snap.Selected = None
	return &Store{snap: snap}, nil
}

// Snapshot returns a copy of the current state
func (s *Store) Snapshot() Snapshot {
	s.mux.RLock()
	defer s.mux.RUnlock()
	return s.snap
}

// Save validates spec and, if valid, replaces the stored spec for kind and clears
// the edit selection. On error the store is left untouched.
func (s *Store) Save(k Kind, spec Spec) error {
	if spec == nil || spec.Kind() != k {
		return invalid("kind", "spec does not match component %s", k)
	}
	if err := Validate(spec); err != nil {
		return err
	}

	s.mux.Lock()
	defer s.mux.Unlock()
	s.snap.put(spec)
	s.snap.Selected = None
	return nil
}

// SetGlobal validates and replaces the global parameters
func (s *Store) SetGlobal(g GlobalConfig) error {
	if err := ValidateGlobal(g); err != nil {
		return err
	}

	s.mux.Lock()
	defer s.mux.Unlock()
	s.snap.Global = g
	return nil
}

// AttachProfile records that a time series was uploaded for a component
func (s *Store) AttachProfile(k Kind, ref ProfileRef) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.snap.put(WithProfile(s.snap.Spec(k), ref))
}

// AttachLoadProfile records that a load profile was uploaded
func (s *Store) AttachLoadProfile(ref ProfileRef) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.snap.Global.LoadProfile = ref
}

// SelectForEdit marks which component is being edited, or None
func (s *Store) SelectForEdit(sel Selection) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.snap.Selected = sel
}
