package portfolio

import (
	"fmt"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// ProfileRef is an opaque handle to an uploaded generation or demand time series.
// The upload layer owns the bytes; the portfolio only records that one exists.
type ProfileRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name,omitempty"`
}

// NewProfileRef creates a handle for a freshly uploaded profile
func NewProfileRef(name string) ProfileRef {
	return ProfileRef{ID: uuid.New(), Name: name}
}

// ParseProfileRef builds a handle from an id issued by the upload layer.
// An empty id mints a new one.
func ParseProfileRef(id, name string) (ProfileRef, error) {
	if id == "" {
		return NewProfileRef(name), nil
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return ProfileRef{}, fmt.Errorf("invalid profile id %q: %w", id, err)
	}
	return ProfileRef{ID: parsed, Name: name}, nil
}

// Attached reports whether a profile is referenced
func (p ProfileRef) Attached() bool {
	return p.ID != uuid.Nil
}

// IsZero lets encoders omit unattached profiles
func (p ProfileRef) IsZero() bool {
	return !p.Attached()
}

func (p ProfileRef) String() string {
	if !p.Attached() {
		return "none"
	}
	if p.Name == "" {
		return p.ID.String()
	}
	return fmt.Sprintf("%s (%s)", p.Name, p.ID)
}

type profileDoc struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name,omitempty"`
}

// MarshalYAML writes the id as a plain string
func (p ProfileRef) MarshalYAML() (any, error) {
	return profileDoc{ID: p.ID.String(), Name: p.Name}, nil
}

// UnmarshalYAML reads a profile written by MarshalYAML
func (p *ProfileRef) UnmarshalYAML(value *yaml.Node) error {
	var doc profileDoc
	if err := value.Decode(&doc); err != nil {
		return err
	}
	if doc.ID == "" {
		*p = ProfileRef{}
		return nil
	}
	ref, err := ParseProfileRef(doc.ID, doc.Name)
	if err != nil {
		return err
	}
	*p = ref
	return nil
}
