package portfolio

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// LoadPreset reads a YAML portfolio. Missing sections keep their defaults.
func LoadPreset(r io.Reader) (Snapshot, error) {
	snap := DefaultSnapshot()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&snap); err != nil && err != io.EOF {
		return Snapshot{}, fmt.Errorf("decoding preset: %w", err)
	}
	if err := snap.Validate(); err != nil {
		return Snapshot{}, fmt.Errorf("invalid preset: %w", err)
	}
	return snap, nil
}

// WritePreset writes snap as YAML in the format LoadPreset reads
func WritePreset(w io.Writer, snap Snapshot) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encoding preset: %w", err)
	}
	return enc.Close()
}
