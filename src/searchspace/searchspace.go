// Package searchspace derives the size of the sizing search space from a portfolio:
// how many capacity points each component contributes and how many combinations
// an optimizer would have to evaluate.
package searchspace

import (
	"math"
	"math/bits"

	"github.com/ryansname/gridsizer/src/portfolio"
)

// UnitCostSeconds is the assumed optimizer cost of evaluating one combination
const UnitCostSeconds = 0.05

// Band thresholds for search space feedback
const (
	SmallMax  = 10
	MediumMax = 50
)

// Band is advisory feedback on how large a search space is
type Band int

const (
	BandSmall Band = iota
	BandMedium
	BandLarge
)

func (b Band) String() string {
	switch b {
	case BandSmall:
		return "small"
	case BandMedium:
		return "medium"
	case BandLarge:
		return "large"
	default:
		return "small"
	}
}

// MarshalText encodes the band by name
func (b Band) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// Classify buckets a count: <=10 small, 11-50 medium, >50 large
func Classify(count int) Band {
	switch {
	case count <= SmallMax:
		return BandSmall
	case count <= MediumMax:
		return BandMedium
	default:
		return BandLarge
	}
}

// OptionCount returns how many capacity points a component contributes.
// A disabled component is the single "absent" option. Otherwise the count is
// floor((max-min)/step)+1; when the range is not a multiple of step the last
// point falls short of max rather than being rounded up to it.
func OptionCount(spec portfolio.Spec) int {
	b := spec.Common()
	if !b.Enabled || b.Capacity.Step <= 0 {
		return 1
	}
	n := math.Floor((b.Capacity.Max-b.Capacity.Min)/b.Capacity.Step) + 1
	if !(n >= 1) {
		return 1
	}
	// float64(math.MaxInt) rounds up to 2^63, so anything at or above it saturates
	if n >= float64(math.MaxInt) {
		return math.MaxInt
	}
	return int(n)
}

// TotalCombinations is the product of every component's option count, saturating
// at math.MaxInt. Never 0.
func TotalCombinations(snap portfolio.Snapshot) int {
	total := 1
	for _, spec := range snap.Specs() {
		total = mulSaturating(total, OptionCount(spec))
	}
	return total
}

// mulSaturating multiplies two positive counts, clamping to math.MaxInt
func mulSaturating(a, b int) int {
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	if hi != 0 || lo > math.MaxInt {
		return math.MaxInt
	}
	return int(lo)
}

// EstimatedRuntimeMinutes is a linear runtime estimate with a one minute floor
func EstimatedRuntimeMinutes(total int) float64 {
	return max(1, float64(total)*UnitCostSeconds/60)
}

// ComponentCount is one component's contribution to the search space
type ComponentCount struct {
	Kind    string `json:"kind"`
	Enabled bool   `json:"enabled"`
	Options int    `json:"options"`
	Band    Band   `json:"band"`
}

// Report summarises the search space of a snapshot
type Report struct {
	Components       []ComponentCount `json:"components"`
	Total            int              `json:"total"`
	EstimatedMinutes float64          `json:"estimated_minutes"`
	Band             Band             `json:"band"`
	AllDisabled      bool             `json:"all_disabled"`
}

// BuildReport derives the search space report for a snapshot
func BuildReport(snap portfolio.Snapshot) Report {
	specs := snap.Specs()
	report := Report{
		Components:  make([]ComponentCount, 0, len(specs)),
		Total:       TotalCombinations(snap),
		AllDisabled: !snap.AnyEnabled(),
	}
	for _, spec := range specs {
		options := OptionCount(spec)
		report.Components = append(report.Components, ComponentCount{
			Kind:    spec.Kind().String(),
			Enabled: spec.Common().Enabled,
			Options: options,
			Band:    Classify(options),
		})
	}
	report.EstimatedMinutes = EstimatedRuntimeMinutes(report.Total)
	report.Band = Classify(report.Total)
	return report
}

// Options returns the option count for a kind, or 1 if it is not in the report
func (r Report) Options(k portfolio.Kind) int {
	for _, c := range r.Components {
		if c.Kind == k.String() {
			return c.Options
		}
	}
	return 1
}
