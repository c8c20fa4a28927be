// Package duration parses the relative time expressions the CLI accepts for
// the query window start, e.g. "4320H" for 4320 hours before now.
package duration

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDuration indicates a malformed or non-positive duration
// expression. It aborts the run before any fetching starts.
var ErrInvalidDuration = errors.New("invalid duration expression")

// Unit is the supported set of duration units. Kept small and explicit:
// the traffic data only ever uses hours, days exist for convenience.
type Unit string

const (
	UnitHours Unit = "H"
	UnitDays  Unit = "D"
)

func (u Unit) length() time.Duration {
	switch u {
	case UnitHours:
		return time.Hour
	case UnitDays:
		return 24 * time.Hour
	}
	return 0
}

// Spec is a parsed relative offset: a positive magnitude plus a unit,
// always interpreted as "N units before now at resolution time".
type Spec struct {
	Magnitude int
	Unit      Unit
}

// Parse converts an expression like "4320H" or "30d" into a Spec.
func Parse(expr string) (Spec, error) {
	trimmed := strings.TrimSpace(expr)
	if len(trimmed) < 2 {
		return Spec{}, fmt.Errorf("%w: %q", ErrInvalidDuration, expr)
	}

	var unit Unit
	switch strings.ToUpper(trimmed[len(trimmed)-1:]) {
	case "H":
		unit = UnitHours
	case "D":
		unit = UnitDays
	default:
		return Spec{}, fmt.Errorf("%w: unrecognized unit in %q", ErrInvalidDuration, expr)
	}

	magnitude, err := strconv.Atoi(trimmed[:len(trimmed)-1])
	if err != nil {
		return Spec{}, fmt.Errorf("%w: %q", ErrInvalidDuration, expr)
	}
	if magnitude <= 0 {
		return Spec{}, fmt.Errorf("%w: magnitude must be positive in %q", ErrInvalidDuration, expr)
	}

	return Spec{Magnitude: magnitude, Unit: unit}, nil
}

// Duration returns the absolute length of the offset.
func (s Spec) Duration() time.Duration {
	return time.Duration(s.Magnitude) * s.Unit.length()
}

// Resolve returns the absolute start instant for the given reference "now".
// Now is injected so tests never need to mock the process clock.
func (s Spec) Resolve(now time.Time) time.Time {
	return now.Add(-s.Duration())
}

func (s Spec) String() string {
	return fmt.Sprintf("%d%s", s.Magnitude, s.Unit)
}
