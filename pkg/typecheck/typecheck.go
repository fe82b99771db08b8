// Package typecheck checks kind compatibility across a single induced data
// edge: do the producer's declared output kinds intersect the consumer's
// declared allowed kinds for that selector form.
package typecheck

import (
	"errors"
	"fmt"

	"github.com/vflowhq/workflow-engine/pkg/block"
)

// ErrMismatch is the sentinel every *Mismatch wraps, so callers can test
// for a type mismatch with errors.Is without depending on the concrete
// *Mismatch shape.
var ErrMismatch = errors.New("typecheck: producer kinds disjoint from consumer allowed kinds")

// Mismatch reports an incompatible data edge: consumer, property,
// selector, and the expected vs. actual kind sets.
type Mismatch struct {
	Consumer string
	Property string
	Selector string
	Expected block.KindSet
	Actual   block.KindSet
}

func (m *Mismatch) Error() string {
	return fmt.Sprintf("typecheck: %s.%s (%s): expected one of %v, got %v",
		m.Consumer, m.Property, m.Selector, m.Expected, m.Actual)
}

func (m *Mismatch) Unwrap() error { return ErrMismatch }

// Check reports whether expected and actual share a compatible kind
// (wildcard matches on either side). It returns nil on success and a
// *Mismatch describing the failure otherwise.
func Check(consumer, property, selectorRaw string, expected, actual block.KindSet) *Mismatch {
	if expected.Intersects(actual) {
		return nil
	}
	return &Mismatch{
		Consumer: consumer,
		Property: property,
		Selector: selectorRaw,
		Expected: expected,
		Actual:   actual,
	}
}
