package command

import (
	"fmt"
	"math"
)

// FoundResult is the immutable outcome of mapping parts to a command.
type FoundResult struct {
	description *Description
	labels      []string
	arguments   []string
	difference  float64
	status      ResultStatus
}

// NewFoundResult creates a result. The label and argument slices are copied.
func NewFoundResult(desc *Description, labels, arguments []string, difference float64, status ResultStatus) *FoundResult {
	return &FoundResult{
		description: desc,
		labels:      copyStrings(labels),
		arguments:   copyStrings(arguments),
		difference:  difference,
		status:      status,
	}
}

// Description returns the matched or nearest command; may be nil.
func (r *FoundResult) Description() *Description { return r.description }

// Labels returns the parts consumed as labels.
func (r *FoundResult) Labels() []string { return copyStrings(r.labels) }

// Arguments returns the parts left over as arguments.
func (r *FoundResult) Arguments() []string { return copyStrings(r.arguments) }

// Difference returns the distance to the matched command; 0.0 is exact.
func (r *FoundResult) Difference() float64 { return r.difference }

// Status returns the result status.
func (r *FoundResult) Status() ResultStatus { return r.status }

// IsSuggestible reports whether an unknown label is close enough to its
// nearest command to be offered as a hint.
func (r *FoundResult) IsSuggestible(threshold float64) bool {
	return r.description != nil && r.difference < threshold
}

// CheckInvariant reports a status/description combination that cannot come out of the mapper.
func (r *FoundResult) CheckInvariant() error {
	if err := r.status.Validate(); err != nil {
		return err
	}
	if r.status.RequiresDescription() && r.description == nil {
		return fmt.Errorf("result with status %s has no description", r.status)
	}
	if r.status == StatusMissingBaseCommand && r.description != nil {
		return fmt.Errorf("result with status %s carries a description", r.status)
	}
	if r.difference < 0 || math.IsNaN(r.difference) {
		return fmt.Errorf("result difference must be non-negative, got %v", r.difference)
	}
	return nil
}

// String implements fmt.Stringer for logging.
func (r *FoundResult) String() string {
	cmd := "<none>"
	if r.description != nil {
		cmd = r.description.CommandPath()
	}
	return fmt.Sprintf("%s %s labels=%v args=%v diff=%.3f", r.status, cmd, r.labels, r.arguments, r.difference)
}

func copyStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
