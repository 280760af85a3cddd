package obras

import "fmt"

// IsValid reports whether the status is a known lifecycle state.
func (s WorkStatus) IsValid() bool {
	switch s {
	case WorkStatusDraft, WorkStatusPublished:
		return true
	default:
		return false
	}
}

// statusForDraft returns the initial status of a newly created work.
func statusForDraft(isDraft bool) WorkStatus {
	if isDraft {
		return WorkStatusDraft
	}
	return WorkStatusPublished
}

// transitionStatus returns the status a work moves to when asked to go from
// current to target. Staying in the same state is allowed and is a no-op.
// There is no edge back from published to draft.
func transitionStatus(current, target WorkStatus) (WorkStatus, error) {
	if !current.IsValid() {
		return current, fmt.Errorf("%w: unknown status %s", ErrInvalidStatusTransition, current)
	}
	switch {
	case current == target:
		return current, nil
	case current == WorkStatusDraft && target == WorkStatusPublished:
		return target, nil
	case current == WorkStatusPublished && target == WorkStatusDraft:
		return current, fmt.Errorf("%w: published works cannot return to draft", ErrInvalidStatusTransition)
	default:
		return current, fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, current, target)
	}
}
