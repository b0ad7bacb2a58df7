package evaluation

import "slices"

// periodTransitions lists the statuses each period status may move to. Moves
// go one step forward or one step back.
var periodTransitions = map[string][]string{
	PeriodStatusDraft:  {PeriodStatusActive},
	PeriodStatusActive: {PeriodStatusReview, PeriodStatusDraft},
	PeriodStatusReview: {PeriodStatusClosed, PeriodStatusActive},
	PeriodStatusClosed: {PeriodStatusReview},
}

func ValidPeriodStatus(status string) bool {
	return slices.Contains(PeriodStatuses, status)
}

func CanTransition(from, to string) bool {
	return slices.Contains(periodTransitions[from], to)
}

// CheckTransition returns ErrInvalidTransition for any move not in the
// lifecycle, including staying in place.
func CheckTransition(from, to string) error {
	if !ValidPeriodStatus(to) || !CanTransition(from, to) {
		return ErrInvalidTransition
	}
	return nil
}

// PeriodEditable reports whether evaluation records of a period in this status
// accept writes.
func PeriodEditable(status string) bool {
	return status == PeriodStatusActive || status == PeriodStatusReview
}

// CheckEvaluationWrite decides whether actor may change an evaluation in its
// current state.
func CheckEvaluationWrite(periodStatus string, ev Evaluation, actor Actor) error {
	if !PeriodEditable(periodStatus) {
		return ErrPeriodLocked
	}
	switch ev.Status {
	case StatusConfirmed:
		return ErrInvalidState
	case StatusSubmitted:
		if !actor.IsHR {
			return ErrInvalidState
		}
	}
	return nil
}

// CheckOwner lets HR act on any record and evaluators on their own.
func CheckOwner(ev Evaluation, actor Actor) error {
	if actor.IsHR {
		return nil
	}
	if actor.EmployeeID == "" || actor.EmployeeID != ev.EvaluatorID {
		return ErrNotEvaluator
	}
	return nil
}

func CheckSubmit(periodStatus string, ev Evaluation) error {
	if !PeriodEditable(periodStatus) {
		return ErrPeriodLocked
	}
	if ev.Status != StatusDraft {
		return ErrInvalidState
	}
	return nil
}

func CheckConfirm(periodStatus string, ev Evaluation) error {
	if periodStatus != PeriodStatusReview {
		return ErrPeriodLocked
	}
	if ev.Status != StatusSubmitted {
		return ErrInvalidState
	}
	return nil
}

func CheckReopen(periodStatus string, ev Evaluation) error {
	if periodStatus == PeriodStatusClosed {
		return ErrPeriodLocked
	}
	if ev.Status == StatusDraft {
		return ErrInvalidState
	}
	return nil
}

// ValidateRange checks a period's results score range.
func ValidateRange(lo, hi float64) error {
	if hi <= lo {
		return ErrInvalidScoreRange
	}
	return nil
}

// ValidateInput checks the shape of an evaluation payload.
func ValidateInput(in Input) error {
	if len(in.Projects) > MaxProjects {
		return ErrTooManyProjects
	}
	for _, p := range in.Projects {
		if len(p.Checks) > MaxDifficultyFlags {
			return ErrTooManyFlags
		}
		if p.Level != "" && !ValidLevel(p.Level) {
			return ErrInvalidLevel
		}
	}
	if in.Growth.Level != "" && !ValidLevel(in.Growth.Level) {
		return ErrInvalidLevel
	}
	return nil
}
