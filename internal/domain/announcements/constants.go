package announcements

import "errors"

const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

var Severities = []string{SeverityInfo, SeverityWarning, SeverityCritical}

var (
	ErrNotFound        = errors.New("announcement not found")
	ErrTitleRequired   = errors.New("title is required")
	ErrInvalidSeverity = errors.New("severity must be info, warning or critical")
	ErrInvalidWindow   = errors.New("endsAt must be after startsAt")
)
