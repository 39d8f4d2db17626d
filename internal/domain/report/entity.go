package report

import "time"

type Status string

const (
	StatusPending   Status = "pending"
	StatusResolved  Status = "resolved"
	StatusDismissed Status = "dismissed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusResolved, StatusDismissed:
		return true
	}
	return false
}

// Reasons accepted for a report.
var Reasons = []string{"spam", "inappropriate", "closed", "wrong_info", "fraud", "other"}

type Report struct {
	ID            string
	BusinessID    string
	BusinessName  string
	ReporterID    string
	ReporterEmail string
	Reason        string
	Description   string
	Status        Status
	CreatedAt     time.Time
}
