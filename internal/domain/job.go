package domain

import "time"

type Status string

const (
	StatusApplied      Status = "Applied"
	StatusInterviewing Status = "Interviewing"
	StatusOffer        Status = "Offer"
	StatusRejected     Status = "Rejected"
	StatusAccepted     Status = "Accepted"
)

func (s Status) Valid() bool {
	switch s {
	case StatusApplied, StatusInterviewing, StatusOffer, StatusRejected, StatusAccepted:
		return true
	}
	return false
}

// JobImport is the record one import produces. It is always structurally
// complete: empty string means "nothing extracted", never a missing field.
type JobImport struct {
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Salary      string    `json:"salary"`
	Description string    `json:"description"`
	Notes       string    `json:"notes"`
	URL         string    `json:"url"`
	DateApplied time.Time `json:"dateApplied"`
	Status      Status    `json:"status"`
	IsGhostJob  bool      `json:"isGhostJob"`
}
