package enums

import "fmt"

// JobStatus describes the allowed values for the `status` column in jobs.
type JobStatus string

const (
	JobStatusToBeScheduled JobStatus = "to_be_scheduled"
	JobStatusScheduled     JobStatus = "scheduled"
	JobStatusInProgress    JobStatus = "in_progress"
	JobStatusCompleted     JobStatus = "completed"
	JobStatusCancelled     JobStatus = "cancelled"
)

var validJobStatuses = []JobStatus{
	JobStatusToBeScheduled,
	JobStatusScheduled,
	JobStatusInProgress,
	JobStatusCompleted,
	JobStatusCancelled,
}

// jobStatusRank orders the linear delivery progression. Terminal states carry
// no rank and are handled explicitly by CanTransitionTo.
var jobStatusRank = map[JobStatus]int{
	JobStatusToBeScheduled: 0,
	JobStatusScheduled:     1,
	JobStatusInProgress:    2,
	JobStatusCompleted:     3,
}

// IsValid reports whether the value matches the canonical job status enum.
func (s JobStatus) IsValid() bool {
	for _, candidate := range validJobStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status permits no further transitions.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusCancelled
}

// CanTransitionTo reports whether the job may move from s to target. The
// progression is monotonic and non-skipping; cancelled is reachable from any
// non-terminal state. Writing the current status back is always allowed.
func (s JobStatus) CanTransitionTo(target JobStatus) bool {
	if !target.IsValid() {
		return false
	}
	if s == target {
		return true
	}
	if s.IsTerminal() {
		return false
	}
	if target == JobStatusCancelled {
		return true
	}
	from, ok := jobStatusRank[s]
	if !ok {
		return false
	}
	to, ok := jobStatusRank[target]
	if !ok {
		return false
	}
	return to == from+1
}

// ParseJobStatus converts the raw string to JobStatus.
func ParseJobStatus(value string) (JobStatus, error) {
	for _, candidate := range validJobStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid job status %q", value)
}
