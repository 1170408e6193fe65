// Package task holds the task record and the store that owns the task
// collection and its persistence.
package task

import (
	"strings"
	"time"
)

// RecordVersion is stamped on every record written by the lifecycle.
const RecordVersion = "1.0"

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

var priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

func Priorities() []Priority {
	return append([]Priority(nil), priorities...)
}

// ParsePriority maps free text onto the closed priority set. Anything
// unrecognised, including the empty string, becomes medium.
func ParsePriority(v string) Priority {
	v = strings.ToLower(strings.TrimSpace(v))
	for _, p := range priorities {
		if string(p) == v {
			return p
		}
	}
	return PriorityMedium
}

// Task is a single study item. The JSON shape is the persisted format.
type Task struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Date            string     `json:"date"`
	Time            string     `json:"time"`
	Priority        Priority   `json:"priority"`
	Category        string     `json:"category"`
	Completed       bool       `json:"completed"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	LastModified    time.Time  `json:"lastModified"`
	Version         string     `json:"version,omitempty"`
	Reminded        bool       `json:"reminded,omitempty"`
	OverdueReminded bool       `json:"overdueReminded,omitempty"`
}

// Clone returns a copy that shares no pointers with t.
func (t Task) Clone() Task {
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		t.CompletedAt = &at
	}
	return t
}
