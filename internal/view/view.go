package view

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"studymate/internal/task"
	"studymate/internal/timeutil"
)

const (
	NoTasksMessage    = "No tasks found"
	NoTimelineMessage = "No tasks in timeline"
)

type StatusFilter string

const (
	FilterAll       StatusFilter = "all"
	FilterPending   StatusFilter = "pending"
	FilterCompleted StatusFilter = "completed"
	FilterOverdue   StatusFilter = "overdue"
)

var filters = []StatusFilter{FilterAll, FilterPending, FilterCompleted, FilterOverdue}

func Filters() []StatusFilter {
	return append([]StatusFilter(nil), filters...)
}

func ParseStatusFilter(v string) (StatusFilter, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return FilterAll, nil
	}
	for _, f := range filters {
		if string(f) == v {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown status filter %q", v)
}

// Next cycles through the filters in display order.
func (f StatusFilter) Next() StatusFilter {
	for i, cand := range filters {
		if cand == f {
			return filters[(i+1)%len(filters)]
		}
	}
	return FilterAll
}

// Engine derives views from a task collection.
type Engine struct {
	Oracle timeutil.Oracle
}

func (e Engine) isOverdue(t task.Task) bool {
	return !t.Completed && e.Oracle.IsOverdue(t.Date, t.Time)
}

// FilterTasks applies the search query (title or category, case-insensitive)
// and then the status filter.
func (e Engine) FilterTasks(tasks []task.Task, query string, status StatusFilter) []task.Task {
	q := strings.ToLower(query)
	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if q != "" &&
			!strings.Contains(strings.ToLower(t.Title), q) &&
			!strings.Contains(strings.ToLower(t.Category), q) {
			continue
		}
		switch status {
		case FilterPending:
			if t.Completed {
				continue
			}
		case FilterCompleted:
			if !t.Completed {
				continue
			}
		case FilterOverdue:
			if !e.isOverdue(t) {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

type Stats struct {
	Total           int
	Completed       int
	ProgressPercent int
	Today           int
	Week            int
	Overdue         int
}

// ComputeStats counts over the whole collection; filters never apply.
func (e Engine) ComputeStats(tasks []task.Task) Stats {
	var s Stats
	s.Total = len(tasks)
	for _, t := range tasks {
		if t.Completed {
			s.Completed++
		}
		if e.Oracle.IsSameCalendarDay(t.Date) {
			s.Today++
		}
		if e.Oracle.IsWithinWeekWindow(t.Date) {
			s.Week++
		}
		if e.isOverdue(t) {
			s.Overdue++
		}
	}
	if s.Total > 0 {
		s.ProgressPercent = int(math.Round(float64(s.Completed) / float64(s.Total) * 100))
	}
	return s
}

// Row is a task as presented in the list, with its overdue flag resolved.
type Row struct {
	Task    task.Task
	Overdue bool
}

func (e Engine) Rows(tasks []task.Task) []Row {
	rows := make([]Row, len(tasks))
	for i, t := range tasks {
		rows[i] = Row{Task: t, Overdue: e.isOverdue(t)}
	}
	return rows
}

type Timeline struct {
	Entries []task.Task
}

// Empty reports the "no tasks" state, which callers render explicitly.
func (t Timeline) Empty() bool {
	return len(t.Entries) == 0
}

// BuildTimeline orders every task by date and time, untimed tasks at the
// start of their day. Equal instants keep collection order.
func (e Engine) BuildTimeline(tasks []task.Task) Timeline {
	if len(tasks) == 0 {
		return Timeline{}
	}
	type keyed struct {
		t   task.Task
		key int64
	}
	loc := e.Oracle.Now().Location()
	items := make([]keyed, len(tasks))
	for i, t := range tasks {
		items[i].t = t
		if at, err := timeutil.Instant(t.Date, t.Time, timeutil.TimelineDefaultTime, loc); err == nil {
			items[i].key = at.Unix()
		} else {
			items[i].key = math.MinInt64
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].key < items[j].key
	})
	out := Timeline{Entries: make([]task.Task, len(items))}
	for i, it := range items {
		out.Entries[i] = it.t
	}
	return out
}

// Snapshot is everything the rendering layer needs after a change.
type Snapshot struct {
	Rows     []Row
	Timeline Timeline
	Stats    Stats
	Query    string
	Filter   StatusFilter
}

func (e Engine) Snapshot(tasks []task.Task, query string, status StatusFilter) Snapshot {
	return Snapshot{
		Rows:     e.Rows(e.FilterTasks(tasks, query, status)),
		Timeline: e.BuildTimeline(tasks),
		Stats:    e.ComputeStats(tasks),
		Query:    query,
		Filter:   status,
	}
}
