package view

import (
	"testing"
	"time"

	"studymate/internal/task"
	"studymate/internal/timeutil"
)

var now = time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

func engine() Engine {
	return Engine{Oracle: timeutil.Fixed(now)}
}

func mk(id, title, category, date, clock string, done bool) task.Task {
	return task.Task{ID: id, Title: title, Category: category, Date: date, Time: clock, Completed: done, Priority: task.PriorityMedium}
}

func ids(tasks []task.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFilterTasksSearch(t *testing.T) {
	tasks := []task.Task{
		mk("1", "Read ch.4", "Biology", "2024-01-10", "", false),
		mk("2", "Math hw", "Algebra", "2024-01-10", "", false),
	}
	got := engine().FilterTasks(tasks, "bio", FilterAll)
	if !equal(ids(got), []string{"1"}) {
		t.Errorf("expected [1], got %v", ids(got))
	}

	got = engine().FilterTasks(tasks, "MATH", FilterAll)
	if !equal(ids(got), []string{"2"}) {
		t.Errorf("expected title match [2], got %v", ids(got))
	}

	got = engine().FilterTasks(tasks, "", FilterAll)
	if len(got) != 2 {
		t.Errorf("expected empty query to match all, got %v", ids(got))
	}
}

func TestFilterTasksStatus(t *testing.T) {
	tasks := []task.Task{
		mk("late", "Essay", "English", "2024-01-09", "", false),
		mk("done-late", "Quiz", "English", "2024-01-09", "", true),
		mk("future", "Lab", "Chemistry", "2024-01-12", "", false),
		mk("done", "Notes", "Chemistry", "2024-01-12", "", true),
	}
	tests := []struct {
		filter StatusFilter
		want   []string
	}{
		{FilterAll, []string{"late", "done-late", "future", "done"}},
		{FilterPending, []string{"late", "future"}},
		{FilterCompleted, []string{"done-late", "done"}},
		{FilterOverdue, []string{"late"}},
	}
	for _, tt := range tests {
		got := engine().FilterTasks(tasks, "", tt.filter)
		if !equal(ids(got), tt.want) {
			t.Errorf("filter %s: expected %v, got %v", tt.filter, tt.want, ids(got))
		}
	}

	// search and status compose
	got := engine().FilterTasks(tasks, "chem", FilterPending)
	if !equal(ids(got), []string{"future"}) {
		t.Errorf("expected [future], got %v", ids(got))
	}
}

func TestComputeStatsEmpty(t *testing.T) {
	got := engine().ComputeStats(nil)
	if got != (Stats{}) {
		t.Errorf("expected zero stats, got %+v", got)
	}
}

func TestComputeStats(t *testing.T) {
	tasks := []task.Task{
		mk("1", "a", "", "2024-01-10", "", true),
		mk("2", "b", "", "2024-01-10", "11:00", false),
		mk("3", "c", "", "2024-01-16", "", false),
		mk("4", "d", "", "2023-12-01", "", false),
		mk("5", "e", "", "2023-12-01", "", true),
		mk("6", "f", "", "2024-02-01", "", false),
	}
	got := engine().ComputeStats(tasks)
	want := Stats{Total: 6, Completed: 2, ProgressPercent: 33, Today: 2, Week: 3, Overdue: 2}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestProgressRounding(t *testing.T) {
	tasks := []task.Task{
		mk("1", "a", "", "2024-03-01", "", true),
		mk("2", "b", "", "2024-03-01", "", true),
		mk("3", "c", "", "2024-03-01", "", false),
	}
	if got := engine().ComputeStats(tasks).ProgressPercent; got != 67 {
		t.Errorf("expected 67, got %d", got)
	}
	tasks = tasks[1:]
	if got := engine().ComputeStats(tasks).ProgressPercent; got != 50 {
		t.Errorf("expected 50, got %d", got)
	}
}

func TestBuildTimelineOrder(t *testing.T) {
	tasks := []task.Task{
		mk("late", "x", "", "2024-01-12", "08:00", false),
		mk("first-tie", "x", "", "2024-01-11", "09:30", true),
		mk("midnight", "x", "", "2024-01-11", "", false),
		mk("second-tie", "x", "", "2024-01-11", "09:30", false),
		mk("explicit-midnight", "x", "", "2024-01-11", "00:00", false),
	}
	got := engine().BuildTimeline(tasks)
	want := []string{"midnight", "explicit-midnight", "first-tie", "second-tie", "late"}
	if !equal(ids(got.Entries), want) {
		t.Errorf("expected %v, got %v", want, ids(got.Entries))
	}
	if ids(tasks)[0] != "late" {
		t.Error("expected input slice to be left untouched")
	}
}

func TestBuildTimelineEmpty(t *testing.T) {
	got := engine().BuildTimeline(nil)
	if !got.Empty() {
		t.Error("expected empty timeline sentinel")
	}
}

func TestRowsOverdueFlag(t *testing.T) {
	rows := engine().Rows([]task.Task{
		mk("1", "a", "", "2024-01-09", "", false),
		mk("2", "b", "", "2024-01-09", "", true),
	})
	if !rows[0].Overdue || rows[1].Overdue {
		t.Errorf("unexpected overdue flags %v %v", rows[0].Overdue, rows[1].Overdue)
	}
}

func TestSnapshotStatsIgnoreFilters(t *testing.T) {
	tasks := []task.Task{
		mk("1", "Read ch.4", "Biology", "2024-01-10", "", false),
		mk("2", "Math hw", "Algebra", "2024-01-10", "", true),
	}
	snap := engine().Snapshot(tasks, "bio", FilterCompleted)
	if len(snap.Rows) != 0 {
		t.Errorf("expected no rows, got %d", len(snap.Rows))
	}
	if snap.Stats.Total != 2 || len(snap.Timeline.Entries) != 2 {
		t.Errorf("expected stats and timeline over all tasks, got %+v / %d", snap.Stats, len(snap.Timeline.Entries))
	}
}

func TestParseStatusFilter(t *testing.T) {
	for _, f := range Filters() {
		got, err := ParseStatusFilter(string(f))
		if err != nil || got != f {
			t.Errorf("ParseStatusFilter(%q) = %q, %v", f, got, err)
		}
	}
	if got, err := ParseStatusFilter(""); err != nil || got != FilterAll {
		t.Errorf("expected empty to mean all, got %q %v", got, err)
	}
	if _, err := ParseStatusFilter("archived"); err == nil {
		t.Error("expected error for unknown filter")
	}
	if FilterOverdue.Next() != FilterAll || FilterAll.Next() != FilterPending {
		t.Error("unexpected filter cycle")
	}
}
