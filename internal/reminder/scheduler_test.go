package reminder

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"studymate/internal/notify"
	"studymate/internal/storage"
	"studymate/internal/task"
	"studymate/internal/timeutil"
)

type fixture struct {
	kv    *storage.Memory
	store *task.Store
	sched *Scheduler
	now   time.Time
}

func newFixture(t *testing.T, now time.Time, tasks ...task.Task) *fixture {
	t.Helper()
	f := &fixture{kv: storage.NewMemory(), now: now}
	f.store = task.NewStore(f.kv, "")
	for _, tk := range tasks {
		if err := f.store.Add(tk); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}
	f.sched = New(f.store, timeutil.New(func() time.Time { return f.now }))
	return f
}

func due(id, date, clock string) task.Task {
	return task.Task{ID: id, Title: "Task " + id, Date: date, Time: clock, Priority: task.PriorityMedium}
}

func TestDueSoonFiresOnce(t *testing.T) {
	now := time.Date(2024, 1, 10, 13, 15, 0, 0, time.UTC)
	f := newFixture(t, now, due("a", "2024-01-10", "14:00"))

	notes, err := f.sched.Check()
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if len(notes) != 1 || notes[0].Severity != notify.Warning {
		t.Fatalf("expected one warning, got %v", notes)
	}
	if !strings.Contains(notes[0].Message, `"Task a"`) {
		t.Errorf("expected title in message, got %q", notes[0].Message)
	}
	got, _ := f.store.FindByID("a")
	if !got.Reminded {
		t.Error("expected reminded latch")
	}
	if persisted := task.NewStore(f.kv, "").Load(); !persisted[0].Reminded {
		t.Error("expected latch to be persisted")
	}

	f.now = now.Add(30 * time.Minute)
	notes, _ = f.sched.Check()
	if len(notes) != 0 {
		t.Errorf("expected no repeat, got %v", notes)
	}

	// once reminded, the overdue window is never considered
	f.now = now.Add(time.Hour)
	notes, _ = f.sched.Check()
	if len(notes) != 0 {
		t.Errorf("expected no overdue reminder after due-soon, got %v", notes)
	}
}

func TestOverdueFiresOnce(t *testing.T) {
	now := time.Date(2024, 1, 10, 14, 20, 0, 0, time.UTC)
	f := newFixture(t, now, due("a", "2024-01-10", "14:00"))

	notes, _ := f.sched.Check()
	if len(notes) != 1 || notes[0].Severity != notify.Error {
		t.Fatalf("expected one overdue notice, got %v", notes)
	}
	got, _ := f.store.FindByID("a")
	if !got.OverdueReminded || got.Reminded {
		t.Errorf("expected only overdue latch, got %+v", got)
	}

	f.now = now.Add(10 * time.Minute)
	if notes, _ := f.sched.Check(); len(notes) != 0 {
		t.Errorf("expected no repeat, got %v", notes)
	}
}

func TestUntimedTasksUseNineOClock(t *testing.T) {
	f := newFixture(t, time.Date(2024, 1, 10, 8, 30, 0, 0, time.UTC), due("a", "2024-01-10", ""))
	notes, _ := f.sched.Check()
	if len(notes) != 1 || notes[0].Severity != notify.Warning {
		t.Errorf("expected due-soon for 09:00, got %v", notes)
	}
}

func TestWindowEdges(t *testing.T) {
	dueAt := time.Date(2024, 1, 10, 14, 0, 0, 0, time.UTC)
	tests := []struct {
		name   string
		offset time.Duration
		want   int
		sev    notify.Severity
	}{
		{"exactly one hour before", -time.Hour, 1, notify.Warning},
		{"just outside before", -time.Hour - time.Second, 0, 0},
		{"at due instant", 0, 0, 0},
		{"exactly one hour after", time.Hour, 1, notify.Error},
		{"just outside after", time.Hour + time.Second, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, dueAt.Add(tt.offset), due("a", "2024-01-10", "14:00"))
			notes, _ := f.sched.Check()
			if len(notes) != tt.want {
				t.Fatalf("expected %d notices, got %v", tt.want, notes)
			}
			if tt.want == 1 && notes[0].Severity != tt.sev {
				t.Errorf("expected %s, got %s", tt.sev, notes[0].Severity)
			}
		})
	}
}

func TestSkipsCompletedAndLatched(t *testing.T) {
	now := time.Date(2024, 1, 10, 13, 30, 0, 0, time.UTC)
	done := due("done", "2024-01-10", "14:00")
	done.Completed = true
	latched := due("latched", "2024-01-10", "14:00")
	latched.Reminded = true
	undated := due("undated", "", "14:00")
	f := newFixture(t, now, done, latched, undated)

	notes, err := f.sched.Check()
	if err != nil || len(notes) != 0 {
		t.Errorf("expected nothing, got %v (%v)", notes, err)
	}
	if _, ok, _ := f.kv.Get(task.DefaultKey); ok {
		t.Error("expected no write when nothing latched")
	}
}

func TestLatchSurvivesSaveFailure(t *testing.T) {
	now := time.Date(2024, 1, 10, 13, 30, 0, 0, time.UTC)
	f := newFixture(t, now, due("a", "2024-01-10", "14:00"))
	f.kv.FailWrites = true

	notes, err := f.sched.Check()
	if len(notes) != 1 {
		t.Fatalf("expected the notice regardless, got %v", notes)
	}
	if !errors.Is(err, storage.ErrUnavailable) {
		t.Errorf("expected write error, got %v", err)
	}
	if notes, _ := f.sched.Check(); len(notes) != 0 {
		t.Errorf("expected in-memory latch to hold, got %v", notes)
	}
}

func TestRunChecksImmediatelyAndStops(t *testing.T) {
	now := time.Date(2024, 1, 10, 13, 30, 0, 0, time.UTC)
	f := newFixture(t, now, due("a", "2024-01-10", "14:00"))

	ctx, cancel := context.WithCancel(context.Background())
	got := make(chan notify.Notification, 4)
	done := make(chan error, 1)
	go func() {
		done <- f.sched.Run(ctx, time.Hour, func(n notify.Notification) { got <- n }, nil)
	}()

	select {
	case n := <-got:
		if n.Severity != notify.Warning {
			t.Errorf("expected warning, got %s", n.Severity)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("expected an immediate check")
	}
	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop")
	}
}

func TestRunReloadsBeforeEachScan(t *testing.T) {
	now := time.Date(2024, 1, 10, 13, 15, 0, 0, time.UTC)
	kv := storage.NewMemory()
	seed := task.NewStore(kv, "")
	seed.Add(due("a", "2024-01-10", "14:00"))
	if err := seed.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	store := task.NewStore(kv, "")
	store.Load()
	sched := New(store, timeutil.Fixed(now), WithReload())

	// another process adds a task after the scheduler loaded
	other := task.NewStore(kv, "")
	other.Load()
	other.Add(due("b", "2024-01-10", "18:00"))
	if err := other.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	got := make(chan notify.Notification, 4)
	done := make(chan error, 1)
	go func() {
		done <- sched.Run(ctx, time.Hour, func(n notify.Notification) { got <- n }, nil)
	}()
	select {
	case <-got:
	case <-time.After(5 * time.Second):
		t.Fatal("expected an immediate check")
	}
	cancel()
	<-done

	persisted := task.NewStore(kv, "").Load()
	if len(persisted) != 2 {
		t.Fatalf("expected both tasks persisted, got %+v", persisted)
	}
	if !persisted[0].Reminded || persisted[1].Reminded {
		t.Errorf("expected only a latched, got %+v", persisted)
	}
}

func TestRunWithReloadSkipsUnreadableStore(t *testing.T) {
	now := time.Date(2024, 1, 10, 13, 15, 0, 0, time.UTC)
	kv := &lockedKV{Memory: storage.NewMemory()}
	seed := task.NewStore(kv, "")
	seed.Add(due("a", "2024-01-10", "14:00"))
	if err := seed.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	kv.locked = true

	sched := New(task.NewStore(kv, ""), timeutil.Fixed(now), WithReload())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var notes []notify.Notification
	sched.Run(ctx, time.Hour, func(n notify.Notification) { notes = append(notes, n) }, nil)

	if len(notes) != 0 {
		t.Errorf("expected no reminders without readable tasks, got %v", notes)
	}
	kv.locked = false
	if got := task.NewStore(kv, "").Load(); len(got) != 1 {
		t.Errorf("expected stored task untouched, got %d", len(got))
	}
}

type lockedKV struct {
	*storage.Memory
	locked bool
}

func (k *lockedKV) Get(key string) (string, bool, error) {
	if k.locked {
		return "", false, errors.New("database is locked")
	}
	return k.Memory.Get(key)
}
