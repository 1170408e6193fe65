package task

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
)

// DefaultKey is the storage key the collection is persisted under.
const DefaultKey = "studyTasks"

var (
	ErrDuplicateID = errors.New("duplicate task id")
	// ErrNotLoaded is returned by Save after Load could not read the
	// stored blob, so the unread tasks are not overwritten.
	ErrNotLoaded = errors.New("stored tasks were not loaded")
)

// KV is a string blob store addressed by key.
type KV interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// Store owns the ordered task collection. Mutating methods only touch
// memory; Save writes the whole collection back.
type Store struct {
	kv      KV
	key     string
	tasks   []Task
	readErr error
}

func NewStore(kv KV, key string) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{kv: kv, key: key}
}

// Load replaces the in-memory collection with the persisted one. A missing
// or corrupt blob yields an empty collection. When the store itself cannot
// be read the collection is also empty, and Save refuses until a later Load
// succeeds.
func (s *Store) Load() []Task {
	s.tasks, s.readErr = nil, nil
	raw, ok, err := s.kv.Get(s.key)
	if err != nil {
		s.readErr = err
		log.Printf("Warning: could not read stored tasks under %q: %v", s.key, err)
		return s.All()
	}
	tasks, err := decode(raw, ok)
	if err != nil {
		log.Printf("Warning: discarding stored tasks under %q: %v", s.key, err)
		return s.All()
	}
	s.tasks = tasks
	return s.All()
}

func decode(raw string, ok bool) ([]Task, error) {
	if !ok || raw == "" {
		return nil, nil
	}
	var tasks []Task
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return tasks, nil
}

// Save serialises the full collection and replaces the stored blob.
func (s *Store) Save() error {
	if s.readErr != nil {
		return fmt.Errorf("%w: %w", ErrNotLoaded, s.readErr)
	}
	tasks := s.tasks
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	if err := s.kv.Set(s.key, string(data)); err != nil {
		return fmt.Errorf("write tasks: %w", err)
	}
	return nil
}

// All returns a copy of the collection in insertion order.
func (s *Store) All() []Task {
	out := make([]Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.Clone()
	}
	return out
}

func (s *Store) Len() int {
	return len(s.tasks)
}

func (s *Store) FindByID(id string) (Task, bool) {
	i := s.index(id)
	if i < 0 {
		return Task{}, false
	}
	return s.tasks[i].Clone(), true
}

func (s *Store) Add(t Task) error {
	if s.index(t.ID) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateID, t.ID)
	}
	s.tasks = append(s.tasks, t.Clone())
	return nil
}

// Replace swaps the record stored under id in place. The stored id and
// creation time always win over the incoming record.
func (s *Store) Replace(id string, t Task) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	t = t.Clone()
	t.ID = s.tasks[i].ID
	t.CreatedAt = s.tasks[i].CreatedAt
	s.tasks[i] = t
	return true
}

func (s *Store) Remove(id string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return true
}

func (s *Store) index(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}
