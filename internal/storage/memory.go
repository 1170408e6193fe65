package storage

import "errors"

var ErrUnavailable = errors.New("storage unavailable")

// Memory is an in-process key/value store. Setting FailWrites makes every
// Set return ErrUnavailable.
type Memory struct {
	data       map[string]string
	FailWrites bool
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(key string) (string, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(key, value string) error {
	if m.FailWrites {
		return ErrUnavailable
	}
	m.data[key] = value
	return nil
}
