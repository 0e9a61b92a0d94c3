package pool

import (
	"context"
	"encoding/json"
	"sync"
)

// Mock implements Service for testing.
type Mock struct {
	mu sync.Mutex

	Assignment *Assignment
	Ack        json.RawMessage

	// Recorded calls
	FetchCalls int
	Submitted  [][]string
	BigCalls   []bool

	// Error overrides
	FetchErr  error
	SubmitErr error
}

// NewMock creates a mock pool service with a usable default assignment.
func NewMock() *Mock {
	return &Mock{
		Assignment: &Assignment{
			ID:     "blk-421",
			Status: "assigned",
			Range: &Range{
				Start: "0x20000000000000000",
				End:   "0x3ffffffffffffffff",
			},
		},
		Ack: json.RawMessage(`{"accepted":true}`),
	}
}

func (m *Mock) FetchAssignment(_ context.Context, big bool) (*Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FetchCalls++
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	m.BigCalls = append(m.BigCalls, big)
	return m.Assignment, nil
}

func (m *Mock) SubmitKeys(_ context.Context, keys []string, big bool) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SubmitErr != nil {
		return nil, m.SubmitErr
	}
	if len(keys) == 0 {
		return nil, ErrEmptyBatch
	}
	batch := make([]string, len(keys))
	copy(batch, keys)
	m.Submitted = append(m.Submitted, batch)
	m.BigCalls = append(m.BigCalls, big)
	return m.Ack, nil
}
