package pool

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMockFetchAssignment(t *testing.T) {
	mock := NewMock()
	ctx := context.Background()

	a, err := mock.FetchAssignment(ctx, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ID != "blk-421" {
		t.Errorf("assignment ID = %s, want blk-421", a.ID)
	}
	if !a.Range.Valid() {
		t.Error("default assignment range should be valid")
	}
	if mock.FetchCalls != 1 {
		t.Errorf("FetchCalls = %d, want 1", mock.FetchCalls)
	}
}

func TestMockFetchAssignmentError(t *testing.T) {
	mock := NewMock()
	mock.FetchErr = fmt.Errorf("connection refused")

	_, err := mock.FetchAssignment(context.Background(), false)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestMockSubmitKeys(t *testing.T) {
	mock := NewMock()

	ack, err := mock.SubmitKeys(context.Background(), []string{"0xaa", "0xbb"}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ack) == 0 {
		t.Error("expected a non-empty ack")
	}
	if len(mock.Submitted) != 1 || mock.Submitted[0][0] != "0xaa" {
		t.Error("keys not recorded")
	}
	if len(mock.BigCalls) != 1 || !mock.BigCalls[0] {
		t.Error("big flag not recorded")
	}
}

func TestMockSubmitKeysEmpty(t *testing.T) {
	mock := NewMock()

	_, err := mock.SubmitKeys(context.Background(), nil, false)
	if !errors.Is(err, ErrEmptyBatch) {
		t.Fatalf("error = %v, want ErrEmptyBatch", err)
	}
	if len(mock.Submitted) != 0 {
		t.Error("empty batch must not be recorded")
	}
}

func TestRangeValid(t *testing.T) {
	tests := []struct {
		name string
		rng  *Range
		want bool
	}{
		{"both bounds", &Range{Start: "0x1", End: "0x2"}, true},
		{"missing start", &Range{End: "0x2"}, false},
		{"missing end", &Range{Start: "0x1"}, false},
		{"empty", &Range{}, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		if got := tt.rng.Valid(); got != tt.want {
			t.Errorf("%s: Valid() = %v, want %v", tt.name, got, tt.want)
		}
	}
}
