package todo

import (
	"testing"
	"time"
)

func TestGenerateID(t *testing.T) {
	timestamp := time.Date(2024, 7, 21, 8, 0, 0, 0, time.UTC)

	id := GenerateID(timestamp, SeedTodos())
	if id != timestamp.UnixMilli() {
		t.Errorf("expected id %d, got %d", timestamp.UnixMilli(), id)
	}
}

func TestGenerateID_BumpsPastExisting(t *testing.T) {
	timestamp := time.Date(2024, 7, 21, 8, 0, 0, 0, time.UTC)
	existing := []Todo{{ID: timestamp.UnixMilli(), Task: "taken"}}

	id := GenerateID(timestamp, existing)
	if id != timestamp.UnixMilli()+1 {
		t.Errorf("expected bumped id, got %d", id)
	}
}

func TestGenerateID_PreEpochClock(t *testing.T) {
	if id := GenerateID(time.Unix(-10, 0), nil); id != 1 {
		t.Errorf("expected 1 for a clock before the epoch, got %d", id)
	}
}
