package ui

import "testing"

func TestTerminalWidthFallsBack(t *testing.T) {
	if width := TerminalWidth(); width <= 0 {
		t.Fatalf("expected positive width, got %d", width)
	}
}
