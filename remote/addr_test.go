package remote

import "testing"

func TestResolveAddrFromConfig(t *testing.T) {
	addr, err := ResolveAddr("", 9001)
	if err != nil {
		t.Fatalf("resolve addr: %v", err)
	}
	if addr != "127.0.0.1:9001" {
		t.Fatalf("expected config port addr, got %q", addr)
	}
}

func TestResolveAddrDefault(t *testing.T) {
	addr, err := ResolveAddr("  ", 0)
	if err != nil {
		t.Fatalf("resolve addr: %v", err)
	}
	if addr != "127.0.0.1:8089" {
		t.Fatalf("expected default addr, got %q", addr)
	}
}

func TestResolveAddrUsesExplicitPort(t *testing.T) {
	addr, err := ResolveAddr("9102", 9001)
	if err != nil {
		t.Fatalf("resolve addr: %v", err)
	}
	if addr != "127.0.0.1:9102" {
		t.Fatalf("expected explicit port addr, got %q", addr)
	}
}

func TestResolveAddrKeepsHostPort(t *testing.T) {
	addr, err := ResolveAddr("0.0.0.0:80", 0)
	if err != nil {
		t.Fatalf("resolve addr: %v", err)
	}
	if addr != "0.0.0.0:80" {
		t.Fatalf("expected host:port unchanged, got %q", addr)
	}
}

func TestResolveAddrRejectsBadPort(t *testing.T) {
	for _, input := range []string{"abc", "0", "70000"} {
		if _, err := ResolveAddr(input, 0); err == nil {
			t.Errorf("expected error for %q", input)
		}
	}
}
