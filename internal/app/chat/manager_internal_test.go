package chat

import (
	"math/rand"
	"strings"
	"testing"
	"time"
)

func TestDeriveTitle(t *testing.T) {
	short := "What is normalization?"
	if got := deriveTitle(short); got != short {
		t.Fatalf("expected short title unchanged, got %q", got)
	}

	exact := strings.Repeat("a", 30)
	if got := deriveTitle(exact); got != exact {
		t.Fatalf("expected 30-char title unchanged, got %q", got)
	}

	long := strings.Repeat("a", 31)
	want := strings.Repeat("a", 30) + "..."
	if got := deriveTitle(long); got != want {
		t.Fatalf("expected truncated title %q, got %q", want, got)
	}
}

func TestDefaultReplyDelayRange(t *testing.T) {
	delay := defaultReplyDelay(rand.New(rand.NewSource(1)))

	for i := 0; i < 1000; i++ {
		d := delay()
		if d < 1500*time.Millisecond || d >= 2500*time.Millisecond {
			t.Fatalf("delay %v outside [1500ms, 2500ms)", d)
		}
	}
}

func TestNewChatIDsAreUnique(t *testing.T) {
	now := time.Now()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := string(newChatID(now))
		if seen[id] {
			t.Fatalf("duplicate chat id %q", id)
		}
		seen[id] = true
	}
}
