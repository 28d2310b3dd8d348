package responder_test

import (
	"strings"
	"testing"

	"github.com/studyhall/studychat/internal/app/responder"
)

func TestKeywordMatchAnywhereInInput(t *testing.T) {
	r := responder.New()

	reply := r.Reply("what is dbms used for")
	if !strings.HasPrefix(reply, "**DBMS Normalization**") {
		t.Fatalf("expected canned DBMS reply, got %q", reply[:40])
	}

	// Case-insensitive
	if got := r.Reply("Explain DBMS please"); got != reply {
		t.Fatalf("expected same canned reply regardless of case")
	}
}

func TestFirstKeywordInTableOrderWins(t *testing.T) {
	r := responder.New()

	// Contains both "oop" and "dbms"; dbms is listed first.
	reply := r.Reply("is oop related to dbms")
	if !strings.HasPrefix(reply, "**DBMS Normalization**") {
		t.Fatalf("expected DBMS reply to win, got %q", reply[:40])
	}
}

func TestFallbackEchoesInput(t *testing.T) {
	r := responder.New()

	reply := r.Reply("xyz123")
	if !strings.Contains(reply, `"xyz123"`) {
		t.Fatalf("expected fallback to echo the question, got %q", reply)
	}
	if strings.HasPrefix(reply, "**") {
		t.Fatalf("expected fallback, got a canned reply")
	}
}

func TestAllTopicsCovered(t *testing.T) {
	r := responder.New()

	for _, keyword := range []string{"dbms", "oop", "data structures", "networking"} {
		reply := r.Reply("tell me about " + keyword)
		if strings.Contains(reply, "Could you please be more specific") {
			t.Fatalf("keyword %q fell through to the fallback", keyword)
		}
	}
}
