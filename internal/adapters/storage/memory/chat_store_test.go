package memory_test

import (
	"context"
	"errors"
	"testing"

	memstore "github.com/studyhall/studychat/internal/adapters/storage/memory"
	"github.com/studyhall/studychat/internal/domain"
)

func sampleChat() *domain.ChatSession {
	return &domain.ChatSession{
		ID:        "chat_1_abc",
		Title:     "sample chat",
		Timestamp: 1000,
		Messages: []*domain.Message{
			{ID: "1000", Role: domain.RoleUser, Content: "hello", Timestamp: 1000},
			{ID: "1001", Role: domain.RoleAssistant, Content: "hi there", Timestamp: 1001},
		},
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := memstore.NewChatStore()
	store.SetUser("user-1")

	chat := sampleChat()
	remoteID, err := store.SaveChat(ctx, chat)
	if err != nil {
		t.Fatalf("SaveChat failed: %v", err)
	}
	if remoteID == "" {
		t.Fatalf("expected a remote id")
	}

	loaded, err := store.LoadChats(ctx)
	if err != nil {
		t.Fatalf("LoadChats failed: %v", err)
	}

	got, ok := loaded[chat.ID]
	if !ok {
		t.Fatalf("expected load keyed by the chat's own id")
	}
	if got.RemoteID != remoteID {
		t.Fatalf("expected remote id %q, got %q", remoteID, got.RemoteID)
	}
	if got.Title != chat.Title || got.Timestamp != chat.Timestamp {
		t.Fatalf("chat fields did not round-trip: %+v", got)
	}
	if len(got.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got.Messages))
	}
	for i, msg := range got.Messages {
		want := chat.Messages[i]
		if msg.ID != want.ID || msg.Role != want.Role || msg.Content != want.Content || msg.Timestamp != want.Timestamp {
			t.Fatalf("message %d did not round-trip: got %+v want %+v", i, msg, want)
		}
	}
}

func TestUpdateDoesNotDuplicate(t *testing.T) {
	ctx := context.Background()
	store := memstore.NewChatStore()
	store.SetUser("user-1")

	chat := sampleChat()
	remoteID, err := store.SaveChat(ctx, chat)
	if err != nil {
		t.Fatalf("SaveChat failed: %v", err)
	}

	chat.RemoteID = remoteID
	chat.Messages = append(chat.Messages, &domain.Message{
		ID: "1002", Role: domain.RoleUser, Content: "more", Timestamp: 1002,
	})

	again, err := store.SaveChat(ctx, chat)
	if err != nil {
		t.Fatalf("update SaveChat failed: %v", err)
	}
	if again != remoteID {
		t.Fatalf("update must keep the remote id, got %q", again)
	}
	if n := store.RecordCount("user-1"); n != 1 {
		t.Fatalf("expected 1 record after update, got %d", n)
	}

	loaded, _ := store.LoadChats(ctx)
	if len(loaded[chat.ID].Messages) != 3 {
		t.Fatalf("expected update to re-send the full message list")
	}
}

func TestUnscopedLoadReturnsEmpty(t *testing.T) {
	store := memstore.NewChatStore()

	loaded, err := store.LoadChats(context.Background())
	if err != nil {
		t.Fatalf("unscoped LoadChats must not fail: %v", err)
	}
	if len(loaded) != 0 {
		t.Fatalf("expected empty map, got %d entries", len(loaded))
	}
}

func TestSaveRequiresScope(t *testing.T) {
	store := memstore.NewChatStore()

	_, err := store.SaveChat(context.Background(), sampleChat())
	if !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestScopeSeparatesUsers(t *testing.T) {
	ctx := context.Background()
	store := memstore.NewChatStore()

	store.SetUser("user-1")
	if _, err := store.SaveChat(ctx, sampleChat()); err != nil {
		t.Fatalf("SaveChat failed: %v", err)
	}

	store.SetUser("user-2")
	loaded, err := store.LoadChats(ctx)
	if err != nil {
		t.Fatalf("LoadChats failed: %v", err)
	}
	if len(loaded) != 0 {
		t.Fatalf("user-2 must not see user-1's chats")
	}
}

func TestDeleteChat(t *testing.T) {
	ctx := context.Background()
	store := memstore.NewChatStore()
	store.SetUser("user-1")

	remoteID, err := store.SaveChat(ctx, sampleChat())
	if err != nil {
		t.Fatalf("SaveChat failed: %v", err)
	}

	if err := store.DeleteChat(ctx, remoteID); err != nil {
		t.Fatalf("DeleteChat failed: %v", err)
	}
	if n := store.RecordCount("user-1"); n != 0 {
		t.Fatalf("expected no records after delete, got %d", n)
	}

	if err := store.DeleteChat(ctx, remoteID); !errors.Is(err, domain.ErrChatNotFound) {
		t.Fatalf("expected ErrChatNotFound for a missing record, got %v", err)
	}
}

func TestPreferencesRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := memstore.NewChatStore()
	store.SetUser("user-1")

	prefs := map[string]any{"theme": "dark"}
	if err := store.SaveUserPreferences(ctx, prefs); err != nil {
		t.Fatalf("SaveUserPreferences failed: %v", err)
	}

	loaded, err := store.LoadUserPreferences(ctx)
	if err != nil {
		t.Fatalf("LoadUserPreferences failed: %v", err)
	}
	if loaded["theme"] != "dark" {
		t.Fatalf("expected preferences to round-trip, got %v", loaded)
	}
}
