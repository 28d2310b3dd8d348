package domain

import "context"

// ChatStore defines chat persistence against the remote document
// store. All operations are namespaced by the current user scope; the
// scope is process-wide mutable state reset on every auth transition.
type ChatStore interface {
	// WaitReady blocks until the store is usable or ctx is done.
	WaitReady(ctx context.Context) error

	// SetUser sets the user scope. An empty id clears it.
	SetUser(id UserID)

	// Ping performs a best-effort connectivity and permission check
	// against the scoped store.
	Ping(ctx context.Context) error

	// EnsureUserRecord creates the per-user record if it does not
	// exist yet.
	EnsureUserRecord(ctx context.Context, profile UserProfile) error

	// SaveChat creates the remote record when the session has no
	// RemoteID, otherwise updates it in place. The full message list
	// is re-sent either way. Returns the remote record identifier.
	SaveChat(ctx context.Context, chat *ChatSession) (string, error)

	// LoadChats returns all chats in the current scope keyed by their
	// local ChatID, with RemoteID filled in. An unscoped store returns
	// an empty map rather than failing.
	LoadChats(ctx context.Context) (map[ChatID]*ChatSession, error)

	// DeleteChat removes the record with the given remote identifier.
	DeleteChat(ctx context.Context, remoteID string) error

	SaveUserPreferences(ctx context.Context, prefs map[string]any) error
	LoadUserPreferences(ctx context.Context) (map[string]any, error)
}

// IdentityProvider wraps the external identity service.
//
// Subscribers receive every auth transition in registration order, at
// least once per transition. There is no unsubscribe: subscription
// lifetime equals process lifetime.
type IdentityProvider interface {
	WaitReady(ctx context.Context) error

	// CurrentUser returns the signed-in user, or nil when signed out.
	CurrentUser() *User

	Subscribe(fn func(*User))

	SignUp(ctx context.Context, name, email, password string) (*User, error)
	SignIn(ctx context.Context, email, password string) (*User, error)
	SignOut(ctx context.Context) error
}

// Renderer receives render callbacks from the chat manager. The
// in-memory collection is the source of truth for what is rendered;
// implementations must not read the remote store.
type Renderer interface {
	// RenderMessage appends a single message to the open conversation.
	RenderMessage(msg *Message)

	// RenderChat replaces the conversation view with the session's
	// full message list in stored order.
	RenderChat(chat *ChatSession)

	// RenderChatList replaces the session list, already sorted by
	// creation time descending.
	RenderChatList(chats []*ChatSession)

	// ShowWelcome clears the conversation view.
	ShowWelcome()
}

// Responder maps a user utterance to a reply. The implementation is a
// static lookup with no state and no failure mode.
type Responder interface {
	Reply(input string) string
}
