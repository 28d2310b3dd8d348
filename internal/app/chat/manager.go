// Package chat owns the in-memory chat collection and its
// synchronization with the remote store.
package chat

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/studyhall/studychat/internal/domain"
	"github.com/studyhall/studychat/internal/observability"
)

// Manager is the chat session manager. It holds the current-session
// pointer and the chat collection, appends messages, schedules the
// simulated assistant reply, and reconciles the collection with the
// remote store.
//
// The in-memory collection is the source of truth for rendering; the
// remote store is a durability mirror. Public operations are
// serialized by a mutex since Go hosts are not single-threaded.
type Manager struct {
	store     domain.ChatStore
	identity  domain.IdentityProvider
	responder domain.Responder
	renderer  domain.Renderer

	// Seams for tests and alternative hosts.
	now        func() time.Time
	replyDelay func() time.Duration
	schedule   func(d time.Duration, fn func())
	runAsync   func(fn func())

	mu      sync.Mutex
	chats   map[domain.ChatID]*domain.ChatSession
	current *domain.ChatSession
	user    *domain.User
}

// Option customizes a Manager. The defaults are the production wall
// clock, timer, and goroutine dispatch.
type Option func(*Manager)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithReplyDelay overrides the assistant reply delay.
func WithReplyDelay(fn func() time.Duration) Option {
	return func(m *Manager) { m.replyDelay = fn }
}

// WithScheduler overrides deferred execution of the assistant reply.
func WithScheduler(fn func(d time.Duration, f func())) Option {
	return func(m *Manager) { m.schedule = fn }
}

// WithDispatcher overrides how background work (the persistence pass)
// is started. Tests pass a synchronous dispatcher.
func WithDispatcher(fn func(f func())) Option {
	return func(m *Manager) { m.runAsync = fn }
}

func NewManager(
	store domain.ChatStore,
	identity domain.IdentityProvider,
	responder domain.Responder,
	renderer domain.Renderer,
	opts ...Option,
) *Manager {
	m := &Manager{
		store:     store,
		identity:  identity,
		responder: responder,
		renderer:  renderer,
		now:       time.Now,
		chats:     make(map[domain.ChatID]*domain.ChatSession),
	}
	m.replyDelay = defaultReplyDelay(rand.New(rand.NewSource(time.Now().UnixNano())))
	m.schedule = func(d time.Duration, fn func()) { time.AfterFunc(d, fn) }
	m.runAsync = func(fn func()) { go fn() }

	for _, opt := range opts {
		opt(m)
	}
	return m
}

// defaultReplyDelay draws uniformly from [1500ms, 2500ms), the
// simulated assistant latency.
func defaultReplyDelay(r *rand.Rand) func() time.Duration {
	return func() time.Duration {
		return 1500*time.Millisecond + time.Duration(r.Int63n(int64(time.Second)))
	}
}

// Start waits for both collaborators to become ready, subscribes to
// auth transitions, and applies the current auth state once.
func (m *Manager) Start(ctx context.Context) error {
	if err := m.store.WaitReady(ctx); err != nil {
		return fmt.Errorf("chat store not ready: %w", err)
	}
	if err := m.identity.WaitReady(ctx); err != nil {
		return fmt.Errorf("identity provider not ready: %w", err)
	}

	m.identity.Subscribe(func(user *domain.User) {
		m.onAuthStateChanged(context.Background(), user)
	})
	m.onAuthStateChanged(ctx, m.identity.CurrentUser())
	return nil
}

// NewChat clears the current-session pointer. The session itself is
// created lazily on the first message, so nothing is stored or
// persisted here.
func (m *Manager) NewChat() {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()

	m.renderer.ShowWelcome()
}

// SendMessage appends a user message to the current session, creating
// the session first if none is open, and schedules the assistant
// reply. Blank input is a no-op. The persistence pass runs in the
// background; its failures never reach the caller.
func (m *Manager) SendMessage(ctx context.Context, text string) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return
	}

	m.mu.Lock()

	if m.current == nil {
		chat := &domain.ChatSession{
			ID:        newChatID(m.now()),
			Title:     deriveTitle(trimmed),
			Timestamp: m.now().UnixMilli(),
		}
		m.chats[chat.ID] = chat
		m.current = chat
	}

	chatID := m.current.ID
	userMsg := m.appendLocked(m.current, domain.RoleUser, trimmed)

	m.mu.Unlock()

	m.renderer.RenderMessage(userMsg)

	// The reply text is computed now; only its delivery is deferred,
	// simulating assistant latency. Delivery cannot be cancelled by a
	// later delete, so the target session is re-looked-up on fire.
	reply := m.responder.Reply(trimmed)
	m.schedule(m.replyDelay(), func() {
		m.deliverReply(chatID, reply)
	})

	// The pass must survive the caller: request-scoped contexts are
	// cancelled as soon as the handler returns, which would kill the
	// remote write mid-flight. Values (request id) still flow through.
	bg := context.WithoutCancel(ctx)
	m.runAsync(func() {
		if err := m.Sync(bg); err != nil {
			observability.LoggerFromContext(bg).Error("failed to persist chats", "error", err)
		}
		m.renderChatList()
	})
}

// deliverReply appends the assistant message when the timer fires. If
// the session was deleted in the meantime the reply is dropped.
func (m *Manager) deliverReply(chatID domain.ChatID, reply string) {
	m.mu.Lock()
	chat, ok := m.chats[chatID]
	if !ok {
		m.mu.Unlock()
		return
	}
	msg := m.appendLocked(chat, domain.RoleAssistant, reply)
	render := m.current != nil && m.current.ID == chatID
	m.mu.Unlock()

	if render {
		m.renderer.RenderMessage(msg)
	}
}

func (m *Manager) appendLocked(chat *domain.ChatSession, role domain.Role, content string) *domain.Message {
	ts := m.now().UnixMilli()
	msg := &domain.Message{
		ID:        domain.MessageID(strconv.FormatInt(ts, 10)),
		Role:      role,
		Content:   content,
		Timestamp: ts,
	}
	chat.Messages = append(chat.Messages, msg)
	return msg
}

// LoadChat makes the chat with the given id current and re-renders its
// message list in stored order. An unknown id is a no-op with no
// render.
func (m *Manager) LoadChat(id domain.ChatID) error {
	m.mu.Lock()
	chat, ok := m.chats[id]
	var snap *domain.ChatSession
	if ok {
		m.current = chat
		snap = chat.Clone()
	}
	m.mu.Unlock()

	if !ok {
		return domain.ErrChatNotFound
	}
	m.renderer.RenderChat(snap)
	return nil
}

// DeleteChat removes a chat. The confirmed flag stands in for the user
// confirmation prompt; without it nothing happens.
//
// When the chat has a remote record and a user is signed in, the
// remote delete goes first: if it fails the local entry stays and the
// error is returned, keeping local and remote state consistent.
func (m *Manager) DeleteChat(ctx context.Context, id domain.ChatID, confirmed bool) error {
	if !confirmed {
		return nil
	}

	// RemoteID is read under the lock: a concurrent Sync pass may be
	// adopting it at the same time.
	m.mu.Lock()
	chat, ok := m.chats[id]
	authed := m.user != nil
	remoteID := ""
	if ok {
		remoteID = chat.RemoteID
	}
	m.mu.Unlock()
	if !ok {
		return domain.ErrChatNotFound
	}

	log := observability.LoggerFromContext(ctx).With("chat_id", id)

	if authed && remoteID != "" {
		if err := m.store.DeleteChat(ctx, remoteID); err != nil {
			log.Error("failed to delete remote chat", "error", err)
			return fmt.Errorf("deleting remote chat: %w", err)
		}
	}

	m.mu.Lock()
	delete(m.chats, id)
	wasCurrent := m.current != nil && m.current.ID == id
	if wasCurrent {
		m.current = nil
	}
	m.mu.Unlock()

	if wasCurrent {
		m.renderer.ShowWelcome()
	}
	m.renderChatList()
	return nil
}

// Sync is the reconciliation pass: it persists the entire collection,
// entry by entry. Sessions without a remote record are created and
// adopt the returned identifier; the rest are updated with their full
// current message list. Not a diff — every pass re-sends everything,
// which makes it idempotent but not incremental.
//
// A single failed entry is logged and skipped; the pass continues. The
// returned error only reflects a completely unusable store.
func (m *Manager) Sync(ctx context.Context) error {
	type entry struct {
		live *domain.ChatSession
		snap *domain.ChatSession
	}

	m.mu.Lock()
	if m.user == nil {
		m.mu.Unlock()
		return nil
	}
	// Clone under the lock: a send racing this pass must not mutate
	// the message list mid-write.
	entries := make([]entry, 0, len(m.chats))
	for _, chat := range m.chats {
		entries = append(entries, entry{live: chat, snap: chat.Clone()})
	}
	m.mu.Unlock()

	log := observability.LoggerFromContext(ctx)

	for _, e := range entries {
		remoteID, err := m.store.SaveChat(ctx, e.snap)
		if err != nil {
			log.Error("failed to save chat", "chat_id", e.snap.ID, "error", err)
			continue
		}
		if !e.snap.Persisted() {
			m.mu.Lock()
			e.live.RemoteID = remoteID
			m.mu.Unlock()
		}
	}
	return nil
}

// Chats returns the collection in presentation order, newest first.
// The sessions are deep copies: the live collection keeps mutating
// after this returns (scheduled replies, remote-id adoption), so live
// pointers must never leave the lock.
func (m *Manager) Chats() []*domain.ChatSession {
	m.mu.Lock()
	out := make([]*domain.ChatSession, 0, len(m.chats))
	for _, chat := range m.chats {
		out = append(out, chat.Clone())
	}
	m.mu.Unlock()

	domain.SortChats(out)
	return out
}

// CurrentChat returns a deep copy of the open session, or nil when
// none is open.
func (m *Manager) CurrentChat() *domain.ChatSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil
	}
	return m.current.Clone()
}

// CurrentUser returns the cached auth state.
func (m *Manager) CurrentUser() *domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

// onAuthStateChanged handles every identity transition.
//
// Sign-in: scope the store to the user, run best-effort connectivity
// and user-record checks, then replace the whole collection with the
// remote load. Sign-out: clear the scope and the collection. Either
// way the session list is re-rendered.
func (m *Manager) onAuthStateChanged(ctx context.Context, user *domain.User) {
	log := observability.LoggerFromContext(ctx)

	m.mu.Lock()
	m.user = user
	m.current = nil
	m.mu.Unlock()

	if user != nil {
		log.Info("user signed in", "uid", user.UID)
		m.store.SetUser(user.UID)

		if err := m.store.Ping(ctx); err != nil {
			log.Error("store connectivity check failed", "error", err)
		}
		if err := m.store.EnsureUserRecord(ctx, domain.UserProfile{
			Email:       user.Email,
			DisplayName: user.DisplayName,
			PhotoURL:    user.PhotoURL,
		}); err != nil {
			log.Error("failed to ensure user record", "error", err)
		}

		chats, err := m.store.LoadChats(ctx)
		if err != nil {
			log.Error("failed to load chats", "error", err)
			chats = map[domain.ChatID]*domain.ChatSession{}
		}

		m.mu.Lock()
		m.chats = chats
		m.mu.Unlock()
		log.Info("chats loaded", "count", len(chats))
	} else {
		log.Info("user signed out, clearing chats")
		m.store.SetUser("")

		m.mu.Lock()
		m.chats = make(map[domain.ChatID]*domain.ChatSession)
		m.mu.Unlock()
	}

	m.renderChatList()
}

func (m *Manager) renderChatList() {
	m.renderer.RenderChatList(m.Chats())
}

// newChatID generates the locally scoped session identifier. It is
// opaque; only its uniqueness matters.
func newChatID(now time.Time) domain.ChatID {
	return domain.ChatID(fmt.Sprintf("chat_%d_%s", now.UnixMilli(), uuid.NewString()[:8]))
}

// deriveTitle truncates the first message to 30 characters with an
// ellipsis.
func deriveTitle(firstMessage string) string {
	runes := []rune(firstMessage)
	if len(runes) <= 30 {
		return firstMessage
	}
	return string(runes[:30]) + "..."
}
