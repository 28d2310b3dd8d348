// Package memory is an in-memory implementation of the chat store for
// local mode and tests. It is NOT persistent.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/studyhall/studychat/internal/domain"
)

type userRecords struct {
	profile *domain.UserProfile
	prefs   map[string]any
	chats   map[string]*chatRecord // keyed by remote id
}

type chatRecord struct {
	chat      *domain.ChatSession
	userID    domain.UserID
	createdAt time.Time
	updatedAt time.Time
}

// ChatStore keeps everything in process memory, mirroring the remote
// store contract: records live under their owning user and carry a
// store-assigned remote identifier distinct from the chat's own id.
type ChatStore struct {
	mu    sync.RWMutex
	user  domain.UserID
	users map[domain.UserID]*userRecords
	now   func() time.Time
}

func NewChatStore() *ChatStore {
	return &ChatStore{
		users: make(map[domain.UserID]*userRecords),
		now:   time.Now,
	}
}

// WaitReady never blocks: an in-memory store is ready at construction.
func (s *ChatStore) WaitReady(ctx context.Context) error {
	return ctx.Err()
}

func (s *ChatStore) SetUser(id domain.UserID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = id
}

func (s *ChatStore) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == "" {
		return domain.ErrNotAuthenticated
	}
	return nil
}

func (s *ChatStore) EnsureUserRecord(ctx context.Context, profile domain.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == "" {
		return domain.ErrNotAuthenticated
	}
	rec := s.recordsLocked(s.user)
	if rec.profile == nil {
		p := profile
		rec.profile = &p
	}
	return nil
}

func (s *ChatStore) SaveChat(ctx context.Context, chat *domain.ChatSession) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == "" {
		return "", domain.ErrNotAuthenticated
	}
	rec := s.recordsLocked(s.user)

	if chat.RemoteID != "" {
		existing, ok := rec.chats[chat.RemoteID]
		if !ok {
			return "", domain.ErrChatNotFound
		}
		existing.chat = chat.Clone()
		existing.updatedAt = s.now()
		return chat.RemoteID, nil
	}

	remoteID := uuid.NewString()
	rec.chats[remoteID] = &chatRecord{
		chat:      chat.Clone(),
		userID:    s.user,
		createdAt: s.now(),
		updatedAt: s.now(),
	}
	return remoteID, nil
}

// LoadChats returns all chats for the scoped user keyed by the chat's
// own id, with the remote identifier filled in. Unscoped loads return
// an empty map.
func (s *ChatStore) LoadChats(ctx context.Context) (map[domain.ChatID]*domain.ChatSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[domain.ChatID]*domain.ChatSession)
	if s.user == "" {
		return out, nil
	}
	rec, ok := s.users[s.user]
	if !ok {
		return out, nil
	}

	for remoteID, r := range rec.chats {
		chat := r.chat.Clone()
		chat.RemoteID = remoteID
		out[chat.ID] = chat
	}
	return out, nil
}

func (s *ChatStore) DeleteChat(ctx context.Context, remoteID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == "" {
		return domain.ErrNotAuthenticated
	}
	rec := s.recordsLocked(s.user)
	if _, ok := rec.chats[remoteID]; !ok {
		return domain.ErrChatNotFound
	}
	delete(rec.chats, remoteID)
	return nil
}

func (s *ChatStore) SaveUserPreferences(ctx context.Context, prefs map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == "" {
		return domain.ErrNotAuthenticated
	}
	rec := s.recordsLocked(s.user)
	rec.prefs = make(map[string]any, len(prefs))
	for k, v := range prefs {
		rec.prefs[k] = v
	}
	return nil
}

func (s *ChatStore) LoadUserPreferences(ctx context.Context) (map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == "" {
		return nil, nil
	}
	rec, ok := s.users[s.user]
	if !ok || rec.prefs == nil {
		return nil, nil
	}
	out := make(map[string]any, len(rec.prefs))
	for k, v := range rec.prefs {
		out[k] = v
	}
	return out, nil
}

// RecordCount reports how many remote records exist for a user. Test
// helper for duplicate-create checks.
func (s *ChatStore) RecordCount(userID domain.UserID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.users[userID]
	if !ok {
		return 0
	}
	return len(rec.chats)
}

// Seed inserts a chat record for a user directly, bypassing the scope.
// Test helper for pre-populating remote state.
func (s *ChatStore) Seed(userID domain.UserID, chat *domain.ChatSession) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.recordsLocked(userID)
	remoteID := uuid.NewString()
	rec.chats[remoteID] = &chatRecord{
		chat:      chat.Clone(),
		userID:    userID,
		createdAt: s.now(),
		updatedAt: s.now(),
	}
	return remoteID
}

func (s *ChatStore) recordsLocked(userID domain.UserID) *userRecords {
	rec, ok := s.users[userID]
	if !ok {
		rec = &userRecords{chats: make(map[string]*chatRecord)}
		s.users[userID] = rec
	}
	return rec
}
