// Package firestore implements the chat store on Cloud Firestore.
//
// Layout matches the original database: chats live in the
// users/{uid}/chats subcollection, the per-user record is the
// users/{uid} document itself. Field names are camelCase for
// compatibility with records written by earlier clients.
package firestore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/studyhall/studychat/internal/domain"
)

type Store struct {
	client *firestore.Client

	mu   sync.RWMutex
	user domain.UserID
}

// NewStore creates a Firestore store for the given project.
func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("%w: projectID is required for Firestore store", domain.ErrNotInitialized)
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

// WaitReady reports readiness immediately: the handshake happened in
// NewStore when the client was built.
func (s *Store) WaitReady(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) SetUser(id domain.UserID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = id
}

func (s *Store) currentUser() (domain.UserID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == "" {
		return "", domain.ErrNotAuthenticated
	}
	return s.user, nil
}

// ─────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────

func (s *Store) userDoc(uid domain.UserID) *firestore.DocumentRef {
	return s.client.Collection("users").Doc(string(uid))
}

func (s *Store) chatsCol(uid domain.UserID) *firestore.CollectionRef {
	return s.userDoc(uid).Collection("chats")
}

// ─────────────────────────────────────────
// Firestore Types
// ─────────────────────────────────────────

type chatDoc struct {
	ID        string         `firestore:"id"`
	Title     string         `firestore:"title"`
	Messages  []messageEntry `firestore:"messages"`
	Timestamp int64          `firestore:"timestamp"`
	UserID    string         `firestore:"userId"`
	CreatedAt time.Time      `firestore:"createdAt,serverTimestamp"`
	UpdatedAt time.Time      `firestore:"updatedAt,serverTimestamp"`
}

type messageEntry struct {
	ID        string `firestore:"id"`
	Role      string `firestore:"role"`
	Content   string `firestore:"content"`
	Timestamp int64  `firestore:"timestamp"`
}

type userDoc struct {
	Email       string         `firestore:"email"`
	DisplayName string         `firestore:"displayName"`
	PhotoURL    string         `firestore:"photoURL"`
	CreatedAt   time.Time      `firestore:"createdAt,serverTimestamp"`
	UpdatedAt   time.Time      `firestore:"updatedAt,serverTimestamp"`
	Preferences map[string]any `firestore:"preferences"`
}

func toMessageEntries(msgs []*domain.Message) []messageEntry {
	out := make([]messageEntry, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, messageEntry{
			ID:        string(m.ID),
			Role:      string(m.Role),
			Content:   m.Content,
			Timestamp: m.Timestamp,
		})
	}
	return out
}

func fromMessageEntries(entries []messageEntry) []*domain.Message {
	out := make([]*domain.Message, 0, len(entries))
	for _, e := range entries {
		out = append(out, &domain.Message{
			ID:        domain.MessageID(e.ID),
			Role:      domain.Role(e.Role),
			Content:   e.Content,
			Timestamp: e.Timestamp,
		})
	}
	return out
}

// ─────────────────────────────────────────
// ChatStore implementation
// ─────────────────────────────────────────

// Ping writes, reads back, and removes a probe document under the
// scoped user, verifying both connectivity and security-rule
// permissions.
func (s *Store) Ping(ctx context.Context) error {
	uid, err := s.currentUser()
	if err != nil {
		return err
	}

	probe := s.userDoc(uid).Collection("connectivity").NewDoc()
	if _, err := probe.Set(ctx, map[string]any{
		"userId":    string(uid),
		"timestamp": firestore.ServerTimestamp,
	}); err != nil {
		return fmt.Errorf("%w: firestore probe write: %v", domain.ErrRemote, err)
	}
	if _, err := probe.Get(ctx); err != nil {
		return fmt.Errorf("%w: firestore probe read: %v", domain.ErrRemote, err)
	}
	if _, err := probe.Delete(ctx); err != nil {
		return fmt.Errorf("%w: firestore probe delete: %v", domain.ErrRemote, err)
	}
	return nil
}

// EnsureUserRecord creates users/{uid} with an empty preferences map
// if the document does not exist yet. CreatedAt is set once, never
// touched on later sign-ins.
func (s *Store) EnsureUserRecord(ctx context.Context, profile domain.UserProfile) error {
	uid, err := s.currentUser()
	if err != nil {
		return err
	}

	ref := s.userDoc(uid)
	_, err = ref.Get(ctx)
	if err == nil {
		return nil
	}
	if status.Code(err) != codes.NotFound {
		return fmt.Errorf("%w: firestore get user record: %v", domain.ErrRemote, err)
	}

	// Zero CreatedAt/UpdatedAt become server timestamps via the
	// serverTimestamp tag option.
	doc := userDoc{
		Email:       profile.Email,
		DisplayName: profile.DisplayName,
		PhotoURL:    profile.PhotoURL,
		Preferences: map[string]any{},
	}
	if _, err := ref.Create(ctx, doc); err != nil {
		// Another client may have created it between Get and Create.
		if status.Code(err) == codes.AlreadyExists {
			return nil
		}
		return fmt.Errorf("%w: firestore create user record: %v", domain.ErrRemote, err)
	}
	return nil
}

// SaveChat creates or updates the chat record, re-sending the full
// message list. CreatedAt is only written on create.
func (s *Store) SaveChat(ctx context.Context, chat *domain.ChatSession) (string, error) {
	uid, err := s.currentUser()
	if err != nil {
		return "", err
	}

	if chat.RemoteID != "" {
		update := map[string]any{
			"id":        string(chat.ID),
			"title":     chat.Title,
			"messages":  toMessageEntries(chat.Messages),
			"timestamp": chat.Timestamp,
			"userId":    string(uid),
			"updatedAt": firestore.ServerTimestamp,
		}
		if _, err := s.chatsCol(uid).Doc(chat.RemoteID).Set(ctx, update, firestore.MergeAll); err != nil {
			return "", fmt.Errorf("%w: firestore update chat: %v", domain.ErrRemote, err)
		}
		return chat.RemoteID, nil
	}

	doc := chatDoc{
		ID:        string(chat.ID),
		Title:     chat.Title,
		Messages:  toMessageEntries(chat.Messages),
		Timestamp: chat.Timestamp,
		UserID:    string(uid),
	}
	ref := s.chatsCol(uid).NewDoc()
	if _, err := ref.Create(ctx, doc); err != nil {
		return "", fmt.Errorf("%w: firestore create chat: %v", domain.ErrRemote, err)
	}
	return ref.ID, nil
}

// LoadChats fetches every chat in the user scope, newest update first
// at the source, and re-keys the result by the record's own chat id.
// Unscoped loads return an empty map rather than failing.
func (s *Store) LoadChats(ctx context.Context) (map[domain.ChatID]*domain.ChatSession, error) {
	out := make(map[domain.ChatID]*domain.ChatSession)

	uid, err := s.currentUser()
	if err != nil {
		return out, nil
	}

	iter := s.chatsCol(uid).OrderBy("updatedAt", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("%w: firestore load chats: %v", domain.ErrRemote, err)
		}

		var doc chatDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("%w: decode chatDoc: %v", domain.ErrRemote, err)
		}

		out[domain.ChatID(doc.ID)] = &domain.ChatSession{
			ID:        domain.ChatID(doc.ID),
			Title:     doc.Title,
			Messages:  fromMessageEntries(doc.Messages),
			Timestamp: doc.Timestamp,
			RemoteID:  snap.Ref.ID,
		}
	}
	return out, nil
}

func (s *Store) DeleteChat(ctx context.Context, remoteID string) error {
	uid, err := s.currentUser()
	if err != nil {
		return err
	}
	if remoteID == "" {
		return fmt.Errorf("%w: missing remote id", domain.ErrRemote)
	}

	if _, err := s.chatsCol(uid).Doc(remoteID).Delete(ctx); err != nil {
		return fmt.Errorf("%w: firestore delete chat: %v", domain.ErrRemote, err)
	}
	return nil
}

func (s *Store) SaveUserPreferences(ctx context.Context, prefs map[string]any) error {
	uid, err := s.currentUser()
	if err != nil {
		return err
	}

	update := map[string]any{
		"preferences": prefs,
		"updatedAt":   firestore.ServerTimestamp,
	}
	if _, err := s.userDoc(uid).Set(ctx, update, firestore.MergeAll); err != nil {
		return fmt.Errorf("%w: firestore save preferences: %v", domain.ErrRemote, err)
	}
	return nil
}

func (s *Store) LoadUserPreferences(ctx context.Context) (map[string]any, error) {
	uid, err := s.currentUser()
	if err != nil {
		return nil, nil
	}

	snap, err := s.userDoc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: firestore load preferences: %v", domain.ErrRemote, err)
	}

	var doc userDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("%w: decode userDoc: %v", domain.ErrRemote, err)
	}
	return doc.Preferences, nil
}
