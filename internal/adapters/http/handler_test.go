package httpadapter_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	httpadapter "github.com/studyhall/studychat/internal/adapters/http"
	"github.com/studyhall/studychat/internal/adapters/identity"
	memstore "github.com/studyhall/studychat/internal/adapters/storage/memory"
	"github.com/studyhall/studychat/internal/app/chat"
	"github.com/studyhall/studychat/internal/app/responder"
	"github.com/studyhall/studychat/internal/domain"
)

type nullRenderer struct{}

func (nullRenderer) RenderMessage(*domain.Message)        {}
func (nullRenderer) RenderChat(*domain.ChatSession)       {}
func (nullRenderer) RenderChatList([]*domain.ChatSession) {}
func (nullRenderer) ShowWelcome()                         {}

type testEnv struct {
	srv   http.Handler
	sched *replySink
}

// replySink collects scheduled assistant deliveries.
type replySink struct {
	fns []func()
}

func (s *replySink) schedule(d time.Duration, fn func()) {
	s.fns = append(s.fns, fn)
}

func (s *replySink) fireAll() {
	fns := s.fns
	s.fns = nil
	for _, fn := range fns {
		fn()
	}
}

func newTestServer(t *testing.T) *testEnv {
	t.Helper()

	store := memstore.NewChatStore()
	provider := identity.NewMemoryProvider()
	sched := &replySink{}

	manager := chat.NewManager(store, provider, responder.New(), nullRenderer{},
		chat.WithScheduler(sched.schedule),
		chat.WithDispatcher(func(fn func()) { fn() }),
	)
	if err := manager.Start(t.Context()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	return &testEnv{
		srv:   httpadapter.NewServer(manager, provider),
		sched: sched,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	e.srv.ServeHTTP(w, req)
	return w
}

func signUp(t *testing.T, e *testEnv) {
	t.Helper()
	w := e.do(t, http.MethodPost, "/auth/signup", map[string]string{
		"name":     "Test User",
		"email":    "test@example.com",
		"password": "Passw0rd!",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d, body=%s", w.Code, w.Body.String())
	}
}

func TestHealthz(t *testing.T) {
	e := newTestServer(t)

	w := e.do(t, http.MethodGet, "/healthz", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestSignUpValidationError(t *testing.T) {
	e := newTestServer(t)

	w := e.do(t, http.MethodPost, "/auth/signup", map[string]string{
		"name":     "Test User",
		"email":    "test@example.com",
		"password": "weak",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a weak password, got %d", w.Code)
	}
}

func TestMeRequiresSignIn(t *testing.T) {
	e := newTestServer(t)

	if w := e.do(t, http.MethodGet, "/auth/me", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 before sign-in, got %d", w.Code)
	}

	signUp(t, e)

	w := e.do(t, http.MethodGet, "/auth/me", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 after sign-up, got %d", w.Code)
	}
}

func TestSendMessageAndFetchChat(t *testing.T) {
	e := newTestServer(t)
	signUp(t, e)

	w := e.do(t, http.MethodPost, "/chats/messages", map[string]string{
		"text": "what is dbms used for",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d, body=%s", w.Code, w.Body.String())
	}

	var sent struct {
		ID       string `json:"id"`
		Title    string `json:"title"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &sent); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(sent.Messages) != 1 || sent.Messages[0].Role != "user" {
		t.Fatalf("expected only the user message immediately after send")
	}

	// Assistant reply lands after the simulated delay.
	e.sched.fireAll()

	w = e.do(t, http.MethodGet, "/chats/"+sent.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var fetched struct {
		Messages []struct {
			Role string `json:"role"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &fetched); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(fetched.Messages) != 2 || fetched.Messages[1].Role != "assistant" {
		t.Fatalf("expected assistant reply on re-fetch, got %+v", fetched.Messages)
	}
}

func TestListChats(t *testing.T) {
	e := newTestServer(t)
	signUp(t, e)

	e.do(t, http.MethodPost, "/chats/messages", map[string]string{"text": "first"})
	e.do(t, http.MethodPost, "/chats/new", nil)
	e.do(t, http.MethodPost, "/chats/messages", map[string]string{"text": "second"})

	w := e.do(t, http.MethodGet, "/chats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var list []struct {
		Title     string `json:"title"`
		Persisted bool   `json:"persisted"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 chats, got %d", len(list))
	}
	for _, c := range list {
		if !c.Persisted {
			t.Fatalf("expected chats persisted while signed in: %+v", c)
		}
	}
}

func TestSendMessageEmptyText(t *testing.T) {
	e := newTestServer(t)
	signUp(t, e)

	w := e.do(t, http.MethodPost, "/chats/messages", map[string]string{"text": "   "})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank text, got %d", w.Code)
	}
}

func TestDeleteChatFlow(t *testing.T) {
	e := newTestServer(t)
	signUp(t, e)

	w := e.do(t, http.MethodPost, "/chats/messages", map[string]string{"text": "delete me"})
	var sent struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &sent); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	// Unconfirmed deletes are rejected.
	w = e.do(t, http.MethodDelete, "/chats/"+sent.ID, map[string]bool{"confirmed": false})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unconfirmed delete, got %d", w.Code)
	}

	w = e.do(t, http.MethodDelete, "/chats/"+sent.ID, map[string]bool{"confirmed": true})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d, body=%s", w.Code, w.Body.String())
	}

	if w := e.do(t, http.MethodGet, "/chats/"+sent.ID, nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", w.Code)
	}
}

func TestUnknownChatIs404(t *testing.T) {
	e := newTestServer(t)

	if w := e.do(t, http.MethodGet, "/chats/nope", nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
