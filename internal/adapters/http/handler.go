package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/studyhall/studychat/internal/app/chat"
	"github.com/studyhall/studychat/internal/domain"
)

type Server struct {
	manager  *chat.Manager
	identity domain.IdentityProvider
}

func NewServer(manager *chat.Manager, identity domain.IdentityProvider) http.Handler {
	s := &Server{manager: manager, identity: identity}
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", s.handleHealthz)

	// /auth/signup, /auth/signin, /auth/signout, /auth/me
	mux.HandleFunc("/auth/", s.handleAuth)

	// /chats          → GET: list chats
	// /chats/new      → POST: open a fresh chat
	// /chats/messages → POST: send a message on the open chat
	// /chats/{id}     → GET: open and read a chat, DELETE: delete it
	mux.HandleFunc("/chats", s.handleChats)
	mux.HandleFunc("/chats/", s.handleChatWithID)

	return chainMiddlewares(mux, withLogging, withCORS)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type signUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	UID         string `json:"uid"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	PhotoURL    string `json:"photo_url,omitempty"`
}

type chatSummaryResponse struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Timestamp    int64  `json:"timestamp"`
	MessageCount int    `json:"message_count"`
	Persisted    bool   `json:"persisted"`
}

type messageResponse struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}

type chatResponse struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Timestamp int64             `json:"timestamp"`
	Messages  []messageResponse `json:"messages"`
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

type deleteChatRequest struct {
	Confirmed bool `json:"confirmed"`
}

// ─────────────────────────────────────────────
// Auth handlers
// ─────────────────────────────────────────────

func (s *Server) handleAuth(w http.ResponseWriter, r *http.Request) {
	switch strings.TrimPrefix(r.URL.Path, "/auth/") {
	case "signup":
		s.requirePost(w, r, s.handleSignUp)
	case "signin":
		s.requirePost(w, r, s.handleSignIn)
	case "signout":
		s.requirePost(w, r, s.handleSignOut)
	case "me":
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		s.handleMe(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) requirePost(w http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	next(w, r)
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	user, err := s.identity.SignUp(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	user, err := s.identity.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if err := s.identity.SignOut(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user := s.identity.CurrentUser()
	if user == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not signed in"})
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// ─────────────────────────────────────────────
// Chat handlers
// ─────────────────────────────────────────────

func (s *Server) handleChats(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListChats(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleChatWithID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/chats/")
	if path == "" || strings.Contains(path, "/") {
		http.NotFound(w, r)
		return
	}

	switch path {
	case "new":
		s.requirePost(w, r, s.handleNewChat)
		return
	case "messages":
		s.requirePost(w, r, s.handleSendMessage)
		return
	}

	id := domain.ChatID(path)
	switch r.Method {
	case http.MethodGet:
		s.handleGetChat(w, r, id)
	case http.MethodDelete:
		s.handleDeleteChat(w, r, id)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleListChats(w http.ResponseWriter, r *http.Request) {
	chats := s.manager.Chats()
	out := make([]chatSummaryResponse, 0, len(chats))
	for _, c := range chats {
		out = append(out, chatSummaryResponse{
			ID:           string(c.ID),
			Title:        c.Title,
			Timestamp:    c.Timestamp,
			MessageCount: len(c.Messages),
			Persisted:    c.Persisted(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleNewChat(w http.ResponseWriter, r *http.Request) {
	s.manager.NewChat()
	writeJSON(w, http.StatusOK, map[string]string{"status": "new chat"})
}

// handleSendMessage appends the user message and returns the chat
// snapshot as it stands. The assistant reply lands after the simulated
// delay; clients pick it up by re-fetching the chat.
func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		badRequest(w, "text is required")
		return
	}

	s.manager.SendMessage(r.Context(), req.Text)

	current := s.manager.CurrentChat()
	if current == nil {
		internalError(w, errors.New("no current chat after send"))
		return
	}
	writeJSON(w, http.StatusOK, toChatResponse(current))
}

func (s *Server) handleGetChat(w http.ResponseWriter, r *http.Request, id domain.ChatID) {
	if err := s.manager.LoadChat(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toChatResponse(s.manager.CurrentChat()))
}

func (s *Server) handleDeleteChat(w http.ResponseWriter, r *http.Request, id domain.ChatID) {
	var req deleteChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if !req.Confirmed {
		badRequest(w, "deletion must be confirmed")
		return
	}

	if err := s.manager.DeleteChat(r.Context(), id, true); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ─────────────────────────────────────────────
// Response helpers
// ─────────────────────────────────────────────

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		UID:         string(u.UID),
		DisplayName: u.DisplayName,
		Email:       u.Email,
		PhotoURL:    u.PhotoURL,
	}
}

func toChatResponse(c *domain.ChatSession) chatResponse {
	msgs := make([]messageResponse, 0, len(c.Messages))
	for _, m := range c.Messages {
		msgs = append(msgs, messageResponse{
			ID:        string(m.ID),
			Role:      string(m.Role),
			Content:   m.Content,
			Timestamp: m.Timestamp,
		})
	}
	return chatResponse{
		ID:        string(c.ID),
		Title:     c.Title,
		Timestamp: c.Timestamp,
		Messages:  msgs,
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeError maps domain errors onto HTTP statuses. Validation and
// delete failures carry their message through; everything else stays
// generic.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrChatNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "chat not found"})
	case errors.Is(err, domain.ErrNotAuthenticated):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not signed in"})
	case errors.Is(err, domain.ErrRemote):
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
	default:
		internalError(w, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": msg,
	})
}

func internalError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": "internal server error",
	})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
		"error": "method not allowed",
	})
}
