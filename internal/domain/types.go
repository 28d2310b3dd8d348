package domain

type ChatID string
type MessageID string
type UserID string

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// User is the identity pushed by the identity provider on every auth
// transition. A nil *User means signed out.
type User struct {
	UID         UserID
	DisplayName string
	Email       string
	PhotoURL    string
}

// UserProfile is the per-user record kept in the remote store,
// created once on first sign-in if absent.
type UserProfile struct {
	Email       string
	DisplayName string
	PhotoURL    string
}
