package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"

	"github.com/studyhall/studychat/internal/domain"
)

const signInEndpoint = "https://identitytoolkit.googleapis.com/v1/accounts:signInWithPassword"

// FirebaseProvider implements the identity port on Firebase
// Authentication. Account management goes through the Admin SDK;
// password verification goes through the Identity Toolkit REST API,
// which the Admin SDK does not expose.
type FirebaseProvider struct {
	authState

	client *auth.Client
	apiKey string
	http   *http.Client
}

func NewFirebaseProvider(ctx context.Context, projectID, apiKey string) (*FirebaseProvider, error) {
	if projectID == "" || apiKey == "" {
		return nil, fmt.Errorf("%w: projectID and apiKey are required for the firebase identity provider", domain.ErrNotInitialized)
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID})
	if err != nil {
		return nil, fmt.Errorf("creating firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating firebase auth client: %w", err)
	}

	return &FirebaseProvider{
		client: client,
		apiKey: apiKey,
		http:   &http.Client{Timeout: 15 * time.Second},
	}, nil
}

// WaitReady reports readiness immediately: the handshake happened in
// NewFirebaseProvider when the clients were built.
func (p *FirebaseProvider) WaitReady(ctx context.Context) error {
	return ctx.Err()
}

func (p *FirebaseProvider) SignUp(ctx context.Context, name, email, password string) (*domain.User, error) {
	if err := validateSignUp(name, email, password); err != nil {
		return nil, err
	}

	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(name)

	record, err := p.client.CreateUser(ctx, params)
	if err != nil {
		if auth.IsEmailAlreadyExists(err) {
			return nil, fmt.Errorf("%w: an account with this email already exists, please sign in instead", domain.ErrValidation)
		}
		return nil, fmt.Errorf("%w: creating account: %v", domain.ErrRemote, err)
	}

	user := userFromRecord(record)
	p.transition(user)
	return user, nil
}

func (p *FirebaseProvider) SignIn(ctx context.Context, email, password string) (*domain.User, error) {
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	localID, err := p.verifyPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}

	record, err := p.client.GetUser(ctx, localID)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching user profile: %v", domain.ErrRemote, err)
	}

	user := userFromRecord(record)
	p.transition(user)
	return user, nil
}

func (p *FirebaseProvider) SignOut(ctx context.Context) error {
	p.transition(nil)
	return nil
}

type signInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type signInResponse struct {
	LocalID string `json:"localId"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// verifyPassword calls accounts:signInWithPassword and returns the
// Firebase uid on success.
func (p *FirebaseProvider) verifyPassword(ctx context.Context, email, password string) (string, error) {
	body, err := json.Marshal(signInRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	})
	if err != nil {
		return "", fmt.Errorf("encoding sign-in request: %w", err)
	}

	url := signInEndpoint + "?key=" + p.apiKey
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building sign-in request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := p.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: network error, please check your connection: %v", domain.ErrRemote, err)
	}
	defer res.Body.Close()

	var parsed signInResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: decoding sign-in response: %v", domain.ErrRemote, err)
	}

	if res.StatusCode != http.StatusOK {
		code := ""
		if parsed.Error != nil {
			code = parsed.Error.Message
		}
		return "", fmt.Errorf("%w: %s", domain.ErrRemote, signInErrorMessage(code))
	}
	return parsed.LocalID, nil
}

// signInErrorMessage maps Identity Toolkit error codes to the messages
// shown to the user.
func signInErrorMessage(code string) string {
	switch code {
	case "EMAIL_NOT_FOUND":
		return "no account found with this email, please create an account first"
	case "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS":
		return "invalid email or password, please check your credentials and try again"
	case "USER_DISABLED":
		return "this account has been disabled, please contact support"
	case "TOO_MANY_ATTEMPTS_TRY_LATER":
		return "too many failed attempts, please try again later"
	default:
		return fmt.Sprintf("authentication failed (%s), please try again", code)
	}
}

func userFromRecord(record *auth.UserRecord) *domain.User {
	return &domain.User{
		UID:         domain.UserID(record.UID),
		DisplayName: record.DisplayName,
		Email:       record.Email,
		PhotoURL:    record.PhotoURL,
	}
}
