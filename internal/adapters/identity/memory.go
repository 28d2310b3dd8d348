package identity

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/studyhall/studychat/internal/domain"
)

type memoryAccount struct {
	user     domain.User
	password string
}

// MemoryProvider is an in-memory identity provider for local mode and
// tests. Accounts exist only for the process lifetime.
type MemoryProvider struct {
	authState

	accountsMu sync.Mutex
	accounts   map[string]*memoryAccount // keyed by lower-cased email
}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{
		accounts: make(map[string]*memoryAccount),
	}
}

func (p *MemoryProvider) WaitReady(ctx context.Context) error {
	return ctx.Err()
}

func (p *MemoryProvider) SignUp(ctx context.Context, name, email, password string) (*domain.User, error) {
	if err := validateSignUp(name, email, password); err != nil {
		return nil, err
	}

	key := strings.ToLower(email)

	p.accountsMu.Lock()
	if _, exists := p.accounts[key]; exists {
		p.accountsMu.Unlock()
		return nil, fmt.Errorf("%w: an account with this email already exists", domain.ErrValidation)
	}
	account := &memoryAccount{
		user: domain.User{
			UID:         domain.UserID(uuid.NewString()),
			DisplayName: name,
			Email:       email,
		},
		password: password,
	}
	p.accounts[key] = account
	p.accountsMu.Unlock()

	user := account.user
	p.transition(&user)
	return &user, nil
}

func (p *MemoryProvider) SignIn(ctx context.Context, email, password string) (*domain.User, error) {
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	p.accountsMu.Lock()
	account, ok := p.accounts[strings.ToLower(email)]
	p.accountsMu.Unlock()

	if !ok || account.password != password {
		return nil, fmt.Errorf("%w: invalid email or password", domain.ErrRemote)
	}

	user := account.user
	p.transition(&user)
	return &user, nil
}

func (p *MemoryProvider) SignOut(ctx context.Context) error {
	p.transition(nil)
	return nil
}

// Register creates an account without signing it in. Test helper.
func (p *MemoryProvider) Register(user domain.User, password string) {
	p.accountsMu.Lock()
	defer p.accountsMu.Unlock()
	p.accounts[strings.ToLower(user.Email)] = &memoryAccount{user: user, password: password}
}
