// Package identity wraps the external identity service behind the
// IdentityProvider port. Two implementations live here: a Firebase
// Authentication gateway for gcp mode and an in-memory provider for
// local mode and tests, mirroring how the storage adapters pair up.
package identity

import (
	"sync"

	"github.com/studyhall/studychat/internal/domain"
)

// authState is the shared subscriber registry and current-user cache.
// Both providers embed it. Every transition is delivered to every
// subscriber in registration order; there is no unsubscribe because
// subscription lifetime equals process lifetime.
type authState struct {
	mu          sync.Mutex
	user        *domain.User
	subscribers []func(*domain.User)
}

func (a *authState) CurrentUser() *domain.User {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.user
}

func (a *authState) Subscribe(fn func(*domain.User)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.subscribers = append(a.subscribers, fn)
}

// transition records the new state and notifies all subscribers.
// Listeners run outside the lock so they can call back into the
// provider.
func (a *authState) transition(user *domain.User) {
	a.mu.Lock()
	a.user = user
	subs := make([]func(*domain.User), len(a.subscribers))
	copy(subs, a.subscribers)
	a.mu.Unlock()

	for _, fn := range subs {
		fn(user)
	}
}
