package identity_test

import (
	"context"
	"errors"
	"testing"

	"github.com/studyhall/studychat/internal/adapters/identity"
	"github.com/studyhall/studychat/internal/domain"
)

func TestSignUpValidation(t *testing.T) {
	ctx := context.Background()
	provider := identity.NewMemoryProvider()

	cases := []struct {
		name     string
		userName string
		email    string
		password string
	}{
		{"missing fields", "", "a@b.com", "Passw0rd!"},
		{"bad email", "Ana", "not-an-email", "Passw0rd!"},
		{"short password", "Ana", "a@b.com", "Pw0!"},
		{"no uppercase", "Ana", "a@b.com", "passw0rd!"},
		{"no digit", "Ana", "a@b.com", "Password!"},
		{"no special char", "Ana", "a@b.com", "Passw0rdX"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := provider.SignUp(ctx, tc.userName, tc.email, tc.password)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if provider.CurrentUser() != nil {
				t.Fatalf("failed sign-up must not change auth state")
			}
		})
	}
}

func TestSignUpSignOutSignInFlow(t *testing.T) {
	ctx := context.Background()
	provider := identity.NewMemoryProvider()

	user, err := provider.SignUp(ctx, "Ana", "ana@example.com", "Passw0rd!")
	if err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}
	if provider.CurrentUser() == nil || provider.CurrentUser().UID != user.UID {
		t.Fatalf("expected sign-up to sign the user in")
	}

	if err := provider.SignOut(ctx); err != nil {
		t.Fatalf("SignOut failed: %v", err)
	}
	if provider.CurrentUser() != nil {
		t.Fatalf("expected signed-out state")
	}

	again, err := provider.SignIn(ctx, "ana@example.com", "Passw0rd!")
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	if again.UID != user.UID {
		t.Fatalf("expected the same account, got %q", again.UID)
	}
}

func TestSignInWrongPassword(t *testing.T) {
	ctx := context.Background()
	provider := identity.NewMemoryProvider()
	provider.Register(domain.User{UID: "u1", Email: "ana@example.com"}, "Passw0rd!")

	_, err := provider.SignIn(ctx, "ana@example.com", "wrong")
	if err == nil {
		t.Fatalf("expected sign-in failure")
	}
	if provider.CurrentUser() != nil {
		t.Fatalf("failed sign-in must not change auth state")
	}
}

func TestSubscribersSeeEveryTransitionInOrder(t *testing.T) {
	ctx := context.Background()
	provider := identity.NewMemoryProvider()

	var first, second []*domain.User
	provider.Subscribe(func(u *domain.User) { first = append(first, u) })
	provider.Subscribe(func(u *domain.User) { second = append(second, u) })

	user, err := provider.SignUp(ctx, "Ana", "ana@example.com", "Passw0rd!")
	if err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}
	if err := provider.SignOut(ctx); err != nil {
		t.Fatalf("SignOut failed: %v", err)
	}

	for i, got := range [][]*domain.User{first, second} {
		if len(got) != 2 {
			t.Fatalf("subscriber %d: expected 2 notifications, got %d", i, len(got))
		}
		if got[0] == nil || got[0].UID != user.UID {
			t.Fatalf("subscriber %d: expected sign-in notification first", i)
		}
		if got[1] != nil {
			t.Fatalf("subscriber %d: expected nil on sign-out", i)
		}
	}
}
