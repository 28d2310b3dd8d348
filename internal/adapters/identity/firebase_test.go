package identity_test

import (
	"context"
	"errors"
	"testing"

	"github.com/studyhall/studychat/internal/adapters/identity"
	"github.com/studyhall/studychat/internal/domain"
)

func TestNewFirebaseProviderRequiresConfig(t *testing.T) {
	cases := []struct {
		name      string
		projectID string
		apiKey    string
	}{
		{"missing project", "", "key"},
		{"missing api key", "project", ""},
		{"missing both", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := identity.NewFirebaseProvider(context.Background(), tc.projectID, tc.apiKey)
			if !errors.Is(err, domain.ErrNotInitialized) {
				t.Fatalf("expected ErrNotInitialized, got %v", err)
			}
		})
	}
}
