package main

import (
	"context"
	"log"
	"net/http"

	httpadapter "github.com/studyhall/studychat/internal/adapters/http"
	"github.com/studyhall/studychat/internal/adapters/identity"
	firestorestore "github.com/studyhall/studychat/internal/adapters/storage/firestore"
	memstore "github.com/studyhall/studychat/internal/adapters/storage/memory"
	"github.com/studyhall/studychat/internal/app/chat"
	"github.com/studyhall/studychat/internal/app/responder"
	"github.com/studyhall/studychat/internal/config"
	"github.com/studyhall/studychat/internal/domain"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	// Storage: Firestore or Memory
	var store domain.ChatStore
	switch cfg.StorageBackend {
	case "firestore":
		log.Printf("[STORE] Using Firestore storage (project=%s)", cfg.GCPProjectID)
		fsStore, err := firestorestore.NewStore(ctx, cfg.GCPProjectID)
		if err != nil {
			log.Fatalf("error initializing Firestore store: %v", err)
		}
		store = fsStore
	default:
		log.Println("[STORE] Using in-memory storage")
		store = memstore.NewChatStore()
	}

	// Identity: Firebase or Memory
	var provider domain.IdentityProvider
	switch cfg.IdentityBackend {
	case "firebase":
		log.Println("[AUTH] Using Firebase identity provider")
		fbProvider, err := identity.NewFirebaseProvider(ctx, cfg.GCPProjectID, cfg.FirebaseAPIKey)
		if err != nil {
			log.Fatalf("error initializing Firebase identity provider: %v", err)
		}
		provider = fbProvider
	default:
		log.Println("[AUTH] Using in-memory identity provider")
		provider = identity.NewMemoryProvider()
	}

	// Chat manager: renders into the log in server mode, clients poll
	// the HTTP surface for new state.
	manager := chat.NewManager(store, provider, responder.New(), noopRenderer{})
	if err := manager.Start(ctx); err != nil {
		log.Fatalf("error starting chat manager: %v", err)
	}

	// HTTP server
	handler := httpadapter.NewServer(manager, provider)

	port := ":" + cfg.Port
	log.Println("studychat API listening on port:", port)
	if err := http.ListenAndServe(port, handler); err != nil {
		log.Fatal(err)
	}
}

// noopRenderer drops render callbacks. HTTP clients read state by
// re-fetching, so the server has nothing to paint.
type noopRenderer struct{}

func (noopRenderer) RenderMessage(*domain.Message)        {}
func (noopRenderer) RenderChat(*domain.ChatSession)       {}
func (noopRenderer) RenderChatList([]*domain.ChatSession) {}
func (noopRenderer) ShowWelcome()                         {}
