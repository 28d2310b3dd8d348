package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/studyhall/studychat/internal/adapters/identity"
	firestorestore "github.com/studyhall/studychat/internal/adapters/storage/firestore"
	memstore "github.com/studyhall/studychat/internal/adapters/storage/memory"
	"github.com/studyhall/studychat/internal/app/chat"
	"github.com/studyhall/studychat/internal/app/responder"
	"github.com/studyhall/studychat/internal/cli/ui"
	"github.com/studyhall/studychat/internal/config"
	"github.com/studyhall/studychat/internal/domain"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "start an interactive chat session",
	Long: `Sign in (or create an account) and chat interactively. Use slash
commands inside the session:

  /new         start a fresh chat
  /list        list your chats, newest first
  /open <n>    reopen chat n from the list
  /delete <n>  delete chat n (asks for confirmation)
  /signout     sign out and clear local chats
  /quit        leave`,
	SilenceUsage: true,
}

func init() {
	chatCmd.RunE = runChat
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg := config.Load()

	store, provider, err := buildBackends(ctx, cfg)
	if err != nil {
		ui.PrintError("failed to initialize backends: %v", err)
		return fmt.Errorf("initialization failed")
	}

	manager := chat.NewManager(store, provider, responder.New(), ui.NewTerminalRenderer())
	if err := manager.Start(ctx); err != nil {
		ui.PrintError("failed to start chat manager: %v", err)
		return fmt.Errorf("startup failed")
	}

	if manager.CurrentUser() == nil {
		if err := promptAuth(ctx, provider); err != nil {
			return err
		}
	}

	user := manager.CurrentUser()
	if user != nil {
		ui.PrintSuccess("Signed in as %s", user.DisplayName)
	}
	manager.NewChat()

	return inputLoop(ctx, manager, provider)
}

func buildBackends(ctx context.Context, cfg *config.Config) (domain.ChatStore, domain.IdentityProvider, error) {
	var store domain.ChatStore
	switch cfg.StorageBackend {
	case "firestore":
		fs, err := firestorestore.NewStore(ctx, cfg.GCPProjectID)
		if err != nil {
			return nil, nil, err
		}
		store = fs
	default:
		store = memstore.NewChatStore()
	}

	var provider domain.IdentityProvider
	switch cfg.IdentityBackend {
	case "firebase":
		fb, err := identity.NewFirebaseProvider(ctx, cfg.GCPProjectID, cfg.FirebaseAPIKey)
		if err != nil {
			return nil, nil, err
		}
		provider = fb
	default:
		provider = identity.NewMemoryProvider()
	}

	return store, provider, nil
}

// promptAuth loops until the user is signed in or gives up.
func promptAuth(ctx context.Context, provider domain.IdentityProvider) error {
	for {
		var choice string
		prompt := &survey.Select{
			Message: "Welcome to studychat:",
			Options: []string{"Sign in", "Create account", "Quit"},
		}
		if err := survey.AskOne(prompt, &choice); err != nil {
			return fmt.Errorf("input failed")
		}

		switch choice {
		case "Quit":
			return nil
		case "Create account":
			if err := promptSignUp(ctx, provider); err != nil {
				ui.PrintError("%v", err)
				continue
			}
			return nil
		default:
			if err := promptSignIn(ctx, provider); err != nil {
				ui.PrintError("%v", err)
				continue
			}
			return nil
		}
	}
}

func promptSignIn(ctx context.Context, provider domain.IdentityProvider) error {
	var email, password string
	if err := survey.AskOne(&survey.Input{Message: "Email:"}, &email, survey.WithValidator(survey.Required)); err != nil {
		return fmt.Errorf("input failed")
	}
	if err := survey.AskOne(&survey.Password{Message: "Password:"}, &password, survey.WithValidator(survey.Required)); err != nil {
		return fmt.Errorf("input failed")
	}

	_, err := provider.SignIn(ctx, email, password)
	return err
}

func promptSignUp(ctx context.Context, provider domain.IdentityProvider) error {
	var name, email, password string
	if err := survey.AskOne(&survey.Input{Message: "Name:"}, &name, survey.WithValidator(survey.Required)); err != nil {
		return fmt.Errorf("input failed")
	}
	if err := survey.AskOne(&survey.Input{Message: "Email:"}, &email, survey.WithValidator(survey.Required)); err != nil {
		return fmt.Errorf("input failed")
	}
	if err := survey.AskOne(&survey.Password{Message: "Password:"}, &password, survey.WithValidator(survey.Required)); err != nil {
		return fmt.Errorf("input failed")
	}

	_, err := provider.SignUp(ctx, name, email, password)
	return err
}

func inputLoop(ctx context.Context, manager *chat.Manager, provider domain.IdentityProvider) error {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("\n> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		if !strings.HasPrefix(line, "/") {
			manager.SendMessage(ctx, line)
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "/quit", "/exit":
			return nil
		case "/help":
			fmt.Println(chatCmd.Long)
		case "/new":
			manager.NewChat()
		case "/list":
			fmt.Println()
			listChats(manager)
		case "/open":
			if chat, ok := chatByIndex(manager, fields); ok {
				if err := manager.LoadChat(chat.ID); err != nil {
					ui.PrintError("chat not found")
				}
			}
		case "/delete":
			if chat, ok := chatByIndex(manager, fields); ok {
				deleteChat(ctx, manager, chat)
			}
		case "/signout":
			if err := provider.SignOut(ctx); err != nil {
				ui.PrintError("failed to sign out: %v", err)
				continue
			}
			ui.PrintInfo("Signed out")
			return nil
		default:
			ui.PrintError("unknown command %s", fields[0])
		}
	}
}

func listChats(manager *chat.Manager) {
	ui.NewTerminalRenderer().RenderChatList(manager.Chats())
}

// chatByIndex resolves "/open 2" style arguments against the rendered
// list order.
func chatByIndex(manager *chat.Manager, fields []string) (*domain.ChatSession, bool) {
	if len(fields) < 2 {
		ui.PrintError("usage: %s <n>", fields[0])
		return nil, false
	}
	n, err := strconv.Atoi(fields[1])
	chats := manager.Chats()
	if err != nil || n < 1 || n > len(chats) {
		ui.PrintError("no chat numbered %q", fields[1])
		return nil, false
	}
	return chats[n-1], true
}

func deleteChat(ctx context.Context, manager *chat.Manager, target *domain.ChatSession) {
	confirmed := false
	prompt := &survey.Confirm{
		Message: fmt.Sprintf("Delete %q?", target.Title),
	}
	if err := survey.AskOne(prompt, &confirmed); err != nil {
		ui.PrintError("input failed: %v", err)
		return
	}

	if err := manager.DeleteChat(ctx, target.ID, confirmed); err != nil {
		ui.PrintError("failed to delete chat from database, please try again: %v", err)
		return
	}
	if confirmed {
		ui.PrintSuccess("Chat deleted")
	}
}
