package config

import (
	"log"
	"os"
)

type Mode string

const (
	ModeLocal Mode = "local"
	ModeGCP   Mode = "gcp"
)

type Config struct {
	Mode Mode

	Port string

	GCPProjectID   string
	FirebaseAPIKey string

	StorageBackend  string // "memory" or "firestore"
	IdentityBackend string // "memory" or "firebase"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Load reads all env vars and builds the config.
func Load() *Config {
	modeStr := getEnv("STUDYCHAT_MODE", "local")
	var mode Mode
	switch modeStr {
	case "gcp":
		mode = ModeGCP
	default:
		mode = ModeLocal
	}

	defaultBackend := "memory"
	defaultIdentity := "memory"
	if mode == ModeGCP {
		defaultBackend = "firestore"
		defaultIdentity = "firebase"
	}

	cfg := &Config{
		Mode: mode,

		Port: getEnv("STUDYCHAT_PORT", "8080"),

		GCPProjectID:   getEnv("STUDYCHAT_GCP_PROJECT", ""),
		FirebaseAPIKey: getEnv("STUDYCHAT_FIREBASE_API_KEY", ""),

		StorageBackend:  getEnv("STUDYCHAT_STORAGE_BACKEND", defaultBackend),
		IdentityBackend: getEnv("STUDYCHAT_IDENTITY_BACKEND", defaultIdentity),
	}

	// Minimal validation in GCP mode
	if cfg.Mode == ModeGCP && cfg.GCPProjectID == "" {
		log.Fatal("STUDYCHAT_GCP_PROJECT must be set in gcp mode")
	}
	if cfg.IdentityBackend == "firebase" && cfg.FirebaseAPIKey == "" {
		log.Fatal("STUDYCHAT_FIREBASE_API_KEY must be set for the firebase identity backend")
	}

	return cfg
}
