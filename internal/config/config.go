// Package config holds runtime settings for the Cartmate server.
//
// Precedence: defaults, then environment variables, then command-line flags
// (later sources win).
package config

import (
	"flag"
	"os"
	"strconv"
	"time"
)

// Config holds the runtime settings.
type Config struct {
	// ListenAddr is the host:port the HTTP server binds to.
	ListenAddr string

	// DBPath is the SQLite database file for the local store.
	DBPath string

	// StaticDir is the directory holding the front-end assets.
	StaticDir string

	// ShareBaseURL is the public URL the app is reached at; sync links are
	// minted as ShareBaseURL + "?sync=" + token.
	ShareBaseURL string

	// GeminiAPIKey enables AI classification when non-empty. Without it,
	// items get the default category.
	GeminiAPIKey string

	// GeminiEndpoint is the inference API base URL (override in tests).
	GeminiEndpoint string

	// GeminiModel is the model name used for classification calls.
	GeminiModel string

	// InferenceTimeout bounds each classification/identification call;
	// on expiry the add falls back to defaults.
	InferenceTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ListenAddr = ":8080"
	c.DBPath = "./data/cartmate.db"
	c.StaticDir = "./static"
	c.ShareBaseURL = "http://localhost:8080/"
	c.GeminiEndpoint = "https://generativelanguage.googleapis.com"
	c.GeminiModel = "gemini-2.0-flash"
	c.InferenceTimeout = 8 * time.Second
}

// Load constructs a Config, applies defaults, then overlays environment
// variables and command-line flags.
func Load() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	cfg.parseEnv()
	cfg.parseFlags(os.Args[1:])
	return cfg
}

func (c *Config) parseEnv() {
	setString := func(dst *string, key string) {
		if value := os.Getenv(key); value != "" {
			*dst = value
		}
	}
	setString(&c.ListenAddr, "LISTEN_ADDR")
	setString(&c.DBPath, "DB_PATH")
	setString(&c.StaticDir, "STATIC_PATH")
	setString(&c.ShareBaseURL, "SHARE_BASE_URL")
	setString(&c.GeminiAPIKey, "GEMINI_API_KEY")
	setString(&c.GeminiEndpoint, "GEMINI_ENDPOINT")
	setString(&c.GeminiModel, "GEMINI_MODEL")

	if value := os.Getenv("INFERENCE_TIMEOUT_SECONDS"); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
			c.InferenceTimeout = time.Duration(seconds) * time.Second
		}
	}
}

// parseFlags overlays selected fields from command-line flags. Split out
// with an args parameter so tests can drive it directly.
func (c *Config) parseFlags(args []string) {
	fs := flag.NewFlagSet("cartmate", flag.ContinueOnError)

	fs.StringVar(&c.ListenAddr, "a", c.ListenAddr, "address and port to listen on")
	fs.StringVar(&c.DBPath, "d", c.DBPath, "path to the SQLite database file")
	fs.StringVar(&c.StaticDir, "s", c.StaticDir, "directory with front-end assets")
	fs.StringVar(&c.ShareBaseURL, "u", c.ShareBaseURL, "base URL used in share links")
	timeoutSeconds := fs.Int("t", int(c.InferenceTimeout.Seconds()), "inference timeout in seconds")

	if err := fs.Parse(args); err != nil {
		// Unknown flags are a startup misconfiguration; keep going with
		// whatever parsed before the error.
		return
	}
	if *timeoutSeconds > 0 {
		c.InferenceTimeout = time.Duration(*timeoutSeconds) * time.Second
	}
}
