package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/vladelaina/Catime/internal/fontpath"
	"github.com/vladelaina/Catime/internal/storage"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Fonts  FontsConfig       `yaml:"fonts"`
	SQLite SQLiteConfig      `yaml:"sqlite"`
	Auth   AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Fonts.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// FontsConfig describes the managed fonts folder and scan behavior.
type FontsConfig struct {
	// Root is the managed fonts directory.
	Root string `yaml:"root"`

	// MarkerPrefix identifies managed paths in the current-font setting.
	MarkerPrefix string `yaml:"marker_prefix"`

	// MaxDepth bounds directory recursion during scans.
	MaxDepth int `yaml:"max_depth"`

	// MaxEntries caps how many fonts a snapshot may hold.
	MaxEntries int `yaml:"max_entries"`

	// Extensions is the font file allow-list, e.g. [".ttf", ".otf"].
	Extensions []string `yaml:"extensions"`

	// TTLSeconds is how long a completed scan counts as fresh.
	TTLSeconds int `yaml:"ttl_seconds"`

	// BundledDir optionally points at fonts to extract into an empty root.
	BundledDir string `yaml:"bundled_dir"`

	// StateFile persists the current-font selection.
	StateFile string `yaml:"state_file"`
}

// TTL returns the snapshot freshness window as a duration.
func (c *FontsConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// Limits maps the scan bounds onto the storage layer's limit type.
func (c *FontsConfig) Limits() storage.Limits {
	return storage.Limits{
		MaxDepth:   c.MaxDepth,
		MaxEntries: c.MaxEntries,
		Extensions: c.Extensions,
	}
}

// Validate validates the fonts configuration.
func (c *FontsConfig) Validate() error {
	// Zero means "use the built-in default" for the numeric bounds.
	return validation.ValidateStruct(c,
		validation.Field(&c.Root, validation.Required),
		validation.Field(&c.StateFile, validation.Required),
		validation.Field(&c.MaxDepth, validation.When(c.MaxDepth != 0, validation.Min(1), validation.Max(64))),
		validation.Field(&c.MaxEntries, validation.When(c.MaxEntries != 0, validation.Min(1))),
		validation.Field(&c.TTLSeconds, validation.When(c.TTLSeconds != 0, validation.Min(1))),
	)
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Fonts: FontsConfig{
			Root:         "./resources/fonts",
			MarkerPrefix: fontpath.DefaultMarkerPrefix,
			MaxDepth:     storage.DefaultMaxDepth,
			MaxEntries:   storage.DefaultMaxEntries,
			Extensions:   []string{".ttf", ".otf"},
			TTLSeconds:   60,
			StateFile:    "./catime-state.json",
		},
		SQLite: SQLiteConfig{
			Path: "./catime.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
