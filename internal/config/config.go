package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	LoginURL  = "https://www.linkedin.com/login"
	SearchURL = "https://www.linkedin.com/search/results/people/"
)

var ErrMissingCredentials = errors.New("LinkedIn credentials not set: LINKEDIN_EMAIL and LINKEDIN_PASSWORD are required")

type Config struct {
	LinkedIn LinkedInConfig `yaml:"linkedin"`
	Browser  BrowserConfig  `yaml:"browser"`
	Limits   LimitsConfig   `yaml:"limits"`
	Search   SearchConfig   `yaml:"search"`
	Storage  StorageConfig  `yaml:"storage"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type LinkedInConfig struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

type BrowserConfig struct {
	Headless        bool           `yaml:"headless"`
	WaitTimeSeconds int            `yaml:"wait_time_seconds"`
	Bin             string         `yaml:"bin"`
	ProxyURL        string         `yaml:"proxy_url"`
	UserDataDir     string         `yaml:"user_data_dir"`
	Viewport        ViewportConfig `yaml:"viewport"`
}

type ViewportConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type LimitsConfig struct {
	MaxInvitesPerDay int `yaml:"max_invites_per_day"`
}

type SearchConfig struct {
	Keyword  string `yaml:"keyword"`
	Location string `yaml:"location"`
}

type StorageConfig struct {
	MongoDB MongoDBConfig `yaml:"mongodb"`
}

type MongoDBConfig struct {
	URI            string `yaml:"uri"`
	Database       string `yaml:"database"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type LoggingConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	FilePath   string `yaml:"file_path"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// Default returns the settings used when neither a file nor the environment says otherwise.
func Default() *Config {
	return &Config{
		Browser: BrowserConfig{
			WaitTimeSeconds: 5,
			Viewport:        ViewportConfig{Width: 1366, Height: 768},
		},
		Limits: LimitsConfig{MaxInvitesPerDay: 50},
		Search: SearchConfig{
			Keyword:  "Software Engineer",
			Location: "United States",
		},
		Storage: StorageConfig{
			MongoDB: MongoDBConfig{
				Database:       "linkedin_autoconnect",
				TimeoutSeconds: 10,
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			FilePath:   "linkedin_autoconnect.log",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// Load reads .env (if present), then the optional YAML file, then environment overrides,
// and validates the result. An empty path skips the YAML layer.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	config := Default()

	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
		defer file.Close()

		decoder := yaml.NewDecoder(file)
		if err := decoder.Decode(config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := config.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, v, err)
		}
		*dst = n
		return nil
	}

	str("LINKEDIN_EMAIL", &c.LinkedIn.Email)
	str("LINKEDIN_PASSWORD", &c.LinkedIn.Password)
	str("SEARCH_KEYWORD", &c.Search.Keyword)
	str("SEARCH_LOCATION", &c.Search.Location)
	str("CHROME_PATH", &c.Browser.Bin)
	str("LOG_LEVEL", &c.Logging.Level)
	str("LOG_FILE", &c.Logging.FilePath)
	str("MONGODB_URI", &c.Storage.MongoDB.URI)
	str("MONGODB_DATABASE", &c.Storage.MongoDB.Database)

	if v, ok := lookup("HEADLESS_MODE"); ok && v != "" {
		c.Browser.Headless = strings.EqualFold(strings.TrimSpace(v), "true")
	}

	if err := num("MAX_INVITES_PER_DAY", &c.Limits.MaxInvitesPerDay); err != nil {
		return err
	}
	if err := num("BROWSER_WAIT_TIME", &c.Browser.WaitTimeSeconds); err != nil {
		return err
	}

	return nil
}

// Validate checks the invariants the bot relies on before any browser is started.
func (c *Config) Validate() error {
	if c.LinkedIn.Email == "" || c.LinkedIn.Password == "" {
		return ErrMissingCredentials
	}
	if c.Limits.MaxInvitesPerDay < 0 {
		return fmt.Errorf("max invites per day must not be negative, got %d", c.Limits.MaxInvitesPerDay)
	}
	if c.Browser.WaitTimeSeconds <= 0 {
		return fmt.Errorf("browser wait time must be positive, got %d", c.Browser.WaitTimeSeconds)
	}
	return nil
}

func (c *Config) WaitTimeout() time.Duration {
	return time.Duration(c.Browser.WaitTimeSeconds) * time.Second
}

func (c *Config) MongoTimeout() time.Duration {
	if c.Storage.MongoDB.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Storage.MongoDB.TimeoutSeconds) * time.Second
}
