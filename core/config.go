package core

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Env      string
		Build    string
		Debug    bool
		TestMode bool

		AppName          string
		SecretKey        string
		DefaultFromEmail string

		JWTExpirationDelta time.Duration

		RollbarToken   string
		SendgridApiKey string

		Server   ServerConfig
		Database DatabaseConfig
		OpenAI   OpenAIConfig
	}

	ServerConfig struct {
		Address         string
		DebugHost       string
		ShutdownTimeout time.Duration
		CORSOrigins     []string
		UploadsDir      string
	}

	DatabaseConfig struct {
		URI     string
		Name    string
		Timeout time.Duration
	}

	OpenAIConfig struct {
		APIKey    string
		URL       string
		Model     string
		MaxTokens int
		Timeout   time.Duration
	}
)

// NewConfig loads the configuration from the environment (and config/.env.<env> if it exists).
func NewConfig() (*Config, error) {
	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "stat %s", dotEnvPath)
	}

	v := viper.New()
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", env == "DEV")
	v.SetDefault("build", "develop")
	v.SetDefault("app_name", "School Management API")
	v.SetDefault("secret_key", "")
	v.SetDefault("default_from_email", "noreply@localhost")
	v.SetDefault("jwt_expiration_delta", 7*24*time.Hour)
	v.SetDefault("rollbar_token", "")
	v.SetDefault("sendgrid_api_key", "")
	v.SetDefault("server.address", ":5000")
	v.SetDefault("server.debug_host", ":5001")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.uploads_dir", filepath.Join("public", "uploads"))
	v.SetDefault("database.uri", "")
	v.SetDefault("database.name", "school")
	v.SetDefault("database.timeout", 10*time.Second)
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.url", "https://api.openai.com/v1/chat/completions")
	v.SetDefault("openai.model", "gpt-3.5-turbo")
	v.SetDefault("openai.max_tokens", 500)
	v.SetDefault("openai.timeout", 15*time.Second)

	conf := &Config{
		Env:                env,
		Build:              v.GetString("build"),
		Debug:              v.GetBool("debug"),
		TestMode:           env == "TEST",
		AppName:            v.GetString("app_name"),
		SecretKey:          v.GetString("secret_key"),
		DefaultFromEmail:   v.GetString("default_from_email"),
		JWTExpirationDelta: v.GetDuration("jwt_expiration_delta"),
		RollbarToken:       v.GetString("rollbar_token"),
		SendgridApiKey:     v.GetString("sendgrid_api_key"),
		Server: ServerConfig{
			Address:         v.GetString("server.address"),
			DebugHost:       v.GetString("server.debug_host"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
			CORSOrigins:     v.GetStringSlice("server.cors_origins"),
			UploadsDir:      v.GetString("server.uploads_dir"),
		},
		Database: DatabaseConfig{
			URI:     v.GetString("database.uri"),
			Name:    v.GetString("database.name"),
			Timeout: v.GetDuration("database.timeout"),
		},
		OpenAI: OpenAIConfig{
			APIKey:    v.GetString("openai.api_key"),
			URL:       v.GetString("openai.url"),
			Model:     v.GetString("openai.model"),
			MaxTokens: v.GetInt("openai.max_tokens"),
			Timeout:   v.GetDuration("openai.timeout"),
		},
	}
	if conf.OpenAI.APIKey == "" {
		conf.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if conf.OpenAI.APIKey == "" {
		conf.OpenAI.APIKey = os.Getenv("OPENAI_KEY")
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// Validate reports configuration the application cannot start without.
func (c *Config) Validate() error {
	if c.Database.URI == "" {
		return errors.New("config: DATABASE_URI is required")
	}
	if c.SecretKey == "" {
		if !c.Debug {
			return errors.New("config: SECRET_KEY is required")
		}
		c.SecretKey = "dev-secret-do-not-use-in-production"
	}
	return nil
}
