package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/acgh213/marklinks/internal/markdown"
)

const (
	KeyMarkdownEscape   = "security.markdown_escape"
	KeyAllowedProtocols = "security.allowed_protocols"
	KeyMarkdownHardened = "security.markdown_hardened"
)

type Config struct {
	Env         string
	Port        string
	DatabaseURL string
	IndexURL    string
	PerPage     int
	// PreviewRate caps preview requests per client and minute.
	PreviewRate int
	Security    Security
}

// Security holds the settings read by the markdown renderer.
type Security struct {
	MarkdownEscape   bool
	AllowedProtocols []string
	MarkdownHardened bool
}

// Load reads .env, an optional YAML config file (CONFIG_FILE or
// ./config.yaml) and the environment. Dotted keys map to upper-case
// environment variables: security.markdown_escape reads
// SECURITY_MARKDOWN_ESCAPE.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("app.env", "development")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.index_url", "/")
	v.SetDefault("server.links_per_page", 20)
	v.SetDefault("server.preview_rate", 60)
	v.SetDefault(KeyMarkdownEscape, true)
	v.SetDefault(KeyAllowedProtocols, markdown.DefaultOptions().AllowedProtocols)
	v.SetDefault(KeyMarkdownHardened, false)

	_ = v.BindEnv("app.env", "APP_ENV")
	_ = v.BindEnv("server.port", "PORT")
	_ = v.BindEnv("server.index_url", "INDEX_URL")
	_ = v.BindEnv("database.url", "DATABASE_URL")
	_ = v.BindEnv("config_file", "CONFIG_FILE")

	if file := v.GetString("config_file"); file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || v.GetString("config_file") != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		Env:         v.GetString("app.env"),
		Port:        v.GetString("server.port"),
		DatabaseURL: v.GetString("database.url"),
		IndexURL:    v.GetString("server.index_url"),
		PerPage:     v.GetInt("server.links_per_page"),
		PreviewRate: v.GetInt("server.preview_rate"),
		Security: Security{
			MarkdownEscape:   v.GetBool(KeyMarkdownEscape),
			AllowedProtocols: ParseProtocols(v.GetStringSlice(KeyAllowedProtocols)),
			MarkdownHardened: v.GetBool(KeyMarkdownHardened),
		},
	}
	return cfg, nil
}

// RequireDatabase fails when no database URL is configured.
func (c *Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// MarkdownOptions converts the security settings for the renderer.
func (c *Config) MarkdownOptions() markdown.Options {
	return markdown.Options{
		EscapeHTML:       c.Security.MarkdownEscape,
		AllowedProtocols: c.Security.AllowedProtocols,
		Hardened:         c.Security.MarkdownHardened,
	}
}

// ParseProtocols accepts both list values and a single comma or space
// separated string. Schemes are lower-cased and may carry ":" or "://".
func ParseProtocols(values []string) []string {
	var out []string
	for _, v := range values {
		for _, p := range strings.FieldsFunc(v, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		}) {
			p = strings.ToLower(strings.TrimSuffix(p, "://"))
			p = strings.TrimSuffix(p, ":")
			if p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
