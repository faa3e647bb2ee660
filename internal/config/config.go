// Package config loads and validates aggregator configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Auth         AuthConfig         `mapstructure:"auth"`
	Logging      LoggingConfig      `mapstructure:"logging"`
	DB           DBConfig           `mapstructure:"db"`
	HTTP         HTTPConfig         `mapstructure:"http"`
	Ingest       IngestConfig       `mapstructure:"ingest"`
	Ticketmaster TicketmasterConfig `mapstructure:"ticketmaster"`
	Venues       []VenueConfig      `mapstructure:"venues"`
	Calendars    []CalendarConfig   `mapstructure:"calendars"`
	PubSub       PubSubConfig       `mapstructure:"pubsub"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// AuthConfig defines API authentication toggles.
type AuthConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	APIKey  string `mapstructure:"api_key"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// DBConfig controls access to the event store.
type DBConfig struct {
	Provider string `mapstructure:"provider"` // "postgres" or "memory"
	DSN      string `mapstructure:"dsn"`
	Table    string `mapstructure:"table"`
	MaxConns int32  `mapstructure:"max_conns"`
	MinConns int32  `mapstructure:"min_conns"`
}

// HTTPConfig configures outbound HTTP client behavior shared by adapters.
type HTTPConfig struct {
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	UserAgent      string `mapstructure:"user_agent"`
}

// IngestConfig governs orchestrator defaults.
type IngestConfig struct {
	LookaheadDays int    `mapstructure:"lookahead_days"`
	ReportTopic   string `mapstructure:"report_topic"`
}

// TicketmasterConfig configures the paginated Discovery API adapter.
type TicketmasterConfig struct {
	Enabled   bool     `mapstructure:"enabled"`
	BaseURL   string   `mapstructure:"base_url"`
	APIKey    string   `mapstructure:"api_key"`
	StateCode string   `mapstructure:"state_code"`
	Cities    []string `mapstructure:"cities"`
	PageSize  int      `mapstructure:"page_size"`
}

// SelectorConfig names the CSS selectors used to pull event fragments out
// of a venue page.
type SelectorConfig struct {
	Container string `mapstructure:"container"`
	Title     string `mapstructure:"title"`
	Date      string `mapstructure:"date"`
	Time      string `mapstructure:"time"`
	Link      string `mapstructure:"link"`
}

// VenueConfig describes one static venue events page.
type VenueConfig struct {
	Source    string         `mapstructure:"source"`
	URL       string         `mapstructure:"url"`
	Venue     string         `mapstructure:"venue"`
	Location  string         `mapstructure:"location"`
	Selectors SelectorConfig `mapstructure:"selectors"`
}

// CalendarConfig describes a day-indexed calendar site scraped over a
// window of consecutive days.
type CalendarConfig struct {
	Source string `mapstructure:"source"`
	// URLTemplate is a Go time layout; each day's URL is day.Format(template),
	// e.g. "https://example.com/events/2006/01/02".
	URLTemplate string         `mapstructure:"url_template"`
	Days        int            `mapstructure:"days"`
	Venue       string         `mapstructure:"venue"`
	Location    string         `mapstructure:"location"`
	Selectors   SelectorConfig `mapstructure:"selectors"`
}

// PubSubConfig holds metadata for publishing ingestion reports.
type PubSubConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	ProjectID string `mapstructure:"project_id"`
	TopicName string `mapstructure:"topic_name"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("AGGREGATOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("logging.development", true)
	v.SetDefault("db.provider", "memory")
	v.SetDefault("db.table", "events")
	v.SetDefault("db.max_conns", 4)
	v.SetDefault("http.timeout_seconds", 15)
	v.SetDefault("http.user_agent", "events-aggregator/1.0")
	v.SetDefault("ingest.lookahead_days", 30)
	v.SetDefault("ingest.report_topic", "ingestion-reports")
	v.SetDefault("ticketmaster.base_url", "https://app.ticketmaster.com")
	v.SetDefault("ticketmaster.state_code", "CA")
	v.SetDefault("ticketmaster.page_size", 200)
	v.SetDefault("ticketmaster.cities", []string{
		"San Francisco", "Oakland", "San Jose", "Berkeley", "Palo Alto",
		"Mountain View", "Campbell", "Sunnyvale", "Santa Clara",
		"Redwood City", "San Mateo", "San Bruno",
	})
}

// Validate enforces required values and reasonable limits. A failure here
// is fatal at startup: the process reports it and does not serve requests.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	switch c.DB.Provider {
	case "postgres":
		if c.DB.DSN == "" {
			return fmt.Errorf("db.dsn must be set when db.provider is postgres")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown db.provider %q", c.DB.Provider)
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	if c.Ingest.LookaheadDays <= 0 {
		return fmt.Errorf("ingest.lookahead_days must be > 0")
	}
	if c.Auth.Enabled && c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key must be set when auth is enabled")
	}
	if c.Ticketmaster.Enabled && c.Ticketmaster.APIKey == "" {
		return fmt.Errorf("ticketmaster.api_key must be set when ticketmaster is enabled")
	}
	if c.PubSub.Enabled && (c.PubSub.ProjectID == "" || c.PubSub.TopicName == "") {
		return fmt.Errorf("pubsub.project_id and pubsub.topic_name must be set when pubsub is enabled")
	}
	for i, venue := range c.Venues {
		if venue.Source == "" || venue.URL == "" {
			return fmt.Errorf("venues[%d]: source and url are required", i)
		}
	}
	for i, cal := range c.Calendars {
		if cal.Source == "" || cal.URLTemplate == "" {
			return fmt.Errorf("calendars[%d]: source and url_template are required", i)
		}
		if cal.Days <= 0 {
			return fmt.Errorf("calendars[%d]: days must be > 0", i)
		}
	}
	return nil
}

// FetchTimeout converts the HTTP timeout config into a duration.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// Lookahead returns the default ingestion window length.
func (c Config) Lookahead() time.Duration {
	return time.Duration(c.Ingest.LookaheadDays) * 24 * time.Hour
}
