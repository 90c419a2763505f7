package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	DSN      string `mapstructure:"dsn"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type SeasonConfig struct {
	Name  string `mapstructure:"name"`
	Start string `mapstructure:"start"`
	End   string `mapstructure:"end"`
}

type BotConfig struct {
	Cities             []string       `mapstructure:"cities"`
	Players            []string       `mapstructure:"players"`
	ParticipantsCutoff string         `mapstructure:"participants_cutoff"`
	Seasons            []SeasonConfig `mapstructure:"seasons"`
	RecentLimit        int            `mapstructure:"recent_limit"`
	GreetingImage      string         `mapstructure:"greeting_image"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TTL      string `mapstructure:"ttl"`
}

type SessionConfig struct {
	Backend string      `mapstructure:"backend"`
	Redis   RedisConfig `mapstructure:"redis"`
}

type NATSConfig struct {
	Enabled        bool         `mapstructure:"enabled"`
	Host           string       `mapstructure:"host"`
	Port           int          `mapstructure:"port"`
	Stream         StreamConfig `mapstructure:"stream"`
	InboundPrefix  string       `mapstructure:"inbound_prefix"`
	OutboundPrefix string       `mapstructure:"outbound_prefix"`
	Durable        string       `mapstructure:"durable"`
}

type StreamConfig struct {
	Name     string   `mapstructure:"name"`
	Subjects []string `mapstructure:"subjects"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Bot      BotConfig      `mapstructure:"bot"`
	Session  SessionConfig  `mapstructure:"session"`
	NATS     NATSConfig     `mapstructure:"nats"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
}

var defaultCities = []string{"Санкт-Петербург", "Архангельск", "Выборг"}

var defaultPlayers = []string{
	"Данила Бадецкий", "Данил 72 Сергеев", "Семен Попович",
	"Слава Харьков", "Дмитрий Бедарев", "Дмитрий Ляпин", "Максим Мерзлый",
	"Максим Гомозов", "Богдан Светоносов", "Евгений Черницкий", "Роман Р",
}

// LoadConfig reads config.yaml from the working directory or /etc/pokerlog.
func LoadConfig() (*Config, error) {
	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	v := newViper()
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/pokerlog")
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	return decode(v)
}

// Load reads the config from an explicit file. An empty path falls back to
// LoadConfig.
func Load(path string) (*Config, error) {
	if path == "" {
		return LoadConfig()
	}
	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	return decode(v)
}

// Defaults returns the config used when no file overrides anything.
func Defaults() (*Config, error) {
	return decode(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("POKERLOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("bot.cities", defaultCities)
	v.SetDefault("bot.players", defaultPlayers)
	v.SetDefault("bot.participants_cutoff", "2025-01-01")
	v.SetDefault("bot.seasons", []map[string]any{
		{"name": "Сезон 2025", "start": "2025-01-01", "end": "2025-12-31"},
	})
	v.SetDefault("bot.recent_limit", 5)

	v.SetDefault("session.backend", "memory")
	v.SetDefault("session.redis.addr", "localhost:6379")
	v.SetDefault("session.redis.ttl", "24h")

	v.SetDefault("nats.host", "localhost")
	v.SetDefault("nats.port", 4222)
	v.SetDefault("nats.stream.name", "POKERLOG")
	v.SetDefault("nats.stream.subjects", []string{"pokerlog.client.>", "pokerlog.server.>"})
	v.SetDefault("nats.inbound_prefix", "pokerlog.client")
	v.SetDefault("nats.outbound_prefix", "pokerlog.server")
	v.SetDefault("nats.durable", "pokerlog-bot")

	v.SetDefault("server.port", "8080")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size", 50)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age", 28)
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the parts of the config the bot cannot run without.
func (cfg *Config) Validate() error {
	switch cfg.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
	switch cfg.Session.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
	}

	if len(cfg.Bot.Cities) == 0 {
		return fmt.Errorf("bot.cities must not be empty")
	}
	if len(cfg.Bot.Players) < 2 {
		return fmt.Errorf("bot.players needs at least 2 names, got %d", len(cfg.Bot.Players))
	}
	seen := make(map[string]struct{}, len(cfg.Bot.Players))
	for _, name := range cfg.Bot.Players {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("bot.players contains an empty name")
		}
		if _, ok := seen[name]; ok {
			return fmt.Errorf("duplicate player %q in bot.players", name)
		}
		seen[name] = struct{}{}
	}

	if _, err := ParseDay(cfg.Bot.ParticipantsCutoff); err != nil {
		return fmt.Errorf("bot.participants_cutoff: %w", err)
	}
	if _, err := cfg.Bot.ParsedSeasons(); err != nil {
		return err
	}
	if cfg.Bot.RecentLimit <= 0 {
		cfg.Bot.RecentLimit = 5
	}
	if _, err := cfg.Session.Redis.ParsedTTL(); err != nil {
		return fmt.Errorf("session.redis.ttl: %w", err)
	}
	return nil
}

// PostgresDSN builds a libpq connection string from the discrete fields.
func (cfg *DatabaseConfig) PostgresDSN() string {
	if cfg.DSN != "" && cfg.Driver == "postgres" {
		return cfg.DSN
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)
}
