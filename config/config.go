package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"
)

// Store drivers.
const (
	StoreDriverMongo  = "mongo"
	StoreDriverSQLite = "sqlite"
)

// Capture drivers.
const (
	CaptureDriverPlaywright = "playwright"
	CaptureDriverRod        = "rod"
)

// Telegram update delivery modes.
const (
	TelegramModePolling = "polling"
	TelegramModeWebhook = "webhook"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig
	Telemetry  TelemetryConfig

	// Bot
	Telegram  TelegramConfig
	Operators OperatorsConfig
	Session   SessionConfig

	// Storage
	Store  StoreConfig
	Mongo  MongoConfig
	SQLite SQLiteConfig

	// Automation
	Capture  CaptureConfig
	Schedule ScheduleConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port int
	Mode string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
	FilePath     string
}

type TelemetryConfig struct {
	Enabled     bool
	Dir         string
	ServiceName string
}

type TelegramConfig struct {
	BotToken        string
	Mode            string
	WebhookURL      string
	WebhookSecret   string
	AllowedIPs      []string
	NgrokAPIURL     string
	PollTimeout     time.Duration
	RateLimitPerMin int
}

// OperatorsConfig is the allow-list of Telegram user IDs that may manage
// accounts and receive screenshots.
type OperatorsConfig struct {
	IDs []int64
}

type SessionConfig struct {
	TTL      time.Duration
	Capacity int
}

type StoreConfig struct {
	Driver string
}

type MongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type SQLiteConfig struct {
	Path string
}

type CaptureConfig struct {
	Driver            string
	LoginURL          string
	LoginSelector     string
	PasswordSelector  string
	SubmitSelector    string
	SubmitLabel       string
	SettleDelay       time.Duration
	ReadySelector     string
	NavigationTimeout time.Duration
	ViewportWidth     int
	ViewportHeight    int
	InstallBrowsers   bool
}

type ScheduleConfig struct {
	Cron     string
	Timezone string
}

// Load loads configuration using Viper.
// Config file name: config.yaml, searched in ./config, ., /etc/app/
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/app/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return build(viper.GetViper())
}

func build(v *viper.Viper) (*Config, error) {
	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = v.GetString("environment.name")
	cfg.HTTPServer.Port = v.GetInt("http_server.port")
	cfg.HTTPServer.Mode = v.GetString("http_server.mode")
	cfg.Logger.Level = v.GetString("logger.level")
	cfg.Logger.Mode = v.GetString("logger.mode")
	cfg.Logger.Encoding = v.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = v.GetBool("logger.color_enabled")
	cfg.Logger.FilePath = v.GetString("logger.file_path")

	cfg.Telemetry.Enabled = v.GetBool("telemetry.enabled")
	cfg.Telemetry.Dir = v.GetString("telemetry.dir")
	cfg.Telemetry.ServiceName = v.GetString("telemetry.service_name")

	// Telegram; BOT_TOKEN kept for deployments that predate the nested keys.
	cfg.Telegram.BotToken = v.GetString("telegram.bot_token")
	if token := v.GetString("bot_token"); token != "" {
		cfg.Telegram.BotToken = token
	}
	cfg.Telegram.Mode = v.GetString("telegram.mode")
	cfg.Telegram.WebhookURL = v.GetString("telegram.webhook_url")
	cfg.Telegram.WebhookSecret = v.GetString("telegram.webhook_secret")
	cfg.Telegram.AllowedIPs = splitList(strings.Join(v.GetStringSlice("telegram.allowed_ips"), ","))
	cfg.Telegram.NgrokAPIURL = v.GetString("telegram.ngrok_api_url")
	cfg.Telegram.PollTimeout = v.GetDuration("telegram.poll_timeout")
	cfg.Telegram.RateLimitPerMin = v.GetInt("telegram.rate_limit_per_min")

	ids, err := parseIDs(strings.Join(v.GetStringSlice("operators.ids"), ","))
	if err != nil {
		return nil, fmt.Errorf("operators.ids: %w", err)
	}
	if adminIDs, err := parseIDs(v.GetString("admin_id")); err != nil {
		return nil, fmt.Errorf("ADMIN_ID: %w", err)
	} else if len(adminIDs) > 0 {
		ids = adminIDs
	}
	cfg.Operators.IDs = ids

	cfg.Session.TTL = v.GetDuration("session.ttl")
	cfg.Session.Capacity = v.GetInt("session.capacity")

	// Storage
	cfg.Store.Driver = v.GetString("store.driver")
	cfg.Mongo.URI = v.GetString("mongo.uri")
	if uri := v.GetString("mongodb_uri"); uri != "" {
		cfg.Mongo.URI = uri
	}
	cfg.Mongo.Database = v.GetString("mongo.database")
	cfg.Mongo.Timeout = v.GetDuration("mongo.timeout")
	cfg.SQLite.Path = v.GetString("sqlite.path")

	// Capture
	cfg.Capture.Driver = v.GetString("capture.driver")
	cfg.Capture.LoginURL = v.GetString("capture.login_url")
	cfg.Capture.LoginSelector = v.GetString("capture.login_selector")
	cfg.Capture.PasswordSelector = v.GetString("capture.password_selector")
	cfg.Capture.SubmitSelector = v.GetString("capture.submit_selector")
	cfg.Capture.SubmitLabel = v.GetString("capture.submit_label")
	cfg.Capture.SettleDelay = v.GetDuration("capture.settle_delay")
	cfg.Capture.ReadySelector = v.GetString("capture.ready_selector")
	cfg.Capture.NavigationTimeout = v.GetDuration("capture.navigation_timeout")
	cfg.Capture.ViewportWidth = v.GetInt("capture.viewport_width")
	cfg.Capture.ViewportHeight = v.GetInt("capture.viewport_height")
	cfg.Capture.InstallBrowsers = v.GetBool("capture.install_browsers")

	// Schedule
	cfg.Schedule.Cron = v.GetString("schedule.cron")
	cfg.Schedule.Timezone = v.GetString("schedule.timezone")

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults() {
	applyDefaults(viper.GetViper())
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("environment.name", "development")
	v.SetDefault("http_server.port", 8080)
	v.SetDefault("http_server.mode", "release")
	v.SetDefault("logger.level", "debug")
	v.SetDefault("logger.mode", "development")
	v.SetDefault("logger.encoding", "console")
	v.SetDefault("logger.color_enabled", true)
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.dir", "logs")
	v.SetDefault("telemetry.service_name", "emaktab-snapshot")

	v.SetDefault("telegram.mode", TelegramModePolling)
	v.SetDefault("telegram.poll_timeout", "30s")
	v.SetDefault("telegram.ngrok_api_url", "http://ngrok:4040")
	v.SetDefault("telegram.rate_limit_per_min", 30)
	v.SetDefault("session.ttl", "30m")
	v.SetDefault("session.capacity", 64)

	v.SetDefault("store.driver", StoreDriverMongo)
	v.SetDefault("mongo.database", "emaktab_bot")
	v.SetDefault("mongo.timeout", "10s")
	v.SetDefault("sqlite.path", "emaktab.db")

	v.SetDefault("capture.driver", CaptureDriverPlaywright)
	v.SetDefault("capture.login_url", "https://login.emaktab.uz/")
	v.SetDefault("capture.login_selector", `input[name="login"]`)
	v.SetDefault("capture.password_selector", `input[name="password"]`)
	v.SetDefault("capture.submit_selector", `button[type="submit"]`)
	v.SetDefault("capture.submit_label", "Tizimga kirish")
	v.SetDefault("capture.settle_delay", "3s")
	v.SetDefault("capture.navigation_timeout", "30s")
	v.SetDefault("capture.viewport_width", 1280)
	v.SetDefault("capture.viewport_height", 720)
	v.SetDefault("capture.install_browsers", false)

	v.SetDefault("schedule.cron", "45 7 * * *")
	v.SetDefault("schedule.timezone", "Asia/Tashkent")
}

func validate(cfg *Config) error {
	if cfg.Telegram.BotToken == "" {
		return errors.New("telegram bot token is required (TELEGRAM_BOT_TOKEN or BOT_TOKEN)")
	}
	if len(cfg.Operators.IDs) == 0 {
		return errors.New("at least one operator id is required (OPERATORS_IDS or ADMIN_ID)")
	}

	switch cfg.Store.Driver {
	case StoreDriverMongo:
		if cfg.Mongo.URI == "" {
			return errors.New("mongo uri is required (MONGO_URI or MONGODB_URI)")
		}
	case StoreDriverSQLite:
		if cfg.SQLite.Path == "" {
			return errors.New("sqlite path is required")
		}
	default:
		return fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	switch cfg.Capture.Driver {
	case CaptureDriverPlaywright, CaptureDriverRod:
	default:
		return fmt.Errorf("unknown capture driver %q", cfg.Capture.Driver)
	}
	if cfg.Capture.LoginURL == "" {
		return errors.New("capture login url is required")
	}
	if cfg.Capture.SettleDelay < 0 {
		return errors.New("capture settle delay must not be negative")
	}

	switch cfg.Telegram.Mode {
	case TelegramModePolling:
	case TelegramModeWebhook:
		if cfg.HTTPServer.Port == 0 {
			return errors.New("webhook mode needs http_server.port")
		}
	default:
		return fmt.Errorf("unknown telegram mode %q", cfg.Telegram.Mode)
	}

	if _, err := time.LoadLocation(cfg.Schedule.Timezone); err != nil {
		return fmt.Errorf("invalid schedule timezone %q: %w", cfg.Schedule.Timezone, err)
	}

	return nil
}

// splitList splits a comma-separated value, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseIDs splits a comma-separated list of numeric Telegram IDs.
func parseIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range splitList(raw) {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
