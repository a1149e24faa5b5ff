package config

import (
	"strings"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Store      StoreConfig      `yaml:"store"`
	Session    SessionConfig    `yaml:"session"`
	Generation GenerationConfig `yaml:"generation"`
	Identity   IdentityConfig   `yaml:"identity"`
	Log        LogConfig        `yaml:"log"`
	CORS       CORSConfig       `yaml:"cors"`
}

// CORSConfig holds CORS settings. An empty origin list serves same-origin
// pages only. The wildcard origin cannot be combined with credentials.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Content-Type,X-Request-Id,X-Device-Id,X-Url-Writable"`
	ExposedHeaders   string `yaml:"exposed_headers"   env:"CORS_EXPOSED_HEADERS"   env-default:"X-Device-Id,X-Store-Degraded,X-Request-Id"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// Origins returns the trimmed, non-empty entries of AllowedOrigins.
func (c CORSConfig) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"45s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes" env:"SERVER_MAX_UPLOAD_BYTES" env-default:"10485760"`
}

// Store drivers.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverSupabase = "supabase"
	StoreDriverMemory   = "memory"
)

// StoreConfig holds document store settings. Credentials are optional at
// load time; a store without them fails closed at call time.
type StoreConfig struct {
	Driver          string        `yaml:"driver"             env:"STORE_DRIVER"              env-default:"postgres"`
	Collection      string        `yaml:"collection"         env:"STORE_COLLECTION"          env-default:"work_items"`
	Timeout         time.Duration `yaml:"timeout"            env:"STORE_TIMEOUT"             env-default:"5s"`
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"        env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"        env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	MigrateOnStart  bool          `yaml:"migrate_on_start"   env:"DATABASE_MIGRATE_ON_START" env-default:"true"`
	SupabaseURL     string        `yaml:"supabase_url"       env:"SUPABASE_URL"`
	SupabaseKey     string        `yaml:"supabase_key"       env:"SUPABASE_KEY"`
}

// Configured reports whether the selected driver has the credentials it needs.
func (c StoreConfig) Configured() bool {
	switch c.Driver {
	case StoreDriverMemory:
		return true
	case StoreDriverPostgres:
		return c.DSN != ""
	case StoreDriverSupabase:
		return c.SupabaseURL != "" && c.SupabaseKey != ""
	}
	return false
}

// Session drivers.
const (
	SessionDriverMemory = "memory"
	SessionDriverRedis  = "redis"
)

// SessionConfig holds server-side session settings.
type SessionConfig struct {
	Driver              string        `yaml:"driver"                env:"SESSION_DRIVER"                env-default:"memory"`
	TTL                 time.Duration `yaml:"ttl"                   env:"SESSION_TTL"                   env-default:"720h"`
	CookieName          string        `yaml:"cookie_name"           env:"SESSION_COOKIE_NAME"           env-default:"mog_session"`
	CookieSecure        bool          `yaml:"cookie_secure"         env:"SESSION_COOKIE_SECURE"         env-default:"false"`
	RedisAddr           string        `yaml:"redis_addr"            env:"REDIS_ADDR"`
	RedisPassword       string        `yaml:"redis_password"        env:"REDIS_PASSWORD"`
	RedisDB             int           `yaml:"redis_db"              env:"REDIS_DB"                      env-default:"0"`
	HistoryMessageLimit int           `yaml:"history_message_limit" env:"SESSION_HISTORY_MESSAGE_LIMIT" env-default:"10"`
	HistoryTokenLimit   int           `yaml:"history_token_limit"   env:"SESSION_HISTORY_TOKEN_LIMIT"   env-default:"6000"`
}

// Generation providers.
const (
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// GenerationConfig holds language-model settings.
type GenerationConfig struct {
	Provider        string        `yaml:"provider"          env:"GENERATION_PROVIDER"    env-default:"anthropic"`
	Timeout         time.Duration `yaml:"timeout"           env:"GENERATION_TIMEOUT"     env-default:"30s"`
	MaxTokens       int64         `yaml:"max_tokens"        env:"GENERATION_MAX_TOKENS"  env-default:"2048"`
	AnthropicAPIKey string        `yaml:"anthropic_api_key" env:"ANTHROPIC_API_KEY"`
	AnthropicModel  string        `yaml:"anthropic_model"   env:"ANTHROPIC_MODEL"        env-default:"claude-sonnet-4-5"`
	GeminiAPIKey    string        `yaml:"gemini_api_key"    env:"GEMINI_API_KEY"`
	GeminiModel     string        `yaml:"gemini_model"      env:"GEMINI_MODEL"           env-default:"gemini-2.5-flash"`
	// RatePerMinute caps generation calls per client; 0 disables the limit.
	RatePerMinute int `yaml:"rate_per_minute" env:"GENERATION_RATE_PER_MINUTE" env-default:"20"`
}

// Configured reports whether the selected provider has an API key.
func (c GenerationConfig) Configured() bool {
	switch c.Provider {
	case ProviderAnthropic:
		return c.AnthropicAPIKey != ""
	case ProviderGemini:
		return c.GeminiAPIKey != ""
	}
	return false
}

// IdentityConfig controls how client identifiers look and travel.
type IdentityConfig struct {
	Prefix            string        `yaml:"prefix"              env:"IDENTITY_PREFIX"              env-default:"mog"`
	SuffixLength      int           `yaml:"suffix_length"       env:"IDENTITY_SUFFIX_LENGTH"       env-default:"12"`
	QueryParam        string        `yaml:"query_param"         env:"IDENTITY_QUERY_PARAM"         env-default:"device_id"`
	LegacyQueryParams string        `yaml:"legacy_query_params" env:"IDENTITY_LEGACY_QUERY_PARAMS" env-default:"uid"`
	DurableCookie     string        `yaml:"durable_cookie"      env:"IDENTITY_DURABLE_COOKIE"      env-default:"mog_device"`
	DurableMaxAge     time.Duration `yaml:"durable_max_age"     env:"IDENTITY_DURABLE_MAX_AGE"     env-default:"8760h"`
}

// LegacyParams returns the parsed list of legacy query parameter names.
func (c IdentityConfig) LegacyParams() []string {
	var out []string
	for _, p := range strings.Split(c.LegacyQueryParams, ",") {
		p = strings.TrimSpace(p)
		if p != "" && p != c.QueryParam {
			out = append(out, p)
		}
	}
	return out
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
