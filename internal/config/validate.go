package config

import (
	"fmt"
	"regexp"
)

var prefixPattern = regexp.MustCompile(`^[a-z][a-z0-9]{0,15}$`)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
// Missing store or generation credentials are not errors: those components
// fail closed at call time while identity keeps working.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}

	if err := c.Store.validate(); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	if err := c.Session.validate(); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	if err := c.Generation.validate(); err != nil {
		return fmt.Errorf("generation: %w", err)
	}
	if err := c.Identity.validate(); err != nil {
		return fmt.Errorf("identity: %w", err)
	}
	if err := c.CORS.validate(); err != nil {
		return fmt.Errorf("cors: %w", err)
	}

	return nil
}

func (s *StoreConfig) validate() error {
	switch s.Driver {
	case StoreDriverPostgres, StoreDriverSupabase, StoreDriverMemory:
	default:
		return fmt.Errorf("unknown driver %q", s.Driver)
	}
	if s.Collection == "" {
		return fmt.Errorf("collection is required")
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0 (got %v)", s.Timeout)
	}
	return nil
}

func (s *SessionConfig) validate() error {
	switch s.Driver {
	case SessionDriverMemory:
	case SessionDriverRedis:
		if s.RedisAddr == "" {
			return fmt.Errorf("redis_addr is required for the redis driver")
		}
	default:
		return fmt.Errorf("unknown driver %q", s.Driver)
	}
	if s.CookieName == "" {
		return fmt.Errorf("cookie_name is required")
	}
	if s.HistoryMessageLimit <= 0 {
		return fmt.Errorf("history_message_limit must be > 0 (got %d)", s.HistoryMessageLimit)
	}
	return nil
}

func (g *GenerationConfig) validate() error {
	switch g.Provider {
	case ProviderAnthropic, ProviderGemini:
	default:
		return fmt.Errorf("unknown provider %q", g.Provider)
	}
	if g.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0 (got %v)", g.Timeout)
	}
	if g.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be > 0 (got %d)", g.MaxTokens)
	}
	if g.RatePerMinute < 0 {
		return fmt.Errorf("rate_per_minute must be >= 0 (got %d)", g.RatePerMinute)
	}
	return nil
}

func (i *IdentityConfig) validate() error {
	if !prefixPattern.MatchString(i.Prefix) {
		return fmt.Errorf("prefix %q must be 1-16 lowercase letters or digits starting with a letter", i.Prefix)
	}
	if i.SuffixLength < 8 || i.SuffixLength > 32 {
		return fmt.Errorf("suffix_length must be in 8..32 (got %d)", i.SuffixLength)
	}
	if i.QueryParam == "" {
		return fmt.Errorf("query_param is required")
	}
	if i.DurableCookie == "" {
		return fmt.Errorf("durable_cookie is required")
	}
	return nil
}

func (c *CORSConfig) validate() error {
	if c.MaxAge < 0 {
		return fmt.Errorf("max_age must be >= 0 (got %d)", c.MaxAge)
	}
	if !c.AllowCredentials {
		return nil
	}
	for _, o := range c.Origins() {
		if o == "*" {
			return fmt.Errorf("allowed_origins %q cannot be combined with allow_credentials", o)
		}
	}
	return nil
}
