package config

// Config holds all application configuration, grouped by concern.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"      validate:"required"`
	SSO      SSOConfig      `mapstructure:"sso"`
}

// ServerConfig contains the HTTP server settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	// AllowedOrigins are the CORS origins permitted to call the API
	// (the SPA's origins). An empty list allows none.
	AllowedOrigins []string `mapstructure:"allowed_origins"`

	// RateLimitPerSecond and RateLimitBurst configure the token bucket
	// protecting the generation endpoints.
	RateLimitPerSecond float64 `mapstructure:"rate_limit_per_second" validate:"gte=0"`
	RateLimitBurst     int     `mapstructure:"rate_limit_burst"      validate:"gte=0"`
}

// DatabaseConfig contains the database settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains authentication settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret"                     validate:"required,min=32"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes"         validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`
}

// LLMConfig contains the settings for the upstream text-generation service.
type LLMConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key" validate:"required"`
	ModelName    string `mapstructure:"model_name"     validate:"required"`
}

// SSOConfig contains the settings for the external single-sign-on identity
// provider. SSO is optional: when Issuer is empty the SSO routes are not
// registered.
type SSOConfig struct {
	Issuer       string   `mapstructure:"issuer"        validate:"omitempty,url"`
	ClientID     string   `mapstructure:"client_id"     validate:"required_with=Issuer"`
	ClientSecret string   `mapstructure:"client_secret" validate:"required_with=Issuer"`
	RedirectURI  string   `mapstructure:"redirect_uri"  validate:"required_with=Issuer,omitempty,url"`
	ProfileAPI   string   `mapstructure:"profile_api"   validate:"omitempty,url"`
	Scopes       []string `mapstructure:"scopes"`
}

// Enabled reports whether SSO login is configured.
func (c SSOConfig) Enabled() bool {
	return c.Issuer != ""
}
