package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all the configuration for the application.
type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	Google       GoogleConfig
	SMTP         SMTPConfig
	Activation   ActivationConfig
	Verification VerificationConfig
	Frontend     FrontendConfig
	Notification NotificationConfig
	RateLimit    RateLimitConfig

	// JWTSecret signs login/session access tokens.
	JWTSecret string `mapstructure:"jwtsecret"`

	// SecretKey signs derived activation/reset tokens. SecretKeyFallbacks are
	// older keys still accepted during verification so rotation does not
	// invalidate in-flight links.
	SecretKey          string   `mapstructure:"secretkey"`
	SecretKeyFallbacks []string `mapstructure:"secretkeyfallbacks"`
}

// ServerConfig holds the server configuration.
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Env  string `mapstructure:"env"`
}

// DatabaseConfig holds the database configuration.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// RedisConfig holds the Redis configuration.
type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type GoogleConfig struct {
	ClientID     string `mapstructure:"clientid"`
	ClientSecret string `mapstructure:"clientsecret"`
	RedirectURL  string `mapstructure:"redirecturl"`
}

type SMTPConfig struct {
	From     string `mapstructure:"from"`
	Password string `mapstructure:"password"`
	Username string `mapstructure:"username"`
	Port     int    `mapstructure:"port"`
	Host     string `mapstructure:"host"`
}

// ActivationConfig controls the activation-link lifecycle.
type ActivationConfig struct {
	// Skip activates every new account at creation time (dev/staging escape hatch).
	Skip bool `mapstructure:"skip"`
	// TokenExpirySeconds bounds the validity window of activation-link tokens.
	TokenExpirySeconds int `mapstructure:"tokenexpiryseconds"`
	// ResendCooldownSeconds is the minimum gap between two activation emails.
	ResendCooldownSeconds int `mapstructure:"resendcooldownseconds"`
}

// VerificationConfig controls the 6-digit email verification codes.
type VerificationConfig struct {
	TTLMinutes int `mapstructure:"ttlminutes"`
}

// FrontendConfig holds the URLs embedded into outgoing emails.
type FrontendConfig struct {
	BaseURL           string `mapstructure:"baseurl"`
	ActivationPath    string `mapstructure:"activationpath"`
	PasswordResetPath string `mapstructure:"passwordresetpath"`
}

// NotificationConfig gates outbound notification channels. EmailEnabled is a
// plain config value handed to the notification service constructor rather
// than a process-wide toggle.
type NotificationConfig struct {
	EmailEnabled bool `mapstructure:"emailenabled"`
}

// RateLimitConfig bounds requests per client IP on the auth endpoints.
type RateLimitConfig struct {
	Requests      int `mapstructure:"requests"`
	WindowSeconds int `mapstructure:"windowseconds"`
}

// Load creates a new Config object from environment variables.
func Load() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Load .env into process environment for BindEnv to work with file-based envs
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️ godotenv could not load .env: %v", err)
	}

	// Bind structured keys to environment variables
	_ = viper.BindEnv("server.port", "SERVER_PORT")
	_ = viper.BindEnv("server.env", "SERVER_ENV")
	_ = viper.BindEnv("database.url", "DATABASE_URL")
	_ = viper.BindEnv("redis.url", "REDIS_URL")
	_ = viper.BindEnv("jwtsecret", "JWT_SECRET")
	_ = viper.BindEnv("secretkey", "SECRET_KEY")
	_ = viper.BindEnv("secretkeyfallbacks", "SECRET_KEY_FALLBACKS")
	_ = viper.BindEnv("google.clientid", "GOOGLE_CLIENT_ID")
	_ = viper.BindEnv("google.clientsecret", "GOOGLE_CLIENT_SECRET")
	_ = viper.BindEnv("google.redirecturl", "GOOGLE_REDIRECT_URL")
	_ = viper.BindEnv("smtp.from", "SMTP_FROM")
	_ = viper.BindEnv("smtp.password", "SMTP_PASSWORD")
	_ = viper.BindEnv("smtp.username", "SMTP_USERNAME")
	_ = viper.BindEnv("smtp.port", "SMTP_PORT")
	_ = viper.BindEnv("smtp.host", "SMTP_HOST")
	_ = viper.BindEnv("activation.skip", "SKIP_ACTIVATION")
	_ = viper.BindEnv("activation.tokenexpiryseconds", "ACTIVATION_TOKEN_EXPIRY_SECONDS")
	_ = viper.BindEnv("activation.resendcooldownseconds", "ACTIVATION_RESEND_COOLDOWN_SECONDS")
	_ = viper.BindEnv("verification.ttlminutes", "VERIFICATION_TTL_MINUTES")
	_ = viper.BindEnv("frontend.baseurl", "FRONTEND_BASE_URL")
	_ = viper.BindEnv("frontend.activationpath", "FRONTEND_ACTIVATION_PATH")
	_ = viper.BindEnv("frontend.passwordresetpath", "FRONTEND_PASSWORD_RESET_PATH")
	_ = viper.BindEnv("notification.emailenabled", "NOTIFICATION_EMAIL_ENABLED")
	_ = viper.BindEnv("ratelimit.requests", "RATE_LIMIT_REQUESTS")
	_ = viper.BindEnv("ratelimit.windowseconds", "RATE_LIMIT_WINDOW_SECONDS")

	if err := viper.ReadInConfig(); err != nil {
		// Missing .env is fine as long as everything is set via environment variables.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Fatalf("❌ Error reading config file: %s", err)
		} else {
			log.Printf("⚠️ .env file not found, relying on environment variables")
		}
	} else {
		log.Printf("ℹ️ Using config file: %s", viper.ConfigFileUsed())
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		log.Fatalf("❌ Unable to decode config into struct: %v", err)
	}

	// Comma-separated fallback list comes through as a single string.
	if len(cfg.SecretKeyFallbacks) == 1 && strings.Contains(cfg.SecretKeyFallbacks[0], ",") {
		cfg.SecretKeyFallbacks = splitAndTrim(cfg.SecretKeyFallbacks[0])
	}

	// --- Set default values ---
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Server.Env == "" {
		cfg.Server.Env = "development"
	}
	if cfg.Activation.TokenExpirySeconds <= 0 {
		cfg.Activation.TokenExpirySeconds = 3600
	}
	if cfg.Activation.ResendCooldownSeconds <= 0 {
		cfg.Activation.ResendCooldownSeconds = 900
	}
	if cfg.Verification.TTLMinutes <= 0 {
		cfg.Verification.TTLMinutes = 10
	}
	if cfg.RateLimit.Requests <= 0 {
		cfg.RateLimit.Requests = 30
	}
	if cfg.RateLimit.WindowSeconds <= 0 {
		cfg.RateLimit.WindowSeconds = 60
	}

	log.Println("✅ Configuration loaded successfully")
	return &cfg
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
