package config

import (
	"fmt"
	"log"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port         string   `env:"PORT" envDefault:"8080"`
	AllowOrigins []string `env:"ALLOW_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	LogLevel     string   `env:"LOG_LEVEL" envDefault:"info"`
	LogstashAddr string   `env:"LOGSTASH_TCP_ADDR"`
	AppName      string   `env:"APP_NAME" envDefault:"Hire Radar"`
	FrontendURL  string   `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`

	DBHost     string `env:"DB_HOST,required,notEmpty"`
	DBPort     string `env:"DB_PORT"`
	DBUser     string `env:"DB_USERNAME,required,notEmpty"`
	DBPassword string `env:"DB_PASSWORD,required,notEmpty"`
	DBName     string `env:"DB_NAME,required,notEmpty"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	JWTSecret  string        `env:"JWT_SECRET,required,notEmpty"`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	PasswordResetTTL        time.Duration `env:"PASSWORD_RESET_TTL" envDefault:"1h"`
	ForgotPasswordRateLimit float64       `env:"FORGOT_PASSWORD_RATE_LIMIT" envDefault:"0.2"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `env:"GOOGLE_REDIRECT_URL" envDefault:"http://localhost:8080/auth/google/callback"`

	SMTPHost     string `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPFrom     string `env:"FROM_EMAIL"`

	MinIOEndpoint     string `env:"MINIO_ENDPOINT"`
	MinIOAccessKey    string `env:"MINIO_ACCESS_KEY"`
	MinIOSecretKey    string `env:"MINIO_SECRET_KEY"`
	MinIOUseSSL       bool   `env:"MINIO_USE_SSL" envDefault:"false"`
	MinIOBucketAvatar string `env:"MINIO_BUCKET_AVATARS" envDefault:"hireradar-avatars"`
	MinIOPublicURL    string `env:"MINIO_PUBLIC_URL"`
	AvatarMaxBytes    int64  `env:"AVATAR_MAX_BYTES" envDefault:"2097152"`
}

// Load reads .env (if present) and the process environment. It panics when a
// required variable is missing so the process never starts half-configured.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}
	cfg, err := Parse()
	if err != nil {
		panic(err)
	}
	return cfg
}

func Parse() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg.AllowOrigins = splitAndTrim(cfg.AllowOrigins)
	cfg.FrontendURL = strings.TrimRight(strings.TrimSpace(cfg.FrontendURL), "/")
	if cfg.SMTPFrom == "" {
		cfg.SMTPFrom = cfg.SMTPUser
	}
	return cfg, nil
}

// DatabaseURL assembles the Postgres DSN. The port is optional.
func (c Config) DatabaseURL() string {
	host := c.DBHost
	if c.DBPort != "" {
		host = net.JoinHostPort(c.DBHost, c.DBPort)
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.DBUser, c.DBPassword),
		Host:   host,
		Path:   "/" + c.DBName,
	}
	if c.DBSSLMode != "" {
		u.RawQuery = url.Values{"sslmode": []string{c.DBSSLMode}}.Encode()
	}
	return u.String()
}

func (c Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

func (c Config) MinIOEnabled() bool {
	return c.MinIOEndpoint != "" && c.MinIOAccessKey != "" && c.MinIOSecretKey != ""
}

func splitAndTrim(parts []string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
