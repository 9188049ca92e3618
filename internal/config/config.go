package config

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is read once at startup and passed explicitly; nothing else in the
// process reads environment variables.
type Config struct {
	HTTPPort    string `env:"HTTP_PORT" env-default:"8080"`
	DatabaseURL string `env:"DATABASE_URL" env-required:"true"`
	LogLevel    string `env:"LOG_LEVEL" env-default:"info"`

	JWT     JWT     `env-prefix:"JWT_"`
	IPInfo  IPInfo  `env-prefix:"IPINFO_"`
	Media   Media   `env-prefix:"MEDIA_"`
	Session Session `env-prefix:"SESSION_"`
}

type JWT struct {
	Secret     string        `env:"SECRET" env-required:"true"`
	AccessTTL  time.Duration `env:"ACCESS_TTL" env-default:"15m"`
	RefreshTTL time.Duration `env:"REFRESH_TTL" env-default:"72h"`
	ResetTTL   time.Duration `env:"RESET_TTL" env-default:"48h"`
}

type IPInfo struct {
	Endpoint string        `env:"ENDPOINT" env-default:"https://ipinfo.io/json"`
	Timeout  time.Duration `env:"TIMEOUT" env-default:"3s"`
}

type Media struct {
	Endpoint      string `env:"ENDPOINT"`
	AccessKey     string `env:"ACCESS_KEY"`
	SecretKey     string `env:"SECRET_KEY"`
	Bucket        string `env:"BUCKET" env-default:"blog-media"`
	UseSSL        bool   `env:"USE_SSL" env-default:"true"`
	PublicBaseURL string `env:"PUBLIC_BASE_URL"`
}

type Session struct {
	Retention     time.Duration `env:"RETENTION" env-default:"720h"`
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" env-default:"1h"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
