package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"EcoKPI"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"ecokpi"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Auth struct {
		JWTSecret string        `envconfig:"AUTH_JWT_SECRET" required:"true"`
		Issuer    string        `envconfig:"AUTH_ISSUER" default:"supabase"`
		TokenTTL  time.Duration `envconfig:"AUTH_TOKEN_TTL" default:"1h"`

		// Upstream identity provider that validates the SPA's login token.
		ProviderURL     string        `envconfig:"AUTH_PROVIDER_URL" default:"http://localhost:54321"`
		ProviderAPIKey  string        `envconfig:"AUTH_PROVIDER_API_KEY"`
		ProviderTimeout time.Duration `envconfig:"AUTH_PROVIDER_TIMEOUT" default:"10s"`
	}

	Workflow struct {
		BaseURL      string        `envconfig:"WORKFLOW_BASE_URL" default:"http://localhost:5678"`
		ExtractPath  string        `envconfig:"WORKFLOW_EXTRACT_PATH" default:"/webhook/extract-invoice"`
		GeneratePath string        `envconfig:"WORKFLOW_GENERATE_PATH" default:"/webhook/generate-kpis"`
		Timeout      time.Duration `envconfig:"WORKFLOW_TIMEOUT" default:"2m"`
		ServiceToken string        `envconfig:"WORKFLOW_SERVICE_TOKEN"`
	}

	Redis struct {
		// Empty address keeps sessions in process memory.
		Addr     string `envconfig:"REDIS_ADDRESS"`
		Password string `envconfig:"REDIS_PASSWORD"`
		DB       int    `envconfig:"REDIS_DB" default:"0"`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
