package config

import (
	"time"

	"github.com/caarlos0/env/v11"

	appenv "github.com/KyubiGames/autoenvios-ml/internal/env"
	"github.com/KyubiGames/autoenvios-ml/internal/oauth"
)

type Config struct {
	Port    string             `env:"PORT" envDefault:"8080"`
	Env     appenv.Environment `env:"ENV" envDefault:"development"`
	BaseURL string             `env:"BASE_URL,required"`

	Meli    Meli    `envPrefix:"MELI_"`
	Catalog Catalog `envPrefix:""`

	// TargetItemID restricts automated messaging to a single listing.
	// Empty means every catalog item is eligible.
	TargetItemID string `env:"TARGET_ITEM_ID"`

	RedisURL    string `env:"REDIS_URL"`
	DatabaseURL string `env:"DATABASE_URL"`

	// DedupTTL bounds the retention window for order idempotency keys.
	// Zero disables deduplication entirely.
	DedupTTL time.Duration `env:"DEDUP_TTL" envDefault:"24h"`
}

type Meli struct {
	ClientID     string `env:"CLIENT_ID,required"`
	ClientSecret string `env:"CLIENT_SECRET,required"`

	// RefreshToken optionally seeds the credential store at boot, so a
	// deployment can start sending without re-running the authorization flow.
	RefreshToken string `env:"REFRESH_TOKEN"`
}

type Catalog struct {
	Path           string `env:"CATALOG_PATH"`
	DefaultMessage string `env:"DEFAULT_MESSAGE"`
}

var _ oauth.ConfigProvider = (*Config)(nil)

func (c Config) GetClientID() string     { return c.Meli.ClientID }
func (c Config) GetClientSecret() string { return c.Meli.ClientSecret }
func (c Config) GetRedirectURL() string  { return c.BaseURL + "/callback" }

func Read() (Config, error) {
	return env.ParseAs[Config]()
}
