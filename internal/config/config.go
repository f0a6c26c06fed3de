package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"phone_orders/internal/logger"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Platform string

const (
	PlatformRetell Platform = "retell"
	PlatformTelnyx Platform = "telnyx"
	PlatformVapi   Platform = "vapi"
)

var ErrUnknownPlatform = errors.New("unknown platform")

func ParsePlatform(raw string) (Platform, error) {
	switch p := Platform(strings.ToLower(strings.TrimSpace(raw))); p {
	case PlatformRetell, PlatformTelnyx, PlatformVapi:
		return p, nil
	default:
		return "", fmt.Errorf("%w %q (want retell, telnyx or vapi)", ErrUnknownPlatform, raw)
	}
}

// DefaultPort mirrors the ports the three backends have always listened on.
func (p Platform) DefaultPort() string {
	switch p {
	case PlatformTelnyx:
		return "3002"
	case PlatformVapi:
		return "3001"
	default:
		return "3000"
	}
}

type Config struct {
	Platform       Platform      `envconfig:"PLATFORM" required:"true"`
	ServerPort     string        `envconfig:"PORT"`
	RestaurantName string        `envconfig:"RESTAURANT_NAME" default:"FoodInn"`
	WebsiteURL     string        `envconfig:"WEBSITE_URL" default:"foodinn.ie/menu"`
	CurrencySymbol string        `envconfig:"CURRENCY_SYMBOL" default:"€"`
	ShutdownGrace  time.Duration `envconfig:"SHUTDOWN_GRACE" default:"10s"`

	LargeQuantityThreshold int           `envconfig:"LARGE_QUANTITY_THRESHOLD" default:"10"`
	OrderIdleTTL           time.Duration `envconfig:"ORDER_IDLE_TTL" default:"2h"`
	JanitorInterval        time.Duration `envconfig:"JANITOR_INTERVAL" default:"5m"`

	RedisURL       string `envconfig:"REDIS_URL"`
	DatabaseURL    string `envconfig:"DATABASE_URL"`
	AMQPURL        string `envconfig:"AMQP_URL"`
	AdminTokenHash string `envconfig:"ADMIN_TOKEN_HASH"`

	Telnyx TelnyxConfig  `ignored:"true"`
	Log    logger.Config `ignored:"true"`
}

type TelnyxConfig struct {
	APIKey             string `envconfig:"TELNYX_API_KEY"`
	BaseURL            string `envconfig:"TELNYX_BASE_URL" default:"https://api.telnyx.com/v2"`
	AssistantID        string `envconfig:"TELNYX_ASSISTANT_ID"`
	Voice              string `envconfig:"TELNYX_VOICE" default:"Telnyx.KokoroTTS.af_sarah"`
	TranscriptionModel string `envconfig:"TELNYX_TRANSCRIPTION_MODEL" default:"distil-whisper/distil-large-v2"`
}

// LoadEnvFile exports a .env file into the process environment. Variables
// that are already set win. An empty path loads ./.env if it exists.
func LoadEnvFile(path string) error {
	if strings.TrimSpace(path) != "" {
		return godotenv.Load(path)
	}
	if _, err := os.Stat(".env"); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return godotenv.Load()
}

// Load reads the serving configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := envconfig.Process("", &cfg.Log); err != nil {
		return nil, err
	}
	if err := envconfig.Process("", &cfg.Telnyx); err != nil {
		return nil, err
	}

	platform, err := ParsePlatform(string(cfg.Platform))
	if err != nil {
		return nil, err
	}
	cfg.Platform = platform

	if cfg.ServerPort == "" {
		cfg.ServerPort = platform.DefaultPort()
	}
	if cfg.LargeQuantityThreshold <= 0 {
		return nil, fmt.Errorf("LARGE_QUANTITY_THRESHOLD must be positive, got %d", cfg.LargeQuantityThreshold)
	}

	if platform == PlatformTelnyx {
		if cfg.Telnyx.APIKey == "" {
			return nil, errors.New("TELNYX_API_KEY is required for the telnyx platform")
		}
		if cfg.Telnyx.AssistantID == "" {
			return nil, errors.New("TELNYX_ASSISTANT_ID is required for the telnyx platform")
		}
	}

	return &cfg, nil
}
