package api

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"go.temporal.io/sdk/client"

	bagdomain "github.com/Apurer/go-gin-storefront/internal/domains/bag/domain"
)

// Config carries the settings shared by the storefront API and worker processes.
type Config struct {
	Port        string
	Environment string
	LogLevel    string

	OTLPEndpoint string
	OTLPInsecure bool

	PostgresDSN string

	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool

	SessionSecret string
	SessionSecure bool

	StripePublicKey string
	StripeSecretKey string
	StripeAPIURL    string
	Currency        string

	DeliveryPolicy        string
	FreeDeliveryThreshold decimal.Decimal
	StandardDelivery      decimal.Decimal

	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	SenderEmail        string
}

const devSessionSecret = "storefront-development-session-key"

// LoadConfig reads .env (when present), an optional storefront config file and the environment,
// applies defaults, and validates the numeric settings. Environment variables win over the file.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path := strings.TrimSpace(v.GetString("STOREFRONT_CONFIG")); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("storefront")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/storefront")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}
	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENVIRONMENT", "local")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", true)
	v.SetDefault("TEMPORAL_ADDRESS", client.DefaultHostPort)
	v.SetDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace)
	v.SetDefault("STRIPE_CURRENCY", "usd")
	v.SetDefault("DELIVERY_POLICY", "percentage")
	v.SetDefault("FREE_DELIVERY_THRESHOLD", "50")
	v.SetDefault("STANDARD_DELIVERY", "10")
	v.SetDefault("AWS_REGION", "us-east-1")
}

func fromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		Port:               strings.TrimSpace(v.GetString("PORT")),
		Environment:        strings.TrimSpace(v.GetString("ENVIRONMENT")),
		LogLevel:           strings.TrimSpace(v.GetString("LOG_LEVEL")),
		OTLPEndpoint:       strings.TrimSpace(v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT")),
		OTLPInsecure:       v.GetBool("OTEL_EXPORTER_OTLP_INSECURE"),
		PostgresDSN:        strings.TrimSpace(v.GetString("POSTGRES_DSN")),
		TemporalAddress:    strings.TrimSpace(v.GetString("TEMPORAL_ADDRESS")),
		TemporalNamespace:  strings.TrimSpace(v.GetString("TEMPORAL_NAMESPACE")),
		TemporalDisabled:   v.GetBool("TEMPORAL_DISABLED"),
		SessionSecret:      v.GetString("SESSION_SECRET"),
		SessionSecure:      v.GetBool("SESSION_SECURE"),
		StripePublicKey:    strings.TrimSpace(v.GetString("STRIPE_PUBLIC_KEY")),
		StripeSecretKey:    strings.TrimSpace(v.GetString("STRIPE_SECRET_KEY")),
		StripeAPIURL:       strings.TrimSpace(v.GetString("STRIPE_API_URL")),
		Currency:           strings.ToLower(strings.TrimSpace(v.GetString("STRIPE_CURRENCY"))),
		DeliveryPolicy:     strings.TrimSpace(v.GetString("DELIVERY_POLICY")),
		AWSRegion:          strings.TrimSpace(v.GetString("AWS_REGION")),
		AWSAccessKeyID:     strings.TrimSpace(v.GetString("AWS_ACCESS_KEY_ID")),
		AWSSecretAccessKey: strings.TrimSpace(v.GetString("AWS_SECRET_ACCESS_KEY")),
		SenderEmail:        strings.TrimSpace(v.GetString("DEFAULT_FROM_EMAIL")),
	}

	threshold, err := parseAmount(v, "FREE_DELIVERY_THRESHOLD")
	if err != nil {
		return Config{}, err
	}
	standard, err := parseAmount(v, "STANDARD_DELIVERY")
	if err != nil {
		return Config{}, err
	}
	cfg.FreeDeliveryThreshold = threshold
	cfg.StandardDelivery = standard

	if _, err := cfg.Delivery(); err != nil {
		return Config{}, fmt.Errorf("DELIVERY_POLICY: %w", err)
	}
	if cfg.SessionSecret == "" {
		if cfg.Environment != "local" {
			return Config{}, errors.New("SESSION_SECRET is required outside local environments")
		}
		cfg.SessionSecret = devSessionSecret
	}
	return cfg, nil
}

// Delivery builds the configured delivery policy.
func (c Config) Delivery() (bagdomain.DeliveryPolicy, error) {
	return bagdomain.NewDeliveryPolicy(c.DeliveryPolicy, c.FreeDeliveryThreshold, c.StandardDelivery)
}

func parseAmount(v *viper.Viper, key string) (decimal.Decimal, error) {
	raw := strings.TrimSpace(v.GetString(key))
	amount, err := decimal.NewFromString(raw)
	if err != nil || amount.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("%s must be a non-negative number", key)
	}
	return amount, nil
}
