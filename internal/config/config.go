package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Log      LogConfig
	Order    OrderConfig
	Shipping ShippingConfig
	Payment  PaymentConfig
	Email    EmailConfig
	Events   EventsConfig
	Store    StoreConfig
}

type ServerConfig struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type LogConfig struct {
	Level   string
	Format  string
	Service string
}

type OrderConfig struct {
	PersistTxTimeout time.Duration
	MaxRetryAttempts int
	NotifyTimeout    time.Duration
}

// ShippingConfig configures the carrier rate API. An empty APIToken selects
// fallback-only pricing.
type ShippingConfig struct {
	APIURL           string
	APIToken         string
	OriginPostalCode string
	Timeout          time.Duration
}

// PaymentConfig configures the payment provider. An empty StripeSecretKey
// selects simulation mode.
type PaymentConfig struct {
	StripeSecretKey string
	Timeout         time.Duration
	BoletoDueDays   int
	PixKey          string
	MerchantName    string
	MerchantCity    string
	DocumentBaseURL string
}

type EmailConfig struct {
	APIURL  string
	APIKey  string
	From    string
	Timeout time.Duration
}

type EventsConfig struct {
	QueueURL  string
	AWSRegion string
}

type StoreConfig struct {
	Name    string
	BaseURL string
}

func (c ShippingConfig) LiveMode() bool { return strings.TrimSpace(c.APIToken) != "" }

func (c PaymentConfig) LiveMode() bool { return strings.TrimSpace(c.StripeSecretKey) != "" }

func (c EmailConfig) Enabled() bool { return strings.TrimSpace(c.APIKey) != "" }

func (c EventsConfig) Enabled() bool { return strings.TrimSpace(c.QueueURL) != "" }

func Load() (*Config, error) {
	v := viper.New()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		}
	}

	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_READ_TIMEOUT", "10s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "30s")
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 3306)
	v.SetDefault("DB_USER", "vitrine")
	v.SetDefault("DB_PASSWORD", "secret")
	v.SetDefault("DB_NAME", "vitrine")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("LOG_SERVICE", "vitrine")
	v.SetDefault("ORDER_PERSIST_TX_TIMEOUT", "5s")
	v.SetDefault("ORDER_MAX_RETRY_ATTEMPTS", 3)
	v.SetDefault("ORDER_NOTIFY_TIMEOUT", "15s")
	v.SetDefault("SHIPPING_API_URL", "https://sandbox.melhorenvio.com.br/api/v2/me/shipment/calculate")
	v.SetDefault("SHIPPING_API_TOKEN", "")
	v.SetDefault("SHIPPING_ORIGIN_POSTAL_CODE", "01310100")
	v.SetDefault("SHIPPING_TIMEOUT", "8s")
	v.SetDefault("PAYMENT_STRIPE_SECRET_KEY", "")
	v.SetDefault("PAYMENT_TIMEOUT", "15s")
	v.SetDefault("PAYMENT_BOLETO_DUE_DAYS", 3)
	v.SetDefault("PAYMENT_PIX_KEY", "pagamentos@vitrine.com.br")
	v.SetDefault("PAYMENT_MERCHANT_NAME", "VITRINE")
	v.SetDefault("PAYMENT_MERCHANT_CITY", "SAO PAULO")
	v.SetDefault("PAYMENT_DOCUMENT_BASE_URL", "https://pagamentos.vitrine.com.br/boletos")
	v.SetDefault("EMAIL_API_URL", "https://api.resend.com/emails")
	v.SetDefault("EMAIL_API_KEY", "")
	v.SetDefault("EMAIL_FROM", "Vitrine <pedidos@vitrine.com.br>")
	v.SetDefault("EMAIL_TIMEOUT", "10s")
	v.SetDefault("EVENTS_QUEUE_URL", "")
	v.SetDefault("AWS_REGION", "sa-east-1")
	v.SetDefault("STORE_NAME", "Vitrine")
	v.SetDefault("STORE_BASE_URL", "https://vitrine.com.br")

	durations := map[string]time.Duration{}
	for _, key := range []string{
		"SERVER_READ_TIMEOUT",
		"SERVER_WRITE_TIMEOUT",
		"SERVER_SHUTDOWN_TIMEOUT",
		"DB_CONN_MAX_LIFETIME",
		"ORDER_PERSIST_TX_TIMEOUT",
		"ORDER_NOTIFY_TIMEOUT",
		"SHIPPING_TIMEOUT",
		"PAYMENT_TIMEOUT",
		"EMAIL_TIMEOUT",
	} {
		d, err := time.ParseDuration(v.GetString(key))
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", key, err)
		}
		durations[key] = d
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            v.GetInt("SERVER_PORT"),
			ReadTimeout:     durations["SERVER_READ_TIMEOUT"],
			WriteTimeout:    durations["SERVER_WRITE_TIMEOUT"],
			ShutdownTimeout: durations["SERVER_SHUTDOWN_TIMEOUT"],
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: durations["DB_CONN_MAX_LIFETIME"],
		},
		Log: LogConfig{
			Level:   v.GetString("LOG_LEVEL"),
			Format:  v.GetString("LOG_FORMAT"),
			Service: v.GetString("LOG_SERVICE"),
		},
		Order: OrderConfig{
			PersistTxTimeout: durations["ORDER_PERSIST_TX_TIMEOUT"],
			MaxRetryAttempts: v.GetInt("ORDER_MAX_RETRY_ATTEMPTS"),
			NotifyTimeout:    durations["ORDER_NOTIFY_TIMEOUT"],
		},
		Shipping: ShippingConfig{
			APIURL:           v.GetString("SHIPPING_API_URL"),
			APIToken:         v.GetString("SHIPPING_API_TOKEN"),
			OriginPostalCode: v.GetString("SHIPPING_ORIGIN_POSTAL_CODE"),
			Timeout:          durations["SHIPPING_TIMEOUT"],
		},
		Payment: PaymentConfig{
			StripeSecretKey: v.GetString("PAYMENT_STRIPE_SECRET_KEY"),
			Timeout:         durations["PAYMENT_TIMEOUT"],
			BoletoDueDays:   v.GetInt("PAYMENT_BOLETO_DUE_DAYS"),
			PixKey:          v.GetString("PAYMENT_PIX_KEY"),
			MerchantName:    v.GetString("PAYMENT_MERCHANT_NAME"),
			MerchantCity:    v.GetString("PAYMENT_MERCHANT_CITY"),
			DocumentBaseURL: v.GetString("PAYMENT_DOCUMENT_BASE_URL"),
		},
		Email: EmailConfig{
			APIURL:  v.GetString("EMAIL_API_URL"),
			APIKey:  v.GetString("EMAIL_API_KEY"),
			From:    v.GetString("EMAIL_FROM"),
			Timeout: durations["EMAIL_TIMEOUT"],
		},
		Events: EventsConfig{
			QueueURL:  v.GetString("EVENTS_QUEUE_URL"),
			AWSRegion: v.GetString("AWS_REGION"),
		},
		Store: StoreConfig{
			Name:    v.GetString("STORE_NAME"),
			BaseURL: v.GetString("STORE_BASE_URL"),
		},
	}

	return cfg, nil
}
