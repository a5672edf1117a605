package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Booking    BookingConfig
	Pricing    PricingConfig
	Commission CommissionConfig
	Payment    PaymentConfig
	Rabbit     RabbitConfig
	Telemetry  TelemetryConfig
}

type AppConfig struct {
	Name    string
	Env     string
	Port    string
	Debug   bool
	LogPath string

	// Location is the calendar used for nights and opening hours, from APP_TIMEZONE.
	Location *time.Location
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type BookingConfig struct {
	MaxReferenceAttempts int
	LockTimeout          time.Duration
	ReferencePrefix      string
}

type PricingConfig struct {
	ServiceFeePercent float64
	ServiceFeeMin     float64
	ServiceFeeMax     float64
	VenueSlotMinutes  int
}

type CommissionConfig struct {
	DefaultPercent float64
}

type PaymentConfig struct {
	CallbackSecret string
}

type RabbitConfig struct {
	URL             string
	BookingExchange string
	PaymentExchange string
	PaymentQueue    string
}

type TelemetryConfig struct {
	OTLPEndpoint string
}

// LoadConfig reads the given .env file (a missing file is fine) and lets
// environment variables override it.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")

	v.SetDefault("APP_NAME", "hospitality-booking")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_TIMEZONE", "UTC")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("BOOKING_MAX_REFERENCE_ATTEMPTS", 5)
	v.SetDefault("BOOKING_LOCK_TIMEOUT", "5s")
	v.SetDefault("BOOKING_REFERENCE_PREFIX", "BK")
	v.SetDefault("PRICING_SERVICE_FEE_PERCENT", 10.0)
	v.SetDefault("PRICING_SERVICE_FEE_MIN", 5.0)
	v.SetDefault("PRICING_SERVICE_FEE_MAX", 100.0)
	v.SetDefault("PRICING_VENUE_SLOT_MINUTES", 120)
	v.SetDefault("COMMISSION_DEFAULT_PERCENT", 10.0)
	v.SetDefault("BOOKING_EXCHANGE", "booking.exchange")
	v.SetDefault("PAYMENT_EXCHANGE", "payment.exchange")
	v.SetDefault("PAYMENT_QUEUE", "booking.payment.q")

	if err := v.ReadInConfig(); err != nil {
		var pathErr *fs.PathError
		if !errors.As(err, &pathErr) {
			return nil, err
		}
	}

	v.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    v.GetString("APP_NAME"),
			Env:     v.GetString("APP_ENV"),
			Port:    v.GetString("PORT"),
			Debug:   v.GetBool("DEBUG"),
			LogPath: v.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASS"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
		},
		Booking: BookingConfig{
			MaxReferenceAttempts: v.GetInt("BOOKING_MAX_REFERENCE_ATTEMPTS"),
			LockTimeout:          v.GetDuration("BOOKING_LOCK_TIMEOUT"),
			ReferencePrefix:      v.GetString("BOOKING_REFERENCE_PREFIX"),
		},
		Pricing: PricingConfig{
			ServiceFeePercent: v.GetFloat64("PRICING_SERVICE_FEE_PERCENT"),
			ServiceFeeMin:     v.GetFloat64("PRICING_SERVICE_FEE_MIN"),
			ServiceFeeMax:     v.GetFloat64("PRICING_SERVICE_FEE_MAX"),
			VenueSlotMinutes:  v.GetInt("PRICING_VENUE_SLOT_MINUTES"),
		},
		Commission: CommissionConfig{
			DefaultPercent: v.GetFloat64("COMMISSION_DEFAULT_PERCENT"),
		},
		Payment: PaymentConfig{
			CallbackSecret: v.GetString("PAYMENT_CALLBACK_SECRET"),
		},
		Rabbit: RabbitConfig{
			URL:             v.GetString("RABBIT_URL"),
			BookingExchange: v.GetString("BOOKING_EXCHANGE"),
			PaymentExchange: v.GetString("PAYMENT_EXCHANGE"),
			PaymentQueue:    v.GetString("PAYMENT_QUEUE"),
		},
		Telemetry: TelemetryConfig{
			OTLPEndpoint: v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
		},
	}

	loc, err := time.LoadLocation(v.GetString("APP_TIMEZONE"))
	if err != nil {
		return nil, fmt.Errorf("load APP_TIMEZONE: %w", err)
	}
	config.App.Location = loc

	if config.Booking.MaxReferenceAttempts < 1 {
		config.Booking.MaxReferenceAttempts = 1
	}

	return config, nil
}
