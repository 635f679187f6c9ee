package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"fulfillment/internal/adapters/out/carrier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/jobs"
	"fulfillment/internal/pkg/errs"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RedisAddr   string
	InFlightTTL time.Duration

	KafkaBrokers            []string
	KafkaNotificationsTopic string

	CarrierBaseURL string
	CarrierToken   string
	CarrierShopID  string
	CarrierTimeout time.Duration

	Package                shipment.PackageDefaults
	RequireCompleteAddress bool

	ReconcileSchedule   string
	ReconcileStaleAfter time.Duration

	LogLevel     string
	OTLPEndpoint string
}

// LoadConfig reads the configuration through getenv, usually os.Getenv.
// Unset variables take their defaults; malformed numbers, durations and
// booleans are reported together.
func LoadConfig(getenv func(string) string) (Config, error) {
	p := envParser{getenv: getenv}

	cfg := Config{
		HTTPPort:   p.string("HTTP_PORT", "8080"),
		DBHost:     p.string("DB_HOST", "localhost"),
		DBPort:     p.string("DB_PORT", "5432"),
		DBUser:     p.string("DB_USER", "postgres"),
		DBPassword: p.string("DB_PASSWORD", ""),
		DBName:     p.string("DB_NAME", "fulfillment"),
		DBSslMode:  p.string("DB_SSLMODE", "disable"),

		RedisAddr:   p.string("REDIS_ADDR", "localhost:6379"),
		InFlightTTL: p.duration("CONFIRM_IN_FLIGHT_TTL", 2*time.Minute),

		KafkaBrokers:            p.list("KAFKA_BROKERS"),
		KafkaNotificationsTopic: p.string("KAFKA_NOTIFICATIONS_TOPIC", "fulfillment.notifications"),

		CarrierBaseURL: p.string("CARRIER_BASE_URL", ""),
		CarrierToken:   p.string("CARRIER_TOKEN", ""),
		CarrierShopID:  p.string("CARRIER_SHOP_ID", ""),
		CarrierTimeout: p.duration("CARRIER_TIMEOUT", 15*time.Second),

		Package: shipment.PackageDefaults{
			Weight:        p.int("PACKAGE_WEIGHT", 200),
			Length:        p.int("PACKAGE_LENGTH", 15),
			Width:         p.int("PACKAGE_WIDTH", 10),
			Height:        p.int("PACKAGE_HEIGHT", 5),
			PaymentTypeID: p.int("PACKAGE_PAYMENT_TYPE_ID", 2),
			RequiredNote:  p.string("PACKAGE_REQUIRED_NOTE", "KHONGCHOXEMHANG"),
			ServiceTypeID: p.int("PACKAGE_SERVICE_TYPE_ID", 2),
			PriceUnit:     kernel.Money(p.int("PRICE_UNIT", int(shipment.DefaultPriceUnit))),
		},
		RequireCompleteAddress: p.bool("REQUIRE_COMPLETE_ADDRESS", false),

		ReconcileSchedule:   p.string("RECONCILE_SCHEDULE", "0 */5 * * * *"),
		ReconcileStaleAfter: p.duration("RECONCILE_STALE_AFTER", 10*time.Minute),

		LogLevel:     p.string("LOG_LEVEL", "info"),
		OTLPEndpoint: p.string("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}

	if err := errors.Join(p.problems...); err != nil {
		return Config{}, err
	}
	if err := cfg.Package.Validate(); err != nil {
		return Config{}, fmt.Errorf("package defaults: %w", err)
	}
	if cfg.InFlightTTL <= cfg.CarrierTimeout {
		return Config{}, errs.NewValueIsInvalidErrorWithCause("CONFIRM_IN_FLIGHT_TTL",
			fmt.Errorf("%s must exceed the carrier timeout %s", cfg.InFlightTTL, cfg.CarrierTimeout))
	}

	return cfg, nil
}

// DSN is the PostgreSQL connection string for the GORM driver.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func (c Config) Carrier() carrier.Config {
	return carrier.Config{
		BaseURL: c.CarrierBaseURL,
		Token:   c.CarrierToken,
		ShopID:  c.CarrierShopID,
		Timeout: c.CarrierTimeout,
	}
}

func (c Config) Reconciliation() jobs.ReconciliationConfig {
	return jobs.ReconciliationConfig{
		Schedule:   c.ReconcileSchedule,
		StaleAfter: c.ReconcileStaleAfter,
	}
}

type envParser struct {
	getenv   func(string) string
	problems []error
}

func (p *envParser) string(key, def string) string {
	if v := strings.TrimSpace(p.getenv(key)); v != "" {
		return v
	}
	return def
}

func (p *envParser) list(key string) []string {
	var out []string
	for _, part := range strings.Split(p.getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (p *envParser) int(key string, def int) int {
	raw := strings.TrimSpace(p.getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.problems = append(p.problems, errs.NewValueIsInvalidErrorWithCause(key, err))
		return def
	}
	return v
}

func (p *envParser) bool(key string, def bool) bool {
	raw := strings.TrimSpace(p.getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		p.problems = append(p.problems, errs.NewValueIsInvalidErrorWithCause(key, err))
		return def
	}
	return v
}

func (p *envParser) duration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(p.getenv(key))
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		p.problems = append(p.problems, errs.NewValueIsInvalidErrorWithCause(key, err))
		return def
	}
	if v <= 0 {
		p.problems = append(p.problems, errs.NewValueIsInvalidErrorWithCause(key,
			fmt.Errorf("%s is not greater than 0", v)))
		return def
	}
	return v
}
