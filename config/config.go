package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBPort        string
	RedisAddr     string
	RedisPort     string
	RedisPassword string
	JWTSecret     string
	LedgerSecret  string
	HTTPAddr      string

	// Log configuration
	LogLevel      string
	LogFilename   string
	LogMaxSize    int
	LogMaxBackups int
	LogMaxAge     int
	LogCompress   bool

	// Settlement
	PaymentLeadTime       time.Duration
	PixTTL                time.Duration
	CommissionStandardBPS int64
	CommissionPremiumBPS  int64
	CASMaxRetries         int
	MatchDefaultLimit     int
	SweepInterval         time.Duration

	// Gateway: "epay" or "stripe"
	PaymentGateway      string
	EpayURL             string
	EpayPID             string
	EpayKey             string
	PaymentNotifyURL    string
	PaymentReturnURL    string
	StripeSecretKey     string
	StripeWebhookSecret string
	StripeCurrency      string

	// Verification document storage
	OSSEndpoint        string
	OSSRegion          string
	OSSBucketName      string
	OSSAccessKeyID     string
	OSSAccessKeySecret string
	OSSRoleArn         string
}

func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

func (c *Config) RedisFullAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisAddr, c.RedisPort)
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		// Ignore error if .env file is not found
		if !os.IsNotExist(err) {
			return nil, err
		}
	}

	return &Config{
		DBHost:        os.Getenv("DB_HOST"),
		DBUser:        os.Getenv("DB_USER"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		DBName:        os.Getenv("DB_NAME"),
		DBPort:        os.Getenv("DB_PORT"),
		RedisAddr:     os.Getenv("REDIS_HOST"),
		RedisPort:     os.Getenv("REDIS_PORT"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		LedgerSecret:  getEnv("LEDGER_SECRET", os.Getenv("JWT_SECRET")),
		HTTPAddr:      getEnv("HTTP_ADDR", ":8080"),

		LogLevel:      getEnv("LOG_LEVEL", "INFO"),
		LogFilename:   getEnv("LOG_FILENAME", "logs/app.log"),
		LogMaxSize:    getEnvAsInt("LOG_MAX_SIZE", 100),
		LogMaxBackups: getEnvAsInt("LOG_MAX_BACKUPS", 3),
		LogMaxAge:     getEnvAsInt("LOG_MAX_AGE", 28),
		LogCompress:   getEnvAsBool("LOG_COMPRESS", true),

		PaymentLeadTime:       getEnvAsDuration("PAYMENT_LEAD_TIME", 48*time.Hour),
		PixTTL:                getEnvAsDuration("PIX_TTL", 30*time.Minute),
		CommissionStandardBPS: int64(getEnvAsInt("COMMISSION_STANDARD_BPS", 1500)),
		CommissionPremiumBPS:  int64(getEnvAsInt("COMMISSION_PREMIUM_BPS", 1000)),
		CASMaxRetries:         getEnvAsInt("CAS_MAX_RETRIES", 5),
		MatchDefaultLimit:     getEnvAsInt("MATCH_DEFAULT_LIMIT", 20),
		SweepInterval:         getEnvAsDuration("SWEEP_INTERVAL", time.Minute),

		PaymentGateway:      getEnv("PAYMENT_GATEWAY", "epay"),
		EpayURL:             os.Getenv("EPAY_URL"),
		EpayPID:             os.Getenv("EPAY_PID"),
		EpayKey:             os.Getenv("EPAY_KEY"),
		PaymentNotifyURL:    getEnv("PAYMENT_NOTIFY_URL", "http://localhost:8080/api/v1/payments/notify/epay"),
		PaymentReturnURL:    getEnv("PAYMENT_RETURN_URL", "http://localhost:5173/payment-success"),
		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		StripeCurrency:      getEnv("STRIPE_CURRENCY", "brl"),

		OSSEndpoint:        os.Getenv("OSS_ENDPOINT"),
		OSSRegion:          os.Getenv("OSS_REGION"),
		OSSBucketName:      os.Getenv("OSS_BUCKET_NAME"),
		OSSAccessKeyID:     os.Getenv("OSS_ACCESS_KEY_ID"),
		OSSAccessKeySecret: os.Getenv("OSS_ACCESS_KEY_SECRET"),
		OSSRoleArn:         os.Getenv("OSS_ROLE_ARN"),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := strconv.Atoi(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := strconv.ParseBool(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := time.ParseDuration(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}
