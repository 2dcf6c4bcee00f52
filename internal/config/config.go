package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends accepted in STORE_BACKEND.
const (
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

const defaultMpesaBaseURL = "https://sandbox.safaricom.co.ke"

type MpesaConfig struct {
	ConsumerKey    string
	ConsumerSecret string
	Passkey        string
	ShortCode      string
	CallbackURL    string
	BaseURL        string
	Timeout        time.Duration
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
}

type SMTPConfig struct {
	Host     string
	Port     string
	User     string
	Pass     string
	From     string
	FromName string
}

// Config is read once at startup and never mutated afterwards.
type Config struct {
	Port       string
	Env        string
	CORSOrigin string
	JWTSecret  string

	MongoURI      string
	MongoDatabase string

	StoreBackend     string
	PostgresDSN      string
	AllowMemoryStore bool

	Mpesa  MpesaConfig
	Stripe StripeConfig
	SMTP   SMTPConfig
}

// IsDevelopment reports whether internal error detail may be exposed to clients.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads .env (if present) and the process environment.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	if err := godotenv.Load(envFiles...); err != nil {
		slog.Warn("no env file loaded", "files", strings.Join(envFiles, ","), "err", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function so tests don't touch the
// process environment.
func FromEnv(getenv func(string) string) (Config, error) {
	get := func(k, def string) string {
		if v := strings.TrimSpace(getenv(k)); v != "" {
			return v
		}
		return def
	}

	cfg := Config{
		Port:          get("PORT", "8080"),
		Env:           get("NODE_ENV", get("APP_ENV", "production")),
		CORSOrigin:    get("CORS_ORIGIN", "http://localhost:5173"),
		JWTSecret:     get("JWT_SECRET", ""),
		MongoURI:      get("MONGOURI", ""),
		MongoDatabase: get("MONGO_DATABASE", "mindcaredb"),
		StoreBackend:  strings.ToLower(get("STORE_BACKEND", BackendMongo)),
		PostgresDSN:   get("DB_DSN", ""),
		Mpesa: MpesaConfig{
			ConsumerKey:    get("MPESA_CONSUMER_KEY", ""),
			ConsumerSecret: get("MPESA_CONSUMER_SECRET", ""),
			Passkey:        get("MPESA_PASSKEY", ""),
			ShortCode:      get("MPESA_SHORT_CODE", ""),
			CallbackURL:    get("MPESA_CALLBACK_URL", ""),
			BaseURL:        strings.TrimRight(get("MPESA_API_URL", defaultMpesaBaseURL), "/"),
			Timeout:        30 * time.Second,
		},
		Stripe: StripeConfig{
			SecretKey:     get("STRIPE_SECRET_KEY", ""),
			WebhookSecret: get("STRIPE_WEBHOOK_SECRET", ""),
		},
		SMTP: SMTPConfig{
			Host:     get("SMTP_HOST", "smtp.gmail.com"),
			Port:     get("SMTP_PORT", "587"),
			User:     get("EMAIL_USER", ""),
			Pass:     get("EMAIL_PASS", ""),
			From:     get("EMAIL_FROM", get("EMAIL_USER", "")),
			FromName: get("EMAIL_FROM_NAME", "Therapist"),
		},
	}

	if v := get("MPESA_TIMEOUT_SECONDS", ""); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs <= 0 {
			return Config{}, fmt.Errorf("MPESA_TIMEOUT_SECONDS must be a positive integer, got %q", v)
		}
		cfg.Mpesa.Timeout = time.Duration(secs) * time.Second
	}
	cfg.AllowMemoryStore = get("ALLOW_MEM_BACKEND_FOR_TESTS", "false") == "true"

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var errs []error
	require := func(key, val string) {
		if val == "" {
			errs = append(errs, fmt.Errorf("%s is required", key))
		}
	}

	switch c.StoreBackend {
	case BackendMongo:
	case BackendPostgres:
		require("DB_DSN", c.PostgresDSN)
	case BackendMemory:
		if !c.AllowMemoryStore {
			errs = append(errs, errors.New("memory store is disabled; set ALLOW_MEM_BACKEND_FOR_TESTS=true only in tests"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported STORE_BACKEND=%s", c.StoreBackend))
	}

	// resources other than M-Pesa transactions always live in MongoDB
	require("MONGOURI", c.MongoURI)
	require("JWT_SECRET", c.JWTSecret)
	require("MPESA_CONSUMER_KEY", c.Mpesa.ConsumerKey)
	require("MPESA_CONSUMER_SECRET", c.Mpesa.ConsumerSecret)
	require("MPESA_PASSKEY", c.Mpesa.Passkey)
	require("MPESA_SHORT_CODE", c.Mpesa.ShortCode)
	require("MPESA_CALLBACK_URL", c.Mpesa.CallbackURL)

	return errors.Join(errs...)
}
