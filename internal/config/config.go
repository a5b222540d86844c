package config // package config loads application configuration from environment variables

import (
	"errors"
	"os"
	"strconv"
)

// Config holds all runtime configuration. It is populated once at startup
// and passed into handlers and jobs explicitly; business logic never reads
// the environment on its own. Strings for identifiers and secrets, bools
// for feature switches.
type Config struct {
	Env  string // application environment (e.g. "dev", "prod")
	Port string // HTTP port to listen on

	DBUser string // database username
	DBPass string // database password (optional)
	DBHost string // database host address
	DBPort string // database port number
	DBName string // database name

	JWTSecret     string // secret used to sign session tokens
	LoginCodeSalt string // server-wide salt for login-code fingerprints

	// ExposeMigrationState controls whether a not-yet-migrated account is
	// reported distinctly on the wire. When false the response body is
	// byte-identical to a plain credential failure.
	ExposeMigrationState bool

	AMQPURL string // RabbitMQ connection URL (empty disables publishing)

	WhatsAppToken         string // WhatsApp Cloud API access token
	WhatsAppPhoneNumberID string // WhatsApp Cloud API phone_number_id
	WhatsAppAdminPhone    string // admin number for appointment alerts
}

// Load reads configuration from the environment. Nothing is validated
// here: the server validates DB settings at startup and the login handler
// checks AuthReady before touching credentials, so a misconfigured
// deployment answers 500 instead of crash-looping.
func Load() Config {
	return Config{
		Env:                   envStr("APP_ENV", "dev"),
		Port:                  envStr("APP_PORT", "8080"),
		DBUser:                os.Getenv("DB_USER"),
		DBPass:                os.Getenv("DB_PASS"),
		DBHost:                os.Getenv("DB_HOST"),
		DBPort:                envStr("DB_PORT", "3306"),
		DBName:                os.Getenv("DB_NAME"),
		JWTSecret:             os.Getenv("JWT_SECRET"),
		LoginCodeSalt:         os.Getenv("LOGIN_CODE_SALT"),
		ExposeMigrationState:  envBool("AUTH_EXPOSE_MIGRATION_STATE", false),
		AMQPURL:               firstEnv("RABBITMQ_URL", "AMQP_URL"),
		WhatsAppToken:         os.Getenv("WHATSAPP_TOKEN"),
		WhatsAppPhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
		WhatsAppAdminPhone:    os.Getenv("WHATSAPP_ADMIN_PHONE"),
	}
}

// ErrAuthConfig is returned by AuthReady when a credential-critical value
// is missing. It deliberately does not say which one.
var ErrAuthConfig = errors.New("auth configuration incomplete")

// AuthReady reports whether the values the credential subsystem depends on
// are present. Checked before any credential logic runs.
func (c Config) AuthReady() error {
	if c.JWTSecret == "" || c.LoginCodeSalt == "" {
		return ErrAuthConfig
	}
	return nil
}

// ErrDBConfig is returned by DBReady when the store connection settings
// are incomplete.
var ErrDBConfig = errors.New("database configuration incomplete")

// DBReady reports whether the store connection settings are present.
func (c Config) DBReady() error {
	if c.DBUser == "" || c.DBHost == "" || c.DBName == "" {
		return ErrDBConfig
	}
	return nil
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
