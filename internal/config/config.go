package config // package config loads application configuration from environment variables

import (
	"os" // os provides access to environment variables

	"github.com/joho/godotenv"  // godotenv loads a local .env file into the process environment
	"github.com/rs/zerolog/log" // log reports configuration errors and halts execution
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The signing secret and the database settings are
// read once at startup and passed by value to the components that need them.
type Config struct {
	Env            string // application environment (e.g. "development", "production")
	Port           string // HTTP port to listen on
	LogLevel       string // zerolog level name (debug, info, warn, error)
	DBUser         string // database username
	DBPass         string // database password (optional)
	DBHost         string // database host address
	DBPort         string // database port number
	DBName         string // database name
	JWTSecret      string // secret used to sign session tokens
	BcryptCost     int    // bcrypt cost for password hashing
	MigrationsPath string // directory holding golang-migrate SQL files
	MigrateOnStart bool   // apply pending migrations before serving
}

// Production reports whether the server runs with production settings.  In
// production the session cookie carries the Secure attribute and logs are JSON.
func (c Config) Production() bool {
	return c.Env == "production"
}

// Load reads configuration values from environment variables and returns a
// Config.  A .env file in the working directory is loaded first when present;
// variables already set in the environment win over the file.  Required
// variables are enforced by must() and missing values cause the program to
// exit with a fatal log message.
func Load() Config {
	_ = godotenv.Load() // a missing .env is normal outside local development
	return Config{
		Env:            envStr("APP_ENV", "development"),
		Port:           envStr("APP_PORT", "8080"),
		LogLevel:       envStr("LOG_LEVEL", "info"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"), // empty allowed
		DBHost:         must("DB_HOST"),
		DBPort:         envStr("DB_PORT", "3306"),
		DBName:         must("DB_NAME"),
		JWTSecret:      must("JWT_SECRET"),
		BcryptCost:     envInt("BCRYPT_COST", 10),
		MigrationsPath: envStr("MIGRATIONS_PATH", "db/migrations"),
		MigrateOnStart: envBool("MIGRATE_ON_START", true),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatal().Str("key", key).Msg("missing required env var")
	}
	return v
}
