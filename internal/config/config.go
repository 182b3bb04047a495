// Package config loads application configuration from environment variables
// with defaults, and validates every setting on startup to fail fast on
// misconfiguration.
package config

import (
	"net"
	"strconv"
	"time"

	"github.com/JonMunkholm/MasterList/internal/core/sources"
)

// Config holds all application configuration.
type Config struct {
	Input    InputConfig
	Output   OutputConfig
	Run      RunConfig
	Server   ServerConfig
	Database DatabaseConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// InputConfig locates the source extracts. File names are relative to Dir
// unless absolute.
type InputConfig struct {
	Dir string `env:"MASTERLIST_INPUT_DIR" default:"."`

	Jobs          string `env:"JOBS_FILE" default:"members_and_jobs.csv"`
	Positions     string `env:"POSITIONS_FILE" default:"members_and_positions.csv"`
	WorkAddresses string `env:"WORK_ADDRESSES_FILE" default:"members_and_work_addresses.csv"`
	PhonesEmails  string `env:"PHONES_EMAILS_FILE" default:"members_and_phones_emails.csv"`
	People        string `env:"PEOPLE_FILE" default:"members_and_people.csv"`
	Addresses     string `env:"ADDRESSES_FILE" default:"members_and_addresses.csv"`
	ContractCodes string `env:"CONTRACT_CODES_FILE" default:"contract_codes_from_bu.csv"`
	HeaderMap     string `env:"HEADER_MAP_FILE" default:"final_header_map.csv"`
}

// Names returns the configured file name per input key.
func (c InputConfig) Names() map[string]string {
	return map[string]string{
		sources.KeyJobs:          c.Jobs,
		sources.KeyPositions:     c.Positions,
		sources.KeyWorkAddresses: c.WorkAddresses,
		sources.KeyPhonesEmails:  c.PhonesEmails,
		sources.KeyPeople:        c.People,
		sources.KeyAddresses:     c.Addresses,
		sources.KeyContractCodes: c.ContractCodes,
		sources.KeyHeaderMap:     c.HeaderMap,
	}
}

// OutputConfig holds output settings.
type OutputConfig struct {
	// File is where the master list is written (default: master_list.csv)
	File string `env:"MASTERLIST_OUTPUT_FILE" default:"master_list.csv"`
}

// RunConfig holds run service settings.
type RunConfig struct {
	// HistoryLimit is how many runs the server remembers (default: 20)
	HistoryLimit int `env:"RUN_HISTORY_LIMIT" default:"20"`

	// Wait is how long a run request waits for a running run (default: 5s)
	Wait time.Duration `env:"RUN_WAIT" default:"5s"`

	// Interval schedules periodic runs in serve mode; 0 disables (default: 0)
	Interval time.Duration `env:"RUN_INTERVAL" default:"0s"`

	// Timeout bounds a single run (default: 10m)
	Timeout time.Duration `env:"RUN_TIMEOUT" default:"10m"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading a request (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing a response (default: 0, none)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"0s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 10m)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"10m"`
}

// DatabaseConfig holds the publish database settings. Publishing is
// disabled when URL is empty.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string (optional)
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// Table is the publish target (default: master_list)
	Table string `env:"PUBLISH_TABLE" default:"master_list"`

	// MaxConns is the maximum number of connections in the pool (default: 4)
	MaxConns int `env:"DB_MAX_CONNS" default:"4"`

	// MinConns is the minimum number of connections to keep open (default: 0)
	MinConns int `env:"DB_MIN_CONNS" default:"0"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`
}

// Enabled reports whether publishing is configured.
func (c DatabaseConfig) Enabled() bool { return c.URL != "" }

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// RequireAPIKey guards run-triggering endpoints with X-API-Key (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted keys
	APIKeys []string `env:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
