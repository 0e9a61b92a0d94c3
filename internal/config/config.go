// Package config loads the pool credentials and endpoint from the process
// environment and an optional dotenv file in the user's home directory.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"
)

const (
	// EnvFileName is the optional dotenv file looked up in the home directory.
	EnvFileName = ".bitcoinpuzzles.env"

	// DefaultBaseURL is used when no BASE_URL is configured anywhere.
	DefaultBaseURL = "https://bitcoinpuzzles.com/api"

	envToken   = "POOL_TOKEN"
	envBaseURL = "BASE_URL"
)

// ErrMissingToken means no pool token was found in the environment or the
// env file. Loading still succeeds; cycles that need the token fail fast.
var ErrMissingToken = errors.New("pool token not configured")

// Config holds the settings needed to talk to the pool.
type Config struct {
	// Token authenticates every pool request.
	Token string

	// BaseURL is the root of the pool API, without a trailing slash.
	BaseURL string
}

// HasToken reports whether a pool token is configured.
func (c *Config) HasToken() bool {
	return c.Token != ""
}

// Load reads ~/.bitcoinpuzzles.env and the process environment and returns
// the effective configuration. Environment variables win; file values only
// fill keys the environment leaves unset. A missing or unreadable file is
// not an error.
func Load(logger *zap.Logger) *Config {
	path := ""
	if home, err := os.UserHomeDir(); err == nil {
		path = filepath.Join(home, EnvFileName)
	} else {
		logger.Warn("cannot resolve home directory; skipping env file", zap.Error(err))
	}
	return LoadFile(path, logger)
}

// LoadFile is Load with an explicit env file path.
func LoadFile(path string, logger *zap.Logger) *Config {
	fileVals := readEnvFile(path, logger)

	cfg := &Config{
		Token:   lookup(envToken, fileVals),
		BaseURL: lookup(envBaseURL, fileVals),
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if !cfg.HasToken() {
		logger.Error("POOL_TOKEN not set; add it to the environment or " + EnvFileName)
	}
	return cfg
}

// lookup returns the value for key from the environment, falling back to the
// env file only when the variable is entirely unset. A variable set to the
// empty string still shadows the file.
func lookup(key string, file gotenv.Env) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return file[key]
}

// readEnvFile parses a dotenv file into a map. Returns an empty map when the
// path is blank or the file cannot be read. Malformed lines are dropped by
// the parser rather than failing the whole file.
func readEnvFile(path string, logger *zap.Logger) gotenv.Env {
	if path == "" {
		return gotenv.Env{}
	}
	f, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("env file unreadable", zap.String("path", path), zap.Error(err))
		}
		return gotenv.Env{}
	}
	defer f.Close()

	vals := gotenv.Parse(f)
	logger.Debug("loaded env file", zap.String("path", path), zap.Int("keys", len(vals)))
	return vals
}
