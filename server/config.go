// Package server serves the game HTTP API and the game event stream.
package server

import (
	"errors"
	"fmt"
	"os"
)

const (
	// DefaultPort is the default port number for the server.
	DefaultPort = 8000
)

// Below is the Error message for the server.
var (
	ErrInvalidPort     = errors.New("invalid port")
	ErrInvalidCertFile = errors.New("invalid cert file")
	ErrInvalidKeyFile  = errors.New("invalid key file")
)

// Config is the configuration for creating a Server instance.
type Config struct {
	Port     int
	Debug    bool
	CertFile string
	KeyFile  string
}

// IsSame checks if the given config is the same as the current one.
func (c Config) IsSame(config Config) bool {
	return c.Port == config.Port && c.CertFile == config.CertFile && c.KeyFile == config.KeyFile
}

// TLS reports whether both certificate files are configured.
func (c Config) TLS() bool {
	return c.CertFile != "" && c.KeyFile != ""
}

// Validate validates the port number and the files for certification.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("must be between 1 and 65535, given %d: %w", c.Port, ErrInvalidPort)
	}

	if c.CertFile == "" && c.KeyFile == "" {
		return nil
	}

	if err := checkFile(c.CertFile); err != nil {
		return fmt.Errorf("%w: %w", err, ErrInvalidCertFile)
	}
	if err := checkFile(c.KeyFile); err != nil {
		return fmt.Errorf("%w: %w", err, ErrInvalidKeyFile)
	}
	return nil
}

func checkFile(path string) error {
	if path == "" {
		return errors.New("file is not given")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s does not exist", path)
		}
		return fmt.Errorf("unable to access %s", path)
	}
	return nil
}
