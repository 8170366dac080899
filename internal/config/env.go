package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// EnvPrefix namespaces every environment variable read by this package
const EnvPrefix = "LINKBIO_"

// LoadDotEnv loads variables from the given files (default ".env") without
// overriding ones already set. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// EnvString returns LINKBIO_<name> or def
func EnvString(name, def string) string {
	if v, ok := os.LookupEnv(EnvPrefix + name); ok {
		return v
	}
	return def
}

// EnvInt returns LINKBIO_<name> parsed as an int, or def when unset or invalid
func EnvInt(name string, def int) int {
	v, ok := os.LookupEnv(EnvPrefix + name)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// EnvBool returns LINKBIO_<name> parsed as a bool, or def when unset or invalid
func EnvBool(name string, def bool) bool {
	v, ok := os.LookupEnv(EnvPrefix + name)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// EnvDuration returns LINKBIO_<name> parsed with time.ParseDuration, or def when unset or invalid
func EnvDuration(name string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(EnvPrefix + name)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
