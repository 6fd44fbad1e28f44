// Package envconfig reads bornfill settings from the environment.
//
//   - LogLevel: log verbosity (BORN_DEBUG)
//   - Workers: parallel plan jobs (BORN_WORKERS)
//   - DefaultDType: element type when --dtype is not given (BORN_DTYPE)
package envconfig

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/born-ml/fill/internal/tensor"
)

// LogLevel returns the log level.
// Configurable via BORN_DEBUG: 0/false = INFO (default), 1/true = DEBUG, n = -4n.
func LogLevel() slog.Level {
	level := slog.LevelInfo
	if s := Var("BORN_DEBUG"); s != "" {
		if b, _ := strconv.ParseBool(s); b {
			level = slog.LevelDebug
		} else if i, _ := strconv.ParseInt(s, 10, 64); i != 0 {
			level = slog.Level(i * -4)
		}
	}

	return level
}

var (
	// Workers limits how many plan jobs run at once. 0 means one per CPU.
	Workers = Uint("BORN_WORKERS", 0)
)

// DefaultDType returns the element type used when none is given on the command line.
// Configurable via BORN_DTYPE. Default: float32.
func DefaultDType() tensor.DataType {
	if s := Var("BORN_DTYPE"); s != "" {
		dt, err := tensor.ParseDataType(s)
		if err == nil {
			return dt
		}
		slog.Warn("invalid environment variable, using default", "key", "BORN_DTYPE", "value", s, "default", tensor.Float32)
	}
	return tensor.Float32
}

// Uint returns a function reading key as a uint, falling back to defaultValue.
func Uint(key string, defaultValue uint) func() uint {
	return func() uint {
		if s := Var(key); s != "" {
			if n, err := strconv.ParseUint(s, 10, 64); err != nil {
				slog.Warn("invalid environment variable, using default", "key", key, "value", s, "default", defaultValue)
			} else {
				return uint(n)
			}
		}
		return defaultValue
	}
}

// Var returns an environment variable stripped of surrounding whitespace and quotes.
func Var(key string) string {
	return strings.Trim(strings.TrimSpace(os.Getenv(key)), "\"'")
}

// EnvVar describes one recognized environment variable.
type EnvVar struct {
	Name        string
	Value       any
	Description string
}

// AsMap returns every recognized variable with its current value.
func AsMap() map[string]EnvVar {
	return map[string]EnvVar{
		"BORN_DEBUG":   {"BORN_DEBUG", LogLevel(), "Show additional debug information (e.g. BORN_DEBUG=1)"},
		"BORN_WORKERS": {"BORN_WORKERS", Workers(), "Maximum number of plan jobs run in parallel (default: one per CPU)"},
		"BORN_DTYPE":   {"BORN_DTYPE", DefaultDType(), "Element type used when --dtype is omitted (default: float32)"},
	}
}

// Values returns every recognized variable formatted as a string.
func Values() map[string]string {
	vals := make(map[string]string)
	for k, v := range AsMap() {
		vals[k] = fmt.Sprintf("%v", v.Value)
	}
	return vals
}
