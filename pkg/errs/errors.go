package errs

import (
	"errors"
	"fmt"
)

// The pipeline has three fatal failure classes. All of them abort the run
// before any output table is written; recovery is re-running the batch.
var (
	// ErrData marks failures caused by the input data itself: required
	// columns missing from the feature store, empty inputs, or a churn
	// label with a single class.
	ErrData = errors.New("data error")

	// ErrConnectivity marks failures reaching the feature store or the
	// result sink.
	ErrConnectivity = errors.New("connectivity error")

	// ErrConfiguration marks invalid run parameters detected at startup.
	ErrConfiguration = errors.New("configuration error")
)

// Dataf wraps a formatted message as a data error.
func Dataf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrData, fmt.Sprintf(format, args...))
}

// Connectivityf wraps a formatted message as a connectivity error.
func Connectivityf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConnectivity, fmt.Sprintf(format, args...))
}

// Configurationf wraps a formatted message as a configuration error.
func Configurationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

// IsData reports whether err is a data error.
func IsData(err error) bool { return errors.Is(err, ErrData) }

// IsConnectivity reports whether err is a connectivity error.
func IsConnectivity(err error) bool { return errors.Is(err, ErrConnectivity) }

// IsConfiguration reports whether err is a configuration error.
func IsConfiguration(err error) bool { return errors.Is(err, ErrConfiguration) }
