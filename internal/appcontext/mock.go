package appcontext

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/playermap"
	"github.com/agentstation/playermap/internal/server"
)

// Mock provides a mock implementation of Interface for testing.
// A nil function field makes the method return a zero value.
type Mock struct {
	ClientFunc            func() (playermap.Client, error)
	ClientWithOptionsFunc func(...playermap.Option) (playermap.Client, error)
	LoggerFunc            func() *zerolog.Logger
	Format                string
	QuietMode             bool
	Server                server.Config
	Interval              time.Duration
	VersionString         string
}

var _ Interface = (*Mock)(nil)

// Client returns a client using the mock function or nil.
func (m *Mock) Client() (playermap.Client, error) {
	if m.ClientFunc != nil {
		return m.ClientFunc()
	}
	return nil, nil
}

// ClientWithOptions returns a client using the mock function, else Client.
func (m *Mock) ClientWithOptions(opts ...playermap.Option) (playermap.Client, error) {
	if m.ClientWithOptionsFunc != nil {
		return m.ClientWithOptionsFunc(opts...)
	}
	return m.Client()
}

// Logger returns the mock logger or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	nop := zerolog.Nop()
	return &nop
}

// OutputFormat returns Format.
func (m *Mock) OutputFormat() string { return m.Format }

// Quiet returns QuietMode.
func (m *Mock) Quiet() bool { return m.QuietMode }

// ServerConfig returns Server.
func (m *Mock) ServerConfig() server.Config { return m.Server }

// SyncInterval returns Interval.
func (m *Mock) SyncInterval() time.Duration { return m.Interval }

// Version returns VersionString or "dev".
func (m *Mock) Version() string {
	if m.VersionString != "" {
		return m.VersionString
	}
	return "dev"
}

// Commit returns a fixed test value.
func (m *Mock) Commit() string { return "test" }

// Date returns a fixed test value.
func (m *Mock) Date() string { return "test" }

// BuiltBy returns a fixed test value.
func (m *Mock) BuiltBy() string { return "test" }
