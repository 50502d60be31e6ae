// Package logging provides a minimal logging interface and adapters for agentmc.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// that the master of ceremony, participants and providers use for observability.
// This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - ConversationLogger with contextual attributes
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	mc := agentmc.New(func(o *agentmc.Options) { o.Logger = logger })
package logging
