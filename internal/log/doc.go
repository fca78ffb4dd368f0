// Package log builds the slog loggers used by SiteLens.
//
// Every logger created by New wraps its handler in a SandboxHandler. The
// handler replaces absolute paths outside the allowed roots with MaskValue,
// in the message, in string attributes and in error attributes, so a log
// never reveals which denied paths a client asked about. Paths inside the
// roots are kept as they are.
//
// # Usage
//
//	logger := log.New(os.Stderr, log.Options{
//	    Verbose: true,
//	    Roots:   []string{"/srv/site"},
//	})
//	logger.Debug("resolved", "path", "/srv/site/index.html") // kept
//	logger.Warn("denied", "path", "/etc/passwd")             // masked
//
// Logs always go to stderr in the server, because stdout carries the
// protocol stream.
package log
