package transport

import "time"

// Config holds the listener-level knobs this transport layer needs: no
// daemon configuration, no YAML loader, just the struct a caller wires in
// directly or populates from its own environment binding.
type Config struct {
	// IdleTimeout retires a pipelined TCP/TLS connection after this much
	// inactivity (§4.5 default 2 minutes, §5).
	IdleTimeout time.Duration

	// MaxTCPMessageSize bounds a single length-prefixed TCP/TLS message
	// (§4.5); defaults to dns.MaxMessageSize.
	MaxTCPMessageSize int

	// MaxConnsPerIP bounds concurrent TCP/TLS connections from one source
	// IP (§5 resource model).
	MaxConnsPerIP int

	// MaxQueriesPerConn bounds pipelined queries served on one connection
	// before it is closed, to bound worst-case per-connection resource use.
	MaxQueriesPerConn int

	// WorkersPerSocket is the fixed UDP worker-goroutine pool size per
	// listening socket (§5: UDP is stateless per-message, so a fixed pool
	// with no per-packet goroutine spawn is sufficient).
	WorkersPerSocket int
}

// DefaultConfig returns the knob values this package uses when a caller
// supplies a zero Config.
func DefaultConfig() Config {
	return Config{
		IdleTimeout:       2 * time.Minute,
		MaxTCPMessageSize: 65535,
		MaxConnsPerIP:     10,
		MaxQueriesPerConn: 100,
		WorkersPerSocket:  256,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = d.IdleTimeout
	}
	if c.MaxTCPMessageSize <= 0 {
		c.MaxTCPMessageSize = d.MaxTCPMessageSize
	}
	if c.MaxConnsPerIP <= 0 {
		c.MaxConnsPerIP = d.MaxConnsPerIP
	}
	if c.MaxQueriesPerConn <= 0 {
		c.MaxQueriesPerConn = d.MaxQueriesPerConn
	}
	if c.WorkersPerSocket <= 0 {
		c.WorkersPerSocket = d.WorkersPerSocket
	}
	return c
}
