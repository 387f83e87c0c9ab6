package transport

import (
	"context"
	"crypto/tls"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/kestreldns/dnscore/internal/dns"
)

// pendingKey correlates a response to the request that is awaiting it
// (§5: "routes them to per-request completion handles keyed by
// (transaction id, question)"). Responses need not carry a question back,
// so the key is computed from the outgoing request and matched against the
// response's own ID plus its first question, when present.
type pendingKey struct {
	id       uint16
	question dns.Question
}

// Conn is a single pipelined TCP/TLS client connection (§5): one logical
// object with a write path serialised by a lock and a single background
// dispatcher goroutine that reads responses and routes them to the waiting
// caller. Multiple queries may be in flight concurrently; out-of-order
// responses are expected and handled.
type Conn struct {
	conn        net.Conn
	maxMsgSize  int
	idleTimeout time.Duration

	writeMu sync.Mutex

	mu      sync.Mutex
	pending map[pendingKey]chan queryResult
	faulty  bool
	faultCh chan struct{}

	idleTimer *time.Timer
}

type queryResult struct {
	msg dns.Message
	err error
}

// Dial opens a new pipelined connection to addr. If tlsConfig is non-nil,
// the connection is upgraded to TLS before the dispatcher starts (§4.5).
func Dial(ctx context.Context, network, addr string, tlsConfig *tls.Config) (*Conn, error) {
	d := net.Dialer{}
	raw, err := d.DialContext(ctx, network, addr)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %v", dns.ErrTransportFailure, addr, err)
	}

	var c net.Conn = raw
	if tlsConfig != nil {
		tlsConn := tls.Client(raw, tlsConfig)
		if err := tlsConn.HandshakeContext(ctx); err != nil {
			_ = raw.Close()
			return nil, fmt.Errorf("%w: tls handshake to %s: %v", dns.ErrTransportFailure, addr, err)
		}
		c = tlsConn
	}

	conn := &Conn{
		conn:        c,
		maxMsgSize:  dns.MaxMessageSize,
		idleTimeout: 2 * time.Minute,
		pending:     map[pendingKey]chan queryResult{},
		faultCh:     make(chan struct{}),
	}
	conn.resetIdleTimer()
	go conn.dispatchLoop()
	return conn, nil
}

// Query sends req and waits for its correlated response, honouring ctx
// cancellation (§5: "every wait-point honours an externally-supplied
// cancellation signal... Cancellation MUST NOT fault the connection").
func (c *Conn) Query(ctx context.Context, req dns.Message) (dns.Message, error) {
	wire, err := req.Marshal(true)
	if err != nil {
		return dns.Message{}, err
	}

	key := pendingKey{id: req.Header.ID}
	if len(req.Questions) > 0 {
		key.question = req.Questions[0]
	}

	resultCh := make(chan queryResult, 1)
	c.mu.Lock()
	if c.faulty {
		c.mu.Unlock()
		return dns.Message{}, fmt.Errorf("%w: connection is faulty", dns.ErrTransportFailure)
	}
	c.pending[key] = resultCh
	c.mu.Unlock()

	if err := c.send(wire); err != nil {
		c.mu.Lock()
		delete(c.pending, key)
		c.mu.Unlock()
		return dns.Message{}, err
	}

	select {
	case <-ctx.Done():
		c.mu.Lock()
		delete(c.pending, key)
		c.mu.Unlock()
		return dns.Message{}, ctx.Err()
	case <-c.faultCh:
		return dns.Message{}, fmt.Errorf("%w: connection transport closed", dns.ErrTransportFailure)
	case r := <-resultCh:
		return r.msg, r.err
	}
}

// send writes one length-prefixed message, serialised against concurrent writers.
func (c *Conn) send(wire []byte) error {
	if len(wire) > c.maxMsgSize {
		return fmt.Errorf("%w: message of %d bytes exceeds max %d", dns.ErrTransportFailure, len(wire), c.maxMsgSize)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.resetIdleTimer()

	lenBuf := []byte{byte(len(wire) >> 8), byte(len(wire))}
	bufs := net.Buffers{lenBuf, wire}
	if _, err := bufs.WriteTo(c.conn); err != nil {
		c.fault(err)
		return fmt.Errorf("%w: write: %v", dns.ErrTransportFailure, err)
	}
	return nil
}

// dispatchLoop is the connection's single background reader task (§5): it
// reads responses off the wire and routes each to its waiting caller by
// (transaction id, question).
func (c *Conn) dispatchLoop() {
	lenBuf := make([]byte, 2)
	for {
		if _, err := io.ReadFull(c.conn, lenBuf); err != nil {
			c.fault(err)
			return
		}
		c.resetIdleTimer()

		msgLen := int(binary.BigEndian.Uint16(lenBuf))
		if msgLen == 0 {
			continue
		}
		body := make([]byte, msgLen)
		if _, err := io.ReadFull(c.conn, body); err != nil {
			c.fault(err)
			return
		}

		msg, err := dns.Unmarshal(body)
		key := pendingKey{}
		if err == nil {
			key.id = msg.Header.ID
			if len(msg.Questions) > 0 {
				key.question = msg.Questions[0]
			}
		}

		c.mu.Lock()
		ch, ok := c.pending[key]
		if ok {
			delete(c.pending, key)
		}
		c.mu.Unlock()

		if ok {
			ch <- queryResult{msg: msg, err: err}
		}
		// A response with no matching waiter (late arrival for a
		// cancelled request, or an unmatched key) is discarded per §5.
	}
}

// resetIdleTimer restarts the idle-timeout timer on every read/write (§5).
func (c *Conn) resetIdleTimer() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.faulty {
		return
	}
	if c.idleTimer == nil {
		c.idleTimer = time.AfterFunc(c.idleTimeout, func() {
			c.fault(fmt.Errorf("idle timeout exceeded"))
		})
		return
	}
	c.idleTimer.Reset(c.idleTimeout)
}

// fault marks the connection faulty, closes it, and wakes every pending
// waiter with a transport failure. Safe to call more than once.
func (c *Conn) fault(cause error) {
	c.mu.Lock()
	if c.faulty {
		c.mu.Unlock()
		return
	}
	c.faulty = true
	pending := c.pending
	c.pending = map[pendingKey]chan queryResult{}
	if c.idleTimer != nil {
		c.idleTimer.Stop()
	}
	c.mu.Unlock()

	_ = c.conn.Close()
	close(c.faultCh)
	for _, ch := range pending {
		ch <- queryResult{err: fmt.Errorf("%w: %v", dns.ErrTransportFailure, cause)}
	}
}

// Faulty reports whether the connection has been retired after an error.
// A faulty connection MUST NOT be reused (§5); callers should remove it
// from their pool.
func (c *Conn) Faulty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.faulty
}

// Close retires the connection immediately.
func (c *Conn) Close() error {
	c.fault(fmt.Errorf("closed by caller"))
	return nil
}
