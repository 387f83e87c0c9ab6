package transport

import (
	"context"
	"crypto/tls"
	"sync"
)

// ConnPool is a per-peer pool of pipelined Conns (§5): at most one
// concurrent connect per peer is in flight (the connect is memoised via a
// singleflight-style future), and a connection observed faulty is removed
// from the pool immediately; it is never handed out again.
type ConnPool struct {
	network   string
	tlsConfig *tls.Config

	mu    sync.Mutex
	peers map[string]*connFuture
}

type connFuture struct {
	ready chan struct{}
	conn  *Conn
	err   error
}

// NewConnPool creates a pool dialing network ("tcp") addresses, optionally
// upgrading to TLS when tlsConfig is non-nil.
func NewConnPool(network string, tlsConfig *tls.Config) *ConnPool {
	return &ConnPool{network: network, tlsConfig: tlsConfig, peers: map[string]*connFuture{}}
}

// Get returns a live connection to addr, reusing a pooled one if it is not
// faulty, dialing a fresh one otherwise. Concurrent Get calls for the same
// addr share a single in-flight dial.
func (p *ConnPool) Get(ctx context.Context, addr string) (*Conn, error) {
	for {
		p.mu.Lock()
		f, ok := p.peers[addr]
		if ok {
			p.mu.Unlock()
			<-f.ready
			if f.err != nil {
				p.removeIfSame(addr, f)
				return nil, f.err
			}
			if f.conn.Faulty() {
				p.removeIfSame(addr, f)
				continue
			}
			return f.conn, nil
		}

		f = &connFuture{ready: make(chan struct{})}
		p.peers[addr] = f
		p.mu.Unlock()

		conn, err := Dial(ctx, p.network, addr, p.tlsConfig)
		f.conn, f.err = conn, err
		close(f.ready)
		if err != nil {
			p.removeIfSame(addr, f)
			return nil, err
		}
		return conn, nil
	}
}

func (p *ConnPool) removeIfSame(addr string, f *connFuture) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.peers[addr] == f {
		delete(p.peers, addr)
	}
}

// Close retires every pooled connection.
func (p *ConnPool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for addr, f := range p.peers {
		<-f.ready
		if f.conn != nil {
			_ = f.conn.Close()
		}
		delete(p.peers, addr)
	}
}
