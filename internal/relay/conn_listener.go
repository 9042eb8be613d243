package relay

import (
	"net"
	"sync"
)

// connListener is a net.Listener that yields one connection and then blocks
// until that connection or the listener is closed.
type connListener struct {
	conn *trackedConn

	mu        sync.Mutex
	accepted  bool
	closeOnce sync.Once
	closed    chan struct{}
}

func newConnListener(c net.Conn) *connListener {
	return &connListener{
		conn:   &trackedConn{Conn: c, done: make(chan struct{})},
		closed: make(chan struct{}),
	}
}

func (l *connListener) Accept() (net.Conn, error) {
	l.mu.Lock()
	if !l.accepted {
		l.accepted = true
		l.mu.Unlock()
		return l.conn, nil
	}
	l.mu.Unlock()

	select {
	case <-l.conn.done:
	case <-l.closed:
	}
	return nil, net.ErrClosed
}

func (l *connListener) Close() error {
	l.closeOnce.Do(func() { close(l.closed) })
	return nil
}

func (l *connListener) Addr() net.Addr { return l.conn.LocalAddr() }

type trackedConn struct {
	net.Conn
	once sync.Once
	done chan struct{}
}

func (c *trackedConn) Close() error {
	err := c.Conn.Close()
	c.once.Do(func() { close(c.done) })
	return err
}
