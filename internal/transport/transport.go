// Package transport implements blocking, framed TCP I/O with a single
// timeout governing both directions: read-exactly(n), write-all(buf), and
// the frame header/body pair built on top of them.
package transport

import (
	"errors"
	"io"
	"net"
	"time"

	"aochat/internal/frame"
)

// ErrConnectionBroken is returned when the peer closes the connection
// (EOF) before a read completes, or when a read or write makes no progress
// without reporting an error. Other socket errors, including those from a
// write to a closed peer or from an already-closed socket handle, are
// returned unchanged.
var ErrConnectionBroken = errors.New("transport: connection broken")

// Conn is a framed, timeout-bounded wrapper around a net.Conn. It is not
// safe for concurrent use: one session owns one socket.
type Conn struct {
	conn    net.Conn
	timeout time.Duration
}

// Dial opens a new TCP connection to addr, bounding the dial itself by
// timeout.
func Dial(addr string, timeout time.Duration) (*Conn, error) {
	d := net.Dialer{Timeout: timeout}
	c, err := d.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	return New(c, timeout), nil
}

// New wraps an already-connected net.Conn.
func New(c net.Conn, timeout time.Duration) *Conn {
	return &Conn{conn: c, timeout: timeout}
}

// Close releases the underlying socket. Safe to call more than once.
func (c *Conn) Close() error {
	return c.conn.Close()
}

// SetTimeout replaces the timeout applied to subsequent reads and writes,
// such as when the event pump switches to a ping cadence.
func (c *Conn) SetTimeout(d time.Duration) {
	c.timeout = d
}

// IsTimeout reports whether err resulted from the configured I/O timeout
// expiring, as opposed to the connection being broken.
func IsTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func (c *Conn) deadline() time.Time {
	if c.timeout <= 0 {
		return time.Time{}
	}
	return time.Now().Add(c.timeout)
}

// ReadExactly blocks until exactly n bytes have been read, the peer closes
// the connection (ErrConnectionBroken), or the timeout elapses (a timeout
// error satisfying IsTimeout).
func (c *Conn) ReadExactly(n int) ([]byte, error) {
	buf := make([]byte, n)
	read := 0
	for read < n {
		if err := c.conn.SetReadDeadline(c.deadline()); err != nil {
			return nil, err
		}
		m, err := c.conn.Read(buf[read:])
		read += m
		if err != nil {
			if read < n {
				if errors.Is(err, io.EOF) {
					return nil, ErrConnectionBroken
				}
				return nil, err
			}
		}
		if m == 0 && err == nil {
			return nil, ErrConnectionBroken
		}
	}
	return buf, nil
}

// WriteAll blocks until buf has been fully written, a write fails (the
// socket's own error is returned), a write makes no progress
// (ErrConnectionBroken), or the timeout elapses.
func (c *Conn) WriteAll(buf []byte) error {
	written := 0
	for written < len(buf) {
		if err := c.conn.SetWriteDeadline(c.deadline()); err != nil {
			return err
		}
		n, err := c.conn.Write(buf[written:])
		written += n
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrConnectionBroken
		}
	}
	return nil
}

// ReadFrame reads one full frame: the 4-byte header followed by exactly
// Length body bytes.
func (c *Conn) ReadFrame() (frame.Header, []byte, error) {
	hb, err := c.ReadExactly(frame.HeaderSize)
	if err != nil {
		return frame.Header{}, nil, err
	}
	h, err := frame.DecodeHeader(hb)
	if err != nil {
		return frame.Header{}, nil, err
	}
	if h.Length == 0 {
		return h, nil, nil
	}
	body, err := c.ReadExactly(int(h.Length))
	if err != nil {
		return frame.Header{}, nil, err
	}
	return h, body, nil
}

// WriteFrame encodes and writes one full frame.
func (c *Conn) WriteFrame(typ uint16, body []byte) error {
	buf, err := frame.Encode(typ, body)
	if err != nil {
		return err
	}
	return c.WriteAll(buf)
}
