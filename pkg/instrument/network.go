package instrument

import (
	"context"
	"io"
	"net"
	"net/http"
)

// Transport wraps base so that request body bytes count as sent and response
// body bytes count as received. A nil base uses http.DefaultTransport.
// Accounting is at the body level, not the wire level: headers, TLS framing
// and retries within the transport are not counted.
func (i *Instruments) Transport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}

	return &countingTransport{base: base, counters: i.counters}
}

// HTTPClient returns a client whose outbound traffic is attributed to this
// invocation.
func (i *Instruments) HTTPClient() *http.Client {
	return &http.Client{Transport: i.Transport(nil)}
}

// Conn wraps a network connection so that reads count as received bytes and
// writes count as sent bytes.
func (i *Instruments) Conn(conn net.Conn) net.Conn {
	return &countingConn{Conn: conn, counters: i.counters}
}

// DialContext wraps a dial function so every connection it produces is
// counted. A nil base uses a default net.Dialer.
func (i *Instruments) DialContext(base func(ctx context.Context, network, address string) (net.Conn, error)) func(ctx context.Context, network, address string) (net.Conn, error) {
	if base == nil {
		var d net.Dialer
		base = d.DialContext
	}

	return func(ctx context.Context, network, address string) (net.Conn, error) {
		conn, err := base(ctx, network, address)
		if err != nil {
			return nil, err
		}

		return i.Conn(conn), nil
	}
}

type countingTransport struct {
	base     http.RoundTripper
	counters *Counters
}

func (t *countingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Body != nil && req.Body != http.NoBody {
		req.Body = &countingReadCloser{rc: req.Body, add: t.counters.addSent}
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.Body != nil {
		resp.Body = &countingReadCloser{rc: resp.Body, add: t.counters.addReceived}
	}

	return resp, nil
}

type countingReadCloser struct {
	rc  io.ReadCloser
	add func(int64)
}

func (c *countingReadCloser) Read(p []byte) (int, error) {
	n, err := c.rc.Read(p)
	c.add(int64(n))

	return n, err
}

func (c *countingReadCloser) Close() error {
	return c.rc.Close()
}

type countingConn struct {
	net.Conn

	counters *Counters
}

func (c *countingConn) Read(p []byte) (int, error) {
	n, err := c.Conn.Read(p)
	c.counters.addReceived(int64(n))

	return n, err
}

func (c *countingConn) Write(p []byte) (int, error) {
	n, err := c.Conn.Write(p)
	c.counters.addSent(int64(n))

	return n, err
}
