package connectivity

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultProbeTimeout bounds a single reachability check.
const DefaultProbeTimeout = 5 * time.Second

// Probe checks whether a gateway endpoint is reachable before the CLI
// claims to be online. A TCP dial decides reachability; for http(s) URLs a
// HEAD request is attempted as well but only transport-level failures count
// as offline; an HTTP error status means the host is up.
type Probe struct {
	Timeout time.Duration
	client  *http.Client
}

// NewProbe creates a probe with the default timeout.
func NewProbe() *Probe {
	return &Probe{
		Timeout: DefaultProbeTimeout,
		client: &http.Client{
			Timeout: DefaultProbeTimeout,
		},
	}
}

// Check reports whether rawURL is reachable, with a short human-readable
// reason when it is not.
func (p *Probe) Check(ctx context.Context, rawURL string) (online bool, reason string) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return false, fmt.Sprintf("invalid gateway URL %q", rawURL)
	}

	host := u.Host
	if !strings.Contains(host, ":") {
		switch u.Scheme {
		case "https":
			host += ":443"
		default:
			host += ":80"
		}
	}

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}

	dialer := &net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", host)
	if err != nil {
		return false, classifyNetError(err)
	}
	_ = conn.Close()

	if u.Scheme != "http" && u.Scheme != "https" {
		return true, ""
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return true, ""
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return false, classifyNetError(err)
	}
	_ = resp.Body.Close()
	return true, ""
}

// classifyNetError turns a transport error into an offline reason.
func classifyNetError(err error) string {
	if dnsErr, ok := err.(*net.DNSError); ok && dnsErr != nil {
		return "DNS resolution failed"
	}
	if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
		return "connection timeout"
	}
	if urlErr, ok := err.(*url.Error); ok {
		if urlErr.Timeout() {
			return "connection timeout"
		}
		return classifyNetError(urlErr.Err)
	}
	if opErr, ok := err.(*net.OpError); ok && opErr.Op == "dial" {
		return "connection refused"
	}
	return "network unreachable"
}
