package scraper

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	tls "github.com/refraction-networking/utls"
)

// chromeHelloSpec returns a Chrome-like TLS ClientHello with ALPN forced to
// http/1.1 only. A spec is single use: the handshake writes generated
// key-share state into the extension values, so every dial builds its own.
func chromeHelloSpec() (tls.ClientHelloSpec, error) {
	spec, err := tls.UTLSIdToSpec(tls.HelloChrome_Auto)
	if err != nil {
		return tls.ClientHelloSpec{}, err
	}
	// Replace h2 with http/1.1 only in the ALPN extension so the server
	// never negotiates HTTP/2 (which Go's http.Transport cannot handle
	// over a utls connection).
	for i, ext := range spec.Extensions {
		if alpn, ok := ext.(*tls.ALPNExtension); ok {
			alpn.AlpnProtocols = []string{"http/1.1"}
			spec.Extensions[i] = alpn
			break
		}
	}
	return spec, nil
}

// newChromeTransport builds an HTTP transport that presents a Chrome TLS
// fingerprint on direct connections. proxy, if non-empty, is a validated
// host:port pair; proxied HTTPS requests tunnel through it with the standard
// library's TLS stack (DialTLSContext is not consulted for those).
func newChromeTransport(proxy string) *http.Transport {
	transport := &http.Transport{
		DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			return dialTLSChrome(ctx, network, addr, nil)
		},
		ForceAttemptHTTP2: false,
	}
	if proxy != "" {
		transport.Proxy = http.ProxyURL(&url.URL{Scheme: "http", Host: proxy})
	}
	return transport
}

// dialTLSChrome establishes a TLS connection using the Chrome ClientHello.
// base, if non-nil, seeds the TLS configuration; ServerName is always set
// from addr.
func dialTLSChrome(ctx context.Context, network, addr string, base *tls.Config) (net.Conn, error) {
	spec, err := chromeHelloSpec()
	if err != nil {
		return nil, fmt.Errorf("build tls spec: %w", err)
	}
	dialer := &net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}
	host, _, _ := net.SplitHostPort(addr)
	cfg := &tls.Config{}
	if base != nil {
		cfg = base.Clone()
	}
	cfg.ServerName = host
	tlsConn := tls.UClient(conn, cfg, tls.HelloCustom)
	if err := tlsConn.ApplyPreset(&spec); err != nil {
		conn.Close()
		return nil, fmt.Errorf("apply tls spec: %w", err)
	}
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return tlsConn, nil
}
