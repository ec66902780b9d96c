// Package network provides pre-configured HTTP clients for concurrent page and image retrieval.
//
// FetchPage performs requests with uTLS fingerprinting enabled, mimicking
// Chrome's Client Hello signature. Scrape targets sit behind anti-bot
// challenges (Cloudflare, DDoS-Guard) that reject standard Go HTTP clients,
// so the extractors route their page reads through this client.
//
// Fingerprint Selection:
// uTLS HelloChrome_120 is used as it provides a modern, stable fingerprint
// that matches prevalent browser traffic.
//
// Protocol Negotiation (ALPN):
// The implementation first attempts an HTTP/2 connection (preferred by modern
// CDNs). If the handshake fails or the server only supports HTTP/1.1, it
// transparently falls back to a standard H1 transport with forced protocol
// advertisement.
package network

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/link2vid/link2vid/constant"
	utls "github.com/refraction-networking/utls"
	"golang.org/x/net/http2"
)

const pageTimeout = 15 * time.Second

// FetchPage retrieves a page body with Chrome TLS fingerprint spoofing.
// Custom headers override the browser-like defaults.
func FetchPage(ctx context.Context, rawURL string, headers map[string]string) (string, error) {
	body, status, err := doTLSRequest(ctx, http.MethodGet, rawURL, headers)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("fetch %s: status %d", rawURL, status)
	}
	return body, nil
}

// h2Transport is a shared HTTP/2 transport for servers that negotiate h2.
var (
	h2Transport     *http2.Transport
	h2TransportOnce sync.Once
)

func getH2Transport() *http2.Transport {
	h2TransportOnce.Do(func() {
		h2Transport = &http2.Transport{
			// Use custom DialTLSContext to provide utls connections
			DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
				return dialTLS(ctx, network, addr, nil)
			},
		}
	})
	return h2Transport
}

// h1Transport is a shared HTTP/1.1 transport for servers that negotiate http/1.1.
var h1Transport = &http.Transport{
	DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
		return dialTLS(ctx, network, addr, []string{"http/1.1"})
	},
}

// doTLSRequest performs an HTTP request with Chrome TLS fingerprint spoofing.
// It tries the H2 transport first, then falls back to HTTP/1.1.
// Returns (body, statusCode, error).
func doTLSRequest(ctx context.Context, method, rawURL string, headers map[string]string) (string, int, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return "", 0, fmt.Errorf("create request: %w", err)
	}

	// Set default headers to look like a real browser
	req.Header.Set("User-Agent", constant.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	// Apply custom headers (overrides defaults)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	client := &http.Client{
		Timeout:   pageTimeout,
		Transport: getH2Transport(),
	}

	resp, err := client.Do(req)
	if err != nil {
		req2, _ := http.NewRequestWithContext(ctx, method, rawURL, nil)
		req2.Header = req.Header

		h1Client := &http.Client{
			Timeout:   pageTimeout,
			Transport: h1Transport,
		}
		resp, err = h1Client.Do(req2)
		if err != nil {
			return "", 0, fmt.Errorf("request failed: %w", err)
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", resp.StatusCode, fmt.Errorf("read body: %w", err)
	}

	return string(respBody), resp.StatusCode, nil
}

// dialTLS creates a TLS connection mimicking Chrome 120's fingerprint.
// A nil protos advertises both h2 and http/1.1 (natural Chrome behavior).
func dialTLS(ctx context.Context, network, addr string, protos []string) (net.Conn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	dialer := &net.Dialer{Timeout: pageTimeout}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	tlsConn := utls.UClient(conn, &utls.Config{
		ServerName: host,
		MinVersion: tls.VersionTLS12,
		NextProtos: protos,
	}, utls.HelloChrome_120)

	if err := tlsConn.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("tls handshake: %w", err)
	}

	return tlsConn, nil
}
