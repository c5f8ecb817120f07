package client

import (
	"net"
	"net/http"
	"time"
)

// NewHTTPClient builds the http.Client used for backend calls.
//
// Connection setup is bounded (dial and TLS handshake), the request as a
// whole is bounded only by timeout, where zero means no deadline beyond the
// caller's context.
func NewHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        20,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}
