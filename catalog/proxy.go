// ABOUTME: SSH+SOCKS5 jumpbox dialing for the remote catalog
// ABOUTME: Parses ssh+socks5://user@host:port?private-key=path proxy URLs

package catalog

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	proxy "github.com/cloudfoundry/socks5-proxy"
)

// DialContextFunc matches http.Transport.DialContext.
type DialContextFunc func(ctx context.Context, network, address string) (net.Conn, error)

// NewSOCKS5DialContext creates a dial function that tunnels through an SSH jumpbox.
// Supports format: ssh+socks5://user@host:port?private-key=/path/to/key
func NewSOCKS5DialContext(allProxy string) (DialContextFunc, error) {
	allProxy = strings.TrimPrefix(allProxy, "ssh+")

	proxyURL, err := url.Parse(allProxy)
	if err != nil {
		return nil, fmt.Errorf("parsing CATALOG_ALL_PROXY: %w", err)
	}
	if proxyURL.Scheme != "socks5" {
		return nil, fmt.Errorf("CATALOG_ALL_PROXY scheme must be ssh+socks5, got %q", proxyURL.Scheme)
	}

	username := ""
	if proxyURL.User != nil {
		username = proxyURL.User.Username()
	}

	keyPath := proxyURL.Query().Get("private-key")
	if keyPath == "" {
		return nil, fmt.Errorf("CATALOG_ALL_PROXY missing required 'private-key' query param")
	}
	key, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("reading SSH private key %s: %w", keyPath, err)
	}

	socks5Proxy := proxy.NewSocks5Proxy(proxy.NewHostKey(), log.Default(), 1*time.Minute)

	var (
		dialer proxy.DialFunc
		mut    sync.RWMutex
	)

	return func(ctx context.Context, network, address string) (net.Conn, error) {
		mut.RLock()
		haveDialer := dialer != nil
		mut.RUnlock()

		if haveDialer {
			return dialer(network, address)
		}

		mut.Lock()
		defer mut.Unlock()
		if dialer == nil {
			proxyDialer, err := socks5Proxy.Dialer(username, string(key), proxyURL.Host)
			if err != nil {
				return nil, fmt.Errorf("error creating SOCKS5 dialer: %w", err)
			}
			dialer = proxyDialer
		}
		return dialer(network, address)
	}, nil
}

// NewHTTPClient returns an HTTP client for the catalog, tunnelled through
// allProxy when it is set.
func NewHTTPClient(allProxy string, timeout time.Duration) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if allProxy != "" {
		dial, err := NewSOCKS5DialContext(allProxy)
		if err != nil {
			return nil, err
		}
		transport.DialContext = dial
		transport.Proxy = nil
	}
	return &http.Client{Transport: transport, Timeout: timeout}, nil
}
