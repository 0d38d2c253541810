package api

import (
	"net/url"

	"golang.org/x/net/http/httpproxy"
)

// ProxyForEndpoint resolves the proxy for endpoint from HTTP_PROXY,
// HTTPS_PROXY and NO_PROXY. Loopback endpoints never use a proxy.
func ProxyForEndpoint(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil {
		return ""
	}

	proxyURL, err := httpproxy.FromEnvironment().ProxyFunc()(u)
	if err != nil || proxyURL == nil {
		return ""
	}
	return proxyURL.String()
}
