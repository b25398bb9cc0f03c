package http

import "net/http"

// headerTransport sets a credential header on every outgoing request.
type headerTransport struct {
	header    string
	value     string
	transport http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.value == "" {
		return t.transport.RoundTrip(req)
	}

	reqCopy := req.Clone(req.Context())
	reqCopy.Header.Set(t.header, t.value)

	return t.transport.RoundTrip(reqCopy)
}

// WithAuthToken sends "Authorization: Bearer <token>".
func WithAuthToken(token string) Option {
	value := ""
	if token != "" {
		value = "Bearer " + token
	}
	return WithHeader("Authorization", value)
}

// WithAPIKeyHeader sends the key in a provider-specific header, e.g. x-goog-api-key.
func WithAPIKeyHeader(header, key string) Option {
	return WithHeader(header, key)
}

// WithHeader sets header to value on every request. Empty values are skipped.
func WithHeader(header, value string) Option {
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		return &headerTransport{
			header:    header,
			value:     value,
			transport: rt,
		}
	})
}
