package common

import (
	"net/http"

	"github.com/futig/title-assistant/internal/config"
	pkgHTTP "github.com/futig/title-assistant/pkg/http"
)

// NewHTTPClient builds the outbound client shared by provider connectors.
// Extra options (credentials) are applied before request logging.
func NewHTTPClient(cfg config.HTTPClientConfig, extra ...pkgHTTP.Option) *http.Client {
	opts := []pkgHTTP.Option{
		pkgHTTP.WithRequestTimeout(cfg.RequestTimeout),
		pkgHTTP.WithConnClientTimeout(cfg.ConnTimeout),
		pkgHTTP.WithClientKeepAlive(cfg.KeepAlive),
		pkgHTTP.WithIdleConnTimeout(cfg.IdleConnTimeout),
		pkgHTTP.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
		pkgHTTP.WithTLSHandshakeTimeout(cfg.TLSHandshakeTimeout),
		pkgHTTP.WithMaxIdleConnsPerHost(cfg.MaxIdleConnsPerHost),
	}
	opts = append(opts, extra...)
	opts = append(opts, pkgHTTP.WithRequestLogging())

	return pkgHTTP.NewClient(opts...)
}
