package rpc

import (
	"net/http"

	"github.com/ethereum/go-ethereum/log"
)

type Option func(b *Handler)

func WithHealthzHandler(hdlr http.Handler) Option {
	return func(b *Handler) {
		b.healthzHandler = hdlr
	}
}

func WithCORSHosts(hosts []string) Option {
	return func(b *Handler) {
		b.corsHosts = hosts
	}
}

func WithVHosts(hosts []string) Option {
	return func(b *Handler) {
		b.vHosts = hosts
	}
}

// WithWebsocketEnabled allows `ws://host:port/` and `ws://host:port/ws`
// to be upgraded to a websocket JSON RPC connection.
func WithWebsocketEnabled() Option {
	return func(b *Handler) {
		b.wsEnabled = true
	}
}

func WithLogger(lgr log.Logger) Option {
	return func(b *Handler) {
		b.log = lgr
	}
}
