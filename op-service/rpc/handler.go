package rpc

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/node"
	"github.com/ethereum/go-ethereum/rpc"
)

var wildcardHosts = []string{"*"}

// Handler is an http Handler, serving one RPC server on the root path,
// with a health endpoint at /healthz and optional websocket support.
type Handler struct {
	appVersion     string
	healthzHandler http.Handler
	corsHosts      []string
	vHosts         []string
	wsEnabled      bool

	log    log.Logger
	server *rpc.Server

	outer http.Handler
}

func NewHandler(appVersion string, opts ...Option) *Handler {
	bs := &Handler{
		appVersion:     appVersion,
		healthzHandler: defaultHealthzHandler(appVersion),
		corsHosts:      wildcardHosts,
		vHosts:         wildcardHosts,
		log:            log.Root(),
		server:         rpc.NewServer(),
	}
	for _, opt := range opts {
		opt(bs)
	}
	bs.log.Debug("Creating RPC handler")

	if err := bs.server.RegisterName("health", &healthzAPI{appVersion: appVersion}); err != nil {
		panic(fmt.Errorf("failed to setup default health RPC namespace: %w", err))
	}

	httpHandler := node.NewHTTPHandlerStack(bs.server, bs.corsHosts, bs.vHosts, nil)
	var handler http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/")
		if path == "healthz" || path == "healthz/" {
			bs.healthzHandler.ServeHTTP(w, r)
			return
		}
		httpHandler.ServeHTTP(w, r)
	})
	if bs.wsEnabled {
		wsHandler := node.NewWSHandlerStack(bs.server.WebsocketHandler(bs.corsHosts), nil)
		next := handler
		handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := strings.TrimPrefix(r.URL.Path, "/")
			if isWebsocket(r) && (path == "" || path == "ws" || path == "ws/") {
				wsHandler.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
	bs.outer = handler
	return bs
}

var _ http.Handler = (*Handler)(nil)

// ServeHTTP implements http.Handler
func (b *Handler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	b.outer.ServeHTTP(writer, request)
}

// AddAPI registers a backend under the given RPC namespace.
func (b *Handler) AddAPI(api rpc.API) error {
	if err := b.server.RegisterName(api.Namespace, api.Service); err != nil {
		return fmt.Errorf("failed to register API namespace %s: %w", api.Namespace, err)
	}
	b.log.Info("registered API", "namespace", api.Namespace)
	return nil
}

// InProcClient returns a client attached to the RPC server without any network transport.
func (b *Handler) InProcClient() *rpc.Client {
	return rpc.DialInProc(b.server)
}

func (b *Handler) Stop() {
	b.server.Stop()
}

type HealthzResponse struct {
	Version string `json:"version"`
}

func defaultHealthzHandler(appVersion string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		enc := json.NewEncoder(w)
		_ = enc.Encode(&HealthzResponse{Version: appVersion})
	}
}

type healthzAPI struct {
	appVersion string
}

func (h *healthzAPI) Status() string {
	return h.appVersion
}

func isWebsocket(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Upgrade"), "websocket") &&
		strings.Contains(strings.ToLower(r.Header.Get("Connection")), "upgrade")
}
