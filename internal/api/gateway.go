// Package api is the HTTP surface of vectorpress: the GraphQL endpoint,
// the plain login/protected/health routes and the middleware chain.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/99designs/gqlgen/graphql/playground"
	"github.com/gorilla/mux"
	"github.com/graphql-go/graphql"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/prompt-general/vectorpress/internal/content"
)

// Gateway owns the HTTP server and routes every request through the content
// service.
type Gateway struct {
	config  Config
	router  *mux.Router
	server  *http.Server
	content *content.Service
	ready   http.Handler
	schema  graphql.Schema
	log     *logrus.Logger
}

// NewGateway creates the gateway. The ready handler backs the readiness
// route; the liveness route is served statically and touches nothing.
func NewGateway(config Config, svc *content.Service, ready http.Handler, log *logrus.Logger) (*Gateway, error) {
	g := &Gateway{
		config:  config,
		router:  mux.NewRouter(),
		content: svc,
		ready:   ready,
		log:     log,
	}

	schema, err := g.buildSchema()
	if err != nil {
		return nil, errors.Wrap(err, "build graphql schema")
	}
	g.schema = schema

	g.setupRoutes()

	var handler http.Handler = g.router
	if config.EnableCORS {
		handler = cors.New(cors.Options{
			AllowedOrigins:   config.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: true,
		}).Handler(handler)
	}

	g.server = &http.Server{
		Addr:         config.ListenAddr,
		Handler:      handler,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	return g, nil
}

// setupRoutes configures all routes and the middleware chain.
func (g *Gateway) setupRoutes() {
	g.router.Use(g.requestMiddleware)
	g.router.Use(securityHeadersMiddleware)

	g.router.HandleFunc("/token", g.handleLogin).Methods("POST")
	g.router.Handle("/protected", g.requireAuth(http.HandlerFunc(g.handleProtected))).Methods("GET")
	g.router.HandleFunc("/health", g.handleHealth).Methods("GET")
	if g.ready != nil {
		g.router.Handle("/ready", g.ready).Methods("GET")
	}

	g.router.Handle("/graphql", g.withIdentity(http.HandlerFunc(g.handleGraphQL))).Methods("POST")
	if g.config.EnablePlayground {
		g.router.Handle("/graphql/playground",
			playground.Handler("VectorPress GraphQL", "/graphql")).Methods("GET")
	}
}

// Start starts the HTTP server and blocks until it stops.
func (g *Gateway) Start() error {
	g.log.WithField("addr", g.server.Addr).Info("gateway listening")
	err := g.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop drains in-flight requests and shuts the server down.
func (g *Gateway) Stop(ctx context.Context) error {
	g.log.Info("gateway stopping")
	return g.server.Shutdown(ctx)
}

// Handler exposes the configured root handler for tests.
func (g *Gateway) Handler() http.Handler {
	return g.server.Handler
}

// Helper functions

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.WithError(err).Warn("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func parseRequestBody(r *http.Request, target interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}
