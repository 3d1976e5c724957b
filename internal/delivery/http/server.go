package http

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/adiel098/subscribely-serenity-sub007/pkg/httputil"
)

// Server is the public API listener serving the webhook dispatcher and the
// functions endpoint
type Server struct {
	server  *fasthttp.Server
	addr    string
	webhook *WebhookHandler
	funcs   *FunctionsHandler
	logger  zerolog.Logger
}

// NewServer creates the API server
func NewServer(port string, webhook *WebhookHandler, funcs *FunctionsHandler, logger zerolog.Logger) *Server {
	s := &Server{
		addr:    ":" + port,
		webhook: webhook,
		funcs:   funcs,
		logger:  logger,
	}

	s.server = &fasthttp.Server{
		Handler:      s.route,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s
}

// route dispatches requests by method and path
func (s *Server) route(ctx *fasthttp.RequestCtx) {
	path := string(ctx.Path())

	if !ctx.IsPost() {
		httputil.WriteErrorResponse(ctx, "method not allowed", fasthttp.StatusMethodNotAllowed)
		return
	}

	if path == "/webhook" {
		s.webhook.Handle(ctx)
		return
	}

	if name, ok := FunctionName(path); ok {
		s.funcs.Handle(ctx, name)
		return
	}

	httputil.WriteErrorResponse(ctx, "not found", fasthttp.StatusNotFound)
}

// Start starts the API server in a separate goroutine
func (s *Server) Start() error {
	s.logger.Info().
		Str("addr", s.addr).
		Msg("Starting API server")

	go func() {
		if err := s.server.ListenAndServe(s.addr); err != nil {
			s.logger.Error().Err(err).Msg("API server error")
		}
	}()

	return nil
}

// Shutdown gracefully shuts down the API server
func (s *Server) Shutdown() error {
	s.logger.Info().Msg("Shutting down API server")
	return s.server.Shutdown()
}
