/*
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package server serves an in-memory double of the JSONPlaceholder API so the
// suites can run without network access.
package server

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-logr/logr"
	"github.com/spf13/pflag"

	"github.com/nscaledev/placeholder-api-tests/pkg/openapi"
	"github.com/nscaledev/placeholder-api-tests/pkg/server/handler"

	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
)

const DefaultServerName = "placeholder-fake"

type Options struct {
	ListenAddress     string
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	ServerName        string
}

func (o *Options) AddFlags(f *pflag.FlagSet) {
	f.StringVar(&o.ListenAddress, "listen", ":8080", "API listener address.")
	f.DurationVar(&o.ReadTimeout, "read-timeout", time.Second, "How long to wait for the client to send the request body.")
	f.DurationVar(&o.ReadHeaderTimeout, "read-header-timeout", time.Second, "How long to wait for the client to send headers.")
	f.DurationVar(&o.WriteTimeout, "write-timeout", 10*time.Second, "How long to wait for the API to respond to the client.")
	f.StringVar(&o.ServerName, "server-name", DefaultServerName, "Value of the Server response header.")
}

type Server struct {
	// Options are server specific options e.g. listener address etc.
	Options Options

	// ZapOptions configure logging.
	ZapOptions zap.Options

	// HandlerOptions sets options for the HTTP handler.
	HandlerOptions handler.Options
}

func (s *Server) AddFlags(goflags *flag.FlagSet, flags *pflag.FlagSet) {
	s.ZapOptions.BindFlags(goflags)

	s.Options.AddFlags(flags)
	s.HandlerOptions.AddFlags(flags)
}

func (s *Server) SetupLogging() {
	log.SetLogger(zap.New(zap.UseFlagOptions(&s.ZapOptions)))
}

// GetServer returns an HTTP server serving the fake API.
func (s *Server) GetServer() (*http.Server, error) {
	router, err := NewRouter(log.Log.WithName("http"), &s.Options, &s.HandlerOptions)
	if err != nil {
		return nil, err
	}

	server := &http.Server{
		Addr:              s.Options.ListenAddress,
		ReadTimeout:       s.Options.ReadTimeout,
		ReadHeaderTimeout: s.Options.ReadHeaderTimeout,
		WriteTimeout:      s.Options.WriteTimeout,
		Handler:           router,
	}

	return server, nil
}

// Run serves until the context is cancelled, then drains connections.
func (s *Server) Run(ctx context.Context) error {
	server, err := s.GetServer()
	if err != nil {
		return err
	}

	logger := log.FromContext(ctx)

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error(err, "server shutdown failed")
		}
	}()

	logger.Info("listening", "address", s.Options.ListenAddress)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// NewRouter builds the fake API.  Every response carries a JSON content type
// and a Server header, unknown routes and malformed ids are 404 with an empty
// object, and HEAD is answered by the GET route.
func NewRouter(logger logr.Logger, options *Options, handlerOptions *handler.Options) (http.Handler, error) {
	serverName := options.ServerName
	if serverName == "" {
		serverName = DefaultServerName
	}

	h, err := handler.New(handler.NewStore(), handlerOptions)
	if err != nil {
		return nil, err
	}

	notFound := func(w http.ResponseWriter, r *http.Request) {
		handler.WriteEmpty(w, r, http.StatusNotFound)
	}

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(loggingMiddleware(logger))
	router.Use(headerMiddleware(serverName))
	router.Use(middleware.GetHead)
	router.NotFound(notFound)
	router.MethodNotAllowed(notFound)

	return openapi.HandlerWithOptions(h, openapi.ChiServerOptions{
		BaseRouter: router,
		ErrorHandlerFunc: func(w http.ResponseWriter, r *http.Request, _ error) {
			notFound(w, r)
		},
	}), nil
}

func headerMiddleware(serverName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Server", serverName)
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.Header().Set("X-Powered-By", "chi")

			next.ServeHTTP(w, r)
		})
	}
}

func loggingMiddleware(logger logr.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			ctx := log.IntoContext(r.Context(), logger)

			next.ServeHTTP(ww, r.WithContext(ctx))

			logger.V(1).Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"query", r.URL.RawQuery,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"traceparent", r.Header.Get("Traceparent"),
				"requestID", r.Header.Get("X-Request-Id"),
			)
		})
	}
}
