// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"expvar"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/linuxfoundation/lfx-v2-bbb-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-bbb-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-bbb-service/internal/middleware"
	"github.com/linuxfoundation/lfx-v2-bbb-service/pkg/constants"
)

// connectionChecker reports the state of the NATS connection.
type connectionChecker interface {
	IsConnected() bool
}

// debugVarsPath exposes the expvar runtime counters.
const debugVarsPath = "/debug/vars"

// newHealthMux serves the liveness and readiness probes and the expvar
// counters. The service is ready once it is connected to NATS and the
// handler has its collaborators.
func newHealthMux(conn connectionChecker, handler domain.MessageHandler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("GET "+debugVarsPath, expvar.Handler())
	mux.HandleFunc("GET "+constants.LivenessPath, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK\n"))
	})
	mux.HandleFunc("GET "+constants.ReadinessPath, func(w http.ResponseWriter, _ *http.Request) {
		if conn == nil || !conn.IsConnected() || !handler.HandlerReady() {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("NOT READY\n"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK\n"))
	})
	return mux
}

// setupHTTPServer configures and starts the HTTP server
func setupHTTPServer(flags flags, conn connectionChecker, msgHandler domain.MessageHandler, gracefulCloseWG *sync.WaitGroup) *http.Server {
	var handler http.Handler = newHealthMux(conn, msgHandler)

	// RequestIDMiddleware must run first, so it is added last.
	handler = middleware.RequestLoggerMiddleware()(handler)
	handler = middleware.RequestIDMiddleware()(handler)
	handler = otelhttp.NewHandler(handler, "lfx-v2-bbb-service")

	var addr string
	if flags.Bind == "*" {
		addr = ":" + flags.Port
	} else {
		addr = flags.Bind + ":" + flags.Port
	}
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 3 * time.Second,
	}
	gracefulCloseWG.Add(1)
	go func() {
		slog.With("addr", addr).Debug("starting http server, listening on port " + flags.Port)
		err := httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			slog.With(logging.ErrKey, err).Error("http listener error")
			os.Exit(1)
		}
		// ErrServerClosed is returned as soon as Shutdown is called, so the
		// wait group is released by gracefulShutdown instead.
	}()

	return httpServer
}
