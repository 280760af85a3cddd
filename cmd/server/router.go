package main

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/tendant/chi-demo/app"
	"github.com/tendant/simple-obras/pkg/obras"
	"github.com/tendant/simple-obras/pkg/obras/api"
)

func newRouter(svc obras.Service, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(api.RequestIDMiddleware)
	r.Use(api.LoggingMiddleware(logger))
	r.Use(api.RecoveryMiddleware)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	app.RoutesHealthz(r)
	app.RoutesHealthzReady(r)

	r.Mount("/api", api.NewWorksHandler(svc).Routes())
	r.Mount("/", api.NewPagesHandler(svc).Routes())

	return r
}
