// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// mediapress API. Editorial routes take trusted traffic from the
// gateway; the public read path and the engagement endpoints take
// anonymous traffic and are rate-limited per IP.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"mediapress/internal/handlers"
	"mediapress/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(pubs *handlers.Publications, cats *handlers.Categories, tagH *handlers.Tags, media *handlers.Media, engagement *handlers.Engagement) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	// Anonymous endpoints share one per-IP limiter.
	rl := middleware.NewRateLimiter(60, time.Minute)

	// Health check.
	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Route("/publications", func(r chi.Router) {
			// Editorial: create, moderate, and manage content.
			r.Get("/", pubs.List)
			r.Post("/", pubs.Create)
			r.Get("/{id}", pubs.Get)
			r.Patch("/{id}", pubs.Update)
			r.Delete("/{id}", pubs.Delete)
			r.Post("/{id}/submit", pubs.SubmitForReview)
			r.Post("/{id}/approve", pubs.Approve)
			r.Post("/{id}/reject", pubs.Reject)
			r.Post("/{id}/unpublish", pubs.Unpublish)

			// Engagement: anonymous traffic, rate-limited.
			r.Group(func(r chi.Router) {
				r.Use(rl.Middleware)
				r.Post("/{id}/like", engagement.Like)
				r.Delete("/{id}/like", engagement.Unlike)
				r.Get("/{id}/comments", engagement.Comments)
				r.Post("/{id}/comments", engagement.Comment)
				r.Post("/{id}/view", engagement.View)
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", cats.List)
			r.Post("/", cats.Create)
			r.Get("/{id}", cats.Get)
			r.Put("/{id}", cats.Update)
			r.Delete("/{id}", cats.Delete)
			r.Post("/{id}/subcategories", cats.AddSubcategory)
		})

		r.Route("/tags", func(r chi.Router) {
			r.Get("/", tagH.List)
			r.Post("/resolve", tagH.Resolve)
		})

		r.Route("/media", func(r chi.Router) {
			r.Get("/", media.ListRoot)
			r.Post("/files", media.Upload)
			r.Get("/files/{id}", media.Get)
			r.Get("/files/{id}/url", media.DownloadURL)
			r.Get("/files/{id}/content", media.Content)
			r.Delete("/files/{id}", media.Delete)
			r.Post("/folders", media.CreateFolder)
			r.Get("/folders/{id}", media.GetFolder)
			r.Put("/folders/{id}", media.UpdateFolder)
			r.Delete("/folders/{id}", media.DeleteFolder)
		})

		r.With(rl.Middleware).Delete("/comments/{commentId}", engagement.DeleteComment)
	})

	// Public read path — approved publications by slug, cached.
	r.With(rl.Middleware).Get("/p/{slug}", pubs.PublicBySlug)

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
