package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/chaos-zero-companion/internal/api/handlers"
)

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	systemHandler := handlers.NewSystemHandler(s.db, s.sessionCount)

	// Health check endpoint (no versioning)
	s.router.Get("/health", systemHandler.Health)

	// WebSocket endpoint, optionally filtered with ?session=<id>
	s.router.Get("/ws", s.wsHub.ServeWs)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", systemHandler.Health)
		r.Get("/version", systemHandler.GetVersion)

		// Catalog routes
		catalogHandler := handlers.NewCatalogHandler(s.catalog)
		r.Route("/characters", func(r chi.Router) {
			r.Get("/", catalogHandler.ListCharacters)
			r.Get("/{characterID}", catalogHandler.GetCharacter)

			if s.catalogAdmin != nil {
				adminHandler := handlers.NewCatalogAdminHandler(s.catalogAdmin)
				r.Group(func(r chi.Router) {
					r.Use(s.limitCommands)
					r.Post("/", adminHandler.CreateCharacter)
					r.Put("/{characterID}", adminHandler.UpdateCharacter)
					r.Delete("/{characterID}", adminHandler.DeleteCharacter)
				})
			}
		})
		r.Route("/cards", func(r chi.Router) {
			r.Get("/", catalogHandler.ListCards)
			r.Get("/neutral", catalogHandler.GetNeutralCards)
			r.Get("/character/{characterID}", catalogHandler.GetCharacterCards)
			r.Get("/{cardID}", catalogHandler.GetCard)

			if s.catalogAdmin != nil {
				adminHandler := handlers.NewCatalogAdminHandler(s.catalogAdmin)
				r.Group(func(r chi.Router) {
					r.Use(s.limitCommands)
					r.Post("/", adminHandler.CreateCard)
					r.Put("/{cardID}", adminHandler.UpdateCard)
					r.Delete("/{cardID}", adminHandler.DeleteCard)
				})
			}
		})

		// Deck session routes
		deckHandler := handlers.NewDeckHandler(s.sessions)
		r.Route("/decks", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(s.limitCommands)
				r.Post("/", deckHandler.StartSession)
				r.Delete("/{sessionID}", deckHandler.EndSession)
				r.Post("/{sessionID}/cards", deckHandler.AddCard)
				r.Delete("/{sessionID}/cards", deckHandler.ClearDeck)
				r.Delete("/{sessionID}/cards/{cardID}", deckHandler.RemoveCard)
				r.Put("/{sessionID}/tier", deckHandler.SetTier)
				r.Post("/{sessionID}/removals", deckHandler.RecordRemoval)
			})

			r.Get("/{sessionID}", deckHandler.GetSession)
			r.Get("/{sessionID}/cards", deckHandler.GetAvailableCards)
			r.Get("/{sessionID}/history", deckHandler.GetHistory)
			r.Get("/{sessionID}/export", deckHandler.ExportDeck)
		})
	})
}

// limitCommands applies the per-client rate limit when one is configured.
func (s *Server) limitCommands(next http.Handler) http.Handler {
	if s.limiter == nil {
		return next
	}
	return s.limiter.Middleware(next)
}
