package handlers

import (
	"context"
	"net/http"

	"github.com/ramonehamilton/chaos-zero-companion/internal/api/response"
	"github.com/ramonehamilton/chaos-zero-companion/internal/catalog"
	"github.com/ramonehamilton/chaos-zero-companion/internal/deck"
)

// CatalogService is the catalog surface the handlers need.
type CatalogService interface {
	ListCharacters(ctx context.Context) ([]catalog.Character, error)
	GetCharacter(ctx context.Context, id int64) (catalog.Character, error)
	ListCards(ctx context.Context) ([]deck.Card, error)
	GetCard(ctx context.Context, id int64) (deck.Card, error)
	CharacterCards(ctx context.Context, characterID int64) ([]deck.Card, error)
	NeutralCards(ctx context.Context) ([]deck.Card, error)
}

// CatalogHandler handles character and card lookups.
type CatalogHandler struct {
	catalog CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(svc CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: svc}
}

// ListCharacters returns all characters.
func (h *CatalogHandler) ListCharacters(w http.ResponseWriter, r *http.Request) {
	characters, err := h.catalog.ListCharacters(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, characters)
}

// GetCharacter returns a single character.
func (h *CatalogHandler) GetCharacter(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "characterID")
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	character, err := h.catalog.GetCharacter(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, character)
}

// ListCards returns every card, filtered by the optional q name search.
func (h *CatalogHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	cards, err := h.catalog.ListCards(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, catalog.Search(cards, r.URL.Query().Get("q")))
}

// GetCard returns a single card.
func (h *CatalogHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "cardID")
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	card, err := h.catalog.GetCard(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, card)
}

// GetCharacterCards returns the cards owned by a character.
func (h *CatalogHandler) GetCharacterCards(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "characterID")
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	cards, err := h.catalog.CharacterCards(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, cards)
}

// GetNeutralCards returns the cards any character may take.
func (h *CatalogHandler) GetNeutralCards(w http.ResponseWriter, r *http.Request) {
	cards, err := h.catalog.NeutralCards(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, cards)
}
