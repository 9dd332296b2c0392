package handlers

import (
	"context"
	"net/http"

	"github.com/ramonehamilton/chaos-zero-companion/internal/api/response"
	"github.com/ramonehamilton/chaos-zero-companion/internal/catalog"
	"github.com/ramonehamilton/chaos-zero-companion/internal/deck"
)

// CatalogAdminService is the catalog editing surface. *catalog.Service satisfies it.
type CatalogAdminService interface {
	CreateCharacter(ctx context.Context, in catalog.CharacterInput) (catalog.Character, error)
	UpdateCharacter(ctx context.Context, id int64, in catalog.CharacterInput) (catalog.Character, error)
	DeleteCharacter(ctx context.Context, id int64) error
	CreateCard(ctx context.Context, in catalog.CardInput) (deck.Card, error)
	UpdateCard(ctx context.Context, id int64, in catalog.CardInput) (deck.Card, error)
	DeleteCard(ctx context.Context, id int64) error
}

// CatalogAdminHandler handles character and card edits. Running sessions keep
// the card pool they were started with.
type CatalogAdminHandler struct {
	catalog CatalogAdminService
}

// NewCatalogAdminHandler creates a new CatalogAdminHandler.
func NewCatalogAdminHandler(svc CatalogAdminService) *CatalogAdminHandler {
	return &CatalogAdminHandler{catalog: svc}
}

// CreateCharacter adds a character.
func (h *CatalogAdminHandler) CreateCharacter(w http.ResponseWriter, r *http.Request) {
	var in catalog.CharacterInput
	if err := decodeBody(r, &in); err != nil {
		response.BadRequest(w, err)
		return
	}

	character, err := h.catalog.CreateCharacter(r.Context(), in)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, character)
}

// UpdateCharacter replaces a character's fields.
func (h *CatalogAdminHandler) UpdateCharacter(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "characterID")
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	var in catalog.CharacterInput
	if err := decodeBody(r, &in); err != nil {
		response.BadRequest(w, err)
		return
	}

	character, err := h.catalog.UpdateCharacter(r.Context(), id, in)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, character)
}

// DeleteCharacter removes a character and its cards.
func (h *CatalogAdminHandler) DeleteCharacter(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "characterID")
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	if err := h.catalog.DeleteCharacter(r.Context(), id); err != nil {
		response.FromError(w, err)
		return
	}
	response.NoContent(w)
}

// CreateCard adds a card.
func (h *CatalogAdminHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	var in catalog.CardInput
	if err := decodeBody(r, &in); err != nil {
		response.BadRequest(w, err)
		return
	}

	card, err := h.catalog.CreateCard(r.Context(), in)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, card)
}

// UpdateCard replaces a card's fields.
func (h *CatalogAdminHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "cardID")
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	var in catalog.CardInput
	if err := decodeBody(r, &in); err != nil {
		response.BadRequest(w, err)
		return
	}

	card, err := h.catalog.UpdateCard(r.Context(), id, in)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, card)
}

// DeleteCard removes a card.
func (h *CatalogAdminHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "cardID")
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	if err := h.catalog.DeleteCard(r.Context(), id); err != nil {
		response.FromError(w, err)
		return
	}
	response.NoContent(w)
}
