package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/chaos-zero-companion/internal/api/response"
	"github.com/ramonehamilton/chaos-zero-companion/internal/catalog"
	"github.com/ramonehamilton/chaos-zero-companion/internal/deck"
	"github.com/ramonehamilton/chaos-zero-companion/internal/decklist"
	"github.com/ramonehamilton/chaos-zero-companion/internal/session"
)

// SessionService is the deck-session surface the handlers need.
type SessionService interface {
	Start(ctx context.Context, characterID int64) (session.Snapshot, error)
	Get(sessionID string) (session.Snapshot, error)
	End(ctx context.Context, sessionID string) error
	AvailableCards(sessionID string) ([]deck.Card, error)
	AddCard(ctx context.Context, sessionID string, cardID int64) (deck.Summary, error)
	RemoveCard(ctx context.Context, sessionID string, cardID int64) (deck.Summary, error)
	ClearDeck(ctx context.Context, sessionID string) (deck.Summary, error)
	SetTier(ctx context.Context, sessionID string, tier int) (deck.Summary, error)
	RecordRemoval(ctx context.Context, sessionID string, cardID int64) (deck.Summary, error)
	History(sessionID string) ([]deck.Action, error)
	Rules() deck.Rules
}

// DeckHandler handles deck-building session requests.
type DeckHandler struct {
	sessions SessionService
}

// NewDeckHandler creates a new DeckHandler.
func NewDeckHandler(sessions SessionService) *DeckHandler {
	return &DeckHandler{sessions: sessions}
}

// StartSessionRequest represents a request to start a deck session.
type StartSessionRequest struct {
	CharacterID int64 `json:"characterId"`
}

// CardRequest names a card for add and removal-token commands.
type CardRequest struct {
	CardID int64 `json:"cardId"`
}

// TierRequest represents a tier change.
type TierRequest struct {
	Tier int `json:"tier"`
}

// StartSession opens a deck session for a character.
func (h *DeckHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req StartSessionRequest
	if err := decodeBody(r, &req); err != nil {
		response.BadRequest(w, err)
		return
	}
	if req.CharacterID <= 0 {
		response.BadRequest(w, errors.New("characterId is required"))
		return
	}

	snap, err := h.sessions.Start(r.Context(), req.CharacterID)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, snap)
}

// GetSession returns the session's entries and summary.
func (h *DeckHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	snap, err := h.sessions.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, snap)
}

// EndSession discards the session.
func (h *DeckHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.End(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		response.FromError(w, err)
		return
	}
	response.NoContent(w)
}

// GetAvailableCards returns the session's card pool, filtered by q.
func (h *DeckHandler) GetAvailableCards(w http.ResponseWriter, r *http.Request) {
	cards, err := h.sessions.AvailableCards(chi.URLParam(r, "sessionID"))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, catalog.Search(cards, r.URL.Query().Get("q")))
}

// AddCard adds one copy of a card to the deck.
func (h *DeckHandler) AddCard(w http.ResponseWriter, r *http.Request) {
	var req CardRequest
	if err := decodeBody(r, &req); err != nil {
		response.BadRequest(w, err)
		return
	}
	if req.CardID <= 0 {
		response.BadRequest(w, errors.New("cardId is required"))
		return
	}

	summary, err := h.sessions.AddCard(r.Context(), chi.URLParam(r, "sessionID"), req.CardID)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, summary)
}

// RemoveCard takes one copy of a card out of the deck.
func (h *DeckHandler) RemoveCard(w http.ResponseWriter, r *http.Request) {
	cardID, err := idParam(r, "cardID")
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	summary, err := h.sessions.RemoveCard(r.Context(), chi.URLParam(r, "sessionID"), cardID)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, summary)
}

// ClearDeck empties the deck.
func (h *DeckHandler) ClearDeck(w http.ResponseWriter, r *http.Request) {
	summary, err := h.sessions.ClearDeck(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, summary)
}

// SetTier changes the deck's tier.
func (h *DeckHandler) SetTier(w http.ResponseWriter, r *http.Request) {
	var req TierRequest
	if err := decodeBody(r, &req); err != nil {
		response.BadRequest(w, err)
		return
	}

	summary, err := h.sessions.SetTier(r.Context(), chi.URLParam(r, "sessionID"), req.Tier)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, summary)
}

// RecordRemoval spends a removal token on a card.
func (h *DeckHandler) RecordRemoval(w http.ResponseWriter, r *http.Request) {
	var req CardRequest
	if err := decodeBody(r, &req); err != nil {
		response.BadRequest(w, err)
		return
	}
	if req.CardID <= 0 {
		response.BadRequest(w, errors.New("cardId is required"))
		return
	}

	summary, err := h.sessions.RecordRemoval(r.Context(), chi.URLParam(r, "sessionID"), req.CardID)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, summary)
}

// GetHistory returns the session's mutation history.
func (h *DeckHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.sessions.History(chi.URLParam(r, "sessionID"))
	if err != nil {
		response.FromError(w, err)
		return
	}
	if history == nil {
		history = []deck.Action{}
	}
	response.Success(w, history)
}

// ExportDeck renders the deck as a text list.
func (h *DeckHandler) ExportDeck(w http.ResponseWriter, r *http.Request) {
	format, err := decklist.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	snap, err := h.sessions.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		response.FromError(w, err)
		return
	}

	export, err := decklist.Export(decklist.Deck{
		Name:    snap.Character.Name,
		Entries: snap.Entries,
		Summary: snap.Summary,
		Rules:   h.sessions.Rules(),
	}, format)
	if err != nil {
		response.InternalError(w, err)
		return
	}
	response.Success(w, export)
}
