package api

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/amterp/kanpad/internal/model"
	"github.com/amterp/kanpad/internal/service"
)

// Handler serves the board API over the board and theme services.
type Handler struct {
	board  *service.BoardService
	theme  *service.ThemeService
	logger *log.Logger
}

// NewHandler creates a new API handler.
func NewHandler(board *service.BoardService, theme *service.ThemeService, logger *log.Logger) *Handler {
	return &Handler{board: board, theme: theme, logger: logger}
}

// RegisterRoutes sets up all API routes on the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/board", h.GetBoard)

	// Card routes
	mux.HandleFunc("POST /api/v1/lists/{list}/cards", h.AddCard)
	mux.HandleFunc("PUT /api/v1/cards/{id}", h.UpdateCard)
	mux.HandleFunc("DELETE /api/v1/cards/{id}", h.DeleteCard)
	mux.HandleFunc("POST /api/v1/moves", h.MoveCard)

	// Theme routes
	mux.HandleFunc("GET /api/v1/theme", h.GetTheme)
	mux.HandleFunc("PUT /api/v1/theme", h.SetTheme)
	mux.HandleFunc("POST /api/v1/theme/toggle", h.ToggleTheme)

	mux.HandleFunc("GET /favicon.svg", h.GetFavicon)
	mux.Handle("/", h.StaticHandler())
}

// --- Board Handlers ---

// GetBoard returns the current board snapshot.
func (h *Handler) GetBoard(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, h.board.Snapshot())
}

// --- Card Handlers ---

// MoveCardRequest is the JSON body for POST /moves.
type MoveCardRequest struct {
	SourceList  string `json:"sourceList"`
	SourceIndex *int   `json:"sourceIndex"`
	DestList    string `json:"destList"`
	DestIndex   *int   `json:"destIndex"`
}

// UpdateCardRequest is the JSON body for PUT /cards/{id}: a full card whose
// weight must be present and non-null.
type UpdateCardRequest struct {
	model.Card
	Weight *int `json:"weight"`
}

// AddCard appends a default card to the list in the path. An unknown list
// answers 200 with changed=false.
func (h *Handler) AddCard(w http.ResponseWriter, r *http.Request) {
	listID := r.PathValue("list")

	m, err := h.board.AddCard(r.Context(), listID)
	status := http.StatusCreated
	if !m.Changed {
		status = http.StatusOK
	}
	h.mutationResponse(w, status, m, err)
}

// UpdateCard replaces a card with the request body. The ID in the path wins
// over any ID in the body; createdAt is always kept from the stored card.
func (h *Handler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	cardID := r.PathValue("id")

	var req UpdateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid JSON body")
		return
	}
	if req.Weight == nil {
		BadRequest(w, "weight is required")
		return
	}
	card := req.Card
	card.Weight = *req.Weight
	card.ID = cardID
	if card.Labels == nil {
		card.Labels = []string{}
	}

	if err := model.ValidateWeight(card.Weight); err != nil {
		Error(w, err)
		return
	}

	m, err := h.board.UpdateCard(r.Context(), card)
	h.mutationResponse(w, http.StatusOK, m, err)
}

// DeleteCard removes the card in the path. Deleting a missing card is not
// an error.
func (h *Handler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	cardID := r.PathValue("id")

	m, err := h.board.DeleteCard(r.Context(), cardID)
	h.mutationResponse(w, http.StatusOK, m, err)
}

// MoveCard moves a card by position. Unknown lists or indices are not
// errors; the response reports changed=false.
func (h *Handler) MoveCard(w http.ResponseWriter, r *http.Request) {
	var req MoveCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid JSON body")
		return
	}
	if req.SourceList == "" || req.DestList == "" {
		BadRequest(w, "sourceList and destList are required")
		return
	}
	if req.SourceIndex == nil || req.DestIndex == nil {
		BadRequest(w, "sourceIndex and destIndex are required")
		return
	}

	m, err := h.board.MoveCard(r.Context(), req.SourceList, *req.SourceIndex, req.DestList, *req.DestIndex)
	h.mutationResponse(w, http.StatusOK, m, err)
}

// mutationResponse writes m, or a 500 when the change could not be saved.
// The change has still been applied in memory in that case.
func (h *Handler) mutationResponse(w http.ResponseWriter, status int, m service.Mutation, err error) {
	if err != nil {
		h.logger.Error("mutation not persisted", "err", err)
		Error(w, err)
		return
	}
	JSON(w, status, m)
}

// --- Theme Handlers ---

// ThemeRequest is the JSON body for PUT /theme.
type ThemeRequest struct {
	Dark *bool `json:"dark"`
}

// GetTheme returns the dark mode preference.
func (h *Handler) GetTheme(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, ThemeData{Dark: h.theme.Dark()})
}

// SetTheme stores the dark mode preference.
func (h *Handler) SetTheme(w http.ResponseWriter, r *http.Request) {
	var req ThemeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid JSON body")
		return
	}
	if req.Dark == nil {
		BadRequest(w, "dark is required")
		return
	}

	if err := h.theme.Set(r.Context(), *req.Dark); err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, ThemeData{Dark: *req.Dark})
}

// ToggleTheme flips the dark mode preference.
func (h *Handler) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	dark, err := h.theme.Toggle(r.Context())
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, ThemeData{Dark: dark})
}

// initialMessages is what a new WebSocket client receives after connecting.
func (h *Handler) initialMessages() []WebSocketMessage {
	return []WebSocketMessage{
		{Type: MessageBoard, Data: h.board.Snapshot()},
		{Type: MessageTheme, Data: ThemeData{Dark: h.theme.Dark()}},
	}
}
