// Package play exposes the realtime game endpoint: session token issuance,
// room lookup and the websocket action channel.
package play

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/wordspy/wordspy/internal/domain"
	"github.com/wordspy/wordspy/internal/infrastructure/json"
	"github.com/wordspy/wordspy/internal/infrastructure/logging"
	"github.com/wordspy/wordspy/internal/infrastructure/metrics"
	"github.com/wordspy/wordspy/internal/infrastructure/ws"
	"github.com/wordspy/wordspy/internal/session"
)

type Handler struct {
	players     domain.PlayerRepository
	coordinator *session.Coordinator
	machine     *session.Machine
	registry    *session.Registry
	core        *ws.Core
	metrics     *metrics.Metrics
	logger      logging.Logger
	upgrader    websocket.Upgrader
}

func NewHandler(
	players domain.PlayerRepository,
	coordinator *session.Coordinator,
	machine *session.Machine,
	registry *session.Registry,
	core *ws.Core,
	m *metrics.Metrics,
	logger logging.Logger,
) *Handler {
	return &Handler{
		players:     players,
		coordinator: coordinator,
		machine:     machine,
		registry:    registry,
		core:        core,
		metrics:     m,
		logger:      logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The bearer token authenticates the connection; origin
			// checking is left to the deployment's proxy.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// CreateSessionHandler godoc
// @Summary      Create a player session
// @Description  Registers a player identity and returns the bearer token for the realtime channel
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        request body createSessionRequest true "Player nickname"
// @Success      201 {object} createSessionResponse "Session created"
// @Failure      400 {object} map[string]interface{} "Validation error"
// @Failure      500 {object} map[string]interface{} "Internal server error"
// @Router       /session [post]
func (h *Handler) CreateSessionHandler(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	player, err := domain.NewPlayer(req.Nickname)
	if err != nil {
		json.WriteValidationError(w, err)
		return
	}

	if err := h.players.Create(r.Context(), player); err != nil {
		h.logger.Error(logging.IO, logging.ExternalService, "failed to create player", map[logging.ExtraKey]any{
			logging.ErrorMessage: err.Error(),
		})
		json.WriteInternalError(w, err)
		return
	}

	json.Write(w, http.StatusCreated, createSessionResponse{
		Token:    player.Token,
		PlayerID: player.PublicID,
		Nickname: player.Nickname,
	})
}

// GetRoomHandler godoc
// @Summary      Look up a room by join code
// @Description  Returns the public room summary, used before opening the realtime channel
// @Tags         rooms
// @Produce      json
// @Param        code path string true "Join code"
// @Success      200 {object} session.RoomSummary "Room summary"
// @Failure      404 {object} map[string]interface{} "Room not found"
// @Router       /room/{code} [get]
func (h *Handler) GetRoomHandler(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	summary, err := h.coordinator.Room(r.Context(), code)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRoomNotFound):
			json.WriteError(w, http.StatusNotFound, err, "Room not found")
		case errors.Is(err, domain.ErrInvalidInput):
			json.WriteValidationError(w, err)
		default:
			json.WriteInternalError(w, err)
		}
		return
	}

	json.Write(w, http.StatusOK, summary)
}

// PlayHandler godoc
// @Summary      Open the realtime action channel
// @Description  Upgrades to a WebSocket authenticated by bearer token; actions and broadcasts flow over this connection
// @Tags         play
// @Success      101 {object} map[string]interface{} "Switching Protocols"
// @Failure      401 {object} map[string]interface{} "Missing or invalid token"
// @Security     BearerAuth
// @Router       /play [get]
func (h *Handler) PlayHandler(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		json.WriteError(w, http.StatusUnauthorized, errors.New("unauthorized"), "Missing bearer token")
		return
	}

	player, err := h.players.GetByToken(r.Context(), token)
	if err != nil {
		json.WriteError(w, http.StatusUnauthorized, err, "Invalid token")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn(logging.WebSocket, logging.ExternalService, "websocket upgrade failed", map[logging.ExtraKey]any{
			logging.ErrorMessage: err.Error(),
		})
		return
	}

	client := ws.NewClient(conn, uuid.NewString(), player.ID)
	h.core.Register() <- client

	h.metrics.ActiveViewers.Inc()

	go client.WriteMessage(h.core)
	go func() {
		client.ReadMessage(h.core)
		h.metrics.ActiveViewers.Dec()
	}()
}

// bearerToken pulls the credential from the Authorization header, or from the
// token query parameter since browser WebSocket clients cannot set headers.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}

	return r.URL.Query().Get("token")
}
