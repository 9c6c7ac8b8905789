package game

import (
	"context"
	"net/http"
	"slices"

	"api/domain"
	"api/shared/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type Handler struct {
	service  *Service
	upgrader websocket.Upgrader
}

// NewHandler builds the route handlers. allowedOrigins is the same list
// the server middleware enforces; the upgrader checks it too so mounting
// these routes without that middleware does not open cross-origin
// upgrades. Requests without an Origin header are non-browser clients.
func NewHandler(service *Service, allowedOrigins []string) *Handler {
	return &Handler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || slices.Contains(allowedOrigins, origin)
			},
		},
	}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	rooms := r.Group("/rooms")
	rooms.POST("", h.CreateRoomHandler)
	rooms.POST("/:roomid/join", h.JoinRoomHandler)
	rooms.POST("/:roomid/reconnect", h.ReconnectHandler)
	rooms.GET("/:roomid/ws", h.WebsocketHandler)
}

type createRoomRequest struct {
	Username    string `json:"username" binding:"required"`
	WordPack    string `json:"wordPack"`
	TurnSeconds int    `json:"turnSeconds"`
}

func (h *Handler) CreateRoomHandler(ctx *gin.Context) {
	var req createRoomRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid-request-format"})
		return
	}

	room, player, err := h.service.CreateRoom(ctx.Request.Context(), req.Username, domain.RoomSettings{
		WordPack:    req.WordPack,
		TurnSeconds: req.TurnSeconds,
	})
	if err != nil {
		abortWithDomainError(ctx, err)
		return
	}

	state, _ := h.service.RoomState(room.ID)
	ctx.JSON(http.StatusCreated, gin.H{"playerId": player.ID, "room": state})
}

type joinRoomRequest struct {
	Username string `json:"username" binding:"required"`
}

func (h *Handler) JoinRoomHandler(ctx *gin.Context) {
	var req joinRoomRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid-request-format"})
		return
	}

	roomID := ctx.Param("roomid")
	player, err := h.service.JoinRoom(ctx.Request.Context(), roomID, req.Username)
	if err != nil {
		abortWithDomainError(ctx, err)
		return
	}

	state, _ := h.service.RoomState(roomID)
	ctx.JSON(http.StatusOK, gin.H{"playerId": player.ID, "room": state})
}

type reconnectRequest struct {
	PlayerID string `json:"playerId" binding:"required"`
}

func (h *Handler) ReconnectHandler(ctx *gin.Context) {
	var req reconnectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid-request-format"})
		return
	}

	roomID := ctx.Param("roomid")
	player, err := h.service.Reconnect(ctx.Request.Context(), roomID, req.PlayerID)
	if err != nil {
		abortWithDomainError(ctx, err)
		return
	}

	state, _ := h.service.RoomState(roomID)
	ctx.JSON(http.StatusOK, gin.H{"playerId": player.ID, "room": state})
}

// WebsocketHandler upgrades the connection and runs its pumps until the
// socket drops, then triggers the disconnect cascade.
func (h *Handler) WebsocketHandler(ctx *gin.Context) {
	roomID := ctx.Param("roomid")
	playerID := ctx.Query("playerId")
	if playerID == "" {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing-player-id"})
		return
	}

	socket, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		logger.Warningf("ws upgrade failed: %v", err)
		return
	}

	conn := NewConn(NewWebsocketSession(socket))
	sessionID := uuid.NewString()

	if err := h.service.AttachSession(roomID, playerID, sessionID, conn); err != nil {
		conn.Close(err.Error())
		return
	}

	go conn.WritePump()
	conn.ReadPump(func(packet ClientPacket) {
		h.dispatch(roomID, playerID, conn, packet)
	})

	h.service.HandleDisconnect(ctx.Request.Context(), sessionID)
	conn.Close("")
}

func (h *Handler) dispatch(roomID, playerID string, conn *Conn, packet ClientPacket) {
	var err error
	switch packet.Type {
	case PacketChangeTeam:
		err = h.service.ChangeTeam(context.Background(), roomID, playerID, packet.Team, packet.Role)
	case PacketStartGame:
		err = h.service.StartGame(roomID)
	case PacketSubmitClue:
		err = h.service.SubmitClue(roomID, playerID, packet.Word, packet.Number)
	case PacketMakeGuess:
		err = h.service.MakeGuess(roomID, playerID, packet.CardIndex)
	default:
		conn.Send(encodeEvent(EventError, ErrorPayload{Message: "unknown-packet-type"}))
		return
	}
	if err != nil {
		conn.Send(encodeEvent(EventError, ErrorPayload{Message: err.Error()}))
	}
}

func abortWithDomainError(ctx *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch domain.KindOf(err) {
	case domain.KindNotFound:
		status = http.StatusNotFound
	case domain.KindConflict:
		status = http.StatusConflict
	case domain.KindInvalidArgument:
		status = http.StatusBadRequest
	case domain.KindIllegalState:
		status = http.StatusConflict
	}
	ctx.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
