package api

import (
	"encoding/json"
	"net/http"
	"time"

	"PitchDeck/internal/usecase"
	xhttp "PitchDeck/pkg/http"
	xlogger "PitchDeck/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// RoadmapHandler exposes the roadmap worker protocol over JSON and websocket.
type RoadmapHandler struct {
	logger   *xlogger.Logger
	worker   *usecase.RoadmapWorker
	upgrader websocket.Upgrader
}

func NewRoadmapHandler(logger *xlogger.Logger, worker *usecase.RoadmapWorker) *RoadmapHandler {
	return &RoadmapHandler{logger: logger, worker: worker, upgrader: newUpgrader()}
}

func (h *RoadmapHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/roadmap/prepare", h.Prepare)
	e.GET("/ws/roadmap", h.Stream)
}

// Prepare answers one prepareData message. Worker-level failures come back
// as an error envelope with 422.
func (h *RoadmapHandler) Prepare(c echo.Context) error {
	msg := usecase.WorkerMessage{}
	if err := c.Bind(&msg); err != nil {
		return xhttp.BadRequestResponse(c, []xhttp.ValidationError{{Code: "ERR_BIND", Message: "invalid worker message"}})
	}
	if msg.Action == "" {
		msg.Action = usecase.ActionPrepareData
	}

	reply, err := h.worker.Do(c.Request().Context(), msg)
	if err != nil {
		h.logger.Warn("roadmap worker rejected request", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, mapError(err))
	}
	if reply.Action == usecase.ActionError {
		return xhttp.DataResponse(c, http.StatusUnprocessableEntity, reply)
	}
	return xhttp.SuccessResponse(c, reply)
}

// Stream handles one worker message per websocket frame and writes exactly
// one reply for each, in order.
func (h *RoadmapHandler) Stream(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn("roadmap ws upgrade failed", xlogger.Error(err))
		return nil
	}
	defer conn.Close()
	conn.SetReadLimit(wsMaxMessage)

	ctx := c.Request().Context()
	for {
		_ = conn.SetReadDeadline(time.Now().Add(wsIdleTimeout))
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Debug("roadmap ws closed", xlogger.Error(err))
			}
			return nil
		}

		var msg usecase.WorkerMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			if werr := writeJSON(conn, usecase.WorkerMessage{Action: usecase.ActionError, Error: "malformed message"}); werr != nil {
				return nil
			}
			continue
		}

		reply, err := h.worker.Do(ctx, msg)
		if err != nil {
			reply = usecase.WorkerMessage{Action: usecase.ActionError, ID: msg.ID, Error: err.Error()}
		}
		if err := writeJSON(conn, reply); err != nil {
			h.logger.Debug("roadmap ws write failed", xlogger.Error(err))
			return nil
		}
	}
}
