package api

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/opgate/dispatch"
	"github.com/kbukum/opgate/errors"
	"github.com/kbukum/opgate/logger"
	"github.com/kbukum/opgate/server"
	"github.com/kbukum/opgate/server/middleware"
	"github.com/kbukum/opgate/sse"
	"github.com/kbukum/opgate/validation"
)

// Handler serves the dispatcher routes.
type Handler struct {
	engine *dispatch.Engine
	hub    *sse.Hub
	log    *logger.Logger
}

// NewHandler creates a Handler. hub may be nil, in which case /api/logs is
// not registered and no events are broadcast.
func NewHandler(engine *dispatch.Engine, hub *sse.Hub, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Handler{
		engine: engine,
		hub:    hub,
		log:    log.WithComponent("api"),
	}
}

// Register mounts the routes under /api. submitGuards run before the submit
// handler only, typically a rate limiter.
func (h *Handler) Register(r gin.IRouter, submitGuards ...gin.HandlerFunc) {
	g := r.Group("/api")
	g.GET("/operators", h.listOperators)
	g.GET("/selection", h.getSelection)
	g.PUT("/selection", h.putSelection)
	g.POST("/events", append(submitGuards, h.submit)...)
	g.POST("/complete", h.complete)
	g.GET("/status", h.status)
	if h.hub != nil {
		g.GET("/logs", h.streamLogs)
	}
}

func (h *Handler) listOperators(c *gin.Context) {
	descriptors := h.engine.Descriptors()
	out := make([]OperatorDTO, 0, len(descriptors))
	for _, d := range descriptors {
		out = append(out, toOperatorDTO(d))
	}
	server.RespondOK(c, out)
}

func (h *Handler) getSelection(c *gin.Context) {
	server.RespondOK(c, toOperatorDTO(h.engine.Selected()))
}

func (h *Handler) putSelection(c *gin.Context) {
	var req SelectRequest
	if !bind(c, &req) {
		return
	}
	if err := h.engine.SelectOperator(c.Request.Context(), req.Operator); err != nil {
		server.RespondWithError(c, err)
		return
	}
	selected := toOperatorDTO(h.engine.Selected())
	h.broadcast(sse.EventTypeSelection, selected)
	server.RespondOK(c, selected)
}

func (h *Handler) submit(c *gin.Context) {
	var req SubmitRequest
	if !bind(c, &req) {
		return
	}
	if err := h.engine.SubmitValue(c.Request.Context(), *req.Value); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondAccepted(c, SubmitResponse{
		Value:    *req.Value,
		Operator: h.engine.Selected().Name,
	})
}

func (h *Handler) complete(c *gin.Context) {
	if err := h.engine.Complete(c.Request.Context()); err != nil {
		server.RespondWithError(c, err)
		return
	}
	status := StatusResponse{Completed: true}
	h.broadcast(sse.EventTypeCompleted, status)
	server.RespondOK(c, status)
}

func (h *Handler) status(c *gin.Context) {
	server.RespondOK(c, StatusResponse{Completed: h.engine.Completed()})
}

func (h *Handler) streamLogs(c *gin.Context) {
	sse.ServeSSE(h.hub, c.Writer, c.Request, sse.RecordClientID(),
		sse.WithRequestID(middleware.RequestIDFrom(c.Request.Context())),
		sse.WithRemoteAddr(c.ClientIP()),
	)
}

func (h *Handler) broadcast(event string, payload any) {
	if h.hub == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.Warn("Failed to encode event", logger.Fields("event", event, logger.FieldError, err.Error()))
		return
	}
	h.hub.Broadcast(sse.RecordPattern, event, data)
}

// bind decodes the JSON body into dst and validates it, writing the error
// response itself on failure.
func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		server.RespondWithError(c, errors.InvalidInput("body", "must be a valid JSON object").WithCause(err))
		return false
	}
	if err := validation.Validate(dst); err != nil {
		server.RespondWithError(c, err)
		return false
	}
	return true
}
