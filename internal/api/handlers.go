package api

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"personachat/internal/models"
	"personachat/internal/ratelimit"
	"personachat/internal/service/ai"
	"personachat/internal/worker"
)

// ThrottledMessage is the stable body clients receive on 429; the UI keys
// its retry copy off it.
const ThrottledMessage = "Too many requests from this IP, please try again later."

const genericFailure = "An error occurred while processing the request."

// TurnHandler is the slice of the orchestrator the HTTP layer needs.
type TurnHandler interface {
	HandleTurn(ctx context.Context, prompt string, history []models.Message) (*models.TurnResult, error)
}

// Handler wires HTTP routes to the conversation orchestrator behind the
// per-IP rate limit gate and the turn dispatcher.
type Handler struct {
	orchestrator TurnHandler
	limiter      *ratelimit.Limiter
	dispatcher   *worker.Dispatcher
	production   bool
}

// NewHandler constructs a Handler instance. Rate limiting is enforced only
// when production is set; other deployment modes bypass the gate.
func NewHandler(orchestrator TurnHandler, limiter *ratelimit.Limiter, dispatcher *worker.Dispatcher, production bool) *Handler {
	return &Handler{
		orchestrator: orchestrator,
		limiter:      limiter,
		dispatcher:   dispatcher,
		production:   production,
	}
}

// RegisterRoutes attaches all HTTP routes to the router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")
	api.GET("/health", h.health)
	api.POST("/chat", h.rateLimitGate(), h.chat)
}

// rateLimitGate rejects clients over their window ceiling before any work
// is done for the request.
func (h *Handler) rateLimitGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !h.production {
			c.Next()
			return
		}
		if h.limiter.ShouldThrottle(c.Request.Context(), c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": ThrottledMessage})
			return
		}
		c.Next()
	}
}

type chatRequest struct {
	Prompt              string           `json:"prompt"`
	ConversationHistory []models.Message `json:"conversationHistory"`
}

type turnOutcome struct {
	result *models.TurnResult
	err    error
}

func (h *Handler) chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body", "error": "bad_request"})
		return
	}
	if req.Prompt == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "prompt is required", "error": "bad_request"})
		return
	}

	ctx := c.Request.Context()
	outcomes := make(chan turnOutcome, 1)
	err := h.dispatcher.Submit(worker.Job{
		ClientID: c.ClientIP(),
		Run: func() {
			result, err := h.orchestrator.HandleTurn(ctx, req.Prompt, req.ConversationHistory)
			outcomes <- turnOutcome{result: result, err: err}
		},
	})
	if err != nil {
		if errors.Is(err, worker.ErrDispatcherBusy) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"message": "server is busy, please retry", "error": "busy"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": genericFailure, "error": "internal_error"})
		return
	}

	out := <-outcomes
	if out.err != nil {
		var upstream *ai.UpstreamError
		if errors.As(out.err, &upstream) {
			if upstream.RateLimited() {
				log.Printf("completion provider throttled us (status %d): %s", upstream.Status, upstream.Detail)
			} else {
				log.Printf("completion provider failed (status %d): %s", upstream.Status, upstream.Detail)
			}
		} else {
			log.Printf("chat turn failed: %v", out.err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": genericFailure, "error": "upstream_error"})
		return
	}
	c.JSON(http.StatusOK, out.result)
}

func (h *Handler) health(c *gin.Context) {
	if h.orchestrator == nil || h.dispatcher == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "Error", "message": "service not initialized"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}
