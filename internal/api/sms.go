package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hannahhealth/sms-gateway/backend/config"
	"github.com/hannahhealth/sms-gateway/backend/internal/middleware"
	"github.com/hannahhealth/sms-gateway/backend/internal/service"
	"github.com/hannahhealth/sms-gateway/backend/internal/sms"
)

// SMSHandler handles inbound SMS webhook requests
type SMSHandler struct {
	gateway   *service.GatewayService
	messenger sms.Messenger
	cfg       *config.Config
	limiter   *middleware.RateLimiter
}

// NewSMSHandler creates a new SMSHandler instance
func NewSMSHandler(gateway *service.GatewayService, messenger sms.Messenger, cfg *config.Config, limiter *middleware.RateLimiter) *SMSHandler {
	return &SMSHandler{
		gateway:   gateway,
		messenger: messenger,
		cfg:       cfg,
		limiter:   limiter,
	}
}

// RegisterRoutes registers the SMS webhook routes
func (h *SMSHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/sms")
	group.Use(middleware.WebhookRecovery())
	if h.limiter != nil {
		group.Use(h.limiter.SMSRateLimitMiddleware())
	}
	group.POST("/webhook", h.Webhook)
}

// Webhook receives one inbound message and always acknowledges it. In test
// mode (config flag or ?mode=test) it echoes the composed reply as JSON and
// skips the outbound send.
func (h *SMSHandler) Webhook(c *gin.Context) {
	from := c.PostForm("From")
	body := c.PostForm("Body")

	if from == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "From is required"})
		return
	}

	reply := h.gateway.HandleMessage(c.Request.Context(), from, body)

	if h.cfg.SMSTestMode || c.Query("mode") == "test" {
		c.JSON(http.StatusOK, gin.H{
			"response":        reply,
			"from":            from,
			"originalMessage": body,
		})
		return
	}

	// Empty reply means the message was a delivery echo from our own
	// number; acknowledge without answering.
	if reply != "" {
		if err := h.messenger.SendReply(c.Request.Context(), from, reply); err != nil {
			// The webhook still acknowledges: the transport would
			// otherwise retry and double-process the message.
			log.Printf("outbound send failed for %s: %v", from, err)
		}
	}

	c.Data(http.StatusOK, "text/xml", []byte(sms.EmptyTwiML()))
}
