package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hannahhealth/sms-gateway/backend/internal/sms"
)

// WebhookRecovery converts a panic inside the webhook handler into the
// transport's no-op acknowledgement. The transport retries unacknowledged
// webhooks, which would re-trigger the same panic; acknowledging keeps the
// one-reply-per-message contract at the boundary.
func WebhookRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("webhook handler panic: %v", err)
				c.Data(http.StatusOK, "text/xml", []byte(sms.EmptyTwiML()))
				c.Abort()
			}
		}()

		c.Next()
	}
}
