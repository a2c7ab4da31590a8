package sms

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// TwilioMessenger sends messages through the Twilio Messages API.
type TwilioMessenger struct {
	accountSID string
	authToken  string
	from       string
	apiURL     string
	client     *http.Client
}

// NewTwilioMessenger creates a new TwilioMessenger instance. TWILIO_API_URL
// overrides the endpoint for local testing.
func NewTwilioMessenger(accountSID, authToken, from string) *TwilioMessenger {
	apiURL := os.Getenv("TWILIO_API_URL")
	if apiURL == "" {
		apiURL = fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json", accountSID)
	}

	return &TwilioMessenger{
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		apiURL:     apiURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// SendReply sends one text message addressed to `to` from the service number
func (m *TwilioMessenger) SendReply(ctx context.Context, to, body string) error {
	form := url.Values{}
	form.Set("To", to)
	form.Set("From", m.from)
	form.Set("Body", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(m.accountSID, m.authToken)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("Twilio returned status %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}
