package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const sendGridEndpoint = "https://api.sendgrid.com/v3/mail/send"

// SendGridClient sends plain-text email through the SendGrid v3 API.
type SendGridClient struct {
	apiKey    string
	fromEmail string
	baseURL   string
	client    *http.Client
}

// NewSendGridClient creates a client. Returns nil when no API key is
// configured.
func NewSendGridClient(apiKey, fromEmail string, timeout time.Duration) *SendGridClient {
	if apiKey == "" {
		return nil
	}
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &SendGridClient{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		baseURL:   sendGridEndpoint,
		client:    &http.Client{Timeout: timeout},
	}
}

// Send delivers one email.
func (c *SendGridClient) Send(to, subject, content string) error {
	payload := map[string]interface{}{
		"personalizations": []map[string]interface{}{
			{"to": []map[string]string{{"email": to}}},
		},
		"from":    map[string]string{"email": c.fromEmail},
		"subject": subject,
		"content": []map[string]string{{"type": "text/plain", "value": content}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}
	return nil
}
