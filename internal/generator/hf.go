package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/konman95/mainst.ai/internal/models"
)

// HFClient calls a hosted chat-completions endpoint to draft replies. It
// satisfies the composer's Generator interface; any failure here is
// recovered by the composer's template fallback.
type HFClient struct {
	baseURL string
	model   string
	token   string
	client  *http.Client
}

// NewHFClient creates a client. Returns nil if token is empty, which the
// composer treats as "no generator configured".
func NewHFClient(baseURL, model, token string, timeout time.Duration) *HFClient {
	if token == "" {
		return nil
	}
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &HFClient{
		baseURL: baseURL,
		model:   model,
		token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// systemPrompt shapes the model around the business and the flow the draft
// is for.
func systemPrompt(bp *models.BusinessProfile, contact *models.Contact, mode string) string {
	services := "N/A"
	if len(bp.Services) > 0 {
		services = strings.Join(bp.Services, ", ")
	}
	orNA := func(s string) string {
		if s == "" {
			return "N/A"
		}
		return s
	}
	name := "Unknown"
	leadStatus := "new"
	if contact != nil {
		if contact.Name != "" {
			name = contact.Name
		}
		if contact.LeadStatus != "" {
			leadStatus = contact.LeadStatus
		}
	}

	return fmt.Sprintf(`You are Main St AI - a front-office operator for a small business.

Business:
- Name: %s
- Services: %s
- Service area: %s
- Hours: %s
- Pricing notes: %s
- Policies: %s
Tone: %s

Operating Rules:
- Be concise and professional.
- Ask at most ONE follow-up question.
- Never claim actions were performed unless you explicitly did them.
- For booking: ask for preferred day/time; reference hours.
- For pricing: give a general range using pricing notes; request one detail.
- For complaints/legal/refunds: respond calmly and escalate to owner; ask for details and best contact method.
Mode: %s

Customer context:
- Name: %s
- Lead status: %s
`, bp.BusinessName, services, orNA(bp.ServiceArea), bp.Hours, orNA(bp.PricingNotes), orNA(bp.Policies), bp.Tone, mode, name, leadStatus)
}

// Reply drafts a response to inbound. The returned string may be empty;
// the caller falls back to templates in that case.
func (c *HFClient) Reply(ctx context.Context, bp *models.BusinessProfile, contact *models.Contact, inbound, mode string) (string, error) {
	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt(bp, contact, mode)},
			{Role: "user", Content: inbound},
		},
		MaxTokens:   320,
		Temperature: 0.4,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("generator returned status %d", resp.StatusCode)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}
