package notify

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// TwilioClient sends SMS through the Twilio Messages API.
type TwilioClient struct {
	accountSID string
	authToken  string
	fromNumber string
	baseURL    string
	client     *http.Client
}

// NewTwilioClient creates a client. Returns nil unless account SID, auth
// token and from-number are all configured.
func NewTwilioClient(accountSID, authToken, fromNumber string, timeout time.Duration) *TwilioClient {
	if accountSID == "" || authToken == "" || fromNumber == "" {
		return nil
	}
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &TwilioClient{
		accountSID: accountSID,
		authToken:  authToken,
		fromNumber: fromNumber,
		baseURL:    "https://api.twilio.com",
		client:     &http.Client{Timeout: timeout},
	}
}

// Send delivers one SMS.
func (c *TwilioClient) Send(to, body string) error {
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.baseURL, c.accountSID)
	form := url.Values{
		"To":   {to},
		"From": {c.fromNumber},
		"Body": {body},
	}

	req, err := http.NewRequest(http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.accountSID, c.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("twilio returned status %d", resp.StatusCode)
	}
	return nil
}
