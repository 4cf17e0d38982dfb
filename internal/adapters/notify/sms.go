package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Default SMS notifier configuration constants.
const (
	defaultSMSTimeout = 10 * time.Second
)

// SMSOption applies a configuration option to the SMSNotifier.
type SMSOption func(*SMSNotifier)

// WithSMSHTTPClient replaces the underlying HTTP client.
func WithSMSHTTPClient(c *http.Client) SMSOption {
	return func(n *SMSNotifier) {
		if c != nil {
			n.client = c
		}
	}
}

// SMSNotifier delivers alerts as text messages through a Twilio-style REST
// gateway (form-encoded POST, basic auth with account sid and token).
// Credential management and delivery receipts belong to the gateway.
type SMSNotifier struct {
	apiURL     string
	accountSID string
	authToken  string
	from       string
	to         string
	client     *http.Client
}

// NewSMSNotifier creates an SMS notifier for the given gateway and numbers.
func NewSMSNotifier(apiURL, accountSID, authToken, from, to string, opts ...SMSOption) *SMSNotifier {
	n := &SMSNotifier{
		apiURL:     apiURL,
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		to:         to,
		client:     &http.Client{Timeout: defaultSMSTimeout},
	}

	// Apply all options
	for _, opt := range opts {
		opt(n)
	}

	return n
}

// Notify sends one SMS carrying the alert message.
func (n *SMSNotifier) Notify(ctx context.Context, message string) error {
	form := url.Values{}
	form.Set("From", n.from)
	form.Set("To", n.to)
	form.Set("Body", message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(n.accountSID, n.authToken)

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("sms request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	return nil
}
