package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var ErrSenderDisabled = errors.New("email sender disabled: no api key configured")

type Sender interface {
	Send(ctx context.Context, to Recipient, msg Message) error
}

// HTTPSender posts messages to a transactional email API that accepts
// {from, to, subject, html, text} with bearer authentication.
type HTTPSender struct {
	client *http.Client
	url    string
	apiKey string
	from   string
}

func NewHTTPSender(client *http.Client, url, apiKey, from string) *HTTPSender {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSender{client: client, url: url, apiKey: apiKey, from: from}
}

type emailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Text    string   `json:"text,omitempty"`
}

func (s *HTTPSender) Send(ctx context.Context, to Recipient, msg Message) error {
	address := to.Email
	if to.Name != "" {
		address = fmt.Sprintf("%s <%s>", to.Name, to.Email)
	}

	body, err := json.Marshal(emailRequest{
		From:    s.from,
		To:      []string{address},
		Subject: msg.Subject,
		HTML:    msg.HTML,
		Text:    msg.Text,
	})
	if err != nil {
		return fmt.Errorf("marshal email request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("email api request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("email api returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	return nil
}

type DisabledSender struct{}

func (DisabledSender) Send(ctx context.Context, to Recipient, msg Message) error {
	return ErrSenderDisabled
}
