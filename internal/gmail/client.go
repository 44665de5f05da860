// Package gmail mirrors sent mail into a sender's Gmail "Sent" folder
// so replies thread correctly in the sender's own mailbox. Token
// acquisition happens elsewhere; this client only consumes a stored
// access token.
package gmail

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultBaseURL = "https://gmail.googleapis.com/gmail/v1"

type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    defaultBaseURL,
	}
}

// InsertSent inserts an RFC 822 message into the user's mailbox with
// the SENT label, without sending it again.
func (c *Client) InsertSent(ctx context.Context, accessToken, from, to, subject, htmlBody string) error {
	raw := buildRawMessage(from, to, subject, htmlBody)

	payload, err := json.Marshal(map[string]any{
		"raw":      base64.URLEncoding.EncodeToString([]byte(raw)),
		"labelIds": []string{"SENT"},
	})
	if err != nil {
		return err
	}

	url := c.baseURL + "/users/me/messages?internalDateSource=receivedTime"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("gmail insert: unexpected status %d", resp.StatusCode)
	}
	return nil
}

func buildRawMessage(from, to, subject, htmlBody string) string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return b.String()
}
