// internal/service/composer.go
package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pitchkit/outreach-backend/internal/model"
)

// Composer assembles the outgoing HTML message: personalized body,
// optional signature and legal disclaimer blocks, and the open-tracking
// pixel keyed by the email_sends row.
type Composer struct {
	TrackingBaseURL string
}

// Compose builds the final HTML. Plain-text bodies get paragraph
// treatment; bodies that already contain markup are kept as-is.
func (c *Composer) Compose(body string, settings *model.TenantSettings, emailSendID uuid.UUID) string {
	html := toHTML(body)

	if sig := strings.TrimSpace(settings.DefaultSignature); sig != "" {
		html += "<br><br>" + toHTML(sig)
	}
	if disclaimer := strings.TrimSpace(settings.LegalDisclaimer); disclaimer != "" {
		html += fmt.Sprintf(
			`<div style="margin-top:16px;font-size:11px;color:#888">%s</div>`,
			toHTML(disclaimer),
		)
	}

	return c.injectPixel(html, emailSendID)
}

// injectPixel places the 1x1 open-tracking image before </body> when
// the markup has one, otherwise appends it.
func (c *Composer) injectPixel(html string, emailSendID uuid.UUID) string {
	pixel := fmt.Sprintf(
		`<img src="%s/track/open/%s" width="1" height="1" style="display:none" alt=""/>`,
		strings.TrimRight(c.TrackingBaseURL, "/"), emailSendID,
	)
	if strings.Contains(html, "</body>") {
		return strings.Replace(html, "</body>", pixel+"</body>", 1)
	}
	return html + pixel
}

// toHTML converts plain text to HTML paragraphs. Content that already
// carries tags passes through untouched.
func toHTML(text string) string {
	if strings.Contains(text, "<") && strings.Contains(text, ">") {
		return text
	}

	paragraphs := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n")
	var b strings.Builder
	for _, p := range paragraphs {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(strings.ReplaceAll(p, "\n", "<br>"))
		b.WriteString("</p>")
	}
	return b.String()
}
