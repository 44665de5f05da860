// internal/controller/tracking_controller.go
package controller

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pitchkit/outreach-backend/internal/repository"
)

// transparentGIF is a 1x1 transparent image served for open tracking.
var transparentGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x01, 0x00, 0x01, 0x00, 0x80, 0x00,
	0x00, 0x00, 0x00, 0x00, 0xff, 0xff, 0xff, 0x21, 0xf9, 0x04, 0x01, 0x00,
	0x00, 0x00, 0x00, 0x2c, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00,
	0x00, 0x02, 0x02, 0x44, 0x01, 0x00, 0x3b,
}

// TrackingController serves the open-tracking pixel embedded by the
// composer. The pixel is keyed by the email_sends row.
type TrackingController struct {
	Sends repository.EmailSendRepositoryInterface
}

// Open stamps opened_at on the send attempt and serves the pixel. The
// image is always returned, even when the id is bogus, so broken
// tracking never shows up in a recipient's mail client.
func (c *TrackingController) Open(w http.ResponseWriter, r *http.Request) {
	if id, err := uuid.Parse(chi.URLParam(r, "id")); err == nil {
		if err := c.Sends.MarkOpened(id, time.Now()); err != nil {
			log.Println("[tracking] mark opened:", err)
		}
	}

	w.Header().Set("Content-Type", "image/gif")
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	w.Write(transparentGIF)
}
