package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/secureguard/phishsim-service/internal/observability"
	"github.com/secureguard/phishsim-service/internal/service"
)

// landingPage is the generic page shown after any tracking hit. It must be
// identical for first clicks, repeats and unknown tokens so a wary recipient
// cannot distinguish outcomes.
const landingPage = `<!DOCTYPE html>
<html>
<head><title>Security Awareness Training</title></head>
<body>
<h1>This was a simulated phishing test</h1>
<p>The link you just clicked was part of a security awareness exercise run by
your organization. No harm was done, but a real attacker could have stolen
your credentials or installed malware.</p>
<p>Please review your organization's guidance on recognizing phishing
messages.</p>
</body>
</html>`

// TrackingHandler serves the public, unauthenticated tracking endpoint.
type TrackingHandler struct {
	tracking *service.TrackingService
	metrics  *observability.Metrics
}

// NewTrackingHandler constructs handler.
func NewTrackingHandler(tracking *service.TrackingService, metrics *observability.Metrics) *TrackingHandler {
	return &TrackingHandler{tracking: tracking, metrics: metrics}
}

// Hit handles GET /t/:token. The outcome is recorded and counted but never
// reflected in the response; every caller gets the same landing page.
func (h *TrackingHandler) Hit(c *fiber.Ctx) error {
	outcome := h.tracking.RecordClick(c.Context(), c.Params("token"))
	h.metrics.RecordClick(string(outcome.Result))

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(landingPage)
}
