package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/contextia/website/internal/activity"
	"github.com/contextia/website/internal/httputil"
	"github.com/contextia/website/internal/mail"
	"go.uber.org/zap"
)

const maxContactBytes = 64 << 10

// handleContact relays a contact-form submission to the site owner
func (h *Handler) handleContact(w http.ResponseWriter, r *http.Request) {
	var sub mail.Submission
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxContactBytes)).Decode(&sub); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	h.logger.Info("Contact form submission",
		zap.String("name", sub.Name),
		zap.String("email", sub.Email),
		zap.String("interest", sub.Interest),
		zap.Bool("api_key_present", h.cfg.ResendAPIKey != ""))

	if !sub.Valid() {
		httputil.RespondError(w, http.StatusBadRequest, "Name and email are required")
		return
	}

	if h.mailer == nil || h.cfg.ResendAPIKey == "" || h.cfg.ContactEmail == "" {
		h.logger.Error("Email service not configured",
			zap.Bool("api_key_present", h.cfg.ResendAPIKey != ""),
			zap.Bool("contact_email_present", h.cfg.ContactEmail != ""))
		h.record(r, activity.KindContact, "not_configured", sub.Email)
		httputil.RespondError(w, http.StatusInternalServerError, "Email service not configured")
		return
	}

	msg, err := mail.Notification(sub, h.cfg.ContactFrom, h.cfg.ContactEmail, h.now())
	if err != nil {
		h.logger.Error("Failed to build notification", zap.Error(err))
		httputil.RespondJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Server error",
			"details": err.Error(),
		})
		return
	}

	id, err := h.mailer.Send(r.Context(), msg)
	if err != nil {
		if errors.Is(err, mail.ErrNotConfigured) {
			httputil.RespondError(w, http.StatusInternalServerError, "Email service not configured")
			return
		}
		fields := []zap.Field{zap.Error(err)}
		var apiErr *mail.APIError
		if errors.As(err, &apiErr) {
			fields = append(fields, zap.Int("status_code", apiErr.StatusCode))
		}
		h.logger.Error("Email sending error", fields...)
		h.record(r, activity.KindContact, "failed", sub.Email)

		httputil.RespondJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Failed to send notification",
			"details": err.Error(),
			"hint":    "Check your RESEND_API_KEY and CONTACT_EMAIL",
		})
		return
	}

	h.logger.Info("Notification email sent", zap.String("id", id))
	h.record(r, activity.KindContact, "sent", sub.Email)

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Contact request received successfully",
	})
}
