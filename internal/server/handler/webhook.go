package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/KyubiGames/autoenvios-ml/internal/apperr"
	"github.com/KyubiGames/autoenvios-ml/internal/service/notification"
	"github.com/KyubiGames/autoenvios-ml/internal/xslog"
)

type Webhook struct {
	service notification.Service
}

func NewWebhook(service notification.Service) *Webhook {
	return &Webhook{service: service}
}

// HandleWebhook handles POST /webhook and POST /notifications requests.
// The notifier retries undelivered notifications, so every outcome past
// a successful parse is acknowledged with 200: redelivery cannot fix an
// expired refresh token or a missing catalog entry.
func (h *Webhook) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := xslog.FromContext(ctx)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.ErrorContext(ctx, "failed to read webhook body", xslog.Error(err))
		apperr.WriteError(w, apperr.BadRequest("invalid_request", "failed to read request body"))
		return
	}

	err = h.service.Process(ctx, body)
	if err == nil {
		w.WriteHeader(http.StatusOK)
		return
	}

	switch {
	case errors.Is(err, notification.ErrMalformedPayload):
		logger.WarnContext(ctx, "unparseable webhook body", xslog.Error(err))
		apperr.WriteError(w, apperr.BadRequest("invalid_request", "invalid JSON body"))
		return

	case errors.Is(err, notification.ErrUnknownTopic):
		logger.DebugContext(ctx, "ignoring notification", xslog.Error(err))

	case errors.Is(err, notification.ErrMalformedResource):
		logger.WarnContext(ctx, "malformed notification resource", xslog.Error(err))

	case errors.Is(err, notification.ErrNoMessageRule):
		logger.InfoContext(ctx, "no message rule for purchased item, skipping send", xslog.Error(err))

	default:
		logger.ErrorContext(ctx, "failed to process notification", xslog.Error(err))
	}

	w.WriteHeader(http.StatusOK)
}
