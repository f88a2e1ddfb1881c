package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/KyubiGames/autoenvios-ml/internal/service/auth"
	"github.com/KyubiGames/autoenvios-ml/internal/xhttp"
	"github.com/KyubiGames/autoenvios-ml/internal/xslog"
)

type Auth struct {
	service auth.Service
}

func NewAuth(service auth.Service) *Auth {
	return &Auth{service: service}
}

// HandleAuthStart handles GET /auth requests.
func (h *Auth) HandleAuthStart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	authURL, err := h.service.StartAuth(ctx)
	if err != nil {
		xslog.FromContext(ctx).ErrorContext(ctx, "failed to start auth", xslog.Error(err))
		http.Error(w, "failed to start auth", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, authURL, http.StatusFound)
}

// HandleAuthCallback handles GET /callback requests.
func (h *Auth) HandleAuthCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := xslog.FromContext(ctx)

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		errDesc := r.URL.Query().Get("error_description")
		logger.WarnContext(ctx, "authorization denied by provider", xslog.Error(fmt.Errorf("%s: %s", errParam, errDesc)))
		http.Error(w, fmt.Sprintf("authorization error: %s", errDesc), http.StatusBadRequest)
		return
	}

	req := auth.CallbackRequest{
		State: r.URL.Query().Get("state"),
		Code:  r.URL.Query().Get("code"),
	}

	result, err := h.service.HandleCallback(ctx, req)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidState) {
			http.Error(w, "invalid or expired state parameter", http.StatusBadRequest)
			return
		}
		if errors.Is(err, auth.ErrMissingCode) {
			http.Error(w, "missing authorization code", http.StatusBadRequest)
			return
		}

		logger.ErrorContext(ctx, "auth callback error", xslog.Error(err))
		http.Error(w, "failed to exchange authorization code", http.StatusInternalServerError)
		return
	}

	msg := "Authorization complete. You can close this window."
	if result.Nickname != "" {
		msg = fmt.Sprintf("Authorization complete for %s. You can close this window.", result.Nickname)
	}
	xhttp.WriteText(w, http.StatusOK, msg)
}
