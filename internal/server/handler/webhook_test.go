package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/KyubiGames/autoenvios-ml/internal/service/notification"
)

type stubNotificationService struct {
	err    error
	bodies [][]byte
}

func (s *stubNotificationService) Process(_ context.Context, body []byte) error {
	s.bodies = append(s.bodies, body)
	return s.err
}

func TestWebhook_HandleWebhook(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{
			name:       "processed notification",
			wantStatus: http.StatusOK,
		},
		{
			name:       "malformed payload is the only client error",
			serviceErr: notification.ErrMalformedPayload,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown topic is acknowledged",
			serviceErr: notification.ErrUnknownTopic,
			wantStatus: http.StatusOK,
		},
		{
			name:       "malformed resource is acknowledged",
			serviceErr: notification.ErrMalformedResource,
			wantStatus: http.StatusOK,
		},
		{
			name:       "refresh failure is acknowledged",
			serviceErr: notification.ErrCredentialRefresh,
			wantStatus: http.StatusOK,
		},
		{
			name:       "order fetch failure is acknowledged",
			serviceErr: notification.ErrOrderFetch,
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing message rule is acknowledged",
			serviceErr: notification.ErrNoMessageRule,
			wantStatus: http.StatusOK,
		},
		{
			name:       "send failure is acknowledged",
			serviceErr: notification.ErrMessageSend,
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			service := &stubNotificationService{err: tt.serviceErr}
			h := NewWebhook(service)

			req := httptest.NewRequest(http.MethodPost, "/webhook",
				strings.NewReader(`{"topic":"orders","resource":"/orders/555"}`))
			rec := httptest.NewRecorder()

			h.HandleWebhook(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if len(service.bodies) != 1 {
				t.Fatalf("Process() called %d times, want 1", len(service.bodies))
			}
		})
	}
}

func TestWebhook_PassesRawBodyThrough(t *testing.T) {
	t.Parallel()

	service := &stubNotificationService{}
	h := NewWebhook(service)

	const body = `{"topic":"orders","resource":"/orders/2000004646558221","attempts":3}`
	req := httptest.NewRequest(http.MethodPost, "/notifications", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.HandleWebhook(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := string(service.bodies[0]); got != body {
		t.Errorf("Process() body = %q, want %q", got, body)
	}
}
