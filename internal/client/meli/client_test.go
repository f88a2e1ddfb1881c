package meli

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	go_json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
)

type staticToken string

func (t staticToken) AccessToken(_ context.Context) (string, error) {
	return string(t), nil
}

type failingToken struct{}

func (failingToken) AccessToken(_ context.Context) (string, error) {
	return "", errors.New("no credentials stored")
}

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return New(staticToken("APP_USR-test"), WithBaseURL(srv.URL))
}

func TestOrderService_Get(t *testing.T) {
	t.Parallel()

	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		if r.URL.Path != "/orders/777" {
			t.Errorf("path = %s, want /orders/777", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer APP_USR-test" {
			t.Errorf("Authorization = %q, want bearer token", got)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": 777,
			"status": "paid",
			"buyer": {"id": 9, "nickname": "LUIS123", "first_name": "Luis"},
			"seller": {"id": 123456},
			"order_items": [{"item": {"id": "MLA2647136094", "title": "Kit digital"}, "quantity": 1}]
		}`))
	})

	order, err := client.Orders.Get(t.Context(), "777")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	want := &Order{
		ID:     777,
		Status: "paid",
		Buyer:  &Buyer{ID: 9, Nickname: "LUIS123", FirstName: "Luis"},
		Seller: &Seller{ID: 123456},
		OrderItems: []OrderItem{
			{Item: Item{ID: "MLA2647136094", Title: "Kit digital"}, Quantity: 1},
		},
	}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Errorf("Get() mismatch (-want +got):\n%s", diff)
	}
}

func TestOrderService_Get_IncompleteOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{
			name: "missing buyer",
			body: `{"id": 777, "order_items": [{"item": {"id": "MLA1"}}]}`,
		},
		{
			name: "missing order items",
			body: `{"id": 777, "buyer": {"id": 9}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.body))
			})

			if _, err := client.Orders.Get(t.Context(), "777"); !errors.Is(err, ErrIncompleteOrder) {
				t.Fatalf("Get() error = %v, want ErrIncompleteOrder", err)
			}
		})
	}
}

func TestOrderService_Get_NotFound(t *testing.T) {
	t.Parallel()

	client := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message": "Order not found", "error": "not_found"}`))
	})

	_, err := client.Orders.Get(t.Context(), "404404")
	if !IsNotFound(err) {
		t.Fatalf("Get() error = %v, want a 404 APIError", err)
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Get() error = %T, want *APIError", err)
	}
	if apiErr.Message != "Order not found" {
		t.Errorf("Message = %q, want provider message", apiErr.Message)
	}
}

func TestMessageService_Send(t *testing.T) {
	t.Parallel()

	var captured struct {
		From struct {
			UserID int64 `json:"user_id"`
		} `json:"from"`
		To struct {
			UserID int64 `json:"user_id"`
		} `json:"to"`
		Text struct {
			Plain struct {
				Message string `json:"message"`
			} `json:"plain"`
		} `json:"text"`
	}

	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/messages/send" {
			t.Errorf("path = %s, want /messages/send", r.URL.Path)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", got)
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("failed to read body: %v", err)
		}
		if err := go_json.Unmarshal(body, &captured); err != nil {
			t.Errorf("failed to decode body: %v", err)
		}

		w.WriteHeader(http.StatusCreated)
	})

	msg := Message{FromUserID: 123456, ToUserID: 9, Text: "¡Gracias por tu compra, Luis!"}
	if err := client.Messages.Send(t.Context(), msg); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if captured.From.UserID != 123456 {
		t.Errorf("from.user_id = %d, want 123456", captured.From.UserID)
	}
	if captured.To.UserID != 9 {
		t.Errorf("to.user_id = %d, want 9", captured.To.UserID)
	}
	if captured.Text.Plain.Message != msg.Text {
		t.Errorf("text.plain.message = %q, want %q", captured.Text.Plain.Message, msg.Text)
	}
}

func TestMessageService_Send_Forbidden(t *testing.T) {
	t.Parallel()

	client := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message": "messaging window closed"}`))
	})

	err := client.Messages.Send(t.Context(), Message{FromUserID: 1, ToUserID: 2, Text: "hola"})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Send() error = %T, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusForbidden {
		t.Errorf("StatusCode = %d, want 403", apiErr.StatusCode)
	}
}

func TestClient_TokenSourceFailureStopsRequest(t *testing.T) {
	t.Parallel()

	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		hits++
	}))
	t.Cleanup(srv.Close)

	client := New(failingToken{}, WithBaseURL(srv.URL))

	if _, err := client.Orders.Get(t.Context(), "777"); err == nil {
		t.Fatal("Get() error = nil, want error from token source")
	}
	if hits != 0 {
		t.Errorf("server hits = %d, want 0 when the token source fails", hits)
	}
}

func TestUserService_Me(t *testing.T) {
	t.Parallel()

	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/me" {
			t.Errorf("path = %s, want /users/me", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 123456, "nickname": "KYUBIGAMES", "site_id": "MLA"}`))
	})

	user, err := client.Users.Me(t.Context())
	if err != nil {
		t.Fatalf("Me() error = %v", err)
	}

	want := &User{ID: 123456, Nickname: "KYUBIGAMES", SiteID: "MLA"}
	if diff := cmp.Diff(want, user); diff != "" {
		t.Errorf("Me() mismatch (-want +got):\n%s", diff)
	}
}
