package meli

import (
	"context"
	"net/http"
)

type MessageService interface {
	// Send posts a plain-text message from the seller to the buyer.
	Send(ctx context.Context, msg Message) error
}

type messageService struct {
	client *Client
}

type userRef struct {
	UserID int64 `json:"user_id"`
}

type plainText struct {
	Message string `json:"message"`
}

type messageText struct {
	Plain plainText `json:"plain"`
}

type sendMessageRequest struct {
	From userRef     `json:"from"`
	To   userRef     `json:"to"`
	Text messageText `json:"text"`
}

func (s *messageService) Send(ctx context.Context, msg Message) error {
	const route = "/messages/send"

	payload := sendMessageRequest{
		From: userRef{UserID: msg.FromUserID},
		To:   userRef{UserID: msg.ToUserID},
		Text: messageText{Plain: plainText{Message: msg.Text}},
	}

	return s.client.do(ctx, http.MethodPost, route, nil, payload, nil)
}
