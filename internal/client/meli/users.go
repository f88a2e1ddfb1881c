package meli

import (
	"context"
	"net/http"
)

type UserService interface {
	Me(ctx context.Context) (*User, error)
}

type userService struct {
	client *Client
}

func (s *userService) Me(ctx context.Context) (*User, error) {
	const route = "/users/me"

	var user User
	if err := s.client.do(ctx, http.MethodGet, route, nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
