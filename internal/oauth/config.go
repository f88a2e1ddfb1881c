package oauth

import (
	"golang.org/x/oauth2"
)

const (
	authURL  = "https://auth.mercadolibre.com.ar/authorization"
	tokenURL = "https://api.mercadolibre.com/oauth/token" //nolint:gosec // not credentials, just endpoint URL
)

var scopes = []string{
	"offline_access",
	"read",
	"write",
}

type ConfigProvider interface {
	GetClientID() string
	GetClientSecret() string
	GetRedirectURL() string
}

func NewConfig(provider ConfigProvider) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     provider.GetClientID(),
		ClientSecret: provider.GetClientSecret(),
		RedirectURL:  provider.GetRedirectURL(),
		Scopes:       scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  authURL,
			TokenURL: tokenURL,
		},
	}
}
