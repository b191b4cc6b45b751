package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"
)

var (
	ErrInvalidGoogleToken = errors.New("invalid google token")
	ErrMissingEmail       = errors.New("google account has no email")
)

// Profile is what the application keeps from a Google identity.
type Profile struct {
	Email string
	Name  string
}

type GoogleProvider struct {
	clientID string
	oauth    *oauth2.Config
	validate func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)
	exchange func(ctx context.Context, code string) (*oauth2.Token, error)
}

func NewGoogleProvider(clientID, clientSecret, redirectURL string) *GoogleProvider {
	cfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     google.Endpoint,
		Scopes:       []string{"openid", "email", "profile"},
	}
	return &GoogleProvider{
		clientID: clientID,
		oauth:    cfg,
		validate: idtoken.Validate,
		exchange: func(ctx context.Context, code string) (*oauth2.Token, error) {
			return cfg.Exchange(ctx, code)
		},
	}
}

// AuthCodeURL is the consent screen the browser is redirected to.
func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// ExchangeCode trades the callback code for tokens and reads the profile from
// the verified ID token.
func (p *GoogleProvider) ExchangeCode(ctx context.Context, code string) (*Profile, error) {
	token, err := p.exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange google code: %w", err)
	}
	raw, _ := token.Extra("id_token").(string)
	if raw == "" {
		return nil, ErrInvalidGoogleToken
	}
	return p.VerifyIDToken(ctx, raw)
}

func (p *GoogleProvider) VerifyIDToken(ctx context.Context, raw string) (*Profile, error) {
	payload, err := p.validate(ctx, raw, p.clientID)
	if err != nil {
		return nil, ErrInvalidGoogleToken
	}
	email, _ := payload.Claims["email"].(string)
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrMissingEmail
	}
	name, _ := payload.Claims["name"].(string)
	if strings.TrimSpace(name) == "" {
		name = "Unknown"
	}
	return &Profile{Email: email, Name: name}, nil
}
