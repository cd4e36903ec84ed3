package restapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/kmtdiscovery/admin-console/internal/core/domain"
)

type AuthClient struct {
	t *Transport
}

func NewAuthClient(t *Transport) *AuthClient {
	return &AuthClient{t: t}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResult struct {
	User        domain.SessionUser `json:"user"`
	AccessToken string             `json:"accessToken"`
}

// Login exchanges operator credentials for an access token. A 401 answer
// becomes domain.ErrInvalidCredentials.
func (c *AuthClient) Login(ctx context.Context, email, password string) (string, domain.SessionUser, error) {
	resp, err := c.t.Do(ctx, Request{
		Resource: "auth",
		Method:   http.MethodPost,
		Path:     "/auth/login",
		Body:     loginRequest{Email: email, Password: password},
	})
	if err != nil {
		var rf *domain.RequestFailedError
		if errors.As(err, &rf) && (rf.Status == http.StatusUnauthorized || rf.Status == http.StatusBadRequest) {
			return "", domain.SessionUser{}, fmt.Errorf("login: %w", domain.ErrInvalidCredentials)
		}
		return "", domain.SessionUser{}, fmt.Errorf("login: %w", err)
	}

	res, err := DecodeValue[loginResult](resp.Body, "")
	if err != nil {
		return "", domain.SessionUser{}, fmt.Errorf("login: %w", err)
	}
	if res.AccessToken == "" {
		return "", domain.SessionUser{}, fmt.Errorf("login: %w", &domain.ParseError{Reason: "no access token"})
	}
	return res.AccessToken, res.User, nil
}
