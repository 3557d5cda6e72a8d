package client

import (
	"context"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// refreshMargin is how long before expiry an access token is refreshed.
const refreshMargin = 30 * time.Second

type tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type tokenEnvelope struct {
	JWTTokens tokens `json:"jwtTokens"`
}

// tokenExpiry reads the exp claim without verifying the signature; the API
// verifies it on every request.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func expiring(token string, now time.Time) bool {
	exp, ok := tokenExpiry(token)
	return !ok || now.Add(refreshMargin).After(exp)
}

// authorization returns the Authorization header value, logging in or
// refreshing the access token as needed.
func (c *Client) authorization(ctx context.Context) (string, error) {
	if c.apiKey != "" {
		return "Bearer " + c.apiKey, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tokens.Access != "" && !expiring(c.tokens.Access, time.Now()) {
		return "Bearer " + c.tokens.Access, nil
	}
	if c.tokens.Refresh != "" {
		t, err := c.refresh(ctx, c.tokens)
		if err == nil {
			c.tokens = t
			return "Bearer " + t.Access, nil
		}
		c.log.Debug("token refresh failed, logging in again", zap.Error(err))
	}
	t, err := c.login(ctx)
	if err != nil {
		return "", err
	}
	c.tokens = t
	return "Bearer " + t.Access, nil
}

func (c *Client) login(ctx context.Context) (tokens, error) {
	c.log.Debug("logging in", zap.String("username", c.username))
	var out tokenEnvelope
	err := c.do(ctx, request{
		method:    http.MethodPost,
		path:      "/v1/auth/login",
		body:      map[string]string{"username": c.username, "password": c.password},
		anonymous: true,
	}, &out)
	return out.JWTTokens, err
}

func (c *Client) refresh(ctx context.Context, t tokens) (tokens, error) {
	c.log.Debug("refreshing access token")
	var out tokenEnvelope
	err := c.do(ctx, request{
		method:    http.MethodPost,
		path:      "/v1/auth/refresh",
		body:      tokenEnvelope{JWTTokens: t},
		anonymous: true,
	}, &out)
	return out.JWTTokens, err
}
