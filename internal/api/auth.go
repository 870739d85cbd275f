package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/amishk599/cvbuilder/internal/model"
)

// Register creates an account. It does not sign in.
func (c *Client) Register(ctx context.Context, email, password, username string) (model.User, error) {
	body := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Username string `json:"username"`
	}{email, password, username}

	var out model.User
	if err := c.doJSON(ctx, http.MethodPost, EndpointRegister, body, &out); err != nil {
		return model.User{}, fmt.Errorf("register: %w", err)
	}
	return out, nil
}

// Login exchanges credentials for a bearer token using the OAuth2 password
// grant and stores it in the session. identifier may be an email or username.
func (c *Client) Login(ctx context.Context, identifier, password string) (*oauth2.Token, error) {
	cfg := &oauth2.Config{
		Endpoint: oauth2.Endpoint{
			TokenURL:  c.baseURL + EndpointLogin,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	tok, err := cfg.PasswordCredentialsToken(ctx, identifier, password)
	if err != nil {
		return nil, fmt.Errorf("login: %w", c.loginError(ctx, err))
	}
	if err := c.session.Set(tok); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	c.logger.Info("signed in", "user", identifier)
	return tok, nil
}

// loginError maps oauth2's token errors onto the client's error taxonomy.
// A 401 here means bad credentials, not an expired session, so it carries
// the backend's detail and leaves the session and route alone.
func (c *Client) loginError(ctx context.Context, err error) error {
	var re *oauth2.RetrieveError
	if !errors.As(err, &re) || re.Response == nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.logger.Error("backend unreachable", "path", EndpointLogin, "error", err)
		return &model.NetworkError{Err: err}
	}
	return errorFromBody(re.Response.StatusCode, re.Body)
}

// Me returns the signed-in user. It is the cheapest way to confirm a token.
func (c *Client) Me(ctx context.Context) (model.User, error) {
	var out model.User
	if err := c.doJSON(ctx, http.MethodGet, EndpointMe, nil, &out); err != nil {
		return model.User{}, fmt.Errorf("me: %w", err)
	}
	return out, nil
}
