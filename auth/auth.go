// Package auth resolves the connection-time player identity. The transport
// hands every inbound connection to an Authenticator before any game event is
// processed; the game core only ever sees the resulting identifier.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrUnauthorized = errors.New("unauthorized")

// Identity is an authenticated player.
type Identity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Authenticator resolves the player identity for an incoming connection.
type Authenticator interface {
	Authenticate(ctx context.Context, r *http.Request) (Identity, error)
}

// Guest issues anonymous identities. Every connection without its own player
// id gets a fresh random one; a "player" query parameter, when present, is
// honored so clients can keep a stable identity across reconnects.
type Guest struct{}

func (Guest) Authenticate(ctx context.Context, r *http.Request) (Identity, error) {
	if id := r.URL.Query().Get("player"); id != "" {
		return Identity{ID: id, Name: id}, nil
	}
	id := uuid.NewString()
	return Identity{ID: id, Name: "guest-" + id[:8]}, nil
}

// HTTPAuthenticator validates the connection's bearer token against an
// external identity endpoint and adopts the identity it returns. The endpoint
// is expected to answer GET with a JSON document carrying id, username, and
// an optional global_name (the shape Discord's /users/@me uses).
type HTTPAuthenticator struct {
	Endpoint string
	Client   *http.Client
}

// NewHTTPAuthenticator creates an authenticator against the given identity
// endpoint.
func NewHTTPAuthenticator(endpoint string) *HTTPAuthenticator {
	return &HTTPAuthenticator{
		Endpoint: endpoint,
		Client:   &http.Client{Timeout: 5 * time.Second},
	}
}

type identityResponse struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	GlobalName string `json:"global_name"`
}

func (a *HTTPAuthenticator) Authenticate(ctx context.Context, r *http.Request) (Identity, error) {
	token := r.Header.Get("Authorization")
	if token == "" {
		// Browsers cannot set headers on WebSocket upgrades, so the token may
		// ride in the query string instead.
		if q := r.URL.Query().Get("token"); q != "" {
			token = "Bearer " + q
		}
	}
	if token == "" {
		return Identity{}, fmt.Errorf("%w: missing bearer token", ErrUnauthorized)
	}
	if !strings.HasPrefix(token, "Bearer ") {
		token = "Bearer " + token
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.Endpoint, nil)
	if err != nil {
		return Identity{}, err
	}
	req.Header.Set("Authorization", token)

	resp, err := a.Client.Do(req)
	if err != nil {
		return Identity{}, fmt.Errorf("identity lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Identity{}, fmt.Errorf("%w: identity endpoint returned %d", ErrUnauthorized, resp.StatusCode)
	}

	var ir identityResponse
	if err := json.NewDecoder(resp.Body).Decode(&ir); err != nil {
		return Identity{}, fmt.Errorf("identity response malformed: %w", err)
	}
	if ir.ID == "" {
		return Identity{}, fmt.Errorf("%w: identity response missing id", ErrUnauthorized)
	}

	name := ir.GlobalName
	if name == "" {
		name = ir.Username
	}
	return Identity{ID: ir.ID, Name: name}, nil
}
