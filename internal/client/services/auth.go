// Package services contains application services for the flashdeck client.
// This file defines the authentication service: login, register, logout, and
// the durable session token they maintain.
package services

import (
	"context"
	"fmt"

	"github.com/flashdeck/flashdeck/internal/client/api"
	"github.com/flashdeck/flashdeck/internal/client/session"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: authenticate against the server and persist the session token.
//   - Register: create a new account on the server; does not authenticate.
//   - Logout: drop the in-memory and durable session; idempotent.
//   - Authenticated: report whether a session token is present.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	Login(ctx context.Context, email, password string) error
	Register(ctx context.Context, email, password string) error
	Logout() error
	Authenticated() bool
}

// authService is the concrete AuthService backed by a remote Client and the
// session store.
type authService struct {
	client  api.Client
	session *session.Store
}

// NewAuthService constructs an AuthService bound to the given API client and
// session store.
func NewAuthService(client api.Client, session *session.Store) AuthService {
	return &authService{client: client, session: session}
}

// Login exchanges credentials for an access token and stores it durably so
// the session survives restarts. Invalid credentials surface the server's
// error message wrapped in common.ErrInvalidCredentials.
func (a *authService) Login(ctx context.Context, email, password string) error {
	token, err := a.client.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login error: %w", err)
	}
	if err := a.session.SetToken(token); err != nil {
		return fmt.Errorf("session saving error: %w", err)
	}
	return nil
}

// Register creates a new account on the server. The user still has to log in
// afterwards; registration never stores a token.
func (a *authService) Register(ctx context.Context, email, password string) error {
	if err := a.client.Register(ctx, email, password); err != nil {
		return fmt.Errorf("registration error: %w", err)
	}
	return nil
}

// Logout clears the session token from memory and durable storage.
func (a *authService) Logout() error {
	return a.session.Clear()
}

// Authenticated reports whether a session token is currently held.
func (a *authService) Authenticated() bool {
	return a.session.Authenticated()
}
