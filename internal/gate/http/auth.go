package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/bananabrain/internal/gate/domain"
	"github.com/aussiebroadwan/bananabrain/internal/gate/service"
	"github.com/aussiebroadwan/bananabrain/pkg/gatesdk"
	"github.com/aussiebroadwan/bananabrain/pkg/httpx"
	"github.com/aussiebroadwan/bananabrain/pkg/slogx"
)

// AuthHandler serves account endpoints backed by the identity provider.
type AuthHandler struct {
	Accounts  Accounts
	Passwords *service.PasswordService
	Events    *service.SessionEvents
}

// accountError maps identity provider sentinels to a response.
func accountError(w http.ResponseWriter, r *http.Request, err error) {
	log := slogx.FromContext(r.Context())

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		log.Warn("sign-in rejected")
		httpx.WriteError(w, http.StatusUnauthorized, gatesdk.KindInvalidCredentials, "Invalid email or password")
	case errors.Is(err, domain.ErrEmailTaken):
		log.Warn("sign-up rejected: email taken")
		httpx.WriteError(w, http.StatusConflict, gatesdk.KindEmailTaken, "Email is already registered")
	case errors.Is(err, domain.ErrInvalidEmail):
		httpx.WriteError(w, http.StatusBadRequest, gatesdk.KindInvalidRequest, "Invalid email address")
	case errors.Is(err, domain.ErrWeakPassword):
		httpx.WriteError(w, http.StatusBadRequest, gatesdk.KindWeakPassword, "Password must be at least 6 characters")
	default:
		log.Error("account operation failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, string(service.KindInternal), "Internal server error")
	}
}

func writeSession(w http.ResponseWriter, issued domain.IssuedSession) {
	httpx.WriteJSON(w, http.StatusOK, gatesdk.SessionResponse{
		SessionToken: issued.Token,
		ExpiresAt:    issued.Session.ExpiresAt.UTC(),
	})
}

// HandleSignUp handles POST /v1/auth/signup
//
//	@Summary		Create an account
//	@Description	Registers an email and password and signs in at the base assurance level.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		gatesdk.CredentialsRequest	true	"Email and password"
//	@Success		200		{object}	gatesdk.SessionResponse
//	@Failure		400		{object}	gatesdk.ErrorResponse	"Invalid email or weak password"
//	@Failure		409		{object}	gatesdk.ErrorResponse	"Email already registered"
//	@Router			/v1/auth/signup [post].
func (h *AuthHandler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	var req gatesdk.CredentialsRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, r, err)
		return
	}

	issued, err := h.Accounts.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		accountError(w, r, err)
		return
	}
	writeSession(w, issued)
}

// HandleSignIn handles POST /v1/auth/signin
//
//	@Summary		Sign in
//	@Description	Exchanges email and password for a session token at the base assurance level.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		gatesdk.CredentialsRequest	true	"Email and password"
//	@Success		200		{object}	gatesdk.SessionResponse
//	@Failure		401		{object}	gatesdk.ErrorResponse	"Invalid email or password"
//	@Failure		429		{object}	gatesdk.ErrorResponse	"Rate limited"
//	@Router			/v1/auth/signin [post].
func (h *AuthHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	var req gatesdk.CredentialsRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, r, err)
		return
	}

	issued, err := h.Accounts.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		accountError(w, r, err)
		return
	}
	writeSession(w, issued)
}

// HandleSignOut handles POST /v1/auth/signout
//
//	@Summary		Sign out
//	@Description	Ends the current session. The client returns to needs-auth.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	gatesdk.PhaseResponse
//	@Failure		401	{object}	gatesdk.ErrorResponse	"Missing or invalid session"
//	@Router			/v1/auth/signout [post].
func (h *AuthHandler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(r.Context())
	if !ok {
		writeServiceError(w, r, http.StatusUnauthorized, service.ErrUnauthenticated)
		return
	}

	if err := h.Accounts.SignOut(r.Context(), sess); err != nil {
		accountError(w, r, err)
		return
	}
	h.Events.Publish(sess.UserID, service.Event{Kind: service.EventSignedOut, Session: &sess})
	httpx.WriteJSON(w, http.StatusOK, gatesdk.PhaseResponse{Phase: domain.PhaseNeedsAuth.String()})
}

// HandleRecover handles POST /v1/auth/recover
//
//	@Summary		Request a password recovery email
//	@Description	Emails a recovery link when the address is registered. Always reports success.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		gatesdk.RecoverRequest	true	"Account email"
//	@Success		200		{object}	gatesdk.SuccessResponse
//	@Failure		500		{object}	gatesdk.ErrorResponse	"Email could not be sent"
//	@Router			/v1/auth/recover [post].
func (h *AuthHandler) HandleRecover(w http.ResponseWriter, r *http.Request) {
	var req gatesdk.RecoverRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, r, err)
		return
	}

	if err := h.Accounts.Recover(r.Context(), req.Email); err != nil {
		accountError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, gatesdk.SuccessResponse{Success: true})
}

// HandlePassword handles POST /v1/auth/password
//
//	@Summary		Update the password
//	@Description	Sets a new password, signs out every other session and sends the client back to needs-auth.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		gatesdk.PasswordUpdateRequest	true	"New password and confirmation"
//	@Success		200		{object}	gatesdk.PhaseResponse
//	@Failure		400		{object}	gatesdk.ErrorResponse	"Passwords differ or are too short"
//	@Failure		401		{object}	gatesdk.ErrorResponse	"Missing or invalid session"
//	@Failure		502		{object}	gatesdk.ErrorResponse	"Identity provider error"
//	@Router			/v1/auth/password [post].
func (h *AuthHandler) HandlePassword(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(r.Context())
	if !ok {
		writeServiceError(w, r, http.StatusUnauthorized, service.ErrUnauthenticated)
		return
	}

	var req gatesdk.PasswordUpdateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, r, err)
		return
	}

	phase, err := h.Passwords.UpdatePassword(r.Context(), sess, req.Password, req.Confirm)
	if err != nil {
		writeServiceError(w, r, statusFor(service.KindOf(err)), err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, gatesdk.PhaseResponse{Phase: phase.String()})
}
