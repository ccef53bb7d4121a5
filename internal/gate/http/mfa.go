package http

import (
	"net/http"

	"github.com/aussiebroadwan/bananabrain/internal/gate/service"
	"github.com/aussiebroadwan/bananabrain/pkg/gatesdk"
	"github.com/aussiebroadwan/bananabrain/pkg/httpx"
)

// MFAHandler serves TOTP enrollment and step-up verification.
type MFAHandler struct {
	MFA   *service.MFAService
	Phase *PhaseHandler
}

// HandleEnroll handles POST /v1/mfa/enroll
//
//	@Summary		Start TOTP enrollment
//	@Description	Discards unfinished enrollments and registers a new TOTP factor. Returns a QR code to scan.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	gatesdk.EnrollResponse	"Factor ID, QR code, secret and otpauth URI"
//	@Failure		401	{object}	gatesdk.ErrorResponse	"Missing or invalid session"
//	@Failure		502	{object}	gatesdk.ErrorResponse	"Identity provider error"
//	@Router			/v1/mfa/enroll [post].
func (h *MFAHandler) HandleEnroll(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(r.Context())
	if !ok {
		writeServiceError(w, r, http.StatusUnauthorized, service.ErrUnauthenticated)
		return
	}

	enr, err := h.MFA.StartEnrollment(r.Context(), sess)
	if err != nil {
		writeServiceError(w, r, statusFor(service.KindOf(err)), err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, gatesdk.EnrollResponse{
		FactorID: enr.FactorID,
		QRCode:   enr.QRCode,
		Secret:   enr.Secret,
		URI:      enr.URI,
	})
}

// HandleEnrollVerify handles POST /v1/mfa/enroll/verify
//
//	@Summary		Complete TOTP enrollment
//	@Description	Verifies the first code from the authenticator app. On failure the factor stays pending and can be retried.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		gatesdk.EnrollVerifyRequest	true	"Pending factor and code"
//	@Success		200		{object}	gatesdk.PhaseResponse		"Phase after elevation"
//	@Failure		400		{object}	gatesdk.ErrorResponse		"Missing fields or wrong code"
//	@Failure		401		{object}	gatesdk.ErrorResponse		"Missing or invalid session"
//	@Failure		502		{object}	gatesdk.ErrorResponse		"Identity provider error"
//	@Router			/v1/mfa/enroll/verify [post].
func (h *MFAHandler) HandleEnrollVerify(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(r.Context())
	if !ok {
		writeServiceError(w, r, http.StatusUnauthorized, service.ErrUnauthenticated)
		return
	}

	var req gatesdk.EnrollVerifyRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, r, err)
		return
	}

	if err := h.MFA.CompleteEnrollment(r.Context(), sess, req.FactorID, req.Code); err != nil {
		writeServiceError(w, r, statusFor(service.KindOf(err)), err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, h.Phase.evaluate(r.Context(), ""))
}

// HandleChallenge handles POST /v1/mfa/challenge
//
//	@Summary		Open an MFA challenge
//	@Description	Creates a challenge on the user's verified TOTP factor.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	gatesdk.MFAChallengeResponse
//	@Failure		401	{object}	gatesdk.ErrorResponse	"Missing or invalid session"
//	@Failure		409	{object}	gatesdk.ErrorResponse	"No verified factor, enroll first"
//	@Failure		502	{object}	gatesdk.ErrorResponse	"Identity provider error"
//	@Router			/v1/mfa/challenge [post].
func (h *MFAHandler) HandleChallenge(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(r.Context())
	if !ok {
		writeServiceError(w, r, http.StatusUnauthorized, service.ErrUnauthenticated)
		return
	}

	c, err := h.MFA.StartVerification(r.Context(), sess)
	if err != nil {
		writeServiceError(w, r, statusFor(service.KindOf(err)), err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, gatesdk.MFAChallengeResponse{
		ChallengeID: c.ID,
		FactorID:    c.FactorID,
	})
}

// HandleVerify handles POST /v1/mfa/verify
//
//	@Summary		Answer an MFA challenge
//	@Description	Submits a TOTP code for a challenge. Success elevates the session to aal2.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		gatesdk.MFAVerifyRequest	true	"Challenge, factor and code"
//	@Success		200		{object}	gatesdk.PhaseResponse		"Phase after elevation"
//	@Failure		400		{object}	gatesdk.ErrorResponse		"Missing fields or wrong code"
//	@Failure		401		{object}	gatesdk.ErrorResponse		"Missing or invalid session"
//	@Failure		409		{object}	gatesdk.ErrorResponse		"Challenge unknown, expired or exhausted"
//	@Failure		502		{object}	gatesdk.ErrorResponse		"Identity provider error"
//	@Router			/v1/mfa/verify [post].
func (h *MFAHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(r.Context())
	if !ok {
		writeServiceError(w, r, http.StatusUnauthorized, service.ErrUnauthenticated)
		return
	}

	var req gatesdk.MFAVerifyRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, r, err)
		return
	}

	if err := h.MFA.CompleteVerification(r.Context(), sess, req.ChallengeID, req.FactorID, req.Code); err != nil {
		writeServiceError(w, r, statusFor(service.KindOf(err)), err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, h.Phase.evaluate(r.Context(), ""))
}
