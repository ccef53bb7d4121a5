package http

import (
	"net/http"

	"github.com/aussiebroadwan/bananabrain/internal/gate/service"
	"github.com/aussiebroadwan/bananabrain/pkg/gatesdk"
	"github.com/aussiebroadwan/bananabrain/pkg/httpx"
)

// EmailCodeHandler serves the legacy emailed one-time code pair. Verifying a
// code does not change the session's assurance level.
type EmailCodeHandler struct {
	Codes *service.EmailCodeService
}

// HandleSend handles POST /v1/send-email-code
//
//	@Summary		Email a one-time code
//	@Description	Sends a six-digit code to the signed-in user's address. Codes expire after five minutes.
//	@Tags			Email codes
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	gatesdk.SuccessResponse
//	@Failure		401	{object}	gatesdk.ErrorResponse	"Missing or invalid session"
//	@Failure		500	{object}	gatesdk.ErrorResponse	"Code could not be sent"
//	@Router			/v1/send-email-code [post].
func (h *EmailCodeHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(r.Context())
	if !ok {
		writeServiceError(w, r, http.StatusUnauthorized, service.ErrUnauthenticated)
		return
	}

	if err := h.Codes.SendCode(r.Context(), sess); err != nil {
		writeServiceError(w, r, http.StatusInternalServerError, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, gatesdk.SuccessResponse{Success: true})
}

// HandleVerify handles POST /v1/verify-email-code
//
//	@Summary		Verify an emailed code
//	@Description	Checks the code against the newest unverified, unexpired code for the user.
//	@Tags			Email codes
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		gatesdk.EmailCodeRequest	true	"The six-digit code"
//	@Success		200		{object}	gatesdk.SuccessResponse
//	@Failure		401		{object}	gatesdk.ErrorResponse	"Invalid or expired code"
//	@Router			/v1/verify-email-code [post].
func (h *EmailCodeHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(r.Context())
	if !ok {
		writeServiceError(w, r, http.StatusUnauthorized, service.ErrUnauthenticated)
		return
	}

	var req gatesdk.EmailCodeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, r, err)
		return
	}

	if err := h.Codes.VerifyCode(r.Context(), sess, req.Code); err != nil {
		status := http.StatusUnauthorized
		if service.KindOf(err) == service.KindInternal {
			status = http.StatusInternalServerError
		}
		writeServiceError(w, r, status, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, gatesdk.SuccessResponse{Success: true})
}
