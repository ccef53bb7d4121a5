package gate_test

import (
	"testing"

	"github.com/aussiebroadwan/bananabrain/pkg/gatesdk"
	"github.com/stretchr/testify/require"
)

func TestAnonymousPhase(t *testing.T) {
	baseURL, _ := setupGateContainer(t)
	client := gatesdk.NewSDKClient(baseURL)

	p, err := client.Phase(t.Context(), "/play")
	require.NoError(t, err)
	require.Equal(t, "needs-auth", p.Phase)

	p, err = client.Phase(t.Context(), "/update-password")
	require.NoError(t, err)
	require.Equal(t, "needs-password-reset", p.Phase)
}

// TestEnrollmentAndStepUp walks a player from sign-up to aal2 twice: once
// through enrollment and once through a challenge on a new session.
func TestEnrollmentAndStepUp(t *testing.T) {
	baseURL, _ := setupGateContainer(t)
	client := gatesdk.NewSDKClient(baseURL)

	first, secret := enrollTOTP(t, client, "player@example.com")
	assertPhase(t, first, "authorized")

	second, err := client.SignIn(t.Context(), "player@example.com", testPassword)
	require.NoError(t, err)
	assertPhase(t, second, "needs-verification")

	ch, err := second.ChallengeMFA(t.Context())
	require.NoError(t, err)
	require.NotEmpty(t, ch.ChallengeID)

	phase, err := second.VerifyMFA(t.Context(), ch.ChallengeID, ch.FactorID, totpCode(t, secret))
	require.NoError(t, err)
	require.Equal(t, "authorized", phase)
	assertPhase(t, second, "authorized")

	require.NoError(t, second.SignOut(t.Context()))
	_, err = second.Phase(t.Context(), "")
	require.NoError(t, err, "phase never fails; an unknown session is anonymous")
	assertPhase(t, first, "authorized")
}

func TestChallengeWithoutFactor(t *testing.T) {
	baseURL, _ := setupGateContainer(t)
	client := gatesdk.NewSDKClient(baseURL)

	sess, err := client.SignUp(t.Context(), "fresh@example.com", testPassword)
	require.NoError(t, err)

	_, err = sess.ChallengeMFA(t.Context())
	require.Error(t, err)
	require.Equal(t, gatesdk.KindNoVerifiedFactor, gatesdk.KindOf(err))
}

func TestSignInErrors(t *testing.T) {
	baseURL, _ := setupGateContainer(t)
	client := gatesdk.NewSDKClient(baseURL)

	_, err := client.SignUp(t.Context(), "dup@example.com", testPassword)
	require.NoError(t, err)

	_, err = client.SignUp(t.Context(), "dup@example.com", testPassword)
	require.Equal(t, gatesdk.KindEmailTaken, gatesdk.KindOf(err))

	_, err = client.SignIn(t.Context(), "dup@example.com", "wrong-password")
	require.Equal(t, gatesdk.KindInvalidCredentials, gatesdk.KindOf(err))

	_, err = client.NewSession("not-a-session").EnrollTOTP(t.Context())
	require.True(t, gatesdk.IsUnauthorized(err), "got %v", err)
}

func TestPasswordUpdateSignsOut(t *testing.T) {
	baseURL, _ := setupGateContainer(t)
	client := gatesdk.NewSDKClient(baseURL)

	sess, err := client.SignUp(t.Context(), "reset@example.com", testPassword)
	require.NoError(t, err)

	_, err = sess.UpdatePassword(t.Context(), "new-banana", "other-banana")
	require.Equal(t, gatesdk.KindPasswordMismatch, gatesdk.KindOf(err))

	phase, err := sess.UpdatePassword(t.Context(), "new-banana", "new-banana")
	require.NoError(t, err)
	require.Equal(t, "needs-auth", phase)

	_, err = client.SignIn(t.Context(), "reset@example.com", "new-banana")
	require.NoError(t, err)
}
