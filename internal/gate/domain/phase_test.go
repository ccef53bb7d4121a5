package domain_test

import (
	"fmt"
	"testing"

	"github.com/aussiebroadwan/bananabrain/internal/gate/domain"
	"github.com/stretchr/testify/require"
)

func TestResolvePhase_FullTable(t *testing.T) {
	const (
		base     = domain.LevelBase
		elevated = domain.LevelElevated
	)

	tests := []struct {
		hasSession bool
		level      domain.AssuranceLevel
		verified   bool
		resetPath  bool
		want       domain.Phase
	}{
		{false, base, false, false, domain.PhaseNeedsAuth},
		{false, base, true, false, domain.PhaseNeedsAuth},
		{false, elevated, false, false, domain.PhaseNeedsAuth},
		{false, elevated, true, false, domain.PhaseNeedsAuth},
		{true, base, false, false, domain.PhaseNeedsEnrollment},
		{true, base, true, false, domain.PhaseNeedsVerification},
		{true, elevated, false, false, domain.PhaseAuthorized},
		{true, elevated, true, false, domain.PhaseAuthorized},

		{false, base, false, true, domain.PhaseNeedsPasswordReset},
		{false, base, true, true, domain.PhaseNeedsPasswordReset},
		{false, elevated, false, true, domain.PhaseNeedsPasswordReset},
		{false, elevated, true, true, domain.PhaseNeedsPasswordReset},
		{true, base, false, true, domain.PhaseNeedsPasswordReset},
		{true, base, true, true, domain.PhaseNeedsPasswordReset},
		{true, elevated, false, true, domain.PhaseNeedsPasswordReset},
		{true, elevated, true, true, domain.PhaseNeedsPasswordReset},
	}
	require.Len(t, tests, 16)

	for _, tt := range tests {
		name := fmt.Sprintf("session=%t/%s/verified=%t/reset=%t", tt.hasSession, tt.level, tt.verified, tt.resetPath)
		t.Run(name, func(t *testing.T) {
			got := domain.ResolvePhase(tt.hasSession, tt.level, tt.verified, tt.resetPath)
			require.Equal(t, tt.want, got)
			require.True(t, got.Valid())
		})
	}
}

func TestResolvePhase_Invariants(t *testing.T) {
	for _, hasSession := range []bool{false, true} {
		for _, level := range []domain.AssuranceLevel{domain.LevelBase, domain.LevelElevated} {
			for _, verified := range []bool{false, true} {
				p := domain.ResolvePhase(hasSession, level, verified, false)

				require.Equal(t, hasSession && level == domain.LevelElevated, p == domain.PhaseAuthorized)
				require.Equal(t, hasSession && level == domain.LevelBase && verified, p == domain.PhaseNeedsVerification)
				require.Equal(t, hasSession && level == domain.LevelBase && !verified, p == domain.PhaseNeedsEnrollment)
			}
		}
	}
}

func TestVerifiedTOTP(t *testing.T) {
	factors := []domain.Factor{
		{ID: "a", Type: domain.FactorTOTP, Status: domain.FactorUnverified},
		{ID: "b", Type: domain.FactorTOTP, Status: domain.FactorVerified},
	}

	f, ok := domain.VerifiedTOTP(factors)
	require.True(t, ok)
	require.Equal(t, "b", f.ID)

	_, ok = domain.VerifiedTOTP(factors[:1])
	require.False(t, ok)
}

func TestPhaseValid(t *testing.T) {
	require.True(t, domain.PhaseAuthorized.Valid())
	require.False(t, domain.Phase("admin").Valid())
}
