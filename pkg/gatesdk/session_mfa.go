package gatesdk

import (
	"context"
	"net/http"
)

// EnrollTOTP starts a TOTP enrollment, discarding any unfinished one.
func (s *Session) EnrollTOTP(ctx context.Context) (*EnrollResponse, error) {
	var out EnrollResponse
	if err := s.client.call(ctx, http.MethodPost, "/v1/mfa/enroll", s.token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CompleteEnrollment verifies the first code of a pending factor and returns
// the new phase.
func (s *Session) CompleteEnrollment(ctx context.Context, factorID, code string) (string, error) {
	var out PhaseResponse
	if err := s.client.call(ctx, http.MethodPost, "/v1/mfa/enroll/verify", s.token, EnrollVerifyRequest{FactorID: factorID, Code: code}, &out); err != nil {
		return "", err
	}
	return out.Phase, nil
}

// ChallengeMFA opens a challenge on the verified factor.
func (s *Session) ChallengeMFA(ctx context.Context) (*MFAChallengeResponse, error) {
	var out MFAChallengeResponse
	if err := s.client.call(ctx, http.MethodPost, "/v1/mfa/challenge", s.token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyMFA answers a challenge and returns the new phase.
func (s *Session) VerifyMFA(ctx context.Context, challengeID, factorID, code string) (string, error) {
	var out PhaseResponse
	req := MFAVerifyRequest{ChallengeID: challengeID, FactorID: factorID, Code: code}
	if err := s.client.call(ctx, http.MethodPost, "/v1/mfa/verify", s.token, req, &out); err != nil {
		return "", err
	}
	return out.Phase, nil
}
