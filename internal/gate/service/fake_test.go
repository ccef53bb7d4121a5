package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/aussiebroadwan/bananabrain/internal/gate/domain"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// fakeProvider is an in-memory IdentityProvider. Fields ending in Err make
// the matching call fail.
type fakeProvider struct {
	mu      sync.Mutex
	level   domain.AssuranceLevel
	factors []domain.Factor
	nextID  int

	levelErr    error
	listErr     error
	unenrollErr error
	enrollErr   error
	verifyErr   error
	passwordErr error

	unenrolled []string
	enrolled   []string
	passwords  []string
	calls      []string
}

func (p *fakeProvider) record(call string) {
	p.calls = append(p.calls, call)
}

func (p *fakeProvider) AssuranceLevel(_ context.Context, _ domain.Session) (domain.AssuranceLevel, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("AssuranceLevel")
	if p.levelErr != nil {
		return "", p.levelErr
	}
	if p.level == "" {
		return domain.LevelBase, nil
	}
	return p.level, nil
}

func (p *fakeProvider) ListFactors(_ context.Context, _ domain.Session) ([]domain.Factor, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("ListFactors")
	if p.listErr != nil {
		return nil, p.listErr
	}
	return slices.Clone(p.factors), nil
}

func (p *fakeProvider) EnrollTOTP(_ context.Context, sess domain.Session, friendlyName string) (domain.TOTPEnrollment, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("EnrollTOTP")
	if p.enrollErr != nil {
		return domain.TOTPEnrollment{}, p.enrollErr
	}
	p.nextID++
	id := fmt.Sprintf("new-%d", p.nextID)
	p.factors = append(p.factors, domain.Factor{
		ID:           id,
		UserID:       sess.UserID,
		Type:         domain.FactorTOTP,
		Status:       domain.FactorUnverified,
		FriendlyName: friendlyName,
	})
	p.enrolled = append(p.enrolled, friendlyName)
	return domain.TOTPEnrollment{FactorID: id, QRCode: "data:image/png;base64,AAAA", Secret: "SECRET", URI: "otpauth://totp/x"}, nil
}

func (p *fakeProvider) Unenroll(_ context.Context, _ domain.Session, factorID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("Unenroll")
	if p.unenrollErr != nil {
		return p.unenrollErr
	}
	i := slices.IndexFunc(p.factors, func(f domain.Factor) bool { return f.ID == factorID })
	if i < 0 {
		return domain.ErrFactorNotFound
	}
	p.factors = slices.Delete(p.factors, i, i+1)
	p.unenrolled = append(p.unenrolled, factorID)
	return nil
}

func (p *fakeProvider) Challenge(_ context.Context, _ domain.Session, factorID string) (domain.MFAChallenge, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("Challenge")
	return domain.MFAChallenge{ID: "challenge-" + factorID, FactorID: factorID}, nil
}

func (p *fakeProvider) Verify(_ context.Context, _ domain.Session, factorID, challengeID, code string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("Verify")
	if p.verifyErr != nil {
		return p.verifyErr
	}
	if challengeID != "challenge-"+factorID {
		return domain.ErrChallengeNotFound
	}
	if code != "123456" {
		return domain.ErrInvalidCode
	}
	p.level = domain.LevelElevated
	return nil
}

func (p *fakeProvider) ChallengeAndVerify(_ context.Context, _ domain.Session, factorID, code string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("ChallengeAndVerify")
	if p.verifyErr != nil {
		return p.verifyErr
	}
	i := slices.IndexFunc(p.factors, func(f domain.Factor) bool { return f.ID == factorID })
	if i < 0 || p.factors[i].Status != domain.FactorUnverified {
		return domain.ErrFactorNotFound
	}
	if code != "123456" {
		return domain.ErrInvalidCode
	}
	p.factors[i].Status = domain.FactorVerified
	p.level = domain.LevelElevated
	return nil
}

func (p *fakeProvider) UpdatePassword(_ context.Context, _ domain.Session, password string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("UpdatePassword")
	if p.passwordErr != nil {
		return p.passwordErr
	}
	p.passwords = append(p.passwords, password)
	return nil
}

func (p *fakeProvider) callCount(name string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, c := range p.calls {
		if c == name {
			n++
		}
	}
	return n
}

var testSession = domain.Session{
	ID:     "sess-1",
	UserID: "user-1",
	Email:  "player@example.com",
	Kind:   domain.SessionNormal,
	Level:  domain.LevelBase,
}
