// Package http exposes the gate over HTTP: anonymous puzzle rounds, account
// endpoints, the assurance phase and the MFA step-up flow.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/bananabrain/internal/gate/service"
	"github.com/aussiebroadwan/bananabrain/pkg/httpx"
	"github.com/aussiebroadwan/bananabrain/pkg/slogx"

	_ "github.com/aussiebroadwan/bananabrain/api/gate" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	db           Pinger

	// Limits are the rate limit profiles; zero means httpx.DefaultLimits.
	Limits httpx.Limits
	// ResetPath is the client route of the password-reset screen.
	ResetPath string
	// UpstreamTimeout bounds one phase evaluation.
	UpstreamTimeout time.Duration
	// Replay is probed by /readyz when single-use answer tokens are on.
	Replay Pinger
	// Events feeds the phase streams. Services that change a session must
	// publish to the same hub.
	Events *service.SessionEvents

	Accounts           Accounts
	Assurance          service.AssuranceSource
	AnswerService      *service.AnswerService
	MFAService         *service.MFAService
	PasswordService    *service.PasswordService
	EmailCodeService   *service.EmailCodeService // Optional: legacy channel, off by default
	LeaderboardService *service.LeaderboardService
}

func NewRouter(buildVersion string, db Pinger, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		db:           db,
		logger:       logger,
		Limits:       httpx.DefaultLimits,
		Events:       service.NewSessionEvents(),
	}

	// Logging runs outermost so preflights are logged too.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.CORS(httpx.PermissiveCORS),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerGame()
	r.registerAuth()
	r.registerSession()
	r.registerMFA()
	r.registerEmailCodes()
	r.registerLeaderboard()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			BananaBrain Gate API
//	@version		0.1.0
//	@description	Gates the banana puzzle game behind TOTP step-up MFA and hands out signed, stateless answer tokens.
//	@description
//	@description				Answer tokens are HS512 JWTs; the solution never leaves the server in clear text.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/bananabrain
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Opaque session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) authn() httpx.Middleware {
	return httpx.AuthnMiddleware(sessionResolver(r.Accounts))
}

func (r *Router) phaseHandler() *PhaseHandler {
	return &PhaseHandler{
		Source:    r.Assurance,
		ResetPath: r.ResetPath,
		Timeout:   r.UpstreamTimeout,
		Events:    r.Events,
	}
}

func (r *Router) registerGame() {
	h := &AnswerHandler{Answers: r.AnswerService}

	// Anonymous gameplay - lenient limit by IP; the token carries all trust
	r.Mux.Handle("POST /v1/issue-challenge",
		httpx.Chain(http.HandlerFunc(h.HandleIssue),
			httpx.RateLimitByIP(r.Limits.Lenient),
		),
	)
	r.Mux.Handle("POST /v1/verify-guess",
		httpx.Chain(http.HandlerFunc(h.HandleVerify),
			httpx.RateLimitByIP(r.Limits.Lenient),
		),
	)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{Accounts: r.Accounts, Passwords: r.PasswordService, Events: r.Events}

	// Credential endpoints - strict, keyed by IP and the submitted email
	r.Mux.Handle("POST /v1/auth/signup",
		httpx.Chain(http.HandlerFunc(h.HandleSignUp),
			httpx.RateLimitByIPAndJSONField(r.Limits.Strict, "email"),
		),
	)
	r.Mux.Handle("POST /v1/auth/signin",
		httpx.Chain(http.HandlerFunc(h.HandleSignIn),
			httpx.RateLimitByIPAndJSONField(r.Limits.Strict, "email"),
		),
	)
	r.Mux.Handle("POST /v1/auth/recover",
		httpx.Chain(http.HandlerFunc(h.HandleRecover),
			httpx.RateLimitByIPAndJSONField(r.Limits.Strict, "email"),
		),
	)

	r.Mux.Handle("POST /v1/auth/signout",
		httpx.Chain(http.HandlerFunc(h.HandleSignOut),
			r.authn(),
			httpx.RateLimitByUser(r.Limits.Moderate),
		),
	)
	r.Mux.Handle("POST /v1/auth/password",
		httpx.Chain(http.HandlerFunc(h.HandlePassword),
			r.authn(),
			httpx.RateLimitByUser(r.Limits.Strict),
		),
	)
}

func (r *Router) registerSession() {
	h := r.phaseHandler()

	// Works with or without a session; polled by the client on every route change
	r.Mux.Handle("GET /v1/session/phase",
		httpx.Chain(http.HandlerFunc(h.HandlePhase),
			httpx.OptionalAuthn(sessionResolver(r.Accounts)),
			httpx.RateLimitByIP(r.Limits.Lenient),
		),
	)

	// Long-lived; one per open client tab
	r.Mux.Handle("GET /v1/session/phase/stream",
		httpx.Chain(http.HandlerFunc(h.HandlePhaseStream),
			r.authn(),
			httpx.RateLimitByUser(r.Limits.Moderate),
		),
	)
}

func (r *Router) registerMFA() {
	h := &MFAHandler{MFA: r.MFAService, Phase: r.phaseHandler()}

	r.Mux.Handle("POST /v1/mfa/enroll",
		httpx.Chain(http.HandlerFunc(h.HandleEnroll),
			r.authn(),
			httpx.RateLimitByUser(r.Limits.Moderate),
		),
	)
	r.Mux.Handle("POST /v1/mfa/challenge",
		httpx.Chain(http.HandlerFunc(h.HandleChallenge),
			r.authn(),
			httpx.RateLimitByUser(r.Limits.Moderate),
		),
	)

	// Code submission - strict by user to stop brute force of TOTP codes
	r.Mux.Handle("POST /v1/mfa/enroll/verify",
		httpx.Chain(http.HandlerFunc(h.HandleEnrollVerify),
			r.authn(),
			httpx.RateLimitByUser(r.Limits.Strict),
		),
	)
	r.Mux.Handle("POST /v1/mfa/verify",
		httpx.Chain(http.HandlerFunc(h.HandleVerify),
			r.authn(),
			httpx.RateLimitByUser(r.Limits.Strict),
		),
	)
}

func (r *Router) registerEmailCodes() {
	if r.EmailCodeService == nil {
		return
	}
	h := &EmailCodeHandler{Codes: r.EmailCodeService}

	r.Mux.Handle("POST /v1/send-email-code",
		httpx.Chain(http.HandlerFunc(h.HandleSend),
			r.authn(),
			httpx.RateLimitByUser(r.Limits.Strict),
		),
	)
	r.Mux.Handle("POST /v1/verify-email-code",
		httpx.Chain(http.HandlerFunc(h.HandleVerify),
			r.authn(),
			httpx.RateLimitByUser(r.Limits.Strict),
		),
	)
}

func (r *Router) registerLeaderboard() {
	h := &LeaderboardHandler{Scores: r.LeaderboardService}
	authorized := r.phaseHandler().requireAuthorized()

	// Scores are only for fully verified players
	r.Mux.Handle("POST /v1/leaderboard",
		httpx.Chain(http.HandlerFunc(h.HandleSubmit),
			r.authn(),
			httpx.RateLimitByUser(r.Limits.Moderate),
			authorized,
		),
	)
	r.Mux.Handle("GET /v1/leaderboard",
		httpx.Chain(http.HandlerFunc(h.HandleTop),
			r.authn(),
			httpx.RateLimitByUser(r.Limits.Lenient),
			authorized,
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - monitoring systems may poll frequently
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.Limits.Public),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.db, r.Replay),
			httpx.RateLimitByIP(r.Limits.Public),
		),
	)
}
