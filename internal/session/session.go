// Package session owns the authentication state of one CLI context: the
// principal, the pending MFA challenge and the transitions between them.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gatehouse/gatectl/internal/models"
	"github.com/gatehouse/gatectl/internal/tokenstore"
	"github.com/gatehouse/gatectl/internal/utils"
)

// State is a node of the session state machine
type State string

const (
	StateAnonymous      State = "anonymous"
	StateAuthenticating State = "authenticating"
	StateMFAPending     State = "mfa_pending"
	StateAuthenticated  State = "authenticated"
)

var (
	// ErrSuperseded is returned when the session changed (logout, another
	// login, 401 eviction) while a request was in flight. The late result is
	// dropped.
	ErrSuperseded = errors.New("session changed while the request was in flight")
	// ErrNoChallenge is returned by VerifyMFA outside of mfa_pending
	ErrNoChallenge = errors.New("no MFA challenge pending")
	// ErrChallengeMismatch is returned when the temp token is not the pending one
	ErrChallengeMismatch = errors.New("temp token does not match the pending MFA challenge")
	// ErrBusy is returned when a login or MFA exchange is already running
	ErrBusy = errors.New("authentication already in progress")
)

// Authenticator is the part of the API client the session drives
type Authenticator interface {
	Login(ctx context.Context, email, password string) (models.LoginResult, error)
	MFALogin(ctx context.Context, tempToken, code string) (string, error)
	CurrentUser(ctx context.Context, token string) (*models.Principal, error)
}

// Logger receives state transitions
type Logger interface {
	Debugf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}

// Snapshot is a consistent copy of the session state
type Snapshot struct {
	State     State
	Principal *models.Principal
	Resolved  bool
}

// Authenticated reports whether a principal is loaded
func (s Snapshot) Authenticated() bool {
	return s.State == StateAuthenticated && s.Principal != nil
}

// LoginOutcome is what Login and VerifyMFA report back to the caller
type LoginOutcome struct {
	State     State
	Principal *models.Principal
	TempToken string
}

// Option configures a Session
type Option func(*Session)

// WithClock injects the time source used for token expiry checks
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the transition logger
func WithLogger(logger Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Session is the auth state machine. Network calls run without holding the
// lock; their results are applied only if the generation is unchanged.
type Session struct {
	auth   Authenticator
	tokens tokenstore.Store
	now    func() time.Time
	logger Logger

	mu         sync.Mutex
	state      State
	principal  *models.Principal
	tempToken  string
	resolved   bool
	busy       bool
	generation uint64
}

// New creates an unresolved, anonymous session
func New(auth Authenticator, tokens tokenstore.Store, opts ...Option) *Session {
	s := &Session{
		auth:   auth,
		tokens: tokens,
		now:    time.Now,
		logger: nopLogger{},
		state:  StateAnonymous,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns a copy of the current state
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		State:     s.state,
		Principal: copyPrincipal(s.principal),
		Resolved:  s.resolved,
	}
}

// State returns the current state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Principal returns a copy of the loaded principal, or nil
func (s *Session) Principal() *models.Principal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyPrincipal(s.principal)
}

// Restore resolves the session from a persisted token. Expired JWTs are
// dropped without a network call.
func (s *Session) Restore(ctx context.Context) error {
	s.mu.Lock()
	if s.resolved {
		s.mu.Unlock()
		return nil
	}
	gen := s.generation
	s.mu.Unlock()

	token := s.tokens.Get()
	if token == "" {
		s.settle(gen)
		return nil
	}
	if tokenstore.Expired(token, s.now()) {
		s.logger.Debugf("session: stored token expired")
		if err := s.tokens.Clear(); err != nil {
			return fmt.Errorf("failed to clear expired token: %w", err)
		}
		s.settle(gen)
		return nil
	}

	principal, err := s.auth.CurrentUser(ctx, token)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return ErrSuperseded
	}
	s.resolved = true
	if err != nil {
		s.transition(StateAnonymous)
		s.principal = nil
		// keep the token when the backend was merely unreachable
		if !utils.IsKind(err, utils.KindTransport) && !utils.IsKind(err, utils.KindTimeout) {
			if clearErr := s.tokens.Clear(); clearErr != nil {
				s.logger.Debugf("session: failed to clear token: %v", clearErr)
			}
		}
		return err
	}
	s.principal = principal
	s.transition(StateAuthenticated)
	return nil
}

// settle marks an anonymous session resolved unless something else happened
func (s *Session) settle(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation == gen {
		s.resolved = true
		s.transition(StateAnonymous)
	}
}

// Login drives anonymous → authenticating → authenticated | mfa_pending |
// anonymous. Any previous session in this context is discarded first.
func (s *Session) Login(ctx context.Context, email, password string) (LoginOutcome, error) {
	if err := utils.ValidateEmail(email); err != nil {
		return s.outcome(), err
	}
	if err := utils.ValidatePassword(password); err != nil {
		return s.outcome(), err
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return s.outcome(), ErrBusy
	}
	s.generation++
	gen := s.generation
	s.busy = true
	s.resolved = true
	s.principal = nil
	s.tempToken = ""
	s.transition(StateAuthenticating)
	err := s.tokens.Clear()
	s.mu.Unlock()
	defer s.release(gen)

	if err != nil {
		return s.fail(gen, StateAnonymous, fmt.Errorf("failed to clear previous token: %w", err))
	}
	result, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return s.fail(gen, StateAnonymous, err)
	}

	switch r := result.(type) {
	case models.MFARequired:
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.generation != gen {
			return s.outcomeLocked(), ErrSuperseded
		}
		s.tempToken = r.TempToken
		s.transition(StateMFAPending)
		return s.outcomeLocked(), nil
	case models.DirectToken:
		return s.complete(ctx, gen, r.AccessToken, StateAnonymous)
	default:
		return s.fail(gen, StateAnonymous, fmt.Errorf("unexpected login result %T", result))
	}
}

// VerifyMFA exchanges the pending temp token and a TOTP code for a session
// token. A rejected code leaves the session in mfa_pending so the user can
// retry.
func (s *Session) VerifyMFA(ctx context.Context, tempToken, code string) (LoginOutcome, error) {
	if err := utils.ValidateOTPCode(code); err != nil {
		return s.outcome(), err
	}

	s.mu.Lock()
	switch {
	case s.state != StateMFAPending:
		s.mu.Unlock()
		return s.outcome(), ErrNoChallenge
	case tempToken != s.tempToken:
		s.mu.Unlock()
		return s.outcome(), ErrChallengeMismatch
	case s.busy:
		s.mu.Unlock()
		return s.outcome(), ErrBusy
	}
	gen := s.generation
	s.busy = true
	s.mu.Unlock()
	defer s.release(gen)

	token, err := s.auth.MFALogin(ctx, tempToken, code)
	if err != nil {
		return s.fail(gen, StateMFAPending, err)
	}
	// the temp token is spent once exchanged
	return s.complete(ctx, gen, token, StateAnonymous)
}

// Logout drops the principal, any MFA challenge and the stored token. It is
// local only: the backend has no revocation endpoint.
func (s *Session) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.busy = false
	s.resolved = true
	s.principal = nil
	s.tempToken = ""
	s.transition(StateAnonymous)
	return s.tokens.Clear()
}

// Expire reacts to a 401 eviction by the API client. The client has already
// cleared the token.
func (s *Session) Expire() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateAuthenticated {
		return
	}
	s.generation++
	s.principal = nil
	s.tempToken = ""
	s.transition(StateAnonymous)
}

// complete fetches the principal for token and, if the session is still the
// same, persists the token and enters authenticated
func (s *Session) complete(ctx context.Context, gen uint64, token string, rollback State) (LoginOutcome, error) {
	principal, err := s.auth.CurrentUser(ctx, token)
	if err != nil {
		return s.fail(gen, rollback, err)
	}
	if !principal.Role.IsValid() {
		return s.fail(gen, rollback, fmt.Errorf("unsupported role %q", principal.Role))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return s.outcomeLocked(), ErrSuperseded
	}
	if err := s.tokens.Set(token); err != nil {
		s.rollbackLocked(rollback)
		return s.outcomeLocked(), fmt.Errorf("failed to store token: %w", err)
	}
	s.principal = principal
	s.tempToken = ""
	s.transition(StateAuthenticated)
	return s.outcomeLocked(), nil
}

// fail rolls back to a stable state and surfaces err unchanged
func (s *Session) fail(gen uint64, rollback State, err error) (LoginOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return s.outcomeLocked(), ErrSuperseded
	}
	s.rollbackLocked(rollback)
	return s.outcomeLocked(), err
}

func (s *Session) rollbackLocked(to State) {
	if to != StateMFAPending {
		s.tempToken = ""
	}
	s.principal = nil
	s.transition(to)
}

func (s *Session) release(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation == gen {
		s.busy = false
	}
}

func (s *Session) transition(to State) {
	if s.state != to {
		s.logger.Debugf("session: %s -> %s", s.state, to)
	}
	s.state = to
}

func (s *Session) outcome() LoginOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcomeLocked()
}

func (s *Session) outcomeLocked() LoginOutcome {
	return LoginOutcome{
		State:     s.state,
		Principal: copyPrincipal(s.principal),
		TempToken: s.tempToken,
	}
}

func copyPrincipal(p *models.Principal) *models.Principal {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}
