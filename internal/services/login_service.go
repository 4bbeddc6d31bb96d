package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/vestibule-auth/vestibule/internal/auth"
	"github.com/vestibule-auth/vestibule/internal/models"
	"github.com/vestibule-auth/vestibule/internal/session"
	pkglogger "github.com/vestibule-auth/vestibule/pkg/logger"
)

// AccountRepository is the account store surface the login flow needs:
// the session.Store capability plus persistence of the login-history
// columns.
type AccountRepository interface {
	session.Store
	GetByID(ctx context.Context, id string) (*models.Account, error)
	SaveLoginMetadata(ctx context.Context, acct *models.Account) error
}

// LoginError carries the attempt's validation failures to the HTTP
// layer. It is an expected outcome, not a fault.
type LoginError struct {
	Errors session.ErrorList
}

func (e *LoginError) Error() string {
	return "login validation failed"
}

// LoginResult is what a successful login returns.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	Account      *models.Account
}

// LoginService runs authentication attempts and their bookkeeping.
type LoginService struct {
	repo        AccountRepository
	cfg         *session.Config
	bookkeeper  *session.Bookkeeper
	tm          *auth.TokenManager
	delay       *auth.TimingDelay
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
}

// NewLoginService creates a new LoginService. delay may be nil to
// disable timing padding (tests).
func NewLoginService(
	repo AccountRepository,
	cfg *session.Config,
	tm *auth.TokenManager,
	delay *auth.TimingDelay,
	logger *slog.Logger,
	auditLogger *pkglogger.AuditLogger,
) *LoginService {
	return &LoginService{
		repo:        repo,
		cfg:         cfg,
		bookkeeper:  session.NewBookkeeper(cfg.Columns, cfg.LastRequestAtThreshold),
		tm:          tm,
		delay:       delay,
		logger:      logger,
		auditLogger: auditLogger,
	}
}

// Login validates the submitted credentials and, on success, applies
// explicit-login bookkeeping and issues a token pair. credentials is a
// plain map; callers convert request parameters before handing them
// over. On validation failure it returns *LoginError; collaborator
// faults come back as ErrInternalServer.
func (s *LoginService) Login(ctx context.Context, credentials map[string]string, ip string) (*LoginResult, error) {
	start := time.Now()

	attempt := session.NewAttempt(s.cfg, s.repo)
	attempt.SetCredentials(credentials)

	valid, err := attempt.Validate(ctx)
	if err != nil {
		s.logger.Error("credential validation fault", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if !valid {
		s.recordFailure(ctx, attempt, ip)
		if s.delay != nil {
			s.delay.WaitFrom(start, false)
		}
		return nil, &LoginError{Errors: attempt.Errors()}
	}

	acct := attempt.Record()
	s.bookkeeper.RecordLogin(acct, time.Now(), ip)
	if err := s.repo.SaveLoginMetadata(ctx, acct); err != nil {
		s.logger.Error("failed to save login metadata",
			slog.String("account_id", acct.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	accessToken, err := s.tm.GenerateAccessToken(acct.ID, acct.Login)
	if err != nil {
		s.logger.Error("failed to generate access token",
			slog.String("account_id", acct.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	refreshToken, err := s.tm.GenerateRefreshToken(acct.ID, acct.Login)
	if err != nil {
		s.logger.Error("failed to generate refresh token",
			slog.String("account_id", acct.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("account logged in",
		slog.String("account_id", acct.ID),
		slog.Int("login_count", acct.LoginCount))
	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: "login_success",
		AccountID: acct.ID,
		IPAddress: ip,
		Success:   true,
	})
	if s.delay != nil {
		s.delay.WaitFrom(start, true)
	}

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Account:      acct,
	}, nil
}

// recordFailure applies failure bookkeeping when a candidate account
// was found but its password was rejected, and audit-logs the attempt.
// The credentials view is safe to log: the password is masked.
func (s *LoginService) recordFailure(ctx context.Context, attempt *session.Attempt, ip string) {
	reason := "invalid_credentials"
	event := pkglogger.AuditEvent{
		EventType: "login_failed",
		IPAddress: ip,
		Success:   false,
	}

	if acct := attempt.Record(); acct != nil && attempt.InvalidPassword() {
		s.bookkeeper.RecordFailure(acct)
		if err := s.repo.SaveLoginMetadata(ctx, acct); err != nil {
			// The login already failed; the counter update is best
			// effort.
			s.logger.Error("failed to save failure bookkeeping",
				slog.String("account_id", acct.ID), slog.Any("error", err))
		}
		event.AccountID = acct.ID
	} else if errs := attempt.Errors(); errs.Any() &&
		(errs[0].Key == session.KeyLoginBlank || errs[0].Key == session.KeyPasswordBlank) {
		reason = "blank_fields"
	}

	event.FailureReason = reason
	s.logger.Info("login failed", slog.Any("credentials", attempt.Credentials()))
	s.auditLogger.LogAuthAttempt(event)
}

// Refresh exchanges a valid refresh token for a fresh token pair. A
// refresh is a continued request, not an explicit login, so only the
// last_request_at bookkeeping runs; counters and login timestamps are
// untouched.
func (s *LoginService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil, models.ErrUnauthorized
	}

	claims, err := s.tm.ValidateToken(refreshToken)
	if err != nil {
		s.logger.Info("refresh token validation failed", slog.Any("error", err))
		return nil, models.ErrUnauthorized
	}
	if claims.Type != "refresh" {
		s.logger.Warn("refresh attempt with non-refresh token",
			slog.String("account_id", claims.AccountID))
		return nil, models.ErrUnauthorized
	}

	acct, err := s.repo.GetByID(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("account not found for token refresh",
				slog.String("account_id", claims.AccountID))
			return nil, models.ErrUnauthorized
		}
		s.logger.Error("failed to load account for token refresh",
			slog.String("account_id", claims.AccountID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if s.bookkeeper.TouchRequest(acct, time.Now(), nil) {
		if err := s.repo.SaveLoginMetadata(ctx, acct); err != nil {
			s.logger.Error("failed to save request bookkeeping",
				slog.String("account_id", acct.ID), slog.Any("error", err))
		}
	}

	accessToken, err := s.tm.GenerateAccessToken(acct.ID, acct.Login)
	if err != nil {
		s.logger.Error("failed to generate access token",
			slog.String("account_id", acct.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	newRefreshToken, err := s.tm.GenerateRefreshToken(acct.ID, acct.Login)
	if err != nil {
		s.logger.Error("failed to generate refresh token",
			slog.String("account_id", acct.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		Account:      acct,
	}, nil
}

// TouchAccount stamps last_request_at for a continued authenticated
// request, persisting only when the bookkeeper actually wrote. Used by
// the auth middleware on every request.
func (s *LoginService) TouchAccount(ctx context.Context, accountID string, allowed func() bool) error {
	acct, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		s.logger.Error("failed to load account for request bookkeeping",
			slog.String("account_id", accountID), slog.Any("error", err))
		return err
	}

	if !s.bookkeeper.TouchRequest(acct, time.Now(), allowed) {
		return nil
	}
	if err := s.repo.SaveLoginMetadata(ctx, acct); err != nil {
		s.logger.Error("failed to save request bookkeeping",
			slog.String("account_id", accountID), slog.Any("error", err))
		return err
	}
	return nil
}

// GetAccount loads an account by ID for authenticated reads.
func (s *LoginService) GetAccount(ctx context.Context, accountID string) (*models.Account, error) {
	return s.repo.GetByID(ctx, accountID)
}
