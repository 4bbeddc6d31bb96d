package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vestibule-auth/vestibule/internal/database"
	"github.com/vestibule-auth/vestibule/internal/models"
	"github.com/vestibule-auth/vestibule/internal/session"
	pkgauth "github.com/vestibule-auth/vestibule/pkg/auth"
)

// AccountRepository is the pgx-backed account store. It implements
// session.Store for lookup and verification and persists the
// login-history columns after bookkeeping.
type AccountRepository struct {
	db *database.DB
}

func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountFields = `id, login, email, password_hash, login_count, failed_login_count,
		last_request_at, current_login_at, last_login_at, current_login_ip, last_login_ip,
		created_at, updated_at`

// rowScanner covers both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAccountRow(scanner rowScanner) (*models.Account, error) {
	var acct models.Account
	var passwordHash, currentIP, lastIP *string

	err := scanner.Scan(
		&acct.ID, &acct.Login, &acct.Email, &passwordHash,
		&acct.LoginCount, &acct.FailedLoginCount,
		&acct.LastRequestAt, &acct.CurrentLoginAt, &acct.LastLoginAt,
		&currentIP, &lastIP,
		&acct.CreatedAt, &acct.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	if passwordHash != nil {
		acct.PasswordHash = *passwordHash
	}
	if currentIP != nil {
		acct.CurrentLoginIP = *currentIP
	}
	if lastIP != nil {
		acct.LastLoginIP = *lastIP
	}

	return &acct, nil
}

// FindByLogin implements the named lookup operations the session layer
// is configured with. Unknown method names are a configuration fault
// and surface as an error rather than a miss.
func (r *AccountRepository) FindByLogin(ctx context.Context, method, login string) (*models.Account, error) {
	var query string
	switch method {
	case session.FindByLogin:
		query = `SELECT ` + accountFields + ` FROM accounts WHERE login = $1`
	case session.FindBySmartCaseLogin:
		query = `SELECT ` + accountFields + ` FROM accounts WHERE LOWER(login) = LOWER($1)`
	default:
		return nil, fmt.Errorf("unknown login lookup method %q", method)
	}

	return scanAccountRow(r.db.Pool.QueryRow(ctx, query, login))
}

// VerifyPassword checks the submitted password with the named verifier
// from pkg/auth. Accounts without a stored credential never match.
func (r *AccountRepository) VerifyPassword(method string, acct *models.Account, password string) (bool, error) {
	verify, ok := pkgauth.LookupVerifier(method)
	if !ok {
		return false, fmt.Errorf("unknown password verify method %q", method)
	}
	if acct.PasswordHash == "" {
		return false, nil
	}
	return verify(acct.PasswordHash, password)
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	query := `SELECT ` + accountFields + ` FROM accounts WHERE id = $1`
	return scanAccountRow(r.db.Pool.QueryRow(ctx, query, id))
}

func (r *AccountRepository) Create(ctx context.Context, acct *models.Account) (*models.Account, error) {
	acct.ID = uuid.New().String()

	now := time.Now()
	acct.CreatedAt = now
	acct.UpdatedAt = now

	var passwordHash *string
	if acct.PasswordHash != "" {
		passwordHash = &acct.PasswordHash
	}

	query := `
		INSERT INTO accounts (id, login, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + accountFields

	return scanAccountRow(r.db.Pool.QueryRow(ctx, query,
		acct.ID, acct.Login, acct.Email, passwordHash, acct.CreatedAt, acct.UpdatedAt,
	))
}

// SaveLoginMetadata persists the login-history columns after a
// bookkeeping pass. Counter updates are last-write-wins at this level;
// concurrent attempts against the same account rely on the database's
// row-level atomicity per statement, not on cross-field transactions.
func (r *AccountRepository) SaveLoginMetadata(ctx context.Context, acct *models.Account) error {
	var currentIP, lastIP *string
	if acct.CurrentLoginIP != "" {
		currentIP = &acct.CurrentLoginIP
	}
	if acct.LastLoginIP != "" {
		lastIP = &acct.LastLoginIP
	}

	query := `
		UPDATE accounts
		SET login_count = $1, failed_login_count = $2,
			last_request_at = $3, current_login_at = $4, last_login_at = $5,
			current_login_ip = $6, last_login_ip = $7, updated_at = $8
		WHERE id = $9`

	result, err := r.db.Pool.Exec(ctx, query,
		acct.LoginCount, acct.FailedLoginCount,
		acct.LastRequestAt, acct.CurrentLoginAt, acct.LastLoginAt,
		currentIP, lastIP, time.Now(), acct.ID,
	)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
