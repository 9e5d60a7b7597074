package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jooshwells/nanta-mobile/internal/core/domain"
	"github.com/jooshwells/nanta-mobile/internal/core/port"
	"github.com/jooshwells/nanta-mobile/internal/repository"
)

var accountColumns = []string{
	"id",
	"first_name",
	"last_name",
	"email",
	"password_hash",
	"is_verified",
	"verification_token",
	"profile_pic",
	"created_at",
	"updated_at",
}

// AccountRepository implements port.AccountRepository using PostgreSQL.
type AccountRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewAccountRepository wires a PostgreSQL-backed account repository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a repository instance operating within the supplied transaction.
func (r *AccountRepository) WithTx(tx pgx.Tx) *AccountRepository {
	if tx == nil {
		return r
	}
	return &AccountRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

// Create inserts a new account row. A duplicate email maps to
// repository.ErrDuplicate.
func (r *AccountRepository) Create(ctx context.Context, account domain.Account) error {
	var tokenValue any
	if account.VerificationToken != nil && *account.VerificationToken != "" {
		tokenValue = *account.VerificationToken
	}

	var picValue any
	if account.ProfilePic != nil && *account.ProfilePic != "" {
		picValue = *account.ProfilePic
	}

	query := r.builder.Insert("accounts").
		Columns(
			"id",
			"first_name",
			"last_name",
			"email",
			"password_hash",
			"is_verified",
			"verification_token",
			"profile_pic",
			"created_at",
			"updated_at",
		).
		Values(
			account.ID,
			account.FirstName,
			account.LastName,
			account.Email,
			account.PasswordHash,
			account.IsVerified,
			tokenValue,
			picValue,
			account.CreatedAt,
			account.UpdatedAt,
		)

	stmt, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build insert account sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("insert account: %w", err)
	}

	return nil
}

// GetByID retrieves an account by identifier.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	stmt, args, err := r.builder.
		Select(accountColumns...).
		From("accounts").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select account sql: %w", err)
	}

	return r.scanAccount(r.exec.QueryRow(ctx, stmt, args...))
}

// GetByEmail retrieves an account by its case-normalized email.
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	stmt, args, err := r.builder.
		Select(accountColumns...).
		From("accounts").
		Where(squirrel.Eq{"email": email}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select account by email sql: %w", err)
	}

	return r.scanAccount(r.exec.QueryRow(ctx, stmt, args...))
}

// Update applies the non-nil fields of the update and returns the updated row.
func (r *AccountRepository) Update(ctx context.Context, id string, update domain.AccountUpdate) (*domain.Account, error) {
	if update.Empty() {
		return r.GetByID(ctx, id)
	}

	query := r.builder.Update("accounts").
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + columnList())

	if update.FirstName != nil {
		query = query.Set("first_name", *update.FirstName)
	}
	if update.LastName != nil {
		query = query.Set("last_name", *update.LastName)
	}
	if update.Email != nil {
		query = query.Set("email", *update.Email)
	}
	if update.PasswordHash != nil {
		query = query.Set("password_hash", *update.PasswordHash)
	}
	if update.ProfilePic != nil {
		if *update.ProfilePic == "" {
			query = query.Set("profile_pic", nil)
		} else {
			query = query.Set("profile_pic", *update.ProfilePic)
		}
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update account sql: %w", err)
	}

	account, err := r.scanAccount(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, repository.ErrDuplicate
		}
		return nil, err
	}

	return account, nil
}

// SetVerificationToken overwrites the stored verification token. The last
// writer wins; any previously issued token becomes unconfirmable.
func (r *AccountRepository) SetVerificationToken(ctx context.Context, id string, token string) error {
	stmt, args, err := r.builder.Update("accounts").
		Set("verification_token", token).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update verification token sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update verification token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// MarkVerified flips is_verified and clears the stored verification token in
// one write, which is what makes a consumed token single-use.
func (r *AccountRepository) MarkVerified(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Update("accounts").
		Set("is_verified", true).
		Set("verification_token", nil).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build mark verified sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *AccountRepository) scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		account           domain.Account
		verificationToken sql.NullString
		profilePic        sql.NullString
	)

	if err := row.Scan(
		&account.ID,
		&account.FirstName,
		&account.LastName,
		&account.Email,
		&account.PasswordHash,
		&account.IsVerified,
		&verificationToken,
		&profilePic,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}

	if verificationToken.Valid {
		val := verificationToken.String
		account.VerificationToken = &val
	}
	if profilePic.Valid {
		val := profilePic.String
		account.ProfilePic = &val
	}

	return &account, nil
}

func columnList() string {
	out := ""
	for i, col := range accountColumns {
		if i > 0 {
			out += ", "
		}
		out += col
	}
	return out
}

var _ port.AccountRepository = (*AccountRepository)(nil)
