package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/career-compass/internal/domain/account"
)

type postgresAccountRepo struct {
	db *pgxpool.Pool
}

func NewPostgresAccountRepo(db *pgxpool.Pool) account.Repository {
	return &postgresAccountRepo{db: db}
}

func scanAccount(row pgx.Row) (*account.Account, error) {
	a := &account.Account{}
	if err := row.Scan(&a.ID, &a.Email, &a.Name, &a.PasswordHash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrAccountNotFound
		}
		return nil, fmt.Errorf("error when query account: %w", err)
	}
	return a, nil
}

func (r *postgresAccountRepo) List(ctx context.Context) ([]*account.Account, error) {
	query, args, _ := psql.Select("id", "email", "name", "password_hash").
		From("accounts").
		OrderBy("seq ASC").
		ToSql()

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]*account.Account, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

func (r *postgresAccountRepo) FindByEmail(ctx context.Context, email string) (*account.Account, error) {
	query := `
		SELECT id, email, name, password_hash
		FROM accounts
		WHERE email = $1
	`
	return scanAccount(r.db.QueryRow(ctx, query, account.NormalizeEmail(email)))
}

func (r *postgresAccountRepo) FindByID(ctx context.Context, id string) (*account.Account, error) {
	query := `
		SELECT id, email, name, password_hash
		FROM accounts
		WHERE id = $1
		ORDER BY seq ASC
		LIMIT 1
	`
	return scanAccount(r.db.QueryRow(ctx, query, id))
}

func (r *postgresAccountRepo) Insert(ctx context.Context, a *account.Account) error {
	query, args, err := psql.Insert("accounts").
		Columns("id", "email", "name", "password_hash").
		Values(a.ID, account.NormalizeEmail(a.Email), a.Name, a.PasswordHash).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build account insert: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return account.ErrDuplicateAccount
		}
		return fmt.Errorf("failed to save account: %w", err)
	}
	return nil
}
