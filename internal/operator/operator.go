package operator

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/mkrassel/territory-app/internal/app"
	"golang.org/x/crypto/bcrypt"
)

type Account struct {
	ID       int
	Username string
}

type OperatorEntity struct {
	ID           int
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

func (o *OperatorEntity) ValidateUsername() error {
	if o.Username == "" {
		return &app.ServerResponseError{
			Err:        errors.New("Empty username"),
			Msg:        "Must provide a username",
			StatusCode: http.StatusUnprocessableEntity,
		}
	}

	return nil
}

func (o *OperatorEntity) SetPasswordHash(password string) error {
	if password == "" {
		return &app.ServerResponseError{
			Err:        errors.New("Empty password"),
			Msg:        "Must provide a password",
			StatusCode: http.StatusUnprocessableEntity,
		}
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	if err != nil {
		return err
	}

	o.PasswordHash = string(passwordHash)

	return nil
}

func (o *OperatorEntity) CheckPasswordHash(p string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(o.PasswordHash), []byte(p))
	return err == nil
}

func (o *OperatorEntity) Account() Account {
	return Account{
		ID:       o.ID,
		Username: o.Username,
	}
}

func (o *OperatorEntity) Scan(scanner func(...any) error) error {
	return scanner(
		&o.ID,
		&o.Username,
		&o.PasswordHash,
		&o.CreatedAt,
	)
}

func (o *OperatorEntity) Select(ctx context.Context, db *sql.DB) error {
	query := `SELECT id, username, password_hash, created_at
			  FROM operators WHERE id = $1`

	return o.Scan(db.QueryRowContext(ctx, query, o.ID).Scan)
}

func (o *OperatorEntity) SelectWhereUsername(ctx context.Context, db *sql.DB) error {
	query := `SELECT id, username, password_hash, created_at
			  FROM operators WHERE username = $1`

	return o.Scan(db.QueryRowContext(ctx, query, o.Username).Scan)
}

func (o *OperatorEntity) Insert(ctx context.Context, db *sql.DB) error {
	query := `INSERT INTO operators(username, password_hash, created_at)
			  VALUES($1, $2, $3)`

	_, err := db.ExecContext(ctx, query,
		o.Username,
		o.PasswordHash,
		o.CreatedAt)

	return err
}
