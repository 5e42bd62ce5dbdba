package repository

import (
	"context"
	"errors"
	"time"

	"CloudusAPI/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

type AuthRepository struct {
	DB *pgxpool.Pool
}

func NewAuthRepository(db *pgxpool.Pool) *AuthRepository {
	return &AuthRepository{DB: db}
}

// CreateUser inserts a new user and returns the created authid
func (r *AuthRepository) CreateUser(ctx context.Context, email, passwordhash, role string) (int64, error) {
	var id int64
	query := `INSERT INTO userauth (email, passwordhash, role, created_at) VALUES ($1, $2, $3, $4) RETURNING authid`
	if err := r.DB.QueryRow(ctx, query, email, passwordhash, role, time.Now()).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *AuthRepository) GetByEmail(ctx context.Context, email string) (*model.Auth, error) {
	var u model.Auth
	query := `SELECT authid, email, passwordhash, role, created_at, deleted_at
			FROM userauth
			WHERE email=$1`
	if err := r.DB.QueryRow(ctx, query, email).Scan(&u.AuthID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.DeletedAt); err != nil {
		return nil, errors.New("user not found")
	}
	return &u, nil
}

func (r *AuthRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM userauth WHERE email=$1)`
	if err := r.DB.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
