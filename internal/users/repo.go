package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/fitask/fitask/internal/query"
	"github.com/fitask/fitask/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// GetIDByEmail resolves a user email to its id. Returns
// query.ErrUserNotFound when no user has that email.
func (r *Repo) GetIDByEmail(ctx context.Context, email string) (int, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "usersRepo.getIDByEmail")
	defer span.End()
	span.SetAttributes(attribute.String("user.email", email))

	var id int
	err := r.db.
		QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, email).
		Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, query.ErrUserNotFound
		}
		return 0, fmt.Errorf("get user by email: %w", err)
	}

	return id, nil
}
