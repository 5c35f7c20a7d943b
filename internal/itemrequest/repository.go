package itemrequest

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, r *Request) error
	GetByID(ctx context.Context, id int64) (*Request, error)
	// ListByRequestor returns the user's requests, newest first.
	ListByRequestor(ctx context.Context, requestorID int64) ([]*Request, error)
	// ListOthers returns requests not made by userID, newest first.
	ListOthers(ctx context.Context, userID int64, from, size int) ([]*Request, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func selectRequests() squirrel.SelectBuilder {
	return psql.Select("id", "description", "requestor_id", "created_at").
		From("public.requests")
}

func (r *pgxRepository) Create(ctx context.Context, req *Request) error {
	query, args, err := psql.Insert("public.requests").
		Columns("description", "requestor_id").
		Values(req.Description, req.RequestorID).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create request query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&req.ID, &req.CreatedAt); err != nil {
		return fmt.Errorf("create request failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id int64) (*Request, error) {
	query, args, err := selectRequests().
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get request query failed: %w", err)
	}

	var req Request
	err = r.pool.QueryRow(ctx, query, args...).
		Scan(&req.ID, &req.Description, &req.RequestorID, &req.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get request failed: %w", err)
	}
	return &req, nil
}

func (r *pgxRepository) ListByRequestor(ctx context.Context, requestorID int64) ([]*Request, error) {
	return r.list(ctx, selectRequests().
		Where(squirrel.Eq{"requestor_id": requestorID}).
		OrderBy("created_at DESC", "id DESC"))
}

func (r *pgxRepository) ListOthers(ctx context.Context, userID int64, from, size int) ([]*Request, error) {
	return r.list(ctx, selectRequests().
		Where(squirrel.NotEq{"requestor_id": userID}).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(size)).
		Offset(uint64(from)))
}

func (r *pgxRepository) list(ctx context.Context, q squirrel.SelectBuilder) ([]*Request, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list requests query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list requests failed: %w", err)
	}
	defer rows.Close()

	var result []*Request
	for rows.Next() {
		var req Request
		if err := rows.Scan(&req.ID, &req.Description, &req.RequestorID, &req.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan request failed: %w", err)
		}
		result = append(result, &req)
	}
	return result, rows.Err()
}
