package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	OverlapFinder

	// Create inserts a booking and assigns its ID and CreatedAt.
	// A storage-level overlap is reported as ErrTimeConflict.
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id int64) (*Booking, error)

	// UpdateStatus moves a booking from one status to another. It returns false
	// when the booking was no longer in the from status.
	UpdateStatus(ctx context.Context, id int64, from, to Status) (bool, error)

	ListByBooker(ctx context.Context, bookerID int64) ([]*Booking, error)
	ListByItemOwner(ctx context.Context, ownerID int64) ([]*Booking, error)
	ListByItems(ctx context.Context, itemIDs []int64, status Status) ([]*Booking, error)

	// HasFinished reports whether the booker has an APPROVED booking of the item
	// that ended before the given instant.
	HasFinished(ctx context.Context, bookerID, itemID int64, before time.Time) (bool, error)

	// WithItemLock runs fn while holding an exclusive per-item lock. Repository
	// calls made through the repo passed to fn share the lock's transaction.
	WithItemLock(ctx context.Context, itemID int64, fn func(ctx context.Context, repo Repository) error) error
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type pgxRepository struct {
	pool *pgxpool.Pool
	q    querier
	inTx bool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool, q: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func selectBookings() squirrel.SelectBuilder {
	return psql.Select(
		"b.id", "b.start_time", "b.end_time", "b.status",
		"i.id", "i.name", "i.owner_id",
		"u.id", "u.name",
		"b.created_at",
	).
		From("public.bookings b").
		Join("public.items i ON b.item_id = i.id").
		Join("public.users u ON b.booker_id = u.id")
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	if err := row.Scan(
		&b.ID, &b.Start, &b.End, &b.Status,
		&b.Item.ID, &b.Item.Name, &b.Item.OwnerID,
		&b.Booker.ID, &b.Booker.Name,
		&b.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	query, args, err := psql.Insert("public.bookings").
		Columns("item_id", "booker_id", "start_time", "end_time", "status").
		Values(b.Item.ID, b.Booker.ID, b.Start, b.End, b.Status).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	if err := r.q.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt); err != nil {
		var e *pgconn.PgError
		if errors.As(err, &e) {
			switch e.Code {
			case pgerrcode.ExclusionViolation:
				return ErrTimeConflict
			case pgerrcode.CheckViolation:
				return ErrInvalidTimeRange
			}
		}
		return fmt.Errorf("create booking failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id int64) (*Booking, error) {
	query, args, err := selectBookings().
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	b, err := scanBooking(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, id int64, from, to Status) (bool, error) {
	query, args, err := psql.Update("public.bookings").
		Set("status", to).
		Where(squirrel.Eq{"id": id, "status": from}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build update booking status query failed: %w", err)
	}

	ct, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update booking status failed: %w", err)
	}
	return ct.RowsAffected() == 1, nil
}

func (r *pgxRepository) ListByBooker(ctx context.Context, bookerID int64) ([]*Booking, error) {
	return r.list(ctx, selectBookings().Where(squirrel.Eq{"b.booker_id": bookerID}))
}

func (r *pgxRepository) ListByItemOwner(ctx context.Context, ownerID int64) ([]*Booking, error) {
	return r.list(ctx, selectBookings().Where(squirrel.Eq{"i.owner_id": ownerID}))
}

func (r *pgxRepository) ListByItems(ctx context.Context, itemIDs []int64, status Status) ([]*Booking, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	return r.list(ctx, selectBookings().
		Where(squirrel.Eq{"b.item_id": itemIDs}).
		Where(squirrel.Eq{"b.status": status}))
}

func (r *pgxRepository) FindOverlapping(ctx context.Context, itemID int64, start, end time.Time) ([]*Booking, error) {
	// Half-open intervals: existing.start < end AND start < existing.end
	return r.list(ctx, selectBookings().
		Where(squirrel.Eq{"b.item_id": itemID}).
		Where(squirrel.NotEq{"b.status": StatusRejected}).
		Where(squirrel.Lt{"b.start_time": end}).
		Where(squirrel.Gt{"b.end_time": start}))
}

func (r *pgxRepository) HasFinished(ctx context.Context, bookerID, itemID int64, before time.Time) (bool, error) {
	subQuery := psql.Select("1").
		From("public.bookings").
		Where(squirrel.Eq{"booker_id": bookerID, "item_id": itemID, "status": StatusApproved}).
		Where(squirrel.Lt{"end_time": before})

	sql, args, err := subQuery.ToSql()
	if err != nil {
		return false, fmt.Errorf("build finished booking query failed: %w", err)
	}

	var exists bool
	if err := r.q.QueryRow(ctx, "SELECT EXISTS ("+sql+")", args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check finished booking failed: %w", err)
	}
	return exists, nil
}

func (r *pgxRepository) WithItemLock(ctx context.Context, itemID int64, fn func(ctx context.Context, repo Repository) error) error {
	if r.inTx {
		if _, err := r.q.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", itemID); err != nil {
			return fmt.Errorf("acquire item lock failed: %w", err)
		}
		return fn(ctx, r)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin booking transaction failed: %w", err)
	}
	defer tx.Rollback(ctx)

	// Released automatically on commit or rollback.
	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", itemID); err != nil {
		return fmt.Errorf("acquire item lock failed: %w", err)
	}

	if err := fn(ctx, &pgxRepository{pool: r.pool, q: tx, inTx: true}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.ExclusionViolation {
			return ErrTimeConflict
		}
		return fmt.Errorf("commit booking transaction failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) list(ctx context.Context, query squirrel.SelectBuilder) ([]*Booking, error) {
	sql, args, err := query.OrderBy("b.start_time DESC", "b.id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings failed: %w", err)
	}

	return bookings, nil
}
