package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"assets-manager/internal/asset"

	sq "github.com/Masterminds/squirrel"
	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

const uniqueViolation = "23505"

var (
	psql    = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	columns = []string{"id", "name", "serial_number", "category", "status", "acquisition_date"}
)

// PostgresStore persists records in the assets table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// OpenPostgres opens dsn with driver ("pgx" or "postgres") and waits for the
// database to answer, retrying with exponential backoff for up to wait.
func OpenPostgres(ctx context.Context, driver, dsn string, wait time.Duration, log *zap.Logger) (*PostgresStore, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	eb := backoff.NewExponentialBackOff()
	eb.MaxElapsedTime = wait
	ping := func() error {
		pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return db.PingContext(pctx)
	}
	notify := func(err error, next time.Duration) {
		log.Warn("database not ready", zap.Error(err), zap.Duration("retry_in", next))
	}
	if err := backoff.RetryNotify(ping, backoff.WithContext(eb, ctx), notify); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return NewPostgresStore(db), nil
}

// DB exposes the underlying handle, e.g. for migrations.
func (s *PostgresStore) DB() *sql.DB {
	return s.db
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// likeEscaper makes the query match literally, as the memory store does.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func (s *PostgresStore) List(ctx context.Context, f Filter) ([]asset.Record, error) {
	q := psql.Select(columns...).From("assets").OrderBy("id ASC")
	if f.Status != "" {
		q = q.Where(sq.Eq{"status": string(f.Status)})
	}
	if term := strings.TrimSpace(f.Query); term != "" {
		like := "%" + likeEscaper.Replace(term) + "%"
		q = q.Where(sq.Or{sq.ILike{"name": like}, sq.ILike{"serial_number": like}})
	}

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	out := []asset.Record{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Get(ctx context.Context, id int64) (asset.Record, error) {
	sqlStr, args, err := psql.Select(columns...).From("assets").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return asset.Record{}, err
	}
	r, err := scanRecord(s.db.QueryRowContext(ctx, sqlStr, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return asset.Record{}, ErrNotFound
	}
	if err != nil {
		return asset.Record{}, fmt.Errorf("get asset %d: %w", id, err)
	}
	return r, nil
}

func (s *PostgresStore) Create(ctx context.Context, r asset.Record) (asset.Record, error) {
	acquired, err := dateArg(r.AcquisitionDate)
	if err != nil {
		return asset.Record{}, err
	}
	sqlStr, args, err := psql.Insert("assets").
		Columns("name", "serial_number", "category", "status", "acquisition_date").
		Values(r.Name, r.SerialNumber, string(r.Category), string(r.Status), acquired).
		Suffix("RETURNING id, name, serial_number, category, status, acquisition_date").
		ToSql()
	if err != nil {
		return asset.Record{}, err
	}

	out, err := scanRecord(s.db.QueryRowContext(ctx, sqlStr, args...))
	if err != nil {
		if isUniqueViolation(err) {
			return asset.Record{}, ErrDuplicateSerial
		}
		return asset.Record{}, fmt.Errorf("create asset: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Update(ctx context.Context, id int64, r asset.Record) (asset.Record, error) {
	acquired, err := dateArg(r.AcquisitionDate)
	if err != nil {
		return asset.Record{}, err
	}
	sqlStr, args, err := psql.Update("assets").
		Set("name", r.Name).
		Set("serial_number", r.SerialNumber).
		Set("category", string(r.Category)).
		Set("status", string(r.Status)).
		Set("acquisition_date", acquired).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING id, name, serial_number, category, status, acquisition_date").
		ToSql()
	if err != nil {
		return asset.Record{}, err
	}

	out, err := scanRecord(s.db.QueryRowContext(ctx, sqlStr, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return asset.Record{}, ErrNotFound
	}
	if err != nil {
		if isUniqueViolation(err) {
			return asset.Record{}, ErrDuplicateSerial
		}
		return asset.Record{}, fmt.Errorf("update asset %d: %w", id, err)
	}
	return out, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	sqlStr, args, err := psql.Delete("assets").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("delete asset %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete asset %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (asset.Record, error) {
	var (
		id       int64
		r        asset.Record
		category string
		status   string
		acquired sql.NullTime
	)
	if err := row.Scan(&id, &r.Name, &r.SerialNumber, &category, &status, &acquired); err != nil {
		return asset.Record{}, err
	}
	r.ID = &id
	r.Category = asset.Category(category)
	r.Status = asset.Status(status)
	if acquired.Valid {
		r.AcquisitionDate = asset.StringPtr(asset.NormalizeDate(acquired.Time))
	}
	return r, nil
}

// dateArg converts an acquisition date to a query argument; nil maps to NULL.
func dateArg(v *string) (any, error) {
	if v == nil {
		return nil, nil
	}
	t, err := asset.ParseDate(*v)
	if err != nil {
		return nil, err
	}
	return t.UTC(), nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	return false
}
