package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSubmissionStore implements SubmissionStore backed by Postgres via pgx.
type PostgresSubmissionStore struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewPostgresSubmissionStore returns a store using the given pool.
func NewPostgresSubmissionStore(pool *pgxpool.Pool) *PostgresSubmissionStore {
	return &PostgresSubmissionStore{pool: pool, now: time.Now}
}

var _ SubmissionStore = (*PostgresSubmissionStore)(nil)

// Create inserts a new submission. pgx runs the statement in autocommit mode,
// so the row is committed when Exec returns.
func (s *PostgresSubmissionStore) Create(ctx context.Context, in NewSubmission) (*Submission, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	in = in.Normalize()

	sub := &Submission{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Message:   in.Message,
		CreatedAt: s.now().UTC(),
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO contact_submissions (id, name, email, phone, message, created_at, notified)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE)`,
		sub.ID, sub.Name, sub.Email, sub.Phone, sub.Message, sub.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting submission: %w", err)
	}
	return sub, nil
}

// MarkNotified flips the notified flag to true; see SQLiteSubmissionStore.MarkNotified.
func (s *PostgresSubmissionStore) MarkNotified(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx,
		"UPDATE contact_submissions SET notified = TRUE WHERE id = $1 AND notified = FALSE", id)
	if err != nil {
		return fmt.Errorf("marking submission %q notified: %w", id, err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := s.pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM contact_submissions WHERE id = $1)", id).Scan(&exists); err != nil {
		return fmt.Errorf("checking submission %q: %w", id, err)
	}
	if !exists {
		return &NotFoundError{Resource: resourceSubmission, ID: id}
	}
	return nil
}

// Get returns a single submission by id.
func (s *PostgresSubmissionStore) Get(ctx context.Context, id string) (*Submission, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, email, phone, message, created_at, notified
		FROM contact_submissions WHERE id = $1`, id)

	var sub Submission
	err := row.Scan(&sub.ID, &sub.Name, &sub.Email, &sub.Phone, &sub.Message, &sub.CreatedAt, &sub.Notified)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &NotFoundError{Resource: resourceSubmission, ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("getting submission %q: %w", id, err)
	}
	return &sub, nil
}

// List returns submissions newest first, optionally filtered.
func (s *PostgresSubmissionStore) List(ctx context.Context, filter ListFilter) ([]*Submission, error) {
	var conditions []string
	var args []any

	if filter.Notified != nil {
		args = append(args, *filter.Notified)
		conditions = append(conditions, "notified = $"+strconv.Itoa(len(args)))
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		args = append(args, likePattern(q))
		p := "$" + strconv.Itoa(len(args))
		conditions = append(conditions,
			"(name ILIKE "+p+" OR email ILIKE "+p+" OR message ILIKE "+p+")")
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}
	args = append(args, filter.limit())

	rows, err := s.pool.Query(ctx, `
		SELECT id, name, email, phone, message, created_at, notified
		FROM contact_submissions `+where+`
		ORDER BY created_at DESC, id DESC
		LIMIT $`+strconv.Itoa(len(args)), args...)
	if err != nil {
		return nil, fmt.Errorf("querying submissions: %w", err)
	}
	defer rows.Close()

	var subs []*Submission
	for rows.Next() {
		var sub Submission
		if err := rows.Scan(&sub.ID, &sub.Name, &sub.Email, &sub.Phone, &sub.Message,
			&sub.CreatedAt, &sub.Notified); err != nil {
			return nil, fmt.Errorf("scanning submission row: %w", err)
		}
		subs = append(subs, &sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating submission rows: %w", err)
	}
	return subs, nil
}

// CountPending returns how many submissions still have notified=false.
func (s *PostgresSubmissionStore) CountPending(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM contact_submissions WHERE notified = FALSE").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting pending submissions: %w", err)
	}
	return n, nil
}
