package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SQLiteSubmissionStore implements SubmissionStore backed by SQLite.
type SQLiteSubmissionStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteSubmissionStore returns a new SQLiteSubmissionStore.
func NewSQLiteSubmissionStore(db *sql.DB) *SQLiteSubmissionStore {
	return &SQLiteSubmissionStore{db: db, now: time.Now}
}

var _ SubmissionStore = (*SQLiteSubmissionStore)(nil)

// Create inserts a new submission. The insert is committed before Create returns.
func (s *SQLiteSubmissionStore) Create(ctx context.Context, in NewSubmission) (*Submission, error) {
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

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO contact_submissions (id, name, email, phone, message, created_at, notified)
		VALUES (?, ?, ?, ?, ?, ?, 0)`,
		sub.ID, sub.Name, sub.Email, sub.Phone, sub.Message, sub.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting submission: %w", err)
	}
	return sub, nil
}

// MarkNotified flips the notified flag to true. The WHERE clause never matches
// a row that is already notified, so the flag can only move false to true.
func (s *SQLiteSubmissionStore) MarkNotified(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE contact_submissions SET notified = 1 WHERE id = ? AND notified = 0", id)
	if err != nil {
		return fmt.Errorf("marking submission %q notified: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if n > 0 {
		return nil
	}

	var exists int
	err = s.db.QueryRowContext(ctx, "SELECT 1 FROM contact_submissions WHERE id = ?", id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return &NotFoundError{Resource: resourceSubmission, ID: id}
	}
	if err != nil {
		return fmt.Errorf("checking submission %q: %w", id, err)
	}
	return nil
}

// Get returns a single submission by id.
func (s *SQLiteSubmissionStore) Get(ctx context.Context, id string) (*Submission, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, phone, message, created_at, notified
		FROM contact_submissions WHERE id = ?`, id)

	sub, err := scanSubmission(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Resource: resourceSubmission, ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("getting submission %q: %w", id, err)
	}
	return sub, nil
}

// List returns submissions newest first, optionally filtered.
func (s *SQLiteSubmissionStore) List(ctx context.Context, filter ListFilter) (subs []*Submission, err error) {
	var conditions []string
	var args []any

	if filter.Notified != nil {
		conditions = append(conditions, "notified = ?")
		args = append(args, boolToInt(*filter.Notified))
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		pattern := likePattern(q)
		conditions = append(conditions,
			`(name LIKE ? ESCAPE '\' OR email LIKE ? ESCAPE '\' OR message LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern, pattern)
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}
	args = append(args, filter.limit())

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, phone, message, created_at, notified
		FROM contact_submissions `+where+`
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying submissions: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing rows: %w", cerr)
		}
	}()

	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning submission row: %w", err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating submission rows: %w", err)
	}
	return subs, nil
}

// CountPending returns how many submissions still have notified=false.
func (s *SQLiteSubmissionStore) CountPending(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM contact_submissions WHERE notified = 0").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting pending submissions: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubmission(r rowScanner) (*Submission, error) {
	var sub Submission
	var notified int
	if err := r.Scan(&sub.ID, &sub.Name, &sub.Email, &sub.Phone, &sub.Message,
		&sub.CreatedAt, &notified); err != nil {
		return nil, err
	}
	sub.Notified = notified != 0
	return &sub, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// likePattern wraps q for a substring LIKE match, escaping LIKE wildcards.
func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(q) + "%"
}
