package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Dan9191/control-center/internal/models"
	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when a record does not exist
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a write violates a uniqueness constraint
	ErrConflict = errors.New("already exists")
	// ErrInvalidReference is returned when a write points at a missing record
	ErrInvalidReference = errors.New("referenced record does not exist")
)

// Repository provides database operations
type Repository struct {
	db  *sql.DB
	now func() time.Time
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

// WithClock overrides the clock used for created/updated timestamps
func (r *Repository) WithClock(now func() time.Time) *Repository {
	r.now = now
	return r
}

func (r *Repository) timestamp() models.Timestamp {
	return models.NewTimestamp(r.now())
}

type scanner interface {
	Scan(dest ...any) error
}

// where accumulates filter clauses with numbered placeholders.
// Clauses use "?" which is rewritten to $1, $2, ... in order.
type where struct {
	clauses []string
	args    []any
}

func (w *where) add(clause string, args ...any) {
	var b strings.Builder
	next := 0
	for _, ch := range clause {
		if ch == '?' && next < len(args) {
			w.args = append(w.args, args[next])
			next++
			fmt.Fprintf(&b, "$%d", len(w.args))
			continue
		}
		b.WriteRune(ch)
	}
	w.clauses = append(w.clauses, b.String())
}

func (w *where) in(column string, values []any) {
	if len(values) == 0 {
		return
	}
	w.add(column+" IN ("+marks(len(values))+")", values...)
}

func joinComma(parts []string) string {
	return strings.Join(parts, ", ")
}

func marks(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func (w *where) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

// page appends LIMIT/OFFSET placeholders
func (w *where) page(limit, offset int) string {
	if limit <= 0 {
		return ""
	}
	w.args = append(w.args, limit, offset)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(w.args)-1, len(w.args))
}

func like(q string) string {
	return "%" + strings.ToLower(q) + "%"
}

func anySlice[T any](values []T) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// orderBy returns a safe ORDER BY clause, falling back when sort is not allowed
func orderBy(sort string, desc bool, allowed map[string]string, fallback string) string {
	column, ok := allowed[sort]
	if !ok {
		return " ORDER BY " + fallback
	}
	direction := "ASC"
	if desc {
		direction = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s", column, direction)
}

// mapWriteError converts driver constraint errors into repository errors
func mapWriteError(err error, action string) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return fmt.Errorf("failed to %s: %w", action, ErrConflict)
		case "23503":
			return fmt.Errorf("failed to %s: %w", action, ErrInvalidReference)
		}
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return fmt.Errorf("failed to %s: %w", action, ErrConflict)
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return fmt.Errorf("failed to %s: %w", action, ErrInvalidReference)
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}

// expectRows turns a zero-row update or delete into ErrNotFound
func expectRows(res sql.Result, err error, action string) error {
	if err != nil {
		return mapWriteError(err, action)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to %s: %w", action, err)
	}
	if n == 0 {
		return fmt.Errorf("failed to %s: %w", action, ErrNotFound)
	}
	return nil
}
