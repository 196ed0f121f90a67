package repository

import (
	"context"
	"database/sql"
	"time"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Form represents a form row.
type Form struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}

// Submission represents one submitted form with its field values.
type Submission struct {
	ID          string
	FormID      string
	Complete    bool
	SubmittedAt time.Time
	Values      []SubmissionValue
}

// SubmissionValue represents one field of a submission.
type SubmissionValue struct {
	ID           string
	SubmissionID string
	Field        string
	Position     int
	Display      string
	Raw          string
	Submitted    string
	Complete     bool
}

// Value returns the value recorded for field.
func (s Submission) Value(field string) (SubmissionValue, bool) {
	for _, v := range s.Values {
		if v.Field == field {
			return v, true
		}
	}
	return SubmissionValue{}, false
}
