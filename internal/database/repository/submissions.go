package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// SubmissionRepo handles submissions and their field values.
type SubmissionRepo struct {
	db DBTX
}

func NewSubmissionRepo(db DBTX) *SubmissionRepo { return &SubmissionRepo{db: db} }

// Insert stores s and all of its values. Run it inside a transaction to
// keep the rows together.
func (r *SubmissionRepo) Insert(ctx context.Context, s Submission) error {
	if _, err := r.db.ExecContext(ctx, `
	INSERT INTO submissions(id, form_id, complete, submitted_at) VALUES (?, ?, ?, ?)
	`, s.ID, s.FormID, s.Complete, s.SubmittedAt); err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	for _, v := range s.Values {
		if _, err := r.db.ExecContext(ctx, `
		INSERT INTO submission_values(id, submission_id, field, position, display, raw, submitted, complete)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, v.ID, s.ID, v.Field, v.Position, v.Display, v.Raw, v.Submitted, v.Complete); err != nil {
			return fmt.Errorf("insert value %s: %w", v.Field, err)
		}
	}
	return nil
}

func (r *SubmissionRepo) Get(ctx context.Context, id string) (*Submission, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, form_id, complete, submitted_at FROM submissions WHERE id = ?`, id)
	var s Submission
	if err := row.Scan(&s.ID, &s.FormID, &s.Complete, &s.SubmittedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	values, err := r.fetchValues(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	s.Values = values
	return &s, nil
}

// ListByForm returns the newest submissions of a form first. A limit of
// zero or less returns all of them.
func (r *SubmissionRepo) ListByForm(ctx context.Context, formID string, limit int) ([]Submission, error) {
	query := `SELECT id, form_id, complete, submitted_at FROM submissions WHERE form_id = ? ORDER BY submitted_at DESC, rowid DESC`
	args := []any{formID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	var out []Submission
	for rows.Next() {
		var s Submission
		if err := rows.Scan(&s.ID, &s.FormID, &s.Complete, &s.SubmittedAt); err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	// values are fetched after closing rows; the pool holds one connection
	for i := range out {
		values, err := r.fetchValues(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Values = values
	}
	return out, nil
}

// DeleteByForm removes every submission of a form and reports how many.
func (r *SubmissionRepo) DeleteByForm(ctx context.Context, formID string) (int64, error) {
	if _, err := r.db.ExecContext(ctx, `
	DELETE FROM submission_values WHERE submission_id IN (SELECT id FROM submissions WHERE form_id = ?)
	`, formID); err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM submissions WHERE form_id = ?`, formID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *SubmissionRepo) fetchValues(ctx context.Context, submissionID string) ([]SubmissionValue, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, submission_id, field, position, display, raw, submitted, complete
	FROM submission_values WHERE submission_id = ? ORDER BY position
	`, submissionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []SubmissionValue
	for rows.Next() {
		var v SubmissionValue
		if err := rows.Scan(&v.ID, &v.SubmissionID, &v.Field, &v.Position, &v.Display, &v.Raw, &v.Submitted, &v.Complete); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
