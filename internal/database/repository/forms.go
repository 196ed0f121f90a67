package repository

import (
	"context"
	"database/sql"
)

// FormRepo handles the form catalog.
type FormRepo struct {
	db DBTX
}

func NewFormRepo(db DBTX) *FormRepo { return &FormRepo{db: db} }

func (r *FormRepo) Upsert(ctx context.Context, f Form) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO forms(id, name, description) VALUES (?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET name=excluded.name, description=excluded.description;
	`, f.ID, f.Name, f.Description)
	return err
}

func (r *FormRepo) ByName(ctx context.Context, name string) (*Form, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, description, created_at FROM forms WHERE name = ? COLLATE NOCASE`, name)
	var f Form
	if err := row.Scan(&f.ID, &f.Name, &f.Description, &f.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &f, nil
}

func (r *FormRepo) List(ctx context.Context) ([]Form, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, description, created_at FROM forms ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Form
	for rows.Next() {
		var f Form
		if err := rows.Scan(&f.ID, &f.Name, &f.Description, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
