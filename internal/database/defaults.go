package database

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/jask/jaskmask/internal/database/repository"
)

// FormID derives a stable id from a form name, so the same form keeps its
// history across restarts and renames in case only.
func FormID(name string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("form:"+strings.ToLower(strings.TrimSpace(name)))).String()
}

// SeedForms registers the given forms in the catalog. It is idempotent and
// safe to run on every startup.
func SeedForms(ctx context.Context, db *sql.DB, forms []repository.Form) error {
	return WithTx(ctx, db, func(tx *sql.Tx) error {
		repo := repository.NewFormRepo(tx)
		for _, f := range forms {
			f.ID = FormID(f.Name)
			if err := repo.Upsert(ctx, f); err != nil {
				return err
			}
		}
		return nil
	})
}
