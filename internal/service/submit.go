package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jask/jaskmask/internal/database"
	"github.com/jask/jaskmask/internal/database/repository"
	"github.com/jask/jaskmask/internal/mask"
)

// ErrFormNotRegistered is returned for a form missing from the catalog.
var ErrFormNotRegistered = errors.New("form not registered")

// FieldValue is the snapshot of one field at submission time.
type FieldValue struct {
	Name      string
	Display   string
	Raw       string
	Submitted string
	Complete  bool
}

// Snapshot captures the current state of a masked field.
func Snapshot(name string, f *mask.Field) FieldValue {
	return FieldValue{
		Name:      name,
		Display:   f.Value(),
		Raw:       f.Raw(),
		Submitted: f.Submitted(),
		Complete:  f.Complete(),
	}
}

// SubmitService stores form submissions and reads them back.
type SubmitService struct {
	DB          *sql.DB
	Forms       *repository.FormRepo
	Submissions *repository.SubmissionRepo

	// Now defaults to database.Now.
	Now func() time.Time
}

func NewSubmitService(db *sql.DB) *SubmitService {
	return &SubmitService{
		DB:          db,
		Forms:       repository.NewFormRepo(db),
		Submissions: repository.NewSubmissionRepo(db),
	}
}

func (s *SubmitService) form(ctx context.Context, name string) (*repository.Form, error) {
	if s.DB == nil {
		return nil, fmt.Errorf("submit: db not configured")
	}
	f, err := s.Forms.ByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("lookup form %q: %w", name, err)
	}
	if f == nil {
		return nil, fmt.Errorf("%w: %q", ErrFormNotRegistered, name)
	}
	return f, nil
}

// Submit stores one submission of formName. The submission is complete
// when every field is.
func (s *SubmitService) Submit(ctx context.Context, formName string, values []FieldValue) (repository.Submission, error) {
	f, err := s.form(ctx, formName)
	if err != nil {
		return repository.Submission{}, err
	}
	now := database.Now
	if s.Now != nil {
		now = s.Now
	}

	sub := repository.Submission{
		ID:          uuid.NewString(),
		FormID:      f.ID,
		Complete:    true,
		SubmittedAt: now(),
	}
	for i, v := range values {
		sub.Values = append(sub.Values, repository.SubmissionValue{
			ID:           uuid.NewString(),
			SubmissionID: sub.ID,
			Field:        v.Name,
			Position:     i,
			Display:      v.Display,
			Raw:          v.Raw,
			Submitted:    v.Submitted,
			Complete:     v.Complete,
		})
		sub.Complete = sub.Complete && v.Complete
	}

	if err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		return repository.NewSubmissionRepo(tx).Insert(ctx, sub)
	}); err != nil {
		return repository.Submission{}, fmt.Errorf("submit %s: %w", formName, err)
	}
	return sub, nil
}

// History lists the newest submissions of formName first.
func (s *SubmitService) History(ctx context.Context, formName string, limit int) ([]repository.Submission, error) {
	f, err := s.form(ctx, formName)
	if err != nil {
		return nil, err
	}
	subs, err := s.Submissions.ListByForm(ctx, f.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("history %s: %w", formName, err)
	}
	return subs, nil
}

// ClearHistory deletes every submission of formName.
func (s *SubmitService) ClearHistory(ctx context.Context, formName string) (int64, error) {
	f, err := s.form(ctx, formName)
	if err != nil {
		return 0, err
	}
	var n int64
	err = database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		var err error
		n, err = repository.NewSubmissionRepo(tx).DeleteByForm(ctx, f.ID)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("clear history %s: %w", formName, err)
	}
	return n, nil
}
