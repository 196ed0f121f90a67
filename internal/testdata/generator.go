// Package testdata fills a form with sample submissions.
package testdata

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/jask/jaskmask/internal/config"
	"github.com/jask/jaskmask/internal/mask"
	"github.com/jask/jaskmask/internal/service"
)

const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Seed stores n submissions of form. Every field is typed rune by rune
// from a random stream, so the values are whatever the masks let through.
func Seed(ctx context.Context, svc *service.SubmitService, form config.Form, ui config.UIConfig, numbers mask.NumberFormatter, n int, rng *rand.Rand) error {
	for i := 0; i < n; i++ {
		values := make([]service.FieldValue, 0, len(form.Fields))
		for _, fd := range form.Fields {
			opts, err := form.MaskOptions(fd, ui, numbers)
			if err != nil {
				return fmt.Errorf("field %s: %w", fd.Name, err)
			}
			opts.Value = ""
			f := mask.New(opts)
			fill(f, rng)
			values = append(values, service.Snapshot(fd.Name, f))
		}
		if _, err := svc.Submit(ctx, form.Name, values); err != nil {
			return err
		}
	}
	return nil
}

func fill(f *mask.Field, rng *rand.Rand) {
	f.Focus()
	defer f.Blur()
	if !f.Mask().Enabled() {
		for j := 0; j < 8; j++ {
			f.Type(rune(alphabet[rng.Intn(len(alphabet))]))
		}
		return
	}
	for tries := 20 * f.Mask().Len(); tries > 0 && !f.Complete(); tries-- {
		f.Type(rune(alphabet[rng.Intn(len(alphabet))]))
	}
}
