package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/jaskmask/internal/mask"
)

func TestParseFormsValid(t *testing.T) {
	data := []byte(`
[[form]]
name = "shipping"

[[form.rule]]
key = "ST"
one_of = ["CA", "NY"]

[[form.field]]
name = "state"
label = "State"
mask = "ST"

[[form.field]]
name = "zip"
mask = "00000"
value = "12345"
prompt_char = "*"
`)
	forms, err := ParseForms(data)
	require.NoError(t, err)
	require.Len(t, forms, 1)
	f := forms[0]
	require.Equal(t, "shipping", f.Name)
	require.Len(t, f.Fields, 2)
	require.Len(t, f.Rules, 1)
	require.Equal(t, []string{"CA", "NY"}, f.Rules[0].OneOf)

	zip, ok := f.Field("zip")
	require.True(t, ok)
	require.Equal(t, "12345", zip.Value)
	_, ok = f.Field("missing")
	require.False(t, ok)
}

func TestParseFormsErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"empty", ``, "no forms defined"},
		{"missing name", "[[form]]\n[[form.field]]\nname = \"a\"\n", "form[0]: name is required"},
		{"duplicate form", "[[form]]\nname = \"a\"\n[[form.field]]\nname = \"x\"\n[[form]]\nname = \"A\"\n[[form.field]]\nname = \"x\"\n", "duplicate name"},
		{"no fields", "[[form]]\nname = \"a\"\n", "no fields defined"},
		{"duplicate field", "[[form]]\nname = \"a\"\n[[form.field]]\nname = \"x\"\n[[form.field]]\nname = \"x\"\n", "field[1] \"x\": duplicate name"},
		{"bad pattern", "[[form]]\nname = \"a\"\n[[form.rule]]\nkey = \"XY\"\npattern = \"[\"\n[[form.field]]\nname = \"x\"\n", "compile rule pattern"},
		{"empty rule", "[[form]]\nname = \"a\"\n[[form.rule]]\nkey = \"XY\"\n[[form.field]]\nname = \"x\"\n", "pattern or one_of is required"},
		{"long prompt", "[[form]]\nname = \"a\"\n[[form.field]]\nname = \"x\"\nprompt_char = \"ab\"\n", "single character"},
		{"bad toml", "[[form]\n", "parse forms.toml"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseForms([]byte(tc.data))
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoadFormsCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jaskmask", "forms.toml")
	forms, err := LoadForms(path)
	require.NoError(t, err)
	require.Equal(t, []string{"contact", "payment"}, Names(forms))

	_, err = os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, Names(DefaultForms()), Names(forms))
}

func TestFindForm(t *testing.T) {
	forms := DefaultForms()

	f, err := FindForm(forms, "PAYMENT")
	require.NoError(t, err)
	require.Equal(t, "payment", f.Name)

	_, err = FindForm(forms, "contcat")
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrUnknownForm))
	require.Contains(t, err.Error(), `did you mean "contact"`)

	_, err = FindForm(forms, "zzzzzzzzzzzz")
	require.ErrorIs(t, err, ErrUnknownForm)
	require.False(t, strings.Contains(err.Error(), "did you mean"))
}

func TestMaskOptions(t *testing.T) {
	forms := DefaultForms()
	payment, err := FindForm(forms, "payment")
	require.NoError(t, err)

	ui := UIConfig{Locale: "en-US", PromptChar: "#"}
	region, ok := payment.Field("region")
	require.True(t, ok)
	opts, err := payment.MaskOptions(region, ui, mask.StaticFormats{})
	require.NoError(t, err)
	require.Equal(t, '#', opts.PromptChar)
	require.Equal(t, "en-US", opts.Locale)
	require.False(t, opts.UnmaskOnPost)

	f := mask.New(opts)
	f.Focus()
	f.TypeString("US1234")
	require.Equal(t, "US-1234", f.Value())

	card, _ := payment.Field("card")
	opts, err = payment.MaskOptions(card, ui, mask.StaticFormats{})
	require.NoError(t, err)
	require.True(t, opts.UnmaskOnPost)
}

func TestDefaultExpiryRule(t *testing.T) {
	payment, err := FindForm(DefaultForms(), "payment")
	require.NoError(t, err)
	expiry, _ := payment.Field("expiry")
	opts, err := payment.MaskOptions(expiry, UIConfig{}, nil)
	require.NoError(t, err)

	f := mask.New(opts)
	f.Focus()
	f.TypeString("13")
	require.Equal(t, "1_/__", f.Value())
	f.TypeString("26")
	require.Equal(t, "12/6_", f.Value())

	f.SetValue("")
	f.TypeString("0926")
	require.Equal(t, "09/26", f.Value())
}
