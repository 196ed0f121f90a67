package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
	"github.com/agnivade/levenshtein"

	"github.com/jask/jaskmask/internal/mask"
)

// ErrUnknownForm is returned by FindForm when no form has the given name.
var ErrUnknownForm = errors.New("unknown form")

// RuleDef is a custom mask rule. Exactly one of Pattern and OneOf is set.
type RuleDef struct {
	Key     string   `toml:"key"`
	Pattern string   `toml:"pattern"`
	OneOf   []string `toml:"one_of"`
}

// FieldDef is one masked input of a form.
type FieldDef struct {
	Name         string `toml:"name"`
	Label        string `toml:"label"`
	Mask         string `toml:"mask"`
	Value        string `toml:"value"`
	PromptChar   string `toml:"prompt_char"`
	Locale       string `toml:"locale"`
	UnmaskOnPost *bool  `toml:"unmask_on_post"`
}

// Form is a named set of fields sharing custom rules.
type Form struct {
	Name        string     `toml:"name"`
	Description string     `toml:"description"`
	Rules       []RuleDef  `toml:"rule"`
	Fields      []FieldDef `toml:"field"`
}

type formsFile struct {
	Form []Form `toml:"form"`
}

const defaultFormsTOML = `# jaskmask form definitions
# Add [[form]] blocks with [[form.field]] entries. Mask keys:
#   0 digit, 9 digit or space, # digit/sign/space, L letter, ? letter or space,
#   & non-space, C any, A alphanumeric, a alphanumeric or space.
#   . , $ become the locale decimal, group and currency symbols; \ escapes.
# [[form.rule]] adds keys: one rune overrides a single position, longer keys
# form groups checked as a whole.

[[form]]
name = "contact"
description = "Contact details"

[[form.field]]
name = "phone"
label = "Phone"
mask = "(000) 000-0000"

[[form.field]]
name = "zip"
label = "ZIP code"
mask = "00000-9999"

[[form.field]]
name = "birthday"
label = "Birthday"
mask = "00/00/0000"

[[form]]
name = "payment"
description = "Card payment"

[[form.rule]]
key = "RG"
one_of = ["US", "EU", "UK"]

[[form.rule]]
key = "MM"
pattern = "0[1-9]|1[0-2]"

[[form.field]]
name = "card"
label = "Card number"
mask = "0000 0000 0000 0000"
unmask_on_post = true

[[form.field]]
name = "expiry"
label = "Expiry"
mask = "MM/00"

[[form.field]]
name = "amount"
label = "Amount"
mask = "$ 999,990.00"

[[form.field]]
name = "region"
label = "Region"
mask = "RG-0000"
`

// LoadForms reads form definitions from path. A missing file is created
// with the default forms.
func LoadForms(path string) ([]Form, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if mkErr := os.MkdirAll(filepath.Dir(path), 0o755); mkErr != nil {
			return nil, fmt.Errorf("create forms dir: %w", mkErr)
		}
		if wErr := os.WriteFile(path, []byte(defaultFormsTOML), 0o644); wErr != nil {
			return nil, fmt.Errorf("write default forms: %w", wErr)
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read forms: %w", err)
	}
	return ParseForms(data)
}

// DefaultForms returns the forms written to a fresh forms file.
func DefaultForms() []Form {
	forms, err := ParseForms([]byte(defaultFormsTOML))
	if err != nil {
		panic(err)
	}
	return forms
}

// ParseForms parses and validates TOML form definitions.
func ParseForms(data []byte) ([]Form, error) {
	var f formsFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse forms.toml: %w", err)
	}
	if len(f.Form) == 0 {
		return nil, fmt.Errorf("no forms defined")
	}
	seen := map[string]bool{}
	for i, form := range f.Form {
		if strings.TrimSpace(form.Name) == "" {
			return nil, fmt.Errorf("form[%d]: name is required", i)
		}
		if seen[strings.ToLower(form.Name)] {
			return nil, fmt.Errorf("form[%d] %q: duplicate name", i, form.Name)
		}
		seen[strings.ToLower(form.Name)] = true
		if err := validateForm(form); err != nil {
			return nil, fmt.Errorf("form[%d] %q: %w", i, form.Name, err)
		}
	}
	return f.Form, nil
}

func validateForm(form Form) error {
	if len(form.Fields) == 0 {
		return fmt.Errorf("no fields defined")
	}
	names := map[string]bool{}
	for i, fd := range form.Fields {
		if fd.Name == "" {
			return fmt.Errorf("field[%d]: name is required", i)
		}
		if names[fd.Name] {
			return fmt.Errorf("field[%d] %q: duplicate name", i, fd.Name)
		}
		names[fd.Name] = true
		if utf8.RuneCountInString(fd.PromptChar) > 1 {
			return fmt.Errorf("field[%d] %q: prompt_char must be a single character", i, fd.Name)
		}
	}
	_, err := form.MaskRules()
	return err
}

// MaskRules compiles the form's custom rules.
func (f Form) MaskRules() ([]mask.RuleDef, error) {
	out := make([]mask.RuleDef, 0, len(f.Rules))
	for i, r := range f.Rules {
		if r.Key == "" {
			return nil, fmt.Errorf("rule[%d]: key is required", i)
		}
		switch {
		case r.Pattern != "" && len(r.OneOf) > 0:
			return nil, fmt.Errorf("rule[%d] %q: pattern and one_of are exclusive", i, r.Key)
		case r.Pattern != "":
			rule, err := mask.Pattern(r.Pattern)
			if err != nil {
				return nil, fmt.Errorf("rule[%d] %q: %w", i, r.Key, err)
			}
			out = append(out, mask.RuleDef{Key: r.Key, Rule: rule})
		case len(r.OneOf) > 0:
			out = append(out, mask.RuleDef{Key: r.Key, Rule: mask.OneOf(r.OneOf...)})
		default:
			return nil, fmt.Errorf("rule[%d] %q: pattern or one_of is required", i, r.Key)
		}
	}
	return out, nil
}

// Field returns the field called name.
func (f Form) Field(name string) (FieldDef, bool) {
	for _, fd := range f.Fields {
		if fd.Name == name {
			return fd, true
		}
	}
	return FieldDef{}, false
}

// MaskOptions builds the options for one field. Field settings win over
// the UI defaults.
func (f Form) MaskOptions(fd FieldDef, ui UIConfig, numbers mask.NumberFormatter) (mask.Options, error) {
	rules, err := f.MaskRules()
	if err != nil {
		return mask.Options{}, err
	}
	opts := mask.Options{
		Mask:            fd.Mask,
		Rules:           rules,
		Locale:          ui.Locale,
		Numbers:         numbers,
		ClearPromptChar: ui.ClearPromptChar,
		UnmaskOnPost:    ui.UnmaskOnPost,
		Value:           fd.Value,
	}
	if fd.Locale != "" {
		opts.Locale = fd.Locale
	}
	prompt := ui.PromptChar
	if fd.PromptChar != "" {
		prompt = fd.PromptChar
	}
	if r, _ := utf8.DecodeRuneInString(prompt); r != utf8.RuneError {
		opts.PromptChar = r
	}
	if fd.UnmaskOnPost != nil {
		opts.UnmaskOnPost = *fd.UnmaskOnPost
	}
	return opts, nil
}

// FindForm looks name up case-insensitively. The error for an unknown name
// wraps ErrUnknownForm and suggests the closest known name.
func FindForm(forms []Form, name string) (Form, error) {
	for _, f := range forms {
		if strings.EqualFold(f.Name, name) {
			return f, nil
		}
	}
	if s := suggest(forms, name); s != "" {
		return Form{}, fmt.Errorf("%w %q (did you mean %q?)", ErrUnknownForm, name, s)
	}
	return Form{}, fmt.Errorf("%w %q", ErrUnknownForm, name)
}

func suggest(forms []Form, name string) string {
	best, bestDist := "", -1
	for _, f := range forms {
		d := levenshtein.ComputeDistance(strings.ToLower(name), strings.ToLower(f.Name))
		if bestDist < 0 || d < bestDist {
			best, bestDist = f.Name, d
		}
	}
	if bestDist < 0 || bestDist > max(2, len(name)/2) {
		return ""
	}
	return best
}

// Names lists form names in file order.
func Names(forms []Form) []string {
	out := make([]string, len(forms))
	for i, f := range forms {
		out[i] = f.Name
	}
	return out
}
