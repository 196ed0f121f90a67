package mask

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Rule decides whether text may occupy an editable slot. Single-character
// rules receive one rune, group rules receive the whole group text.
type Rule interface {
	Match(s string) bool
}

// PrefixMatcher is implemented by group rules that can reject an
// incomplete group before all of its positions are filled.
type PrefixMatcher interface {
	MatchPrefix(s string) bool
}

// RuleFunc adapts a plain function to Rule.
type RuleFunc func(s string) bool

func (f RuleFunc) Match(s string) bool { return f(s) }

// RuneRule accepts exactly one rune satisfying fn.
func RuneRule(fn func(r rune) bool) Rule {
	return RuleFunc(func(s string) bool {
		r, size := utf8.DecodeRuneInString(s)
		if size == 0 || size != len(s) || r == utf8.RuneError {
			return false
		}
		return fn(r)
	})
}

type patternRule struct {
	re *regexp.Regexp
}

func (p patternRule) Match(s string) bool { return p.re.MatchString(s) }

// Pattern compiles expr into a rule matching the whole input.
func Pattern(expr string) (Rule, error) {
	re, err := regexp.Compile(`^(?:` + expr + `)$`)
	if err != nil {
		return nil, fmt.Errorf("compile rule pattern %q: %w", expr, err)
	}
	return patternRule{re: re}, nil
}

type oneOfRule []string

func (o oneOfRule) Match(s string) bool { return slices.Contains(o, s) }

func (o oneOfRule) MatchPrefix(s string) bool {
	for _, v := range o {
		if strings.HasPrefix(v, s) {
			return true
		}
	}
	return false
}

// OneOf accepts only the listed values. Used as a group rule it also
// rejects a first character no listed value starts with.
func OneOf(values ...string) Rule {
	return oneOfRule(slices.Clone(values))
}

func isASCIIDigit(r rune) bool  { return r >= '0' && r <= '9' }
func isASCIILetter(r rune) bool { return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') }

// RuleDef binds a mask-pattern key to its rule. Keys of one rune are
// single-character rules, longer keys are groups.
type RuleDef struct {
	Key  string
	Rule Rule
}

func builtinRules() []RuleDef {
	return []RuleDef{
		{Key: "0", Rule: RuneRule(isASCIIDigit)},
		{Key: "9", Rule: RuneRule(func(r rune) bool { return isASCIIDigit(r) || unicode.IsSpace(r) })},
		{Key: "#", Rule: RuneRule(func(r rune) bool {
			return isASCIIDigit(r) || unicode.IsSpace(r) || r == '+' || r == '-'
		})},
		{Key: "L", Rule: RuneRule(isASCIILetter)},
		{Key: "?", Rule: RuneRule(func(r rune) bool { return isASCIILetter(r) || unicode.IsSpace(r) })},
		{Key: "&", Rule: RuneRule(func(r rune) bool { return !unicode.IsSpace(r) })},
		{Key: "C", Rule: RuneRule(func(r rune) bool { return r != '\n' && r != '\r' && r != '\u2028' && r != '\u2029' })},
		{Key: "A", Rule: RuneRule(func(r rune) bool { return isASCIIDigit(r) || isASCIILetter(r) })},
		{Key: "a", Rule: RuneRule(func(r rune) bool {
			return isASCIIDigit(r) || isASCIILetter(r) || unicode.IsSpace(r)
		})},
	}
}

// Rules is an ordered rule table. Iteration order is the order keys were
// first defined, which decides between overlapping group keys.
type Rules struct {
	defs []RuleDef
}

// DefaultRules returns the built-in table.
func DefaultRules() Rules {
	return Rules{defs: builtinRules()}
}

// With returns a copy of r with overrides merged by key. An override of an
// existing key keeps that key's position; new keys are appended in order.
// Definitions with an empty key or nil rule are ignored.
func (r Rules) With(overrides ...RuleDef) Rules {
	out := Rules{defs: slices.Clone(r.defs)}
	for _, o := range overrides {
		if o.Key == "" || o.Rule == nil {
			continue
		}
		if i := out.index(o.Key); i >= 0 {
			out.defs[i].Rule = o.Rule
			continue
		}
		out.defs = append(out.defs, o)
	}
	return out
}

func (r Rules) index(key string) int {
	for i, d := range r.defs {
		if d.Key == key {
			return i
		}
	}
	return -1
}

// Lookup returns the rule registered for key.
func (r Rules) Lookup(key string) (Rule, bool) {
	if i := r.index(key); i >= 0 {
		return r.defs[i].Rule, true
	}
	return nil, false
}

// Defs returns the table in iteration order.
func (r Rules) Defs() []RuleDef {
	return slices.Clone(r.defs)
}

func (r Rules) single(c rune) (Rule, bool) {
	for _, d := range r.defs {
		if k, size := utf8.DecodeRuneInString(d.Key); size == len(d.Key) && k == c {
			return d.Rule, true
		}
	}
	return nil, false
}

// group returns the first multi-rune key the pattern continues with at idx.
func (r Rules) group(pattern []rune, idx int) (RuleDef, bool) {
	for _, d := range r.defs {
		key := []rune(d.Key)
		if len(key) < 2 || idx+len(key) > len(pattern) {
			continue
		}
		if slices.Equal(pattern[idx:idx+len(key)], key) {
			return d, true
		}
	}
	return RuleDef{}, false
}
