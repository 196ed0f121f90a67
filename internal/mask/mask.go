package mask

import (
	"slices"
)

// DefaultPrompt fills editable positions nobody has typed into yet.
const DefaultPrompt = '_'

// Mask is a compiled mask pattern. It is immutable once built and may be
// shared; reconfiguring a field swaps in a new Mask.
type Mask struct {
	pattern string
	prompt  rune
	tokens  []Token
	empty   []rune
}

// Compile turns a mask pattern into tokens and the empty-mask skeleton.
// Single-character rule keys win over group keys, group keys over
// literals. An empty pattern yields a disabled Mask.
func Compile(pattern string, rules Rules, prompt rune, numbers NumberFormat) *Mask {
	if prompt == 0 {
		prompt = DefaultPrompt
	}
	m := &Mask{pattern: pattern, prompt: prompt}
	src := []rune(pattern)
	groups := 0

	for idx := 0; idx < len(src); idx++ {
		c := src[idx]

		if rule, ok := rules.single(c); ok {
			m.tokens = append(m.tokens, Token{Kind: KindRule, Position: idx, Text: c, Rule: rule})
			m.empty = append(m.empty, prompt)
			continue
		}

		if def, ok := rules.group(src, idx); ok {
			key := []rune(def.Key)
			g := &Group{ID: groups, Start: len(m.tokens), Key: def.Key, Rule: def.Rule, width: len(key)}
			groups++
			for off, k := range key {
				m.tokens = append(m.tokens, Token{
					Kind:     KindGroup,
					Position: idx + off,
					Text:     k,
					Rule:     def.Rule,
					Group:    g,
					Offset:   off,
				})
				m.empty = append(m.empty, prompt)
			}
			idx += len(key) - 1
			continue
		}

		text := string(c)
		switch c {
		case '.':
			text = numbers.Decimal
		case ',':
			text = numbers.Group
		case '$':
			text = numbers.Currency
		case '\\':
			if idx+1 < len(src) {
				idx++
				text = string(src[idx])
			}
		}
		for _, lit := range text {
			m.tokens = append(m.tokens, Token{Kind: KindLiteral, Position: idx, Text: lit})
			m.empty = append(m.empty, lit)
		}
	}
	return m
}

// Enabled reports whether masking applies. A disabled mask leaves the
// field as a plain text field.
func (m *Mask) Enabled() bool { return m != nil && len(m.tokens) > 0 }

// Len is the display length of a masked value.
func (m *Mask) Len() int {
	if m == nil {
		return 0
	}
	return len(m.tokens)
}

func (m *Mask) Pattern() string { return m.pattern }
func (m *Mask) Prompt() rune    { return m.prompt }

// Empty is the fully blank rendering: literals shown, slots prompted.
func (m *Mask) Empty() string {
	if m == nil {
		return ""
	}
	return string(m.empty)
}

// Tokens returns a copy of the compiled token sequence.
func (m *Mask) Tokens() []Token {
	if m == nil {
		return nil
	}
	return slices.Clone(m.tokens)
}

// Token returns the token at display index i.
func (m *Mask) Token(i int) (Token, bool) {
	if m == nil || i < 0 || i >= len(m.tokens) {
		return Token{}, false
	}
	return m.tokens[i], true
}

func (m *Mask) emptyRunes() []rune { return slices.Clone(m.empty) }

// Find returns the nearest editable index at or after index (before it
// when backward is set) in display. A literal whose display rune differs
// from its text counts as editable. Running off either end returns -1 or
// Len().
func (m *Mask) Find(display string, index int, backward bool) int {
	return m.find([]rune(display), index, backward)
}

func (m *Mask) find(buf []rune, idx int, backward bool) int {
	n := m.Len()
	step := 1
	if backward {
		step = -1
	}
	for idx >= 0 && idx < n {
		t := m.tokens[idx]
		if t.Kind != KindLiteral || idx >= len(buf) || buf[idx] != t.Text {
			return idx
		}
		idx += step
	}
	if idx < 0 {
		return -1
	}
	return n
}

// Unmask extracts the raw content of probe, read against the tokens from
// start. Literals are discarded, prompts kept, rejected runes dropped.
func (m *Mask) Unmask(probe string, start int) string {
	return string(m.unmask([]rune(probe), start, nil))
}

func (m *Mask) unmask(probe []rune, start int, ctx []rune) []rune {
	if len(probe) == 0 || !m.Enabled() {
		return nil
	}
	if start < 0 {
		start = 0
	}
	whole := start == 0 && len(probe) == len(m.tokens)

	var work []rune
	out := make([]rune, 0, len(probe))
	ti, ci := start, 0
	for ti < len(m.tokens) && ci < len(probe) {
		c := probe[ci]
		t := m.tokens[ti]

		switch t.Kind {
		case KindLiteral:
			switch c {
			case t.Text:
				ti++
				ci++
			case m.prompt:
				out = append(out, c)
				ti++
				ci++
			default:
				// Out of step with the literal: skip the token, keep the rune.
				ti++
			}

		case KindRule:
			if c == m.prompt || t.Rule.Match(string(c)) {
				out = append(out, c)
				ti++
			}
			ci++

		case KindGroup:
			g := t.Group
			if whole {
				width := g.width - t.Offset
				seg := probe[ci:min(ci+width, len(probe))]
				if len(seg) == width && (m.blank(seg) || g.Rule.Match(string(seg))) {
					out = append(out, seg...)
					ti += width
				}
				ci += width
				continue
			}
			if c == m.prompt {
				out = append(out, c)
				ti++
				ci++
				continue
			}
			if work == nil {
				work = m.context(ctx)
			}
			text := slices.Clone(work[g.Start : g.Start+g.width])
			text[t.Offset] = c
			if m.groupAccepts(g, text) {
				out = append(out, c)
				work[ti] = c
				ti++
			}
			ci++
		}
	}
	return out
}

func (m *Mask) context(ctx []rune) []rune {
	if len(ctx) == len(m.empty) {
		return slices.Clone(ctx)
	}
	return m.emptyRunes()
}

func (m *Mask) blank(rs []rune) bool {
	for _, r := range rs {
		if r != m.prompt {
			return false
		}
	}
	return true
}

// groupAccepts checks a candidate group text. A complete group must match
// the rule; an incomplete one is held provisionally unless the rule can
// already reject its filled prefix.
func (m *Mask) groupAccepts(g *Group, text []rune) bool {
	cut := slices.Index(text, m.prompt)
	if cut < 0 {
		return g.Rule.Match(string(text))
	}
	if p, ok := g.Rule.(PrefixMatcher); ok {
		return p.MatchPrefix(string(text[:cut]))
	}
	return true
}
