package mask

import (
	"slices"
	"strings"
)

// Options configures a Field.
type Options struct {
	Mask       string
	Rules      []RuleDef // merged over the built-ins
	PromptChar rune      // DefaultPrompt when zero
	Locale     string
	Numbers    NumberFormatter // StaticFormats{} when nil

	// ClearPromptChar renders prompts as spaces while the field is not focused.
	ClearPromptChar bool
	// UnmaskOnPost makes Submitted return the raw value.
	UnmaskOnPost bool

	// Value is assigned by New. Configure ignores it and keeps the content.
	Value string
	// OnChange fires when a committed value differs from the last one.
	OnChange func(value string)
}

// Field is the live state of one masked text field: the display buffer,
// the selection, the focus flag and the value last committed.
type Field struct {
	opts  Options
	mask  *Mask
	buf   []rune
	start int
	end   int

	focused   bool
	committed string

	gen  uint64
	memo unmaskMemo
}

// unmaskMemo remembers the result for exactly one (probe, start) pair of
// one buffer generation.
type unmaskMemo struct {
	valid  bool
	gen    uint64
	start  int
	probe  string
	result []rune
}

// New builds a field and assigns opts.Value.
func New(opts Options) *Field {
	f := &Field{opts: opts}
	f.mask = f.compile()
	f.SetValue(opts.Value)
	return f
}

func (f *Field) compile() *Mask {
	numbers := f.opts.Numbers
	if numbers == nil {
		numbers = StaticFormats{}
	}
	rules := DefaultRules().With(f.opts.Rules...)
	return Compile(f.opts.Mask, rules, f.opts.PromptChar, numbers.NumberFormat(f.opts.Locale))
}

// Configure swaps in a new pattern, rule set, prompt or locale and
// re-masks the content entered so far against it.
func (f *Field) Configure(opts Options) {
	prev, content := f.mask, f.buf
	opts.Value = f.opts.Value
	f.opts = opts
	f.mask = f.compile()

	carry := string(content)
	if prev.Enabled() {
		raw := string(prev.unmask(content, 0, nil))
		blank := ""
		if f.mask.Enabled() {
			blank = string(f.mask.prompt)
		}
		carry = strings.ReplaceAll(raw, string(prev.prompt), blank)
	}
	f.SetValue(carry)
}

// Mask returns the compiled snapshot in use.
func (f *Field) Mask() *Mask { return f.mask }

// Options returns the configuration in use.
func (f *Field) Options() Options { return f.opts }

// Value returns the display buffer.
func (f *Field) Value() string { return string(f.buf) }

// SetValue replaces the content with v, which may be raw or already
// masked text.
func (f *Field) SetValue(v string) {
	if !f.mask.Enabled() {
		f.setBuffer([]rune(v))
		f.committed = v
		n := len(f.buf)
		f.start, f.end = n, n
		return
	}

	f.setBuffer(nil)
	raw := f.unmask([]rune(v), 0)
	if len(raw) > 0 {
		f.setBuffer(f.mask.emptyRunes())
	} else {
		f.setBuffer(nil)
	}
	f.apply(0, f.mask.Len(), raw, false)

	if !f.focused && f.Value() == f.mask.Empty() {
		f.setBuffer(nil)
	}
	f.committed = f.normalize(f.Value())
}

// Raw returns the content with literals and prompts stripped.
func (f *Field) Raw() string {
	if !f.mask.Enabled() {
		return f.Value()
	}
	raw := f.mask.unmask(f.buf, 0, nil)
	return strings.ReplaceAll(string(raw), string(f.mask.prompt), "")
}

// Submitted is the value handed to a form submission.
func (f *Field) Submitted() string {
	if f.opts.UnmaskOnPost {
		return f.Raw()
	}
	return f.Value()
}

// Display is the text to render.
func (f *Field) Display() string {
	if f.opts.ClearPromptChar && !f.focused && f.mask.Enabled() {
		return strings.ReplaceAll(f.Value(), string(f.mask.prompt), " ")
	}
	return f.Value()
}

// Complete reports whether every editable position holds content.
func (f *Field) Complete() bool {
	if !f.mask.Enabled() {
		return true
	}
	if len(f.buf) != f.mask.Len() {
		return false
	}
	for i, t := range f.mask.tokens {
		if t.Editable() && f.buf[i] == f.mask.prompt {
			return false
		}
	}
	return true
}

// Focused reports the focus flag.
func (f *Field) Focused() bool { return f.focused }

// Focus shows the empty mask in an empty field and selects the content.
func (f *Field) Focus() {
	if f.focused {
		return
	}
	f.focused = true
	value := f.Value()
	if value == "" && f.mask.Enabled() {
		f.setBuffer(f.mask.emptyRunes())
	}
	f.committed = f.normalize(value)
	if value != "" {
		f.start, f.end = 0, len(f.buf)
	} else {
		f.start, f.end = 0, 0
	}
}

// Blur leaves the field. A value equal to the empty mask collapses to "".
// It reports whether the value changed since focus or the last commit.
func (f *Field) Blur() bool {
	if !f.focused {
		return false
	}
	f.focused = false
	if f.mask.Enabled() && f.Value() == f.mask.Empty() {
		f.setBuffer(nil)
		f.start, f.end = 0, 0
	}
	return f.change()
}

// Commit records the current value, firing OnChange when it differs from
// the previously committed one.
func (f *Field) Commit() bool { return f.change() }

func (f *Field) change() bool {
	value := f.normalize(f.Value())
	if value == f.committed {
		return false
	}
	f.committed = value
	if f.opts.OnChange != nil {
		f.opts.OnChange(value)
	}
	return true
}

// normalize treats the empty mask as no value.
func (f *Field) normalize(v string) string {
	if f.mask.Enabled() && v == f.mask.Empty() {
		return ""
	}
	return v
}

// Selection returns the half-open selected range. An empty range is the caret.
func (f *Field) Selection() (start, end int) { return f.start, f.end }

// Caret returns the selection start.
func (f *Field) Caret() int { return f.start }

// Select sets the selection, clamped to the buffer.
func (f *Field) Select(start, end int) {
	n := len(f.buf)
	start = clamp(start, 0, n)
	end = clamp(end, 0, n)
	if end < start {
		start, end = end, start
	}
	f.start, f.end = start, end
}

// setBuffer replaces the buffer and invalidates the unmask memo.
func (f *Field) setBuffer(buf []rune) {
	f.buf = buf
	f.gen++
	f.memo.valid = false
}

// setCaret collapses the selection at pos, but only while focused.
func (f *Field) setCaret(pos int) {
	if !f.focused {
		return
	}
	pos = clamp(pos, 0, len(f.buf))
	f.start, f.end = pos, pos
}

// current returns the buffer, or the empty mask when the buffer does not
// have mask length.
func (f *Field) current() []rune {
	if len(f.buf) == f.mask.Len() {
		return f.buf
	}
	return f.mask.emptyRunes()
}

// unmask reads probe against the tokens from start, using the buffer as
// group context. The last result is reused for an identical probe.
func (f *Field) unmask(probe []rune, start int) []rune {
	key := string(probe)
	if f.memo.valid && f.memo.gen == f.gen && f.memo.start == start && f.memo.probe == key {
		return slices.Clone(f.memo.result)
	}
	result := f.mask.unmask(probe, start, f.buf)
	f.memo = unmaskMemo{valid: true, gen: f.gen, start: start, probe: key, result: result}
	return slices.Clone(result)
}

// apply writes inserted into the buffer from the editable position nearest
// start, shifting the raw content found after end behind it and prompting
// every vacated position. It returns the new caret and how many inserted
// runes were accepted.
func (f *Field) apply(start, end int, inserted []rune, backward bool) (caret, accepted int) {
	m := f.mask
	buf := f.current()
	n := m.Len()

	start = m.find(buf, start, backward)
	if start < 0 {
		start = m.find(buf, 0, false)
	}
	if start > end {
		end = start
	}

	var trailing []rune
	if end < n {
		trailing = f.unmask(buf[end:], end)
	}
	ins := f.unmask(inserted, start)
	if len(ins) > 0 {
		trailing = trimPrompts(trailing, m.prompt, len(ins))
	}
	stream := append(ins, trailing...)

	out := slices.Clone(buf)
	caret = -1
	k := 0
	for pos := start; pos < n; pos = m.find(out, pos+1, false) {
		if k < len(stream) {
			out[pos] = stream[k]
		} else {
			out[pos] = m.prompt
		}
		k++
		if caret < 0 && k > len(ins) {
			caret = pos
		}
	}
	if caret < 0 {
		caret = n
	}

	f.setBuffer(out)
	f.setCaret(caret)
	return caret, len(ins)
}

// trimPrompts drops at most limit leading prompts.
func trimPrompts(rs []rune, prompt rune, limit int) []rune {
	i := 0
	for i < len(rs) && i < limit && rs[i] == prompt {
		i++
	}
	return rs[i:]
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
