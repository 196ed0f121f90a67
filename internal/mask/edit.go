package mask

import (
	"slices"
)

// Backspace deletes the selection, or the editable position before the
// caret. A literal before the caret is stepped over instead of deleted.
func (f *Field) Backspace() { f.remove(true) }

// Delete deletes the selection, or the editable position at the caret.
func (f *Field) Delete() { f.remove(false) }

func (f *Field) remove(backward bool) {
	if !f.mask.Enabled() {
		f.removePlain(backward)
		return
	}

	start, end := f.start, f.end
	if start == end {
		if backward {
			start--
		} else {
			end++
		}
		found := f.mask.find(f.current(), start, backward)
		if found != start {
			if backward {
				found++
			}
			f.setCaret(found)
			return
		}
	}
	if start > -1 {
		f.apply(start, end, nil, backward)
	}
}

// Type enters r at the selection. A rune the position's rule rejects
// leaves buffer and caret untouched.
func (f *Field) Type(r rune) {
	f.insert([]rune{r}, true)
}

// TypeString enters s rune by rune, as if typed.
func (f *Field) TypeString(s string) {
	for _, r := range s {
		f.Type(r)
	}
}

func (f *Field) insert(text []rune, trimPrompt bool) {
	if !f.mask.Enabled() {
		f.insertPlain(text)
		return
	}
	buf := f.current()
	if len(text) > 0 && !f.fitsSelection(buf, text) {
		return
	}
	var trailing []rune
	if f.end < len(buf) {
		trailing = f.unmask(buf[f.end:], f.end)
	}
	f.insertString(f.start, text, trailing, trimPrompt)
}

// fitsSelection checks text against the content around the selection. A
// group keeps the runes outside the selection, so a rune completing it to
// a rejected value fails here before anything is blanked.
func (f *Field) fitsSelection(buf, text []rune) bool {
	n := f.mask.Len()
	start := clamp(f.start, 0, n)
	end := clamp(f.end, start, n)
	ctx := slices.Clone(buf)
	for i := start; i < end; i++ {
		if f.mask.tokens[i].Editable() {
			ctx[i] = f.mask.prompt
		}
	}
	pos := f.mask.find(ctx, start, false)
	if pos < 0 || pos >= n {
		return true
	}
	return len(f.mask.unmask(text, pos, ctx)) > 0
}

// insertString blanks the buffer from start, masks text in, then replays
// the previously captured trailing raw content behind it.
func (f *Field) insertString(start int, text, trailing []rune, trimPrompt bool) {
	n := f.mask.Len()
	start = clamp(start, 0, n)
	prevBuf := f.buf
	prevStart, prevEnd := f.start, f.end

	prefix := f.buf
	if len(prefix) < start {
		prefix = f.mask.empty
	}
	blank := make([]rune, 0, n)
	blank = append(blank, prefix[:start]...)
	blank = append(blank, f.mask.empty[start:]...)
	f.setBuffer(blank)

	caret, accepted := f.apply(start, start, text, false)
	if accepted == 0 && len(text) > 0 && len(prevBuf) == n {
		f.setBuffer(prevBuf)
		f.start, f.end = prevStart, prevEnd
		return
	}

	if trimPrompt && start != caret && len(trailing) > 0 && trailing[0] == f.mask.prompt {
		trailing = trailing[1:]
	}
	f.apply(caret, caret, trailing, false)
	f.setCaret(caret)
}

// PasteToken carries what the first paste phase observed.
type PasteToken struct {
	start    int
	end      int
	trailing []rune
	gen      uint64
}

// BeginPaste is the first phase of a paste. It records the selection and
// the raw content behind it, then performs the plain insertion a text
// field would: text spliced over the selection, caret after it. The buffer
// is unmasked until CompletePaste runs.
func (f *Field) BeginPaste(text string) PasteToken {
	buf := f.buf
	if f.mask.Enabled() {
		buf = f.current()
	}
	start := clamp(f.start, 0, len(buf))
	end := clamp(f.end, start, len(buf))

	var trailing []rune
	if f.mask.Enabled() && end < len(buf) {
		trailing = f.unmask(buf[end:], end)
	}

	ins := []rune(text)
	spliced := make([]rune, 0, len(buf)+len(ins))
	spliced = append(spliced, buf[:start]...)
	spliced = append(spliced, ins...)
	spliced = append(spliced, buf[end:]...)
	f.setBuffer(spliced)
	f.start, f.end = start+len(ins), start+len(ins)

	return PasteToken{start: start, end: end, trailing: trailing, gen: f.gen}
}

// CompletePaste is the second phase of a paste. It reads back the text
// inserted between the recorded start and the caret and replays it through
// the masking path. It does nothing and returns false when the buffer was
// changed after BeginPaste.
func (f *Field) CompletePaste(tok PasteToken) bool {
	if tok.gen != f.gen {
		return false
	}
	if !f.mask.Enabled() {
		return true
	}
	caret := clamp(f.start, tok.start, len(f.buf))
	pasted := slices.Clone(f.buf[tok.start:caret])
	f.insertString(tok.start, pasted, tok.trailing, false)
	return true
}

// Paste runs both paste phases back to back.
func (f *Field) Paste(text string) {
	f.CompletePaste(f.BeginPaste(text))
}

// Reconcile takes a display string edited outside the field (an input
// method, autocompletion) together with the caret it left, and masks the
// difference in.
func (f *Field) Reconcile(display string, caret int) {
	if !f.mask.Enabled() {
		f.setBuffer([]rune(display))
		f.setCaret(caret)
		return
	}
	if display == f.Value() {
		return
	}
	v := []rune(display)
	caret = clamp(caret, 0, len(v))
	prev := f.current()

	if d := len(v) - len(prev); d > 0 {
		start := max(caret-d, 0)
		content := slices.Clone(v[start:caret])
		rest := make([]rune, 0, len(prev))
		rest = append(rest, v[:start]...)
		rest = append(rest, v[caret:]...)
		if len(rest) != f.mask.Len() {
			rest = prev
		}
		f.setBuffer(rest)
		f.apply(start, start, content, false)
		return
	}

	start := min(caret, f.mask.Len())
	raw := f.mask.unmask(v[start:], start, prev)
	blank := make([]rune, 0, f.mask.Len())
	blank = append(blank, v[:start]...)
	blank = append(blank, f.mask.empty[len(blank):]...)
	f.setBuffer(blank)
	f.apply(start, start, raw, false)
	f.setCaret(start)
}

// Left moves the caret one position left, or to the selection start.
func (f *Field) Left() {
	if f.start != f.end {
		f.end = f.start
		return
	}
	f.setCaret(f.start - 1)
}

// Right moves the caret one position right, or to the selection end.
func (f *Field) Right() {
	if f.start != f.end {
		f.start = f.end
		return
	}
	f.setCaret(f.end + 1)
}

// Home moves the caret to the first position.
func (f *Field) Home() { f.setCaret(0) }

// End moves the caret after the last position.
func (f *Field) End() { f.setCaret(len(f.buf)) }

// SelectAll selects the whole buffer.
func (f *Field) SelectAll() { f.Select(0, len(f.buf)) }

func (f *Field) insertPlain(text []rune) {
	start, end := clamp(f.start, 0, len(f.buf)), clamp(f.end, 0, len(f.buf))
	out := make([]rune, 0, len(f.buf)+len(text))
	out = append(out, f.buf[:start]...)
	out = append(out, text...)
	out = append(out, f.buf[end:]...)
	f.setBuffer(out)
	f.setCaret(start + len(text))
}

func (f *Field) removePlain(backward bool) {
	start, end := clamp(f.start, 0, len(f.buf)), clamp(f.end, 0, len(f.buf))
	if start == end {
		if backward {
			start--
		} else {
			end++
		}
	}
	if start < 0 || end > len(f.buf) {
		return
	}
	out := make([]rune, 0, len(f.buf))
	out = append(out, f.buf[:start]...)
	out = append(out, f.buf[end:]...)
	f.setBuffer(out)
	f.setCaret(start)
}
