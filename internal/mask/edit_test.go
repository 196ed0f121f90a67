package mask

import (
	"math/rand"
	"testing"
)

// focusedPhone returns a focused phone field with the caret at pos.
func focusedPhone(value string, pos int) *Field {
	f := newPhone(value)
	f.Focus()
	f.Select(pos, pos)
	return f
}

func assertField(t *testing.T, f *Field, value string, caret int) {
	t.Helper()
	if got := f.Value(); got != value {
		t.Fatalf("value = %q, want %q", got, value)
	}
	if got := f.Caret(); got != caret {
		t.Fatalf("caret = %d, want %d", got, caret)
	}
}

func TestBackspace(t *testing.T) {
	tests := []struct {
		name  string
		caret int
		want  string
		pos   int
	}{
		{"last slot", 14, "(555) 123-456_", 13},
		{"over dash", 10, "(555) 123-4567", 9},
		{"shifts tail left", 9, "(555) 124-567_", 8},
		{"over space and paren", 6, "(555) 123-4567", 4},
		{"first slot", 2, "(551) 234-567_", 1},
		{"at start", 0, "(555) 123-4567", 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := focusedPhone("5551234567", tc.caret)
			f.Backspace()
			assertField(t, f, tc.want, tc.pos)
		})
	}
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name  string
		caret int
		want  string
		pos   int
	}{
		{"over paren", 0, "(555) 123-4567", 1},
		{"first slot", 1, "(551) 234-567_", 1},
		{"over dash", 9, "(555) 123-4567", 10},
		{"last slot", 13, "(555) 123-456_", 13},
		{"at end", 14, "(555) 123-4567", 14},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := focusedPhone("5551234567", tc.caret)
			f.Delete()
			assertField(t, f, tc.want, tc.pos)
		})
	}
}

func TestBackspaceSelection(t *testing.T) {
	f := focusedPhone("5551234567", 0)
	f.Select(1, 4)
	f.Backspace()
	assertField(t, f, "(123) 456-7___", 1)
}

func TestTypeFromEmpty(t *testing.T) {
	f := focusedPhone("", 0)
	f.TypeString("5551234567")
	assertField(t, f, "(555) 123-4567", 14)
	if got := f.Raw(); got != "5551234567" {
		t.Fatalf("raw = %q", got)
	}
}

func TestTypeSkipsLiterals(t *testing.T) {
	f := focusedPhone("", 0)
	f.TypeString("555")
	assertField(t, f, "(555) ___-____", 6)
	f.Type('1')
	assertField(t, f, "(555) 1__-____", 7)
}

func TestTypeInsertsAndDropsOverflow(t *testing.T) {
	f := focusedPhone("5551234567", 1)
	f.Type('9')
	assertField(t, f, "(955) 512-3456", 2)
}

func TestTypeReplacesSelection(t *testing.T) {
	f := focusedPhone("5551234567", 0)
	f.Select(1, 4)
	f.Type('9')
	assertField(t, f, "(912) 345-67__", 2)
}

func TestTypeRejectedRuneLeavesFieldUntouched(t *testing.T) {
	for _, r := range []rune{'a', '-', '(', 'x'} {
		f := focusedPhone("5551234567", 6)
		f.Type(r)
		assertField(t, f, "(555) 123-4567", 6)
	}

	f := focusedPhone("555", 6)
	f.Type('z')
	assertField(t, f, "(555) ___-____", 6)
}

func TestTypeAtEndOfFullField(t *testing.T) {
	f := focusedPhone("5551234567", 14)
	f.Type('1')
	assertField(t, f, "(555) 123-4567", 14)
}

func TestPaste(t *testing.T) {
	f := focusedPhone("5551234567", 1)
	f.Paste("999")
	assertField(t, f, "(999) 555-1234", 6)

	f = focusedPhone("5551234567", 0)
	f.Select(1, 4)
	f.Paste("999")
	assertField(t, f, "(999) 123-4567", 6)
}

func TestPasteFormattedText(t *testing.T) {
	f := focusedPhone("", 0)
	f.Paste("(555) 123-4567")
	if got := f.Value(); got != "(555) 123-4567" {
		t.Fatalf("value = %q", got)
	}
}

func TestPasteTwoPhases(t *testing.T) {
	f := focusedPhone("5551234567", 1)
	tok := f.BeginPaste("999")
	if got := f.Value(); got != "(999555) 123-4567" {
		t.Fatalf("intermediate value = %q", got)
	}
	if !f.CompletePaste(tok) {
		t.Fatal("paste was not completed")
	}
	assertField(t, f, "(999) 555-1234", 6)
}

func TestPasteSupersededByLaterEdit(t *testing.T) {
	f := focusedPhone("5551234567", 1)
	tok := f.BeginPaste("999")
	f.SetValue("1112223333")
	if f.CompletePaste(tok) {
		t.Fatal("stale paste was applied")
	}
	if got := f.Value(); got != "(111) 222-3333" {
		t.Fatalf("value = %q", got)
	}
}

func TestPasteRejectedTextKeepsContent(t *testing.T) {
	f := focusedPhone("5551234567", 6)
	f.Paste("abc")
	if got := f.Value(); got != "(555) 123-4567" {
		t.Fatalf("value = %q", got)
	}
}

func TestReconcileInsertion(t *testing.T) {
	f := focusedPhone("555", 6)
	f.Reconcile("(555) 12___-____", 8)
	assertField(t, f, "(555) 12_-____", 8)
}

func TestReconcileDeletion(t *testing.T) {
	f := focusedPhone("5551234567", 14)
	f.Reconcile("(555) 123-456", 13)
	assertField(t, f, "(555) 123-456_", 13)

	f = focusedPhone("5551234567", 8)
	f.Reconcile("(555) 13-4567", 7)
	assertField(t, f, "(555) 134-567_", 7)
}

func TestCaretMovement(t *testing.T) {
	f := focusedPhone("5551234567", 5)
	f.Left()
	if f.Caret() != 4 {
		t.Fatalf("left: caret = %d", f.Caret())
	}
	f.Right()
	f.Right()
	if f.Caret() != 6 {
		t.Fatalf("right: caret = %d", f.Caret())
	}
	f.End()
	if f.Caret() != 14 {
		t.Fatalf("end: caret = %d", f.Caret())
	}
	f.Right()
	if f.Caret() != 14 {
		t.Fatalf("right past end: caret = %d", f.Caret())
	}
	f.Home()
	f.Left()
	if f.Caret() != 0 {
		t.Fatalf("left past start: caret = %d", f.Caret())
	}

	f.Select(2, 5)
	f.Left()
	if start, end := f.Selection(); start != 2 || end != 2 {
		t.Fatalf("left collapses selection to [%d,%d)", start, end)
	}
	f.Select(2, 5)
	f.Right()
	if start, end := f.Selection(); start != 5 || end != 5 {
		t.Fatalf("right collapses selection to [%d,%d)", start, end)
	}
	f.SelectAll()
	if start, end := f.Selection(); start != 0 || end != 14 {
		t.Fatalf("select all = [%d,%d)", start, end)
	}
}

func groupField() *Field {
	f := New(Options{
		Mask:  "RG-00",
		Rules: []RuleDef{{Key: "RG", Rule: OneOf("US", "EU")}},
	})
	f.Focus()
	return f
}

func TestGroupAcceptsValidValue(t *testing.T) {
	f := groupField()
	f.Type('U')
	assertField(t, f, "U_-__", 1)
	f.Type('S')
	assertField(t, f, "US-__", 3)
	f.TypeString("12")
	assertField(t, f, "US-12", 5)
	if got := f.Raw(); got != "US12" {
		t.Fatalf("raw = %q", got)
	}
}

func TestGroupRejectsInvalidCompletion(t *testing.T) {
	f := groupField()
	f.Type('U')
	f.Type('X')
	assertField(t, f, "U_-__", 1)
}

func TestGroupRejectsImpossiblePrefix(t *testing.T) {
	f := groupField()
	f.Type('X')
	assertField(t, f, "__-__", 0)
}

func TestGroupSetValue(t *testing.T) {
	f := New(Options{
		Mask:  "RG-00",
		Rules: []RuleDef{{Key: "RG", Rule: OneOf("US", "EU")}},
		Value: "EU42",
	})
	if got := f.Value(); got != "EU-42" {
		t.Fatalf("value = %q", got)
	}
	f.SetValue("XX42")
	if got := f.Value(); got != "" {
		t.Fatalf("value = %q, want empty", got)
	}
}

// Typing over part of a filled group checks the whole group before blanking.
func TestGroupTypeOverSelection(t *testing.T) {
	f := groupField()
	f.SetValue("US12")
	if got := f.Value(); got != "US-12" {
		t.Fatalf("value = %q", got)
	}

	f.Select(0, 1)
	f.Type('E')
	assertField(t, f, "US-12", 0)
	if start, end := f.Selection(); start != 0 || end != 1 {
		t.Fatalf("selection = [%d,%d), want [0,1)", start, end)
	}

	f.Type('U')
	assertField(t, f, "US-12", 1)
}

// Random edits never break the length invariant or overwrite a literal.
func TestEditsPreserveShape(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	const alphabet = "0123456789ab_ -()"
	f := focusedPhone("", 0)
	empty := f.Mask().Empty()

	for i := 0; i < 2000; i++ {
		switch rng.Intn(8) {
		case 0, 1:
			f.Type(rune(alphabet[rng.Intn(len(alphabet))]))
		case 2:
			f.Backspace()
		case 3:
			f.Delete()
		case 4:
			f.Select(rng.Intn(15), rng.Intn(15))
		case 5:
			n := rng.Intn(6)
			b := make([]byte, n)
			for j := range b {
				b[j] = alphabet[rng.Intn(len(alphabet))]
			}
			f.Paste(string(b))
		case 6:
			f.Left()
		case 7:
			f.Right()
		}

		v := []rune(f.Value())
		if len(v) != len(empty) {
			t.Fatalf("step %d: value %q has length %d", i, string(v), len(v))
		}
		for j, tok := range f.Mask().Tokens() {
			if tok.Kind == KindLiteral && v[j] != tok.Text {
				t.Fatalf("step %d: literal %d overwritten in %q", i, j, string(v))
			}
		}
	}
}

func TestValueSurvivesReassignment(t *testing.T) {
	f := focusedPhone("", 0)
	f.TypeString("55512")
	v := f.Value()
	f.SetValue(v)
	if got := f.Value(); got != v {
		t.Fatalf("reassigned value = %q, want %q", got, v)
	}
}
