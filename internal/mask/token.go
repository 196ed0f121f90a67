package mask

// Kind discriminates the token variants.
type Kind uint8

const (
	KindLiteral Kind = iota
	KindRule
	KindGroup
)

func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindRule:
		return "rule"
	case KindGroup:
		return "group"
	default:
		return "unknown"
	}
}

// Group is a run of positions whose rule applies to their concatenated
// text. All tokens of one group share the same *Group.
type Group struct {
	ID    int
	Start int // display index of the first position
	Key   string
	Rule  Rule
	width int
}

// Width is the number of display positions the group covers.
func (g *Group) Width() int { return g.width }

// Token describes one display position.
type Token struct {
	Kind     Kind
	Position int  // rune index in the mask pattern
	Text     rune // fixed text for literals, pattern key rune for slots
	Rule     Rule
	Group    *Group
	Offset   int // index within Group
}

// Editable reports whether user content may occupy the position.
func (t Token) Editable() bool { return t.Kind != KindLiteral }
