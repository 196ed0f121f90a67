package mask

import (
	"strings"
	"unicode"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NumberFormat holds the locale strings substituted for the '.', ',' and
// '$' pattern literals.
type NumberFormat struct {
	Decimal  string
	Group    string
	Currency string
}

// DefaultNumberFormat is used when no locale data is available.
var DefaultNumberFormat = NumberFormat{Decimal: ".", Group: ",", Currency: "$"}

// NumberFormatter resolves a locale id to its number format.
type NumberFormatter interface {
	NumberFormat(locale string) NumberFormat
}

// StaticFormats is a fixed locale table. Unknown locales fall back to the
// "" entry, then to DefaultNumberFormat.
type StaticFormats map[string]NumberFormat

func (s StaticFormats) NumberFormat(locale string) NumberFormat {
	if nf, ok := s[locale]; ok {
		return nf
	}
	if nf, ok := s[""]; ok {
		return nf
	}
	return DefaultNumberFormat
}

// LocaleFormatter derives number formats from CLDR data in x/text.
// Unparseable or empty locale ids resolve to Fallback, or American English
// when Fallback is unset.
type LocaleFormatter struct {
	Fallback language.Tag
}

func (l LocaleFormatter) NumberFormat(locale string) NumberFormat {
	tag := l.Fallback
	if tag == language.Und {
		tag = language.AmericanEnglish
	}
	if locale != "" {
		if t, err := language.Parse(locale); err == nil {
			tag = t
		}
	}

	p := message.NewPrinter(tag)
	nf := DefaultNumberFormat
	if sep := firstSeparator(p.Sprintf("%.1f", 1.5)); sep != "" {
		nf.Decimal = sep
	}
	if sep := firstSeparator(p.Sprintf("%d", 1000000)); sep != "" {
		nf.Group = sep
	}
	if unit, conf := currency.FromTag(tag); conf != language.No {
		if sym := currencySymbol(p, unit); sym != "" {
			nf.Currency = sym
		}
	}
	return nf
}

// currencySymbol formats one unit of money and keeps what precedes the
// number.
func currencySymbol(p *message.Printer, unit currency.Unit) string {
	s := p.Sprint(currency.Symbol(unit.Amount(1)))
	if i := strings.IndexFunc(s, unicode.IsDigit); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// firstSeparator returns the first non-digit rune of a formatted number.
func firstSeparator(s string) string {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return string(r)
		}
	}
	return ""
}
