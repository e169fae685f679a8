package view

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter renders prices with a currency symbol and locale digit
// grouping, e.g. ₹19,900.
type Formatter struct {
	symbol string
	tag    language.Tag
}

func NewFormatter(symbol string, tag language.Tag) *Formatter {
	return &Formatter{symbol: symbol, tag: tag}
}

// Format writes amount with thousands separators. Negative amounts keep the
// sign in front of the symbol.
func (f *Formatter) Format(amount int64) string {
	p := message.NewPrinter(f.tag)
	if amount < 0 {
		return "-" + f.symbol + p.Sprintf("%d", -amount)
	}
	return f.symbol + p.Sprintf("%d", amount)
}

// Number writes n with digit grouping and no symbol.
func (f *Formatter) Number(n int64) string {
	return message.NewPrinter(f.tag).Sprintf("%d", n)
}
