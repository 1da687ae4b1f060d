package pdf

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.BrazilianPortuguese)

// FormatBRL formatea un valor monetario en reales: "R$ 1.234,50".
func FormatBRL(d decimal.Decimal) string {
	return printer.Sprintf("R$ %.2f", d.Round(2).InexactFloat64())
}

// FormatPercent formatea un porcentaje con dos decimales: "45,00%".
func FormatPercent(d decimal.Decimal) string {
	return printer.Sprintf("%.2f%%", d.Round(2).InexactFloat64())
}
