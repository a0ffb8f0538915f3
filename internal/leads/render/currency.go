// Package render turns quotes into the texts and documents sent to customers.
package render

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.AmericanEnglish)

var currencySymbols = map[string]string{
	"USD": "$",
	"CAD": "$",
	"AUD": "$",
	"EUR": "€",
	"GBP": "£",
}

// FormatMoney renders v with two decimals and thousands separators,
// prefixed by the currency symbol, e.g. "$1,836.36".
func FormatMoney(currency string, v float64) string {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if code == "" {
		code = "USD"
	}
	prefix, ok := currencySymbols[code]
	if !ok {
		prefix = code + " "
	}

	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return sign + prefix + printer.Sprint(number.Decimal(v, number.Scale(2)))
}
