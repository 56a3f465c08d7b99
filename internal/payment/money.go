package payment

import "fmt"

// FormatMinorUnits renders minor units as a two-decimal amount, e.g. 10050 -> "100.50".
func FormatMinorUnits(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return fmt.Sprintf("%s%d.%02d", sign, amount/100, amount%100)
}
