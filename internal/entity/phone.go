package entity

import "regexp"

var nonDigits = regexp.MustCompile(`\D`)

// NormalizePhone strips everything but digits and prefixes the US country
// code on bare 10 digit numbers.
func NormalizePhone(raw string) string {
	digits := nonDigits.ReplaceAllString(raw, "")
	if len(digits) == 10 && digits[0] != '1' {
		digits = "1" + digits
	}
	return digits
}
