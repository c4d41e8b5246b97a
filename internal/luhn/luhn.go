// Package luhn implements the mod-10 checksum used to validate payment card
// numbers. All functions operate on ASCII digit strings.
package luhn

// Valid reports whether the digit string passes the Luhn checksum test.
// It reads digits right-to-left, doubling every second digit (starting at the
// second-from-right) and subtracting 9 from results above 9. Returns false for
// empty strings or strings containing non-digit characters.
func Valid(digits string) bool {
	if digits == "" || !IsDigits(digits) {
		return false
	}
	return checksum(digits)%10 == 0
}

// CheckDigit computes the Luhn check digit for the given body (the card number
// without its final digit). The returned byte is an ASCII digit ready to be
// appended. The body must contain only digits.
func CheckDigit(body string) byte {
	// The appended digit lands at an even position from the right, so the body
	// itself is summed with doubling starting at its rightmost digit.
	sum, dbl := 0, true
	for i := len(body) - 1; i >= 0; i-- {
		d := int(body[i] - '0')
		if dbl {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		dbl = !dbl
	}
	return '0' + byte((10-(sum%10))%10)
}

// IsDigits reports whether every byte of s is an ASCII digit.
// The empty string is vacuously true.
func IsDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// checksum sums the full digit string with doubling on alternating positions
// starting at the second-from-right digit.
func checksum(digits string) int {
	sum, dbl := 0, false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if dbl {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		dbl = !dbl
	}
	return sum
}
