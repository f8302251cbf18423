package security

// luhnValid reports whether s is a 13-19 digit string passing the Luhn
// mod-10 checksum. Any non-digit byte disqualifies the candidate, so
// formatted numbers with separators are never treated as card numbers.
func luhnValid(s string) bool {
	if len(s) < 13 || len(s) > 19 {
		return false
	}

	sum := 0
	double := false
	for i := len(s) - 1; i >= 0; i-- {
		c := s[i]
		if c < '0' || c > '9' {
			return false
		}

		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}

	return sum%10 == 0
}
