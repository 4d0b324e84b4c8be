package entity

import "strings"

const iranCountryCode = "98"

// NormalizePhone converts Iranian national numbers (09123456789, 9123456789,
// 00989123456789, 989123456789) and E.164 input into E.164 form.
// Separators such as spaces, dashes and parentheses are ignored.
func NormalizePhone(raw string) (string, error) {
	var b strings.Builder
	for i, r := range strings.TrimSpace(raw) {
		switch {
		case r == '+' && i == 0:
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '(' || r == ')':
		default:
			// persian and arabic-indic digits are accepted as well.
			d := digitValue(r)
			if d < 0 {
				return "", ErrInvalidPhone
			}
			b.WriteByte(byte('0' + d))
		}
	}

	s := b.String()
	switch {
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	case strings.HasPrefix(s, "00"):
		s = s[2:]
	case strings.HasPrefix(s, "0"):
		s = iranCountryCode + s[1:]
	case len(s) == 10 && strings.HasPrefix(s, "9"):
		s = iranCountryCode + s
	}

	if len(s) < 8 || len(s) > 15 || s[0] == '0' {
		return "", ErrInvalidPhone
	}

	if strings.HasPrefix(s, iranCountryCode) && (len(s) != 12 || s[2] != '9') {
		return "", ErrInvalidPhone
	}

	return "+" + s, nil
}

func digitValue(r rune) int {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0')
	case r >= '۰' && r <= '۹':
		return int(r - '۰')
	case r >= '٠' && r <= '٩':
		return int(r - '٠')
	default:
		return -1
	}
}
