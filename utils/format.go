package utils

import "strings"

// FormatPhoneNumber normalizes a phone number to (XXX)-XXX-XXXX, dropping
// any non-digit input characters. Inputs shorter than ten digits are
// formatted as far as they go; anything past ten digits is ignored.
func FormatPhoneNumber(raw string) string {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if len(d) > 10 {
		d = d[:10]
	}

	switch {
	case len(d) == 0:
		return ""
	case len(d) <= 3:
		return "(" + d
	case len(d) <= 6:
		return "(" + d[:3] + ")-" + d[3:]
	default:
		return "(" + d[:3] + ")-" + d[3:6] + "-" + d[6:]
	}
}

// JoinMajors joins the selected majors into the stored comma-joined string,
// keeping at most max values.
func JoinMajors(majors []string, max int) string {
	cleaned := SplitAndTrim(strings.Join(majors, ","))
	if len(cleaned) > max {
		cleaned = cleaned[:max]
	}
	return strings.Join(cleaned, ", ")
}

// SplitAndTrim splits a comma-separated value into its trimmed, non-empty
// parts, preserving order. Used for course lists and filter query params.
func SplitAndTrim(csv string) []string {
	parts := strings.Split(csv, ",")
	out := []string{}
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
