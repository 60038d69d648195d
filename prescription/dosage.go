package prescription

import "strings"

// maxDosageDigits bounds the canonical token to morning-afternoon-evening.
const maxDosageDigits = 3

// dosageDigits projects raw input onto its digits, in order, keeping at
// most the first three. Everything else a user types (hyphens, spaces,
// letters) is discarded, which makes reformatting idempotent: feeding a
// formatted token back in yields the same token.
func dosageDigits(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			if b.Len() == maxDosageDigits {
				break
			}
		}
	}
	return b.String()
}

// NormalizeDosage converts free-text dosage input into the canonical
// dash-separated token as the user types:
//
//	""    -> ""
//	"1"   -> "1"      (pending completion)
//	"10"  -> "1-0"
//	"105" -> "1-0-5"
//
// Digits beyond the third are silently dropped. The result never exceeds
// five characters.
func NormalizeDosage(raw string) string {
	digits := dosageDigits(raw)
	switch len(digits) {
	case 0:
		return ""
	case 1:
		return digits
	case 2:
		return digits[:1] + "-" + digits[1:]
	default:
		return digits[:1] + "-" + digits[1:2] + "-" + digits[2:]
	}
}

// CompleteDosage finishes a partial token on field blur: one entered
// digit becomes "d-0-0", two become "d-d-0". A fully formed token (or an
// empty one) is returned unchanged apart from normalization.
func CompleteDosage(raw string) string {
	digits := dosageDigits(raw)
	switch len(digits) {
	case 1:
		return digits + "-0-0"
	case 2:
		return digits[:1] + "-" + digits[1:] + "-0"
	default:
		return NormalizeDosage(raw)
	}
}
