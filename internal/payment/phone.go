package payment

import "strings"

const countryCode = "254"

var phoneStripper = strings.NewReplacer("-", "", "+", "")

// NormalizePhone rewrites a Kenyan mobile number to the 2547XXXXXXXX form Daraja expects.
// The pattern itself is checked at the HTTP edge, not here.
func NormalizePhone(phone string) string {
	p := phoneStripper.Replace(strings.Join(strings.Fields(phone), ""))
	switch {
	case strings.HasPrefix(p, "0"):
		return countryCode + p[1:]
	case !strings.HasPrefix(p, countryCode):
		return countryCode + p
	default:
		return p
	}
}
