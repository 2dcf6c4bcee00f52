package mpesa

import "strings"

const countryCode = "254"

// NormalizePhone rewrites a Kenyan phone number into the 2547XXXXXXXX form
// the API expects. Values already in that form are returned unchanged.
func NormalizePhone(phone string) string {
	switch {
	case strings.HasPrefix(phone, "+"+countryCode):
		return phone[1:]
	case strings.HasPrefix(phone, "0"):
		return countryCode + phone[1:]
	default:
		return phone
	}
}

// MaskPhone keeps the last four digits for logging.
func MaskPhone(phone string) string {
	if len(phone) <= 4 {
		return "****"
	}
	return "****" + phone[len(phone)-4:]
}
