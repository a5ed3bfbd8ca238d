package utils

import (
	"fmt"
	"net/url"
	"strings"
)

// BuildWhatsAppLink produces the deep link handed to the client after a
// successful submission. Delivery past this URL is not our problem.
func BuildWhatsAppLink(phone string, text string) string {
	phone = strings.TrimPrefix(strings.TrimSpace(phone), "+")
	if phone == "" {
		return ""
	}
	return fmt.Sprintf("https://wa.me/%s?text=%s", phone, url.QueryEscape(text))
}
