package validators

import (
	"net"
	"strings"
)

// IsEmailDomainValid does a cheap liveness check on the address domain:
// an MX record, or failing that any A/AAAA record, is good enough.
func IsEmailDomainValid(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return false
	}

	domain := email[at+1:]

	if mx, err := net.LookupMX(domain); err == nil && len(mx) > 0 {
		return true
	}

	ips, err := net.LookupIP(domain)
	return err == nil && len(ips) > 0
}
