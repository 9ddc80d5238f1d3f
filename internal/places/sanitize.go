package places

import (
	"errors"
	"net/url"
	"strings"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/net/idna"
)

const (
	trackingPrefix     = "utm_"
	defaultPhoneRegion = "ID"
)

var (
	idnaProfile = idna.Lookup

	trackingParams = map[string]struct{}{
		"fbclid":  {},
		"gclid":   {},
		"msclkid": {},
		"igshid":  {},
	}
)

// normalizePhone formats raw in international notation. Numbers that cannot
// be parsed as valid are returned trimmed but otherwise untouched.
func normalizePhone(raw, region string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if region == "" {
		region = defaultPhoneRegion
	}
	number, err := phonenumbers.Parse(raw, strings.ToUpper(region))
	if err != nil {
		return raw
	}
	if !phonenumbers.IsPossibleNumber(number) || !phonenumbers.IsValidNumber(number) {
		return raw
	}
	return phonenumbers.Format(number, phonenumbers.INTERNATIONAL)
}

// sanitizeWebsite returns a canonical form of a business website, with an
// ASCII host and tracking parameters removed. Empty string means unusable.
func sanitizeWebsite(raw string) string {
	u, err := parseWebsite(raw)
	if err != nil {
		return ""
	}
	host, err := idnaProfile.ToASCII(strings.ToLower(u.Hostname()))
	if err != nil || host == "" || !isDomainValid(host) {
		return ""
	}
	if port := u.Port(); port != "" {
		host = host + ":" + port
	}
	u.Host = host
	stripTracking(u)
	return u.String()
}

func parseWebsite(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("empty url")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return nil, errors.New("invalid url")
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		u.Scheme = strings.ToLower(u.Scheme)
	default:
		return nil, errors.New("unsupported scheme")
	}
	u.Fragment = ""
	return u, nil
}

func stripTracking(u *url.URL) {
	if u == nil || u.RawQuery == "" {
		return
	}
	query := u.Query()
	changed := false
	for key := range query {
		lower := strings.ToLower(key)
		if _, ok := trackingParams[lower]; ok || strings.HasPrefix(lower, trackingPrefix) {
			query.Del(key)
			changed = true
		}
	}
	if changed {
		u.RawQuery = query.Encode()
	}
}

func isDomainValid(domain string) bool {
	if strings.Count(domain, ".") == 0 {
		return false
	}
	for _, part := range strings.Split(domain, ".") {
		if part == "" || strings.HasPrefix(part, "-") || strings.HasSuffix(part, "-") {
			return false
		}
	}
	return true
}
