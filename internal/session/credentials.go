package session

import "strings"

// ParseCredentials splits a comma separated list of API keys, trimming
// whitespace and dropping empty entries. Order is preserved.
func ParseCredentials(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if key := strings.TrimSpace(part); key != "" {
			out = append(out, key)
		}
	}
	return out
}

// SelectCredential returns selected when it is one of keys, otherwise the
// first key. Empty keys yields "".
func SelectCredential(keys []string, selected string) string {
	if len(keys) == 0 {
		return ""
	}
	for _, k := range keys {
		if k == selected {
			return k
		}
	}
	return keys[0]
}

// MaskCredential hides all but the last four characters of a key.
func MaskCredential(key string) string {
	r := []rune(key)
	if len(r) <= 4 {
		return strings.Repeat("•", len(r))
	}
	return strings.Repeat("•", 8) + string(r[len(r)-4:])
}
