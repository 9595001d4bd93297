package services

import "strings"

// Setting keys resolved per client with a global fallback.
const (
	SettingRecipient     = "email"
	SettingSenderAddress = "email_from"
	SettingSenderName    = "email_from_name"
	SettingEmailBody     = "email_body"
	SettingDisableFlood  = "disable_flood_protection"
)

// ClientSettings holds the effective module configuration: global defaults
// plus per-client overrides. Read-only at request time.
type ClientSettings struct {
	Defaults map[string]string
	Clients  map[string]map[string]string
}

// Resolve returns the value for key, preferring the client-scoped override
// over the global default. The second result is false when neither level
// defines a non-empty value.
func (s ClientSettings) Resolve(client, key string) (string, bool) {
	if overrides, ok := s.Clients[client]; ok {
		if value, ok := overrides[key]; ok && value != "" {
			return value, true
		}
	}
	if value, ok := s.Defaults[key]; ok && value != "" {
		return value, true
	}
	return "", false
}

// FloodProtectionDisabled reports whether rate limiting is switched off for
// the given client.
func (s ClientSettings) FloodProtectionDisabled(client string) bool {
	value, ok := s.Resolve(client, SettingDisableFlood)
	if !ok {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	default:
		return false
	}
}
