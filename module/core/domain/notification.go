package domain

// Payload is a queued notification event. There is no enforced schema beyond
// "valid JSON object"; every accessor tolerates missing or oddly typed fields.
type Payload map[string]any

// Token resolves the device token from `fcm_token` at the top level, falling
// back to `notification.fcm_token`. Empty string means the payload carries no
// resolvable token.
func (p Payload) Token() string {
	if tok := stringField(p, "fcm_token"); tok != "" {
		return tok
	}
	if n, ok := p["notification"].(map[string]any); ok {
		return stringField(n, "fcm_token")
	}
	return ""
}

func (p Payload) Title() string {
	return stringField(p, "title")
}

// Event returns the `event` sub-object when present, otherwise the payload
// itself acts as the event.
func (p Payload) Event() map[string]any {
	if ev, ok := p["event"].(map[string]any); ok {
		return ev
	}
	return p
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}
