package zapi

import (
	"encoding/json"
	"regexp"
	"strings"
)

// The gateway has shipped several webhook shapes over time: flat string
// fields, a nested text object, and a stringified-map artifact. Extraction
// probes the known shapes in a fixed priority order (localized field names
// first) and degrades to an empty string rather than failing.

// textKeys is the priority order for top-level text fields.
var textKeys = []string{"mensagem", "texto", "message", "body", "text", "content"}

// nestedTextKeys is the priority order inside a one-level nested object.
var nestedTextKeys = []string{"mensagem", "text", "body", "message", "caption"}

// phoneKeys is the priority order for the sender identifier.
var phoneKeys = []string{"telefone", "phone", "from", "chatId", "sender"}

// phoneSuffixes are gateway JID decorations stripped from the raw value.
var phoneSuffixes = []string{"@c.us", "@s.whatsapp.net", "@g.us"}

var serializedTextPattern = regexp.MustCompile(`['"](?:mensagem|text|body|message|caption)['"]\s*[:=]\s*['"]([^'"]+)['"]`)

// InboundEvent is the decoded, best-effort view of a webhook body.
type InboundEvent struct {
	Phone string
	Text  string
}

// ParseInboundEvent decodes a raw webhook body and extracts the sender
// phone and message text. Both fields may be empty; callers treat an
// empty result as an event to ignore.
func ParseInboundEvent(body []byte) InboundEvent {
	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return InboundEvent{}
	}

	// Some revisions wrap the event in a "data" envelope.
	if data, ok := raw["data"].(map[string]interface{}); ok {
		raw = data
	}

	return InboundEvent{
		Phone: extractPhone(raw),
		Text:  extractText(raw),
	}
}

func extractPhone(raw map[string]interface{}) string {
	for _, key := range phoneKeys {
		value, ok := raw[key].(string)
		if !ok || value == "" {
			continue
		}
		for _, suffix := range phoneSuffixes {
			value = strings.TrimSuffix(value, suffix)
		}
		value = strings.TrimSpace(value)
		if value != "" {
			return value
		}
	}
	return ""
}

func extractText(raw map[string]interface{}) string {
	for _, key := range textKeys {
		value, ok := raw[key]
		if !ok {
			continue
		}

		switch v := value.(type) {
		case string:
			if text := strings.TrimSpace(v); text != "" {
				// A stringified map sneaks through some revisions of the
				// gateway; fish the text field out of it.
				if looksSerialized(text) {
					if inner := matchSerializedText(text); inner != "" {
						return inner
					}
					continue
				}
				return text
			}
		case map[string]interface{}:
			for _, nested := range nestedTextKeys {
				if inner, ok := v[nested].(string); ok {
					if text := strings.TrimSpace(inner); text != "" {
						return text
					}
				}
			}
		}
	}
	return ""
}

func looksSerialized(text string) bool {
	return strings.HasPrefix(text, "{") && strings.HasSuffix(text, "}")
}

func matchSerializedText(text string) string {
	match := serializedTextPattern.FindStringSubmatch(text)
	if len(match) == 2 {
		return strings.TrimSpace(match[1])
	}
	return ""
}
