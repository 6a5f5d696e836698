package postgres

import (
	"encoding/json"
	"strings"
)

// Notification is the NOTIFY payload a Set sends.
type Notification struct {
	Key    string `json:"key"`
	Origin string `json:"origin,omitempty"`
}

func (n Notification) Encode() (string, error) {
	b, err := json.Marshal(n)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// ParseNotification decodes a payload. A payload that is not a JSON object,
// such as one sent by hand with NOTIFY, is taken as a bare key.
func ParseNotification(payload string) Notification {
	var n Notification
	if strings.HasPrefix(payload, "{") && json.Unmarshal([]byte(payload), &n) == nil && n.Key != "" {
		return n
	}

	return Notification{Key: payload}
}

// ExternalKey returns the changed key if the payload reports a write made
// by anyone other than origin.
func ExternalKey(payload, origin string) (string, bool) {
	n := ParseNotification(payload)
	if origin != "" && n.Origin == origin {
		return "", false
	}

	return n.Key, true
}
