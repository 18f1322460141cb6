package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

const keyPrefix = "content-sync:"

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// PreferenceUUID is the record id of a visitor's locale preference.
func PreferenceUUID(visitorID string) uuid.UUID {
	visitorID = strings.TrimSpace(visitorID)
	if visitorID == "" {
		return uuid.Nil
	}
	return UUID(keyPrefix + "locale_preference:" + visitorID)
}

// VisitorUUID turns an opaque visitor token (a cookie value, an email) into
// a stable visitor id.
func VisitorUUID(token string) uuid.UUID {
	token = strings.ToLower(strings.TrimSpace(token))
	if token == "" {
		return uuid.Nil
	}
	return UUID(keyPrefix + "visitor:" + token)
}
