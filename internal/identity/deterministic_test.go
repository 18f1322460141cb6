package identity

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDIsStable(t *testing.T) {
	first := UUID("content-sync:test:key")
	second := UUID("content-sync:test:key")
	if first == uuid.Nil || first != second {
		t.Fatalf("expected stable non-nil uuid, got %s and %s", first, second)
	}
	if UUID("  ") != uuid.Nil {
		t.Fatalf("expected nil uuid for blank key")
	}
}

func TestPreferenceUUIDIgnoresSurroundingSpace(t *testing.T) {
	if PreferenceUUID("visitor-1") != PreferenceUUID(" visitor-1 ") {
		t.Fatalf("expected trimmed visitor ids to match")
	}
	if PreferenceUUID("visitor-1") == PreferenceUUID("visitor-2") {
		t.Fatalf("expected distinct visitors to differ")
	}
	if PreferenceUUID("") != uuid.Nil {
		t.Fatalf("expected nil uuid for empty visitor")
	}
}

func TestVisitorUUIDIsCaseInsensitive(t *testing.T) {
	if VisitorUUID("Legacy-Token") != VisitorUUID("legacy-token") {
		t.Fatalf("expected case-insensitive visitor ids")
	}
	if VisitorUUID("legacy-token") == PreferenceUUID("legacy-token") {
		t.Fatalf("expected visitor and preference keys to be namespaced apart")
	}
}
