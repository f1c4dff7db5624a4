package identity

import (
	"testing"

	"github.com/google/uuid"
)

func TestPageUUIDIsStable(t *testing.T) {
	first := PageUUID("about-page")
	second := PageUUID("  About-Page ")
	if first == uuid.Nil {
		t.Fatalf("expected non-nil id")
	}
	if first != second {
		t.Fatalf("expected normalised keys to match, got %s and %s", first, second)
	}
	if PageUUID("home-page") == first {
		t.Fatalf("expected distinct schemas to get distinct ids")
	}
}

func TestUUIDEmptyKey(t *testing.T) {
	if got := UUID("   "); got != uuid.Nil {
		t.Fatalf("expected nil uuid for empty key, got %s", got)
	}
}
