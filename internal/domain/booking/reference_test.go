package booking

import (
	"strings"
	"testing"
)

func TestNewReferenceShape(t *testing.T) {
	ref := NewReference()

	if !strings.HasPrefix(ref, "BK-") {
		t.Fatalf("reference %q missing prefix", ref)
	}
	if len(ref) != len("BK-")+8 {
		t.Fatalf("reference %q has wrong length", ref)
	}

	for _, ch := range ref[3:] {
		if !strings.ContainsRune(refCharset, ch) {
			t.Errorf("reference %q contains %q outside the alphabet", ref, ch)
		}
	}
}

func TestNewReferenceAvoidsLookalikes(t *testing.T) {
	// 0, O, 1 and I are excluded so references survive being read aloud.
	for _, banned := range "0O1I" {
		if strings.ContainsRune(refCharset, banned) {
			t.Errorf("alphabet contains lookalike %q", banned)
		}
	}
}

func TestNewReferenceVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		seen[NewReference()] = true
	}
	if len(seen) < 100 {
		t.Fatalf("got %d distinct references out of 100", len(seen))
	}
}
