package ratelimit

import (
	"testing"
	"time"
)

func TestMemberForUniqueAtSameInstant(t *testing.T) {
	now := time.Unix(0, 1757000000000000000)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		m := memberFor(now)
		if seen[m] {
			t.Fatalf("duplicate member %q for the same timestamp", m)
		}
		seen[m] = true
	}
}
