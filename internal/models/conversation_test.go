package models

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestDMKeyForIsOrderIndependent(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	if DMKeyFor(a, b) != DMKeyFor(b, a) {
		t.Fatal("key must not depend on argument order")
	}

	key := DMKeyFor(a, b)
	parts := strings.Split(key, ":")
	if len(parts) != 2 {
		t.Fatalf("key %q", key)
	}
	if parts[0] > parts[1] {
		t.Fatal("key halves must be sorted")
	}
}

func TestDMKeyForDistinctPairs(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	c := uuid.New()

	if DMKeyFor(a, b) == DMKeyFor(a, c) {
		t.Fatal("different pairs must get different keys")
	}
}
