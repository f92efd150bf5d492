package renderer

import "testing"

func TestSetBudget(t *testing.T) {
	b := setBudget{capacity: 4}
	if err := b.reserve(2); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := b.reserve(2); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := b.reserve(1); err == nil {
		t.Errorf("Reserving beyond the capacity should fail")
	}
	if b.inUse != 4 {
		t.Errorf("Failed reserve must not change the count, got %d", b.inUse)
	}

	// partial release makes exactly the released sets available again
	b.release(2)
	if b.inUse != 2 {
		t.Errorf("Expected 2 sets in use after partial release, got %d", b.inUse)
	}
	if err := b.reserve(2); err != nil {
		t.Errorf("Released sets should be reservable again: %v", err)
	}
	if err := b.reserve(1); err == nil {
		t.Errorf("Partial release must not free more than was released")
	}
}

func TestSetBudgetOverRelease(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("Releasing more sets than in use should panic")
		}
	}()
	b := setBudget{capacity: 2, inUse: 1}
	b.release(2)
}
