package prize

import "testing"

func TestNewSelectorValidation(t *testing.T) {
	if _, err := NewSelector(nil); err == nil {
		t.Error("empty weights should be rejected")
	}
	if _, err := NewSelector([]int{3, 0, 2}); err == nil {
		t.Error("zero weight should be rejected")
	}
	if _, err := NewSelector([]int{3, -1, 2}); err == nil {
		t.Error("negative weight should be rejected")
	}
	if _, err := NewSelector([]int{1, 2, 3}); err != nil {
		t.Errorf("valid weights rejected: %v", err)
	}
}

func TestPickDeterministic(t *testing.T) {
	s, err := NewSelector([]int{10, 20, 30, 20, 10, 10})
	if err != nil {
		t.Fatal(err)
	}
	for seed := int64(0); seed < 100; seed++ {
		if s.Pick(seed) != s.Pick(seed) {
			t.Fatalf("seed %d picked different slots on repeat", seed)
		}
	}
}

func TestPickRespectsWeights(t *testing.T) {
	// Slot 1 carries 90% of the weight; over many seeds it must dominate.
	s, err := NewSelector([]int{5, 90, 5})
	if err != nil {
		t.Fatal(err)
	}
	counts := make([]int, 3)
	for seed := int64(0); seed < 2000; seed++ {
		pick := s.Pick(seed)
		if pick < 0 || pick > 2 {
			t.Fatalf("pick %d out of range", pick)
		}
		counts[pick]++
	}
	if counts[1] < 1500 {
		t.Errorf("heavy slot picked only %d/2000 times: %v", counts[1], counts)
	}
	if counts[0] == 0 || counts[2] == 0 {
		t.Errorf("light slots never picked: %v", counts)
	}
}

func TestUniform(t *testing.T) {
	s := Uniform(6)
	if s.SlotCount() != 6 {
		t.Fatalf("expected 6 slots, got %d", s.SlotCount())
	}
	seen := make(map[int]bool)
	for seed := int64(0); seed < 500; seed++ {
		seen[s.Pick(seed)] = true
	}
	if len(seen) != 6 {
		t.Errorf("uniform selector missed slots over 500 seeds: %v", seen)
	}
}
