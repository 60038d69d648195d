package interactions

import (
	"reflect"
	"testing"
)

func testRules() map[string][]string {
	return map[string][]string{
		"Aspirin":    {"Warfarin", "Clopidogrel", "Ibuprofen", "Naproxen"},
		"Warfarin":   {"Aspirin", "Clopidogrel", "NSAIDs", "Azithromycin"},
		"Metformin":  {"Alcohol", "Insulin"},
		"Amlodipine": {"Simvastatin", "Atorvastatin"},
		"NSAIDs":     {"Aspirin", "Warfarin", "ACE inhibitors", "Diuretics"},
	}
}

func TestBaseName(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{name: "strength suffix dropped", in: "Aspirin 75mg", expected: "Aspirin"},
		{name: "bare name", in: "Warfarin", expected: "Warfarin"},
		{name: "multi word", in: "Insulin Glargine", expected: "Insulin"},
		{name: "leading spaces", in: "  Dolo 650", expected: "Dolo"},
		{name: "blank", in: "   ", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BaseName(tt.in); got != tt.expected {
				t.Errorf("BaseName(%q) = %q, expected %q", tt.in, got, tt.expected)
			}
		})
	}
}

// If A is listed against B, a draft containing both must report exactly
// one pair no matter which medicine was added first.
func TestCheckSymmetry(t *testing.T) {
	c := New(testRules(), false)

	forward := c.CheckStrings([]string{"Aspirin 75mg", "Warfarin"})
	reverse := c.CheckStrings([]string{"Warfarin", "Aspirin 75mg"})

	expected := []string{"Aspirin ⚠️ Warfarin"}
	if !reflect.DeepEqual(forward, expected) {
		t.Errorf("Forward order: expected %v, got %v", expected, forward)
	}
	if !reflect.DeepEqual(reverse, expected) {
		t.Errorf("Reverse order: expected %v, got %v", expected, reverse)
	}
}

func TestCheckOneWayRule(t *testing.T) {
	// Amlodipine lists Simvastatin but not the other way round; both
	// directions must still be tested.
	c := New(testRules(), false)

	got := c.CheckStrings([]string{"Simvastatin 20mg", "Amlodipine 5mg"})
	expected := []string{"Amlodipine ⚠️ Simvastatin"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestCheckNoInteractions(t *testing.T) {
	c := New(testRules(), false)

	if got := c.Check([]string{"Paracetamol 500mg", "Cetirizine 10mg"}); len(got) != 0 {
		t.Errorf("Expected no interactions, got %v", got)
	}
	if got := c.Check(nil); len(got) != 0 {
		t.Errorf("Expected no interactions for empty list, got %v", got)
	}
	if got := c.Check([]string{"Aspirin 75mg"}); len(got) != 0 {
		t.Errorf("Single medicine cannot interact, got %v", got)
	}
}

func TestCheckSkipsBlankAndSelfPairs(t *testing.T) {
	c := New(testRules(), false)

	got := c.Check([]string{"", "Aspirin 75mg", "  ", "Aspirin 150mg"})
	if len(got) != 0 {
		t.Errorf("Same base drug must not interact with itself, got %v", got)
	}
}

func TestCheckDeduplicatesPairs(t *testing.T) {
	c := New(testRules(), false)

	// Two aspirin strengths against warfarin: the unordered pair
	// (Aspirin, Warfarin) is reported once.
	got := c.CheckStrings([]string{"Aspirin 75mg", "Warfarin 5mg", "Aspirin 150mg"})
	expected := []string{"Aspirin ⚠️ Warfarin"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestCheckMultiplePairsDiscoveryOrder(t *testing.T) {
	c := New(testRules(), false)

	got := c.Check([]string{"Metformin 500mg", "Insulin Glargine", "Aspirin 75mg", "Warfarin 5mg"})
	expected := []Pair{
		{A: "Insulin", B: "Metformin"},
		{A: "Aspirin", B: "Warfarin"},
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestSubstringMatching(t *testing.T) {
	c := New(testRules(), false)

	// Warfarin lists "NSAIDs"; a base name containing that entry is
	// flagged under loose matching.
	got := c.CheckStrings([]string{"Warfarin 5mg", "NSAIDs"})
	if len(got) != 1 {
		t.Fatalf("Expected loose NSAIDs match, got %v", got)
	}

	strict := New(testRules(), true)
	gotStrict := strict.CheckStrings([]string{"Warfarin 5mg", "NSAIDs"})
	if len(gotStrict) != 1 {
		t.Fatalf("Exact entry should match in strict mode too, got %v", gotStrict)
	}
}

func TestStrictMode(t *testing.T) {
	rules := map[string][]string{"Warfarin": {"Azithro"}}

	loose := New(rules, false)
	if got := loose.Check([]string{"Warfarin", "Azithromycin 500mg"}); len(got) != 1 {
		t.Errorf("Loose mode should match partial entry, got %v", got)
	}

	strict := New(rules, true)
	if got := strict.Check([]string{"Warfarin", "Azithromycin 500mg"}); len(got) != 0 {
		t.Errorf("Strict mode should require exact base names, got %v", got)
	}
}
