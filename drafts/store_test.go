package drafts

import (
	"sync"
	"testing"
	"time"
)

func TestCreateAndGet(t *testing.T) {
	s := NewStore()

	sess := s.Create()
	if sess.ID == "" {
		t.Fatal("Expected a session id")
	}
	if sess.Draft == nil || len(sess.Draft.Medicines) != 1 {
		t.Fatalf("Expected fresh draft with one row, got %+v", sess.Draft)
	}

	got, ok := s.Get(sess.ID)
	if !ok {
		t.Fatal("Expected session to resolve")
	}
	if got != sess {
		t.Error("Get returned a different session")
	}

	if _, ok := s.Get("missing"); ok {
		t.Error("Did not expect unknown session to resolve")
	}
}

func TestDelete(t *testing.T) {
	s := NewStore()
	sess := s.Create()

	s.Delete(sess.ID)
	if _, ok := s.Get(sess.ID); ok {
		t.Error("Expected session gone after delete")
	}
	if s.Len() != 0 {
		t.Errorf("Expected empty store, got %d", s.Len())
	}
}

func TestSweepDiscardsIdleSessions(t *testing.T) {
	s := NewStore()
	current := time.Now()
	s.now = func() time.Time { return current }

	old := s.Create()
	current = current.Add(45 * time.Minute)
	fresh := s.Create()

	removed := s.Sweep(30 * time.Minute)
	if removed != 1 {
		t.Fatalf("Expected 1 swept session, got %d", removed)
	}
	if _, ok := s.Get(old.ID); ok {
		t.Error("Idle session should be gone")
	}
	if _, ok := s.Get(fresh.ID); !ok {
		t.Error("Fresh session should survive")
	}
}

func TestGetRefreshesIdleTimer(t *testing.T) {
	s := NewStore()
	current := time.Now()
	s.now = func() time.Time { return current }

	sess := s.Create()

	current = current.Add(25 * time.Minute)
	s.Get(sess.ID)

	current = current.Add(10 * time.Minute)
	if removed := s.Sweep(30 * time.Minute); removed != 0 {
		t.Errorf("Touched session swept: %d removed", removed)
	}
}

func TestSuggestionLifecycle(t *testing.T) {
	sess := &Session{Draft: nil}
	now := time.Now()

	sess.SetSuggestions(1, []string{"Paracetamol 500mg", "Paracetamol 650mg"})

	if got := sess.Suggestions(1, now); len(got) != 2 {
		t.Fatalf("Expected 2 live suggestions, got %v", got)
	}
	if got := sess.Suggestions(2, now); got != nil {
		t.Errorf("Suggestions leaked to another row: %v", got)
	}

	// Blur: selectable within the grace window, gone after it.
	sess.Blur(1, now)
	within := now.Add(SuggestionGrace / 2)
	after := now.Add(SuggestionGrace + time.Millisecond)

	if !sess.CanSelect(1, "Paracetamol 500mg", within) {
		t.Error("Expected selection to land within grace window")
	}
	if sess.CanSelect(1, "Paracetamol 500mg", after) {
		t.Error("Selection after grace window should not land")
	}
	if got := sess.Suggestions(1, after); got != nil {
		t.Errorf("Expected suggestions cleared after grace, got %v", got)
	}
}

func TestSetSuggestionsEmptyClears(t *testing.T) {
	sess := &Session{}
	now := time.Now()

	sess.SetSuggestions(1, []string{"Dolo 650"})
	sess.SetSuggestions(1, nil)

	if got := sess.Suggestions(1, now); got != nil {
		t.Errorf("Expected cleared suggestions, got %v", got)
	}
	if sess.CanSelect(1, "Dolo 650", now) {
		t.Error("Cleared suggestion should not be selectable")
	}
}

func TestClearSuggestions(t *testing.T) {
	sess := &Session{}
	sess.SetSuggestions(3, []string{"Aspirin 75mg"})
	sess.ClearSuggestions()

	if got := sess.Suggestions(3, time.Now()); got != nil {
		t.Errorf("Expected nil after clear, got %v", got)
	}
}

func TestEditingReopensAfterBlur(t *testing.T) {
	sess := &Session{}
	now := time.Now()

	sess.SetSuggestions(1, []string{"Aspirin 75mg"})
	sess.Blur(1, now)

	// A new keystroke replaces the list and cancels the pending expiry.
	sess.SetSuggestions(1, []string{"Aspirin 75mg", "Aspirin 150mg"})
	later := now.Add(time.Second)
	if got := sess.Suggestions(1, later); len(got) != 2 {
		t.Errorf("Expected reopened suggestions, got %v", got)
	}
}

func TestSessionLockSerializesDraftEdits(t *testing.T) {
	s := NewStore()
	sess := s.Create()

	const workers = 4
	const rowsEach = 25

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < rowsEach; j++ {
				sess.Lock()
				sess.Draft.AddRow()
				sess.Unlock()
			}
		}()
	}
	wg.Wait()

	sess.Lock()
	defer sess.Unlock()

	want := workers*rowsEach + 1
	if got := len(sess.Draft.Medicines); got != want {
		t.Fatalf("Expected %d rows, got %d", want, got)
	}
	seen := make(map[int]bool)
	for _, m := range sess.Draft.Medicines {
		if seen[m.ID] {
			t.Errorf("Duplicate row id %d", m.ID)
		}
		seen[m.ID] = true
	}
}
