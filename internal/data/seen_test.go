package data

import (
	"path/filepath"
	"testing"
	"time"
)

func TestSeenRepo_AddAndContains(t *testing.T) {
	repo, err := NewSeenRepo(filepath.Join(t.TempDir(), "seen.db"))
	if err != nil {
		t.Fatalf("NewSeenRepo failed: %v", err)
	}
	defer repo.Close()

	if repo.Contains("msg-1") {
		t.Error("Fresh store must not contain msg-1")
	}

	repo.Add("msg-1")
	if !repo.Contains("msg-1") {
		t.Error("Expected msg-1 after Add")
	}

	// Adding the same id twice is a no-op
	repo.Add("msg-1")
	if !repo.Contains("msg-1") {
		t.Error("Expected msg-1 after duplicate Add")
	}
}

func TestSeenRepo_PersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "seen.db")

	repo, err := NewSeenRepo(dbPath)
	if err != nil {
		t.Fatalf("NewSeenRepo failed: %v", err)
	}
	repo.Add("msg-42")
	repo.Close()

	reopened, err := NewSeenRepo(dbPath)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer reopened.Close()

	if !reopened.Contains("msg-42") {
		t.Error("Expected msg-42 to survive a reopen")
	}
}

func TestSeenRepo_Prune(t *testing.T) {
	repo, err := NewSeenRepo(filepath.Join(t.TempDir(), "seen.db"))
	if err != nil {
		t.Fatalf("NewSeenRepo failed: %v", err)
	}
	defer repo.Close()

	repo.Add("old-msg")

	pruned, err := repo.Prune(time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if pruned != 1 {
		t.Errorf("Expected 1 pruned entry, got %d", pruned)
	}
	if repo.Contains("old-msg") {
		t.Error("Expected old-msg to be pruned")
	}
}
