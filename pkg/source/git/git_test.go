package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// initRepo creates a repository with n commits on the default branch
// and returns the source plus the commit hashes oldest-first.
func initRepo(t *testing.T, n int) (*Source, []string) {
	t.Helper()
	dir := t.TempDir()
	repo, err := gitlib.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}

	hashes := make([]string, 0, n)
	when := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		name := filepath.Join(dir, "file.txt")
		if err := os.WriteFile(name, []byte{byte('a' + i)}, 0644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		if _, err := wt.Add("file.txt"); err != nil {
			t.Fatalf("Add: %v", err)
		}
		sig := &object.Signature{Name: "tester", Email: "tester@example.com", When: when.Add(time.Duration(i) * time.Minute)}
		h, err := wt.Commit("change file\n\ndetails", &gitlib.CommitOptions{Author: sig, Committer: sig})
		if err != nil {
			t.Fatalf("Commit: %v", err)
		}
		hashes = append(hashes, h.String())
	}

	src, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return src, hashes
}

func TestListCommits_NewestFirst(t *testing.T) {
	src, hashes := initRepo(t, 3)

	records, err := src.ListCommits(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListCommits: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("ListCommits returned %d records, want 3", len(records))
	}
	for i, rec := range records {
		if want := hashes[len(hashes)-1-i]; rec.Hash != want {
			t.Errorf("record %d hash = %s, want %s", i, rec.Hash, want)
		}
	}
	if got := records[0].Description; got != "change file" {
		t.Errorf("Description = %q, want first message line", got)
	}
	if records[0].PrimaryParent() != records[1].Hash {
		t.Errorf("newest commit's primary parent = %q, want %s", records[0].PrimaryParent(), records[1].Hash)
	}
	if !records[len(records)-1].IsRoot() {
		t.Error("oldest record should have no parents")
	}
}

func TestListCommits_Limit(t *testing.T) {
	src, _ := initRepo(t, 5)

	records, err := src.ListCommits(context.Background(), 2)
	if err != nil {
		t.Fatalf("ListCommits: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("ListCommits returned %d records, want 2", len(records))
	}
}

func TestBranchHeads(t *testing.T) {
	src, hashes := initRepo(t, 2)

	heads, err := src.BranchHeads(context.Background())
	if err != nil {
		t.Fatalf("BranchHeads: %v", err)
	}
	if len(heads) != 1 {
		t.Fatalf("BranchHeads returned %d heads, want 1", len(heads))
	}
	if heads[0].Hash != hashes[len(hashes)-1] {
		t.Errorf("head hash = %s, want %s", heads[0].Hash, hashes[len(hashes)-1])
	}
	if heads[0].Name == "" {
		t.Error("head name is empty")
	}
}

func TestCurrentRef_Branch(t *testing.T) {
	src, _ := initRepo(t, 1)

	ref, err := src.CurrentRef(context.Background())
	if err != nil {
		t.Fatalf("CurrentRef: %v", err)
	}
	heads, err := src.BranchHeads(context.Background())
	if err != nil {
		t.Fatalf("BranchHeads: %v", err)
	}
	if ref != heads[0].Name {
		t.Errorf("CurrentRef = %q, want checked-out branch %q", ref, heads[0].Name)
	}
}

func TestEmptyRepository(t *testing.T) {
	dir := t.TempDir()
	if _, err := gitlib.PlainInit(dir, false); err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	src, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	records, err := src.ListCommits(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListCommits: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("ListCommits returned %d records, want 0", len(records))
	}
	ref, err := src.CurrentRef(context.Background())
	if err != nil {
		t.Fatalf("CurrentRef: %v", err)
	}
	if ref != "" {
		t.Errorf("CurrentRef = %q, want empty", ref)
	}
}

func TestOpen_NotARepository(t *testing.T) {
	if _, err := Open(t.TempDir()); err == nil {
		t.Error("Open of a plain directory succeeded, want error")
	}
}

func TestSummary(t *testing.T) {
	if got := summary("subject\n\nbody"); got != "subject" {
		t.Errorf("summary = %q, want subject", got)
	}
	if got := summary("one line"); got != "one line" {
		t.Errorf("summary = %q, want one line", got)
	}
}
