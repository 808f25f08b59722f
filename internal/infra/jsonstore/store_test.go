package jsonstore

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/runoshun/crew-talk/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store := New(filepath.Join(t.TempDir(), "comments.json"))
	if err := store.Initialize(); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	return store
}

func TestStore_Initialize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "comments.json")

	store := New(path)
	if store.IsInitialized() {
		t.Fatal("IsInitialized() = true before Initialize")
	}

	if err := store.Initialize(); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("store file not created: %v", err)
	}
	if !store.IsInitialized() {
		t.Error("IsInitialized() = false after Initialize")
	}

	// Initialize again should be idempotent
	if err := store.Save([]domain.Comment{{ID: "c1", Text: "keep"}}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Initialize(); err != nil {
		t.Fatalf("Initialize() second call error = %v", err)
	}
	all, err := store.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if len(all) != 1 {
		t.Errorf("LoadAll() returned %d comments after re-initialize, want 1", len(all))
	}
}

func TestStore_NotInitialized(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "comments.json"))

	if _, err := store.LoadAll(); !errors.Is(err, domain.ErrNotInitialized) {
		t.Errorf("LoadAll() error = %v, want ErrNotInitialized", err)
	}
	if err := store.Save(nil); !errors.Is(err, domain.ErrNotInitialized) {
		t.Errorf("Save() error = %v, want ErrNotInitialized", err)
	}
}

func TestStore_SaveAndLoad(t *testing.T) {
	store := newTestStore(t)

	created := time.Now().Truncate(time.Second)
	amount := 4.0
	comments := []domain.Comment{
		{
			ID: "c1", AuthorID: "u1", AuthorHandle: "alice", Text: "Great talk!",
			Created: created, LikeCount: 3, LikedBySelf: true,
			Replies: []domain.Reply{{ID: "r1", AuthorID: "u2", Text: "Agreed", LikeCount: 1}},
		},
		{ID: "c2", AuthorID: "u2", Text: "How do I join?", Tab: domain.TabFAQs},
		{ID: "c3", AuthorID: "u3", Text: "Thanks", Donation: &amount, Pinned: true},
	}

	if err := store.Save(comments); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Load(domain.TabComments)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Load(comments) returned %d comments, want 2", len(got))
	}
	if got[0].ID != "c1" || got[1].ID != "c3" {
		t.Errorf("Load(comments) order = [%s %s], want [c1 c3]", got[0].ID, got[1].ID)
	}
	if !got[0].Created.Equal(created) {
		t.Errorf("Created = %v, want %v", got[0].Created, created)
	}
	if got[0].LikeCount != 3 || !got[0].LikedBySelf {
		t.Errorf("like state = (%d, %v), want (3, true)", got[0].LikeCount, got[0].LikedBySelf)
	}
	if len(got[0].Replies) != 1 || got[0].Replies[0].Text != "Agreed" {
		t.Errorf("Replies = %+v, want one reply \"Agreed\"", got[0].Replies)
	}
	if got[1].Donation == nil || *got[1].Donation != 4.0 {
		t.Errorf("Donation = %v, want 4", got[1].Donation)
	}
	if !got[1].Pinned {
		t.Error("Pinned = false, want true")
	}

	faqs, err := store.Load(domain.TabFAQs)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(faqs) != 1 || faqs[0].ID != "c2" {
		t.Errorf("Load(faqs) = %+v, want [c2]", faqs)
	}
}

func TestStore_LoadEmptyTab(t *testing.T) {
	store := newTestStore(t)

	got, err := store.Load(domain.TabQA)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("Load() = %v, want empty non-nil slice", got)
	}
}

func TestStore_SaveReplaces(t *testing.T) {
	store := newTestStore(t)

	if err := store.Save([]domain.Comment{{ID: "c1"}, {ID: "c2", Tab: domain.TabFAQs}}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Save([]domain.Comment{{ID: "c3"}}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	all, err := store.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if len(all) != 1 || all[0].ID != "c3" {
		t.Errorf("LoadAll() = %+v, want [c3]", all)
	}
}

func TestStore_SaveDoesNotAliasInput(t *testing.T) {
	store := newTestStore(t)
	comments := []domain.Comment{{ID: "c1", Text: "original"}}

	if err := store.Save(comments); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	comments[0].Text = "changed"

	all, _ := store.LoadAll()
	if all[0].Text != "original" {
		t.Errorf("Text = %q, want %q", all[0].Text, "original")
	}
}

func TestStore_FileFormat(t *testing.T) {
	store := newTestStore(t)
	if err := store.Save([]domain.Comment{{ID: "c1", AuthorID: "u1", Text: "hello"}}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	content, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	for _, want := range []string{`"version": 1`, `"authorID": "u1"`, `"text": "hello"`} {
		if !strings.Contains(string(content), want) {
			t.Errorf("store file missing %s:\n%s", want, content)
		}
	}
	if _, err := os.Stat(store.Path() + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind")
	}
}

func TestStore_UnsupportedVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "comments.json")
	if err := os.WriteFile(path, []byte(`{"version": 99, "comments": []}`), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := New(path).LoadAll(); err == nil {
		t.Error("LoadAll() error = nil, want unsupported version error")
	}
}

func TestStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "comments.json")
	if err := os.WriteFile(path, []byte(`{not json`), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := New(path).LoadAll(); err == nil {
		t.Error("LoadAll() error = nil, want parse error")
	}
}

func TestStore_ConcurrentSaves(t *testing.T) {
	store := newTestStore(t)

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			comments := make([]domain.Comment, n+1)
			for j := range comments {
				comments[j] = domain.Comment{ID: string(rune('a' + j))}
			}
			if err := store.Save(comments); err != nil {
				t.Errorf("Save() error = %v", err)
			}
		}(i)
	}
	wg.Wait()

	all, err := store.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if len(all) < 1 || len(all) > 10 {
		t.Errorf("LoadAll() returned %d comments, want a complete save of 1..10", len(all))
	}
}
