package drive

import (
	"context"
	"fmt"
	"testing"
	"time"
)

// fakeAPI keeps a folder tree and uploaded files in memory.
type fakeAPI struct {
	nextID  int
	folders map[string][]Folder // parentID -> children
	files   map[string][]string // parentID -> file names

	findCalls   int
	createCalls int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		folders: make(map[string][]Folder),
		files:   make(map[string][]string),
	}
}

func (f *fakeAPI) FindFolders(_ context.Context, name, parentID string) ([]Folder, error) {
	f.findCalls++
	var matches []Folder
	for _, child := range f.folders[parentID] {
		if child.Name == name {
			matches = append(matches, child)
		}
	}
	return matches, nil
}

func (f *fakeAPI) CreateFolder(_ context.Context, name, parentID string) (Folder, error) {
	f.createCalls++
	f.nextID++
	folder := Folder{ID: fmt.Sprintf("folder-%d", f.nextID), Name: name}
	f.folders[parentID] = append(f.folders[parentID], folder)
	return folder, nil
}

func (f *fakeAPI) CreateFile(_ context.Context, name, parentID, _ string, _ []byte) (string, error) {
	f.nextID++
	f.files[parentID] = append(f.files[parentID], name)
	return fmt.Sprintf("file-%d", f.nextID), nil
}

func TestGetMatchingFolderCreatesOnce(t *testing.T) {
	api := newFakeAPI()
	store := NewStore(api, "root")
	ctx := context.Background()

	first, err := store.GetMatchingFolder(ctx, "The Blue Room", "root")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := store.GetMatchingFolder(ctx, "The Blue Room", "root")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("repeated lookup returned different folders: %s vs %s", first.ID, second.ID)
	}
	if api.createCalls != 1 {
		t.Errorf("expected 1 folder creation, got %d", api.createCalls)
	}
}

func TestGetMatchingFolderPrefersExisting(t *testing.T) {
	api := newFakeAPI()
	api.folders["root"] = []Folder{
		{ID: "pre-existing", Name: "The Blue Room"},
		{ID: "duplicate", Name: "The Blue Room"},
	}
	store := NewStore(api, "root")

	folder, err := store.GetMatchingFolder(context.Background(), "The Blue Room", "root")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if folder.ID != "pre-existing" {
		t.Errorf("expected first existing folder, got %s", folder.ID)
	}
	if api.createCalls != 0 {
		t.Errorf("expected no folder creation, got %d", api.createCalls)
	}
}

func TestSaveDocumentBuildsFolderChain(t *testing.T) {
	api := newFakeAPI()
	store := NewStore(api, "root")
	ctx := context.Background()

	path := EventDocumentPath("The Blue Room", time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC))
	if err := store.SaveDocument(ctx, path, "Confirmation 2026-03-14.pdf", []byte("pdf")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// root -> venue -> year -> month -> day
	if api.createCalls != 4 {
		t.Errorf("expected 4 folders created, got %d", api.createCalls)
	}

	// A second save into the same day reuses every folder.
	if err := store.SaveDocument(ctx, path, "Invoice 2026-03-14.pdf", []byte("pdf")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if api.createCalls != 4 {
		t.Errorf("second save should reuse folders, got %d creations", api.createCalls)
	}

	var total int
	for _, names := range api.files {
		total += len(names)
	}
	if total != 2 {
		t.Errorf("expected 2 uploaded files, got %d", total)
	}
}

func TestDocumentPaths(t *testing.T) {
	date := time.Date(2026, time.March, 7, 0, 0, 0, 0, time.UTC)

	got := EventDocumentPath("The Blue Room", date)
	want := []string{"The Blue Room", "2026", "March", "7"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event path segment %d: expected %q, got %q", i, want[i], got[i])
		}
	}

	got = MonthlyDocumentPath("The Blue Room", 2026, time.April)
	want = []string{"The Blue Room", "2026", "April"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("monthly path segment %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestEscapeQuery(t *testing.T) {
	if got := escapeQuery("Rosie's Tavern"); got != `Rosie\'s Tavern` {
		t.Errorf("unexpected escape result: %s", got)
	}
}
