package archive

import (
	"testing"

	"github.com/qri-io/vault/config"
)

func TestCreateGroupSetsTitle(t *testing.T) {
	a := New(config.DefaultConfig())
	g, err := a.CreateGroup("Banking")
	if err != nil {
		t.Fatalf("CreateGroup: %s", err)
	}
	if g.Title() != "Banking" {
		t.Errorf("expected title Banking, got %q", g.Title())
	}
	if len(a.Groups()) != 1 {
		t.Fatalf("expected 1 top-level group, got %d", len(a.Groups()))
	}
}

func TestEntryPropertiesAndAttributes(t *testing.T) {
	a := New(config.DefaultConfig())
	g, _ := a.CreateGroup("Banking")
	e, err := g.CreateEntry()
	if err != nil {
		t.Fatalf("CreateEntry: %s", err)
	}
	if err := e.SetProperty("username", "alice"); err != nil {
		t.Fatalf("SetProperty: %s", err)
	}
	if err := e.SetProperty("password", ""); err != nil {
		t.Fatalf("SetProperty with empty value: %s", err)
	}
	v, ok := e.Property("password")
	if !ok || v != "" {
		t.Errorf("expected empty-but-present password property, got %q, %v", v, ok)
	}
	if err := e.DeleteProperty("password"); err != nil {
		t.Fatalf("DeleteProperty: %s", err)
	}
	if _, ok := e.Property("password"); ok {
		t.Error("expected password property removed")
	}
}

func TestGroupMoveRejectsIntoOwnSubtree(t *testing.T) {
	a := New(config.DefaultConfig())
	parent, _ := a.CreateGroup("Parent")
	child, _ := parent.CreateGroup("Child")

	if err := parent.MoveTo(child); err == nil {
		t.Fatal("expected InvalidMove moving parent into its own child")
	}
}

func TestGroupDeleteRemovesSubtree(t *testing.T) {
	a := New(config.DefaultConfig())
	g, _ := a.CreateGroup("Banking")
	if _, err := g.CreateEntry(); err != nil {
		t.Fatalf("CreateEntry: %s", err)
	}

	if err := g.Delete(); err != nil {
		t.Fatalf("Delete: %s", err)
	}
	if len(a.Groups()) != 0 {
		t.Error("expected group removed from archive")
	}
	if a.FindGroupByID(g.ID()) != nil {
		t.Error("expected FindGroupByID to return nil for deleted group")
	}
}

func TestEntryMoveTo(t *testing.T) {
	a := New(config.DefaultConfig())
	g1, _ := a.CreateGroup("A")
	g2, _ := a.CreateGroup("B")
	e, _ := g1.CreateEntry()

	if err := e.MoveTo(g2); err != nil {
		t.Fatalf("MoveTo: %s", err)
	}
	if len(g1.Entries()) != 0 {
		t.Error("expected entry removed from g1")
	}
	if len(g2.Entries()) != 1 {
		t.Fatal("expected entry moved to g2")
	}
}

func TestGetHistoryRoundTrip(t *testing.T) {
	a := New(config.DefaultConfig())
	g, _ := a.CreateGroup("Banking")
	if _, err := g.CreateEntry(); err != nil {
		t.Fatalf("CreateEntry: %s", err)
	}

	lines := a.GetHistory()
	replayed, err := CreateFromHistory(lines, config.DefaultConfig())
	if err != nil {
		t.Fatalf("CreateFromHistory: %s", err)
	}

	if replayed.Describe().GroupCount != a.Describe().GroupCount {
		t.Errorf("group count mismatch after replay: got %d, want %d",
			replayed.Describe().GroupCount, a.Describe().GroupCount)
	}
	if replayed.Describe().EntryCount != a.Describe().EntryCount {
		t.Errorf("entry count mismatch after replay: got %d, want %d",
			replayed.Describe().EntryCount, a.Describe().EntryCount)
	}
	if replayed.Dirty() {
		t.Error("expected replayed archive to not be dirty")
	}
}

func TestArchiveIDAndAttributes(t *testing.T) {
	a := New(config.DefaultConfig())
	if err := a.SetID("archive-1"); err != nil {
		t.Fatalf("SetID: %s", err)
	}
	if a.ID() != "archive-1" {
		t.Errorf("expected ID archive-1, got %q", a.ID())
	}
	if err := a.SetAttribute("color", "blue"); err != nil {
		t.Fatalf("SetAttribute: %s", err)
	}
	v, ok := a.Attribute("color")
	if !ok || v != "blue" {
		t.Errorf("expected color=blue, got %q, %v", v, ok)
	}
	if err := a.DeleteAttribute("color"); err != nil {
		t.Fatalf("DeleteAttribute: %s", err)
	}
	if _, ok := a.Attribute("color"); ok {
		t.Error("expected attribute removed")
	}
}

func TestDescribe(t *testing.T) {
	a := New(config.DefaultConfig())
	g, _ := a.CreateGroup("Banking")
	if _, err := g.CreateEntry(); err != nil {
		t.Fatalf("CreateEntry: %s", err)
	}
	if _, err := g.CreateEntry(); err != nil {
		t.Fatalf("CreateEntry: %s", err)
	}

	s := a.Describe()
	if s.GroupCount != 1 {
		t.Errorf("expected 1 group, got %d", s.GroupCount)
	}
	if s.EntryCount != 2 {
		t.Errorf("expected 2 entries, got %d", s.EntryCount)
	}
}
