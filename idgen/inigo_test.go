package idgen

import (
	"errors"
	"testing"

	"github.com/qri-io/vault/command"
)

func TestNewIDUnique(t *testing.T) {
	g := New()
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id, err := g.NewID()
		if err != nil {
			t.Fatalf("NewID: %s", err)
		}
		if id == "" {
			t.Fatal("expected non-empty id")
		}
		if seen[id] {
			t.Fatalf("duplicate id generated: %s", id)
		}
		seen[id] = true
	}
}

func TestNewIDPropagatesRandError(t *testing.T) {
	wantErr := errors.New("entropy source broken")
	g := &Inigo{randRead: func([]byte) (int, error) { return 0, wantErr }}
	if _, err := g.NewID(); err == nil {
		t.Fatal("expected error from broken random source")
	}
}

func TestBuildCreateGroup(t *testing.T) {
	g := New()
	cmd, newID, err := g.BuildCreateGroup("0")
	if err != nil {
		t.Fatalf("BuildCreateGroup: %s", err)
	}
	if cmd.Slug != command.SlugCreateGroup {
		t.Errorf("expected slug cgr, got %s", cmd.Slug)
	}
	if cmd.Args[0] != "0" || cmd.Args[1] != newID {
		t.Errorf("unexpected args: %+v (newID=%s)", cmd.Args, newID)
	}
}

func TestBuildCreateEntry(t *testing.T) {
	g := New()
	cmd, newID, err := g.BuildCreateEntry("g1")
	if err != nil {
		t.Fatalf("BuildCreateEntry: %s", err)
	}
	if cmd.Slug != command.SlugCreateEntry {
		t.Errorf("expected slug cen, got %s", cmd.Slug)
	}
	if cmd.Args[0] != "g1" || cmd.Args[1] != newID {
		t.Errorf("unexpected args: %+v (newID=%s)", cmd.Args, newID)
	}
}

func TestBuild(t *testing.T) {
	g := New()
	cmd, err := g.Build(command.SlugSetGroupTitle, "g1", "Banking")
	if err != nil {
		t.Fatalf("Build: %s", err)
	}
	if cmd.Raw != `tgr g1 Banking` {
		t.Errorf("unexpected raw line: %q", cmd.Raw)
	}
}
