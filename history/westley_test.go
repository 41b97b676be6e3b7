package history

import (
	"strings"
	"testing"

	"github.com/qri-io/vault/vaulterr"
)

func mustExec(t *testing.T, w *Westley, line string) {
	t.Helper()
	if err := w.Execute(line); err != nil {
		t.Fatalf("Execute(%q): %s", line, err)
	}
}

func TestCreateGroupAndEntry(t *testing.T) {
	w := New(0)
	mustExec(t, w, `cgr 0 g1`)
	mustExec(t, w, `tgr g1 Banking`)
	mustExec(t, w, `cen g1 e1`)
	mustExec(t, w, `sep e1 username alice`)

	g := w.Tree().FindGroupByID("g1")
	if g == nil {
		t.Fatal("expected group g1 to exist")
	}
	if g.Title != "Banking" {
		t.Errorf("expected title Banking, got %q", g.Title)
	}
	if len(g.Entries) != 1 || g.Entries[0].ID != "e1" {
		t.Fatalf("expected entry e1 under g1, got %+v", g.Entries)
	}
	if w.Tree().FindEntryByID("e1").Properties["username"] != "alice" {
		t.Errorf("expected username alice")
	}
	if !w.Dirty() {
		t.Error("expected dirty after executing commands")
	}
}

func TestCreateGroupDuplicateIDLeavesTreeUnchanged(t *testing.T) {
	w := New(0)
	mustExec(t, w, `cgr 0 g1`)
	before := w.Tree().GroupCount()

	err := w.Execute(`cgr 0 g1`)
	if err == nil {
		t.Fatal("expected duplicate id error")
	}
	var dup *vaulterr.DuplicateIDError
	if !asDuplicateID(err, &dup) {
		t.Errorf("expected DuplicateIDError, got %T: %s", err, err)
	}
	if w.Tree().GroupCount() != before {
		t.Errorf("tree mutated on failed command: had %d groups, now %d", before, w.Tree().GroupCount())
	}
	if len(w.GetHistory()) != 1 {
		t.Errorf("expected failed command to not be recorded, history: %v", w.GetHistory())
	}
}

func TestCreateGroupUnknownParentLeavesTreeUnchanged(t *testing.T) {
	w := New(0)
	err := w.Execute(`cgr missing g1`)
	if err == nil {
		t.Fatal("expected entity not found error")
	}
	if w.Tree().GroupCount() != 0 {
		t.Error("expected no group created")
	}
	if len(w.GetHistory()) != 0 {
		t.Error("expected no history recorded")
	}
}

func TestMoveGroupRejectsCycle(t *testing.T) {
	w := New(0)
	mustExec(t, w, `cgr 0 g1`)
	mustExec(t, w, `cgr g1 g2`)

	err := w.Execute(`mgr g1 g2`)
	if err == nil {
		t.Fatal("expected invalid move error")
	}
	if _, ok := err.(*vaulterr.InvalidMoveError); !ok {
		t.Errorf("expected InvalidMoveError, got %T", err)
	}
	// tree must be unchanged: g1 still a root, g2 still under g1
	root := w.Tree().Groups
	if len(root) != 1 || root[0].ID != "g1" {
		t.Fatalf("expected g1 still at root, got %+v", root)
	}
}

func TestMoveGroupRejectsSelfMove(t *testing.T) {
	w := New(0)
	mustExec(t, w, `cgr 0 g1`)
	if err := w.Execute(`mgr g1 g1`); err == nil {
		t.Fatal("expected invalid move moving a group into itself")
	}
}

func TestDeleteGroupRemovesSubtree(t *testing.T) {
	w := New(0)
	mustExec(t, w, `cgr 0 g1`)
	mustExec(t, w, `cgr g1 g2`)
	mustExec(t, w, `cen g2 e1`)

	mustExec(t, w, `dgr g1`)

	if w.Tree().GroupCount() != 0 {
		t.Errorf("expected all groups removed, got %d", w.Tree().GroupCount())
	}
	if w.Tree().EntryCount() != 0 {
		t.Errorf("expected all entries removed, got %d", w.Tree().EntryCount())
	}
	if len(w.Tree().Groups) != 0 {
		t.Error("expected root to have no children")
	}
}

func TestMoveEntryBetweenGroups(t *testing.T) {
	w := New(0)
	mustExec(t, w, `cgr 0 g1`)
	mustExec(t, w, `cgr 0 g2`)
	mustExec(t, w, `cen g1 e1`)

	mustExec(t, w, `men e1 g2`)

	g1 := w.Tree().FindGroupByID("g1")
	g2 := w.Tree().FindGroupByID("g2")
	if len(g1.Entries) != 0 {
		t.Error("expected e1 removed from g1")
	}
	if len(g2.Entries) != 1 || g2.Entries[0].ID != "e1" {
		t.Fatalf("expected e1 under g2, got %+v", g2.Entries)
	}
	if w.Tree().FindEntryByID("e1").ParentID != "g2" {
		t.Error("expected entry ParentID updated")
	}
}

func TestDeleteEntryPropertyAndAttribute(t *testing.T) {
	w := New(0)
	mustExec(t, w, `cgr 0 g1`)
	mustExec(t, w, `cen g1 e1`)
	mustExec(t, w, `sep e1 password hunter2`)
	mustExec(t, w, `sea e1 icon lock`)

	mustExec(t, w, `dep e1 password`)
	mustExec(t, w, `dea e1 icon`)

	e := w.Tree().FindEntryByID("e1")
	if _, ok := e.Properties["password"]; ok {
		t.Error("expected property deleted")
	}
	if _, ok := e.Attributes["icon"]; ok {
		t.Error("expected attribute deleted")
	}
}

func TestArchiveIDAndAttributes(t *testing.T) {
	w := New(0)
	mustExec(t, w, `aid my-archive`)
	mustExec(t, w, `saa color blue`)
	mustExec(t, w, `daa color`)

	if w.Tree().ArchiveID != "my-archive" {
		t.Errorf("expected archive id set, got %q", w.Tree().ArchiveID)
	}
	if _, ok := w.Tree().Attributes["color"]; ok {
		t.Error("expected archive attribute deleted")
	}
}

func TestClearResetsTreeAndHistory(t *testing.T) {
	w := New(0)
	mustExec(t, w, `cgr 0 g1`)
	w.Clear()

	if w.Tree().GroupCount() != 0 {
		t.Error("expected empty tree after Clear")
	}
	if len(w.GetHistory()) != 0 {
		t.Error("expected empty history after Clear")
	}
	if w.Dirty() {
		t.Error("expected dirty cleared after Clear")
	}
}

func TestClearDirtyStateDoesNotTouchTree(t *testing.T) {
	w := New(0)
	mustExec(t, w, `cgr 0 g1`)
	w.ClearDirtyState()

	if w.Dirty() {
		t.Error("expected dirty cleared")
	}
	if w.Tree().GroupCount() != 1 {
		t.Error("expected tree untouched by ClearDirtyState")
	}
}

func TestPaddingInsertedAtCadenceAndIsTransparent(t *testing.T) {
	w := New(2)
	mustExec(t, w, `cgr 0 g1`)
	mustExec(t, w, `cgr 0 g2`)

	hist := w.GetHistory()
	if len(hist) != 3 {
		t.Fatalf("expected a pad line inserted after 2 commands, got %v", hist)
	}
	if !strings.HasPrefix(hist[2], "pad ") {
		t.Errorf("expected third line to be padding, got %q", hist[2])
	}

	// Replaying without the pad line must produce the same tree.
	replay := New(0)
	for _, line := range hist {
		if strings.HasPrefix(line, "pad ") {
			continue
		}
		mustExec(t, replay, line)
	}
	if replay.Tree().GroupCount() != w.Tree().GroupCount() {
		t.Error("padding should not affect replayed tree shape")
	}
}

func TestDecodeErrorLeavesStateUnchanged(t *testing.T) {
	w := New(0)
	mustExec(t, w, `cgr 0 g1`)
	before := len(w.GetHistory())

	if err := w.Execute(`not-a-real-command`); err == nil {
		t.Fatal("expected decode error")
	}
	if len(w.GetHistory()) != before {
		t.Error("expected history unchanged after decode failure")
	}
}

func asDuplicateID(err error, target **vaulterr.DuplicateIDError) bool {
	d, ok := err.(*vaulterr.DuplicateIDError)
	if ok {
		*target = d
	}
	return ok
}
