package history

import "fmt"

// RootID is the sentinel parent ID meaning "the archive root" in cgr/mgr
// command arguments. It never appears as an actual Group or Entry ID.
const RootID = "0"

// Group is a node in the archive tree: a container for attributes and
// child Groups/Entries. Group is owned by the Tree it belongs to; callers
// outside this package should treat it as a read-only snapshot and re-fetch
// via Tree.FindGroupByID after any replay, since pointers into one Tree are
// never valid against another.
type Group struct {
	ID         string
	Title      string
	Attributes map[string]string
	ParentID   string // RootID if this Group is top-level

	Groups  []*Group
	Entries []*Entry
}

// Entry is a leaf in the archive tree: named credentials and metadata.
type Entry struct {
	ID         string
	ParentID   string
	Properties map[string]string
	Attributes map[string]string
}

// Tree is the live, in-memory archive state that a Westley applies commands
// to. Format and ArchiveID mirror the Archive's on-disk identity (§3);
// Groups holds the top-level children.
type Tree struct {
	Format     string
	ArchiveID  string
	Attributes map[string]string
	Groups     []*Group

	groupIndex map[string]*Group
	entryIndex map[string]*Entry
}

// NewTree returns an empty Tree, ready to have commands applied to it.
func NewTree() *Tree {
	return &Tree{
		Attributes: map[string]string{},
		groupIndex: map[string]*Group{},
		entryIndex: map[string]*Entry{},
	}
}

// FindGroupByID returns the Group with the given ID, or nil.
func (t *Tree) FindGroupByID(id string) *Group {
	return t.groupIndex[id]
}

// FindEntryByID returns the Entry with the given ID, or nil.
func (t *Tree) FindEntryByID(id string) *Entry {
	return t.entryIndex[id]
}

// HasID reports whether id is already in use by any Group or Entry in the
// tree (IDs are unique across both namespaces, per §3).
func (t *Tree) HasID(id string) bool {
	if _, ok := t.groupIndex[id]; ok {
		return true
	}
	_, ok := t.entryIndex[id]
	return ok
}

// GroupCount returns the number of groups in the tree.
func (t *Tree) GroupCount() int {
	return len(t.groupIndex)
}

// EntryCount returns the number of entries in the tree.
func (t *Tree) EntryCount() int {
	return len(t.entryIndex)
}

// isDescendant reports whether candidate is groupID itself or appears
// somewhere in its subtree — used to reject moves that would create a
// cycle.
func (t *Tree) isDescendant(groupID, candidate string) bool {
	if groupID == candidate {
		return true
	}
	g := t.groupIndex[groupID]
	if g == nil {
		return false
	}
	for _, child := range g.Groups {
		if t.isDescendant(child.ID, candidate) {
			return true
		}
	}
	return false
}

// groupChildSlice returns the slice a top-level or nested group's children live
// in, so callers can append/detach without duplicating traversal logic.
func (t *Tree) groupChildSlice(parentID string) (*[]*Group, bool) {
	if parentID == RootID {
		return &t.Groups, true
	}
	g := t.groupIndex[parentID]
	if g == nil {
		return nil, false
	}
	return &g.Groups, true
}

func (t *Tree) detachGroup(g *Group) {
	slicePtr, ok := t.groupChildSlice(g.ParentID)
	if !ok {
		return
	}
	for i, sib := range *slicePtr {
		if sib.ID == g.ID {
			*slicePtr = append((*slicePtr)[:i], (*slicePtr)[i+1:]...)
			return
		}
	}
}

func (t *Tree) detachEntry(e *Entry) {
	g := t.groupIndex[e.ParentID]
	if g == nil {
		return
	}
	for i, sib := range g.Entries {
		if sib.ID == e.ID {
			g.Entries = append(g.Entries[:i], g.Entries[i+1:]...)
			return
		}
	}
}

// Validate walks the tree from its top-level Groups and confirms it agrees
// with its own lookup indexes: every group and entry reachable from the
// root must be indexed, and the counts must match exactly. A mismatch means
// some apply* left the indexes and the tree's actual shape out of sync —
// a bug in Westley, not a malformed history, and not safe to serve.
func (t *Tree) Validate() error {
	seenGroups := map[string]bool{}
	seenEntries := map[string]bool{}

	var walk func([]*Group)
	walk = func(groups []*Group) {
		for _, g := range groups {
			seenGroups[g.ID] = true
			for _, e := range g.Entries {
				seenEntries[e.ID] = true
			}
			walk(g.Groups)
		}
	}
	walk(t.Groups)

	if len(seenGroups) != len(t.groupIndex) {
		return fmt.Errorf("tree has %d indexed groups but %d reachable from root", len(t.groupIndex), len(seenGroups))
	}
	if len(seenEntries) != len(t.entryIndex) {
		return fmt.Errorf("tree has %d indexed entries but %d reachable from root", len(t.entryIndex), len(seenEntries))
	}
	for id := range seenGroups {
		if t.groupIndex[id] == nil {
			return fmt.Errorf("group %q reachable from root but missing from index", id)
		}
	}
	for id := range seenEntries {
		if t.entryIndex[id] == nil {
			return fmt.Errorf("entry %q reachable from root but missing from index", id)
		}
	}
	return nil
}

// removeGroupSubtreeFromIndex deletes g and every descendant group/entry
// from the lookup indexes, without touching parent children slices (the
// caller is responsible for detaching g from its parent first).
func (t *Tree) removeGroupSubtreeFromIndex(g *Group) {
	for _, e := range g.Entries {
		delete(t.entryIndex, e.ID)
	}
	for _, child := range g.Groups {
		t.removeGroupSubtreeFromIndex(child)
	}
	delete(t.groupIndex, g.ID)
}
