// Package history implements Westley, the command executor at the heart of
// the archive engine: it holds the live tree, applies decoded commands to
// it, records the commands that succeeded, and tracks whether the tree has
// unsaved changes.
package history

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	golog "github.com/ipfs/go-log"

	"github.com/qri-io/vault/command"
	"github.com/qri-io/vault/vaulterr"
)

var log = golog.Logger("history")

// Westley executes a history of commands against an in-memory archive
// tree. It is not safe for concurrent use by multiple goroutines; callers
// (the archive façade, the workspace) are responsible for serializing
// access to a single Westley.
type Westley struct {
	tree    *Tree
	lines   []string
	dirty   bool
	cadence int
	sinceEx int
}

// New returns an empty Westley. cadence is the padding policy: after this
// many executed non-pad commands, a pad line with a random nonce is
// inserted. cadence <= 0 disables padding.
func New(cadence int) *Westley {
	return &Westley{
		tree:    NewTree(),
		cadence: cadence,
	}
}

// Tree returns the live archive tree. The returned pointer is only valid
// until the next Execute or Clear call mutates it.
func (w *Westley) Tree() *Tree {
	return w.tree
}

// Dirty reports whether commands have executed since the last
// ClearDirtyState call.
func (w *Westley) Dirty() bool {
	return w.dirty
}

// ClearDirtyState resets the dirty flag without touching the tree or
// history. Callers do this after a successful save.
func (w *Westley) ClearDirtyState() {
	w.dirty = false
}

// Clear resets the tree and history to empty and clears the dirty flag.
func (w *Westley) Clear() {
	w.tree = NewTree()
	w.lines = nil
	w.dirty = false
	w.sinceEx = 0
}

// GetHistory returns a snapshot copy of the executed history lines,
// including any padding. Mutating the returned slice has no effect on the
// Westley.
func (w *Westley) GetHistory() []string {
	out := make([]string, len(w.lines))
	copy(out, w.lines)
	return out
}

// Execute decodes a single history line and applies its effect to the
// tree. On success the raw line is appended to history and the dirty flag
// is set. On failure the tree and history are left exactly as they were:
// every apply* helper validates its preconditions before mutating anything.
func (w *Westley) Execute(line string) error {
	cmd, err := command.Decode(line)
	if err != nil {
		return err
	}
	if err := w.apply(cmd); err != nil {
		return err
	}
	w.lines = append(w.lines, cmd.Raw)
	w.dirty = true

	if cmd.Slug != command.SlugPad {
		w.maybePad()
	}
	return nil
}

func (w *Westley) maybePad() {
	if w.cadence <= 0 {
		return
	}
	w.sinceEx++
	if w.sinceEx < w.cadence {
		return
	}
	w.sinceEx = 0
	nonce, err := randomNonce()
	if err != nil {
		log.Debugf("padding: failed to generate nonce: %s", err)
		return
	}
	cmd, err := command.New(command.SlugPad, nonce)
	if err != nil {
		log.Debugf("padding: failed to build pad command: %s", err)
		return
	}
	w.lines = append(w.lines, cmd.Raw)
}

func randomNonce() (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func (w *Westley) apply(cmd command.Command) error {
	t := w.tree
	switch cmd.Slug {
	case command.SlugArchiveSetID:
		t.ArchiveID = cmd.Args[0]
		return nil

	case command.SlugSetArchiveAttribute:
		t.Attributes[cmd.Args[0]] = cmd.Args[1]
		return nil

	case command.SlugDeleteArchiveAttr:
		delete(t.Attributes, cmd.Args[0])
		return nil

	case command.SlugCreateGroup:
		return w.applyCreateGroup(cmd.Args[0], cmd.Args[1])

	case command.SlugSetGroupTitle:
		g := t.FindGroupByID(cmd.Args[0])
		if g == nil {
			return vaulterr.NewEntityNotFound(cmd.Args[0])
		}
		g.Title = cmd.Args[1]
		return nil

	case command.SlugMoveGroup:
		return w.applyMoveGroup(cmd.Args[0], cmd.Args[1])

	case command.SlugDeleteGroup:
		g := t.FindGroupByID(cmd.Args[0])
		if g == nil {
			return vaulterr.NewEntityNotFound(cmd.Args[0])
		}
		t.detachGroup(g)
		t.removeGroupSubtreeFromIndex(g)
		return nil

	case command.SlugSetGroupAttribute:
		g := t.FindGroupByID(cmd.Args[0])
		if g == nil {
			return vaulterr.NewEntityNotFound(cmd.Args[0])
		}
		g.Attributes[cmd.Args[1]] = cmd.Args[2]
		return nil

	case command.SlugDeleteGroupAttribute:
		g := t.FindGroupByID(cmd.Args[0])
		if g == nil {
			return vaulterr.NewEntityNotFound(cmd.Args[0])
		}
		delete(g.Attributes, cmd.Args[1])
		return nil

	case command.SlugCreateEntry:
		return w.applyCreateEntry(cmd.Args[0], cmd.Args[1])

	case command.SlugMoveEntry:
		return w.applyMoveEntry(cmd.Args[0], cmd.Args[1])

	case command.SlugDeleteEntry:
		e := t.FindEntryByID(cmd.Args[0])
		if e == nil {
			return vaulterr.NewEntityNotFound(cmd.Args[0])
		}
		t.detachEntry(e)
		delete(t.entryIndex, e.ID)
		return nil

	case command.SlugSetEntryProperty:
		e := t.FindEntryByID(cmd.Args[0])
		if e == nil {
			return vaulterr.NewEntityNotFound(cmd.Args[0])
		}
		e.Properties[cmd.Args[1]] = cmd.Args[2]
		return nil

	case command.SlugDeleteEntryProperty:
		e := t.FindEntryByID(cmd.Args[0])
		if e == nil {
			return vaulterr.NewEntityNotFound(cmd.Args[0])
		}
		delete(e.Properties, cmd.Args[1])
		return nil

	case command.SlugSetEntryAttribute:
		e := t.FindEntryByID(cmd.Args[0])
		if e == nil {
			return vaulterr.NewEntityNotFound(cmd.Args[0])
		}
		e.Attributes[cmd.Args[1]] = cmd.Args[2]
		return nil

	case command.SlugDeleteEntryAttribute:
		e := t.FindEntryByID(cmd.Args[0])
		if e == nil {
			return vaulterr.NewEntityNotFound(cmd.Args[0])
		}
		delete(e.Attributes, cmd.Args[1])
		return nil

	case command.SlugPad:
		return nil

	case command.SlugFormat:
		t.Format = cmd.Args[0]
		return nil
	}

	return vaulterr.NewInvalidCommand(cmd.Raw, fmt.Sprintf("no apply rule for slug %q", cmd.Slug))
}

func (w *Westley) applyCreateGroup(parentID, newID string) error {
	t := w.tree
	if t.HasID(newID) {
		return vaulterr.NewDuplicateID(newID)
	}
	slicePtr, ok := t.groupChildSlice(parentID)
	if !ok {
		return vaulterr.NewEntityNotFound(parentID)
	}
	g := &Group{
		ID:         newID,
		ParentID:   parentID,
		Attributes: map[string]string{},
	}
	*slicePtr = append(*slicePtr, g)
	t.groupIndex[newID] = g
	return nil
}

func (w *Westley) applyMoveGroup(groupID, newParentID string) error {
	t := w.tree
	g := t.FindGroupByID(groupID)
	if g == nil {
		return vaulterr.NewEntityNotFound(groupID)
	}
	if newParentID != RootID {
		if t.FindGroupByID(newParentID) == nil {
			return vaulterr.NewEntityNotFound(newParentID)
		}
	}
	if t.isDescendant(groupID, newParentID) {
		return vaulterr.NewInvalidMove("cannot move a group into itself or a descendant")
	}
	slicePtr, ok := t.groupChildSlice(newParentID)
	if !ok {
		return vaulterr.NewEntityNotFound(newParentID)
	}
	t.detachGroup(g)
	g.ParentID = newParentID
	*slicePtr = append(*slicePtr, g)
	return nil
}

func (w *Westley) applyCreateEntry(groupID, newID string) error {
	t := w.tree
	if t.HasID(newID) {
		return vaulterr.NewDuplicateID(newID)
	}
	g := t.FindGroupByID(groupID)
	if g == nil {
		return vaulterr.NewEntityNotFound(groupID)
	}
	e := &Entry{
		ID:         newID,
		ParentID:   groupID,
		Properties: map[string]string{},
		Attributes: map[string]string{},
	}
	g.Entries = append(g.Entries, e)
	t.entryIndex[newID] = e
	return nil
}

func (w *Westley) applyMoveEntry(entryID, newGroupID string) error {
	t := w.tree
	e := t.FindEntryByID(entryID)
	if e == nil {
		return vaulterr.NewEntityNotFound(entryID)
	}
	newGroup := t.FindGroupByID(newGroupID)
	if newGroup == nil {
		return vaulterr.NewEntityNotFound(newGroupID)
	}
	t.detachEntry(e)
	e.ParentID = newGroupID
	newGroup.Entries = append(newGroup.Entries, e)
	return nil
}
