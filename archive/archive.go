// Package archive provides the domain façade over a command history: the
// Archive, Group and Entry types expose typed operations that never touch
// the tree directly. Every mutation is built by an IDGenerator, validated
// by a Descriptor, and routed through a Westley so that the history is
// always the single source of truth for the tree's shape.
package archive

import (
	golog "github.com/ipfs/go-log"

	"github.com/qri-io/vault/command"
	"github.com/qri-io/vault/config"
	"github.com/qri-io/vault/history"
	"github.com/qri-io/vault/idgen"
	"github.com/qri-io/vault/vaulterr"
)

var log = golog.Logger("archive")

// Archive is the root container: an ordered list of top-level Groups plus
// archive-wide attributes, format tag and opaque ID. It owns the Westley
// that applies every mutation and records the resulting history.
type Archive struct {
	w   *history.Westley
	gen *idgen.Inigo
}

// New returns an empty Archive. cfg's PaddingCadence configures the
// Westley's padding policy (see history.New); 0 disables padding.
func New(cfg *config.Config) *Archive {
	return &Archive{
		w:   history.New(cfg.PaddingCadence),
		gen: idgen.New(),
	}
}

// CreateFromHistory replays lines into a fresh Archive. This is the
// canonical import path: loading a saved archive, applying a merge result,
// or reconstructing state after a remote sync all funnel through here.
func CreateFromHistory(lines []string, cfg *config.Config) (*Archive, error) {
	a := New(cfg)
	for i, line := range lines {
		if err := a.w.Execute(line); err != nil {
			log.Debugf("replay failed at line %d of %d: %s", i, len(lines), err)
			return nil, err
		}
	}
	if err := a.w.Tree().Validate(); err != nil {
		vaulterr.Panic(err.Error())
	}
	a.w.ClearDirtyState()
	return a, nil
}

// GetHistory returns the canonical export of the archive: every command
// line executed so far, including padding.
func (a *Archive) GetHistory() []string {
	return a.w.GetHistory()
}

// Dirty reports whether the archive has unsaved changes.
func (a *Archive) Dirty() bool {
	return a.w.Dirty()
}

// ClearDirtyState marks the archive as saved.
func (a *Archive) ClearDirtyState() {
	a.w.ClearDirtyState()
}

// Format returns the archive's format tag, set by the `fmt` command.
func (a *Archive) Format() string {
	return a.w.Tree().Format
}

// ID returns the archive's opaque identifier, set by the `aid` command. It
// is empty until the archive has been assigned one (typically on first
// save).
func (a *Archive) ID() string {
	return a.w.Tree().ArchiveID
}

// SetID assigns the archive's opaque identifier.
func (a *Archive) SetID(id string) error {
	cmd, err := a.gen.Build(command.SlugArchiveSetID, id)
	if err != nil {
		return err
	}
	return a.w.Execute(cmd.Raw)
}

// Attribute returns the archive-wide attribute value for key, or "", false
// if unset.
func (a *Archive) Attribute(key string) (string, bool) {
	v, ok := a.w.Tree().Attributes[key]
	return v, ok
}

// Attributes returns a copy of the archive-wide attribute map.
func (a *Archive) Attributes() map[string]string {
	src := a.w.Tree().Attributes
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// SetAttribute sets an archive-wide attribute. An empty value is valid;
// use DeleteAttribute to remove a key entirely.
func (a *Archive) SetAttribute(key, value string) error {
	cmd, err := a.gen.Build(command.SlugSetArchiveAttribute, key, value)
	if err != nil {
		return err
	}
	return a.w.Execute(cmd.Raw)
}

// DeleteAttribute removes an archive-wide attribute.
func (a *Archive) DeleteAttribute(key string) error {
	cmd, err := a.gen.Build(command.SlugDeleteArchiveAttr, key)
	if err != nil {
		return err
	}
	return a.w.Execute(cmd.Raw)
}

// Groups returns the archive's top-level groups.
func (a *Archive) Groups() []*Group {
	nodes := a.w.Tree().Groups
	out := make([]*Group, len(nodes))
	for i, g := range nodes {
		out[i] = &Group{a: a, id: g.ID}
	}
	return out
}

// FindGroupByID returns the Group with the given ID, or nil if no such
// group exists.
func (a *Archive) FindGroupByID(id string) *Group {
	if a.w.Tree().FindGroupByID(id) == nil {
		return nil
	}
	return &Group{a: a, id: id}
}

// FindEntryByID returns the Entry with the given ID, or nil if no such
// entry exists.
func (a *Archive) FindEntryByID(id string) *Entry {
	if a.w.Tree().FindEntryByID(id) == nil {
		return nil
	}
	return &Entry{a: a, id: id}
}

// CreateGroup creates a new top-level group with the given title and
// returns a reference to it.
func (a *Archive) CreateGroup(title string) (*Group, error) {
	return a.createGroupUnder(history.RootID, title)
}

func (a *Archive) createGroupUnder(parentID, title string) (*Group, error) {
	cmd, newID, err := a.gen.BuildCreateGroup(parentID)
	if err != nil {
		return nil, err
	}
	if err := a.w.Execute(cmd.Raw); err != nil {
		return nil, err
	}
	g := &Group{a: a, id: newID}
	if title != "" {
		if err := g.SetTitle(title); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Summary is the result of Describe(): a cheap overview of the archive's
// shape without requiring the caller to walk the tree itself.
type Summary struct {
	GroupCount    int
	EntryCount    int
	AttributeKeys []string
}

// Describe returns a summary of the archive's current shape.
func (a *Archive) Describe() Summary {
	t := a.w.Tree()
	keys := make([]string, 0, len(t.Attributes))
	for k := range t.Attributes {
		keys = append(keys, k)
	}
	return Summary{
		GroupCount:    t.GroupCount(),
		EntryCount:    t.EntryCount(),
		AttributeKeys: keys,
	}
}
