package archive

import (
	"github.com/qri-io/vault/command"
	"github.com/qri-io/vault/history"
)

// Group is a reference to a node in the archive's tree: identity plus
// lookup. It is never an owner of tree state — after any external replay
// (load, merge) callers must re-resolve it via Archive.FindGroupByID.
type Group struct {
	a  *Archive
	id string
}

// ID returns the group's stable identifier.
func (g *Group) ID() string {
	return g.id
}

// resolve looks up the live tree node this reference points at. Returns
// nil if the group has since been deleted.
func (g *Group) resolve() *history.Group {
	return g.a.w.Tree().FindGroupByID(g.id)
}

// Title returns the group's current title, or "" if the group no longer
// exists.
func (g *Group) Title() string {
	n := g.resolve()
	if n == nil {
		return ""
	}
	return n.Title
}

// SetTitle renames the group.
func (g *Group) SetTitle(title string) error {
	cmd, err := g.a.gen.Build(command.SlugSetGroupTitle, g.id, title)
	if err != nil {
		return err
	}
	return g.a.w.Execute(cmd.Raw)
}

// ParentID returns the ID of the group's parent, or history.RootID if the
// group is top-level.
func (g *Group) ParentID() string {
	n := g.resolve()
	if n == nil {
		return ""
	}
	return n.ParentID
}

// MoveTo reparents the group under newParent. newParent == nil moves the
// group to the archive root. Moving a group into its own subtree (or
// itself) is rejected with an InvalidMove error.
func (g *Group) MoveTo(newParent *Group) error {
	targetID := history.RootID
	if newParent != nil {
		targetID = newParent.id
	}
	cmd, err := g.a.gen.Build(command.SlugMoveGroup, g.id, targetID)
	if err != nil {
		return err
	}
	return g.a.w.Execute(cmd.Raw)
}

// Delete removes the group and its entire subtree from the archive.
func (g *Group) Delete() error {
	cmd, err := g.a.gen.Build(command.SlugDeleteGroup, g.id)
	if err != nil {
		return err
	}
	return g.a.w.Execute(cmd.Raw)
}

// Attribute returns a group attribute value, or "", false if unset.
func (g *Group) Attribute(key string) (string, bool) {
	n := g.resolve()
	if n == nil {
		return "", false
	}
	v, ok := n.Attributes[key]
	return v, ok
}

// Attributes returns a copy of the group's attribute map.
func (g *Group) Attributes() map[string]string {
	n := g.resolve()
	if n == nil {
		return nil
	}
	out := make(map[string]string, len(n.Attributes))
	for k, v := range n.Attributes {
		out[k] = v
	}
	return out
}

// SetAttribute sets a group attribute. An empty value is valid.
func (g *Group) SetAttribute(key, value string) error {
	cmd, err := g.a.gen.Build(command.SlugSetGroupAttribute, g.id, key, value)
	if err != nil {
		return err
	}
	return g.a.w.Execute(cmd.Raw)
}

// DeleteAttribute removes a group attribute.
func (g *Group) DeleteAttribute(key string) error {
	cmd, err := g.a.gen.Build(command.SlugDeleteGroupAttribute, g.id, key)
	if err != nil {
		return err
	}
	return g.a.w.Execute(cmd.Raw)
}

// Groups returns the group's direct child groups.
func (g *Group) Groups() []*Group {
	n := g.resolve()
	if n == nil {
		return nil
	}
	out := make([]*Group, len(n.Groups))
	for i, c := range n.Groups {
		out[i] = &Group{a: g.a, id: c.ID}
	}
	return out
}

// Entries returns the group's direct child entries.
func (g *Group) Entries() []*Entry {
	n := g.resolve()
	if n == nil {
		return nil
	}
	out := make([]*Entry, len(n.Entries))
	for i, e := range n.Entries {
		out[i] = &Entry{a: g.a, id: e.ID}
	}
	return out
}

// CreateGroup creates a new child group under g with the given title.
func (g *Group) CreateGroup(title string) (*Group, error) {
	return g.a.createGroupUnder(g.id, title)
}

// CreateEntry creates a new entry under g.
func (g *Group) CreateEntry() (*Entry, error) {
	cmd, newID, err := g.a.gen.BuildCreateEntry(g.id)
	if err != nil {
		return nil, err
	}
	if err := g.a.w.Execute(cmd.Raw); err != nil {
		return nil, err
	}
	return &Entry{a: g.a, id: newID}, nil
}
