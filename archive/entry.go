package archive

import (
	"github.com/qri-io/vault/command"
	"github.com/qri-io/vault/history"
)

// Entry is a reference to a leaf node in the archive's tree: named
// credentials and metadata. Like Group, it is identity plus lookup and
// must be re-resolved after external replay.
type Entry struct {
	a  *Archive
	id string
}

// ID returns the entry's stable identifier.
func (e *Entry) ID() string {
	return e.id
}

func (e *Entry) resolve() *history.Entry {
	return e.a.w.Tree().FindEntryByID(e.id)
}

// ParentID returns the ID of the entry's containing group.
func (e *Entry) ParentID() string {
	n := e.resolve()
	if n == nil {
		return ""
	}
	return n.ParentID
}

// Property returns a property value (e.g. "username", "password"), or
// "", false if unset.
func (e *Entry) Property(key string) (string, bool) {
	n := e.resolve()
	if n == nil {
		return "", false
	}
	v, ok := n.Properties[key]
	return v, ok
}

// SetProperty sets an entry property. An empty value is a valid property
// value (e.g. a blank password); use DeleteProperty to remove the key
// entirely.
func (e *Entry) SetProperty(key, value string) error {
	cmd, err := e.a.gen.Build(command.SlugSetEntryProperty, e.id, key, value)
	if err != nil {
		return err
	}
	return e.a.w.Execute(cmd.Raw)
}

// DeleteProperty removes an entry property.
func (e *Entry) DeleteProperty(key string) error {
	cmd, err := e.a.gen.Build(command.SlugDeleteEntryProperty, e.id, key)
	if err != nil {
		return err
	}
	return e.a.w.Execute(cmd.Raw)
}

// Attribute returns an entry attribute value, or "", false if unset.
func (e *Entry) Attribute(key string) (string, bool) {
	n := e.resolve()
	if n == nil {
		return "", false
	}
	v, ok := n.Attributes[key]
	return v, ok
}

// Properties returns a copy of the entry's property map.
func (e *Entry) Properties() map[string]string {
	n := e.resolve()
	if n == nil {
		return nil
	}
	out := make(map[string]string, len(n.Properties))
	for k, v := range n.Properties {
		out[k] = v
	}
	return out
}

// Attributes returns a copy of the entry's attribute map.
func (e *Entry) Attributes() map[string]string {
	n := e.resolve()
	if n == nil {
		return nil
	}
	out := make(map[string]string, len(n.Attributes))
	for k, v := range n.Attributes {
		out[k] = v
	}
	return out
}

// SetAttribute sets an entry attribute. An empty value is valid.
func (e *Entry) SetAttribute(key, value string) error {
	cmd, err := e.a.gen.Build(command.SlugSetEntryAttribute, e.id, key, value)
	if err != nil {
		return err
	}
	return e.a.w.Execute(cmd.Raw)
}

// DeleteAttribute removes an entry attribute.
func (e *Entry) DeleteAttribute(key string) error {
	cmd, err := e.a.gen.Build(command.SlugDeleteEntryAttribute, e.id, key)
	if err != nil {
		return err
	}
	return e.a.w.Execute(cmd.Raw)
}

// MoveTo moves the entry into newGroup.
func (e *Entry) MoveTo(newGroup *Group) error {
	cmd, err := e.a.gen.Build(command.SlugMoveEntry, e.id, newGroup.id)
	if err != nil {
		return err
	}
	return e.a.w.Execute(cmd.Raw)
}

// Delete removes the entry from the archive.
func (e *Entry) Delete() error {
	cmd, err := e.a.gen.Build(command.SlugDeleteEntry, e.id)
	if err != nil {
		return err
	}
	return e.a.w.Execute(cmd.Raw)
}
