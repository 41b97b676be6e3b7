// Package command defines the history's command language: the fixed table
// of opcodes Westley knows how to apply (the "descriptor"), and the line
// codec that turns a Command to and from its textual history form.
package command

import (
	golog "github.com/ipfs/go-log"
)

var log = golog.Logger("command")

// Slug is the three-letter opcode that begins every history line.
type Slug string

// The canonical set of opcodes. Every line in a history begins with one of
// these, a space, and then opcode-specific argument payload.
const (
	SlugArchiveSetID          = Slug("aid")
	SlugSetArchiveAttribute   = Slug("saa")
	SlugDeleteArchiveAttr     = Slug("daa")
	SlugCreateGroup           = Slug("cgr")
	SlugSetGroupTitle         = Slug("tgr")
	SlugMoveGroup             = Slug("mgr")
	SlugDeleteGroup           = Slug("dgr")
	SlugSetGroupAttribute     = Slug("sga")
	SlugDeleteGroupAttribute  = Slug("dga")
	SlugCreateEntry           = Slug("cen")
	SlugMoveEntry             = Slug("men")
	SlugDeleteEntry           = Slug("den")
	SlugSetEntryProperty      = Slug("sep")
	SlugDeleteEntryProperty   = Slug("dep")
	SlugSetEntryAttribute     = Slug("sea")
	SlugDeleteEntryAttribute  = Slug("dea")
	SlugPad                   = Slug("pad")
	SlugFormat                = Slug("fmt")
)

// Descriptor is the Descriptor-table entry for a single opcode: its name,
// the number of positional arguments it takes, and whether applying it
// removes information from the tree.
type Descriptor struct {
	Name        string
	Slug        Slug
	ArgCount    int
	Destructive bool
}

// table is the central Descriptor registry (C1). It is the single source
// of truth both CommandCodec and Westley consult.
var table = map[Slug]Descriptor{
	SlugArchiveSetID:         {Name: "archive set id", Slug: SlugArchiveSetID, ArgCount: 1, Destructive: false},
	SlugSetArchiveAttribute:  {Name: "set archive attribute", Slug: SlugSetArchiveAttribute, ArgCount: 2, Destructive: false},
	SlugDeleteArchiveAttr:    {Name: "delete archive attribute", Slug: SlugDeleteArchiveAttr, ArgCount: 1, Destructive: true},
	SlugCreateGroup:          {Name: "create group", Slug: SlugCreateGroup, ArgCount: 2, Destructive: false},
	SlugSetGroupTitle:        {Name: "set group title", Slug: SlugSetGroupTitle, ArgCount: 2, Destructive: false},
	SlugMoveGroup:            {Name: "move group", Slug: SlugMoveGroup, ArgCount: 2, Destructive: false},
	SlugDeleteGroup:          {Name: "delete group", Slug: SlugDeleteGroup, ArgCount: 1, Destructive: true},
	SlugSetGroupAttribute:    {Name: "set group attribute", Slug: SlugSetGroupAttribute, ArgCount: 3, Destructive: false},
	SlugDeleteGroupAttribute: {Name: "delete group attribute", Slug: SlugDeleteGroupAttribute, ArgCount: 2, Destructive: true},
	SlugCreateEntry:          {Name: "create entry", Slug: SlugCreateEntry, ArgCount: 2, Destructive: false},
	SlugMoveEntry:            {Name: "move entry", Slug: SlugMoveEntry, ArgCount: 2, Destructive: false},
	SlugDeleteEntry:          {Name: "delete entry", Slug: SlugDeleteEntry, ArgCount: 1, Destructive: true},
	SlugSetEntryProperty:     {Name: "set entry property", Slug: SlugSetEntryProperty, ArgCount: 3, Destructive: false},
	SlugDeleteEntryProperty:  {Name: "delete entry property", Slug: SlugDeleteEntryProperty, ArgCount: 2, Destructive: true},
	SlugSetEntryAttribute:    {Name: "set entry attribute", Slug: SlugSetEntryAttribute, ArgCount: 3, Destructive: false},
	SlugDeleteEntryAttribute: {Name: "delete entry attribute", Slug: SlugDeleteEntryAttribute, ArgCount: 2, Destructive: true},
	SlugPad:                  {Name: "padding", Slug: SlugPad, ArgCount: 1, Destructive: false},
	SlugFormat:               {Name: "format tag", Slug: SlugFormat, ArgCount: 1, Destructive: false},
}

// Lookup returns the Descriptor for a slug, and whether it's known.
func Lookup(s Slug) (Descriptor, bool) {
	d, ok := table[s]
	return d, ok
}

// IsDestructive reports whether a slug's Descriptor marks it destructive.
// Unknown slugs are conservatively treated as non-destructive here; codec
// decoding rejects unknown slugs well before a merge ever sees them.
func IsDestructive(s Slug) bool {
	d, ok := table[s]
	return ok && d.Destructive
}
