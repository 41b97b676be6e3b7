// Package flatten implements the Flattener: it compacts an archive's
// command history into a minimal, bounded-length sequence that replays to
// an equivalent tree. Flattening discards edit history in favor of a
// direct serialization of current state, prefixed with the archive's
// format and ID.
package flatten

import (
	"sort"

	golog "github.com/ipfs/go-log"

	"github.com/qri-io/vault/archive"
	"github.com/qri-io/vault/command"
	"github.com/qri-io/vault/history"
)

var log = golog.Logger("flatten")

// Flatten serializes a's current tree into a minimal set of creation and
// set commands. The result replays (via archive.CreateFromHistory) to a
// tree equivalent to a's, but existing IDs are reused rather than
// reassigned, so references held by callers remain valid across a
// flatten. Flattening is idempotent: flattening an already-flat archive
// produces an equivalent history, modulo nothing — sibling order is
// always by ID.
func Flatten(a *archive.Archive) ([]string, error) {
	before := len(a.GetHistory())
	var lines []string

	if f := a.Format(); f != "" {
		cmd, err := command.New(command.SlugFormat, f)
		if err != nil {
			return nil, err
		}
		lines = append(lines, cmd.Raw)
	}
	if id := a.ID(); id != "" {
		cmd, err := command.New(command.SlugArchiveSetID, id)
		if err != nil {
			return nil, err
		}
		lines = append(lines, cmd.Raw)
	}

	attrs := a.Attributes()
	for _, key := range sortedKeys(attrs) {
		cmd, err := command.New(command.SlugSetArchiveAttribute, key, attrs[key])
		if err != nil {
			return nil, err
		}
		lines = append(lines, cmd.Raw)
	}

	groups := a.Groups()
	sortGroups(groups)
	for _, g := range groups {
		flattened, err := flattenGroup(history.RootID, g)
		if err != nil {
			return nil, err
		}
		lines = append(lines, flattened...)
	}

	log.Debugf("flattened %d lines down to %d", before, len(lines))
	return lines, nil
}

func flattenGroup(parentID string, g *archive.Group) ([]string, error) {
	var lines []string

	cmd, err := command.New(command.SlugCreateGroup, parentID, g.ID())
	if err != nil {
		return nil, err
	}
	lines = append(lines, cmd.Raw)

	if title := g.Title(); title != "" {
		cmd, err := command.New(command.SlugSetGroupTitle, g.ID(), title)
		if err != nil {
			return nil, err
		}
		lines = append(lines, cmd.Raw)
	}

	attrs := g.Attributes()
	for _, key := range sortedKeys(attrs) {
		cmd, err := command.New(command.SlugSetGroupAttribute, g.ID(), key, attrs[key])
		if err != nil {
			return nil, err
		}
		lines = append(lines, cmd.Raw)
	}

	entries := g.Entries()
	sortEntries(entries)
	for _, e := range entries {
		flattened, err := flattenEntry(g.ID(), e)
		if err != nil {
			return nil, err
		}
		lines = append(lines, flattened...)
	}

	children := g.Groups()
	sortGroups(children)
	for _, child := range children {
		flattened, err := flattenGroup(g.ID(), child)
		if err != nil {
			return nil, err
		}
		lines = append(lines, flattened...)
	}

	return lines, nil
}

func flattenEntry(groupID string, e *archive.Entry) ([]string, error) {
	var lines []string

	cmd, err := command.New(command.SlugCreateEntry, groupID, e.ID())
	if err != nil {
		return nil, err
	}
	lines = append(lines, cmd.Raw)

	props := e.Properties()
	for _, key := range sortedKeys(props) {
		cmd, err := command.New(command.SlugSetEntryProperty, e.ID(), key, props[key])
		if err != nil {
			return nil, err
		}
		lines = append(lines, cmd.Raw)
	}

	attrs := e.Attributes()
	for _, key := range sortedKeys(attrs) {
		cmd, err := command.New(command.SlugSetEntryAttribute, e.ID(), key, attrs[key])
		if err != nil {
			return nil, err
		}
		lines = append(lines, cmd.Raw)
	}

	return lines, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortGroups(gs []*archive.Group) {
	sort.Slice(gs, func(i, j int) bool { return gs[i].ID() < gs[j].ID() })
}

func sortEntries(es []*archive.Entry) {
	sort.Slice(es, func(i, j int) bool { return es[i].ID() < es[j].ID() })
}
