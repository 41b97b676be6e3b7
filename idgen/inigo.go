// Package idgen implements "Inigo", the archive engine's ID generator: it
// mints short, collision-resistant entity IDs and knows the command
// Descriptor well enough to hand a caller a ready-to-apply history line for
// a given mutation, stamped with a freshly generated ID where one is
// needed.
package idgen

import (
	"crypto/rand"
	"fmt"

	logger "github.com/ipfs/go-log"
	"github.com/mr-tron/base58"

	"github.com/qri-io/vault/command"
)

var log = logger.Logger("idgen")

// idByteLen is the number of random bytes packed into each generated ID.
// 8 bytes is 64 bits of entropy, comfortably over the ≥48-bit floor the
// spec calls for once base58-encoded.
const idByteLen = 8

// Inigo generates entity IDs and builds Descriptor-validated commands. The
// zero value reads from crypto/rand; the randRead field exists so tests can
// swap the randomness source.
type Inigo struct {
	randRead func([]byte) (int, error)
}

// New returns an Inigo reading from crypto/rand.
func New() *Inigo {
	return &Inigo{randRead: rand.Read}
}

// NewID mints a new, base58-encoded, collision-resistant entity ID. IDs are
// opaque: callers must never parse them as numbers or assume a length.
func (g *Inigo) NewID() (string, error) {
	read := g.randRead
	if read == nil {
		read = rand.Read
	}
	buf := make([]byte, idByteLen)
	if _, err := read(buf); err != nil {
		log.Errorf("entropy source failed while generating id: %s", err)
		return "", fmt.Errorf("generating id: %w", err)
	}
	return base58.Encode(buf), nil
}

// MustNewID is NewID, panicking on failure. crypto/rand only fails when the
// OS entropy source is broken, a condition callers can't meaningfully
// recover from anyway.
func (g *Inigo) MustNewID() string {
	id, err := g.NewID()
	if err != nil {
		panic(err)
	}
	return id
}

// BuildCreateGroup mints a new group ID and returns the cgr command that
// creates it under parentID (the archive's sentinel ID "0" for the root),
// along with the minted ID.
func (g *Inigo) BuildCreateGroup(parentID string) (cmd command.Command, newID string, err error) {
	newID, err = g.NewID()
	if err != nil {
		return command.Command{}, "", err
	}
	cmd, err = command.New(command.SlugCreateGroup, parentID, newID)
	return cmd, newID, err
}

// BuildCreateEntry mints a new entry ID and returns the cen command that
// creates it under groupID, along with the minted ID.
func (g *Inigo) BuildCreateEntry(groupID string) (cmd command.Command, newID string, err error) {
	newID, err = g.NewID()
	if err != nil {
		return command.Command{}, "", err
	}
	cmd, err = command.New(command.SlugCreateEntry, groupID, newID)
	return cmd, newID, err
}

// Build constructs a Descriptor-validated command for slug using args
// as-is, with no ID generation. Use this for any mutation that targets an
// existing entity rather than minting a new one (tgr, mgr, sep, ...).
func (g *Inigo) Build(s command.Slug, args ...string) (command.Command, error) {
	return command.New(s, args...)
}
