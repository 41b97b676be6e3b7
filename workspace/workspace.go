// Package workspace coordinates a single archive against a datasource:
// detecting remote divergence, merging it in, and saving local changes
// back out through a per-archive FIFO save channel.
package workspace

import (
	"context"
	"errors"

	golog "github.com/ipfs/go-log"

	"github.com/qri-io/vault/archive"
	"github.com/qri-io/vault/compare"
	"github.com/qri-io/vault/config"
	"github.com/qri-io/vault/credentials"
	"github.com/qri-io/vault/datasource"
	"github.com/qri-io/vault/flatten"
	"github.com/qri-io/vault/idgen"
	"github.com/qri-io/vault/merge"
	"github.com/qri-io/vault/vaulterr"
)

var log = golog.Logger("workspace")

// Workspace holds the current archive, the datasource it's saved to and
// loaded from, and the credentials used to authenticate with that
// datasource.
type Workspace struct {
	archive *archive.Archive
	ds      datasource.Datasource
	creds   credentials.Credentials

	gen *idgen.Inigo
	cfg *config.Config
}

// New returns an empty Workspace. cfg configures the padding policy of any
// archive the Workspace builds internally (such as a merge result) and the
// history length past which Save flattens before writing out.
func New(cfg *config.Config) *Workspace {
	return &Workspace{gen: idgen.New(), cfg: cfg}
}

// SetArchive assigns the archive, datasource and credentials this
// Workspace coordinates.
func (w *Workspace) SetArchive(a *archive.Archive, ds datasource.Datasource, creds credentials.Credentials) {
	w.archive = a
	w.ds = ds
	w.creds = creds
}

// Archive returns the currently assigned archive.
func (w *Workspace) Archive() *archive.Archive {
	return w.archive
}

// clearStaleRemoteContent clears any cached plaintext a non-text
// datasource may be holding, so stale content can't masquerade as a
// fresh remote fetch. The canonical in-memory "text" datasource has no
// such cache — its content is the source of truth, not a copy of one.
func (w *Workspace) clearStaleRemoteContent() {
	if w.ds.ToObject()["type"] == "text" {
		return
	}
	if c, ok := w.ds.(interface{ SetContent(string) }); ok {
		c.SetContent("")
	}
}

func (w *Workspace) loadRemote(ctx context.Context) ([]string, error) {
	w.clearStaleRemoteContent()
	lines, err := w.ds.Load(ctx, w.creds)
	if errors.Is(err, vaulterr.ErrNotFound) {
		return nil, nil
	}
	return lines, err
}

// LocalDiffersFromRemote reports whether the remote datasource's history
// differs from the local archive's. Does not mutate local state.
func (w *Workspace) LocalDiffersFromRemote(ctx context.Context) (bool, error) {
	remoteLines, err := w.loadRemote(ctx)
	if err != nil {
		return false, err
	}
	c := compare.New(w.archive.GetHistory(), remoteLines)
	return c.ArchivesDiffer(), nil
}

// MergeFromRemote loads the remote history, merges it against the local
// archive, replaces the local archive with the result, and returns it.
// Local edits are treated as the primary (newer) side of the merge; the
// remote history is secondary.
func (w *Workspace) MergeFromRemote(ctx context.Context) (*archive.Archive, error) {
	remoteLines, err := w.loadRemote(ctx)
	if err != nil {
		return nil, err
	}

	c := compare.New(w.archive.GetHistory(), remoteLines)
	merged, err := merge.Merge(c.CalculateDifferences(), w.cfg)
	if err != nil {
		log.Errorf("merge failed: %s", err)
		return nil, err
	}
	w.archive = merged
	return merged, nil
}

// Update merges in remote changes if the remote has diverged from local;
// otherwise it's a no-op.
func (w *Workspace) Update(ctx context.Context) error {
	differs, err := w.LocalDiffersFromRemote(ctx)
	if err != nil {
		return err
	}
	if !differs {
		return nil
	}
	_, err = w.MergeFromRemote(ctx)
	return err
}

// flattenIfNeeded replaces the workspace's archive with an equivalent one
// compacted by the Flattener, if its history has grown past
// cfg.FlattenThreshold. A threshold of 0 or less disables this.
func (w *Workspace) flattenIfNeeded() error {
	threshold := w.cfg.FlattenThreshold
	if threshold <= 0 {
		return nil
	}
	history := w.archive.GetHistory()
	if len(history) <= threshold {
		return nil
	}

	log.Debugf("history length %d exceeds flatten threshold %d, flattening before save", len(history), threshold)
	lines, err := flatten.Flatten(w.archive)
	if err != nil {
		return err
	}
	flattened, err := archive.CreateFromHistory(lines, w.cfg)
	if err != nil {
		return err
	}
	w.archive = flattened
	return nil
}

// Save enqueues a save of the local archive's history on the per-archive
// FIFO save channel, waits for it to complete, and on success clears the
// archive's dirty bit. A failed save leaves the dirty bit set so retry
// logic can decide to replay. If the archive has no ID yet, one is
// minted now, since a save channel is keyed by archive ID. If the
// history has grown past the configured flatten threshold, it's
// compacted before being handed to the datasource.
func (w *Workspace) Save(ctx context.Context) error {
	if w.archive.ID() == "" {
		id, err := w.gen.NewID()
		if err != nil {
			return err
		}
		if err := w.archive.SetID(id); err != nil {
			return err
		}
	}

	unsaved := w.archive
	if err := w.flattenIfNeeded(); err != nil {
		return err
	}

	a, ds, creds := w.archive, w.ds, w.creds
	history := a.GetHistory()

	task := channelFor(a.ID()).push(ctx, 0, "saving", func(ctx context.Context) error {
		return ds.Save(ctx, history, creds)
	})
	if err := task.Result(); err != nil {
		log.Errorf("save failed for archive %s: %s", a.ID(), err)
		// A flattened replay starts out clean; put back the archive that
		// still carries the dirty bit.
		w.archive = unsaved
		return err
	}
	a.ClearDirtyState()
	return nil
}

// UpdatePrimaryCredentials replaces the credentials Save and the remote
// comparison methods authenticate with. This is in-memory only and takes
// effect on the next save; it also clears any cached remote plaintext,
// since that plaintext was decrypted under the credentials being
// replaced and must not be trusted under the new ones.
func (w *Workspace) UpdatePrimaryCredentials(creds credentials.Credentials) {
	w.creds = creds
	w.clearStaleRemoteContent()
}
