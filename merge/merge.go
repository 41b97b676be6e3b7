// Package merge implements the Merger: given a Comparator's common prefix
// and two divergent tails, it builds a single reconciled history and
// replays it into a fresh archive.
package merge

import (
	golog "github.com/ipfs/go-log"

	"github.com/qri-io/vault/archive"
	"github.com/qri-io/vault/command"
	"github.com/qri-io/vault/compare"
	"github.com/qri-io/vault/config"
)

var log = golog.Logger("merge")

// Merge reconciles two histories using d, the output of a Comparator, and
// replays the result into a fresh Archive. cfg configures the new
// archive's padding policy.
//
// When both sides have diverged (both d.Primary and d.Secondary are
// non-empty), destructive commands are stripped from both tails before
// merging: a concurrent delete against a divergent point has ambiguous
// intent, and keeping the content is the conservative choice. The merged
// history is common ++ secondary ++ primary — remote changes are treated
// as older than the caller's local edits.
//
// Merge is deterministic but not commutative: swapping primary and
// secondary changes the result.
func Merge(d compare.Differences, cfg *config.Config) (*archive.Archive, error) {
	primary, secondary := d.Primary, d.Secondary
	if len(primary) > 0 && len(secondary) > 0 {
		log.Debugf("both sides diverged (%d primary, %d secondary lines); stripping destructive commands from both tails", len(primary), len(secondary))
		var err error
		primary, err = stripDestructive(primary)
		if err != nil {
			return nil, err
		}
		secondary, err = stripDestructive(secondary)
		if err != nil {
			return nil, err
		}
	}

	merged := make([]string, 0, len(d.Common)+len(secondary)+len(primary))
	merged = append(merged, d.Common...)
	merged = append(merged, secondary...)
	merged = append(merged, primary...)

	return archive.CreateFromHistory(merged, cfg)
}

func stripDestructive(lines []string) ([]string, error) {
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		cmd, err := command.Decode(line)
		if err != nil {
			return nil, err
		}
		if command.IsDestructive(cmd.Slug) {
			continue
		}
		kept = append(kept, line)
	}
	return kept, nil
}
