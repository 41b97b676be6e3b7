// Package datasource defines the abstract contract a Workspace loads and
// saves archives through, plus TextDatasource, the canonical in-memory
// implementation whose content IS the envelope text. Concrete remote
// transports are not provided here: a remote datasource is expected to
// wrap a TextDatasource, fetching remote bytes into it before delegating
// decryption, and reading encrypted bytes back out of it after encrypting.
package datasource

import (
	"context"

	golog "github.com/ipfs/go-log"

	"github.com/qri-io/vault/config"
	"github.com/qri-io/vault/credentials"
	"github.com/qri-io/vault/envelope"
	"github.com/qri-io/vault/vaulterr"
)

var log = golog.Logger("datasource")

// Datasource is the abstract storage contract a Workspace loads and
// saves an archive's history through.
type Datasource interface {
	// Load fetches and decrypts the archive's history. May fail with
	// vaulterr.ErrNetwork, vaulterr.ErrAuthenticationFailure or
	// vaulterr.ErrNotFound.
	Load(ctx context.Context, creds credentials.Credentials) ([]string, error)
	// Save encrypts and persists history. May fail with
	// vaulterr.ErrNetwork, vaulterr.ErrAuthenticationFailure or
	// vaulterr.ErrConflict.
	Save(ctx context.Context, history []string, creds credentials.Credentials) error
	// ToObject returns pure metadata describing this datasource: its
	// "type" plus any implementation-specific parameters. The "type"
	// field is authoritative for whether a Workspace must clear cached
	// plaintext before reloading.
	ToObject() map[string]interface{}
}

// TextDatasource is the canonical in-memory Datasource: its content is
// exactly the envelope text (signature line + Base64 body) that would be
// written to or read from any backing store. Remote datasources wrap one
// of these rather than re-implementing the envelope codec themselves.
type TextDatasource struct {
	content    string
	iterations int
}

// NewTextDatasource returns an empty TextDatasource. cfg's PBKDF2Iterations
// is the iteration count Save will encrypt under; it must be >=
// envelope.MinIterations.
func NewTextDatasource(cfg *config.Config) *TextDatasource {
	return &TextDatasource{iterations: cfg.PBKDF2Iterations}
}

// SetContent replaces the datasource's raw envelope text, e.g. after a
// remote fetch.
func (t *TextDatasource) SetContent(raw string) {
	t.content = raw
}

// GetContent returns the datasource's raw envelope text, e.g. for a
// remote datasource to push upstream after a save.
func (t *TextDatasource) GetContent() string {
	return t.content
}

// Load decrypts the current content under creds.
func (t *TextDatasource) Load(ctx context.Context, creds credentials.Credentials) ([]string, error) {
	if t.content == "" {
		log.Debugf("load requested on empty datasource")
		return nil, vaulterr.ErrNotFound
	}
	return envelope.Decrypt(t.content, creds.Password())
}

// Save encrypts history under creds and stores it as the datasource's
// content. If creds carries key derivation parameters (e.g. the caller is
// migrating an archive up from an older iteration count), those override
// the datasource's configured iteration count for this save.
func (t *TextDatasource) Save(ctx context.Context, history []string, creds credentials.Credentials) error {
	iterations := t.iterations
	if kd, ok := creds.KeyDerivation(); ok {
		log.Debugf("save requested with key derivation override: %d iterations", kd.Iterations)
		iterations = kd.Iterations
	}
	env, err := envelope.Encrypt(history, creds.Password(), iterations)
	if err != nil {
		return err
	}
	t.content = env
	return nil
}

// ToObject describes this datasource as the "text" type.
func (t *TextDatasource) ToObject() map[string]interface{} {
	return map[string]interface{}{"type": "text"}
}

var _ Datasource = (*TextDatasource)(nil)
