// Package spec holds a reusable conformance assertion for Datasource
// implementations, in the teacher's convention of pairing an interface
// with an AssertX helper any implementer can run against its own
// constructor.
package spec

import (
	"context"
	"testing"

	"github.com/qri-io/vault/credentials"
	"github.com/qri-io/vault/datasource"
	"github.com/qri-io/vault/vaulterr"
)

// AssertDatasource runs a Datasource implementation through the save/load
// contract every implementation must satisfy: a round trip through Save
// then Load returns the same history, an empty datasource reports
// ErrNotFound on Load, and ToObject always carries a non-empty "type".
func AssertDatasource(t *testing.T, ds datasource.Datasource) {
	t.Helper()
	ctx := context.Background()
	creds := credentials.New("correct horse battery staple")

	obj := ds.ToObject()
	typ, ok := obj["type"]
	if !ok || typ == "" {
		t.Errorf("ToObject must carry a non-empty \"type\" field, got %+v", obj)
	}

	if _, err := ds.Load(ctx, creds); err != vaulterr.ErrNotFound {
		t.Errorf("Load on an empty datasource: expected ErrNotFound, got %v", err)
	}

	history := []string{"cgr 0 g1", "tgr g1 Banking", "cen g1 e1"}
	if err := ds.Save(ctx, history, creds); err != nil {
		t.Fatalf("Save: %s", err)
	}

	got, err := ds.Load(ctx, creds)
	if err != nil {
		t.Fatalf("Load after Save: %s", err)
	}
	if len(got) != len(history) {
		t.Fatalf("expected %d lines back, got %d: %v", len(history), len(got), got)
	}
	for i := range history {
		if got[i] != history[i] {
			t.Errorf("line %d: got %q, want %q", i, got[i], history[i])
		}
	}

	if _, err := ds.Load(ctx, credentials.New("wrong password")); err != vaulterr.ErrAuthenticationFailure {
		t.Errorf("Load with wrong password: expected ErrAuthenticationFailure, got %v", err)
	}
}
