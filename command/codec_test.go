package command

import (
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		slug Slug
		args []string
	}{
		{"bare args", SlugCreateGroup, []string{"0", "abc123"}},
		{"quoted value with space", SlugSetEntryProperty, []string{"e1", "url", "https://example.com/a b"}},
		{"quoted value with quote", SlugSetEntryProperty, []string{"e1", "note", `she said "hi"`}},
		{"quoted value with backslash", SlugSetEntryProperty, []string{"e1", "path", `C:\Users\alice`}},
		{"empty value", SlugSetEntryProperty, []string{"e1", "password", ""}},
		{"unicode value", SlugSetGroupTitle, []string{"g1", "日本語 Ünïcode"}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cmd, err := New(c.slug, c.args...)
			if err != nil {
				t.Fatalf("New: %s", err)
			}
			decoded, err := Decode(cmd.Raw)
			if err != nil {
				t.Fatalf("Decode(%q): %s", cmd.Raw, err)
			}
			if !decoded.Equal(cmd) {
				t.Errorf("round-trip mismatch: encoded %+v, decoded %+v", cmd, decoded)
			}
		})
	}
}

func TestDecodeUnknownSlug(t *testing.T) {
	if _, err := Decode("xyz foo bar"); err == nil {
		t.Fatal("expected error for unknown slug")
	}
}

func TestDecodeWrongArity(t *testing.T) {
	if _, err := Decode("cgr onlyone"); err == nil {
		t.Fatal("expected error for wrong arg count")
	}
}

func TestDecodeUnterminatedQuote(t *testing.T) {
	if _, err := Decode(`sep e1 key "unterminated`); err == nil {
		t.Fatal("expected error for unterminated quote")
	}
}

func TestDescriptorDestructiveFlags(t *testing.T) {
	destructive := []Slug{SlugDeleteArchiveAttr, SlugDeleteGroup, SlugDeleteGroupAttribute, SlugDeleteEntry, SlugDeleteEntryProperty, SlugDeleteEntryAttribute}
	for _, s := range destructive {
		if !IsDestructive(s) {
			t.Errorf("expected %s to be destructive", s)
		}
	}

	nonDestructive := []Slug{SlugArchiveSetID, SlugSetArchiveAttribute, SlugCreateGroup, SlugSetGroupTitle, SlugMoveGroup, SlugSetGroupAttribute, SlugCreateEntry, SlugMoveEntry, SlugSetEntryProperty, SlugSetEntryAttribute, SlugPad, SlugFormat}
	for _, s := range nonDestructive {
		if IsDestructive(s) {
			t.Errorf("expected %s to be non-destructive", s)
		}
	}
}

func TestLookupUnknown(t *testing.T) {
	if _, ok := Lookup(Slug("zzz")); ok {
		t.Fatal("expected unknown slug to not be found")
	}
}
