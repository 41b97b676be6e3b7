package command

import (
	"fmt"
	"strings"

	"github.com/qri-io/vault/vaulterr"
)

// Command is an immutable record of a single mutation: its opcode, its
// positional arguments, whether the Descriptor marks it destructive, and
// the exact textual form it was parsed from (or will serialize to).
type Command struct {
	Slug        Slug
	Args        []string
	Destructive bool
	Raw         string
}

// New builds a Command from a slug and its positional arguments, validating
// arg count against the Descriptor and rendering Raw via Encode.
func New(s Slug, args ...string) (Command, error) {
	d, ok := Lookup(s)
	if !ok {
		return Command{}, vaulterr.NewInvalidCommand(string(s), "unknown slug")
	}
	if len(args) != d.ArgCount {
		return Command{}, vaulterr.NewInvalidCommand(string(s), fmt.Sprintf("expected %d args, got %d", d.ArgCount, len(args)))
	}
	raw, err := Encode(s, args...)
	if err != nil {
		return Command{}, err
	}
	return Command{Slug: s, Args: args, Destructive: d.Destructive, Raw: raw}, nil
}

// Encode renders a slug and its arguments as a single history line. Each
// argument is written bare when it is non-empty and contains no
// whitespace, quote, or backslash; otherwise it's wrapped in double quotes
// with `"` and `\` escaped.
func Encode(s Slug, args ...string) (string, error) {
	if _, ok := Lookup(s); !ok {
		return "", vaulterr.NewInvalidCommand(string(s), "unknown slug")
	}
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, string(s))
	for _, a := range args {
		parts = append(parts, encodeArg(a))
	}
	return strings.Join(parts, " "), nil
}

func needsQuoting(s string) bool {
	if s == "" {
		return true
	}
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '"' || r == '\\' || r == '\n' || r == '\r' {
			return true
		}
	}
	return false
}

func encodeArg(s string) string {
	if !needsQuoting(s) {
		return s
	}
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		if r == '"' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}

// Decode parses a single history line back into a Command. It accepts both
// quoted and bare argument tokens and rejects unknown slugs or malformed
// quoting. decode(encode(c)) == c for every valid Command (property #2).
func Decode(line string) (Command, error) {
	if len(line) < 3 {
		return Command{}, vaulterr.NewInvalidCommand(line, "line shorter than a slug")
	}
	s := Slug(line[:3])
	d, ok := Lookup(s)
	if !ok {
		log.Debugf("unrecognized slug in line %q", line)
		return Command{}, vaulterr.NewInvalidCommand(line, "unknown slug")
	}

	rest := line[3:]
	args, err := tokenize(rest)
	if err != nil {
		return Command{}, vaulterr.NewInvalidCommand(line, err.Error())
	}
	if len(args) != d.ArgCount {
		return Command{}, vaulterr.NewInvalidCommand(line, fmt.Sprintf("expected %d args, got %d", d.ArgCount, len(args)))
	}

	return Command{Slug: s, Args: args, Destructive: d.Destructive, Raw: line}, nil
}

// tokenize splits the argument payload of a history line into tokens,
// honoring double-quoted strings with backslash-escaped `"` and `\`.
func tokenize(s string) ([]string, error) {
	var tokens []string
	i, n := 0, len(s)

	for i < n {
		for i < n && s[i] == ' ' {
			i++
		}
		if i >= n {
			break
		}

		if s[i] == '"' {
			i++
			var b strings.Builder
			closed := false
			for i < n {
				c := s[i]
				if c == '\\' && i+1 < n && (s[i+1] == '"' || s[i+1] == '\\') {
					b.WriteByte(s[i+1])
					i += 2
					continue
				}
				if c == '"' {
					closed = true
					i++
					break
				}
				b.WriteByte(c)
				i++
			}
			if !closed {
				return nil, fmt.Errorf("unterminated quoted argument")
			}
			tokens = append(tokens, b.String())
		} else {
			start := i
			for i < n && s[i] != ' ' {
				i++
			}
			tokens = append(tokens, s[start:i])
		}
	}

	return tokens, nil
}

// Equal reports whether two commands are identical: same slug, same
// arguments. Raw is not compared directly since it is derived.
func (c Command) Equal(o Command) bool {
	if c.Slug != o.Slug || len(c.Args) != len(o.Args) {
		return false
	}
	for i := range c.Args {
		if c.Args[i] != o.Args[i] {
			return false
		}
	}
	return true
}
