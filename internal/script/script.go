// Package script parses and emits allocator operation scripts.
//
// A script is line oriented:
//
//	# comment
//	arena 11
//	alloc a 4
//	alloc b 1 best
//	free a
//	free 5 3
//
// "arena" must come first and appear once. "alloc NAME SIZE [POLICY]" binds
// NAME to the returned region; POLICY overrides the run's default. "free
// NAME" releases a binding, "free ADDR SIZE" releases a raw region.
//
// Input may be UTF-8, with or without a byte-order mark, or UTF-16 with a
// byte-order mark.
package script

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/joshuapare/heapsim/heap/alloc"
)

// Kind is the operation type of one script line.
type Kind uint8

const (
	KindAlloc Kind = iota + 1
	KindFree
)

func (k Kind) String() string {
	switch k {
	case KindAlloc:
		return DirectiveAlloc
	case KindFree:
		return DirectiveFree
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Op is one allocate or free operation.
type Op struct {
	Line int  // 1-based source line, 0 if built in code
	Kind Kind // KindAlloc or KindFree

	// Name is the binding for alloc, and for free-by-name. Empty for raw frees.
	Name string

	// Size is the requested size (alloc) or the raw region size (free).
	Size int

	// Start is the raw region start; only meaningful for raw frees.
	Start int

	// Policy overrides the run policy when HasPolicy is set.
	Policy    alloc.Policy
	HasPolicy bool
}

// Raw reports whether a free names its region by address instead of binding.
func (o Op) Raw() bool { return o.Kind == KindFree && o.Name == "" }

func (o Op) String() string {
	switch {
	case o.Kind == KindAlloc && o.HasPolicy:
		return fmt.Sprintf("%s %s %d %s", DirectiveAlloc, o.Name, o.Size, policyToken(o.Policy))
	case o.Kind == KindAlloc:
		return fmt.Sprintf("%s %s %d", DirectiveAlloc, o.Name, o.Size)
	case o.Raw():
		return fmt.Sprintf("%s %d %d", DirectiveFree, o.Start, o.Size)
	default:
		return fmt.Sprintf("%s %s", DirectiveFree, o.Name)
	}
}

// Script is a parsed operation sequence over one arena.
type Script struct {
	Arena int
	Ops   []Op
}

// SyntaxError reports a malformed line.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("script: line %d: %s", e.Line, e.Msg)
}

// ParseFile reads and parses the script at path.
func ParseFile(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// ParseBytes parses an in-memory script.
func ParseBytes(data []byte) (*Script, error) {
	return Parse(bytes.NewReader(data))
}

// Parse reads a script from r.
func Parse(r io.Reader) (*Script, error) {
	// A BOM switches to the matching UTF-16/UTF-8 decoder; otherwise UTF-8.
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	scanner := bufio.NewScanner(transform.NewReader(r, decoder))
	buf := make([]byte, 0, ScannerInitialBufferSize)
	scanner.Buffer(buf, ScannerMaxLineSize)

	s := &Script{Ops: make([]Op, 0, InitialOpCapacity)}
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), CR)
		if i := strings.Index(line, CommentPrefix); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		if err := s.parseLine(lineNo, fields); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("script: %w", err)
	}

	if s.Arena == 0 {
		return nil, &SyntaxError{Line: lineNo, Msg: "missing arena directive"}
	}
	return s, nil
}

func (s *Script) parseLine(lineNo int, fields []string) error {
	directive := strings.ToLower(fields[0])
	args := fields[1:]
	fail := func(format string, a ...any) error {
		return &SyntaxError{Line: lineNo, Msg: fmt.Sprintf(format, a...)}
	}

	if directive != DirectiveArena && s.Arena == 0 {
		return fail("%q before arena directive", directive)
	}

	switch directive {
	case DirectiveArena:
		if s.Arena != 0 {
			return fail("duplicate arena directive")
		}
		if len(args) != 1 {
			return fail("usage: arena SIZE")
		}
		n, err := parsePositive(args[0])
		if err != nil {
			return fail("arena size: %v", err)
		}
		s.Arena = n

	case DirectiveAlloc:
		if len(args) != 2 && len(args) != 3 {
			return fail("usage: alloc NAME SIZE [POLICY]")
		}
		if !validName(args[0]) {
			return fail("invalid name %q", args[0])
		}
		size, err := parsePositive(args[1])
		if err != nil {
			return fail("alloc size: %v", err)
		}
		op := Op{Line: lineNo, Kind: KindAlloc, Name: args[0], Size: size}
		if len(args) == 3 {
			p, err := alloc.ParsePolicy(args[2])
			if err != nil {
				return fail("%v", err)
			}
			op.Policy, op.HasPolicy = p, true
		}
		s.Ops = append(s.Ops, op)

	case DirectiveFree:
		switch len(args) {
		case 1:
			if !validName(args[0]) {
				return fail("invalid name %q", args[0])
			}
			s.Ops = append(s.Ops, Op{Line: lineNo, Kind: KindFree, Name: args[0]})
		case 2:
			start, err := strconv.Atoi(args[0])
			if err != nil || start < 0 {
				return fail("free address %q is not a non-negative integer", args[0])
			}
			size, err := parsePositive(args[1])
			if err != nil {
				return fail("free size: %v", err)
			}
			s.Ops = append(s.Ops, Op{Line: lineNo, Kind: KindFree, Start: start, Size: size})
		default:
			return fail("usage: free NAME | free ADDR SIZE")
		}

	default:
		return fail("unknown directive %q", fields[0])
	}
	return nil
}

// Emit writes s in parseable form.
func Emit(w io.Writer, s *Script) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s %d%s", DirectiveArena, s.Arena, LF)
	for _, op := range s.Ops {
		bw.WriteString(op.String())
		bw.WriteString(LF)
	}
	return bw.Flush()
}

func parsePositive(tok string) (int, error) {
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer", tok)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%d is not positive", n)
	}
	return n, nil
}

// validName accepts identifiers that cannot be mistaken for an address.
func validName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r == '-' || r >= '0' && r <= '9'):
		default:
			return false
		}
	}
	return true
}

func policyToken(p alloc.Policy) string {
	if p == alloc.BestFit {
		return "best"
	}
	return "first"
}
