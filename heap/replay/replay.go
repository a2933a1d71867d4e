// Package replay executes operation scripts against fresh allocators and
// compares placement policies step by step.
package replay

import (
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/joshuapare/heapsim/heap/alloc"
	"github.com/joshuapare/heapsim/heap/verify"
	"github.com/joshuapare/heapsim/internal/script"
)

var (
	// ErrUnknownName indicates a free of a name that was never allocated.
	ErrUnknownName = errors.New("replay: unknown allocation name")

	// ErrNameInUse indicates an alloc that rebinds a name still live.
	ErrNameInUse = errors.New("replay: name already bound to a live allocation")

	// ErrInvariant indicates a post-step invariant check failed.
	ErrInvariant = errors.New("replay: invariant violated")
)

// Script is a parsed operation script.
type Script = script.Script

// LoadFile parses the script at path.
func LoadFile(path string) (*Script, error) {
	return script.ParseFile(path)
}

// Load parses an in-memory script.
func Load(data []byte) (*Script, error) {
	return script.ParseBytes(data)
}

// Step is the outcome of one script operation.
type Step struct {
	Index  int           `json:"index" yaml:"index"`
	Line   int           `json:"line,omitempty" yaml:"line,omitempty"`
	Op     string        `json:"op" yaml:"op"`
	Policy string        `json:"policy,omitempty" yaml:"policy,omitempty"`
	Addr   int           `json:"addr" yaml:"addr"`
	OK     bool          `json:"ok" yaml:"ok"`
	Error  string        `json:"error,omitempty" yaml:"error,omitempty"`
	Free   []alloc.Block `json:"free" yaml:"free"`

	err error
}

// Err returns the allocator error of a failed step, or nil.
func (s Step) Err() error { return s.err }

// Trace is the full record of one run.
type Trace struct {
	Policy string      `json:"policy" yaml:"policy"`
	Arena  int         `json:"arena" yaml:"arena"`
	Steps  []Step      `json:"steps" yaml:"steps"`
	Usage  alloc.Usage `json:"usage" yaml:"usage"`
	Stats  alloc.Stats `json:"stats" yaml:"stats"`
}

// Failures counts steps that did not succeed.
func (t *Trace) Failures() int {
	n := 0
	for _, s := range t.Steps {
		if !s.OK {
			n++
		}
	}
	return n
}

type config struct {
	verify    bool
	allocOpts []alloc.Option
}

// Option configures a run.
type Option func(*config)

// WithVerify checks every allocator invariant after each step and aborts the
// run with ErrInvariant on the first violation.
func WithVerify() Option {
	return func(c *config) { c.verify = true }
}

// WithAllocOptions passes options through to alloc.New.
func WithAllocOptions(opts ...alloc.Option) Option {
	return func(c *config) { c.allocOpts = append(c.allocOpts, opts...) }
}

// binding is the region a script name refers to.
type binding struct {
	start, size int
	failed      bool // the alloc that created it failed
}

// Run executes s against a new allocator using policy for every alloc that
// does not name its own. Allocator errors are recorded in the trace; script
// errors (unknown or rebound names) and invariant failures abort the run.
func Run(s *Script, policy alloc.Policy, opts ...Option) (*Trace, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	fl, err := alloc.New(s.Arena, cfg.allocOpts...)
	if err != nil {
		return nil, err
	}

	tr := &Trace{
		Policy: policy.String(),
		Arena:  s.Arena,
		Steps:  make([]Step, 0, len(s.Ops)),
	}
	names := make(map[string]binding)

	for i, op := range s.Ops {
		step := Step{Index: i, Line: op.Line, Op: op.String()}

		switch op.Kind {
		case script.KindAlloc:
			if b, ok := names[op.Name]; ok && !b.failed {
				return tr, fmt.Errorf("%w: line %d: %q", ErrNameInUse, op.Line, op.Name)
			}
			p := policy
			if op.HasPolicy {
				p = op.Policy
			}
			step.Policy = p.String()

			addr, err := fl.Allocate(op.Size, p)
			if err != nil {
				step.err = err
				names[op.Name] = binding{failed: true}
			} else {
				step.Addr, step.OK = addr, true
				names[op.Name] = binding{start: addr, size: op.Size}
			}

		case script.KindFree:
			start, size := op.Start, op.Size
			if !op.Raw() {
				b, ok := names[op.Name]
				if !ok {
					return tr, fmt.Errorf("%w: line %d: %q", ErrUnknownName, op.Line, op.Name)
				}
				delete(names, op.Name)
				if b.failed {
					step.err = fmt.Errorf("skipped: allocation of %q failed", op.Name)
					break
				}
				start, size = b.start, b.size
			}
			step.Addr = start
			if err := fl.Deallocate(start, size); err != nil {
				step.err = err
			} else {
				step.OK = true
			}
		}

		if step.err != nil {
			step.Error = step.err.Error()
		}
		step.Free = fl.Blocks()
		tr.Steps = append(tr.Steps, step)

		if cfg.verify {
			if err := verify.AllInvariants(fl); err != nil {
				return tr, fmt.Errorf("%w after line %d: %w", ErrInvariant, op.Line, err)
			}
		}
	}

	tr.Usage = fl.Usage()
	tr.Stats = fl.Stats()
	return tr, nil
}

// Comparison holds one trace per policy over the same script.
type Comparison struct {
	FirstFit *Trace `json:"first_fit" yaml:"first_fit"`
	BestFit  *Trace `json:"best_fit" yaml:"best_fit"`

	// Divergence is the index of the first step whose outcome differs, or -1.
	Divergence int `json:"divergence" yaml:"divergence"`
}

// Diverged reports whether the two policies produced different outcomes.
func (c *Comparison) Diverged() bool { return c.Divergence >= 0 }

// Compare runs s under first-fit and best-fit. The two runs execute
// concurrently with the same opts, so a Tracker passed through
// WithAllocOptions must be safe for concurrent use.
func Compare(s *Script, opts ...Option) (*Comparison, error) {
	var ff, bf *Trace
	var g errgroup.Group
	g.Go(func() error {
		var err error
		if ff, err = Run(s, alloc.FirstFit, opts...); err != nil {
			return fmt.Errorf("first-fit: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if bf, err = Run(s, alloc.BestFit, opts...); err != nil {
			return fmt.Errorf("best-fit: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c := &Comparison{FirstFit: ff, BestFit: bf, Divergence: -1}
	for i := range ff.Steps {
		a, b := ff.Steps[i], bf.Steps[i]
		if a.OK != b.OK || (a.OK && a.Addr != b.Addr) {
			c.Divergence = i
			break
		}
	}
	return c, nil
}
