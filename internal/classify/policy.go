package classify

import "github.com/Altius/stampipes/programs/filter_index/internal/barcode"

// Target scores the index token taken from a read name.
type Target interface {
	Mismatches(token string) (int, error)
}

// SingleTarget compares the whole token with one index.
type SingleTarget struct {
	Index string
}

func (s SingleTarget) Mismatches(token string) (int, error) {
	return barcode.Mismatches(token, s.Index), nil
}

// DualTarget splits the token at Separator and compares each half with its
// own index. A half whose index is empty is not compared.
type DualTarget struct {
	Index1, Index2             string
	Separator                  string
	Passthrough1, Passthrough2 bool
}

func (d DualTarget) Mismatches(token string) (int, error) {
	return barcode.CombinedMismatches(token, d.Separator, d.Index1, d.Index2, d.Passthrough1, d.Passthrough2)
}

// Outcome is the verdict for one read. Index and Mismatches are only set
// when the read was actually compared.
type Outcome struct {
	Filtered    bool
	Passthrough bool
	Index       string
	Mismatches  int
}

// Policy classifies reads against a validated configuration.
type Policy struct {
	target      Target
	budget      int
	passthrough bool
	maxTracked  int
}

// NewPolicy validates targets and budget and picks the Target once for the run.
func NewPolicy(targets Targets, budget int) (*Policy, error) {
	if err := targets.Validate(budget); err != nil {
		return nil, err
	}
	p := &Policy{
		budget:      budget,
		passthrough: targets.Passthrough(),
		maxTracked:  targets.MaxTracked(),
	}
	if targets.IsDual() {
		p.target = DualTarget{
			Index1:       targets.Index,
			Index2:       *targets.Index2,
			Separator:    *targets.Separator,
			Passthrough1: targets.Index == "",
			Passthrough2: *targets.Index2 == "",
		}
	} else {
		p.target = SingleTarget{Index: targets.Index}
	}
	return p, nil
}

// Passthrough reports whether every read is kept unread.
func (p *Policy) Passthrough() bool { return p.passthrough }

// MaxTracked is the largest mismatch count with its own histogram bucket.
func (p *Policy) MaxTracked() int { return p.maxTracked }

// Target returns the scorer chosen for the run.
func (p *Policy) Target() Target { return p.target }

// Classify looks at the index in a read name.
func (p *Policy) Classify(name string) (Outcome, error) {
	if p.passthrough {
		return Outcome{Filtered: true, Passthrough: true}, nil
	}
	token, err := barcode.Extract(name)
	if err != nil {
		return Outcome{}, err
	}
	n, err := p.target.Mismatches(token)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Filtered: n <= p.budget, Index: token, Mismatches: n}, nil
}
