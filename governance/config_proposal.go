// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package governance

// ConfigProposal proposes a single membership or configuration change to the
// group or to one of its assets.
type ConfigProposal struct {
	Proposal `serialize:"true" json:"proposal"`
	Tally    `serialize:"true" json:"tally"`

	Target ProposalTarget `serialize:"true" json:"target"`
	Change ConfigChange   `serialize:"true" json:"change"`
}

func (p *ConfigProposal) Verify() error {
	return VerifyChangeTarget(p.Target, p.Change)
}

// CheckAndMark finalizes an open proposal once the tally clears the quorum
// floor and either the pass or the fail threshold of scope. It returns the
// proposal's state afterwards.
func (p *ConfigProposal) CheckAndMark(scope Scope) (State, error) {
	if p.State != Open {
		return p.State, nil
	}
	outcome, err := p.Tally.Evaluate(scope, p.Change.Action())
	if err != nil {
		return p.State, err
	}
	switch outcome {
	case PassOutcome:
		err = p.SetState(Passed)
	case FailOutcome:
		err = p.SetState(Failed)
	}
	return p.State, err
}
