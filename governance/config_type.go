// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package governance

import (
	"fmt"

	"github.com/luxfi/govvm/threshold"
)

// ConfigKind selects the group or asset setting a ChangeConfig proposal
// rewrites.
type ConfigKind uint8

const (
	ConfigAddMember ConfigKind = iota
	ConfigNotAddMember
	ConfigRemoveMember
	ConfigNotRemoveMember
	ConfigUse
	ConfigNotUse
	ConfigChangeConfig
	ConfigNotChangeConfig
	ConfigMinimumMemberCount
	ConfigMinimumVoteCount
)

func (k ConfigKind) String() string {
	switch k {
	case ConfigAddMember:
		return "add_member"
	case ConfigNotAddMember:
		return "not_add_member"
	case ConfigRemoveMember:
		return "remove_member"
	case ConfigNotRemoveMember:
		return "not_remove_member"
	case ConfigUse:
		return "use"
	case ConfigNotUse:
		return "not_use"
	case ConfigChangeConfig:
		return "change_config"
	case ConfigNotChangeConfig:
		return "not_change_config"
	case ConfigMinimumMemberCount:
		return "minimum_member_count"
	case ConfigMinimumVoteCount:
		return "minimum_vote_count"
	default:
		return "unknown"
	}
}

// IsCount reports whether the kind carries a count rather than a threshold.
func (k ConfigKind) IsCount() bool {
	return k == ConfigMinimumMemberCount || k == ConfigMinimumVoteCount
}

// ConfigType is a single setting change. Threshold kinds read Threshold,
// count kinds read Count.
type ConfigType struct {
	Kind      ConfigKind           `serialize:"true" json:"kind"`
	Threshold threshold.Fractional `serialize:"true" json:"threshold"`
	Count     uint32               `serialize:"true" json:"count"`
}

func NewThresholdConfig(kind ConfigKind, t threshold.Fractional) ConfigType {
	return ConfigType{Kind: kind, Threshold: t}
}

func NewCountConfig(kind ConfigKind, count uint32) ConfigType {
	return ConfigType{Kind: kind, Count: count}
}

func (c ConfigType) Verify() error {
	switch {
	case c.Kind > ConfigMinimumVoteCount:
		return fmt.Errorf("%w: config kind %d", ErrUnexpectedConfigChange, c.Kind)
	case c.Kind.IsCount():
		return nil
	default:
		return c.Threshold.Verify()
	}
}

// Thresholds is the add/remove/change-config threshold set shared by groups
// and assets. Each action is paired with its counter-action.
type Thresholds struct {
	AddMember       threshold.Fractional `serialize:"true" json:"addMember"`
	NotAddMember    threshold.Fractional `serialize:"true" json:"notAddMember"`
	RemoveMember    threshold.Fractional `serialize:"true" json:"removeMember"`
	NotRemoveMember threshold.Fractional `serialize:"true" json:"notRemoveMember"`
	ChangeConfig    threshold.Fractional `serialize:"true" json:"changeConfig"`
	NotChangeConfig threshold.Fractional `serialize:"true" json:"notChangeConfig"`
}

func (t *Thresholds) Verify() error {
	for _, f := range []threshold.Fractional{
		t.AddMember,
		t.NotAddMember,
		t.RemoveMember,
		t.NotRemoveMember,
		t.ChangeConfig,
		t.NotChangeConfig,
	} {
		if err := f.Verify(); err != nil {
			return err
		}
	}
	return nil
}

// pair returns the threshold selected by kind together with its partner, with
// the action threshold first.
func (t *Thresholds) pair(kind ConfigKind) (action, counter *threshold.Fractional, ok bool) {
	switch kind {
	case ConfigAddMember, ConfigNotAddMember:
		return &t.AddMember, &t.NotAddMember, true
	case ConfigRemoveMember, ConfigNotRemoveMember:
		return &t.RemoveMember, &t.NotRemoveMember, true
	case ConfigChangeConfig, ConfigNotChangeConfig:
		return &t.ChangeConfig, &t.NotChangeConfig, true
	default:
		return nil, nil, false
	}
}

// ForAction returns the pass and fail thresholds governing a proposal action.
func (t *Thresholds) ForAction(action Action) (pass, fail threshold.Fractional, err error) {
	switch action {
	case ActionAddMember:
		return t.AddMember, t.NotAddMember, nil
	case ActionRemoveMember:
		return t.RemoveMember, t.NotRemoveMember, nil
	case ActionChangeConfig:
		return t.ChangeConfig, t.NotChangeConfig, nil
	default:
		return threshold.Fractional{}, threshold.Fractional{}, fmt.Errorf("%w: %s", ErrUnexpectedConfigChange, action)
	}
}

// set assigns the threshold selected by kind. It reports false when kind does
// not name one of the six paired thresholds.
func (t *Thresholds) set(kind ConfigKind, f threshold.Fractional) (action, counter *threshold.Fractional, ok bool) {
	action, counter, ok = t.pair(kind)
	if !ok {
		return nil, nil, false
	}
	switch kind {
	case ConfigAddMember, ConfigRemoveMember, ConfigChangeConfig:
		*action = f
	default:
		*counter = f
	}
	return action, counter, true
}

// Action is what a passed proposal is allowed to do. It picks the threshold
// pair a tally is evaluated against.
type Action uint8

const (
	ActionAddMember Action = iota
	ActionRemoveMember
	ActionChangeConfig
	ActionUse
)

func (a Action) String() string {
	switch a {
	case ActionAddMember:
		return "add_member"
	case ActionRemoveMember:
		return "remove_member"
	case ActionChangeConfig:
		return "change_config"
	case ActionUse:
		return "use"
	default:
		return "unknown"
	}
}
