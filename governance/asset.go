// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package governance

import (
	"fmt"

	"github.com/luxfi/ids"

	"github.com/luxfi/govvm/threshold"
)

// InitialAssetMembers is the size of the member set an asset is added with.
const InitialAssetMembers = 3

// Asset is a governed resource nested under a group, with its own membership
// and thresholds.
type Asset struct {
	Group   ids.ID `serialize:"true" json:"group"`
	Address ids.ID `serialize:"true" json:"address"`

	Use    threshold.Fractional `serialize:"true" json:"use"`
	NotUse threshold.Fractional `serialize:"true" json:"notUse"`

	Thresholds   `serialize:"true" json:"thresholds"`
	MemberCounts `serialize:"true" json:"counts"`
}

func (a *Asset) Verify() error {
	if err := a.Use.Verify(); err != nil {
		return err
	}
	if err := a.NotUse.Verify(); err != nil {
		return err
	}
	if err := a.Thresholds.Verify(); err != nil {
		return err
	}
	return a.MemberCounts.Verify()
}

// Normalize forces every counter-threshold below its action threshold or to
// its complement.
func (a *Asset) Normalize() error {
	if err := a.Use.NormalizeOther(&a.NotUse); err != nil {
		return err
	}
	for _, kind := range []ConfigKind{ConfigAddMember, ConfigRemoveMember, ConfigChangeConfig} {
		action, counter, _ := a.Thresholds.pair(kind)
		if err := action.NormalizeOther(counter); err != nil {
			return err
		}
	}
	return nil
}

// SetThreshold replaces one of the eight asset thresholds and normalizes its
// partner.
func (a *Asset) SetThreshold(kind ConfigKind, f threshold.Fractional) error {
	if err := f.Verify(); err != nil {
		return err
	}
	switch kind {
	case ConfigUse:
		a.Use = f
		return a.Use.NormalizeOther(&a.NotUse)
	case ConfigNotUse:
		a.NotUse = f
		return a.Use.NormalizeOther(&a.NotUse)
	}
	action, counter, ok := a.Thresholds.set(kind, f)
	if !ok {
		return fmt.Errorf("%w: %s on an asset", ErrUnexpectedConfigChange, kind)
	}
	return action.NormalizeOther(counter)
}

// ApplyConfig applies a ChangeConfig payload to the asset.
func (a *Asset) ApplyConfig(c ConfigType) error {
	if c.Kind.IsCount() {
		return a.MemberCounts.setCount(c.Kind, c.Count)
	}
	return a.SetThreshold(c.Kind, c.Threshold)
}

// ForAction extends the shared thresholds with the asset's use pair.
func (a *Asset) ForAction(action Action) (pass, fail threshold.Fractional, err error) {
	if action == ActionUse {
		return a.Use, a.NotUse, nil
	}
	return a.Thresholds.ForAction(action)
}
