// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package governance

import (
	"fmt"
	"strings"
)

// Permissions is the capability bitset of a member.
type Permissions uint8

const (
	Propose Permissions = 1 << iota
	AddAsset

	reservedPermissions Permissions = 0b11111100
)

func (p Permissions) Verify() error {
	if p&reservedPermissions != 0 {
		return fmt.Errorf("%w: %08b", ErrInvalidPermissions, uint8(p))
	}
	return nil
}

func (p Permissions) HasPropose() bool {
	return p&Propose != 0
}

func (p Permissions) HasAddAsset() bool {
	return p&AddAsset != 0
}

func (p Permissions) String() string {
	var names []string
	if p.HasPropose() {
		names = append(names, "propose")
	}
	if p.HasAddAsset() {
		names = append(names, "add-asset")
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}
