// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package governance

import (
	"errors"
	"math"

	"github.com/luxfi/codec"
	"github.com/luxfi/codec/linearcodec"
)

const CodecVersion = 0

// Codec encodes persisted entities and instructions.
var Codec codec.Manager

func init() {
	Codec = codec.NewManager(math.MaxInt)
	lc := linearcodec.NewDefault()

	err := errors.Join(
		RegisterTypes(lc),
		Codec.RegisterCodec(CodecVersion, lc),
	)
	if err != nil {
		panic(err)
	}
}

// RegisterTypes registers the ConfigChange implementations. Every codec that
// carries a ConfigChange must call this first so type IDs agree.
func RegisterTypes(targetCodec codec.Registry) error {
	return errors.Join(
		targetCodec.RegisterType(&AddGroupMember{}),
		targetCodec.RegisterType(&RemoveGroupMember{}),
		targetCodec.RegisterType(&AddAssetMember{}),
		targetCodec.RegisterType(&RemoveAssetMember{}),
		targetCodec.RegisterType(&ChangeGroupConfig{}),
		targetCodec.RegisterType(&ChangeAssetConfig{}),
	)
}
