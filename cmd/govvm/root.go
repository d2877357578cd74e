// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/luxfi/govvm"
)

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "govvm",
		Short: "Weighted threshold governance node",
		Long: `govvm runs groups of weighted members that govern assets through
config proposals and bundled instruction proposals.

  govvm run       serve the JSON-RPC API over an in-memory database
  govvm version   print the version`,
		Version:       govvm.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Disable printing the completion command
	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			version, err := (&govvm.VM{}).Version(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), govvm.Name, version)
			return err
		},
	}
}
