// Copyright (c) 2026. The pwd-analyzer Authors.
// SPDX-License-Identifier: MIT

package cli

import (
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "pwd-analyzer [COMMAND] [OPTIONS]",
		Short: "Analyze password strength, crack times and personal-data exposure",
		Long: "Analyze passwords for strength, estimated crack times under several attack models, " +
			"and reflections of personal information. Works on single passwords, interactively, " +
			"in bulk from CSV files, or as an HTTP API",
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print more information on the processing")
	rootCmd.PersistentFlags().BoolVar(&profile, "profile", false, "Enable the profiling server (pprof) when running commands")
	rootCmd.PersistentFlags().Uint16Var(&pprofPort, "profile-port", 6060, "The port to use for the pprof server. Only used if the profile flag is set")
}

func Execute() error {
	return rootCmd.Execute()
}
