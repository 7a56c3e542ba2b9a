/*
Command scapegoat loads key/value records into a scapegoat tree and prints the
tree's structure, its sorted contents or its statistics.

Records are lines of the form

	key,value

with integer keys. Malformed lines are skipped.

	scapegoat print records.txt --insert 8,79
	scapegoat sorted records.txt --alpha 0.6
	scapegoat stats records.txt --remove 3

Settings are read from flags, from environment variables prefixed with
SCAPEGOAT_ and from an optional configuration file .scapegoat.yaml, searched
for in the current directory and in the user's home directory.

_________________________________________________________________________

BSD 3-Clause License

Copyright (c) 2020–21, Norbert Pillmayer

All rights reserved.

Please refer to the License file in the repository root.
*/
package main

import (
	"fmt"
	"os"

	"github.com/npillmayer/scapegoat"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set by the linker for release builds.
var version = "v0.1.0-dev"

// app holds the settings shared by all sub-commands.
type app struct {
	v       *viper.Viper
	cfgFile string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	rootCmd := &cobra.Command{
		Use:           "scapegoat",
		Short:         "Inspect scapegoat trees built from key/value records",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.scapegoat.yaml)")
	rootCmd.PersistentFlags().Float64("alpha", scapegoat.DefaultAlpha, "balance factor, must be in (0.5, 1)")
	rootCmd.PersistentFlags().String("trace", defaultTraceLevel, "trace level (error, info, debug)")
	rootCmd.PersistentPreRunE = func(*cobra.Command, []string) error {
		if err := a.loadConfig(rootCmd); err != nil {
			return err
		}
		return setupTracing(a.v.GetString(keyTrace))
	}

	rootCmd.AddCommand(a.printCmd())
	rootCmd.AddCommand(a.sortedCmd())
	rootCmd.AddCommand(a.statsCmd())
	rootCmd.AddCommand(versionCmd())
	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "scapegoat %s\n", version)
		},
	}
}
