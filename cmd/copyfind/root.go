// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"github.com/spf13/cobra"
	"github.com/walteh/copyfind/cmd/copyfind/commands"
	"github.com/walteh/copyfind/cmd/copyfind/opts"
)

// newRootCmd builds the command tree. Running the root command without a
// subcommand performs a search.
func newRootCmd(o *opts.RootOpts) *cobra.Command {
	run := commands.NewRunCmd(o)

	cmd := &cobra.Command{
		Use:   "copyfind",
		Short: "Find the files listed in a CSV manifest and copy them to one place",
		Long: `copyfind walks a directory tree looking for the file names listed in the
first column of a CSV manifest and copies every match into an output directory.
Names are compared case-insensitively, ignoring surrounding whitespace and
anything past the 89th character.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run.RunE,
	}

	addRootFlags(cmd, o)

	cmd.AddCommand(
		run,
		commands.NewInitCmd(o),
		commands.NewCheckCmd(o),
	)

	return cmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&o.ConfigFile, "config", "c", opts.DefaultConfigFile, "config file path (.env, .yaml, .json or .hcl)")
	cmd.PersistentFlags().BoolVarP(&o.Overrides.Dev, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&o.Overrides.Manifest, "manifest", "", "override the manifest path")
	cmd.PersistentFlags().StringVar(&o.Overrides.SearchRoot, "root", "", "override the search root")
	cmd.PersistentFlags().StringVar(&o.Overrides.Output, "output", "", "override the output directory")
}
