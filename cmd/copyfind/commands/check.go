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

package commands

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/copyfind/cmd/copyfind/opts"
	"github.com/walteh/copyfind/pkg/config"
	"github.com/walteh/copyfind/pkg/manifest"
	"gitlab.com/tozd/go/errors"
)

// NewCheckCmd creates the check command
func NewCheckCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the config and manifest without searching",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load(ctx, o.ConfigFile, o.Overrides)
			if err != nil {
				return errors.Errorf("loading config: %w", err)
			}
			if err := cfg.CheckPaths(); err != nil {
				return err
			}

			targets, stats, err := manifest.Load(ctx, cfg.Manifest, manifest.ReadOptions{
				Delimiter:     cfg.DelimiterRune(),
				MaxNameLength: cfg.MaxNameLength,
			})
			if err != nil {
				return err
			}

			table, err := pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData{
				{"Setting", "Value"},
				{"Manifest", cfg.Manifest},
				{"Search root", cfg.SearchRoot},
				{"Output", cfg.Output},
				{"Log file", cfg.LogFile},
				{"Records", strconv.Itoa(stats.Records)},
				{"Skipped", strconv.Itoa(stats.Skipped)},
				{"Duplicates", strconv.Itoa(stats.Duplicates)},
				{"Targets", strconv.Itoa(targets.Len())},
			}).Srender()
			if err != nil {
				return errors.Errorf("rendering summary: %w", err)
			}

			fmt.Fprintln(o.Out(), table)
			pterm.Success.WithWriter(o.Out()).Println(formatStats(targets, stats))
			return nil
		},
	}
}

func formatStats(targets *manifest.TargetSet, stats manifest.Stats) string {
	return fmt.Sprintf("%d targets from %d records (%d skipped, %d duplicates)",
		targets.Len(), stats.Records, stats.Skipped, stats.Duplicates)
}
