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
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/copyfind/cmd/copyfind/opts"
	"github.com/walteh/copyfind/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// NewInitCmd creates the init command
func NewInitCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a config template",
		Long: `Init writes a config file with placeholder values at the --config path.
The format follows the file extension (.env, .yaml, .json or .hcl). An
existing file is never overwritten.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := config.GetParser(o.ConfigFile)
			if p == nil {
				return errors.Errorf("%w: no parser found for file: %s", config.ErrInvalidConfig, o.ConfigFile)
			}
			if err := config.WriteTemplate(o.ConfigFile, p); err != nil {
				return err
			}
			pterm.Success.WithWriter(o.Out()).Printfln("Created %s, please change the values before running", o.ConfigFile)
			return nil
		},
	}
}
