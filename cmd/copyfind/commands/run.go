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
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/walteh/copyfind/cmd/copyfind/opts"
	"github.com/walteh/copyfind/pkg/config"
	"github.com/walteh/copyfind/pkg/log"
	"github.com/walteh/copyfind/pkg/manifest"
	"github.com/walteh/copyfind/pkg/output"
	"github.com/walteh/copyfind/pkg/report"
	"github.com/walteh/copyfind/pkg/search"
	"gitlab.com/tozd/go/errors"
)

// NewRunCmd creates the run command. The root command runs the same thing.
func NewRunCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Find the manifest's files and copy them to the output directory",
		Long: `Run reads the manifest, walks the search root and copies every file whose
name is listed to the output directory. It will:
1. Create a config template and stop, if the config file does not exist
2. Validate the manifest, search root and output paths
3. Walk the search root depth-first, copying each listed file once
4. Log the names that were not found and a FINISH summary`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := Run(cmd.Context(), o)
			return err
		},
	}
}

// 🚀 Run performs a full search with the configuration named by o. Every
// failure, including configuration errors, is written to the run log file.
func Run(ctx context.Context, o *opts.RootOpts) (*search.Result, error) {
	cfg, err := loadConfig(ctx, o)
	if err != nil {
		logFailure(ctx, o, cfg, err)
		return nil, err
	}

	ctx, run, err := o.StartRun(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer run.Close()

	result, err := runSearch(ctx, run, cfg)
	if err != nil {
		log.FromContext(ctx).Zerolog().Error().Err(err).Msg("run failed")
		return nil, err
	}
	return result, nil
}

// loadConfig returns the loaded config alongside a path check error, so the
// failure can still be logged where the config asks for it.
func loadConfig(ctx context.Context, o *opts.RootOpts) (*config.Config, error) {
	if err := config.Bootstrap(ctx, o.ConfigFile); err != nil {
		return nil, err
	}

	cfg, err := config.Load(ctx, o.ConfigFile, o.Overrides)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}

	if err := cfg.CheckPaths(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func logFailure(ctx context.Context, o *opts.RootOpts, cfg *config.Config, cause error) {
	if cfg == nil {
		cfg = &config.Config{LogFile: o.LogFileFor(), Dev: o.Overrides.Dev}
	}

	ctx, run, err := o.StartRun(ctx, cfg)
	if err != nil {
		return
	}
	defer run.Close()

	zlog := log.FromContext(ctx).Zerolog()
	if errors.Is(cause, config.ErrTemplateCreated) {
		zlog.Warn().Str("config", o.ConfigFile).Msg(cause.Error())
		return
	}
	zlog.Error().Err(cause).Str("config", o.ConfigFile).Msg("configuration error")
}

func runSearch(ctx context.Context, run *opts.Run, cfg *config.Config) (*search.Result, error) {
	logger := log.FromContext(ctx)
	logger.Header(cfg.String())

	targets, stats, err := manifest.Load(ctx, cfg.Manifest, manifest.ReadOptions{
		Delimiter:     cfg.DelimiterRune(),
		MaxNameLength: cfg.MaxNameLength,
	})
	if err != nil {
		return nil, err
	}
	logger.Infof("Loaded %s", formatStats(targets, stats))

	out, err := output.Open(cfg.Output)
	if err != nil {
		return nil, err
	}
	if err := out.Lock(ctx); err != nil {
		if errors.Is(err, output.ErrLocked) {
			return nil, err
		}
		// copies into the directory may still work, each failure is reported
		logger.Warningf("running without output lock: %v", err)
	}
	defer func() {
		if err := out.Unlock(ctx); err != nil {
			logger.Warningf("releasing output lock: %v", err)
		}
	}()

	started := time.Now()
	result, err := search.Search(ctx, search.Options{
		Root:    cfg.SearchRoot,
		Output:  out.Path(),
		Exclude: cfg.Exclude,
		Copier:  out,
		Logger:  logger,
	}, targets)
	if err != nil {
		return nil, err
	}

	if cfg.Report != "" {
		r := report.New(run.ID, started, time.Now(), cfg.SearchRoot, out.Path(), result)
		if err := r.Write(cfg.Report); err != nil {
			// the copies are already done, a missing report does not fail the run
			logger.Warningf("writing report %s: %v", cfg.Report, err)
		} else {
			logger.Success("Report written to " + cfg.Report)
		}
	}

	return result, nil
}
