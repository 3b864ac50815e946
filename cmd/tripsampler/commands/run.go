package commands

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/wonny/tripsampler/internal/profile"
	"github.com/wonny/tripsampler/internal/sampler"
	"github.com/wonny/tripsampler/pkg/config"
	"github.com/wonny/tripsampler/pkg/logger"
)

// drawFlags are shared by every command that samples
type drawFlags struct {
	input     string
	format    string
	column    string
	size      int
	seed      int64
	seedMode  string
	malformed string
}

func (f *drawFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.input, "input", "i", "", "input file (default from SAMPLER_INPUT)")
	fs.StringVar(&f.format, "format", "auto", "input format: auto|csv|tsv|parquet")
	fs.StringVar(&f.column, "column", "", "pickup timestamp column (default tpep_pickup_datetime)")
	fs.IntVarP(&f.size, "size", "n", sampler.DefaultSize, "records drawn per (date, hour) bucket")
	fs.Int64Var(&f.seed, "seed", sampler.DefaultSeed, "random seed")
	fs.StringVar(&f.seedMode, "seed-mode", "", "reset|hashed|sequential (default reset)")
	fs.StringVar(&f.malformed, "malformed", "", "unparseable timestamps: reject|skip (default reject)")
}

// runContext holds everything a command needs after setup
type runContext struct {
	cfg         *config.Config
	log         *logger.Logger
	profile     *profile.Profile
	profileHash string
	runID       string
	input       string
}

// setup loads config, the sampling profile and the logger, then applies flags.
// Precedence: flags > profile file > env (SAMPLER_SIZE, SAMPLER_SEED) > built-in defaults.
func setup(cmd *cobra.Command, f *drawFlags) (*runContext, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	runID := uuid.New().String()
	log := logger.NewWithWriter(cfg, cmd.ErrOrStderr()).WithRun(runID)

	path := profilePath
	if path == "" {
		path = cfg.Sampler.Profile
	}

	p := profile.Default()
	p.Sampling.Size = cfg.Sampler.Size
	p.Sampling.Seed = cfg.Sampler.Seed
	if path != "" {
		if p, _, err = profile.Load(path); err != nil {
			return nil, fmt.Errorf("load profile %s: %w", path, err)
		}
		log.WithField("profile", path).Debug("profile loaded")
	}

	flags := cmd.Flags()
	if flags.Changed("column") {
		p.Timestamp.Column = f.column
	}
	if flags.Changed("size") {
		p.Sampling.Size = f.size
	}
	if flags.Changed("seed") {
		p.Sampling.Seed = f.seed
	}
	if flags.Changed("seed-mode") {
		p.Sampling.SeedMode = f.seedMode
	}
	if flags.Changed("malformed") {
		p.Sampling.Malformed = f.malformed
	}
	if err := profile.Validate(p); err != nil {
		return nil, fmt.Errorf("invalid sampling settings: %w", err)
	}

	hash, err := profile.Hash(p)
	if err != nil {
		return nil, fmt.Errorf("hash profile: %w", err)
	}
	log.Debugf("column %s, layouts tried in order: %s", p.Timestamp.Column, strings.Join(p.Timestamp.Formats, " | "))

	input := f.input
	if input == "" {
		input = cfg.Sampler.Input
	}

	return &runContext{
		cfg:         cfg,
		log:         log,
		profile:     p,
		profileHash: hash,
		runID:       runID,
		input:       input,
	}, nil
}
