package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/medalist/internal/config"
	"github.com/okian/medalist/internal/domain/catalog"
	"github.com/okian/medalist/internal/domain/criteria"
	"github.com/okian/medalist/internal/domain/eligibility"
	"github.com/okian/medalist/internal/domain/model"
)

type evaluateFlags struct {
	configPath  string
	catalogPath string
	profilePath string
	awardID     string
	endYear     int
	currentYear int
	enforce     bool
}

func evaluateCmd() *cobra.Command {
	var f evaluateFlags
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate a profile file against a catalog and print JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := evaluate(cmd.Context(), f)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
	cmd.Flags().StringVar(&f.configPath, "config", os.Getenv(config.EnvFile), "config file supplying criteria and defaults")
	cmd.Flags().StringVar(&f.catalogPath, "catalog", "", "award catalog (.json, .yaml, .yml)")
	cmd.Flags().StringVar(&f.profilePath, "profile", "", "profile JSON file")
	cmd.Flags().StringVar(&f.awardID, "award", "", "evaluate a single award")
	cmd.Flags().IntVar(&f.endYear, "year", 0, "evaluate for exactly this year (requires --award)")
	cmd.Flags().IntVar(&f.currentYear, "current-year", 0, "treat this as the current year")
	cmd.Flags().BoolVar(&f.enforce, "enforce-current-year", false, "restrict sustained requirements to the current year")
	_ = cmd.MarkFlagRequired("catalog")
	_ = cmd.MarkFlagRequired("profile")
	return cmd
}

var errYearWithoutAward = errors.New("--year requires --award")

func evaluate(ctx context.Context, f evaluateFlags) (any, error) {
	if f.endYear != 0 && f.awardID == "" {
		return nil, errYearWithoutAward
	}
	cfg, err := config.LoadFile(ctx, f.configPath)
	if err != nil {
		return nil, err
	}
	registry := criteria.NewRegistry()
	if err := registry.RegisterCEL(cfg.Criteria); err != nil {
		return nil, fmt.Errorf("register criteria: %w", err)
	}
	cat, err := catalog.LoadFile(f.catalogPath)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	raw, err := os.ReadFile(f.profilePath)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	var p model.Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}

	opts := []eligibility.Option{
		eligibility.WithRegistry(registry),
		eligibility.WithCurrentYearEnforced(f.enforce || cfg.EnforceCurrentYearForSustained),
	}
	if f.currentYear > 0 {
		opts = append(opts, eligibility.WithClock(eligibility.FixedYear(f.currentYear)))
	}
	engine := eligibility.New(cat, opts...)

	if f.awardID == "" {
		return engine.EvaluateAll(p), nil
	}
	var evalOpts []eligibility.EvalOption
	if f.endYear != 0 {
		evalOpts = append(evalOpts, eligibility.WithEndYear(f.endYear))
	}
	return engine.EvaluateAward(p, f.awardID, evalOpts...)
}
