package main

import (
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/dedupe-cli/internal/accountio"
	"github.com/sells-group/dedupe-cli/internal/model"
	"github.com/sells-group/dedupe-cli/internal/resolve"
)

var (
	resolveInPath      string
	resolveOutPath     string
	resolveMappingPath string
	resolveFuzzy       bool
	resolveLatin1      bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve an account file and write the annotated output",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		runID := uuid.NewString()
		log := zap.L().With(zap.String("run_id", runID))

		mapping, err := loadMapping(resolveMappingPath)
		if err != nil {
			return err
		}

		table, err := accountio.ReadFile(resolveInPath, mapping, accountio.ReadOptions{
			Latin1: resolveLatin1 || cfg.IO.Latin1,
		})
		if err != nil {
			return eris.Wrap(err, "resolve: read input")
		}
		log.Info("input loaded",
			zap.String("file", resolveInPath),
			zap.Int("records", len(table.Accounts)),
		)

		engine := resolve.NewEngine(resolve.Options{
			Fuzzy:          resolveFuzzy,
			FuzzyThreshold: cfg.Resolve.FuzzyThreshold,
			Concurrency:    cfg.Resolve.Concurrency,
		})
		results, err := engine.Run(ctx, table.Accounts)
		if err != nil {
			return eris.Wrap(err, "resolve: run engine")
		}

		if err := accountio.WriteFile(resolveOutPath, table, results); err != nil {
			return eris.Wrap(err, "resolve: write output")
		}

		s := model.Summarize(results)
		log.Info("resolve complete",
			zap.String("output", resolveOutPath),
			zap.Int("parents", s.Parents),
			zap.Int("children", s.Children),
			zap.Int("merges", s.Merges),
			zap.Int("deletes", s.Deletes),
			zap.Int("no_action", s.NoAction),
		)
		return nil
	},
}

// loadMapping resolves the column mapping: an explicit flag wins, then the
// configured mapping file, then the built-in defaults.
func loadMapping(flagPath string) (accountio.Mapping, error) {
	path := flagPath
	if path == "" {
		path = cfg.IO.Mapping
	}
	if path == "" {
		return accountio.DefaultMapping(), nil
	}
	m, err := accountio.LoadMapping(path)
	if err != nil {
		return m, eris.Wrap(err, "resolve: load mapping")
	}
	return m, nil
}

func init() {
	resolveCmd.Flags().StringVar(&resolveInPath, "in", "", "path to input CSV or XLSX file (required)")
	resolveCmd.Flags().StringVar(&resolveOutPath, "out", "", "path to output CSV file (required)")
	resolveCmd.Flags().StringVar(&resolveMappingPath, "mapping", "", "path to column mapping YAML (default: built-in Salesforce export columns)")
	resolveCmd.Flags().BoolVar(&resolveFuzzy, "fuzzy", false, "use fuzzy name matching for merge targets")
	resolveCmd.Flags().BoolVar(&resolveLatin1, "latin1", false, "decode input as ISO-8859-1")
	_ = resolveCmd.MarkFlagRequired("in")
	_ = resolveCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(resolveCmd)
}
