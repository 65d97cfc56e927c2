package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"contractfix/internal/index"
	"contractfix/internal/pipeline"
	"contractfix/internal/report"
	"contractfix/internal/rules"
	"contractfix/internal/storage"
	"contractfix/internal/watch"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type runFlags struct {
	since     string
	format    string
	rules     []string
	graphPath string
	write     bool
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.since, "since", "", "Only analyze .cs files changed since this git ref")
	cmd.Flags().StringVarP(&f.format, "format", "f", "text", "Output format: text, markdown or json")
	cmd.Flags().StringSliceVarP(&f.rules, "rule", "r", nil, "Run only these rules (ID or name); repeatable")
}

func projectRoot(args []string, configured string) string {
	if len(args) > 0 {
		return args[0]
	}
	if configured != "" {
		return configured
	}
	return "."
}

// run executes one pipeline run and renders its findings.
func (a *app) run(cmd *cobra.Command, args []string, f *runFlags) (*pipeline.Result, error) {
	format, err := report.ParseFormat(f.format)
	if err != nil {
		return nil, err
	}
	fixOpts, err := a.fixerOptions(f.rules)
	if err != nil {
		return nil, err
	}
	store, err := a.openStore()
	if err != nil {
		return nil, err
	}
	if store != nil {
		defer store.Close()
	}

	res, err := pipeline.NewRunner(store, a.logger).Run(cmd.Context(), pipeline.Options{
		Root:        projectRoot(args, a.cfg.Project.Root),
		Since:       f.since,
		Ignore:      a.cfg.Project.Ignore,
		Write:       f.write,
		Concurrency: a.cfg.Concurrency,
		Fixer:       fixOpts,
	})
	if err != nil {
		return nil, err
	}

	if f.graphPath != "" {
		if err := index.SaveGraph(res.Project.Graph, f.graphPath); err != nil {
			return nil, err
		}
	}
	if err := report.Write(cmd.OutOrStdout(), format, res.Findings); err != nil {
		return nil, err
	}
	return res, nil
}

func (a *app) scanCmd() *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Report Code Contracts usage without changing files",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.run(cmd, args, f)
			if err != nil {
				return err
			}
			a.logger.Debug("scan stored", zap.String("run", res.Run.ID))
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&f.graphPath, "graph", "", "Also write the linked type graph as JSON to this file")
	return cmd
}

func (a *app) fixCmd() *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "fix [path]",
		Short: "Apply the fixes of the enabled rules",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.run(cmd, args, f)
			if err != nil {
				return err
			}
			out := cmd.ErrOrStderr()
			if !f.write {
				fmt.Fprintln(out, "Dry run: pass --write to rewrite files.")
				return nil
			}
			fmt.Fprintf(out, "Applied %d fix(es), skipped %d overlapping.\n", len(res.Applied), len(res.Skipped))
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVarP(&f.write, "write", "w", false, "Rewrite files in place")
	return cmd
}

func (a *app) watchCmd() *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "watch [path]",
		Short: "Re-analyze C# files as they change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := report.ParseFormat(f.format)
			if err != nil {
				return err
			}
			fixOpts, err := a.fixerOptions(f.rules)
			if err != nil {
				return err
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			if store != nil {
				defer store.Close()
			}

			root, err := filepath.Abs(projectRoot(args, a.cfg.Project.Root))
			if err != nil {
				return err
			}
			runner := pipeline.NewRunner(store, a.logger)
			handler := func(ctx context.Context, files []string) error {
				res, err := runner.Run(ctx, pipeline.Options{
					Root:        root,
					Files:       files,
					Dependents:  true,
					Ignore:      a.cfg.Project.Ignore,
					Concurrency: a.cfg.Concurrency,
					Fixer:       fixOpts,
				})
				if err != nil {
					return err
				}
				return report.Write(cmd.OutOrStdout(), format, res.Findings)
			}

			w, err := watch.New(root, handler, watch.WithIgnored(a.cfg.Project.Ignore...), watch.WithLogger(a.logger))
			if err != nil {
				return fmt.Errorf("failed to create watcher: %w", err)
			}
			return w.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&f.format, "format", "f", "text", "Output format: text, markdown or json")
	cmd.Flags().StringSliceVarP(&f.rules, "rule", "r", nil, "Run only these rules (ID or name); repeatable")
	return cmd
}

func (a *app) findingsCmd() *cobra.Command {
	var runID, format string
	var list bool
	cmd := &cobra.Command{
		Use:   "findings",
		Short: "Show the findings of a stored run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			if store == nil {
				return errors.New("no database configured")
			}
			defer store.Close()
			ctx := cmd.Context()

			if list {
				runs, err := store.ListRuns(ctx, 20)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "RUN\tSTARTED\tFILES\tFINDINGS\tAPPLIED\tROOT")
				for _, r := range runs {
					fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\n", r.ID, r.StartedAt.Format("2006-01-02 15:04:05"), r.Files, r.Findings, r.Applied, r.Root)
				}
				return tw.Flush()
			}

			var run storage.Run
			if runID == "" {
				run, err = store.LatestRun(ctx)
			} else {
				run, err = store.GetRun(ctx, runID)
			}
			if errors.Is(err, storage.ErrRunNotFound) {
				if runID == "" {
					return errors.New("no runs stored yet")
				}
				return fmt.Errorf("no stored run %q", runID)
			}
			if err != nil {
				return err
			}

			fs, err := report.ParseFormat(format)
			if err != nil {
				return err
			}
			findings, err := store.LoadFindings(ctx, run.ID)
			if err != nil {
				return err
			}
			return report.Write(cmd.OutOrStdout(), fs, findings)
		},
	}
	cmd.Flags().StringVar(&runID, "run", "", "Run ID (default: latest run)")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, markdown or json")
	cmd.Flags().BoolVar(&list, "list", false, "List stored runs instead")
	return cmd
}

func (a *app) rulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the available rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			enabled, err := a.fixerOptions(nil)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tSEVERITY\tENABLED\tTITLE")
			for _, r := range rules.All() {
				on := "no"
				if enabled.Rules.Has(r.ID) {
					on = "yes"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.Name, r.Severity, on, r.Title)
			}
			return tw.Flush()
		},
	}
}
