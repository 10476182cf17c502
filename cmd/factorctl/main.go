// Package main provides the factorctl CLI: posterior queries against a
// network definition file.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hupe1980/factorgo"
	"github.com/hupe1980/factorgo/network"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "factorctl",
		Short: "Query discrete Bayesian networks",
		Long: `factorctl answers posterior queries against a network defined in YAML.

Variables and states may be given by name or by numeric id/index.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "factorctl v%s (%s)\n", version, commit)
		},
	})

	queryCmd := &cobra.Command{
		Use:   "query",
		Short: "Print the posterior of a variable given evidence",
		RunE:  runQuery,
	}
	queryCmd.Flags().StringP("network", "n", "", "Network definition file (YAML)")
	queryCmd.Flags().StringP("query", "q", "", "Query variable (name or id)")
	queryCmd.Flags().StringArrayP("evidence", "e", nil, "Evidence as variable=state (repeatable)")
	queryCmd.Flags().Int("top", 0, "Print only the top k states (0 for all)")
	queryCmd.Flags().Float64("min-p", 0, "Minimum probability to print")
	queryCmd.Flags().Bool("debug", false, "Enable debug logging")
	_ = queryCmd.MarkFlagRequired("network")
	_ = queryCmd.MarkFlagRequired("query")
	rootCmd.AddCommand(queryCmd)

	validateCmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a network definition and print a summary",
		Args:  cobra.ExactArgs(1),
		RunE:  runValidate,
	}
	rootCmd.AddCommand(validateCmd)

	return rootCmd
}

func runQuery(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("network")
	queryArg, _ := cmd.Flags().GetString("query")
	evidenceArgs, _ := cmd.Flags().GetStringArray("evidence")
	top, _ := cmd.Flags().GetInt("top")
	minP, _ := cmd.Flags().GetFloat64("min-p")
	debug, _ := cmd.Flags().GetBool("debug")

	def, err := network.Load(path)
	if err != nil {
		return err
	}
	qv, err := lookupVariable(def, queryArg)
	if err != nil {
		return err
	}
	evidence, err := parseEvidence(def, evidenceArgs)
	if err != nil {
		return err
	}

	logger := factorgo.NoopLogger()
	if debug {
		logger = factorgo.NewTextLogger(slog.LevelDebug)
	}
	e, err := factorgo.New(def, factorgo.WithLogger(logger))
	if err != nil {
		return err
	}
	defer e.Close()

	k := top
	if k <= 0 {
		k = qv.Card()
	}
	recs, err := e.Recommend(cmd.Context(), evidence, qv.ID, k, minP)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, r := range recs {
		fmt.Fprintf(out, "%s\t%.6f\n", r.Name, r.Probability)
	}
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	def, err := network.Load(args[0])
	if err != nil {
		return err
	}
	n, err := def.Build(network.Options{})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	name := def.Name
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Fprintf(out, "network %s: %d variables, %d factors\n", name, len(def.Variables), len(def.Factors))
	for k, f := range n.Factors() {
		kind := "dense"
		if def.Factors[k].Sparse {
			kind = "sparse"
		}
		fmt.Fprintf(out, "  factor %d: %s %s, %d stored of %d\n", k, kind, f.Shape(), f.Values().Len(), f.Size())
	}
	return nil
}

func lookupVariable(def network.Definition, arg string) (network.Variable, error) {
	if v, ok := def.VariableByName(arg); ok {
		return v, nil
	}
	if id, err := strconv.Atoi(arg); err == nil {
		if v, ok := def.Variable(id); ok {
			return v, nil
		}
	}
	return network.Variable{}, fmt.Errorf("%w: %q", factorgo.ErrUnknownVariable, arg)
}

func parseEvidence(def network.Definition, args []string) (map[int]int, error) {
	evidence := make(map[int]int, len(args))
	for _, arg := range args {
		name, state, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("%w: %q is not variable=state", factorgo.ErrInvalidEvidence, arg)
		}
		v, err := lookupVariable(def, name)
		if err != nil {
			return nil, err
		}
		s, ok := v.StateIndex(state)
		if !ok {
			i, err := strconv.Atoi(state)
			if err != nil || i < 0 || i >= v.Card() {
				return nil, fmt.Errorf("%w: variable %q has no state %q", factorgo.ErrInvalidEvidence, name, state)
			}
			s = i
		}
		evidence[v.ID] = s
	}
	return evidence, nil
}
