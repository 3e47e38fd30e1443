package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"Solids/internal/calc/solid"
	"Solids/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	var (
		verbose bool
		logger  *zap.Logger
	)

	root := &cobra.Command{
		Use:          "solidcalc",
		Short:        "Volume and surface area of geometric solids",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := "warn"
			if verbose {
				level = "debug"
			}
			var err error
			logger, err = logging.New(level)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}
	root.SetOut(out)
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging to stderr")

	root.AddCommand(&cobra.Command{
		Use:   "shapes",
		Short: "List shapes and their measurement fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SHAPE\tNAME\tFIELDS")
			for _, f := range solid.Catalog() {
				fields := make([]string, len(f.Fields))
				for i, fld := range f.Fields {
					fields[i] = fmt.Sprintf("%s (%s)", fld.Name, strings.ToLower(fld.Label))
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", f.Shape, f.Label, strings.Join(fields, ", "))
			}
			return tw.Flush()
		},
	})

	var (
		mode   string
		strict bool
		html   bool
	)
	calc := &cobra.Command{
		Use:   "calc <shape> [field=value ...]",
		Short: "Compute the volume and/or surface area of a shape",
		Example: `  solidcalc calc cube s=2
  solidcalc calc cylinder r=1 h=1 --mode both
  solidcalc calc torus R=3 r=1 --mode surface --strict`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := parseArgs(args)
			if err != nil {
				return err
			}
			in.Mode = mode
			in.Strict = strict
			logger.Debug("calc", zap.String("shape", string(in.Shape)), zap.Any("values", in.Values))

			res, err := solid.Calculate(in)
			if err != nil {
				logger.Debug("rejected", zap.Error(err))
				return errors.New(solid.Message(err))
			}
			if html {
				fmt.Fprintln(cmd.OutOrStdout(), res.HTML())
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), res.Text())
			}
			return nil
		},
	}
	calc.Flags().StringVarP(&mode, "mode", "m", string(solid.ModeVolume), "volume, surface or both")
	calc.Flags().BoolVar(&strict, "strict", false, "reject shapes with missing measurements")
	calc.Flags().BoolVar(&html, "html", false, "print the HTML result fragment")
	root.AddCommand(calc)

	return root
}

// parseArgs reads "<shape> name=value ..." into a form submission.
func parseArgs(args []string) (solid.Input, error) {
	in := solid.Input{Shape: solid.Shape(strings.ToLower(args[0])), Values: solid.RawValues{}}
	for _, a := range args[1:] {
		name, value, ok := strings.Cut(a, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return solid.Input{}, fmt.Errorf("expected field=value, got %q", a)
		}
		in.Values[name] = value
	}
	return in, nil
}
