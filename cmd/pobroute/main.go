package main

import (
	"fmt"
	"os"
	"strings"

	"pobbin/internal/route"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "pobroute",
		Short:         "Inspect how pobb.in classifies request paths",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.AddCommand(classifyCmd(), tableCmd())
	return cmd
}

func classifyCmd() *cobra.Command {
	var kindOnly bool

	cmd := &cobra.Command{
		Use:   "classify <method> <path>",
		Short: "Print the route a request resolves to",
		Long: `Classify a request the same way the server does and print the result.

Examples:
  pobroute classify GET /api/internal/user/foo
  pobroute classify DELETE /api/internal/paste/abc123
  pobroute classify GET /u/nina --kind`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			classified := route.Classify(strings.ToUpper(args[0]), args[1])
			if kindOnly {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), classified.Kind())
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), route.Describe(classified))
			return err
		},
	}

	cmd.Flags().BoolVar(&kindOnly, "kind", false, "Print only the route kind")
	return cmd
}

func tableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "table",
		Short: "Print every route pattern in match order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, table := range route.Tables() {
				if _, err := fmt.Fprintf(out, "%s\n", table.Name); err != nil {
					return err
				}
				for _, pattern := range table.Patterns {
					if _, err := fmt.Fprintf(out, "  %s\n", pattern); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}
}
