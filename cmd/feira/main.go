package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:          "feira",
		Short:        "Feira Central survey dashboard",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "dashboard config file (default dashboard.yaml or $FEIRA_CONFIG)")

	rootCmd.AddCommand(serveCmd(&configPath))
	rootCmd.AddCommand(renderCmd(&configPath))
	rootCmd.AddCommand(exportCmd(&configPath))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd(configPath *string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard, loading data in the background",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), *configPath, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}

func renderCmd(configPath *string) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Load the data once and write a static index.html and charts.json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd.Context(), *configPath, out)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "dist", "output directory")
	return cmd
}

func exportCmd(configPath *string) *cobra.Command {
	var (
		out     string
		search  string
		filters map[string]string
		sortBy  string
		desc    bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the table rows to CSV, or XLSX when --out ends in .xlsx",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q := tableQuery(search, filters, sortBy, desc)
			return runExport(cmd.Context(), *configPath, out, q)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default export.filename)")
	cmd.Flags().StringVarP(&search, "q", "q", "", "search across every column")
	cmd.Flags().StringToStringVarP(&filters, "filter", "f", nil, "exact column filter, column=value")
	cmd.Flags().StringVar(&sortBy, "sort", "", "sort column")
	cmd.Flags().BoolVar(&desc, "desc", false, "sort descending")
	return cmd
}
