package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aristath/yieldwise/internal/config"
	"github.com/aristath/yieldwise/internal/di"
	"github.com/aristath/yieldwise/internal/modules/comparables"
)

func newImportCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import [path | s3://bucket/key]",
		Short: "Load a sales CSV into the comparables database",
		Long: "Cleans a raw sales export and replaces the comparables dataset in the data directory " +
			"(YIELDWISE_DATA_DIR). Without an argument COMPARABLES_SOURCE is used.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, root, args)
		},
	}
}

func runImport(cmd *cobra.Command, root *rootOptions, args []string) error {
	ctx := cmd.Context()
	log := root.logger()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cfg.ProfilePath = root.profilePath
	if len(args) == 1 {
		cfg.Comparables.Source = args[0]
	}
	if cfg.Comparables.Source == "" {
		return fmt.Errorf("no source given and COMPARABLES_SOURCE is not set")
	}

	container, _, err := di.Wire(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer container.Close()

	imp, err := container.Importer.Import(ctx, cfg.Comparables.Source)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  Imported %s of %s rows from %s\n",
		FormatNumber(int64(imp.RowsKept)), FormatNumber(int64(imp.RowsRead)), imp.Source)
	fmt.Fprintln(out, RenderNote("Database: "+cfg.DatabasePath()))
	fmt.Fprintln(out)

	table, err := container.ComparablesRepo.Comparables(ctx)
	if err != nil {
		return err
	}
	summary, err := comparables.Summarize(table)
	if err != nil {
		return err
	}
	fmt.Fprint(out, RenderTable(Table{
		Title:   "Market",
		Headers: []string{"Statistic", "Value"},
		Rows: [][]string{
			{"Properties", FormatNumber(int64(summary.TotalProperties))},
			{"Average price", FormatMoney(summary.AvgPrice)},
			{"Average price / sqft", FormatMoney(summary.AvgPricePerSqft)},
			{"Lowest price", FormatMoney(summary.PriceRange.Min)},
			{"Highest price", FormatMoney(summary.PriceRange.Max)},
		},
	}))
	return nil
}
