package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/aristath/yieldwise/internal/database"
	"github.com/aristath/yieldwise/internal/domain"
	"github.com/aristath/yieldwise/internal/modules/analysis"
	"github.com/aristath/yieldwise/internal/modules/comparables"
	"github.com/aristath/yieldwise/internal/modules/estimator"
)

type analyzeOptions struct {
	address      string
	price        float64
	rent         float64
	beds         int
	baths        float64
	sqft         float64
	zip          string
	propertyType string
	downPct      float64
	ratePct      float64
	termYears    int
	closingPct   float64
	taxRatePct   float64
	holdYears    int
	salesCSV     string
	dbPath       string
	asJSON       bool
}

func newAnalyzeCommand(root *rootOptions) *cobra.Command {
	o := &analyzeOptions{}
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze one property and print the recommendation",
		Example: `  yieldwise analyze --address "2412 N Booth St" --price 200000 --rent 1800 --beds 3 --baths 2 --sqft 1500
  yieldwise analyze --address "1020 E Center St" --price 200000 --zip 53212 --sales sales.csv --hold 10 --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAnalyze(cmd, root, o)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.address, "address", "", "Property address")
	f.Float64Var(&o.price, "price", 0, "Purchase price")
	f.Float64Var(&o.rent, "rent", 0, "Monthly rent; estimated when omitted")
	f.IntVar(&o.beds, "beds", 0, "Bedrooms")
	f.Float64Var(&o.baths, "baths", 0, "Bathrooms")
	f.Float64Var(&o.sqft, "sqft", 0, "Finished square feet (planned size for land)")
	f.StringVar(&o.zip, "zip", "", "Zip code")
	f.StringVar(&o.propertyType, "type", string(domain.PropertyTypeHouse), "Property type (House, Duplex, Apartment, Condo, Land)")
	f.Float64Var(&o.downPct, "down", 0, "Down payment percent")
	f.Float64Var(&o.ratePct, "rate", 0, "Annual interest rate percent")
	f.IntVar(&o.termYears, "term", 0, "Loan term in years")
	f.Float64Var(&o.closingPct, "closing", 0, "Closing costs percent")
	f.Float64Var(&o.taxRatePct, "tax-rate", 0, "Annual property tax percent of price")
	f.IntVar(&o.holdYears, "hold", 0, "Hold period in years; adds IRR, NPV and a projection")
	f.StringVar(&o.salesCSV, "sales", "", "Sales CSV to draw comparables from")
	f.StringVar(&o.dbPath, "db", "", "Comparables database written by the import command")
	f.BoolVar(&o.asJSON, "json", false, "Print the full report as JSON")
	_ = cmd.MarkFlagRequired("price")
	cmd.MarkFlagsMutuallyExclusive("sales", "db")

	return cmd
}

func runAnalyze(cmd *cobra.Command, root *rootOptions, o *analyzeOptions) error {
	ctx := cmd.Context()
	log := root.logger()

	profile, err := root.loadProfile(log)
	if err != nil {
		return err
	}

	provider, closeProvider, err := o.comparablesProvider(log)
	if err != nil {
		return err
	}
	defer closeProvider()

	var rent domain.RentEstimator
	if provider != nil {
		rent = estimator.NewComparables(provider)
	}

	svc, err := analysis.NewService(profile, rent, provider, log)
	if err != nil {
		return err
	}

	req, err := o.request(cmd, svc.NewRequest())
	if err != nil {
		return err
	}
	report, err := svc.Analyze(ctx, req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if o.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	printReport(out, report)
	return nil
}

// request applies the flags that were set on top of the profile defaults
func (o *analyzeOptions) request(cmd *cobra.Command, req analysis.Request) (analysis.Request, error) {
	propertyType, err := domain.ParsePropertyType(o.propertyType)
	if err != nil {
		return req, fmt.Errorf("--type: %w", err)
	}

	req.Property = domain.PropertyInput{
		Address:      o.address,
		Price:        o.price,
		Beds:         o.beds,
		Baths:        o.baths,
		Sqft:         o.sqft,
		ZipCode:      o.zip,
		PropertyType: propertyType,
	}
	req.MonthlyRent = o.rent
	req.HoldPeriodYears = o.holdYears

	changed := cmd.Flags().Changed
	if changed("down") {
		req.Financing.DownPaymentPct = o.downPct
	}
	if changed("rate") {
		req.Financing.InterestRatePct = o.ratePct
	}
	if changed("term") {
		req.Financing.LoanTermYears = o.termYears
	}
	if changed("closing") {
		req.Financing.ClosingCostsPct = o.closingPct
	}
	if changed("tax-rate") {
		req.Expenses.PropertyTaxRatePct = o.taxRatePct
	}
	return req, nil
}

// comparablesProvider opens the configured sales data. With neither --sales
// nor --db the provider is nil and analyses run without comparables.
func (o *analyzeOptions) comparablesProvider(log zerolog.Logger) (comparables.Provider, func(), error) {
	noop := func() {}

	switch {
	case o.salesCSV != "":
		f, err := os.Open(o.salesCSV)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to open sales file: %w", err)
		}
		defer f.Close()

		records, stats, err := comparables.ParseSales(f)
		if err != nil {
			return nil, noop, err
		}
		log.Debug().Int("rows_read", stats.RowsRead).Int("rows_kept", stats.RowsKept).Msg("Sales file loaded")
		return comparables.NewStaticProvider(comparables.TableFromRecords(records)), noop, nil

	case o.dbPath != "":
		db, err := database.New(database.Config{
			Path:    o.dbPath,
			Profile: database.ProfileCache,
			Name:    "comparables",
		})
		if err != nil {
			return nil, noop, err
		}
		if err := db.Migrate(); err != nil {
			db.Close()
			return nil, noop, err
		}
		return comparables.NewRepository(db.Conn(), log), func() { db.Close() }, nil
	}

	return nil, noop, nil
}

func printReport(w io.Writer, r *analysis.Report) {
	m := r.Metrics
	title := r.Property.Address
	if title == "" {
		title = fmt.Sprintf("%s at %s", r.Property.PropertyType, FormatMoney(r.Property.Price))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, RenderTitle(title))
	fmt.Fprintln(w)

	fmt.Fprint(w, RenderTable(Table{
		Title:   "Financials",
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Price", FormatMoney(m.Price)},
			{fmt.Sprintf("Rent (%s)", r.Rent.Source), FormatMoney(m.MonthlyRent)},
			{"Rent range", FormatMoney(r.Rent.Low) + " - " + FormatMoney(r.Rent.High)},
			{"Cash needed", FormatMoney(m.TotalUpfrontCost)},
			{"Mortgage payment", FormatMoney(m.MortgagePayment)},
			{"Operating expenses", FormatMoney(m.MonthlyOperatingExpenses)},
			{"Monthly cash flow", FormatMoney(m.MonthlyCashFlow)},
			{"NOI", FormatMoney(m.NOI)},
			{"Cap rate", FormatPercent(m.CapRatePct)},
			{"Cash-on-cash", FormatPercent(m.CashOnCashPct)},
			{"DSCR", FormatRatio(m.DSCR)},
			{"Break-even rent", FormatMoney(m.BreakEvenRent)},
			{"Payback", FormatYears(m.PaybackPeriodYears, m.PaybackNever)},
		},
	}))
	fmt.Fprintln(w)

	expenseRows := make([][]string, 0, len(r.Breakdown.Items)+1)
	for _, item := range r.Breakdown.Items {
		name := string(item.Item)
		if item.Overridden {
			name += " *"
		}
		expenseRows = append(expenseRows, []string{name, FormatMoney(item.Monthly), FormatMoney(item.Annual)})
	}
	expenseRows = append(expenseRows, []string{"total", FormatMoney(r.Breakdown.MonthlyTotal), FormatMoney(r.Breakdown.AnnualTotal)})
	fmt.Fprint(w, RenderTable(Table{
		Title:   "Expenses",
		Headers: []string{"Item", "Monthly", "Annual"},
		Rows:    expenseRows,
	}))
	fmt.Fprintln(w)

	if p := r.Projection; p != nil {
		rows := make([][]string, 0, len(p.Years))
		for _, y := range p.Years {
			rows = append(rows, []string{
				fmt.Sprintf("%d", y.Year),
				FormatMoney(y.Value),
				FormatMoney(y.Equity),
				FormatMoney(y.CashFlow),
				FormatMoney(y.CumulativeCashFlow),
			})
		}
		fmt.Fprint(w, RenderTable(Table{
			Title:   "Projection",
			Headers: []string{"Year", "Value", "Equity", "Cash flow", "Cumulative"},
			Rows:    rows,
		}))
		fmt.Fprintln(w, RenderNote(fmt.Sprintf("Sale after %d years: net proceeds %s, total profit %s (%s ROI)",
			len(p.Years), FormatMoney(p.Sale.NetProceeds), FormatMoney(p.Sale.TotalProfit), FormatPercent(p.Sale.TotalROIPct))))
		if m.IRRPct != nil {
			fmt.Fprintln(w, RenderNote("IRR "+FormatPercent(*m.IRRPct)))
		}
		fmt.Fprintln(w)
	}

	if f := r.Feasibility; f != nil {
		if f.Available {
			fmt.Fprintln(w, RenderNote(fmt.Sprintf("Land: potential value %s, development cost %s, profit %s (%s ROI)",
				FormatMoney(f.PotentialValue), FormatMoney(f.DevelopmentCost), FormatMoney(f.PotentialProfit), FormatPercent(f.ROIPct))))
		} else {
			fmt.Fprintln(w, RenderNote("Land feasibility unavailable: "+f.Reason))
		}
	}

	if r.Comparables.Found() {
		fmt.Fprintln(w, RenderNote(fmt.Sprintf("%d comparable sales matched", r.Comparables.Matched)))
	} else {
		fmt.Fprintln(w, RenderNote("No comparables: "+r.Comparables.Reason))
	}
	fmt.Fprintln(w)

	rec := r.Recommendation
	fmt.Fprintf(w, "  Recommendation: %s\n", RenderVerdict(rec.Verdict))
	for _, reason := range rec.Reasons {
		fmt.Fprintf(w, "    - %s\n", reason)
	}
	if g := rec.Gap; g != nil {
		fmt.Fprintln(w, RenderNote(fmt.Sprintf("To reach %s: rent of at least %s", g.Target, FormatMoney(max(g.MinRentForCashFlow, g.MinRentForCapRate)))))
	}
	fmt.Fprintln(w)
}
