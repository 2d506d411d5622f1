package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aristath/yieldwise/pkg/formulas"
)

func newAmortizeCommand(_ *rootOptions) *cobra.Command {
	var loan formulas.Loan
	cmd := &cobra.Command{
		Use:   "amortize",
		Short: "Print the payment and yearly schedule of a fixed-rate loan",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if loan.Principal <= 0 {
				return fmt.Errorf("--principal must be greater than zero")
			}
			if loan.TermYears < 1 || loan.TermYears > 50 {
				return fmt.Errorf("--term must be between 1 and 50")
			}
			if loan.AnnualRatePct < 0 {
				return fmt.Errorf("--rate cannot be negative")
			}

			schedule := formulas.YearlySchedule(loan)
			rows := make([][]string, 0, len(schedule))
			var interest float64
			for _, y := range schedule {
				interest += y.Interest
				rows = append(rows, []string{
					fmt.Sprintf("%d", y.Year),
					FormatMoney(y.Principal),
					FormatMoney(y.Interest),
					FormatMoney(y.Balance),
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out)
			fmt.Fprintf(out, "  Monthly payment: %s\n", FormatMoney(loan.Payment()))
			fmt.Fprintf(out, "  Total interest:  %s\n", FormatMoney(interest))
			fmt.Fprintln(out)
			fmt.Fprint(out, RenderTable(Table{
				Headers: []string{"Year", "Principal", "Interest", "Balance"},
				Rows:    rows,
			}))
			return nil
		},
	}

	f := cmd.Flags()
	f.Float64Var(&loan.Principal, "principal", 0, "Loan amount")
	f.Float64Var(&loan.AnnualRatePct, "rate", 5, "Annual interest rate percent")
	f.IntVar(&loan.TermYears, "term", 30, "Term in years")
	_ = cmd.MarkFlagRequired("principal")
	return cmd
}
