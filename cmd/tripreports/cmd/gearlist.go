package cmd

import (
	"fmt"
	"math"
	"os"
	"strconv"

	"ulhiking-backend/internal/scrapers/lighterpack"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(gearlistCmd)
}

var gearlistCmd = &cobra.Command{
	Use:   "gearlist <url>...",
	Short: "Fetch lighterpack gear lists and print their items.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scraper, err := newScraper()
		if err != nil {
			return err
		}

		failed := 0
		for _, result := range scraper.ScrapeAll(cmd.Context(), args) {
			fmt.Fprintln(cmd.OutOrStdout(), text.Bold.Sprint(result.URL))
			switch {
			case result.NotFound():
				fmt.Fprintln(cmd.OutOrStdout(), "gear list not found")
				continue
			case result.Err != nil:
				failed++
				fmt.Fprintln(os.Stderr, result.Err)
				continue
			}

			t := newTable(cmd)
			renderGearList(t, result.List)
			t.Render()

			for _, issue := range result.Issues {
				fmt.Fprintln(os.Stderr, "warning:", issue)
			}
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d gear lists could not be fetched", failed, len(args))
		}
		return nil
	},
}

func newTable(cmd *cobra.Command) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(cmd.OutOrStdout())
	return t
}

func optional[T any](value *T, format func(T) string) string {
	if value == nil {
		return "-"
	}
	return format(*value)
}

// formatFloat rounds to 2 decimals, unit conversion leaves float noise behind
func formatFloat(f float64) string {
	return strconv.FormatFloat(math.Round(f*100)/100, 'f', -1, 64)
}

func identity(s string) string {
	return s
}

func renderGearList(t table.Writer, list lighterpack.GearList) {
	t.AppendHeader(table.Row{"Category", "Name", "Description", "Weight (g)", "Price", "Qty"})
	var totalGrams float64
	for _, row := range list.Rows() {
		t.AppendRow(table.Row{
			row.Category,
			optional(row.Name, identity),
			optional(row.Description, identity),
			optional(row.WeightGrams, formatFloat),
			optional(row.Price, decimal.Decimal.String),
			optional(row.Quantity, formatFloat),
		})
		if row.WeightGrams != nil {
			qty := 1.0
			if row.Quantity != nil {
				qty = *row.Quantity
			}
			totalGrams += *row.WeightGrams * qty
		}
	}
	t.AppendFooter(table.Row{"", "Total", "", strconv.FormatFloat(totalGrams, 'f', 2, 64), "", ""})
}
