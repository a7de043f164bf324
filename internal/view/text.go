package view

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// WriteText renders t as an aligned plain-text table.
func WriteText(w io.Writer, t Table) error {
	if _, err := fmt.Fprintf(w, "%s  (last update: %s)\n\n", t.Title, t.UpdatedAt); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "SYMBOL\tEXCHANGE\tSPOT\tFUTURES\tSPREAD\tFUNDING\t")
	for _, g := range t.Groups {
		for i, r := range g.Rows {
			symbol := ""
			if i == 0 {
				symbol = g.Symbol
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t\n", symbol, r.Exchange, r.Spot, r.Futures, r.Spread, r.Funding)
		}
	}
	return tw.Flush()
}
