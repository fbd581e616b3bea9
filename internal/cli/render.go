package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/amirphl/futures-cli/internal/order"
)

func banner(w io.Writer) {
	const title = "Binance Futures Trading CLI"
	line := strings.Repeat("-", len(title)+4)
	fmt.Fprintf(w, "+%s+\n|  %s  |\n+%s+\n", line, title, line)
}

// renderAck prints an order acknowledgment as a field/value table.
func renderAck(w io.Writer, title string, ack order.Ack) {
	rows := [][2]string{
		{"Order ID", fmt.Sprintf("%d", ack.OrderID)},
		{"Client Order ID", ack.ClientOrderID},
		{"Symbol", ack.Symbol},
		{"Status", ack.Status},
		{"Side", string(ack.Side)},
		{"Type", string(ack.Type)},
		{"Quantity", ack.Quantity.String()},
	}
	if ack.Price.IsPositive() {
		rows = append(rows, [2]string{"Price", ack.Price.String()})
	}
	if ack.StopPrice.IsPositive() {
		rows = append(rows, [2]string{"Stop Price", ack.StopPrice.String()})
	}
	if ack.ExecutedQty.IsPositive() {
		rows = append(rows, [2]string{"Executed Qty", ack.ExecutedQty.String()})
		rows = append(rows, [2]string{"Avg Price", ack.AvgPrice.String()})
	}
	if !ack.UpdatedAt.IsZero() {
		rows = append(rows, [2]string{"Updated At", ack.UpdatedAt.Format("2006-01-02 15:04:05 MST")})
	}
	resultTable(w, title, rows)
}

func resultTable(w io.Writer, title string, rows [][2]string) {
	fmt.Fprintf(w, "\n%s\n%s\n", title, strings.Repeat("=", len(title)))
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\n", row[0], row[1])
	}
	tw.Flush()
	fmt.Fprintln(w)
}
