package reporting

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/signalworks/smc-sniper-bot/internal/risk"
)

// ConsoleJournal renders each dispatched plan as a table on stdout.
type ConsoleJournal struct{}

// NewConsoleJournal creates a console journal.
func NewConsoleJournal() *ConsoleJournal {
	return &ConsoleJournal{}
}

// Record implements Journal.
func (c *ConsoleJournal) Record(plan *risk.TradePlan) error {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("TRADE PLAN %s", plan.Symbol)
	t.SetStyle(table.StyleRounded)

	rows := []table.Row{
		{"🎯 Instrument", fmt.Sprintf("%s (%s)", plan.Name, plan.Symbol)},
		{"📈 Direction", string(plan.Direction)},
		{"💵 Entry", fmt.Sprintf("%.5g", plan.Entry)},
		{"🛑 Stop Loss", fmt.Sprintf("%.5g", plan.StopLoss)},
	}
	for i, tp := range plan.TakeProfit {
		rows = append(rows, table.Row{
			fmt.Sprintf("🎯 TP%d", i+1),
			fmt.Sprintf("%.5g (1:%.1f)", tp.Price, tp.RewardRisk),
		})
	}
	rows = append(rows,
		table.Row{"📊 Lot Size", fmt.Sprintf("%g", plan.PositionSize)},
		table.Row{"⚠️ Quality", fmt.Sprintf("%s (%.0f%%)", plan.Quality, plan.Confidence)},
		table.Row{"⏰ Time", plan.CreatedAt.UTC().Format("2006-01-02 15:04 UTC")},
	)
	t.AppendRows(rows)

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 15, WidthMax: 15, Align: text.AlignLeft},
		{Number: 2, WidthMin: 30, WidthMax: 40, Align: text.AlignLeft},
	})

	t.Render()
	fmt.Println()
	return nil
}
