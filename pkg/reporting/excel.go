package reporting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/signalworks/smc-sniper-bot/internal/risk"
)

const signalsSheet = "Signals"

var signalHeaders = []string{
	"ID", "Time (UTC)", "Symbol", "Direction", "Entry", "Stop Loss",
	"TP1", "TP1 R:R", "TP2", "TP3", "Lot Size", "Confidence", "Quality", "Structure",
}

// ExcelJournal appends each dispatched plan to a signal-journal workbook.
type ExcelJournal struct {
	path string
}

// NewExcelJournal creates a journal writing to path, creating parent
// directories as needed.
func NewExcelJournal(path string) (*ExcelJournal, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return &ExcelJournal{path: path}, nil
}

// Record implements Journal.
func (e *ExcelJournal) Record(plan *risk.TradePlan) error {
	fx, fresh, err := e.open()
	if err != nil {
		return err
	}
	defer fx.Close()

	if fresh {
		if err := writeHeaders(fx); err != nil {
			return err
		}
	}

	rows, err := fx.GetRows(signalsSheet)
	if err != nil {
		return fmt.Errorf("failed to read journal sheet: %w", err)
	}
	rowNum := len(rows) + 1

	values := planRow(plan)
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
		if err != nil {
			return err
		}
		if err := fx.SetCellValue(signalsSheet, cell, v); err != nil {
			return err
		}
	}

	if err := fx.SaveAs(e.path); err != nil {
		return fmt.Errorf("failed to save journal: %w", err)
	}
	return nil
}

func (e *ExcelJournal) open() (*excelize.File, bool, error) {
	if _, err := os.Stat(e.path); err == nil {
		fx, err := excelize.OpenFile(e.path)
		if err != nil {
			return nil, false, fmt.Errorf("failed to open journal: %w", err)
		}
		return fx, false, nil
	}

	fx := excelize.NewFile()
	fx.SetSheetName(fx.GetSheetName(0), signalsSheet)
	return fx, true, nil
}

func writeHeaders(fx *excelize.File) error {
	for col, h := range signalHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := fx.SetCellValue(signalsSheet, cell, h); err != nil {
			return err
		}
	}
	return nil
}

func planRow(plan *risk.TradePlan) []interface{} {
	tp := func(i int) interface{} {
		if i < len(plan.TakeProfit) {
			return plan.TakeProfit[i].Price
		}
		return ""
	}
	rr1 := interface{}("")
	if len(plan.TakeProfit) > 0 {
		rr1 = plan.TakeProfit[0].RewardRisk
	}

	kinds := ""
	for i, k := range plan.Kinds {
		if i > 0 {
			kinds += "+"
		}
		kinds += string(k)
	}

	return []interface{}{
		plan.ID,
		plan.CreatedAt.UTC().Format("2006-01-02 15:04"),
		plan.Symbol,
		string(plan.Direction),
		plan.Entry,
		plan.StopLoss,
		tp(0), rr1, tp(1), tp(2),
		plan.PositionSize,
		plan.Confidence,
		string(plan.Quality),
		kinds,
	}
}
