// Package shoppinglist combines the ingredient lines of several recipes into
// one list and renders it for download.
package shoppinglist

import (
	"bufio"
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"
)

const (
	TextFilename = "shopping_cart.txt"
	XLSXFilename = "shopping_cart.xlsx"
	sheetName    = "Sheet1"
)

// Line is one composition row: an ingredient amount within one recipe.
type Line struct {
	Name            string
	MeasurementUnit string
	Amount          int
}

// Item is an aggregated shopping list entry.
type Item struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

type groupKey struct {
	name string
	unit string
}

// Aggregate groups lines by (name, unit) and sums their amounts. The result is
// ordered by name, then unit. No lines yields an empty, non-nil slice.
func Aggregate(lines []Line) []Item {
	totals := make(map[groupKey]int, len(lines))
	for _, line := range lines {
		totals[groupKey{name: line.Name, unit: line.MeasurementUnit}] += line.Amount
	}

	items := make([]Item, 0, len(totals))
	for key, amount := range totals {
		items = append(items, Item{Name: key.name, MeasurementUnit: key.unit, Amount: amount})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].MeasurementUnit < items[j].MeasurementUnit
	})
	return items
}

// WriteText renders one "name, unit - amount" line per item.
func WriteText(w io.Writer, items []Item) error {
	bw := bufio.NewWriter(w)
	for _, item := range items {
		if _, err := fmt.Fprintf(bw, "%s, %s - %d\n", item.Name, item.MeasurementUnit, item.Amount); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteXLSX renders the items as a spreadsheet with a header row.
func WriteXLSX(w io.Writer, items []Item) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetRow(sheetName, "A1", &[]any{"Ingredient", "Unit", "Amount"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, item := range items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{item.Name, item.MeasurementUnit, item.Amount}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
