package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/hemingto/boombox-11.0-sub001/internal/packing"
)

const (
	summarySheet    = "Summary"
	placementsSheet = "Placements"
)

var placementHeader = []any{
	"Container", "Key", "Name", "Category", "Custom",
	"X (in)", "Y (in)", "Z (in)", "Width (in)", "Depth (in)", "Height (in)", "Volume (ft³)",
}

// WriteXLSX writes est as an Excel workbook.
func WriteXLSX(w io.Writer, est packing.Estimate) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("rename summary sheet: %w", err)
	}
	if err := writeSummary(f, est); err != nil {
		return err
	}

	if _, err := f.NewSheet(placementsSheet); err != nil {
		return fmt.Errorf("create placements sheet: %w", err)
	}
	if err := writePlacements(f, est.PackedItems); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, est packing.Estimate) error {
	rows := [][]any{
		{"Total volume (ft³)", round2(est.TotalCubicFeet)},
		{"Units recommended", est.UnitsRecommended},
		{"Containers used", est.ContainerCount},
		{"Last container fill (%)", round2(est.LastContainerFillPercent)},
		{"Fill factor", est.FillFactor},
		{"Container (in)", fmt.Sprintf("%gx%gx%g", est.Container.Width, est.Container.Depth, est.Container.Height)},
		{"Container capacity (ft³)", round2(est.Container.CubicFeet())},
		{"Items placed", len(est.PackedItems)},
	}
	for i, row := range rows {
		if err := setRow(f, summarySheet, i+1, row); err != nil {
			return err
		}
	}
	return nil
}

func writePlacements(f *excelize.File, items []packing.PackedItem) error {
	if err := setRow(f, placementsSheet, 1, placementHeader); err != nil {
		return err
	}
	for i, p := range items {
		row := []any{
			p.ContainerIndex + 1, p.Key, p.Name, p.Category, p.Custom,
			p.X, p.Y, p.Z, p.Width, p.Depth, p.Height, round2(p.CubicFeet()),
		}
		if err := setRow(f, placementsSheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("resolve cell: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}
