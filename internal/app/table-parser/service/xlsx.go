package table_parser_service

import (
	"bytes"
	"errors"
	"strings"

	"github.com/xuri/excelize/v2"
)

func readXLSX(file []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(file))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	return getFilledGrid(f, sheets[0])
}

// getFilledGrid reads a sheet into a rectangular grid of trimmed cells and
// copies every merged range's value into all cells it covers.
func getFilledGrid(f *excelize.File, sheet string) ([][]string, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	maxCol := maxWidth(rows)
	grid := make([][]string, len(rows))
	for i := range grid {
		grid[i] = make([]string, maxCol)
		for j, cell := range rows[i] {
			grid[i][j] = strings.TrimSpace(cell)
		}
	}

	merges, err := f.GetMergeCells(sheet)
	if err != nil {
		return nil, err
	}
	for _, merge := range merges {
		val := strings.TrimSpace(merge.GetCellValue())
		startCol, startRow, err := excelize.CellNameToCoordinates(merge.GetStartAxis())
		if err != nil {
			continue
		}
		endCol, endRow, err := excelize.CellNameToCoordinates(merge.GetEndAxis())
		if err != nil {
			continue
		}
		for r := startRow - 1; r <= endRow-1; r++ {
			for c := startCol - 1; c <= endCol-1; c++ {
				if r < len(grid) && c < len(grid[r]) {
					grid[r][c] = val
				}
			}
		}
	}

	return grid, nil
}
