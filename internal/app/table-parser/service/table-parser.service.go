package table_parser_service

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/nebula-marketing/lead-importer/domain/app"
)

type fileFormat string

const (
	formatXLSX      fileFormat = "xlsx"
	formatCSV       fileFormat = "csv"
	formatLegacyXLS fileFormat = "xls"
)

var (
	zipMagic = []byte{'P', 'K', 0x03, 0x04}
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0}
)

type TableParserService struct {
	log *slog.Logger
}

var _ app.TableParserService = &TableParserService{}

func New(log *slog.Logger) *TableParserService {
	return &TableParserService{log}
}

// Parse turns an XLSX or CSV buffer into a table. Only the first sheet is read,
// the first non-blank row is the header and blank rows are dropped.
func (this *TableParserService) Parse(ctx context.Context, file []byte, filename string) (*app.RawTable, error) {
	format := detectFormat(file, filename)

	var (
		grid [][]string
		err  error
	)
	switch format {
	case formatXLSX:
		grid, err = readXLSX(file)
	case formatCSV:
		grid, err = readCSV(file, filename)
	default:
		return nil, app.NewParseError(app.ParseReasonUnsupported, nil)
	}
	if err != nil {
		this.log.Warn("table decode failed", "filename", filename, "format", format, "error", err)
		return nil, app.NewParseError(app.ParseReasonUnreadable, err)
	}

	table, err := buildTable(grid)
	if err != nil {
		return nil, err
	}

	this.log.Info("table parsed",
		"filename", filename,
		"format", format,
		"header", table.Header,
		"rowCount", table.TotalRows)

	return table, nil
}

func detectFormat(file []byte, filename string) fileFormat {
	if bytes.HasPrefix(file, zipMagic) {
		return formatXLSX
	}
	if bytes.HasPrefix(file, oleMagic) {
		return formatLegacyXLS
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return formatXLSX
	case ".xls":
		return formatLegacyXLS
	default:
		return formatCSV
	}
}

// buildTable drops blank rows, takes the first remaining row as header and keys
// every data row by header.
func buildTable(grid [][]string) (*app.RawTable, error) {
	nonBlank := make([][]string, 0, len(grid))
	for _, row := range grid {
		if !isBlankRow(row) {
			nonBlank = append(nonBlank, row)
		}
	}
	if len(nonBlank) < 2 {
		return nil, app.NewParseError(app.ParseReasonTooFewRows, nil)
	}

	width := maxWidth(nonBlank)
	header := make([]string, width)
	for c, cell := range padRow(nonBlank[0], width) {
		header[c] = strings.TrimSpace(cell)
	}

	rows := make([]app.Row, 0, len(nonBlank)-1)
	for _, cells := range nonBlank[1:] {
		cells = padRow(cells, width)
		row := make(app.Row, width)
		for c, h := range header {
			if h == "" {
				continue
			}
			if _, taken := row[h]; taken {
				continue
			}
			row[h] = strings.TrimSpace(cells[c])
		}
		rows = append(rows, row)
	}

	return &app.RawTable{
		Header:    header,
		Rows:      rows,
		TotalRows: len(rows),
	}, nil
}
