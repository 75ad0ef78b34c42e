package app

import "context"

// Row is one data row of a parsed table, keyed by header.
// When two columns share a header the left-most one wins.
type Row map[string]string

type RawTable struct {
	Header    []string `json:"header"`
	Rows      []Row    `json:"rows"`
	TotalRows int      `json:"total_rows"`
}

type TableParserService interface {
	Parse(ctx context.Context, file []byte, filename string) (*RawTable, error)
}
