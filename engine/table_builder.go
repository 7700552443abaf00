package engine

import (
	"github.com/Velocidex/ordereddict"
)

// ============================================================================
// TABLE BUILDER — Produces TableData from a View
// ============================================================================
// Column discovery uses the table's own column order; numeric cells are
// stringified without trailing decimals ("45", "1.5").
// ============================================================================

// BuildDataTable returns the first maxRows rows of view with every column.
func BuildDataTable(view View, maxRows int, title string) *TableData {
	columns := view.table.Columns()

	tableColumns := make([]TableColumn, 0, len(columns))
	for _, c := range columns {
		tc := TableColumn{Key: c.Key(), Label: c.Name(), Type: "text", Align: "left"}
		if c.IsNumeric() {
			tc.Type = "number"
			tc.Align = "right"
		}
		tableColumns = append(tableColumns, tc)
	}

	n := view.Len()
	if maxRows > 0 && n > maxRows {
		n = maxRows
	}

	rows := make([][]string, 0, n)
	records := make([]*ordereddict.Dict, 0, n)
	for i := 0; i < n; i++ {
		row := view.rows[i]
		cells := make([]string, 0, len(columns))
		record := ordereddict.NewDict()
		for _, c := range columns {
			cell := c.Text(row)
			cells = append(cells, cell)
			if c.IsNumeric() {
				record.Set(c.Name(), Number(c.Number(row)))
			} else {
				record.Set(c.Name(), cell)
			}
		}
		rows = append(rows, cells)
		records = append(records, record)
	}

	return &TableData{
		Title:     title,
		Columns:   tableColumns,
		Rows:      rows,
		TotalRows: view.Len(),
		Records:   records,
	}
}
