package accountio

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// ReadXLSXFile loads accounts from the first sheet of an XLSX workbook.
// The first row is the header, matching the CSV reader's contract.
func ReadXLSXFile(path string, m Mapping) (*Table, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "accountio: open xlsx file")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("accountio: xlsx file has no sheets")
	}

	sheet := f.Sheets[0]
	if len(sheet.Rows) == 0 {
		return nil, eris.New("accountio: input file is empty")
	}

	header := rowToStrings(sheet.Rows[0])
	cols, err := m.resolve(header)
	if err != nil {
		return nil, err
	}

	t := &Table{Header: header}
	for _, row := range sheet.Rows[1:] {
		cells := rowToStrings(row)
		t.Rows = append(t.Rows, cells)
		t.Accounts = append(t.Accounts, rowToAccount(cells, cols, m.dateLayouts()))
	}

	return t, nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}
