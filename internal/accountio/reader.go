package accountio

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/charmap"

	"github.com/sells-group/dedupe-cli/internal/model"
)

// defaultDateLayouts are tried in order when parsing created dates.
var defaultDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"1/2/2006",
	"01/02/2006",
}

// ReadOptions configures tabular input parsing.
type ReadOptions struct {
	Delimiter rune // default ','
	Latin1    bool // decode ISO-8859-1 instead of UTF-8
}

// Table is a loaded account file: the original header and cells, preserved
// verbatim for round-tripping, plus the parsed records in row order.
type Table struct {
	Header   []string
	Rows     [][]string
	Accounts []model.Account
}

// ReadFile loads accounts from a CSV or XLSX file, chosen by extension.
func ReadFile(path string, m Mapping, opts ReadOptions) (*Table, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ReadXLSXFile(path, m)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "accountio: open input file")
	}
	defer f.Close()

	return ReadCSV(f, m, opts)
}

// ReadCSV parses a delimited account file. The first row is the header;
// column positions are resolved against the mapping before any row is read,
// so a schema problem surfaces before partial processing.
func ReadCSV(r io.Reader, m Mapping, opts ReadOptions) (*Table, error) {
	if opts.Latin1 {
		r = charmap.ISO8859_1.NewDecoder().Reader(r)
	}

	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.FieldsPerRecord = -1 // allow variable fields

	header, err := reader.Read()
	if err == io.EOF {
		return nil, eris.New("accountio: input file is empty")
	}
	if err != nil {
		return nil, eris.Wrap(err, "accountio: read header")
	}

	cols, err := m.resolve(header)
	if err != nil {
		return nil, err
	}

	t := &Table{Header: header}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "accountio: read row")
		}
		t.Rows = append(t.Rows, record)
		t.Accounts = append(t.Accounts, rowToAccount(record, cols, m.dateLayouts()))
	}

	return t, nil
}

func (m Mapping) dateLayouts() []string {
	if len(m.DateLayouts) > 0 {
		return m.DateLayouts
	}
	return defaultDateLayouts
}

// rowToAccount converts one row using resolved column positions. Cells
// beyond the row's length and unmapped columns load as empty.
func rowToAccount(row []string, c columns, layouts []string) model.Account {
	return model.Account{
		ID:             cell(row, c.id),
		Name:           cell(row, c.name),
		Domain:         cell(row, c.domain),
		Website:        cell(row, c.website),
		BillingCountry: cell(row, c.country),
		CreatedDate:    parseDate(cell(row, c.created), layouts),
		TotalContacts:  parseCount(cell(row, c.contacts)),
		OpenOpps:       parseCount(cell(row, c.open)),
		ClosedOpps:     parseCount(cell(row, c.closed)),
	}
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseDate(s string, layouts []string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func parseCount(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(strings.ReplaceAll(s, ",", ""))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
