package accountio

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/rotisserie/eris"

	"github.com/sells-group/dedupe-cli/internal/model"
)

// Output column names appended to the input schema.
const (
	ColOutcome        = "Outcome"
	ColProposedParent = "Proposed Parent ID"
	ColMergeTarget    = "Merge Target ID"
)

// WriteCSV writes the table back out with the three resolution columns
// appended. Input cells are echoed verbatim in input order; every record's
// resolution comes from the results map keyed by account id.
func WriteCSV(w io.Writer, t *Table, results map[string]model.Resolution) error {
	if len(t.Rows) != len(t.Accounts) {
		return eris.Errorf("accountio: table has %d rows but %d accounts", len(t.Rows), len(t.Accounts))
	}

	cw := csv.NewWriter(w)

	header := append(append([]string{}, t.Header...), ColOutcome, ColProposedParent, ColMergeTarget)
	if err := cw.Write(header); err != nil {
		return eris.Wrap(err, "accountio: write header")
	}

	width := len(t.Header)
	for i, row := range t.Rows {
		res, ok := results[t.Accounts[i].ID]
		if !ok {
			return eris.Errorf("accountio: no resolution for account %q", t.Accounts[i].ID)
		}

		out := make([]string, width, width+3)
		copy(out, row)
		out = append(out, string(res.Outcome), res.ProposedParentID, res.MergeTargetID)

		if err := cw.Write(out); err != nil {
			return eris.Wrap(err, "accountio: write row")
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return eris.Wrap(err, "accountio: flush output")
	}
	return nil
}

// WriteFile writes the annotated table to a CSV file.
func WriteFile(path string, t *Table, results map[string]model.Resolution) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "accountio: create output file")
	}

	if err := WriteCSV(f, t, results); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return eris.Wrap(err, "accountio: close output file")
	}
	return nil
}
