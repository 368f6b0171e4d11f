package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// TimeLayout renders timestamps as ISO-8601 UTC.
const TimeLayout = "2006-01-02T15:04:05Z"

var Header = []string{
	"code", "name", "buy", "bought_at", "sell", "sold_at", "difference", "difference_percentage",
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// quoteAll wraps every field in double quotes so the table pastes cleanly into
// spreadsheets.
func quoteAll(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",")
}

func (r Row) fields() []string {
	return []string{
		r.Code,
		r.Name,
		formatFloat(r.Buy),
		r.BoughtAt.UTC().Format(TimeLayout),
		formatFloat(r.Sell),
		r.SoldAt.UTC().Format(TimeLayout),
		formatFloat(r.Difference),
		formatFloat(r.DifferencePercentage),
	}
}

// FormatRow renders one row of the trade table.
func FormatRow(r Row) string {
	return quoteAll(r.fields())
}

// ParseRow parses a line produced by FormatRow.
func ParseRow(line string) (Row, error) {
	reader := csv.NewReader(strings.NewReader(line))
	reader.FieldsPerRecord = len(Header)
	fields, err := reader.Read()
	if err != nil {
		return Row{}, fmt.Errorf("read csv row: %w", err)
	}

	var row Row
	row.Code = fields[0]
	row.Name = fields[1]

	floats := []struct {
		idx int
		dst *float64
	}{
		{2, &row.Buy},
		{4, &row.Sell},
		{6, &row.Difference},
		{7, &row.DifferencePercentage},
	}
	for _, f := range floats {
		v, err := strconv.ParseFloat(fields[f.idx], 64)
		if err != nil {
			return Row{}, fmt.Errorf("parse %s: %w", Header[f.idx], err)
		}
		*f.dst = v
	}

	times := []struct {
		idx int
		dst *time.Time
	}{
		{3, &row.BoughtAt},
		{5, &row.SoldAt},
	}
	for _, tm := range times {
		v, err := time.Parse(TimeLayout, fields[tm.idx])
		if err != nil {
			return Row{}, fmt.Errorf("parse %s: %w", Header[tm.idx], err)
		}
		*tm.dst = v
	}

	return row, nil
}

// Lines renders the aggregate block shown after the table.
func (s Summary) Lines() []string {
	return []string{
		fmt.Sprintf("total_trades_len: %d", s.TotalTrades),
		fmt.Sprintf("wins_len: %d", s.Wins),
		fmt.Sprintf("loses_len: %d", s.Losses),
		fmt.Sprintf("win_rate: %s", formatFloat(s.WinRate)),
		fmt.Sprintf("total_earning: %s", formatFloat(s.TotalEarning)),
		fmt.Sprintf("total_gain: %s", formatFloat(s.TotalGain)),
		fmt.Sprintf("total_lost: %s", formatFloat(s.TotalLost)),
	}
}

func (s Summary) String() string {
	return strings.Join(s.Lines(), "\n")
}

// WriteCSV writes only the quoted trade table.
func WriteCSV(w io.Writer, rep *Report) error {
	if _, err := fmt.Fprintln(w, quoteAll(Header)); err != nil {
		return err
	}
	for _, r := range rep.Rows {
		if _, err := fmt.Fprintln(w, FormatRow(r)); err != nil {
			return err
		}
	}
	return nil
}

// Render writes the trade table followed by the summary block.
func Render(w io.Writer, rep *Report) error {
	if err := WriteCSV(w, rep); err != nil {
		return fmt.Errorf("write table: %w", err)
	}
	if _, err := fmt.Fprintln(w, rep.Summary.String()); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}
