package report

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var (
	t0 = time.Date(2021, 3, 2, 13, 32, 39, 0, time.UTC)
	t1 = time.Date(2021, 3, 3, 9, 5, 0, 0, time.UTC)
)

func sampleRecords() []Record {
	return []Record{
		{Code: "9434", Name: "ソフトバンク", Buy: d("1443"), BoughtAt: t0, Sell: d("1500"), SoldAt: t1},
		{Code: "1357", Name: "日経ダブルインバース", Buy: d("1000"), BoughtAt: t0, Sell: d("976"), SoldAt: t1},
		{Code: "7203", Name: "トヨタ自動車", Buy: d("2000"), BoughtAt: t0, Sell: d("2000"), SoldAt: t1},
	}
}

func TestAggregate(t *testing.T) {
	rep, err := Aggregate(sampleRecords())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s := rep.Summary
	if s.TotalTrades != 3 || s.Wins != 2 || s.Losses != 1 {
		t.Errorf("unexpected counts %+v", s)
	}
	if math.Abs(s.WinRate-2.0/3.0) > 1e-12 {
		t.Errorf("win rate = %v", s.WinRate)
	}
	if s.TotalEarning != 33 || s.TotalGain != 57 || s.TotalLost != -24 {
		t.Errorf("unexpected totals %+v", s)
	}

	if got := rep.Rows[1]; got.Difference != -24 || got.DifferencePercentage != -2.4 {
		t.Errorf("unexpected row %+v", got)
	}
	for i, r := range rep.Rows {
		if r.Code != sampleRecords()[i].Code {
			t.Errorf("row %d: order not preserved, got %s", i, r.Code)
		}
	}
}

func TestAggregate_DifferencePercentage(t *testing.T) {
	tests := []struct {
		buy, sell string
		want      float64
	}{
		{"1443", "1500", 3.95010395010395},
		{"1003", "1028", 2.4925224327018944},
		{"3000000", "3000001", 3.3333333333333335e-05},
		{"2987", "2915", -2.4104452628054904},
		{"1000", "976", -2.4},
	}

	for _, tt := range tests {
		t.Run(tt.buy+"/"+tt.sell, func(t *testing.T) {
			rep, err := Aggregate([]Record{{Code: "9434", Buy: d(tt.buy), BoughtAt: t0, Sell: d(tt.sell), SoldAt: t1}})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := rep.Rows[0].DifferencePercentage; got != tt.want {
				t.Errorf("difference_percentage = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAggregate_NonPositiveBuy(t *testing.T) {
	for _, buy := range []string{"0", "-1"} {
		records := append(sampleRecords(), Record{Code: "0000", Buy: d(buy), BoughtAt: t0, Sell: d("10"), SoldAt: t1})
		if _, err := Aggregate(records); !errors.Is(err, ErrInvalidBuyPrice) {
			t.Errorf("buy %s: expected ErrInvalidBuyPrice, got %v", buy, err)
		}
	}
}

func TestAggregate_SummaryIgnoresOrder(t *testing.T) {
	records := sampleRecords()
	reversed := []Record{records[2], records[1], records[0]}

	a, err := Aggregate(records)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Aggregate(reversed)
	if err != nil {
		t.Fatal(err)
	}
	if a.Summary != b.Summary {
		t.Errorf("summary differs: %+v vs %+v", a.Summary, b.Summary)
	}
	if b.Rows[0].Code != "7203" {
		t.Errorf("rows should follow input order, got %s first", b.Rows[0].Code)
	}
}

func TestAggregate_NoTrades(t *testing.T) {
	if _, err := Aggregate(nil); !errors.Is(err, ErrNoTrades) {
		t.Fatalf("expected ErrNoTrades, got %v", err)
	}
}

func TestRowRoundTrip(t *testing.T) {
	rep, err := Aggregate(append(sampleRecords(), Record{
		Code: "6758", Name: `Sony "G"`, Buy: d("12345.67"), BoughtAt: t0, Sell: d("12001.05"), SoldAt: t1,
	}))
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range rep.Rows {
		line := FormatRow(want)
		got, err := ParseRow(line)
		if err != nil {
			t.Fatalf("ParseRow(%q): %v", line, err)
		}
		if got.Code != want.Code || got.Name != want.Name {
			t.Errorf("text fields differ: %+v vs %+v", got, want)
		}
		if got.Buy != want.Buy || got.Sell != want.Sell ||
			got.Difference != want.Difference || got.DifferencePercentage != want.DifferencePercentage {
			t.Errorf("numeric fields differ: %+v vs %+v", got, want)
		}
		if !got.BoughtAt.Equal(want.BoughtAt) || !got.SoldAt.Equal(want.SoldAt) {
			t.Errorf("timestamps differ: %+v vs %+v", got, want)
		}
	}
}

func TestParseRow_Invalid(t *testing.T) {
	tests := []string{
		`"a","b"`,
		`"9434","x","abc","2021-03-02T13:32:39Z","1","2021-03-02T13:32:39Z","0","0"`,
		`"9434","x","1","yesterday","1","2021-03-02T13:32:39Z","0","0"`,
	}
	for _, line := range tests {
		if _, err := ParseRow(line); err == nil {
			t.Errorf("ParseRow(%q) expected error", line)
		}
	}
}

func TestRender(t *testing.T) {
	rep, err := Aggregate(sampleRecords()[:2])
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := Render(&buf, rep); err != nil {
		t.Fatal(err)
	}

	want := strings.Join([]string{
		`"code","name","buy","bought_at","sell","sold_at","difference","difference_percentage"`,
		`"9434","ソフトバンク","1443","2021-03-02T13:32:39Z","1500","2021-03-03T09:05:00Z","57","3.95010395010395"`,
		`"1357","日経ダブルインバース","1000","2021-03-02T13:32:39Z","976","2021-03-03T09:05:00Z","-24","-2.4"`,
		"total_trades_len: 2",
		"wins_len: 1",
		"loses_len: 1",
		"win_rate: 0.5",
		"total_earning: 33",
		"total_gain: 57",
		"total_lost: -24",
		"",
	}, "\n")
	if buf.String() != want {
		t.Errorf("Render() =\n%s\nwant\n%s", buf.String(), want)
	}
}

type fakeSource struct {
	records []Record
	err     error
}

func (f fakeSource) CompletedRecords(context.Context, uint) ([]Record, error) {
	return f.records, f.err
}

func TestBuild(t *testing.T) {
	rep, err := Build(context.Background(), fakeSource{records: sampleRecords()}, 1)
	if err != nil || rep.Summary.TotalTrades != 3 {
		t.Fatalf("unexpected result %+v, %v", rep, err)
	}

	if _, err := Build(context.Background(), fakeSource{}, 1); !errors.Is(err, ErrNoTrades) {
		t.Errorf("expected ErrNoTrades, got %v", err)
	}

	boom := errors.New("boom")
	if _, err := Build(context.Background(), fakeSource{err: boom}, 1); !errors.Is(err, boom) {
		t.Errorf("expected wrapped source error, got %v", err)
	}
}
