package strategy

import (
	"errors"
	"testing"
)

func testThresholds() Thresholds {
	return Thresholds{
		ProfitBookingRate: d("0.025"),
		WinRate:           d("0.5"),
		LossCutRate:       d("0.024"),
	}
}

func TestDecide_NoPositionAlwaysOpens(t *testing.T) {
	for _, price := range []string{"1", "1000", "999999.5"} {
		for _, latest := range []*PositionState{nil, {ID: 3, Buy: d("1000"), Closed: true}} {
			a, err := Decide(7, d(price), latest, testThresholds())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if a.Kind != OpenPosition || a.StockID != 7 || !a.Price.Equal(d(price)) {
				t.Errorf("price %s latest %+v: got %v", price, latest, a)
			}
		}
	}
}

func TestDecide_OpenPosition(t *testing.T) {
	open := &PositionState{ID: 42, Buy: d("1000")}

	tests := []struct {
		price string
		want  ActionKind
	}{
		{"1026", ClosePosition},
		{"1025", ClosePosition},
		{"1024.9", NoAction},
		{"1000", NoAction},
		{"976.1", NoAction},
		{"976", ClosePosition},
		{"980", NoAction},
		{"900", ClosePosition},
	}

	for _, tt := range tests {
		t.Run(tt.price, func(t *testing.T) {
			a, err := Decide(7, d(tt.price), open, testThresholds())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if a.Kind != tt.want {
				t.Fatalf("Decide(%s) = %s, want %s", tt.price, a.Kind, tt.want)
			}
			if a.Kind == ClosePosition && (a.PositionID != 42 || !a.Price.Equal(d(tt.price))) {
				t.Errorf("unexpected close action %v", a)
			}
		})
	}
}

func TestDecide_InvalidRates(t *testing.T) {
	tests := []struct {
		name string
		th   Thresholds
	}{
		{"zero profit", Thresholds{ProfitBookingRate: d("0"), LossCutRate: d("0.02")}},
		{"zero loss cut", Thresholds{ProfitBookingRate: d("0.025"), LossCutRate: d("0")}},
		{"loss cut of one", Thresholds{ProfitBookingRate: d("0.025"), LossCutRate: d("1")}},
		{"negative profit", Thresholds{ProfitBookingRate: d("-0.1"), LossCutRate: d("0.02")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decide(1, d("100"), nil, tt.th)
			if !errors.Is(err, ErrInvalidRateConfiguration) {
				t.Errorf("expected ErrInvalidRateConfiguration, got %v", err)
			}
		})
	}
}

func TestComputeThresholds(t *testing.T) {
	th, err := ComputeThresholds(d("0.025"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !th.WinRate.Equal(d("0.5")) || !th.LossCutRate.Equal(d("0.024")) {
		t.Errorf("unexpected thresholds %+v", th)
	}
	if !th.ProfitBookingPrice(d("1000")).Equal(d("1025")) || !th.LossCutPrice(d("1000")).Equal(d("976")) {
		t.Errorf("unexpected prices %s / %s", th.ProfitBookingPrice(d("1000")), th.LossCutPrice(d("1000")))
	}
}
