package domain

import "testing"

func TestStockPosition_WeightedAverageBuys(t *testing.T) {
	pos := &StockPosition{MemberID: "mem-1", Symbol: "NVDA"}

	// $200 at $800/share
	shares1 := mustDecimal(t, "200").Div(mustDecimal(t, "800")).Round(8)
	pos.ApplyBuy(shares1, mustDecimal(t, "200"))

	if want := mustDecimal(t, "0.25"); !pos.Shares.Equal(want) {
		t.Fatalf("shares = %s, want %s", pos.Shares, want)
	}

	// $100 more at $900/share
	shares2 := mustDecimal(t, "100").Div(mustDecimal(t, "900")).Round(8)
	pos.ApplyBuy(shares2, mustDecimal(t, "100"))

	if want := mustDecimal(t, "0.36111111"); !pos.Shares.Equal(want) {
		t.Errorf("shares = %s, want %s", pos.Shares, want)
	}
	if want := mustDecimal(t, "300"); !pos.CostBasis.Equal(want) {
		t.Errorf("cost basis = %s, want %s", pos.CostBasis, want)
	}
}

func TestStockPosition_SellAllZeroesBasis(t *testing.T) {
	pos := &StockPosition{
		MemberID:  "mem-1",
		Symbol:    "NVDA",
		Shares:    mustDecimal(t, "0.36111111"),
		CostBasis: mustDecimal(t, "300"),
	}

	costRemoved := pos.ApplySell(pos.Shares)

	if want := mustDecimal(t, "300.00"); !costRemoved.Equal(want) {
		t.Errorf("cost removed = %s, want %s", costRemoved, want)
	}
	if !pos.Shares.IsZero() {
		t.Errorf("shares = %s, want 0", pos.Shares)
	}
	if !pos.CostBasis.IsZero() {
		t.Errorf("cost basis = %s, want 0", pos.CostBasis)
	}
}

func TestStockPosition_PartialSellProportionalBasis(t *testing.T) {
	pos := &StockPosition{
		MemberID:  "mem-1",
		Symbol:    "VOO",
		Shares:    mustDecimal(t, "2"),
		CostBasis: mustDecimal(t, "800"),
	}

	costRemoved := pos.ApplySell(mustDecimal(t, "0.5"))

	if want := mustDecimal(t, "200.00"); !costRemoved.Equal(want) {
		t.Errorf("cost removed = %s, want %s", costRemoved, want)
	}
	if want := mustDecimal(t, "1.5"); !pos.Shares.Equal(want) {
		t.Errorf("shares = %s, want %s", pos.Shares, want)
	}
	if want := mustDecimal(t, "600"); !pos.CostBasis.Equal(want) {
		t.Errorf("cost basis = %s, want %s", pos.CostBasis, want)
	}
}

func TestStockPosition_AverageCost(t *testing.T) {
	pos := &StockPosition{
		Shares:    mustDecimal(t, "0.36111111"),
		CostBasis: mustDecimal(t, "300"),
	}

	avg := pos.AverageCost()
	if avg.LessThan(mustDecimal(t, "830")) || avg.GreaterThan(mustDecimal(t, "831")) {
		t.Errorf("average cost = %s, expected around 830.77", avg)
	}

	empty := &StockPosition{}
	if !empty.AverageCost().IsZero() {
		t.Error("empty position average cost should be zero")
	}
}
