package leaderboard

import (
	"testing"

	"github.com/bobmcallan/paisa-buddy/internal/models"
	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func pos(id string, typ models.AssetType, sector string, qty int64, avg, price string) models.Position {
	return models.Position{ID: id, Ticker: id, Name: id, Type: typ, Sector: sector, Quantity: qty, AveragePrice: d(avg), CurrentPrice: d(price)}
}

func TestBuild_RanksByReturn(t *testing.T) {
	peers := []Peer{
		{Name: "Aarav", PortfolioValue: d("125830.50"), Change: d("25.83")},
		{Name: "Neha", PortfolioValue: d("99870.10"), Change: d("-0.13")},
		{Name: "Vikram", PortfolioValue: d("105600"), Change: d("5.60")},
	}
	you := Player{
		Portfolio: models.Portfolio{
			Cash:        d("90000"),
			Contributed: d("100000"),
			Positions:   []models.Position{pos("TCS", models.AssetStock, "IT", 3, "3800", "4000")},
		},
	}

	entries := Build(peers, you)

	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(entries))
	}
	wantOrder := []string{"Aarav", "Vikram", "You", "Neha"}
	for i, e := range entries {
		if e.Name != wantOrder[i] || e.Rank != i+1 {
			t.Errorf("entry %d: expected %s rank %d, got %s rank %d", i, wantOrder[i], i+1, e.Name, e.Rank)
		}
	}
	me := entries[2]
	if !me.IsCurrentUser || !me.PortfolioValue.Equal(d("102000")) || !me.Change.Equal(d("2")) {
		t.Errorf("unexpected current user entry %+v", me)
	}
}

func TestPlayerEntry_NoCapital(t *testing.T) {
	e := Player{Name: "Asha"}.Entry()
	if !e.Change.IsZero() || e.Name != "Asha" {
		t.Errorf("unexpected entry %+v", e)
	}
}

func TestPlayerEntry_HoldingsAndDepositsAreNotGain(t *testing.T) {
	p := models.Portfolio{
		Cash: d("100000"),
		Positions: []models.Position{
			pos("RELIANCE", models.AssetStock, "Energy", 10, "2800", "2800"),
			pos("AXISBLUE", models.AssetMutualFund, "Large Cap", 100, "50", "50"),
		},
	}
	p.Contributed = p.Capital()

	fresh := Player{Portfolio: p}.Entry()
	if !fresh.Change.IsZero() || !fresh.PortfolioValue.Equal(d("133000")) {
		t.Errorf("expected 0%% change on an untouched portfolio, got %+v", fresh)
	}

	// a 50000 deposit raises value and capital alike
	p.Cash = p.Cash.Add(d("50000"))
	p.Contributed = p.Contributed.Add(d("50000"))
	if e := (Player{Portfolio: p}).Entry(); !e.Change.IsZero() {
		t.Errorf("deposit counted as gain: %s%%", e.Change)
	}

	entries := Build([]Peer{
		{Name: "Aarav", PortfolioValue: d("125830.50"), Change: d("25.83")},
		{Name: "Neha", PortfolioValue: d("99870.10"), Change: d("-0.13")},
	}, Player{Portfolio: p})
	if entries[0].Name != "Aarav" || entries[1].Name != "You" {
		t.Errorf("a larger balance must not outrank a better return, got %s then %s", entries[0].Name, entries[1].Name)
	}
}

func TestPlayerEntry_LegacySnapshotUsesCostBasis(t *testing.T) {
	p := models.Portfolio{
		Cash:      d("90000"),
		Positions: []models.Position{pos("TCS", models.AssetStock, "IT", 10, "1000", "1100")},
	}
	// capital 100000, value 101000
	if e := (Player{Portfolio: p}).Entry(); !e.Change.Equal(d("1")) {
		t.Errorf("expected 1%% change, got %s", e.Change)
	}
}

func achieved(list []Achievement) map[string]bool {
	out := map[string]bool{}
	for _, a := range list {
		out[a.ID] = a.Achieved
	}
	return out
}

func TestAchievements_Empty(t *testing.T) {
	for id, ok := range achieved(Achievements(models.Portfolio{Cash: d("100000")})) {
		if ok {
			t.Errorf("%s should not be achieved on an empty portfolio", id)
		}
	}
}

func TestAchievements(t *testing.T) {
	p := models.Portfolio{Positions: []models.Position{
		pos("RELIANCE", models.AssetStock, "Energy", 10, "100", "120"),
		pos("TCS", models.AssetStock, "IT", 1, "100", "105"),
		pos("HDFCBANK", models.AssetStock, "Banking", 1, "100", "100"),
		pos("SOLD", models.AssetStock, "Pharma", 0, "0", "100"),
	}}
	got := achieved(Achievements(p))
	if !got["first-investment"] || !got["diversifier"] {
		t.Errorf("expected first-investment and diversifier, got %v", got)
	}
	// (1200+105+100) / 1200 = 17.08% gain
	if !got["profit-pro"] {
		t.Errorf("expected profit-pro, got %v", got)
	}
	if got["mutual-fund-master"] {
		t.Error("no funds held")
	}

	var funds []models.Position
	for _, id := range []string{"F1", "F2", "F3", "F4", "F5"} {
		funds = append(funds, pos(id, models.AssetMutualFund, "", 1, "10", "9"))
	}
	got = achieved(Achievements(models.Portfolio{Positions: funds}))
	if !got["mutual-fund-master"] || got["profit-pro"] || got["diversifier"] {
		t.Errorf("unexpected achievements %v", got)
	}
}
