package portfolio

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/bobmcallan/paisa-buddy/internal/common"
	"github.com/bobmcallan/paisa-buddy/internal/interfaces"
	"github.com/bobmcallan/paisa-buddy/internal/models"
	"github.com/bobmcallan/paisa-buddy/internal/storage"
	"github.com/bobmcallan/paisa-buddy/internal/storage/memory"
	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newTestService(t *testing.T, cash string, positions ...models.Position) (*Service, *storage.SnapshotStore) {
	t.Helper()
	store := storage.NewSnapshotStore(memory.NewKVStorage())
	svc := NewService("u1", models.Portfolio{Cash: d(cash), Positions: positions}, store, common.NewSilentLogger())
	return svc, store
}

func stock(id, price string, qty int64, avg string) models.Position {
	return models.Position{
		ID: id, Ticker: id, Name: id, Type: models.AssetStock,
		Quantity: qty, AveragePrice: d(avg), CurrentPrice: d(price),
	}
}

func mustOrder(t *testing.T, id string, qty int64, a Action) TradeOrder {
	t.Helper()
	o, err := NewTradeOrder(id, qty, a)
	if err != nil {
		t.Fatalf("NewTradeOrder: %v", err)
	}
	return o
}

func TestNewTradeOrder_Validation(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		qty     int64
		action  Action
		wantErr error
	}{
		{"valid", "tcs", 1, Buy, nil},
		{"empty id", "  ", 1, Buy, ErrMissingAsset},
		{"zero qty", "TCS", 0, Buy, ErrInvalidQuantity},
		{"negative qty", "TCS", -3, Sell, ErrInvalidQuantity},
		{"bad action", "TCS", 1, Action("hold"), ErrInvalidAction},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := NewTradeOrder(tt.id, tt.qty, tt.action)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if err == nil && o.AssetID() != "TCS" {
				t.Errorf("expected normalized id TCS, got %s", o.AssetID())
			}
		})
	}
}

func TestParseAction(t *testing.T) {
	if a, err := ParseAction(" BUY "); err != nil || a != Buy {
		t.Errorf("expected Buy, got %v (%v)", a, err)
	}
	if a, err := ParseAction("Sell"); err != nil || a != Sell {
		t.Errorf("expected Sell, got %v (%v)", a, err)
	}
	if _, err := ParseAction("short"); !errors.Is(err, ErrInvalidAction) {
		t.Errorf("expected ErrInvalidAction, got %v", err)
	}
}

func TestTrade_FirstBuy(t *testing.T) {
	svc, _ := newTestService(t, "100000", stock("RELIANCE", "2850.55", 0, "0"))

	res := svc.Trade(context.Background(), mustOrder(t, "RELIANCE", 10, Buy))
	if !res.Accepted {
		t.Fatalf("expected accepted trade, got %+v", res)
	}
	if !res.Cash.Equal(d("71494.5")) {
		t.Errorf("expected cash 71494.5, got %s", res.Cash)
	}
	if res.Position.Quantity != 10 {
		t.Errorf("expected quantity 10, got %d", res.Position.Quantity)
	}
	if !res.Position.AveragePrice.Equal(d("2850.55")) {
		t.Errorf("expected average 2850.55, got %s", res.Position.AveragePrice)
	}
	if !res.Amount.Equal(d("28505.5")) {
		t.Errorf("expected cost 28505.5, got %s", res.Amount)
	}
}

func TestTrade_RepeatedBuysAverage(t *testing.T) {
	svc, _ := newTestService(t, "100000", stock("TCS", "100", 0, "0"))
	ctx := context.Background()

	svc.Trade(ctx, mustOrder(t, "TCS", 10, Buy))
	svc.UpdatePrices(ctx, map[string]decimal.Decimal{"TCS": d("200")})
	res := svc.Trade(ctx, mustOrder(t, "TCS", 30, Buy))

	// (10*100 + 30*200) / 40
	if !res.Position.AveragePrice.Equal(d("175")) {
		t.Errorf("expected weighted average 175, got %s", res.Position.AveragePrice)
	}
	if !res.Cash.Equal(d("93000")) {
		t.Errorf("expected cash 93000, got %s", res.Cash)
	}
}

func TestTrade_BuyOnExistingPosition(t *testing.T) {
	svc, _ := newTestService(t, "100000", stock("RELIANCE", "2850.55", 10, "2800"))

	res := svc.Trade(context.Background(), mustOrder(t, "RELIANCE", 10, Buy))
	// (2800*10 + 28505.5) / 20
	if !res.Position.AveragePrice.Equal(d("2825.275")) {
		t.Errorf("expected 2825.275, got %s", res.Position.AveragePrice)
	}
}

func TestTrade_PartialSellKeepsAverage(t *testing.T) {
	svc, _ := newTestService(t, "1000", stock("TCS", "3855.20", 15, "3800"))

	res := svc.Trade(context.Background(), mustOrder(t, "TCS", 5, Sell))
	if !res.Accepted {
		t.Fatalf("expected accepted sell, got %+v", res)
	}
	if res.Position.Quantity != 10 {
		t.Errorf("expected quantity 10, got %d", res.Position.Quantity)
	}
	if !res.Position.AveragePrice.Equal(d("3800")) {
		t.Errorf("partial sell changed average to %s", res.Position.AveragePrice)
	}
	if !res.Cash.Equal(d("20276")) {
		t.Errorf("expected cash 1000 + 5*3855.20 = 20276, got %s", res.Cash)
	}
}

func TestTrade_FullSellResetsAverage(t *testing.T) {
	svc, _ := newTestService(t, "0", stock("HDFCBANK", "1480.75", 20, "1500"))

	res := svc.Trade(context.Background(), mustOrder(t, "HDFCBANK", 20, Sell))
	if res.Position.Quantity != 0 {
		t.Errorf("expected quantity 0, got %d", res.Position.Quantity)
	}
	if !res.Position.AveragePrice.IsZero() {
		t.Errorf("expected average reset to 0, got %s", res.Position.AveragePrice)
	}
	// fully sold positions stay tracked
	if !svc.HasAsset("HDFCBANK") {
		t.Error("fully sold position should remain tracked")
	}
	if len(svc.Held()) != 0 {
		t.Errorf("expected no held positions, got %d", len(svc.Held()))
	}
}

func TestTrade_OversellRejected(t *testing.T) {
	svc, _ := newTestService(t, "500", stock("INFY", "1550", 3, "1500"))
	before := svc.Snapshot()

	res := svc.Trade(context.Background(), mustOrder(t, "INFY", 5, Sell))
	if res.Accepted {
		t.Fatal("expected rejection")
	}
	if res.Reason != ReasonInsufficientQuantity {
		t.Errorf("expected insufficient_quantity, got %s", res.Reason)
	}
	if res.Message == "" {
		t.Error("expected a user-facing message")
	}
	after := svc.Snapshot()
	if after.Positions[0].Quantity != 3 || !after.Cash.Equal(before.Cash) {
		t.Errorf("rejected sell mutated state: %+v", after)
	}
}

func TestTrade_InsufficientFundsRejected(t *testing.T) {
	svc, store := newTestService(t, "1000", stock("TCS", "3855.20", 0, "0"))

	res := svc.Trade(context.Background(), mustOrder(t, "TCS", 1, Buy))
	if res.Accepted || res.Reason != ReasonInsufficientFunds {
		t.Fatalf("expected insufficient_funds rejection, got %+v", res)
	}
	if !svc.Cash().Equal(d("1000")) {
		t.Errorf("cash changed on rejection: %s", svc.Cash())
	}
	if _, err := store.LoadPortfolio(context.Background(), "u1"); !errors.Is(err, interfaces.ErrNotFound) {
		t.Error("rejected trade should not persist")
	}
}

func TestTrade_ExactCashAccepted(t *testing.T) {
	svc, _ := newTestService(t, "300", stock("X", "100", 0, "0"))

	res := svc.Trade(context.Background(), mustOrder(t, "X", 3, Buy))
	if !res.Accepted || !res.Cash.IsZero() {
		t.Errorf("expected buy spending all cash to succeed, got %+v", res)
	}
}

func TestTrade_UnknownAsset(t *testing.T) {
	svc, _ := newTestService(t, "1000")

	res := svc.Trade(context.Background(), mustOrder(t, "NOPE", 1, Buy))
	if res.Accepted || res.Reason != ReasonUnknownAsset {
		t.Errorf("expected unknown_asset rejection, got %+v", res)
	}
}

func TestTrade_PersistsSnapshot(t *testing.T) {
	svc, store := newTestService(t, "100000", stock("TCS", "100", 0, "0"))

	svc.Trade(context.Background(), mustOrder(t, "TCS", 2, Buy))

	snap, err := store.LoadPortfolio(context.Background(), "u1")
	if err != nil {
		t.Fatalf("expected persisted snapshot: %v", err)
	}
	if snap.Positions[0].Quantity != 2 || !snap.Cash.Equal(d("99800")) {
		t.Errorf("unexpected persisted snapshot %+v", snap)
	}
}

// gatedStore holds the first SavePortfolio until release is closed.
type gatedStore struct {
	*storage.SnapshotStore
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (g *gatedStore) SavePortfolio(ctx context.Context, uid string, p models.Portfolio) error {
	first := false
	g.once.Do(func() { first = true })
	if first {
		close(g.entered)
		<-g.release
	}
	return g.SnapshotStore.SavePortfolio(ctx, uid, p)
}

func TestTrade_SlowSaveDoesNotLoseLaterTrade(t *testing.T) {
	store := &gatedStore{
		SnapshotStore: storage.NewSnapshotStore(memory.NewKVStorage()),
		entered:       make(chan struct{}),
		release:       make(chan struct{}),
	}
	initial := models.Portfolio{Cash: d("100000"), Positions: []models.Position{stock("TCS", "1000", 0, "0")}}
	svc := NewService("u1", initial, store, common.NewSilentLogger())
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		svc.Trade(ctx, mustOrder(t, "TCS", 1, Buy))
	}()
	<-store.entered
	go func() {
		defer wg.Done()
		svc.Trade(ctx, mustOrder(t, "TCS", 2, Buy))
	}()
	time.Sleep(20 * time.Millisecond)
	close(store.release)
	wg.Wait()

	saved, err := store.LoadPortfolio(ctx, "u1")
	if err != nil {
		t.Fatalf("LoadPortfolio: %v", err)
	}
	if saved.Positions[0].Quantity != 3 || !saved.Cash.Equal(d("97000")) {
		t.Errorf("expected saved qty 3 cash 97000, got qty %d cash %s", saved.Positions[0].Quantity, saved.Cash)
	}
	if pos, _ := svc.Position("TCS"); pos.Quantity != 3 {
		t.Errorf("expected in-memory qty 3, got %d", pos.Quantity)
	}
}

func TestTrade_CashConservation(t *testing.T) {
	svc, _ := newTestService(t, "50000", stock("A", "123.45", 0, "0"), stock("B", "999.99", 0, "0"))
	ctx := context.Background()

	orders := []struct {
		id  string
		qty int64
		a   Action
	}{
		{"A", 10, Buy}, {"B", 20, Buy}, {"A", 4, Sell}, {"B", 100, Buy}, {"A", 50, Sell}, {"B", 20, Sell},
	}
	for _, o := range orders {
		before := svc.Cash()
		pos, _ := svc.Position(o.id)
		res := svc.Trade(ctx, mustOrder(t, o.id, o.qty, o.a))
		delta := pos.CurrentPrice.Mul(decimal.NewFromInt(o.qty))
		switch {
		case !res.Accepted:
			if !svc.Cash().Equal(before) {
				t.Errorf("%v: rejected trade moved cash", o)
			}
		case o.a == Buy:
			if !svc.Cash().Equal(before.Sub(delta)) {
				t.Errorf("%v: expected cash %s, got %s", o, before.Sub(delta), svc.Cash())
			}
		default:
			if !svc.Cash().Equal(before.Add(delta)) {
				t.Errorf("%v: expected cash %s, got %s", o, before.Add(delta), svc.Cash())
			}
		}
		if svc.Cash().IsNegative() {
			t.Fatalf("cash went negative: %s", svc.Cash())
		}
	}
}

func TestTrade_ConcurrentBuysNeverOverspend(t *testing.T) {
	svc, _ := newTestService(t, "1000", stock("X", "10", 0, "0"))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o, _ := NewTradeOrder("X", 1, Buy)
			svc.Trade(ctx, o)
		}()
	}
	wg.Wait()

	pos, _ := svc.Position("X")
	if pos.Quantity != 100 {
		t.Errorf("expected exactly 100 units bought, got %d", pos.Quantity)
	}
	if !svc.Cash().IsZero() {
		t.Errorf("expected cash 0, got %s", svc.Cash())
	}
}

func TestAddAsset_Idempotent(t *testing.T) {
	svc, _ := newTestService(t, "1000")
	ctx := context.Background()

	asset := NewAsset{Ticker: "infy", Name: "Infosys", Type: models.AssetStock, Sector: "IT", Price: d("1550")}
	pos, added, err := svc.AddAsset(ctx, asset)
	if err != nil || !added {
		t.Fatalf("expected asset added, got added=%v err=%v", added, err)
	}
	if pos.ID != "INFY" || pos.Quantity != 0 {
		t.Errorf("unexpected position %+v", pos)
	}

	_, added, err = svc.AddAsset(ctx, asset)
	if err != nil || added {
		t.Errorf("second add should be a no-op, got added=%v err=%v", added, err)
	}
	if len(svc.Tracked()) != 1 {
		t.Errorf("expected 1 tracked position, got %d", len(svc.Tracked()))
	}
}

func TestAddAsset_Validation(t *testing.T) {
	svc, _ := newTestService(t, "1000")

	_, _, err := svc.AddAsset(context.Background(), NewAsset{Ticker: "X", Type: "Bond"})
	if !errors.Is(err, ErrInvalidType) {
		t.Errorf("expected ErrInvalidType, got %v", err)
	}
	_, _, err = svc.AddAsset(context.Background(), NewAsset{Type: models.AssetStock})
	if !errors.Is(err, ErrMissingAsset) {
		t.Errorf("expected ErrMissingAsset, got %v", err)
	}
}

func TestAddCash(t *testing.T) {
	svc, _ := newTestService(t, "100")

	if _, err := NewDeposit(decimal.Zero); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount for zero, got %v", err)
	}
	if _, err := NewDeposit(d("-1")); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount for negative, got %v", err)
	}

	dep, _ := NewDeposit(d("250.50"))
	if got := svc.AddCash(context.Background(), dep); !got.Equal(d("350.5")) {
		t.Errorf("expected 350.5, got %s", got)
	}
	if c := svc.Snapshot().Contributed; !c.Equal(d("350.5")) {
		t.Errorf("expected contributed 350.5, got %s", c)
	}
}

func TestAddCash_CapitalIncludesSeededHoldings(t *testing.T) {
	svc, _ := newTestService(t, "1000", stock("TCS", "4000", 2, "3800"))

	dep, _ := NewDeposit(d("500"))
	svc.AddCash(context.Background(), dep)

	// 1000 cash + 7600 cost basis + 500 deposit
	if c := svc.Snapshot().Capital(); !c.Equal(d("9100")) {
		t.Errorf("expected capital 9100, got %s", c)
	}
}

func TestMaxBuyable(t *testing.T) {
	svc, _ := newTestService(t, "10000", stock("TCS", "3855.20", 0, "0"), stock("FREE", "0", 0, "0"))

	if got := svc.MaxBuyable("TCS"); got != 2 {
		t.Errorf("expected 2, got %d", got)
	}
	if got := svc.MaxBuyable("FREE"); got != 0 {
		t.Errorf("expected 0 for zero price, got %d", got)
	}
	if got := svc.MaxBuyable("NOPE"); got != 0 {
		t.Errorf("expected 0 for unknown asset, got %d", got)
	}
}

type fakeQuotes map[string]string

func (f fakeQuotes) Quote(_ context.Context, ticker string) (decimal.Decimal, error) {
	if p, ok := f[ticker]; ok {
		return decimal.RequireFromString(p), nil
	}
	return decimal.Zero, fmt.Errorf("no quote for %s", ticker)
}

func TestRefreshPrices_SkipsFailures(t *testing.T) {
	svc, _ := newTestService(t, "0", stock("TCS", "3855.20", 1, "3800"), stock("INFY", "1550", 1, "1500"))

	n := svc.RefreshPrices(context.Background(), fakeQuotes{"TCS": "4000"})
	if n != 1 {
		t.Errorf("expected 1 updated price, got %d", n)
	}
	tcs, _ := svc.Position("TCS")
	infy, _ := svc.Position("INFY")
	if !tcs.CurrentPrice.Equal(d("4000")) || !infy.CurrentPrice.Equal(d("1550")) {
		t.Errorf("unexpected prices TCS=%s INFY=%s", tcs.CurrentPrice, infy.CurrentPrice)
	}
}

func TestOpen_FallsBackToSeed(t *testing.T) {
	kv := memory.NewKVStorage()
	store := storage.NewSnapshotStore(kv)
	seed := func() models.Portfolio { return models.Portfolio{Cash: d("100000")} }
	ctx := context.Background()

	svc := Open(ctx, "u1", store, seed, common.NewSilentLogger())
	if !svc.Cash().Equal(d("100000")) {
		t.Errorf("expected seed cash, got %s", svc.Cash())
	}

	kv.Set(ctx, "portfolio:u2", "garbage")
	svc = Open(ctx, "u2", store, seed, common.NewSilentLogger())
	if !svc.Cash().Equal(d("100000")) {
		t.Errorf("expected seed cash for corrupt snapshot, got %s", svc.Cash())
	}

	store.SavePortfolio(ctx, "u3", models.Portfolio{Cash: d("42")})
	svc = Open(ctx, "u3", store, seed, common.NewSilentLogger())
	if !svc.Cash().Equal(d("42")) {
		t.Errorf("expected stored cash 42, got %s", svc.Cash())
	}
}
