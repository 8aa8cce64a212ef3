package models

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/liorkima5-coder/SmartStock/utils"
	"github.com/shopspring/decimal"
)

// stockLedger models the database's guarded decrement: one atomic
// compare-and-decrement per line, whole carts applied under a lock the way
// the checkout transaction holds its row locks. Intentionally DB-free so
// the oversell invariant is checked on every run, not only when docker is
// available.
type stockLedger struct {
	mu    sync.Mutex
	stock map[int]int
}

func newStockLedger(initial map[int]int) *stockLedger {
	stock := make(map[int]int, len(initial))
	for id, qty := range initial {
		stock[id] = qty
	}
	return &stockLedger{stock: stock}
}

// applyCart mirrors CreateOrder's critical section: check every line
// against current stock, then decrement all lines or none.
func (l *stockLedger) applyCart(items []NewOrderItem) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, item := range items {
		onHand, ok := l.stock[item.ProductId]
		if !ok {
			return utils.NewNotFound(fmt.Sprintf("product %d not found", item.ProductId))
		}
		if item.Quantity > onHand {
			return utils.NewInsufficientStock(fmt.Sprintf("insufficient stock for product %d", item.ProductId))
		}
	}
	for _, item := range items {
		l.stock[item.ProductId] -= item.Quantity
	}
	return nil
}

func TestConcurrentCheckoutNeverOversells(t *testing.T) {
	const (
		productCount = 8
		workers      = 16
		cartsPerWkr  = 50
		initialStock = 40
	)

	initial := make(map[int]int, productCount)
	for id := 1; id <= productCount; id++ {
		initial[id] = initialStock
	}
	ledger := newStockLedger(initial)

	type outcome struct {
		items []NewOrderItem
		err   error
	}
	results := make(chan outcome, workers*cartsPerWkr)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for i := 0; i < cartsPerWkr; i++ {
				cart := randomCart(rng, productCount)
				results <- outcome{items: cart, err: ledger.applyCart(cart)}
			}
		}(int64(w + 1))
	}
	wg.Wait()
	close(results)

	sold := make(map[int]int, productCount)
	for res := range results {
		if res.err == nil {
			for _, item := range res.items {
				sold[item.ProductId] += item.Quantity
			}
			continue
		}
		kind := utils.KindOf(res.err)
		if kind != utils.ErrorKindInsufficientStock {
			t.Fatalf("unexpected failure kind %s: %v", kind, res.err)
		}
	}

	// Conservation: every unit missing from the shelf belongs to exactly
	// one accepted cart, and no product ever went negative.
	for id := 1; id <= productCount; id++ {
		remaining := ledger.stock[id]
		if remaining < 0 {
			t.Fatalf("product %d oversold: stock %d", id, remaining)
		}
		if remaining+sold[id] != initialStock {
			t.Fatalf("product %d stock leak: remaining %d + sold %d != %d", id, remaining, sold[id], initialStock)
		}
	}
}

func TestRejectedCartLeavesStockUntouched(t *testing.T) {
	ledger := newStockLedger(map[int]int{1: 10, 2: 3})

	// Line 1 is satisfiable, line 2 is not; the whole cart must fail with
	// nothing decremented.
	err := ledger.applyCart([]NewOrderItem{
		{ProductId: 1, Quantity: 5},
		{ProductId: 2, Quantity: 4},
	})
	if err == nil {
		t.Fatal("expected insufficient stock error")
	}
	if ledger.stock[1] != 10 || ledger.stock[2] != 3 {
		t.Fatalf("partial decrement applied: %v", ledger.stock)
	}
}

func TestCartTotalIndependentOfLineOrder(t *testing.T) {
	products := testProducts()
	forward := []NewOrderItem{{ProductId: 1, Quantity: 2}, {ProductId: 2, Quantity: 3}}
	reverse := []NewOrderItem{{ProductId: 2, Quantity: 3}, {ProductId: 1, Quantity: 2}}

	_, totalFwd, err := buildOrderLines(products, forward)
	if err != nil {
		t.Fatalf("forward cart: %v", err)
	}
	_, totalRev, err := buildOrderLines(products, reverse)
	if err != nil {
		t.Fatalf("reverse cart: %v", err)
	}
	if !totalFwd.Equal(totalRev) {
		t.Fatalf("cart total depends on line order: %s vs %s", totalFwd, totalRev)
	}
	if !totalFwd.Equal(decimal.RequireFromString("160")) {
		t.Fatalf("expected total 160, got %s", totalFwd)
	}
}

func randomCart(rng *rand.Rand, productCount int) []NewOrderItem {
	size := 1 + rng.Intn(3)
	seen := make(map[int]bool, size)
	items := make([]NewOrderItem, 0, size)
	for len(items) < size {
		id := 1 + rng.Intn(productCount)
		if seen[id] {
			continue
		}
		seen[id] = true
		items = append(items, NewOrderItem{ProductId: id, Quantity: 1 + rng.Intn(4)})
	}
	return items
}
