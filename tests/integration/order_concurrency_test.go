package integration

import (
	"context"
	"sort"
	"sync"
	"testing"

	tradeapp "github.com/menuhub/backend/internal/application/trade"
	"github.com/menuhub/backend/internal/infrastructure/persistence"
	"github.com/menuhub/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestNextNumber_ConcurrentCallersGetDistinctNumbers(t *testing.T) {
	s := newStack(t, testutil.FixedTime)
	repo := persistence.NewGormOrderRepository(s.db.DB)

	const callers = 25
	var (
		mu      sync.Mutex
		numbers []int64
	)
	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < callers; i++ {
		g.Go(func() error {
			n, err := repo.NextNumber(ctx)
			if err != nil {
				return err
			}
			mu.Lock()
			numbers = append(numbers, n)
			mu.Unlock()
			return nil
		})
	}
	require.NoError(t, g.Wait())

	sort.Slice(numbers, func(i, j int) bool { return numbers[i] < numbers[j] })
	for i, n := range numbers {
		assert.Equal(t, int64(i+1), n)
	}
}

func TestOrderCreate_ConcurrentOrdersCountEveryUnit(t *testing.T) {
	s := newStack(t, testutil.FixedTime)
	menu := s.createCategory(t, "Bakery")
	croissant := s.createProduct(t, menu.ID, "Croissant", "2.40")

	const orders = 20
	receipts := make([]*tradeapp.OrderResult, orders)
	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < orders; i++ {
		g.Go(func() error {
			result, err := s.orders.Create(ctx, tradeapp.CreateOrderRequest{
				Products: []tradeapp.OrderItemRequest{{Product: croissant.ID, Quantity: 2}},
			})
			receipts[i] = result
			return err
		})
	}
	require.NoError(t, g.Wait())

	seen := make(map[int64]bool, orders)
	for _, r := range receipts {
		require.NotNil(t, r)
		assert.False(t, seen[r.Receipt.OrderNumber], "duplicate order number %d", r.Receipt.OrderNumber)
		seen[r.Receipt.OrderNumber] = true
	}
	assert.Len(t, seen, orders)
	assert.Equal(t, int64(2*orders), s.product(t, croissant.ID).Sales)

	count, err := s.reports.OrdersTodayCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(orders), count)
}
