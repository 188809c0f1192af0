package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/catalog"
	"github.com/menuhub/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// Snapshot converts a catalog product into the read-only view orders are priced against
func Snapshot(p *catalog.Product) trade.ProductSnapshot {
	return trade.ProductSnapshot{
		ID:    p.ID,
		Name:  p.Name,
		Price: p.Price,
		Type:  string(p.Type),
		Pic:   p.Pic,
	}
}

// LoadProductCatalog fetches the products among ids in one query.
// Products that no longer exist are simply absent from the result.
func LoadProductCatalog(ctx context.Context, repo catalog.ProductRepository, ids []uuid.UUID) (trade.ProductCatalog, error) {
	if len(ids) == 0 {
		return trade.ProductCatalog{}, nil
	}
	products, err := repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	snapshots := make([]trade.ProductSnapshot, len(products))
	for i := range products {
		snapshots[i] = Snapshot(&products[i])
	}
	return trade.NewProductCatalog(snapshots), nil
}

// receiptPlan prices the stored items of an order for display. Unlike
// ComputeOrderTotal it tolerates deleted products, which show with empty
// fields and a zero line total; the order's stored total is left as is.
func receiptPlan(order *trade.Order, resolver trade.PriceResolver) *trade.OrderPlan {
	plan := &trade.OrderPlan{
		Lines: make([]trade.PricedLine, len(order.Items)),
		Total: order.TotalAmount,
	}
	for i, item := range order.Items {
		line := trade.PricedLine{
			ProductID: item.ProductID,
			ItemType:  item.Type,
			Quantity:  item.Quantity,
			LineTotal: decimal.Zero,
		}
		if p, ok := resolver.Resolve(item.ProductID); ok {
			line.Name = p.Name
			line.Price = p.Price
			line.ProductType = p.Type
			line.LineTotal = p.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		}
		plan.Lines[i] = line
	}
	return plan
}
