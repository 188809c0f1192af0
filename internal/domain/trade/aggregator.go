package trade

import (
	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductSnapshot is the read-only view of a product the aggregator prices against
type ProductSnapshot struct {
	ID    uuid.UUID
	Name  string
	Price decimal.Decimal
	Type  string
	Pic   string
}

// PriceResolver looks up a product by id
type PriceResolver interface {
	Resolve(id uuid.UUID) (ProductSnapshot, bool)
}

// ProductCatalog is a map-backed PriceResolver
type ProductCatalog map[uuid.UUID]ProductSnapshot

// NewProductCatalog indexes snapshots by id
func NewProductCatalog(products []ProductSnapshot) ProductCatalog {
	c := make(ProductCatalog, len(products))
	for _, p := range products {
		c[p.ID] = p
	}
	return c
}

// Resolve implements PriceResolver
func (c ProductCatalog) Resolve(id uuid.UUID) (ProductSnapshot, bool) {
	p, ok := c[id]
	return p, ok
}

// PricedLine is one line item priced at the current product price
type PricedLine struct {
	ProductID   uuid.UUID
	Name        string
	Price       decimal.Decimal
	ProductType string
	ItemType    ItemType
	Quantity    int
	LineTotal   decimal.Decimal
}

// OrderPlan is the priced breakdown of a set of line items
type OrderPlan struct {
	Lines []PricedLine
	Total decimal.Decimal
}

// Items returns the line items the plan was computed from
func (p *OrderPlan) Items() []LineItem {
	items := make([]LineItem, len(p.Lines))
	for i, l := range p.Lines {
		items[i] = LineItem{ProductID: l.ProductID, Quantity: l.Quantity, Type: l.ItemType}
	}
	return items
}

// SalesIncrement is the quantity to add to one product's sales counter
type SalesIncrement struct {
	ProductID uuid.UUID
	Quantity  int64
}

// SalesIncrements sums quantities per product, in first-appearance order
func (p *OrderPlan) SalesIncrements() []SalesIncrement {
	index := make(map[uuid.UUID]int, len(p.Lines))
	var out []SalesIncrement
	for _, l := range p.Lines {
		if i, ok := index[l.ProductID]; ok {
			out[i].Quantity += int64(l.Quantity)
			continue
		}
		index[l.ProductID] = len(out)
		out = append(out, SalesIncrement{ProductID: l.ProductID, Quantity: int64(l.Quantity)})
	}
	return out
}

// ComputeOrderTotal prices every item through resolver. The first item that
// does not resolve fails the whole computation and no plan is returned.
func ComputeOrderTotal(items []LineItem, resolver PriceResolver) (*OrderPlan, error) {
	items, err := NormalizeItems(items)
	if err != nil {
		return nil, err
	}

	plan := &OrderPlan{
		Lines: make([]PricedLine, 0, len(items)),
		Total: decimal.Zero,
	}
	for _, item := range items {
		product, ok := resolver.Resolve(item.ProductID)
		if !ok {
			return nil, shared.NewReferenceNotFoundError("Product", item.ProductID)
		}
		lineTotal := product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		plan.Lines = append(plan.Lines, PricedLine{
			ProductID:   product.ID,
			Name:        product.Name,
			Price:       product.Price,
			ProductType: product.Type,
			ItemType:    item.Type,
			Quantity:    item.Quantity,
			LineTotal:   lineTotal,
		})
		plan.Total = plan.Total.Add(lineTotal)
	}
	return plan, nil
}

// ProductSales is the aggregate quantity sold of one product
type ProductSales struct {
	ProductID uuid.UUID
	Name      string
	Type      string
	Price     decimal.Decimal
	Quantity  int64
}

// SalesSummary aggregates item quantities across a set of orders
type SalesSummary struct {
	Products    []ProductSales
	TotalSales  int64
	TotalOrders int
}

// SummarizeSales groups quantities by product, in first-appearance order.
// Items whose product no longer resolves are counted under their id with empty display fields.
func SummarizeSales(orders []Order, resolver PriceResolver) SalesSummary {
	summary := SalesSummary{
		Products:    []ProductSales{},
		TotalOrders: len(orders),
	}
	index := make(map[uuid.UUID]int)
	for i := range orders {
		for _, item := range orders[i].Items {
			qty := int64(item.Quantity)
			summary.TotalSales += qty
			if j, ok := index[item.ProductID]; ok {
				summary.Products[j].Quantity += qty
				continue
			}
			entry := ProductSales{ProductID: item.ProductID, Quantity: qty}
			if p, ok := resolver.Resolve(item.ProductID); ok {
				entry.Name = p.Name
				entry.Type = p.Type
				entry.Price = p.Price
			}
			index[item.ProductID] = len(summary.Products)
			summary.Products = append(summary.Products, entry)
		}
	}
	return summary
}

// SumRevenue adds up the stored totals of orders
func SumRevenue(orders []Order) decimal.Decimal {
	total := decimal.Zero
	for i := range orders {
		total = total.Add(orders[i].TotalAmount)
	}
	return total
}
