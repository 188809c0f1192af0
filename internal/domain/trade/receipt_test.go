package trade

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReceiptNumber(t *testing.T) {
	id := uuid.MustParse("3f2a9c1e-0b7d-4e55-9a61-12ab34cdef56")
	assert.Equal(t, "RCP-CDEF56", ReceiptNumber(id))
}

func TestBuildReceipt(t *testing.T) {
	plan, _ := testPlan(t)
	order, err := NewOrder(42, plan, OrderDetails{CustomerName: "Ana", Phone: "123"}, testNow)
	require.NoError(t, err)

	first := BuildReceipt(order, plan, testNow)
	second := BuildReceipt(order, plan, testNow)
	assert.Equal(t, first, second)

	assert.Equal(t, ReceiptNumber(order.ID), first.ReceiptNumber)
	assert.Equal(t, order.ID, first.OrderID)
	assert.Equal(t, int64(42), first.OrderNumber)
	assert.Equal(t, "Ana", first.CustomerName)
	assert.True(t, first.Subtotal.Equal(order.TotalAmount))
	assert.True(t, first.Total.Equal(order.TotalAmount))
	require.Len(t, first.Items, 1)

	first.Items[0].Name = "changed"
	assert.Equal(t, "Soup", plan.Lines[0].Name)
}
