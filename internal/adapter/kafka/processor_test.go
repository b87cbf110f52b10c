package kafka

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/hamba/avro/v2"
	"github.com/lovoo/goka"
	"github.com/lovoo/goka/tester"
	"github.com/niksmo/shop-pos/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// avroSerde encodes orders without the registry header.
type avroSerde struct {
	s avro.Schema
}

func (a avroSerde) Encode(v any) ([]byte, error) {
	return avro.Marshal(a.s, v)
}

func (a avroSerde) Decode(data []byte, v any) error {
	return avro.Unmarshal(a.s, data, v)
}

func TestSalesTally(t *testing.T) {
	const (
		ordersTopic = "orders-placed"
		group       = "sales-tally"
	)

	tt := tester.New(t)
	serde := avroSerde{schema.OrderPlacedV1Avro()}

	proc, err := NewSalesTallyProc(
		nil, ordersTopic, group, serde, goka.WithTester(tt),
	)
	require.NoError(t, err)

	view, err := NewSalesTallyView(nil, group, goka.WithViewTester(tt))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	t.Cleanup(cancel)

	go view.Run(ctx)

	var wg sync.WaitGroup
	wg.Add(1)
	go proc.Run(ctx, cancel, &wg)
	wg.Wait()

	tt.Consume(ordersTopic, "o1", schema.OrderPlacedV1{
		OrderID: "o1",
		Items: []schema.OrderPlacedItemV1{
			{ProductID: "p1", Name: "Coke", Qty: 3, Price: "20"},
			{ProductID: "p2", Name: "Water", Qty: 2, Price: "10"},
		},
		TotalAmount: "80",
		PaymentMode: "Cash",
		PlacedAt:    time.UnixMilli(1772361000000).UTC(),
	})
	tt.Consume(ordersTopic, "o2", schema.OrderPlacedV1{
		OrderID: "o2",
		Items: []schema.OrderPlacedItemV1{
			{ProductID: "p1", Name: "Coke", Qty: 2, Price: "20"},
		},
		TotalAmount: "40",
		PaymentMode: "UPI",
		PlacedAt:    time.UnixMilli(1772361060000).UTC(),
	})

	table := goka.GroupTable(goka.Group(group))
	assert.Equal(t, soldQty(5), tt.TableValue(table, "Coke"))
	assert.Equal(t, soldQty(2), tt.TableValue(table, "Water"))
	assert.Nil(t, tt.TableValue(table, "Juice"))

	var sold map[string]int
	require.Eventually(t, func() bool {
		sold, err = view.SoldQty(t.Context())
		return err == nil && len(sold) == 2
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, map[string]int{"Coke": 5, "Water": 2}, sold)
}
