package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/niksmo/shop-pos/internal/core/domain"
	"github.com/niksmo/shop-pos/pkg/schema"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"
)

type MockProducerClient struct {
	mock.Mock
}

func (m *MockProducerClient) ProduceSync(
	ctx context.Context, rs ...*kgo.Record,
) kgo.ProduceResults {
	args := m.Called(ctx, rs)
	return args.Get(0).(kgo.ProduceResults)
}

func (m *MockProducerClient) Close() {
	m.Called()
}

type MockSerde struct {
	mock.Mock
}

func (m *MockSerde) Encode(v any) ([]byte, error) {
	args := m.Called(v)
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockSerde) Decode(b []byte, v any) error {
	args := m.Called(b, v)
	return args.Error(0)
}

func testOrder() domain.Order {
	return domain.Order{
		ID:         "o1",
		ShopName:   "Sharma Stores",
		ShopNumber: "9876543210",
		Items: []domain.OrderItem{
			{ProductID: "p1", Name: "Coke", Qty: 3, Price: decimal.RequireFromString("20.5")},
		},
		TotalAmount: decimal.RequireFromString("61.5"),
		PaymentMode: domain.PaymentCash,
		Date:        time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC),
	}
}

func TestOrderToSchemaV1(t *testing.T) {
	s := orderToSchemaV1(testOrder(), "summary")

	assert.Equal(t, "o1", s.OrderID)
	assert.Equal(t, "61.5", s.TotalAmount)
	assert.Equal(t, "Cash", s.PaymentMode)
	assert.Equal(t, "summary", s.Message)
	require.Len(t, s.Items, 1)
	assert.Equal(t, schema.OrderPlacedItemV1{
		ProductID: "p1", Name: "Coke", Qty: 3, Price: "20.5",
	}, s.Items[0])
}

func TestOrdersProducer(t *testing.T) {
	newProducer := func(cl ProducerClient, enc Encoder) OrdersProducer {
		return OrdersProducer{
			producer: producer{opPrefix: "OrdersProducer", cl: cl},
			encoder:  enc,
			opPrefix: "OrdersProducer",
		}
	}

	t.Run("Produce", func(t *testing.T) {
		cl := new(MockProducerClient)
		serde := new(MockSerde)
		serde.On("Encode", mock.AnythingOfType("schema.OrderPlacedV1")).
			Return([]byte("encoded"), nil)
		cl.On("ProduceSync", mock.Anything, mock.MatchedBy(func(rs []*kgo.Record) bool {
			return len(rs) == 1 &&
				string(rs[0].Key) == "o1" &&
				string(rs[0].Value) == "encoded"
		})).Return(kgo.ProduceResults{{}})

		p := newProducer(cl, serde)
		require.NoError(t, p.NotifyOrder(t.Context(), testOrder(), "summary"))
		cl.AssertExpectations(t)
	})

	t.Run("BrokerFailure", func(t *testing.T) {
		brokerErr := errors.New("leader not available")
		cl := new(MockProducerClient)
		serde := new(MockSerde)
		serde.On("Encode", mock.Anything).Return([]byte("encoded"), nil)
		cl.On("ProduceSync", mock.Anything, mock.Anything).
			Return(kgo.ProduceResults{{Err: brokerErr}})

		p := newProducer(cl, serde)
		err := p.NotifyOrder(t.Context(), testOrder(), "summary")
		require.ErrorIs(t, err, brokerErr)
	})

	t.Run("EncodeFailure", func(t *testing.T) {
		cl := new(MockProducerClient)
		serde := new(MockSerde)
		serde.On("Encode", mock.Anything).Return([]byte(nil), errors.New("bad schema"))

		p := newProducer(cl, serde)
		require.Error(t, p.NotifyOrder(t.Context(), testOrder(), "summary"))
		cl.AssertNotCalled(t, "ProduceSync", mock.Anything, mock.Anything)
	})

	t.Run("TooFewOpts", func(t *testing.T) {
		assert.Panics(t, func() {
			_, _ = NewOrdersProducer(ProducerEncoderOpt(new(MockSerde)))
		})
	})
}

func TestSoldQtyCodec(t *testing.T) {
	var c soldQtyCodec

	data, err := c.Encode(soldQty(42))
	require.NoError(t, err)
	assert.Equal(t, "42", string(data))

	v, err := c.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, soldQty(42), v)

	_, err = c.Encode(42)
	require.ErrorIs(t, err, ErrInvalidValueType)

	_, err = c.Decode([]byte("x"))
	require.Error(t, err)
}

func TestOrderPlacedCodec(t *testing.T) {
	serde := new(MockSerde)
	c := newOrderPlacedCodec(serde)

	_, err := c.Encode("not an order")
	require.ErrorIs(t, err, ErrInvalidValueType)

	serde.On("Decode", []byte("data"), mock.AnythingOfType("*schema.OrderPlacedV1")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*schema.OrderPlacedV1).OrderID = "o1"
		}).Return(nil)

	v, err := c.Decode([]byte("data"))
	require.NoError(t, err)
	assert.Equal(t, "o1", v.(schema.OrderPlacedV1).OrderID)
}
