package schema

import (
	"time"

	"github.com/hamba/avro/v2"
)

const OrderPlacedSchemaTextV1 = `{
	"type": "record",
	"namespace": "pos",
	"name": "order_placed",
	"fields": [
		{"name": "order_id", "type": "string"},
		{"name": "shop_name", "type": "string"},
		{"name": "shop_number", "type": "string"},
		{"name": "items", "type": {
			"type": "array",
			"items": {
				"type": "record",
				"name": "order_item",
				"fields": [
					{"name": "product_id", "type": "string"},
					{"name": "name", "type": "string"},
					{"name": "qty", "type": "long"},
					{"name": "price", "type": "string"}
				]
			}
		}},
		{"name": "total_amount", "type": "string"},
		{"name": "payment_mode", "type": "string"},
		{"name": "placed_at", "type": {"type": "long", "logicalType": "timestamp-millis"}},
		{"name": "message", "type": "string"}
	]
}`

type (
	// OrderPlacedV1 is the event value of a placed order. Money amounts
	// are decimal strings.
	OrderPlacedV1 struct {
		OrderID     string              `avro:"order_id"`
		ShopName    string              `avro:"shop_name"`
		ShopNumber  string              `avro:"shop_number"`
		Items       []OrderPlacedItemV1 `avro:"items"`
		TotalAmount string              `avro:"total_amount"`
		PaymentMode string              `avro:"payment_mode"`
		PlacedAt    time.Time           `avro:"placed_at"`
		Message     string              `avro:"message"`
	}

	OrderPlacedItemV1 struct {
		ProductID string `avro:"product_id"`
		Name      string `avro:"name"`
		Qty       int64  `avro:"qty"`
		Price     string `avro:"price"`
	}
)

func OrderPlacedV1Avro() avro.Schema {
	return avro.MustParse(OrderPlacedSchemaTextV1)
}
