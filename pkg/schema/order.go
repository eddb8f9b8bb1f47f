package schema

const OrderPlacedSchemaTextV1 = `{
	"type": "record",
	"namespace": "storefront",
	"name": "order_placed",
	"fields": [
		{"name": "order_id", "type": "string"},
		{"name": "user_id", "type": "string"},
		{"name": "status", "type": "string"},
		{"name": "total", "type": "string"},
		{"name": "created_at", "type": "long"},
		{"name": "lines", "type": {
			"type": "array",
			"items": {
				"type": "record",
				"name": "order_line",
				"fields": [
					{"name": "product_id", "type": "string"},
					{"name": "quantity", "type": "int"},
					{"name": "unit_price", "type": "string"}
				]
			}
		}}
	]
}`

type (
	// An OrderPlacedV1 mirrors a placed order. Money fields
	// travel as decimal strings, CreatedAt as unix millis.
	OrderPlacedV1 struct {
		OrderID   string        `avro:"order_id"`
		UserID    string        `avro:"user_id"`
		Status    string        `avro:"status"`
		Total     string        `avro:"total"`
		CreatedAt int64         `avro:"created_at"`
		Lines     []OrderLineV1 `avro:"lines"`
	}

	OrderLineV1 struct {
		ProductID string `avro:"product_id"`
		Quantity  int    `avro:"quantity"`
		UnitPrice string `avro:"unit_price"`
	}
)
