package kafka

import (
	"context"
	"log/slog"

	"github.com/shopcore/storefront/internal/core/domain"
	"github.com/shopcore/storefront/internal/core/port"
	"github.com/shopcore/storefront/pkg/schema"
	"github.com/twmb/franz-go/pkg/kgo"
)

var _ port.OrderEventsProducer = (*OrderPlacedProducer)(nil)

// An OrderPlacedProducer publishes placed orders for downstream
// consumers, keyed by user id.
type OrderPlacedProducer struct {
	cl       ProducerClient
	encoder  Encoder
	opPrefix string
}

func NewOrderPlacedProducer(
	opts ...ProducerOpt,
) (OrderPlacedProducer, error) {
	const op = "NewOrderPlacedProducer"

	if len(opts) != 2 {
		panic(opErr(ErrTooFewOpts, op)) // develop mistake
	}

	var options producerOpts
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			return OrderPlacedProducer{}, opErr(err, op)
		}
	}

	return OrderPlacedProducer{
		cl:       options.cl,
		encoder:  options.encoder,
		opPrefix: "OrderPlacedProducer",
	}, nil
}

func (p OrderPlacedProducer) Close() {
	const op = "close"
	log := slog.With("op", makeOp(p.opPrefix, op))
	log.Info("closing producer...")
	p.cl.Close()
	log.Info("producer is closed")
}

func (p OrderPlacedProducer) ProduceOrderPlaced(
	ctx context.Context, o domain.Order,
) error {
	const op = "ProduceOrderPlaced"

	if err := ctx.Err(); err != nil {
		return opErr(err, p.opPrefix, op)
	}

	r, err := p.createRecord(o)
	if err != nil {
		return opErr(err, p.opPrefix, op)
	}

	res := p.cl.ProduceSync(ctx, &r)
	if err := res.FirstErr(); err != nil {
		return opErr(err, p.opPrefix, op)
	}

	return nil
}

func (p OrderPlacedProducer) createRecord(
	o domain.Order,
) (kgo.Record, error) {
	const op = "createRecord"

	s := p.toSchema(o)
	b, err := p.encoder.Encode(s)
	if err != nil {
		return kgo.Record{}, opErr(err, p.opPrefix, op)
	}
	msgKey := []byte(s.UserID)
	return kgo.Record{Key: msgKey, Value: b}, nil
}

func (OrderPlacedProducer) toSchema(o domain.Order) schema.OrderPlacedV1 {
	return orderPlacedToSchemaV1(o)
}

func orderPlacedToSchemaV1(o domain.Order) (s schema.OrderPlacedV1) {
	s.OrderID = o.OrderID
	s.UserID = o.UserID
	s.Status = o.Status
	s.Total = o.Total.String()
	s.CreatedAt = o.CreatedAt.UnixMilli()

	s.Lines = make([]schema.OrderLineV1, len(o.Lines))
	for i, l := range o.Lines {
		s.Lines[i].ProductID = l.ProductID
		s.Lines[i].Quantity = l.Quantity
		s.Lines[i].UnitPrice = l.UnitPrice.String()
	}
	return s
}
