package kafka

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"

	"github.com/lovoo/goka"
	"github.com/shopcore/storefront/pkg/schema"
)

// A processor is used for composition.
//
// Running and closing the underlying [goka.Processor]
type processor struct {
	opPrefix string
	gp       *goka.Processor
}

func (p *processor) run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	const op = "run"
	log := slog.With("op", makeOp(p.opPrefix, op))

	defer wg.Done()

	go p.runProc(ctx, stopFn)

	log.Info("preparing...")
	p.waitForReady(ctx)
	log.Info("running")
}

func (p *processor) runProc(ctx context.Context, stopFn context.CancelFunc) {
	const op = "run"
	log := slog.With("op", makeOp(p.opPrefix, op))

	defer stopFn()

	err := p.gp.Run(ctx)
	if err != nil {
		log.Error("stopped", "err", err)
		return
	}
	log.Info("stopped")
}

func (p *processor) waitForReady(ctx context.Context) {
	const op = "waitForReady"
	log := slog.With("op", makeOp(p.opPrefix, op))

	err := p.gp.WaitForReadyContext(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Error("fall down while preparing", "err", err)
		return
	}
}

func (p *processor) close() {
	const op = "close"
	log := slog.With("op", makeOp(p.opPrefix, op))

	log.Info("closing processor...")
	p.gp.Stop()
	log.Info("processor is closed")
}

// An orderPlacedCodec used for serde [schema.OrderPlacedV1]
type orderPlacedCodec struct {
	serde Serde
}

func newOrderPlacedCodec(s Serde) orderPlacedCodec {
	return orderPlacedCodec{s}
}

func (c orderPlacedCodec) Encode(v any) ([]byte, error) {
	const op = "orderPlacedCodec.Encode"
	if _, ok := v.(schema.OrderPlacedV1); !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return c.serde.Encode(v)
}

func (c orderPlacedCodec) Decode(data []byte) (any, error) {
	const op = "orderPlacedCodec.Decode"
	var s schema.OrderPlacedV1
	err := c.serde.Decode(data, &s)
	if err != nil {
		return nil, opErr(err, op)
	}
	return s, err
}

// A soldUnits is the cumulative units sold for one product.
type soldUnits int64

// A soldUnitsCodec used for serde [soldUnits]
type soldUnitsCodec struct{}

func (soldUnitsCodec) Encode(v any) ([]byte, error) {
	const op = "soldUnitsCodec.Encode"
	n, ok := v.(soldUnits)
	if !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	data := strconv.AppendInt([]byte(nil), int64(n), 10)
	return data, nil
}

func (soldUnitsCodec) Decode(data []byte) (any, error) {
	const op = "soldUnitsCodec.Decode"
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return nil, opErr(err, op)
	}
	return soldUnits(n), nil
}

// A SalesTallyProcessor folds placed-order events into a
// per-product units-sold group table. Incoming events are keyed
// by user id, so every line is re-keyed to its product id
// through the loopback topic before the tally is updated.
type SalesTallyProcessor struct {
	opPrefix string
	proc     processor
}

func NewSalesTallyProc(
	seedBrokers []string,
	inputStream string,
	group string,
	orderPlacedSerde Serde,
) (*SalesTallyProcessor, error) {
	const op = "NewSalesTallyProcessor"

	var p SalesTallyProcessor

	gg := goka.DefineGroup(goka.Group(group),
		goka.Input(
			goka.Stream(inputStream),
			newOrderPlacedCodec(orderPlacedSerde),
			p.routeFn,
		),
		goka.Loop(soldUnitsCodec{}, p.tallyFn),
		goka.Persist(soldUnitsCodec{}),
	)

	gp, err := goka.NewProcessor(seedBrokers, gg, withNonlogProcOpt())
	if err != nil {
		return nil, opErr(err, op)
	}

	p.opPrefix = "SalesTallyProcessor"
	p.proc = processor{
		opPrefix: p.opPrefix,
		gp:       gp,
	}

	return &p, nil
}

func (p *SalesTallyProcessor) Run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	p.proc.run(ctx, stopFn, wg)
}

func (p *SalesTallyProcessor) Close() {
	p.proc.close()
}

func (p *SalesTallyProcessor) routeFn(ctx goka.Context, msg any) {
	event, _ := msg.(schema.OrderPlacedV1)
	for _, line := range event.Lines {
		ctx.Loopback(line.ProductID, soldUnits(line.Quantity))
	}
}

func (p *SalesTallyProcessor) tallyFn(ctx goka.Context, msg any) {
	const op = "tallyFn"
	log := slog.With("op", makeOp(p.opPrefix, op))

	qty, _ := msg.(soldUnits)
	total := qty
	if cur, ok := ctx.Value().(soldUnits); ok {
		total += cur
	}
	ctx.SetValue(total)
	log.Info("updated sales tally",
		"productID", ctx.Key(),
		"unitsSold", int64(total),
	)
}
