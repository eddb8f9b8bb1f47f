package kafka

import (
	"context"
	"log/slog"

	"github.com/lovoo/goka"
	"github.com/shopcore/storefront/internal/core/port"
)

var _ port.SalesReader = (*SalesView)(nil)

// A SalesView serves point reads over the sales-tally group
// table.
type SalesView struct {
	gv *goka.View
}

func NewSalesView(
	seedBrokers []string, group string,
) (SalesView, error) {
	const op = "NewSalesView"

	gv, err := goka.NewView(
		seedBrokers,
		goka.GroupTable(goka.Group(group)),
		soldUnitsCodec{},
	)
	if err != nil {
		return SalesView{}, opErr(err, op)
	}

	return SalesView{gv}, nil
}

func (v SalesView) Run(ctx context.Context) {
	const op = "SalesView.Run"
	log := slog.With("op", op)

	err := v.gv.Run(ctx)
	if err != nil {
		log.Error("unexpected fail on run", "err", err)
	}
}

// UnitsSold returns zero for products never sold.
func (v SalesView) UnitsSold(productID string) (int64, error) {
	const op = "SalesView.UnitsSold"

	val, err := v.gv.Get(productID)
	if err != nil {
		return 0, opErr(err, op)
	}
	if val == nil {
		return 0, nil
	}

	n, ok := val.(soldUnits)
	if !ok {
		return 0, opErr(ErrInvalidValueType, op)
	}
	return int64(n), nil
}
