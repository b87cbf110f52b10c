package kafka

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"

	"github.com/lovoo/goka"
	"github.com/niksmo/shop-pos/internal/core/port"
	"github.com/niksmo/shop-pos/pkg/schema"
)

var _ port.SalesTallyProcessor = (*SalesTallyProcessor)(nil)
var _ port.SalesTallyReader = (*SalesTallyView)(nil)

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
	return s, nil
}

// A soldQty is the running sold quantity of one item name.
type soldQty int64

// A soldQtyCodec used for serde [soldQty]
type soldQtyCodec struct{}

func (soldQtyCodec) Encode(v any) ([]byte, error) {
	const op = "soldQtyCodec.Encode"
	q, ok := v.(soldQty)
	if !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return strconv.AppendInt([]byte(nil), int64(q), 10), nil
}

func (soldQtyCodec) Decode(data []byte) (any, error) {
	const op = "soldQtyCodec.Decode"
	q, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return nil, opErr(err, op)
	}
	return soldQty(q), nil
}

// A SalesTallyProcessor reads placed orders from the orders stream and
// keeps sold qty per item name in its group table.
//
// Each item is looped back keyed by item name, so the tally of one name
// lives in one partition.
type SalesTallyProcessor struct {
	opPrefix string
	proc     processor
}

func NewSalesTallyProc(
	seedBrokers []string,
	inputStream string,
	group string,
	orderSerde Serde,
	opts ...goka.ProcessorOption,
) (*SalesTallyProcessor, error) {
	const op = "NewSalesTallyProc"

	p := SalesTallyProcessor{opPrefix: "SalesTallyProcessor"}

	gg := goka.DefineGroup(goka.Group(group),
		goka.Input(
			goka.Stream(inputStream),
			newOrderPlacedCodec(orderSerde),
			p.splitFn,
		),
		goka.Loop(soldQtyCodec{}, p.tallyFn),
		goka.Persist(soldQtyCodec{}),
	)

	opts = append([]goka.ProcessorOption{withNonlogProcOpt()}, opts...)
	gp, err := goka.NewProcessor(seedBrokers, gg, opts...)
	if err != nil {
		return nil, opErr(err, op)
	}

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

func (p *SalesTallyProcessor) splitFn(ctx goka.Context, msg any) {
	const op = "splitFn"

	order, ok := msg.(schema.OrderPlacedV1)
	if !ok {
		slog.Error(
			"unexpected message", "op", makeOp(p.opPrefix, op), "key", ctx.Key(),
		)
		return
	}

	for _, i := range order.Items {
		ctx.Loopback(i.Name, soldQty(i.Qty))
	}
}

func (p *SalesTallyProcessor) tallyFn(ctx goka.Context, msg any) {
	const op = "tallyFn"

	add, _ := msg.(soldQty)
	current, _ := ctx.Value().(soldQty)
	ctx.SetValue(current + add)

	slog.Debug(
		"tally updated",
		"op", makeOp(p.opPrefix, op),
		"name", ctx.Key(),
		"sold", int64(current+add),
	)
}

// A SalesTallyView serves the group table of [SalesTallyProcessor].
type SalesTallyView struct {
	gv *goka.View
}

func NewSalesTallyView(
	seedBrokers []string, group string, opts ...goka.ViewOption,
) (*SalesTallyView, error) {
	const op = "NewSalesTallyView"

	opts = append([]goka.ViewOption{withNonlogViewOpt()}, opts...)
	gv, err := goka.NewView(
		seedBrokers,
		goka.GroupTable(goka.Group(group)),
		soldQtyCodec{},
		opts...,
	)
	if err != nil {
		return nil, opErr(err, op)
	}

	return &SalesTallyView{gv}, nil
}

// Run blocks until ctx is done.
func (v *SalesTallyView) Run(ctx context.Context) {
	const op = "SalesTallyView.Run"
	log := slog.With("op", op)

	err := v.gv.Run(ctx)
	if err != nil {
		log.Error("unexpected fail on run", "err", err)
	}
}

// SoldQty reads the whole table.
func (v *SalesTallyView) SoldQty(ctx context.Context) (map[string]int, error) {
	const op = "SalesTallyView.SoldQty"

	if err := ctx.Err(); err != nil {
		return nil, opErr(err, op)
	}

	if !v.gv.Recovered() {
		return nil, opErr(ErrViewNotReady, op)
	}

	it, err := v.gv.Iterator()
	if err != nil {
		return nil, opErr(err, op)
	}
	defer it.Release()

	sold := make(map[string]int)
	for it.Next() {
		val, err := it.Value()
		if err != nil {
			return nil, opErr(err, op)
		}
		q, ok := val.(soldQty)
		if !ok {
			return nil, opErr(ErrInvalidValueType, op)
		}
		sold[it.Key()] = int(q)
	}
	if err := it.Err(); err != nil {
		return nil, opErr(err, op)
	}
	return sold, nil
}
