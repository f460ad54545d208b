package seaswap

import (
	"context"
	"hash/crc32"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/core/types"

	"github.com/kaifufi/seaport-swap-sdk-go/chain"
	"github.com/kaifufi/seaport-swap-sdk-go/log"
)

// Exchange creates and fulfills orders. Both calls return the pending actions
// the account holder must go through; *chain.Seaport implements it.
type Exchange interface {
	CreateOrder(ctx context.Context, input chain.CreateOrderInput, accountAddress string) (*chain.OrderUseCase[*chain.OrderWithCounter], error)
	FulfillOrder(ctx context.Context, order *chain.OrderWithCounter, accountAddress string) (*chain.OrderUseCase[*types.Transaction], error)
}

var _ Exchange = (*chain.Seaport)(nil)

// RecordStore persists order records; *APIClient implements it
type RecordStore interface {
	CreateOrderRecord(ctx context.Context, record *OrderRecord) error
}

var _ RecordStore = (*APIClient)(nil)

// SubmitResult is the outcome of a successful submission. Transaction is the
// dispatched fulfillment; it may still be pending.
type SubmitResult struct {
	Record      *OrderRecord
	Transaction *types.Transaction
}

// Orchestrator drives one order through creation, immediate fulfillment and
// persistence. It does not serialize concurrent calls to Submit; see Session.
type Orchestrator struct {
	exchange Exchange
	store    RecordStore
	logger   log.Logger
	metrics  *Metrics
	observer func(Phase)
	now      func() time.Time
}

// OrchestratorOption sets an optional parameter on the Orchestrator
type OrchestratorOption func(*Orchestrator)

// WithLogger sets the logger
func WithLogger(logger log.Logger) OrchestratorOption {
	return func(o *Orchestrator) { o.logger = logger }
}

// WithMetrics sets the metrics
func WithMetrics(metrics *Metrics) OrchestratorOption {
	return func(o *Orchestrator) { o.metrics = metrics }
}

// WithPhaseObserver registers fn to be called on every phase change
func WithPhaseObserver(fn func(Phase)) OrchestratorOption {
	return func(o *Orchestrator) { o.observer = fn }
}

// NewOrchestrator creates an Orchestrator. A nil store disables persistence.
func NewOrchestrator(exchange Exchange, store RecordStore, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		exchange: exchange,
		store:    store,
		logger:   log.NewNopLogger(),
		metrics:  NopMetrics(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Submit creates the order described by params on behalf of account, runs
// every pending action, then fulfills the signed order from the same account
// and persists the record. It returns once the fulfillment transaction has
// been sent; it does not wait for it to be mined.
//
// Any failure before the record is built aborts the submission and nothing is
// persisted. A persistence failure is logged and does not fail the
// submission.
func (o *Orchestrator) Submit(
	ctx context.Context,
	params OrderParameters,
	offers, considerations []Item,
	account string,
) (*SubmitResult, error) {
	start := o.now()
	o.enter(PhaseIdle)

	account = strings.TrimSpace(account)
	if account == "" {
		return nil, o.fail(PhaseIdle, &NoAccountError{})
	}
	logger := o.logger.With("account", account)

	o.enter(PhaseCreating)
	logger.Debug("creating order", "offer", len(params.Offer), "consideration", len(params.Consideration))
	create, err := o.exchange.CreateOrder(ctx, params, account)
	if err == nil && create == nil {
		err = ErrNoActions
	}
	if err != nil {
		return nil, o.fail(PhaseCreating, classifyActionError(PhaseCreating, err))
	}
	signed, err := create.ExecuteAllActions(ctx)
	if err != nil {
		return nil, o.fail(PhaseCreating, classifyActionError(PhaseCreating, err))
	}

	o.enter(PhaseCreated)
	id := RecordID(signed.Signature)
	logger = logger.With("record", id)
	logger.Debug("order created")

	o.enter(PhaseFulfilling)
	fulfill, err := o.exchange.FulfillOrder(ctx, signed, account)
	if err == nil && fulfill == nil {
		err = ErrNoActions
	}
	if err != nil {
		return nil, o.fail(PhaseFulfilling, classifyActionError(PhaseFulfilling, err))
	}
	tx, err := fulfill.ExecuteAllActions(ctx)
	if err != nil {
		return nil, o.fail(PhaseFulfilling, classifyActionError(PhaseFulfilling, err))
	}

	record := &OrderRecord{
		ID:             id,
		Order:          signed,
		Offers:         append([]Item(nil), offers...),
		Considerations: append([]Item(nil), considerations...),
	}
	o.persist(ctx, logger, record)

	o.enter(PhaseDone)
	o.metrics.Submissions.With("outcome", "success").Add(1)
	o.metrics.SubmissionDuration.Observe(o.now().Sub(start).Seconds())

	txHash := ""
	if tx != nil {
		txHash = tx.Hash().Hex()
	}
	logger.Info("order created and fulfillment dispatched", "tx", txHash)

	return &SubmitResult{Record: record, Transaction: tx}, nil
}

func (o *Orchestrator) persist(ctx context.Context, logger log.Logger, record *OrderRecord) {
	if o.store == nil {
		return
	}
	if err := o.store.CreateOrderRecord(ctx, record); err != nil {
		o.metrics.PersistenceFailures.Add(1)
		logger.Error("failed to persist order record", "err", &PersistenceError{RecordID: record.ID, Err: err})
	}
}

func (o *Orchestrator) enter(phase Phase) {
	o.metrics.Phase.Set(float64(phase))
	if o.observer != nil {
		o.observer(phase)
	}
}

func (o *Orchestrator) fail(phase Phase, err error) error {
	o.logger.Error("submission failed", "phase", phase.String(), "err", err)
	o.metrics.Submissions.With("outcome", outcome(err)).Add(1)
	o.enter(PhaseFailed)
	return err
}

func outcome(err error) string {
	switch err.(type) {
	case *NoAccountError:
		return "no_account"
	case *UserRejectedActionError:
		return "rejected"
	default:
		return "error"
	}
}

// RecordID derives the id of an order record from its signature: the CRC-32
// (IEEE) of the signature string read as a signed 32 bit integer, in
// decimal.
func RecordID(signature string) string {
	return strconv.FormatInt(int64(int32(crc32.ChecksumIEEE([]byte(signature)))), 10)
}
