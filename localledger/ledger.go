// Package localledger runs the AgriTrace contract in process, without a Fabric network.
//
// Every call is one transaction executed against committed world state. Mutations are
// serialized and their write sets are committed atomically; a failed call commits nothing.
// Queries run concurrently with each other.
package localledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"agritrace/config"
	"agritrace/contract"
	"agritrace/worldstate"

	"github.com/hyperledger/fabric-contract-api-go/contractapi"
	"github.com/hyperledger/fabric/common/flogging"
)

var logger = flogging.MustGetLogger("agritrace.localledger")

const (
	defaultMSPID      = "Org1MSP"
	anonymousIdentity = "anonymous"
)

// Event is a chaincode event published after its transaction committed.
type Event struct {
	TxID    string
	Name    string
	Payload []byte
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock sets the source of transaction timestamps.
func WithClock(clock func() time.Time) Option {
	return func(l *Ledger) {
		l.clock = clock
	}
}

// WithEventHandler registers a callback for committed events. It is called outside the ledger lock.
func WithEventHandler(handler func(Event)) Option {
	return func(l *Ledger) {
		l.onEvent = handler
	}
}

// WithMSPID sets the MSP id reported for every caller.
func WithMSPID(mspID string) Option {
	return func(l *Ledger) {
		l.mspID = mspID
	}
}

// Ledger is an in-process AgriTrace ledger over a world state store.
type Ledger struct {
	mu       sync.RWMutex
	store    worldstate.Store
	contract *contract.AgriTraceContract
	clock    func() time.Time
	onEvent  func(Event)
	mspID    string
}

// Open bootstraps a ledger over store with admin as its administrator. Reopening a store that
// was already initialized keeps its original admin.
func Open(ctx context.Context, store worldstate.Store, admin string, opts ...Option) (*Ledger, error) {
	if store == nil {
		return nil, errors.New("world state store is required")
	}
	admin = strings.TrimSpace(admin)
	if admin == "" {
		return nil, errors.New("admin identity is required")
	}
	l := &Ledger{
		store:    store,
		contract: &contract.AgriTraceContract{},
		clock:    time.Now,
		mspID:    defaultMSPID,
	}
	for _, opt := range opts {
		opt(l)
	}

	err := l.submit(ctx, admin, func(tctx contractapi.TransactionContextInterface) error {
		return l.contract.InitLedger(tctx, "")
	})
	switch {
	case err == nil:
		logger.Infof("Local ledger initialized with admin '%s'", admin)
	case errors.Is(err, contract.ErrAlreadyInitialized):
		logger.Infof("Local ledger reopened")
	default:
		return nil, fmt.Errorf("initialize ledger: %w", err)
	}
	return l, nil
}

// OpenFromConfig opens a ledger on the sqlite file named by cfg.StatePath, or in memory when it is empty.
func OpenFromConfig(ctx context.Context, cfg config.Config, admin string, opts ...Option) (*Ledger, error) {
	var store worldstate.Store = worldstate.NewMemoryStore()
	if strings.TrimSpace(cfg.StatePath) != "" {
		sqliteStore, err := worldstate.OpenSQLite(cfg.StatePath)
		if err != nil {
			return nil, err
		}
		store = sqliteStore
	}
	l, err := Open(ctx, store, admin, opts...)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return l, nil
}

// Close closes the underlying store.
func (l *Ledger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.Close()
}

func (l *Ledger) transactionContext(stub *txStub, caller string) *contractapi.TransactionContext {
	tctx := new(contractapi.TransactionContext)
	tctx.SetStub(stub)
	tctx.SetClientIdentity(callerIdentity{id: caller, mspID: l.mspID})
	return tctx
}

// submit runs fn as a mutating transaction and commits its write set if fn succeeds.
func (l *Ledger) submit(ctx context.Context, caller string, fn func(contractapi.TransactionContextInterface) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	event, err := l.commitTx(ctx, caller, fn)
	if err != nil {
		return err
	}
	if event != nil && l.onEvent != nil {
		l.onEvent(*event)
	}
	return nil
}

func (l *Ledger) commitTx(ctx context.Context, caller string, fn func(contractapi.TransactionContextInterface) error) (*Event, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	stub := newTxStub(ctx, l.store, l.clock())
	if err := fn(l.transactionContext(stub, caller)); err != nil {
		logger.Debugf("Transaction %s by '%s' rejected: %v", stub.TxID, caller, err)
		return nil, err
	}
	if err := l.store.Commit(ctx, stub.writeSet()); err != nil {
		return nil, fmt.Errorf("commit transaction %s: %w", stub.TxID, err)
	}
	return stub.event, nil
}

// evaluate runs fn as a read-only query. Anything it writes is discarded.
func (l *Ledger) evaluate(ctx context.Context, fn func(contractapi.TransactionContextInterface) error) error {
	return l.evaluateAs(ctx, anonymousIdentity, fn)
}

func (l *Ledger) evaluateAs(ctx context.Context, caller string, fn func(contractapi.TransactionContextInterface) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	stub := newTxStub(ctx, l.store, l.clock())
	return fn(l.transactionContext(stub, caller))
}
