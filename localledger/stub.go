package localledger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"
	"unicode/utf8"

	"agritrace/worldstate"

	"github.com/google/uuid"
	"github.com/hyperledger/fabric-chaincode-go/shim"
	"github.com/hyperledger/fabric-chaincode-go/shimtest"
	"github.com/hyperledger/fabric-protos-go/ledger/queryresult"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// txStub is the chaincode stub for one transaction. Reads see committed state only, as on a
// peer; writes and the event are buffered until the ledger commits them.
type txStub struct {
	*shimtest.MockStub

	ctx    context.Context
	store  worldstate.Store
	writes map[string]worldstate.Write
	event  *Event
}

func newTxStub(ctx context.Context, store worldstate.Store, now time.Time) *txStub {
	mock := shimtest.NewMockStub("agritrace", nil)
	mock.TxID = uuid.NewString()
	mock.TxTimestamp = timestamppb.New(now)
	return &txStub{
		MockStub: mock,
		ctx:      ctx,
		store:    store,
		writes:   map[string]worldstate.Write{},
	}
}

func (s *txStub) GetState(key string) ([]byte, error) {
	if key == "" {
		return nil, errors.New("key must not be an empty string")
	}
	return s.store.Get(s.ctx, key)
}

func (s *txStub) PutState(key string, value []byte) error {
	if key == "" {
		return errors.New("key must not be an empty string")
	}
	s.writes[key] = worldstate.Write{Key: key, Value: append([]byte(nil), value...)}
	return nil
}

func (s *txStub) DelState(key string) error {
	if key == "" {
		return errors.New("key must not be an empty string")
	}
	s.writes[key] = worldstate.Write{Key: key, Delete: true}
	return nil
}

// SetEvent keeps the last event set, as a peer does.
func (s *txStub) SetEvent(name string, payload []byte) error {
	if name == "" {
		return errors.New("event name can not be empty string")
	}
	s.event = &Event{TxID: s.TxID, Name: name, Payload: append([]byte(nil), payload...)}
	return nil
}

func (s *txStub) GetStateByRange(startKey, endKey string) (shim.StateQueryIteratorInterface, error) {
	kvs, err := s.store.Range(s.ctx, startKey, endKey)
	if err != nil {
		return nil, err
	}
	return &stateIterator{kvs: kvs}, nil
}

func (s *txStub) GetStateByPartialCompositeKey(objectType string, attributes []string) (shim.StateQueryIteratorInterface, error) {
	startKey, err := shim.CreateCompositeKey(objectType, attributes)
	if err != nil {
		return nil, fmt.Errorf("partial composite key: %w", err)
	}
	return s.GetStateByRange(startKey, startKey+string(utf8.MaxRune))
}

// writeSet returns the buffered writes in key order.
func (s *txStub) writeSet() []worldstate.Write {
	writes := make([]worldstate.Write, 0, len(s.writes))
	for _, w := range s.writes {
		writes = append(writes, w)
	}
	sort.Slice(writes, func(i, j int) bool { return writes[i].Key < writes[j].Key })
	return writes
}

type stateIterator struct {
	kvs  []worldstate.KV
	next int
}

func (it *stateIterator) HasNext() bool {
	return it.next < len(it.kvs)
}

func (it *stateIterator) Next() (*queryresult.KV, error) {
	if !it.HasNext() {
		return nil, errors.New("iterator exhausted")
	}
	kv := it.kvs[it.next]
	it.next++
	return &queryresult.KV{Key: kv.Key, Value: kv.Value}, nil
}

func (it *stateIterator) Close() error {
	return nil
}
