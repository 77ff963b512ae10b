package contract

import (
	"crypto/sha256"
	"crypto/x509"
	"errors"
	"fmt"
	"testing"

	"agritrace/model"

	"github.com/hyperledger/fabric-chaincode-go/shimtest"
	"github.com/hyperledger/fabric-contract-api-go/contractapi"
	"github.com/hyperledger/fabric-protos-go/peer"
	"github.com/stretchr/testify/require"
)

const (
	testAdmin       = "admin"
	testFarmer      = "farmer"
	testFarmer2     = "farmer-2"
	testDistributor = "distributor"
	testRetailer    = "retailer"
	testConsumer    = "consumer"
)

type fakeIdentity struct {
	id string
}

func (f fakeIdentity) GetID() (string, error) {
	if f.id == "" {
		return "", errors.New("no id")
	}
	return f.id, nil
}

func (f fakeIdentity) GetMSPID() (string, error) { return "Org1MSP", nil }
func (f fakeIdentity) GetAttributeValue(string) (string, bool, error) { return "", false, nil }
func (f fakeIdentity) AssertAttributeValue(string, string) error { return errors.New("no attributes") }
func (f fakeIdentity) GetX509Certificate() (*x509.Certificate, error) { return nil, nil }

type fixture struct {
	t      *testing.T
	stub   *shimtest.MockStub
	cc     *AgriTraceContract
	txn    int
	events []*peer.ChaincodeEvent
}

func newFixture(t *testing.T) *fixture {
	return &fixture{
		t:    t,
		stub: shimtest.NewMockStub("agritrace", nil),
		cc:   &AgriTraceContract{},
	}
}

// as starts a new transaction invoked by caller.
func (f *fixture) as(caller string) contractapi.TransactionContextInterface {
	f.drainEvents()
	f.txn++
	f.stub.MockTransactionStart(fmt.Sprintf("tx-%d", f.txn))
	ctx := new(contractapi.TransactionContext)
	ctx.SetStub(f.stub)
	ctx.SetClientIdentity(fakeIdentity{id: caller})
	return ctx
}

func (f *fixture) drainEvents() {
	for {
		select {
		case e := <-f.stub.ChaincodeEventsChannel:
			f.events = append(f.events, e)
		default:
			return
		}
	}
}

func (f *fixture) lastEvent() *peer.ChaincodeEvent {
	f.drainEvents()
	if len(f.events) == 0 {
		return nil
	}
	return f.events[len(f.events)-1]
}

func (f *fixture) stateSize() int {
	return len(f.stub.State)
}

func testHash(s string) string {
	return model.DataHash(sha256.Sum256([]byte(s))).String()
}

// newInitializedFixture bootstraps the ledger and registers one participant per role.
func newInitializedFixture(t *testing.T) *fixture {
	f := newFixture(t)
	require.NoError(t, f.cc.InitLedger(f.as(testAdmin), ""))
	for identity, role := range map[string]string{
		testFarmer:      "FARMER",
		testFarmer2:     "FARMER",
		testDistributor: "DISTRIBUTOR",
		testRetailer:    "RETAILER",
		testConsumer:    "CONSUMER",
	} {
		require.NoError(t, f.cc.RegisterParticipant(f.as(testAdmin), identity, role, testHash(identity)))
	}
	return f
}

// productAt registers a product as testFarmer and drives it to status.
func (f *fixture) productAt(status model.ProductStatus) uint64 {
	f.t.Helper()
	id, err := f.cc.RegisterProduct(f.as(testFarmer), testHash("product"))
	require.NoError(f.t, err)
	path := []struct {
		reached model.ProductStatus
		next    func() error
	}{
		{model.StatusRegistered, func() error {
			_, err := f.cc.RecordProductionProcess(f.as(testFarmer), id, testHash("harvest"))
			return err
		}},
		{model.StatusHarvested, func() error {
			_, err := f.cc.ReceiveFromFarmer(f.as(testDistributor), id, testHash("pickup"))
			return err
		}},
		{model.StatusInTransit, func() error {
			_, err := f.cc.ReceiveFromDistributor(f.as(testRetailer), id, testHash("delivery"))
			return err
		}},
		{model.StatusInStorage, func() error {
			_, err := f.cc.SellToConsumer(f.as(testRetailer), id, testHash("sale"))
			return err
		}},
	}
	for _, p := range path {
		if p.reached == status {
			return id
		}
		require.NoError(f.t, p.next())
	}
	require.Equal(f.t, model.StatusSold, status)
	return id
}
