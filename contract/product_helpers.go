package contract

import (
	"encoding/json"
	"fmt"
	"time"

	"agritrace/model"

	"github.com/hyperledger/fabric-contract-api-go/contractapi"
)

// --- Core Helper Methods (used across multiple operations) ---

// sequenceKeyWidth zero-pads ids inside composite keys so range scans return them in id order.
const sequenceKeyWidth = 20

// getCurrentTxTimestamp retrieves the current transaction timestamp from the stub, in UTC.
func (s *AgriTraceContract) getCurrentTxTimestamp(ctx contractapi.TransactionContextInterface) (time.Time, error) {
	ts, err := ctx.GetStub().GetTxTimestamp()
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get transaction timestamp: %w", err)
	}
	return ts.AsTime().UTC(), nil
}

// parseDataHashArg validates a hex digest argument and returns its canonical form.
func parseDataHashArg(dataHash string) (string, error) {
	h, err := model.ParseDataHash(dataHash)
	if err != nil {
		return "", fmt.Errorf("%v: %w", err, ErrInvalidArgument)
	}
	return h.String(), nil
}

func sequenceKeyAttr(id uint64) string {
	return fmt.Sprintf("%0*d", sequenceKeyWidth, id)
}

func (s *AgriTraceContract) createProductCompositeKey(ctx contractapi.TransactionContextInterface, productID uint64) (string, error) {
	return ctx.GetStub().CreateCompositeKey(productObjectType, []string{sequenceKeyAttr(productID)})
}

func (s *AgriTraceContract) createActivityCompositeKey(ctx contractapi.TransactionContextInterface, activityID uint64) (string, error) {
	return ctx.GetStub().CreateCompositeKey(activityObjectType, []string{sequenceKeyAttr(activityID)})
}

func (s *AgriTraceContract) createLedgerMetaKey(ctx contractapi.TransactionContextInterface) (string, error) {
	return ctx.GetStub().CreateCompositeKey(ledgerMetaObjectType, []string{})
}

// --- Ledger meta (counters) ---

func (s *AgriTraceContract) ledgerMetaExists(ctx contractapi.TransactionContextInterface) (bool, error) {
	key, err := s.createLedgerMetaKey(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to create ledger meta key: %w", err)
	}
	metaBytes, err := ctx.GetStub().GetState(key)
	if err != nil {
		return false, fmt.Errorf("failed to read ledger meta: %w", err)
	}
	return metaBytes != nil, nil
}

// requireLedgerMeta loads the counters record, failing with ErrNotInitialized before InitLedger ran.
func (s *AgriTraceContract) requireLedgerMeta(ctx contractapi.TransactionContextInterface) (*model.LedgerMeta, error) {
	key, err := s.createLedgerMetaKey(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create ledger meta key: %w", err)
	}
	metaBytes, err := ctx.GetStub().GetState(key)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger meta: %w", err)
	}
	if metaBytes == nil {
		return nil, ErrNotInitialized
	}
	var meta model.LedgerMeta
	if err := json.Unmarshal(metaBytes, &meta); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ledger meta: %w", err)
	}
	return &meta, nil
}

func (s *AgriTraceContract) putLedgerMeta(ctx contractapi.TransactionContextInterface, meta *model.LedgerMeta) error {
	key, err := s.createLedgerMetaKey(ctx)
	if err != nil {
		return fmt.Errorf("failed to create ledger meta key: %w", err)
	}
	metaBytes, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to marshal ledger meta: %w", err)
	}
	if err := ctx.GetStub().PutState(key, metaBytes); err != nil {
		return fmt.Errorf("failed to save ledger meta: %w", err)
	}
	return nil
}

// ensureProductSchemaCompliance keeps slices non-nil so JSON carries [] instead of null.
func ensureProductSchemaCompliance(product *model.Product) {
	if product == nil {
		return
	}
	if product.ActivityIDs == nil {
		product.ActivityIDs = []uint64{}
	}
}

// emitEvent sends a chaincode event. Failures are logged, not returned: the event is a
// notification, the state change is already valid.
func (s *AgriTraceContract) emitEvent(ctx contractapi.TransactionContextInterface, eventName string, payload map[string]interface{}) {
	for k, v := range payload {
		if t, ok := v.(time.Time); ok {
			payload[k] = t.Format(time.RFC3339Nano)
		}
	}
	eventBytes, err := json.Marshal(payload)
	if err != nil {
		logger.Warningf("emitEvent: Failed to marshal event payload for event '%s': %v", eventName, err)
		return
	}
	if errSet := ctx.GetStub().SetEvent(eventName, eventBytes); errSet != nil {
		logger.Warningf("emitEvent: Failed to set event '%s': %v", eventName, errSet)
	}
}
