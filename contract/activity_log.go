package contract

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"agritrace/model"

	"github.com/hyperledger/fabric-contract-api-go/contractapi"
)

// appendActivity allocates the next global activity id, records the activity and pushes its id
// onto the product. The activity, the product and the counters are written together, after
// everything has been marshalled, so a failure leaves no partial write behind.
func (s *AgriTraceContract) appendActivity(ctx contractapi.TransactionContextInterface, meta *model.LedgerMeta, product *model.Product, actor *model.Participant, action, dataHash string) (*model.Activity, error) {
	txTime, err := s.getCurrentTxTimestamp(ctx)
	if err != nil {
		return nil, err
	}
	// Transaction clocks are set by clients; never let the log go backwards.
	timestamp := txTime
	if timestamp.Before(meta.LastActivityAt) {
		logger.Warningf("appendActivity: tx timestamp %s precedes last activity %s; clamping", txTime.Format(time.RFC3339Nano), meta.LastActivityAt.Format(time.RFC3339Nano))
		timestamp = meta.LastActivityAt
	}

	activity := &model.Activity{
		ObjectType: activityObjectType,
		ID:         meta.TotalActivities + 1,
		ProductID:  product.ID,
		Actor:      actor.Identity,
		ActorRole:  actor.Role,
		Action:     action,
		DataHash:   dataHash,
		Status:     product.Status,
		Timestamp:  timestamp,
	}
	meta.TotalActivities = activity.ID
	meta.LastActivityAt = timestamp
	ensureProductSchemaCompliance(product)
	product.ActivityIDs = append(product.ActivityIDs, activity.ID)
	product.LastUpdatedAt = timestamp

	activityKey, err := s.createActivityCompositeKey(ctx, activity.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create key for activity %d: %w", activity.ID, err)
	}
	productKey, err := s.createProductCompositeKey(ctx, product.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create key for product %d: %w", product.ID, err)
	}
	activityBytes, err := json.Marshal(activity)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal activity %d: %w", activity.ID, err)
	}
	productBytes, err := json.Marshal(product)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal product %d: %w", product.ID, err)
	}

	if err := ctx.GetStub().PutState(activityKey, activityBytes); err != nil {
		return nil, fmt.Errorf("failed to save activity %d: %w", activity.ID, err)
	}
	if err := ctx.GetStub().PutState(productKey, productBytes); err != nil {
		return nil, fmt.Errorf("failed to save product %d: %w", product.ID, err)
	}
	if err := s.putLedgerMeta(ctx, meta); err != nil {
		return nil, err
	}
	return activity, nil
}

// getActivityByID is an internal helper to retrieve and unmarshal an activity.
func (s *AgriTraceContract) getActivityByID(ctx contractapi.TransactionContextInterface, activityID uint64) (*model.Activity, error) {
	if activityID == 0 {
		return nil, fmt.Errorf("activity 0: %w", ErrNotFound)
	}
	key, err := s.createActivityCompositeKey(ctx, activityID)
	if err != nil {
		return nil, fmt.Errorf("failed to create key for activity %d: %w", activityID, err)
	}
	activityBytes, err := ctx.GetStub().GetState(key)
	if err != nil {
		return nil, fmt.Errorf("failed to read activity %d from ledger: %w", activityID, err)
	}
	if activityBytes == nil {
		return nil, fmt.Errorf("activity %d: %w", activityID, ErrNotFound)
	}
	var activity model.Activity
	if err := json.Unmarshal(activityBytes, &activity); err != nil {
		return nil, fmt.Errorf("failed to unmarshal activity %d: %w", activityID, err)
	}
	return &activity, nil
}

// GetActivity returns one activity. Ids outside 1..GetTotalActivities fail with ErrNotFound.
func (s *AgriTraceContract) GetActivity(ctx contractapi.TransactionContextInterface, activityID uint64) (*model.Activity, error) {
	logger.Debugf("Chaincode Call: GetActivity %d", activityID)
	activity, err := s.getActivityByID(ctx, activityID)
	if err != nil {
		return nil, fmt.Errorf("GetActivity: %w", err)
	}
	return activity, nil
}

// GetActivitiesForProduct returns the product's activity ids in record order.
func (s *AgriTraceContract) GetActivitiesForProduct(ctx contractapi.TransactionContextInterface, productID uint64) ([]uint64, error) {
	logger.Debugf("Chaincode Call: GetActivitiesForProduct %d", productID)
	product, err := s.getProductByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("GetActivitiesForProduct: %w", err)
	}
	return product.ActivityIDs, nil
}

// GetTotalActivities returns how many activities have been recorded across all products.
func (s *AgriTraceContract) GetTotalActivities(ctx contractapi.TransactionContextInterface) (uint64, error) {
	meta, err := s.requireLedgerMeta(ctx)
	if errors.Is(err, ErrNotInitialized) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("GetTotalActivities: %w", err)
	}
	return meta.TotalActivities, nil
}
