package contract

import (
	"fmt"

	"agritrace/model"

	"github.com/hyperledger/fabric-contract-api-go/contractapi"
)

// --- Lifecycle: Farmer Operations ---

// RegisterProduct creates the next product in status REGISTERED, owned by the calling farmer,
// and logs the registration as its first activity. It returns the new product id.
func (s *AgriTraceContract) RegisterProduct(ctx contractapi.TransactionContextInterface, dataHash string) (uint64, error) {
	farmer, err := NewParticipantRegistry(ctx).RequireRole(model.RoleFarmer)
	if err != nil {
		return 0, fmt.Errorf("RegisterProduct: %w", err)
	}
	canonicalHash, err := parseDataHashArg(dataHash)
	if err != nil {
		return 0, fmt.Errorf("RegisterProduct: %w", err)
	}
	meta, err := s.requireLedgerMeta(ctx)
	if err != nil {
		return 0, fmt.Errorf("RegisterProduct: %w", err)
	}
	now, err := s.getCurrentTxTimestamp(ctx)
	if err != nil {
		return 0, fmt.Errorf("RegisterProduct: %w", err)
	}

	product := &model.Product{
		ObjectType:    productObjectType,
		ID:            meta.TotalProducts + 1,
		Farmer:        farmer.Identity,
		DataHash:      canonicalHash,
		Status:        model.StatusRegistered,
		CurrentHolder: farmer.Identity,
		RegisteredAt:  now,
		LastUpdatedAt: now,
		ActivityIDs:   []uint64{},
	}
	meta.TotalProducts = product.ID

	activity, err := s.appendActivity(ctx, meta, product, farmer, "RegisterProduct", canonicalHash)
	if err != nil {
		return 0, fmt.Errorf("RegisterProduct: %w", err)
	}

	s.emitEvent(ctx, eventProductRegistered, map[string]interface{}{
		"productId":    product.ID,
		"farmer":       farmer.Identity,
		"dataHash":     canonicalHash,
		"status":       product.Status,
		"activityId":   activity.ID,
		"registeredAt": product.RegisteredAt,
	})
	logger.Infof("Product %d registered by farmer '%s' (activity %d)", product.ID, farmer.Identity, activity.ID)
	return product.ID, nil
}

// UpdateFarmingActivity logs a farming observation (planting, fertilizing, pest control) on a
// REGISTERED product. Only the product's farmer may call it.
func (s *AgriTraceContract) UpdateFarmingActivity(ctx contractapi.TransactionContextInterface, productID uint64, dataHash string) (uint64, error) {
	return s.applyCustodyStep(ctx, stepUpdateFarmingActivity, productID, dataHash)
}

// RecordProductionProcess records the harvest and moves the product to HARVESTED.
func (s *AgriTraceContract) RecordProductionProcess(ctx contractapi.TransactionContextInterface, productID uint64, dataHash string) (uint64, error) {
	return s.applyCustodyStep(ctx, stepRecordProductionProcess, productID, dataHash)
}
