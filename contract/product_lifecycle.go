package contract

import (
	"encoding/json"
	"fmt"

	"agritrace/model"

	"github.com/hyperledger/fabric-contract-api-go/contractapi"
)

// custodyStep describes one gated operation on an existing product: who may call it, which
// status the product must be in, and the status it leaves the product in.
type custodyStep struct {
	action       string
	role         model.Role
	from         model.ProductStatus
	to           model.ProductStatus
	farmerOnly   bool // caller must be the product's registering farmer
	takesCustody bool // caller becomes the product's current holder
}

var (
	stepUpdateFarmingActivity   = custodyStep{action: "UpdateFarmingActivity", role: model.RoleFarmer, from: model.StatusRegistered, to: model.StatusRegistered, farmerOnly: true}
	stepRecordProductionProcess = custodyStep{action: "RecordProductionProcess", role: model.RoleFarmer, from: model.StatusRegistered, to: model.StatusHarvested, farmerOnly: true}

	stepReceiveFromFarmer      = custodyStep{action: "ReceiveFromFarmer", role: model.RoleDistributor, from: model.StatusHarvested, to: model.StatusInTransit, takesCustody: true}
	stepUpdateTransportInfo    = custodyStep{action: "UpdateTransportInfo", role: model.RoleDistributor, from: model.StatusInTransit, to: model.StatusInTransit}
	stepRecordStorageCondition = custodyStep{action: "RecordStorageCondition", role: model.RoleDistributor, from: model.StatusInTransit, to: model.StatusInTransit}
	// Hand-off is logged without a status of its own; the product stays InTransit until a retailer receives it.
	stepTransferToRetailer = custodyStep{action: "TransferToRetailer", role: model.RoleDistributor, from: model.StatusInTransit, to: model.StatusInTransit}

	stepReceiveFromDistributor = custodyStep{action: "ReceiveFromDistributor", role: model.RoleRetailer, from: model.StatusInTransit, to: model.StatusInStorage, takesCustody: true}
	stepUpdateWarehouseInfo    = custodyStep{action: "UpdateWarehouseInfo", role: model.RoleRetailer, from: model.StatusInStorage, to: model.StatusInStorage}
	stepSellToConsumer         = custodyStep{action: "SellToConsumer", role: model.RoleRetailer, from: model.StatusInStorage, to: model.StatusSold}

	stepConfirmPurchase = custodyStep{action: "ConfirmPurchase", role: model.RoleConsumer, from: model.StatusSold, to: model.StatusSold}
	stepSubmitReview    = custodyStep{action: "SubmitReview", role: model.RoleConsumer, from: model.StatusSold, to: model.StatusSold}
)

// custodySteps lists every gated operation on an existing product.
var custodySteps = []custodyStep{
	stepUpdateFarmingActivity,
	stepRecordProductionProcess,
	stepReceiveFromFarmer,
	stepUpdateTransportInfo,
	stepRecordStorageCondition,
	stepTransferToRetailer,
	stepReceiveFromDistributor,
	stepUpdateWarehouseInfo,
	stepSellToConsumer,
	stepConfirmPurchase,
	stepSubmitReview,
}

// getProductByID is an internal helper to retrieve and unmarshal a product.
func (s *AgriTraceContract) getProductByID(ctx contractapi.TransactionContextInterface, productID uint64) (*model.Product, error) {
	if productID == 0 {
		return nil, fmt.Errorf("product 0: %w", ErrNotFound)
	}
	key, err := s.createProductCompositeKey(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to create key for product %d: %w", productID, err)
	}
	productBytes, err := ctx.GetStub().GetState(key)
	if err != nil {
		return nil, fmt.Errorf("failed to read product %d from ledger: %w", productID, err)
	}
	if productBytes == nil {
		return nil, fmt.Errorf("product %d: %w", productID, ErrNotFound)
	}
	var product model.Product
	if err := json.Unmarshal(productBytes, &product); err != nil {
		return nil, fmt.Errorf("failed to unmarshal product %d: %w", productID, err)
	}
	ensureProductSchemaCompliance(&product)
	return &product, nil
}

// getProductAndVerifyStage fetches a product and verifies it sits in the expected status.
func (s *AgriTraceContract) getProductAndVerifyStage(ctx contractapi.TransactionContextInterface, productID uint64, expected model.ProductStatus) (*model.Product, error) {
	product, err := s.getProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.Status != expected {
		return nil, fmt.Errorf("product %d status '%s', expected '%s': %w", productID, product.Status, expected, ErrInvalidStateTransition)
	}
	return product, nil
}

// applyCustodyStep runs one gated operation: role check, predecessor check, ownership check,
// status update and the activity append. It returns the new activity id.
func (s *AgriTraceContract) applyCustodyStep(ctx contractapi.TransactionContextInterface, step custodyStep, productID uint64, dataHash string) (uint64, error) {
	actor, err := NewParticipantRegistry(ctx).RequireRole(step.role)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", step.action, err)
	}
	canonicalHash, err := parseDataHashArg(dataHash)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", step.action, err)
	}
	meta, err := s.requireLedgerMeta(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", step.action, err)
	}
	product, err := s.getProductAndVerifyStage(ctx, productID, step.from)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", step.action, err)
	}
	if step.farmerOnly && product.Farmer != actor.Identity {
		return 0, fmt.Errorf("%s: caller '%s' is not the farmer of product %d: %w", step.action, actor.Identity, productID, ErrInvalidStateTransition)
	}
	if !product.Status.CanAdvanceTo(step.to) {
		return 0, fmt.Errorf("%s: product %d cannot move from '%s' to '%s': %w", step.action, productID, product.Status, step.to, ErrInvalidStateTransition)
	}

	previous := product.Status
	product.Status = step.to
	if step.takesCustody {
		product.CurrentHolder = actor.Identity
	}
	activity, err := s.appendActivity(ctx, meta, product, actor, step.action, canonicalHash)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", step.action, err)
	}

	s.emitEvent(ctx, eventActivityRecorded, map[string]interface{}{
		"activityId":     activity.ID,
		"productId":      product.ID,
		"action":         step.action,
		"actor":          actor.Identity,
		"actorRole":      actor.Role,
		"dataHash":       canonicalHash,
		"previousStatus": previous,
		"status":         product.Status,
		"timestamp":      activity.Timestamp,
	})
	if previous != product.Status {
		logger.Infof("%s: product %d moved '%s' -> '%s' by '%s' (activity %d)", step.action, product.ID, previous, product.Status, actor.Identity, activity.ID)
	} else {
		logger.Infof("%s: activity %d recorded on product %d by '%s'", step.action, activity.ID, product.ID, actor.Identity)
	}
	return activity.ID, nil
}
