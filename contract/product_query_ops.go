package contract

import (
	"errors"
	"fmt"

	"agritrace/model"

	"github.com/hyperledger/fabric-contract-api-go/contractapi"
)

// --- Query Functions ---
// Queries are public: any identity, registered or not, may trace a product.

// TraceProduct returns the stored product record as a trace: farmer, data hash, status,
// registration time and the ordered activity ids to walk with GetActivity.
func (s *AgriTraceContract) TraceProduct(ctx contractapi.TransactionContextInterface, productID uint64) (*model.ProductTrace, error) {
	logger.Debugf("TraceProduct: Querying product %d", productID)
	product, err := s.getProductByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("TraceProduct: %w", err)
	}
	return &model.ProductTrace{
		ProductID:    product.ID,
		Farmer:       product.Farmer,
		DataHash:     product.DataHash,
		Status:       product.Status,
		RegisteredAt: product.RegisteredAt,
		ActivityIDs:  product.ActivityIDs,
	}, nil
}

// GetProduct returns the full product record, including its current holder.
func (s *AgriTraceContract) GetProduct(ctx contractapi.TransactionContextInterface, productID uint64) (*model.Product, error) {
	logger.Debugf("GetProduct: Querying product %d", productID)
	product, err := s.getProductByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("GetProduct: %w", err)
	}
	return product, nil
}

// GetProductHistory resolves every activity of a product, in record order.
func (s *AgriTraceContract) GetProductHistory(ctx contractapi.TransactionContextInterface, productID uint64) ([]model.Activity, error) {
	logger.Debugf("GetProductHistory: Querying history for product %d", productID)
	product, err := s.getProductByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("GetProductHistory: %w", err)
	}
	history := make([]model.Activity, 0, len(product.ActivityIDs))
	for _, activityID := range product.ActivityIDs {
		activity, err := s.getActivityByID(ctx, activityID)
		if err != nil {
			// A product pointing at a missing activity means the ledger is corrupt, not that the caller erred.
			return nil, fmt.Errorf("GetProductHistory: product %d references activity %d: %w", productID, activityID, err)
		}
		history = append(history, *activity)
	}
	return history, nil
}

// GetTotalProducts returns how many products have been registered.
func (s *AgriTraceContract) GetTotalProducts(ctx contractapi.TransactionContextInterface) (uint64, error) {
	meta, err := s.requireLedgerMeta(ctx)
	if errors.Is(err, ErrNotInitialized) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("GetTotalProducts: %w", err)
	}
	return meta.TotalProducts, nil
}
