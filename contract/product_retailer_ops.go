package contract

import (
	"github.com/hyperledger/fabric-contract-api-go/contractapi"
)

// --- Lifecycle: Retailer Operations ---

// ReceiveFromDistributor takes custody of an IN_TRANSIT product and moves it to IN_STORAGE.
func (s *AgriTraceContract) ReceiveFromDistributor(ctx contractapi.TransactionContextInterface, productID uint64, dataHash string) (uint64, error) {
	return s.applyCustodyStep(ctx, stepReceiveFromDistributor, productID, dataHash)
}

// UpdateWarehouseInfo logs warehouse placement or conditions while IN_STORAGE.
func (s *AgriTraceContract) UpdateWarehouseInfo(ctx contractapi.TransactionContextInterface, productID uint64, dataHash string) (uint64, error) {
	return s.applyCustodyStep(ctx, stepUpdateWarehouseInfo, productID, dataHash)
}

// SellToConsumer records the sale and moves the product to SOLD.
func (s *AgriTraceContract) SellToConsumer(ctx contractapi.TransactionContextInterface, productID uint64, dataHash string) (uint64, error) {
	return s.applyCustodyStep(ctx, stepSellToConsumer, productID, dataHash)
}
