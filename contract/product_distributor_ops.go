package contract

import (
	"github.com/hyperledger/fabric-contract-api-go/contractapi"
)

// --- Lifecycle: Distributor Operations ---

// ReceiveFromFarmer takes custody of a HARVESTED product and moves it to IN_TRANSIT.
func (s *AgriTraceContract) ReceiveFromFarmer(ctx contractapi.TransactionContextInterface, productID uint64, dataHash string) (uint64, error) {
	return s.applyCustodyStep(ctx, stepReceiveFromFarmer, productID, dataHash)
}

// UpdateTransportInfo logs a transport observation (location, temperature) while IN_TRANSIT.
func (s *AgriTraceContract) UpdateTransportInfo(ctx contractapi.TransactionContextInterface, productID uint64, dataHash string) (uint64, error) {
	return s.applyCustodyStep(ctx, stepUpdateTransportInfo, productID, dataHash)
}

// RecordStorageCondition logs an intermediate storage reading while IN_TRANSIT.
func (s *AgriTraceContract) RecordStorageCondition(ctx contractapi.TransactionContextInterface, productID uint64, dataHash string) (uint64, error) {
	return s.applyCustodyStep(ctx, stepRecordStorageCondition, productID, dataHash)
}

// TransferToRetailer logs the hand-off to a retailer. The product stays IN_TRANSIT until the
// retailer calls ReceiveFromDistributor.
func (s *AgriTraceContract) TransferToRetailer(ctx contractapi.TransactionContextInterface, productID uint64, dataHash string) (uint64, error) {
	return s.applyCustodyStep(ctx, stepTransferToRetailer, productID, dataHash)
}
