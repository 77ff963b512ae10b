package contract

import (
	"github.com/hyperledger/fabric-contract-api-go/contractapi"
)

// --- Lifecycle: Consumer Operations ---

func (s *AgriTraceContract) ConfirmPurchase(ctx contractapi.TransactionContextInterface, productID uint64, dataHash string) (uint64, error) {
	return s.applyCustodyStep(ctx, stepConfirmPurchase, productID, dataHash)
}

func (s *AgriTraceContract) SubmitReview(ctx contractapi.TransactionContextInterface, productID uint64, dataHash string) (uint64, error) {
	return s.applyCustodyStep(ctx, stepSubmitReview, productID, dataHash)
}
