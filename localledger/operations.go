package localledger

import (
	"context"

	"agritrace/model"

	"github.com/hyperledger/fabric-contract-api-go/contractapi"
)

// --- Participant registry ---

// RegisterParticipant registers identity with role. caller must be an admin.
func (l *Ledger) RegisterParticipant(ctx context.Context, caller, identity string, role model.Role, dataHash model.DataHash) error {
	return l.submit(ctx, caller, func(tctx contractapi.TransactionContextInterface) error {
		return l.contract.RegisterParticipant(tctx, identity, string(role), dataHash.String())
	})
}

// GetParticipant returns the participant record for identity.
func (l *Ledger) GetParticipant(ctx context.Context, identity string) (*model.Participant, error) {
	var participant *model.Participant
	err := l.evaluate(ctx, func(tctx contractapi.TransactionContextInterface) error {
		var err error
		participant, err = l.contract.GetParticipant(tctx, identity)
		return err
	})
	return participant, err
}

// GetAllParticipants lists every participant. caller must be an admin.
func (l *Ledger) GetAllParticipants(ctx context.Context, caller string) ([]model.Participant, error) {
	var participants []model.Participant
	err := l.evaluateAs(ctx, caller, func(tctx contractapi.TransactionContextInterface) error {
		var err error
		participants, err = l.contract.GetAllParticipants(tctx)
		return err
	})
	return participants, err
}

// --- Product lifecycle ---

// RegisterProduct registers a product for the calling farmer and returns its id.
func (l *Ledger) RegisterProduct(ctx context.Context, caller string, dataHash model.DataHash) (uint64, error) {
	var productID uint64
	err := l.submit(ctx, caller, func(tctx contractapi.TransactionContextInterface) error {
		var err error
		productID, err = l.contract.RegisterProduct(tctx, dataHash.String())
		return err
	})
	return productID, err
}

type custodyOp func(contractapi.TransactionContextInterface, uint64, string) (uint64, error)

// record runs one lifecycle operation and returns the new activity id.
func (l *Ledger) record(ctx context.Context, caller string, productID uint64, dataHash model.DataHash, op custodyOp) (uint64, error) {
	var activityID uint64
	err := l.submit(ctx, caller, func(tctx contractapi.TransactionContextInterface) error {
		var err error
		activityID, err = op(tctx, productID, dataHash.String())
		return err
	})
	return activityID, err
}

// UpdateFarmingActivity logs a farming observation on a REGISTERED product owned by caller.
func (l *Ledger) UpdateFarmingActivity(ctx context.Context, caller string, productID uint64, dataHash model.DataHash) (uint64, error) {
	return l.record(ctx, caller, productID, dataHash, l.contract.UpdateFarmingActivity)
}

// RecordProductionProcess records the harvest and moves the product to HARVESTED.
func (l *Ledger) RecordProductionProcess(ctx context.Context, caller string, productID uint64, dataHash model.DataHash) (uint64, error) {
	return l.record(ctx, caller, productID, dataHash, l.contract.RecordProductionProcess)
}

// ReceiveFromFarmer hands a HARVESTED product to the calling distributor and moves it to IN_TRANSIT.
func (l *Ledger) ReceiveFromFarmer(ctx context.Context, caller string, productID uint64, dataHash model.DataHash) (uint64, error) {
	return l.record(ctx, caller, productID, dataHash, l.contract.ReceiveFromFarmer)
}

// UpdateTransportInfo logs a transport observation while the product is IN_TRANSIT.
func (l *Ledger) UpdateTransportInfo(ctx context.Context, caller string, productID uint64, dataHash model.DataHash) (uint64, error) {
	return l.record(ctx, caller, productID, dataHash, l.contract.UpdateTransportInfo)
}

// RecordStorageCondition logs a storage reading while the product is IN_TRANSIT.
func (l *Ledger) RecordStorageCondition(ctx context.Context, caller string, productID uint64, dataHash model.DataHash) (uint64, error) {
	return l.record(ctx, caller, productID, dataHash, l.contract.RecordStorageCondition)
}

// TransferToRetailer logs the hand-off to a retailer. The status stays IN_TRANSIT.
func (l *Ledger) TransferToRetailer(ctx context.Context, caller string, productID uint64, dataHash model.DataHash) (uint64, error) {
	return l.record(ctx, caller, productID, dataHash, l.contract.TransferToRetailer)
}

// ReceiveFromDistributor hands the product to the calling retailer and moves it to IN_STORAGE.
func (l *Ledger) ReceiveFromDistributor(ctx context.Context, caller string, productID uint64, dataHash model.DataHash) (uint64, error) {
	return l.record(ctx, caller, productID, dataHash, l.contract.ReceiveFromDistributor)
}

// UpdateWarehouseInfo logs a warehouse observation while the product is IN_STORAGE.
func (l *Ledger) UpdateWarehouseInfo(ctx context.Context, caller string, productID uint64, dataHash model.DataHash) (uint64, error) {
	return l.record(ctx, caller, productID, dataHash, l.contract.UpdateWarehouseInfo)
}

// SellToConsumer moves an IN_STORAGE product to SOLD.
func (l *Ledger) SellToConsumer(ctx context.Context, caller string, productID uint64, dataHash model.DataHash) (uint64, error) {
	return l.record(ctx, caller, productID, dataHash, l.contract.SellToConsumer)
}

// ConfirmPurchase logs the consumer confirming a SOLD product.
func (l *Ledger) ConfirmPurchase(ctx context.Context, caller string, productID uint64, dataHash model.DataHash) (uint64, error) {
	return l.record(ctx, caller, productID, dataHash, l.contract.ConfirmPurchase)
}

// SubmitReview logs a consumer review of a SOLD product.
func (l *Ledger) SubmitReview(ctx context.Context, caller string, productID uint64, dataHash model.DataHash) (uint64, error) {
	return l.record(ctx, caller, productID, dataHash, l.contract.SubmitReview)
}

// --- Queries ---

// TraceProduct returns the product trace. Public.
func (l *Ledger) TraceProduct(ctx context.Context, productID uint64) (*model.ProductTrace, error) {
	var trace *model.ProductTrace
	err := l.evaluate(ctx, func(tctx contractapi.TransactionContextInterface) error {
		var err error
		trace, err = l.contract.TraceProduct(tctx, productID)
		return err
	})
	return trace, err
}

// GetProduct returns the full product record, including its current holder.
func (l *Ledger) GetProduct(ctx context.Context, productID uint64) (*model.Product, error) {
	var product *model.Product
	err := l.evaluate(ctx, func(tctx contractapi.TransactionContextInterface) error {
		var err error
		product, err = l.contract.GetProduct(tctx, productID)
		return err
	})
	return product, err
}

// GetProductHistory resolves every activity of a product, in record order.
func (l *Ledger) GetProductHistory(ctx context.Context, productID uint64) ([]model.Activity, error) {
	var history []model.Activity
	err := l.evaluate(ctx, func(tctx contractapi.TransactionContextInterface) error {
		var err error
		history, err = l.contract.GetProductHistory(tctx, productID)
		return err
	})
	return history, err
}

// GetActivity returns one activity by id.
func (l *Ledger) GetActivity(ctx context.Context, activityID uint64) (*model.Activity, error) {
	var activity *model.Activity
	err := l.evaluate(ctx, func(tctx contractapi.TransactionContextInterface) error {
		var err error
		activity, err = l.contract.GetActivity(tctx, activityID)
		return err
	})
	return activity, err
}

// GetActivitiesForProduct returns the product's activity ids in record order.
func (l *Ledger) GetActivitiesForProduct(ctx context.Context, productID uint64) ([]uint64, error) {
	var ids []uint64
	err := l.evaluate(ctx, func(tctx contractapi.TransactionContextInterface) error {
		var err error
		ids, err = l.contract.GetActivitiesForProduct(tctx, productID)
		return err
	})
	return ids, err
}

// GetTotalProducts returns how many products have been registered.
func (l *Ledger) GetTotalProducts(ctx context.Context) (uint64, error) {
	var total uint64
	err := l.evaluate(ctx, func(tctx contractapi.TransactionContextInterface) error {
		var err error
		total, err = l.contract.GetTotalProducts(tctx)
		return err
	})
	return total, err
}

// GetTotalActivities returns how many activities have been recorded.
func (l *Ledger) GetTotalActivities(ctx context.Context) (uint64, error) {
	var total uint64
	err := l.evaluate(ctx, func(tctx contractapi.TransactionContextInterface) error {
		var err error
		total, err = l.contract.GetTotalActivities(tctx)
		return err
	})
	return total, err
}
