package contract

import (
	"testing"

	"agritrace/model"

	"github.com/hyperledger/fabric-contract-api-go/contractapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type custodyCall func(contractapi.TransactionContextInterface, uint64, string) (uint64, error)

func custodyCalls(cc *AgriTraceContract) map[string]custodyCall {
	return map[string]custodyCall{
		stepUpdateFarmingActivity.action:   cc.UpdateFarmingActivity,
		stepRecordProductionProcess.action: cc.RecordProductionProcess,
		stepReceiveFromFarmer.action:       cc.ReceiveFromFarmer,
		stepUpdateTransportInfo.action:     cc.UpdateTransportInfo,
		stepRecordStorageCondition.action:  cc.RecordStorageCondition,
		stepTransferToRetailer.action:      cc.TransferToRetailer,
		stepReceiveFromDistributor.action:  cc.ReceiveFromDistributor,
		stepUpdateWarehouseInfo.action:     cc.UpdateWarehouseInfo,
		stepSellToConsumer.action:          cc.SellToConsumer,
		stepConfirmPurchase.action:         cc.ConfirmPurchase,
		stepSubmitReview.action:            cc.SubmitReview,
	}
}

func callerFor(role model.Role) string {
	switch role {
	case model.RoleFarmer:
		return testFarmer
	case model.RoleDistributor:
		return testDistributor
	case model.RoleRetailer:
		return testRetailer
	case model.RoleConsumer:
		return testConsumer
	}
	return testAdmin
}

func TestCustodyStepsSucceedFromTheirPredecessor(t *testing.T) {
	for _, step := range custodySteps {
		t.Run(step.action, func(t *testing.T) {
			f := newInitializedFixture(t)
			call := custodyCalls(f.cc)[step.action]
			require.NotNil(t, call)
			productID := f.productAt(step.from)
			before, err := f.cc.GetTotalActivities(f.as(testAdmin))
			require.NoError(t, err)

			caller := callerFor(step.role)
			activityID, err := call(f.as(caller), productID, testHash(step.action))
			require.NoError(t, err)
			assert.Equal(t, before+1, activityID)

			product, err := f.cc.GetProduct(f.as(testConsumer), productID)
			require.NoError(t, err)
			assert.Equal(t, step.to, product.Status)
			assert.Equal(t, activityID, product.ActivityIDs[len(product.ActivityIDs)-1])
			if step.takesCustody {
				assert.Equal(t, caller, product.CurrentHolder)
			}

			activity, err := f.cc.GetActivity(f.as(testConsumer), activityID)
			require.NoError(t, err)
			assert.Equal(t, step.action, activity.Action)
			assert.Equal(t, caller, activity.Actor)
			assert.Equal(t, step.role, activity.ActorRole)
			assert.Equal(t, testHash(step.action), activity.DataHash)

			event := f.lastEvent()
			require.NotNil(t, event)
			assert.Equal(t, eventActivityRecorded, event.EventName)
		})
	}
}

func TestCustodyStepsRejectWrongRole(t *testing.T) {
	for _, step := range custodySteps {
		t.Run(step.action, func(t *testing.T) {
			f := newInitializedFixture(t)
			call := custodyCalls(f.cc)[step.action]
			productID := f.productAt(step.from)

			for _, role := range []model.Role{model.RoleAdmin, model.RoleFarmer, model.RoleDistributor, model.RoleRetailer, model.RoleConsumer} {
				if role == step.role {
					continue
				}
				before := f.stateSize()
				_, err := call(f.as(callerFor(role)), productID, testHash("x"))
				assert.ErrorIs(t, err, ErrUnauthorized, "role %s", role)
				assert.Equal(t, before, f.stateSize())
			}
			_, err := call(f.as("stranger"), productID, testHash("x"))
			assert.ErrorIs(t, err, ErrUnauthorized)
		})
	}
}

func TestCustodyStepsRejectWrongStatus(t *testing.T) {
	for _, step := range custodySteps {
		t.Run(step.action, func(t *testing.T) {
			f := newInitializedFixture(t)
			call := custodyCalls(f.cc)[step.action]
			for _, status := range model.Statuses() {
				if status == step.from {
					continue
				}
				productID := f.productAt(status)
				before, err := f.cc.GetProduct(f.as(testAdmin), productID)
				require.NoError(t, err)

				_, err = call(f.as(callerFor(step.role)), productID, testHash("x"))
				assert.ErrorIs(t, err, ErrInvalidStateTransition, "from %s", status)

				after, err := f.cc.GetProduct(f.as(testAdmin), productID)
				require.NoError(t, err)
				assert.Equal(t, before, after)
			}
		})
	}
}

func TestFarmerOnlyStepsRejectOtherFarmers(t *testing.T) {
	f := newInitializedFixture(t)
	productID := f.productAt(model.StatusRegistered)

	_, err := f.cc.UpdateFarmingActivity(f.as(testFarmer2), productID, testHash("x"))
	assert.ErrorIs(t, err, ErrInvalidStateTransition)
	_, err = f.cc.RecordProductionProcess(f.as(testFarmer2), productID, testHash("x"))
	assert.ErrorIs(t, err, ErrInvalidStateTransition)

	product, err := f.cc.GetProduct(f.as(testFarmer2), productID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRegistered, product.Status)
	assert.Len(t, product.ActivityIDs, 1)
}

func TestCustodyStepUnknownProduct(t *testing.T) {
	f := newInitializedFixture(t)

	_, err := f.cc.RecordProductionProcess(f.as(testFarmer), 42, testHash("x"))
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.cc.ReceiveFromFarmer(f.as(testDistributor), 0, testHash("x"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCustodyStepRejectsMalformedHash(t *testing.T) {
	f := newInitializedFixture(t)
	productID := f.productAt(model.StatusRegistered)
	before := f.stateSize()

	_, err := f.cc.RecordProductionProcess(f.as(testFarmer), productID, "0xzz")
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Equal(t, before, f.stateSize())
}

func TestRegisterProduct(t *testing.T) {
	f := newInitializedFixture(t)

	id, err := f.cc.RegisterProduct(f.as(testFarmer), testHash("first"))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id)
	id, err = f.cc.RegisterProduct(f.as(testFarmer2), testHash("second"))
	require.NoError(t, err)
	assert.Equal(t, uint64(2), id)

	product, err := f.cc.GetProduct(f.as(testConsumer), 2)
	require.NoError(t, err)
	assert.Equal(t, testFarmer2, product.Farmer)
	assert.Equal(t, testFarmer2, product.CurrentHolder)
	assert.Equal(t, model.StatusRegistered, product.Status)
	assert.Equal(t, []uint64{2}, product.ActivityIDs)

	event := f.lastEvent()
	require.NotNil(t, event)
	assert.Equal(t, eventProductRegistered, event.EventName)

	_, err = f.cc.RegisterProduct(f.as(testRetailer), testHash("x"))
	assert.ErrorIs(t, err, ErrUnauthorized)
	total, err := f.cc.GetTotalProducts(f.as(testConsumer))
	require.NoError(t, err)
	assert.Equal(t, uint64(2), total)
}
