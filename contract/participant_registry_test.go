package contract

import (
	"testing"

	"agritrace/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLedgerBootstrapsAdminOnce(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.cc.InitLedger(f.as(testAdmin), ""))
	admin, err := f.cc.GetParticipant(f.as(testConsumer), testAdmin)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, admin.Role)
	assert.True(t, admin.IsActive)
	assert.Equal(t, model.DataHash{}.String(), admin.DataHash)

	event := f.lastEvent()
	require.NotNil(t, event)
	assert.Equal(t, eventLedgerInitialized, event.EventName)

	err = f.cc.InitLedger(f.as(testFarmer), "")
	assert.ErrorIs(t, err, ErrAlreadyInitialized)
	_, err = f.cc.GetParticipant(f.as(testFarmer), testFarmer)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInitLedgerRejectsBadHash(t *testing.T) {
	f := newFixture(t)
	err := f.cc.InitLedger(f.as(testAdmin), "0x1234")
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Zero(t, f.stateSize())
}

func TestOperationsBeforeInitLedger(t *testing.T) {
	f := newFixture(t)

	err := f.cc.RegisterParticipant(f.as(testAdmin), testFarmer, "FARMER", testHash("x"))
	assert.ErrorIs(t, err, ErrUnauthorized)
	err = f.cc.RegisterParticipant(f.as("stranger"), testFarmer, "AUDITOR", "zz")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Zero(t, f.stateSize())

	total, err := f.cc.GetTotalProducts(f.as(testAdmin))
	require.NoError(t, err)
	assert.Zero(t, total)
	total, err = f.cc.GetTotalActivities(f.as(testAdmin))
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestRegisterParticipant(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.cc.InitLedger(f.as(testAdmin), ""))

	require.NoError(t, f.cc.RegisterParticipant(f.as(testAdmin), testDistributor, "2", "0X"+testHash("d")[2:]))
	participant, err := f.cc.GetParticipant(f.as(testAdmin), testDistributor)
	require.NoError(t, err)
	assert.Equal(t, model.RoleDistributor, participant.Role)
	assert.Equal(t, testHash("d"), participant.DataHash)
	assert.Equal(t, testAdmin, participant.RegisteredBy)
	assert.True(t, participant.IsActive)

	event := f.lastEvent()
	require.NotNil(t, event)
	assert.Equal(t, eventParticipantRegistered, event.EventName)
}

func TestRegisterParticipantRejections(t *testing.T) {
	f := newInitializedFixture(t)

	tests := []struct {
		name     string
		caller   string
		identity string
		role     string
		dataHash string
		wantErr  error
	}{
		{"non-admin caller", testFarmer, "newcomer", "FARMER", testHash("n"), ErrUnauthorized},
		{"non-admin caller with unknown role", testFarmer, "newcomer", "AUDITOR", testHash("n"), ErrUnauthorized},
		{"unregistered caller with malformed hash", "stranger", "newcomer", "FARMER", "zz", ErrUnauthorized},
		{"unregistered caller", "stranger", "newcomer", "FARMER", testHash("n"), ErrUnauthorized},
		{"duplicate identity", testAdmin, testFarmer, "RETAILER", testHash("n"), ErrAlreadyRegistered},
		{"unknown role", testAdmin, "newcomer", "AUDITOR", testHash("n"), ErrInvalidArgument},
		{"role code out of range", testAdmin, "newcomer", "9", testHash("n"), ErrInvalidArgument},
		{"empty identity", testAdmin, "  ", "FARMER", testHash("n"), ErrInvalidArgument},
		{"malformed hash", testAdmin, "newcomer", "FARMER", "not-a-hash", ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := f.stateSize()
			err := f.cc.RegisterParticipant(f.as(tt.caller), tt.identity, tt.role, tt.dataHash)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, before, f.stateSize())
		})
	}

	existing, err := f.cc.GetParticipant(f.as(testAdmin), testFarmer)
	require.NoError(t, err)
	assert.Equal(t, model.RoleFarmer, existing.Role)
}

func TestGetParticipantErrors(t *testing.T) {
	f := newInitializedFixture(t)

	_, err := f.cc.GetParticipant(f.as(testConsumer), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.cc.GetParticipant(f.as(testConsumer), "")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestGetAllParticipants(t *testing.T) {
	f := newInitializedFixture(t)

	participants, err := f.cc.GetAllParticipants(f.as(testAdmin))
	require.NoError(t, err)
	assert.Len(t, participants, 6)

	_, err = f.cc.GetAllParticipants(f.as(testRetailer))
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestInactiveParticipantIsUnauthorized(t *testing.T) {
	f := newInitializedFixture(t)

	key, err := f.stub.CreateCompositeKey(participantObjectType, []string{testFarmer})
	require.NoError(t, err)
	participant, err := f.cc.GetParticipant(f.as(testAdmin), testFarmer)
	require.NoError(t, err)
	participant.IsActive = false
	require.NoError(t, NewParticipantRegistry(f.as(testAdmin)).putParticipant(key, participant))

	_, err = f.cc.RegisterProduct(f.as(testFarmer), testHash("p"))
	assert.ErrorIs(t, err, ErrUnauthorized)
}
