package contract

import (
	"fmt"

	"agritrace/model"

	"github.com/hyperledger/fabric-contract-api-go/contractapi"
	"github.com/hyperledger/fabric/common/flogging"
)

var logger = flogging.MustGetLogger("agritrace.contract")

// Object types for composite keys, also usable as 'docType' in CouchDB.
const (
	productObjectType    = "Product"
	activityObjectType   = "Activity"
	ledgerMetaObjectType = "LedgerMeta"
)

// Chaincode event names.
const (
	eventLedgerInitialized     = "LedgerInitialized"
	eventParticipantRegistered = "ParticipantRegistered"
	eventProductRegistered     = "ProductRegistered"
	eventActivityRecorded      = "ActivityRecorded"
)

// AgriTraceContract records the custody chain of agricultural products.
// @contract:AgriTraceContract
type AgriTraceContract struct {
	contractapi.Contract
}

// InitLedger bootstraps the ledger: the invoker becomes its permanent admin. It can run once.
// An empty dataHash stores the zero digest for the admin profile.
func (s *AgriTraceContract) InitLedger(ctx contractapi.TransactionContextInterface, dataHash string) error {
	logger.Info("Attempting to initialize ledger with bootstrap admin...")

	exists, err := s.ledgerMetaExists(ctx)
	if err != nil {
		return fmt.Errorf("InitLedger: %w", err)
	}
	if exists {
		return fmt.Errorf("InitLedger: %w", ErrAlreadyInitialized)
	}

	adminHash := model.DataHash{}.String()
	if dataHash != "" {
		if adminHash, err = parseDataHashArg(dataHash); err != nil {
			return fmt.Errorf("InitLedger: %w", err)
		}
	}

	registry := NewParticipantRegistry(ctx)
	adminID, err := registry.GetCurrentIdentity()
	if err != nil {
		return fmt.Errorf("InitLedger: failed to get caller identity for bootstrap: %w", err)
	}
	now, err := s.getCurrentTxTimestamp(ctx)
	if err != nil {
		return fmt.Errorf("InitLedger: %w", err)
	}

	meta := &model.LedgerMeta{
		ObjectType:    ledgerMetaObjectType,
		Admin:         adminID,
		InitializedAt: now,
	}
	if _, err := registry.bootstrapAdmin(adminID, adminHash, now); err != nil {
		return fmt.Errorf("InitLedger: %w", err)
	}
	if err := s.putLedgerMeta(ctx, meta); err != nil {
		return fmt.Errorf("InitLedger: %w", err)
	}

	s.emitEvent(ctx, eventLedgerInitialized, map[string]interface{}{
		"admin":         adminID,
		"initializedAt": now,
	})
	logger.Infof("Ledger initialized. Identity '%s' is now the admin.", adminID)
	return nil
}

// --- Participant Registry wrappers ---

// RegisterParticipant registers identity with role. role accepts a name ("farmer") or a numeric code ("1").
func (s *AgriTraceContract) RegisterParticipant(ctx contractapi.TransactionContextInterface, identity string, role string, dataHash string) error {
	logger.Infof("Chaincode Call: RegisterParticipant '%s' as '%s'", identity, role)

	if _, err := NewParticipantRegistry(ctx).RequireRole(model.RoleAdmin); err != nil {
		return fmt.Errorf("RegisterParticipant: %w", err)
	}
	if _, err := s.requireLedgerMeta(ctx); err != nil {
		return fmt.Errorf("RegisterParticipant: %w", err)
	}
	parsedRole, err := model.ParseRole(role)
	if err != nil {
		return fmt.Errorf("RegisterParticipant: %v: %w", err, ErrInvalidArgument)
	}
	canonicalHash, err := parseDataHashArg(dataHash)
	if err != nil {
		return fmt.Errorf("RegisterParticipant: %w", err)
	}
	now, err := s.getCurrentTxTimestamp(ctx)
	if err != nil {
		return fmt.Errorf("RegisterParticipant: %w", err)
	}

	participant, err := NewParticipantRegistry(ctx).RegisterParticipant(identity, parsedRole, canonicalHash, now)
	if err != nil {
		return fmt.Errorf("RegisterParticipant: %w", err)
	}

	s.emitEvent(ctx, eventParticipantRegistered, map[string]interface{}{
		"identity":     participant.Identity,
		"role":         participant.Role,
		"dataHash":     participant.DataHash,
		"registeredBy": participant.RegisteredBy,
		"registeredAt": participant.RegisteredAt,
	})
	return nil
}

// GetParticipant returns the participant record for identity. Public.
func (s *AgriTraceContract) GetParticipant(ctx contractapi.TransactionContextInterface, identity string) (*model.Participant, error) {
	logger.Debugf("Chaincode Call: GetParticipant '%s'", identity)
	participant, err := NewParticipantRegistry(ctx).GetParticipant(identity)
	if err != nil {
		return nil, fmt.Errorf("GetParticipant: %w", err)
	}
	return participant, nil
}

// GetAllParticipants lists every registered participant. Admin only.
func (s *AgriTraceContract) GetAllParticipants(ctx contractapi.TransactionContextInterface) ([]model.Participant, error) {
	logger.Debug("Chaincode Call: GetAllParticipants")
	participants, err := NewParticipantRegistry(ctx).GetAllParticipants()
	if err != nil {
		return nil, fmt.Errorf("GetAllParticipants: %w", err)
	}
	return participants, nil
}
