package contract

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"agritrace/model"

	"github.com/hyperledger/fabric-contract-api-go/contractapi"
	"github.com/hyperledger/fabric/common/flogging"
)

var registryLogger = flogging.MustGetLogger("agritrace.registry")

// participantObjectType is the composite key object type for Participant records.
const participantObjectType = "Participant"

const maxIdentityLength = 1024

// ParticipantRegistry handles participant registration and role checks.
type ParticipantRegistry struct {
	Ctx contractapi.TransactionContextInterface
}

// NewParticipantRegistry creates a registry bound to the current transaction context.
func NewParticipantRegistry(ctx contractapi.TransactionContextInterface) *ParticipantRegistry {
	return &ParticipantRegistry{Ctx: ctx}
}

func (r *ParticipantRegistry) createParticipantCompositeKey(identity string) (string, error) {
	return r.Ctx.GetStub().CreateCompositeKey(participantObjectType, []string{identity})
}

// GetCurrentIdentity returns the client identity id of the transaction invoker.
func (r *ParticipantRegistry) GetCurrentIdentity() (string, error) {
	clientIdentity := r.Ctx.GetClientIdentity()
	if clientIdentity == nil {
		return "", errors.New("client identity is nil from context")
	}
	id, err := clientIdentity.GetID()
	if err != nil {
		return "", fmt.Errorf("failed to get client identity ID from context: %w", err)
	}
	if id == "" {
		return "", errors.New("client identity ID from context is empty")
	}
	return id, nil
}

// GetParticipant loads a participant record. It fails with ErrNotFound for unknown identities.
func (r *ParticipantRegistry) GetParticipant(identity string) (*model.Participant, error) {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return nil, fmt.Errorf("identity cannot be empty: %w", ErrInvalidArgument)
	}
	key, err := r.createParticipantCompositeKey(identity)
	if err != nil {
		return nil, fmt.Errorf("failed to create participant key for '%s': %v: %w", identity, err, ErrInvalidArgument)
	}
	participantBytes, err := r.Ctx.GetStub().GetState(key)
	if err != nil {
		return nil, fmt.Errorf("ledger error retrieving participant '%s': %w", identity, err)
	}
	if participantBytes == nil {
		return nil, fmt.Errorf("participant '%s': %w", identity, ErrNotFound)
	}
	var participant model.Participant
	if err := json.Unmarshal(participantBytes, &participant); err != nil {
		return nil, fmt.Errorf("failed to unmarshal participant '%s': %w", identity, err)
	}
	return &participant, nil
}

// RequireRole checks that the invoker is a registered, active participant holding role,
// and returns that participant. Admins get no bypass: each operation names exactly one role.
func (r *ParticipantRegistry) RequireRole(role model.Role) (*model.Participant, error) {
	callerID, err := r.GetCurrentIdentity()
	if err != nil {
		return nil, fmt.Errorf("failed to identify caller for role '%s': %v: %w", role, err, ErrUnauthorized)
	}
	participant, err := r.GetParticipant(callerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("caller '%s' is not a registered participant: %w", callerID, ErrUnauthorized)
		}
		return nil, err
	}
	if !participant.IsActive {
		return nil, fmt.Errorf("caller '%s' is inactive: %w", callerID, ErrUnauthorized)
	}
	if participant.Role != role {
		return nil, fmt.Errorf("caller '%s' has role '%s', required '%s': %w", callerID, participant.Role, role, ErrUnauthorized)
	}
	registryLogger.Debugf("Role check passed for role '%s' for caller '%s'.", role, callerID)
	return participant, nil
}

// RegisterParticipant stores a new active participant. Only admins may call it and an
// identity can be registered once.
func (r *ParticipantRegistry) RegisterParticipant(identity string, role model.Role, dataHash string, now time.Time) (*model.Participant, error) {
	admin, err := r.RequireRole(model.RoleAdmin)
	if err != nil {
		return nil, err
	}

	identity = strings.TrimSpace(identity)
	if identity == "" {
		return nil, fmt.Errorf("identity cannot be empty: %w", ErrInvalidArgument)
	}
	if len(identity) > maxIdentityLength {
		return nil, fmt.Errorf("identity exceeds max length %d: %w", maxIdentityLength, ErrInvalidArgument)
	}
	if !role.Valid() {
		return nil, fmt.Errorf("invalid role '%s': %w", role, ErrInvalidArgument)
	}

	key, err := r.createParticipantCompositeKey(identity)
	if err != nil {
		return nil, fmt.Errorf("failed to create participant key for '%s': %v: %w", identity, err, ErrInvalidArgument)
	}
	existing, err := r.Ctx.GetStub().GetState(key)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing participant '%s': %w", identity, err)
	}
	if existing != nil {
		return nil, fmt.Errorf("participant '%s': %w", identity, ErrAlreadyRegistered)
	}

	participant := &model.Participant{
		ObjectType:   participantObjectType,
		Identity:     identity,
		Role:         role,
		DataHash:     dataHash,
		IsActive:     true,
		RegisteredBy: admin.Identity,
		RegisteredAt: now,
	}
	if err := r.putParticipant(key, participant); err != nil {
		return nil, err
	}
	registryLogger.Infof("Participant '%s' registered with role '%s' by admin '%s'", identity, role, admin.Identity)
	return participant, nil
}

// bootstrapAdmin writes the admin participant for the identity that initializes the ledger.
func (r *ParticipantRegistry) bootstrapAdmin(identity, dataHash string, now time.Time) (*model.Participant, error) {
	key, err := r.createParticipantCompositeKey(identity)
	if err != nil {
		return nil, fmt.Errorf("failed to create participant key for bootstrap admin '%s': %w", identity, err)
	}
	participant := &model.Participant{
		ObjectType:   participantObjectType,
		Identity:     identity,
		Role:         model.RoleAdmin,
		DataHash:     dataHash,
		IsActive:     true,
		RegisteredBy: identity,
		RegisteredAt: now,
	}
	if err := r.putParticipant(key, participant); err != nil {
		return nil, err
	}
	registryLogger.Infof("Bootstrap admin '%s' registered", identity)
	return participant, nil
}

func (r *ParticipantRegistry) putParticipant(key string, participant *model.Participant) error {
	participantBytes, err := json.Marshal(participant)
	if err != nil {
		return fmt.Errorf("failed to marshal participant '%s': %w", participant.Identity, err)
	}
	if err := r.Ctx.GetStub().PutState(key, participantBytes); err != nil {
		return fmt.Errorf("failed to save participant '%s': %w", participant.Identity, err)
	}
	return nil
}

// GetAllParticipants lists every participant, ordered by identity. Admin only.
func (r *ParticipantRegistry) GetAllParticipants() ([]model.Participant, error) {
	admin, err := r.RequireRole(model.RoleAdmin)
	if err != nil {
		return nil, err
	}

	resultsIterator, err := r.Ctx.GetStub().GetStateByPartialCompositeKey(participantObjectType, []string{})
	if err != nil {
		return nil, fmt.Errorf("failed to get participants iterator: %w", err)
	}
	defer resultsIterator.Close()

	participants := []model.Participant{}
	for resultsIterator.HasNext() {
		queryResponse, iterErr := resultsIterator.Next()
		if iterErr != nil {
			return nil, fmt.Errorf("failed to read next participant: %w", iterErr)
		}
		var participant model.Participant
		if err := json.Unmarshal(queryResponse.Value, &participant); err != nil {
			registryLogger.Warningf("Failed to unmarshal participant for key '%s': %v. Skipping.", queryResponse.Key, err)
			continue
		}
		participants = append(participants, participant)
	}
	registryLogger.Infof("Admin '%s' retrieved %d participants.", admin.Identity, len(participants))
	return participants, nil
}
