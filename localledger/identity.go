package localledger

import (
	"crypto/x509"
	"errors"
	"fmt"
)

// callerIdentity stands in for the X.509 client identity a peer derives from the proposal.
type callerIdentity struct {
	id    string
	mspID string
}

func (c callerIdentity) GetID() (string, error) {
	if c.id == "" {
		return "", errors.New("caller identity is empty")
	}
	return c.id, nil
}

func (c callerIdentity) GetMSPID() (string, error) {
	return c.mspID, nil
}

func (c callerIdentity) GetAttributeValue(string) (string, bool, error) {
	return "", false, nil
}

func (c callerIdentity) AssertAttributeValue(attrName, attrValue string) error {
	return fmt.Errorf("attribute '%s' not found on caller '%s'", attrName, c.id)
}

func (c callerIdentity) GetX509Certificate() (*x509.Certificate, error) {
	return nil, nil
}
