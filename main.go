package main

import (
	"fmt"
	"os"

	"agritrace/config"
	"agritrace/contract"

	"github.com/hyperledger/fabric-chaincode-go/shim"
	"github.com/hyperledger/fabric-contract-api-go/contractapi"
	"github.com/hyperledger/fabric/common/flogging"
)

var logger = flogging.MustGetLogger("agritrace.main")

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Error loading configuration: " + err.Error())
	}
	flogging.ActivateSpec(cfg.LogSpec)

	cc, err := contractapi.NewChaincode(&contract.AgriTraceContract{})
	if err != nil {
		panic("Error creating AgriTraceContract: " + err.Error())
	}
	cc.Info.Title = "agritrace"
	cc.Info.Version = "1.0.0"

	if !cfg.ExternalService() {
		if err := cc.Start(); err != nil {
			panic("Error starting chaincode: " + err.Error())
		}
		return
	}

	tlsProps, err := tlsProperties(cfg)
	if err != nil {
		panic("Error reading chaincode TLS material: " + err.Error())
	}
	server := &shim.ChaincodeServer{
		CCID:     cfg.ChaincodeID,
		Address:  cfg.ServerAddress,
		CC:       cc,
		TLSProps: tlsProps,
	}
	logger.Infof("Starting chaincode service '%s' on %s", cfg.ChaincodeID, cfg.ServerAddress)
	if err := server.Start(); err != nil {
		panic("Error starting chaincode server: " + err.Error())
	}
}

func tlsProperties(cfg config.Config) (shim.TLSProperties, error) {
	if cfg.TLSDisabled {
		return shim.TLSProperties{Disabled: true}, nil
	}
	key, err := os.ReadFile(cfg.TLSKeyFile)
	if err != nil {
		return shim.TLSProperties{}, fmt.Errorf("read key file: %w", err)
	}
	cert, err := os.ReadFile(cfg.TLSCertFile)
	if err != nil {
		return shim.TLSProperties{}, fmt.Errorf("read cert file: %w", err)
	}
	props := shim.TLSProperties{Key: key, Cert: cert}
	if cfg.TLSClientCAFile != "" {
		if props.ClientCACerts, err = os.ReadFile(cfg.TLSClientCAFile); err != nil {
			return shim.TLSProperties{}, fmt.Errorf("read client CA file: %w", err)
		}
	}
	return props, nil
}
