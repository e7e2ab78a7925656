package vigil

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec"

	"github.com/vigilnetworks/vigil/src/chain"
	"github.com/vigilnetworks/vigil/src/config"
	"github.com/vigilnetworks/vigil/src/crypto/keys"
	"github.com/vigilnetworks/vigil/src/governance"
	"github.com/vigilnetworks/vigil/src/service"
)

// Vigil is the top-level engine. It assembles the block index, the operator
// key, the governance core and the HTTP service from a Config and the
// external collaborators the host node provides.
type Vigil struct {
	Config *config.Config

	// UTXO is the host node's chain-state view, used for collateral
	// validation.
	UTXO chain.UTXOView

	// Penalties and Broadcast connect proof intake to the host's peer
	// layer. Either may be nil.
	Penalties governance.PenaltySink
	Broadcast governance.Broadcaster

	Index      chain.Index
	Governance *governance.Governance
	Service    *service.Service
}

// NewVigil ...
func NewVigil(conf *config.Config, utxo chain.UTXOView) *Vigil {
	return &Vigil{
		Config: conf,
		UTXO:   utxo,
	}
}

func (v *Vigil) initIndex() error {
	logger := v.Config.Logger()

	if !v.Config.Store {
		v.Index = chain.NewInmemIndex()

		logger.Debug("Created new in-mem block index")

		return nil
	}

	logger.WithField("path", v.Config.DatabaseDir).Debug("Attempting to load or create database")

	if v.Config.Bootstrap {
		index, err := chain.LoadBadgerIndex(v.Config.DatabaseDir)
		if err != nil {
			return err
		}

		v.Index = index

		logger.WithField("head", index.Head()).Debug("Loaded badger index from existing database")

		return nil
	}

	index, err := chain.NewBadgerIndex(v.Config.DatabaseDir)
	if err != nil {
		return err
	}

	v.Index = index

	logger.Debug("Created new badger index from fresh database")

	return nil
}

func (v *Vigil) initKey() error {
	if v.Config.Key == nil {
		keyfile := keys.NewSimpleKeyfile(v.Config.Keyfile())

		privKey, err := keyfile.ReadKey()

		if err != nil {
			v.Config.Logger().Warn("Cannot read private key from file", err)

			privKey, err = Keygen(v.Config.Keyfile())

			if err != nil {
				v.Config.Logger().Error("Cannot generate a new private key", err)

				return err
			}

			v.Config.Logger().Info("Created a new key: ", keys.PubKeyID(privKey.PubKey()))
		}

		v.Config.Key = privKey
	}
	return nil
}

func (v *Vigil) initGovernance() error {
	if v.UTXO == nil {
		return fmt.Errorf("no UTXO view: collateral validation needs the host's chain state")
	}

	v.Governance = governance.NewGovernance(
		v.UTXO,
		v.Index,
		chain.NewMonotonicClock(),
		v.Config.Params,
		v.Penalties,
		v.Broadcast,
		v.Config.Logger(),
	)

	return nil
}

func (v *Vigil) initService() error {
	if !v.Config.NoService {
		v.Service = service.NewService(v.Config.ServiceAddr, v.Governance, v.Config.Logger())
	}
	return nil
}

// Init runs the engine's initialization steps in order.
func (v *Vigil) Init() error {
	if err := v.initIndex(); err != nil {
		return err
	}

	if err := v.initKey(); err != nil {
		return err
	}

	if err := v.initGovernance(); err != nil {
		return err
	}

	if err := v.initService(); err != nil {
		return err
	}

	return nil
}

// Run serves the HTTP API. This is a blocking call. The governance core
// itself is passive: it is driven by the host's chain-sync and peer-message
// hooks.
func (v *Vigil) Run() {
	if v.Service != nil {
		v.Service.Serve()
	}
}

// Operate enrolls a collateral as locally operated, signing its existence
// proofs with the configured operator key, and requests its election.
func (v *Vigil) Operate(op chain.Outpoint) error {
	if v.Config.Key == nil {
		return fmt.Errorf("no operator key configured")
	}

	if !v.Governance.StartOperating(op, keys.NewSigner(v.Config.Key)) {
		return fmt.Errorf("collateral %s does not validate", op.String())
	}

	v.Governance.RequestElection(op, true)

	return nil
}

// Keygen generates a new operator key and writes it to keyfilePath. It
// refuses to overwrite an existing key.
func Keygen(keyfilePath string) (*btcec.PrivateKey, error) {
	keyfile := keys.NewSimpleKeyfile(keyfilePath)

	_, err := keyfile.ReadKey()

	if err == nil {
		return nil, fmt.Errorf("another key already lives under %s", keyfilePath)
	}

	privKey, err := keys.GenerateKey()

	if err != nil {
		return nil, err
	}

	if err := keyfile.WriteKey(privKey); err != nil {
		return nil, err
	}

	return privKey, nil
}
