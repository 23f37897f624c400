// Package wallet provides the signing account used to submit moves.
//
// A Provider stands in for the wallet a browser would inject: it yields the
// account list and a transactor for the active account.
package wallet

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/ashureev/rps-labs/internal/config"
)

// ErrNotConfigured is returned by FromConfig when no key source is set.
var ErrNotConfigured = errors.New("no wallet configured")

// Provider yields accounts and a transaction signer.
type Provider interface {
	// RequestAccounts returns the accounts the wallet exposes, active first.
	RequestAccounts(ctx context.Context) ([]common.Address, error)

	// Signer returns transact options bound to the active account.
	Signer(ctx context.Context) (*bind.TransactOpts, error)
}

// ChainIDReader resolves the chain ID when it is not configured.
// *ethclient.Client satisfies it.
type ChainIDReader interface {
	ChainID(ctx context.Context) (*big.Int, error)
}

// KeyProvider signs with a single in-memory private key.
type KeyProvider struct {
	key     *ecdsa.PrivateKey
	address common.Address
	chainID *big.Int
	chain   ChainIDReader
}

// NewKeyProvider wraps key. chainID may be nil, in which case chain is asked
// on every Signer call.
func NewKeyProvider(key *ecdsa.PrivateKey, chainID *big.Int, chain ChainIDReader) *KeyProvider {
	return &KeyProvider{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
		chainID: chainID,
		chain:   chain,
	}
}

// RequestAccounts returns the single key's address.
func (p *KeyProvider) RequestAccounts(_ context.Context) ([]common.Address, error) {
	return []common.Address{p.address}, nil
}

// Signer returns a keyed transactor for the provider's chain.
func (p *KeyProvider) Signer(ctx context.Context) (*bind.TransactOpts, error) {
	chainID := p.chainID
	if chainID == nil {
		if p.chain == nil {
			return nil, errors.New("chain ID unknown: set CHAIN_ID or provide an RPC client")
		}
		id, err := p.chain.ChainID(ctx)
		if err != nil {
			return nil, fmt.Errorf("query chain id: %w", err)
		}
		chainID = id
	}
	opts, err := bind.NewKeyedTransactorWithChainID(p.key, chainID)
	if err != nil {
		return nil, fmt.Errorf("create transactor: %w", err)
	}
	return opts, nil
}

// Address returns the account the provider signs for.
func (p *KeyProvider) Address() common.Address {
	return p.address
}

// FromConfig builds a provider from the first configured key source.
func FromConfig(cfg config.WalletConfig, chainID *big.Int, chain ChainIDReader) (*KeyProvider, error) {
	var (
		key *ecdsa.PrivateKey
		err error
	)
	switch {
	case cfg.PrivateKey != "":
		key, err = crypto.HexToECDSA(cfg.PrivateKey)
		if err != nil {
			return nil, fmt.Errorf("parse private key: %w", err)
		}
	case cfg.KeystorePath != "":
		key, err = LoadKeystore(cfg.KeystorePath, cfg.Password)
		if err != nil {
			return nil, err
		}
	case cfg.Mnemonic != "":
		key, err = DeriveMnemonicKey(cfg.Mnemonic, cfg.Passphrase, cfg.HDPath)
		if err != nil {
			return nil, err
		}
	default:
		return nil, ErrNotConfigured
	}
	return NewKeyProvider(key, chainID, chain), nil
}
