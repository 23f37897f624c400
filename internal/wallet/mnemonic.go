package wallet

import (
	"crypto/ecdsa"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/tyler-smith/go-bip39"
)

// DeriveMnemonicKey derives the private key at path (for example
// m/44'/60'/0'/0/0) from a BIP-39 mnemonic and optional passphrase.
func DeriveMnemonicKey(mnemonic, passphrase, path string) (*ecdsa.PrivateKey, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, errors.New("invalid mnemonic")
	}
	derivation, err := accounts.ParseDerivationPath(path)
	if err != nil {
		return nil, fmt.Errorf("parse derivation path %q: %w", path, err)
	}

	seed := bip39.NewSeed(mnemonic, passphrase)
	// The network params only tag the serialized key; derivation is the same.
	key, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, fmt.Errorf("create master key: %w", err)
	}
	for _, index := range derivation {
		key, err = key.Derive(index)
		if err != nil {
			return nil, fmt.Errorf("derive %s: %w", derivation.String(), err)
		}
	}

	priv, err := key.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("extract private key: %w", err)
	}
	return priv.ToECDSA(), nil
}
