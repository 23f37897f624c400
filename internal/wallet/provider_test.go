package wallet

import (
	"context"
	"encoding/hex"
	"errors"
	"math/big"
	"os"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashureev/rps-labs/internal/config"
)

const hardhatMnemonic = "test test test test test test test test test test test junk"

type fakeChain struct {
	id  *big.Int
	err error
	n   int
}

func (f *fakeChain) ChainID(_ context.Context) (*big.Int, error) {
	f.n++
	return f.id, f.err
}

func TestKeyProvider_RequestAccounts(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	p := NewKeyProvider(key, big.NewInt(1), nil)
	accounts, err := p.RequestAccounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []common.Address{crypto.PubkeyToAddress(key.PublicKey)}, accounts)
}

func TestKeyProvider_SignerUsesConfiguredChainID(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	chain := &fakeChain{id: big.NewInt(5)}

	opts, err := NewKeyProvider(key, big.NewInt(11155111), chain).Signer(context.Background())
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey), opts.From)
	assert.Zero(t, chain.n)
}

func TestKeyProvider_SignerQueriesChain(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	chain := &fakeChain{id: big.NewInt(31337)}
	_, err = NewKeyProvider(key, nil, chain).Signer(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, chain.n)

	failing := &fakeChain{err: errors.New("dial tcp: refused")}
	_, err = NewKeyProvider(key, nil, failing).Signer(context.Background())
	assert.ErrorContains(t, err, "refused")

	_, err = NewKeyProvider(key, nil, nil).Signer(context.Background())
	assert.Error(t, err)
}

func TestDeriveMnemonicKey(t *testing.T) {
	key, err := DeriveMnemonicKey(hardhatMnemonic, "", config.DefaultHDPath)
	require.NoError(t, err)
	assert.Equal(t,
		common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"),
		crypto.PubkeyToAddress(key.PublicKey))

	second, err := DeriveMnemonicKey(hardhatMnemonic, "", "m/44'/60'/0'/0/1")
	require.NoError(t, err)
	assert.Equal(t,
		common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8"),
		crypto.PubkeyToAddress(second.PublicKey))
}

func TestDeriveMnemonicKey_Invalid(t *testing.T) {
	_, err := DeriveMnemonicKey("not a mnemonic", "", config.DefaultHDPath)
	assert.Error(t, err)

	_, err = DeriveMnemonicKey(hardhatMnemonic, "", "m/x")
	assert.Error(t, err)
}

func TestLoadKeystore(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	ks := keystore.NewKeyStore(t.TempDir(), keystore.LightScryptN, keystore.LightScryptP)
	account, err := ks.ImportECDSA(key, "secret")
	require.NoError(t, err)

	loaded, err := LoadKeystore(account.URL.Path, "secret")
	require.NoError(t, err)
	assert.Equal(t, account.Address, crypto.PubkeyToAddress(loaded.PublicKey))

	_, err = LoadKeystore(account.URL.Path, "wrong")
	assert.Error(t, err)

	_, err = LoadKeystore(account.URL.Path+".missing", "secret")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFromConfig(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	p, err := FromConfig(config.WalletConfig{PrivateKey: hex.EncodeToString(crypto.FromECDSA(key))}, big.NewInt(1), nil)
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey), p.Address())

	p, err = FromConfig(config.WalletConfig{Mnemonic: hardhatMnemonic, HDPath: config.DefaultHDPath}, big.NewInt(1), nil)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"), p.Address())

	_, err = FromConfig(config.WalletConfig{}, nil, nil)
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = FromConfig(config.WalletConfig{PrivateKey: "zz"}, nil, nil)
	assert.Error(t, err)
}
