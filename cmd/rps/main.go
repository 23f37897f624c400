// rps plays the Rock-Paper-Scissors contract from the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"os/signal"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/joho/godotenv"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/ashureev/rps-labs/internal/config"
	"github.com/ashureev/rps-labs/internal/contract"
	"github.com/ashureev/rps-labs/internal/game"
	"github.com/ashureev/rps-labs/internal/wallet"
)

type globalFlags struct {
	RPCURL   string
	Contract string
	ChainID  uint64
	Verbose  bool
}

var flags globalFlags

var rootCmd = &cobra.Command{
	Use:   "rps",
	Short: "Play the Rock-Paper-Scissors contract",
	Long: `rps connects the configured wallet to the RPS contract, submits moves
and shows the game history.

The wallet comes from WALLET_PRIVATE_KEY, WALLET_KEYSTORE or WALLET_MNEMONIC
(environment or .env).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := pterm.LogLevelWarn
		if flags.Verbose {
			level = pterm.LogLevelDebug
		}
		logger := pterm.DefaultLogger.WithLevel(level).WithWriter(os.Stderr)
		slog.SetDefault(slog.New(pterm.NewSlogHandler(logger)))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flags.RPCURL, "rpc", "", "JSON-RPC endpoint (default $RPC_URL)")
	rootCmd.PersistentFlags().StringVar(&flags.Contract, "contract", "", "RPS contract address (default $CONTRACT_ADDRESS)")
	rootCmd.PersistentFlags().Uint64Var(&flags.ChainID, "chain-id", 0, "chain ID (default $CHAIN_ID or the endpoint's)")
	rootCmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "log debug output")

	rootCmd.AddCommand(playCmd, historyCmd, accountCmd, doCmd)
}

func main() {
	if err := godotenv.Load(); err == nil {
		slog.Debug("Loaded .env")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if msg := errorMessage(err); msg != "" {
			pterm.Error.Println(msg)
		} else {
			slog.Debug("Command failed", "error", err)
		}
		os.Exit(1)
	}
}

// loadConfig applies command-line overrides on top of the environment.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flags.RPCURL != "" {
		cfg.RPCURL = flags.RPCURL
	}
	if flags.Contract != "" {
		cfg.ContractAddress = flags.Contract
	}
	if flags.ChainID != 0 {
		cfg.ChainID = new(big.Int).SetUint64(flags.ChainID)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// client bundles the shell and the connection it runs over.
type client struct {
	shell   *game.Shell
	account common.Address
	close   func()
}

// newClient builds a shell for the configured wallet. A missing wallet is
// not an error here: Connect reports it as a notice.
func newClient(ctx context.Context) (*client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	eth, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", cfg.RPCURL, err)
	}

	c := &client{close: eth.Close}
	opts := game.Options{
		Bind: func(_ context.Context, signer *bind.TransactOpts) (game.Contract, error) {
			return contract.New(cfg.Contract(), eth, signer), nil
		},
		Notifier: game.NotifierFunc(func(msg string) { pterm.Error.Println(msg) }),
	}

	keyProvider, err := wallet.FromConfig(cfg.Wallet, cfg.ChainID, eth)
	switch {
	case errors.Is(err, wallet.ErrNotConfigured):
	case err != nil:
		eth.Close()
		return nil, err
	default:
		opts.Provider = keyProvider
		c.account = keyProvider.Address()
	}

	c.shell = game.NewShell(opts)
	return c, nil
}
