package main

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	seaswap "github.com/kaifufi/seaport-swap-sdk-go"
	"github.com/kaifufi/seaport-swap-sdk-go/chain"
	"github.com/kaifufi/seaport-swap-sdk-go/log"
)

const (
	flagHome      = "home"
	flagLogLevel  = "log-level"
	flagLogFormat = "log-format"
	flagHost      = "host"

	flagChainID     = "chain-id"
	flagRPCURL      = "rpc-url"
	flagPrivateKey  = "private-key"
	flagSeaport     = "seaport"
	flagConduitKey  = "conduit-key"
	flagConduit     = "conduit"
	flagRateLimit   = "rate-limit"
	flagOffer       = "offer"
	flagConsider    = "consider"
	flagDuration    = "duration"
	flagWETH        = "weth"
	flagYes         = "yes"
	flagWait        = "wait"
	flagOutput      = "output"
	flagListen      = "listen"
	flagDBDir       = "db-dir"
	flagCORSOrigins = "cors-origins"
	flagMetricsPath = "metrics-path"
)

// clientConfig assembles the SDK configuration from v
func clientConfig(v *viper.Viper, logger log.Logger, confirmer chain.Confirmer) (seaswap.ClientConfig, error) {
	chainID := seaswap.ChainID(v.GetInt(flagChainID))
	if chainID == 0 {
		chainID = seaswap.ChainIDMainnet
	}

	cfg := seaswap.ClientConfig{
		Host:                    v.GetString(flagHost),
		ChainID:                 chainID,
		RPCURL:                  v.GetString(flagRPCURL),
		PrivateKey:              strings.TrimSpace(v.GetString(flagPrivateKey)),
		SeaportAddr:             v.GetString(flagSeaport),
		ConduitKey:              v.GetString(flagConduitKey),
		ConduitAddr:             v.GetString(flagConduit),
		RecordRequestsPerSecond: v.GetFloat64(flagRateLimit),
		Confirmer:               confirmer,
		Logger:                  logger,
	}
	if cfg.RPCURL == "" {
		return cfg, fmt.Errorf("--%s (or %s_RPC_URL) is required", flagRPCURL, envPrefix)
	}
	if cfg.PrivateKey == "" {
		return cfg, fmt.Errorf("--%s (or %s_PRIVATE_KEY) is required", flagPrivateKey, envPrefix)
	}
	return cfg, nil
}
