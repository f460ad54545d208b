package main

import (
	"fmt"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/spf13/cobra"

	seaswap "github.com/kaifufi/seaport-swap-sdk-go"
	"github.com/kaifufi/seaport-swap-sdk-go/chain"
)

func (cli *CLI) newCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an order and fulfill it in one go",
		Long: `Create signs a Seaport order offering the --offer items for the --consider
items and immediately fulfills it from the same account. The signed order is
stored in the record store; a storage failure is logged but does not fail the
command.

Item specs:
  native:<amount>               ETH, e.g. native:0.5
  weth:<amount>                 wrapped ETH
  erc20:<token>:<amount>        e.g. erc20:0xA0b8...:100.25
  erc721:<token>:<id>
  erc1155:<token>:<id>:<count>`,
		Args: cobra.NoArgs,
		RunE: cli.runCreate,
	}

	cmd.Flags().Int(flagChainID, int(seaswap.ChainIDMainnet), "chain id (1 mainnet, 5 goerli)")
	cmd.Flags().String(flagRPCURL, "", "JSON-RPC endpoint")
	cmd.Flags().String(flagPrivateKey, "", "hex private key of the signing account")
	cmd.Flags().String(flagSeaport, "", "Seaport contract address (defaults to the canonical one)")
	cmd.Flags().String(flagConduitKey, "", "conduit key; empty approves Seaport directly")
	cmd.Flags().String(flagConduit, "", "conduit address, required with --conduit-key")
	cmd.Flags().Float64(flagRateLimit, 0, "record store requests per second; 0 is unlimited")
	cmd.Flags().StringArray(flagOffer, nil, "offered item spec (repeatable)")
	cmd.Flags().StringArray(flagConsider, nil, "considered item spec (repeatable)")
	cmd.Flags().String(flagDuration, "forever", "order lifetime: 1d, 3d, 7d, 30d, forever or seconds")
	cmd.Flags().Bool(flagWETH, false, "trade wrapped ETH instead of native ETH")
	cmd.Flags().BoolP(flagYes, "y", false, "sign without asking")
	cmd.Flags().Bool(flagWait, false, "wait for the fulfillment to be mined")
	return cmd
}

func (cli *CLI) runCreate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	var confirmer chain.Confirmer
	if !cli.v.GetBool(flagYes) {
		confirmer = newPromptConfirmer(cmd.InOrStdin(), out)
	}
	cfg, err := clientConfig(cli.v, cli.logger, confirmer)
	if err != nil {
		return err
	}
	duration, err := seaswap.ParseDuration(cli.v.GetString(flagDuration))
	if err != nil {
		return err
	}

	client, err := seaswap.NewClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	mode := seaswap.CurrencyModeNative
	if cli.v.GetBool(flagWETH) {
		mode = seaswap.CurrencyModeWrapped
	}
	session := client.NewSession(mode)
	session.SetDuration(duration)

	parser := itemParser{
		wrappedNative: client.Contracts().WrappedNative,
		decimals:      client.TokenDecimals,
	}
	if err := addItems(cmd, parser, session, seaswap.SideOffer, cli.v.GetStringSlice(flagOffer)); err != nil {
		return err
	}
	if err := addItems(cmd, parser, session, seaswap.SideConsideration, cli.v.GetStringSlice(flagConsider)); err != nil {
		return err
	}

	res, err := session.Submit(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "record:      %s\n", res.Record.ID)
	fmt.Fprintf(out, "fulfillment: %s\n", res.Transaction.Hash().Hex())

	if !cli.v.GetBool(flagWait) {
		return nil
	}
	receipt, err := client.WaitMined(ctx, res.Transaction)
	if err != nil {
		return err
	}
	status := "reverted"
	if receipt.Status == types.ReceiptStatusSuccessful {
		status = "success"
	}
	fmt.Fprintf(out, "mined:       block %s, %s\n", receipt.BlockNumber, status)
	return nil
}

func addItems(cmd *cobra.Command, parser itemParser, session *seaswap.Session, side seaswap.Side, specs []string) error {
	for _, spec := range specs {
		item, err := parser.parse(cmd.Context(), spec)
		if err != nil {
			return err
		}
		if !session.Add(side, item) {
			return fmt.Errorf("%s item %q is not allowed in %s mode", side, spec, session.Mode())
		}
	}
	return nil
}
