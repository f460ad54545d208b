package main

import (
	"bytes"
	"context"
	"math/big"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	dbm "github.com/tendermint/tm-db"
	"gopkg.in/yaml.v3"

	seaswap "github.com/kaifufi/seaport-swap-sdk-go"
	"github.com/kaifufi/seaport-swap-sdk-go/chain"
	"github.com/kaifufi/seaport-swap-sdk-go/internal/recordstore"
	"github.com/kaifufi/seaport-swap-sdk-go/log"
)

func storeTestRecord(t *testing.T) (string, *seaswap.OrderRecord) {
	t.Helper()

	cfg := recordstore.DefaultConfig()
	cfg.MetricsPath = ""
	srv := recordstore.NewServer(cfg, recordstore.NewStore(dbm.NewMemDB()), log.NewNopLogger(), nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	signature := "0x" + string(bytes.Repeat([]byte("ab"), 65))
	record := &seaswap.OrderRecord{
		ID: seaswap.RecordID(signature),
		Order: &seaswap.SignedOrder{
			Parameters: chain.OrderParameters{Offerer: "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", Counter: "3"},
			Signature:  signature,
		},
		Offers:         []seaswap.Item{seaswap.NewNativeItem(big.NewInt(5))},
		Considerations: []seaswap.Item{seaswap.NewERC721Item(testNFT, "9")},
	}
	api := seaswap.NewAPIClient(ts.URL, time.Second, 0)
	require.NoError(t, api.CreateOrderRecord(context.Background(), record))
	return ts.URL, record
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cli := NewCLI()
	var out bytes.Buffer
	cli.root.SetOut(&out)
	cli.root.SetErr(&bytes.Buffer{})
	cli.root.SetArgs(append(args, "--home", t.TempDir()))
	err := cli.Run(context.Background())
	return out.String(), err
}

func TestRecordsGetJSON(t *testing.T) {
	host, record := storeTestRecord(t)

	out, err := runCLI(t, "records", "get", record.ID, "--host", host)
	require.NoError(t, err)
	assert.Contains(t, out, `"id": "`+record.ID+`"`)
	assert.Contains(t, out, `"signature": "`+record.Order.Signature+`"`)
}

func TestRecordsGetYAML(t *testing.T) {
	host, record := storeTestRecord(t)

	out, err := runCLI(t, "records", "get", record.ID, "--host", host, "-o", "yaml")
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, record.ID, doc["id"])
	assert.Len(t, doc["offers"], 1)
	assert.Len(t, doc["considerations"], 1)
}

func TestRecordsGetErrors(t *testing.T) {
	host, _ := storeTestRecord(t)

	_, err := runCLI(t, "records", "get", "12345", "--host", host)
	require.ErrorIs(t, err, seaswap.ErrRecordNotFound)

	_, err = runCLI(t, "records", "get", "1", "--host", host, "-o", "toml")
	require.Error(t, err)
}

func TestCreateRequiresRPC(t *testing.T) {
	t.Setenv("SEASWAP_RPC_URL", "")
	t.Setenv("SEASWAP_PRIVATE_KEY", "")

	_, err := runCLI(t, "create", "--offer", "native:1", "--consider", "erc721:"+testNFT+":1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--rpc-url")
}
