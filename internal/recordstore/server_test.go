package recordstore

import (
	"bytes"
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fortytw2/leaktest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	dbm "github.com/tendermint/tm-db"

	seaswap "github.com/kaifufi/seaport-swap-sdk-go"
	"github.com/kaifufi/seaport-swap-sdk-go/chain"
	"github.com/kaifufi/seaport-swap-sdk-go/log"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := DefaultConfig()
	cfg.MetricsPath = ""
	srv := NewServer(cfg, NewStore(dbm.NewMemDB()), log.NewNopLogger(), nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func testRecord() *seaswap.OrderRecord {
	signature := "0x" + string(bytes.Repeat([]byte("cd"), 65))
	return &seaswap.OrderRecord{
		ID: seaswap.RecordID(signature),
		Order: &seaswap.SignedOrder{
			Parameters: chain.OrderParameters{
				Offerer: "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266",
				Counter: "0",
			},
			Signature: signature,
		},
		Offers:         []seaswap.Item{seaswap.NewNativeItem(big.NewInt(1))},
		Considerations: []seaswap.Item{seaswap.NewERC721Item("0x5180db8F5c931aaE63c74266b211F580155ecac8", "1")},
	}
}

func TestServerRoundTripsRecordsThroughClient(t *testing.T) {
	ts := newTestServer(t)
	client := seaswap.NewAPIClient(ts.URL, time.Second, 0)
	record := testRecord()

	require.NoError(t, client.CreateOrderRecord(context.Background(), record))

	got, err := client.GetOrderRecord(context.Background(), record.ID)
	require.NoError(t, err)
	assert.Equal(t, record, got)

	// records are never overwritten
	require.Error(t, client.CreateOrderRecord(context.Background(), record))

	_, err = client.GetOrderRecord(context.Background(), "12345")
	require.ErrorIs(t, err, seaswap.ErrRecordNotFound)
}

func TestServerRejectsBadRecords(t *testing.T) {
	ts := newTestServer(t)

	testCases := map[string]struct {
		body string
		code int
	}{
		"not json":   {`{`, http.StatusBadRequest},
		"missing id": {`{"order":null,"offers":[],"considerations":[]}`, http.StatusBadRequest},
		"blank id":   {`{"id":"  "}`, http.StatusBadRequest},
		"ok":         {`{"id":"1","order":null,"offers":[],"considerations":[]}`, http.StatusCreated},
		"duplicate":  {`{"id":"1"}`, http.StatusConflict},
	}

	for _, name := range []string{"not json", "missing id", "blank id", "ok", "duplicate"} {
		tc := testCases[name]
		resp, err := http.Post(ts.URL+"/api/orders", "application/json", bytes.NewBufferString(tc.body))
		require.NoError(t, err, name)
		resp.Body.Close()
		assert.Equal(t, tc.code, resp.StatusCode, name)
	}
}

func TestServerCreatedResponse(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/orders", "application/json", bytes.NewBufferString(`{"id":"-42"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var ack map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ack))
	assert.Equal(t, "-42", ack["id"])
}

func TestServerMethodsAndCORS(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/orders")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/orders/nope", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://example.com")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	t.Cleanup(leaktest.Check(t))

	cfg := DefaultConfig()
	cfg.ListenAddr = "127.0.0.1:0"
	cfg.MetricsPath = ""
	srv := NewServer(cfg, NewStore(dbm.NewMemDB()), log.NewNopLogger(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
