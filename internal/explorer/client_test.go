package explorer

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_UnsupportedChain(t *testing.T) {
	_, err := NewClient("SOLANA", "key")
	assert.ErrorIs(t, err, ErrUnsupportedChain)
}

func TestNewClient_KnownChains(t *testing.T) {
	for _, chain := range []string{"BSC", "ETH", "bsc", " eth "} {
		c, err := NewClient(chain, "key")
		require.NoError(t, err, "chain %q", chain)
		assert.NotEmpty(t, c.BaseURL)
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient("BSC", "test-key")
	require.NoError(t, err)
	c.BaseURL = srv.URL
	return c
}

func TestGetSourceCode_Verified(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "getsourcecode", r.URL.Query().Get("action"))
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		fmt.Fprint(w, `{
			"status": "1",
			"message": "OK",
			"result": [{"SourceCode": "contract Pepe {}", "ContractName": "Pepe"}]
		}`)
	})

	info, err := c.GetSourceCode(context.Background(), "0xtoken")
	require.NoError(t, err)
	assert.True(t, info.Verified)
	assert.Equal(t, "Pepe", info.ContractName)
}

func TestGetSourceCode_Unverified(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{
			"status": "1",
			"message": "OK",
			"result": [{"SourceCode": "", "ContractName": ""}]
		}`)
	})

	info, err := c.GetSourceCode(context.Background(), "0xtoken")
	require.NoError(t, err)
	assert.False(t, info.Verified)
}

func TestGetSourceCode_StatusZero(t *testing.T) {
	// Status "0" carries a message string in result, not a list.
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"status": "0", "message": "NOTOK", "result": "Max rate limit reached"}`)
	})

	info, err := c.GetSourceCode(context.Background(), "0xtoken")
	require.NoError(t, err)
	assert.False(t, info.Verified)
}

func TestGetContractCreation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "getcontractcreation", r.URL.Query().Get("action"))
		fmt.Fprint(w, `{
			"status": "1",
			"message": "OK",
			"result": [{"contractAddress": "0xtoken", "contractCreator": "0xcreator", "txHash": "0xtx"}]
		}`)
	})

	info, err := c.GetContractCreation(context.Background(), "0xtoken")
	require.NoError(t, err)
	assert.Equal(t, "0xcreator", info.CreatorAddress)
	assert.Equal(t, "0xtx", info.TxHash)
}

func TestGet_HTTPError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := c.GetSourceCode(context.Background(), "0xtoken")
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.StatusCode)
}
