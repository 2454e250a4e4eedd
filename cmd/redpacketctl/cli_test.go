package main

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fastprodman/redpacket/internal/api"
	"github.com/fastprodman/redpacket/internal/events"
	"github.com/fastprodman/redpacket/internal/ledger"
	"github.com/fastprodman/redpacket/internal/redpacket"
)

const testSecret = "cli-secret"

func newTestServer(t *testing.T) string {
	t.Helper()

	vault := ledger.NewVault()
	rec := events.NewRecorder()
	l := ledger.NewGuarded(ledger.New(
		ledger.WithTransferer(vault),
		ledger.WithFunder(vault),
		ledger.WithSink(rec),
	))

	srv := httptest.NewServer(api.NewRouter(api.NewHandler(l, rec, vault), api.NewAuthenticator(testSecret), []string{"*"}))
	t.Cleanup(srv.Close)

	return srv.URL
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	err := newCLIApp(&out).Run(append([]string{"redpacketctl"}, args...))

	return out.String(), err
}

func TestCLI_RemoteFlow(t *testing.T) {
	t.Parallel()

	base := newTestServer(t)
	global := []string{"--server", base, "--secret", testSecret}

	as := func(who string, args ...string) []string {
		return append(append(append([]string{}, global...), "--as", who), args...)
	}

	_, err := runCLI(t, as("alice", "deposit", "--amount", "5.00", "--tx", "t1")...)
	require.NoError(t, err)

	out, err := runCLI(t, as("alice", "balance")...)
	require.NoError(t, err)
	require.Contains(t, out, `"5.00"`)

	out, err = runCLI(t, as("alice", "create", "--count", "2", "--amount", "1.50")...)
	require.NoError(t, err)

	var created struct {
		ID uint64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	require.Equal(t, uint64(1), created.ID)

	_, err = runCLI(t, as("bob", "claim", "1")...)
	require.NoError(t, err)

	_, err = runCLI(t, as("bob", "claim", "1")...)
	require.ErrorIs(t, err, ErrRequestFailed)
	require.ErrorContains(t, err, "409")

	out, err = runCLI(t, append(global, "has-claimed", "1", "bob")...)
	require.NoError(t, err)
	require.Contains(t, out, `"claimed": true`)

	_, err = runCLI(t, as("carol", "claim", "1")...)
	require.NoError(t, err)

	out, err = runCLI(t, append(global, "show", "1")...)
	require.NoError(t, err)
	require.Contains(t, out, `"finished": true`)
	require.Contains(t, out, `"remainingAmount": "0.00"`)

	out, err = runCLI(t, append(global, "events", "1")...)
	require.NoError(t, err)
	require.Equal(t, 4, strings.Count(out, `"kind"`))

	_, err = runCLI(t, append(global, "show", "7")...)
	require.ErrorContains(t, err, "404")
}

func TestCLI_Errors(t *testing.T) {
	t.Parallel()

	base := newTestServer(t)

	_, err := runCLI(t, "--server", base, "--secret", testSecret, "claim", "1")
	require.ErrorContains(t, err, "--as is required")

	_, err = runCLI(t, "--server", base, "show", "abc")
	require.ErrorContains(t, err, "invalid packet id")

	_, err = runCLI(t, "--server", base, "show")
	require.ErrorContains(t, err, "packet id required")

	_, err = runCLI(t, "--server", base, "--as", "alice", "--secret", "wrong", "claim", "1")
	require.ErrorContains(t, err, "401")
}

func TestCLI_Token(t *testing.T) {
	t.Parallel()

	out, err := runCLI(t, "--secret", testSecret, "--as", "alice", "token")
	require.NoError(t, err)

	who, err := api.NewAuthenticator(testSecret).Identify(strings.TrimSpace(out))
	require.NoError(t, err)
	require.Equal(t, "alice", who)
}

func TestCLI_Simulate(t *testing.T) {
	t.Parallel()

	out, err := runCLI(t, "simulate", "--count", "3", "--amount", "1.00", "--claimants", "5", "--reject", "claimant-2")
	require.NoError(t, err)

	var res simulation
	require.NoError(t, json.Unmarshal([]byte(out), &res))

	require.Len(t, res.Claims, 5)
	require.Contains(t, res.Claims[1].Error, "transfer failed")
	require.Empty(t, res.Claims[0].Error)
	require.Empty(t, res.Claims[2].Error)
	require.Empty(t, res.Claims[3].Error)
	require.Contains(t, res.Claims[4].Error, "already finished")
	require.Empty(t, res.Claims[1].Amount)
	require.Empty(t, res.Claims[4].Amount)

	var paid int64

	for _, i := range []int{0, 2, 3} {
		got, err := redpacket.ParseAmount(res.Claims[i].Amount)
		require.NoError(t, err)

		paid += got
	}

	require.Equal(t, int64(100), paid)

	require.True(t, res.Packet.Finished)
	require.Zero(t, res.Packet.RemainingAmount)
	// created + 3 claimed + finished
	require.Equal(t, 5, res.Events)
}
