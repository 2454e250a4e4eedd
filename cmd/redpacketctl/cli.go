package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/fastprodman/redpacket/internal/events"
	"github.com/fastprodman/redpacket/internal/ledger"
	"github.com/fastprodman/redpacket/internal/redpacket"
)

// newCLIApp creates the CLI application with all commands. Results are
// written to out as JSON.
func newCLIApp(out io.Writer) *cli.App {
	app := &cli.App{
		Name:    "redpacketctl",
		Usage:   "Create and claim lucky-money packets",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "server", Aliases: []string{"s"}, Value: "http://localhost:8080", EnvVars: []string{"REDPACKET_SERVER"}, Usage: "API base URL"},
			&cli.StringFlag{Name: "as", EnvVars: []string{"REDPACKET_AS"}, Usage: "Caller identity"},
			&cli.StringFlag{Name: "secret", EnvVars: []string{"AUTH_JWT_SECRET"}, Usage: "Token signing secret shared with the API"},
		},
		Writer: out,
		Commands: []*cli.Command{
			tokenCmd(out),
			createCmd(out),
			claimCmd(out),
			showCmd(out),
			hasClaimedCmd(out),
			eventsCmd(out),
			balanceCmd(out),
			depositCmd(out),
			simulateCmd(out),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}

	return app
}

func clientFrom(c *cli.Context) *client {
	return newClient(c.String("server"), c.String("secret"), c.String("as"))
}

func packetIDArg(c *cli.Context) (uint64, error) {
	if c.NArg() < 1 {
		return 0, errors.New("packet id required")
	}

	id, err := strconv.ParseUint(c.Args().First(), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid packet id %q", c.Args().First())
	}

	return id, nil
}

// writeRaw pretty-prints a JSON response body.
func writeRaw(out io.Writer, raw []byte) error {
	var buf bytes.Buffer

	err := json.Indent(&buf, bytes.TrimSpace(raw), "", "  ")
	if err != nil {
		return fmt.Errorf("format response: %w", err)
	}

	buf.WriteByte('\n')

	_, err = out.Write(buf.Bytes())

	return err
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

func tokenCmd(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Print a bearer token for --as",
		Flags: []cli.Flag{
			&cli.DurationFlag{Name: "ttl", Value: time.Hour, Usage: "Token lifetime"},
		},
		Action: func(c *cli.Context) error {
			cl := clientFrom(c)
			if cl.caller == "" {
				return errors.New("--as is required")
			}

			token, err := cl.auth.Issue(cl.caller, c.Duration("ttl"))
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(out, token)

			return err
		},
	}
}

func createCmd(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "create",
		Usage: "Fund a new packet from the caller's wallet",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "count", Aliases: []string{"n"}, Required: true, Usage: "Number of claims"},
			&cli.StringFlag{Name: "amount", Aliases: []string{"a"}, Required: true, Usage: "Deposit, e.g. 12.34"},
		},
		Action: func(c *cli.Context) error {
			raw, err := clientFrom(c).do(c.Context, http.MethodPost, "/packets",
				map[string]any{"count": c.Int64("count"), "amount": c.String("amount")}, true)
			if err != nil {
				return err
			}

			return writeRaw(out, raw)
		},
	}
}

func claimCmd(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "claim",
		Usage:     "Claim a share of a packet as --as",
		ArgsUsage: "<packet-id>",
		Action: func(c *cli.Context) error {
			id, err := packetIDArg(c)
			if err != nil {
				return err
			}

			raw, err := clientFrom(c).do(c.Context, http.MethodPost, fmt.Sprintf("/packets/%d/claim", id), nil, true)
			if err != nil {
				return err
			}

			return writeRaw(out, raw)
		},
	}
}

func showCmd(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show the state of a packet",
		ArgsUsage: "<packet-id>",
		Action: func(c *cli.Context) error {
			id, err := packetIDArg(c)
			if err != nil {
				return err
			}

			raw, err := clientFrom(c).do(c.Context, http.MethodGet, fmt.Sprintf("/packets/%d", id), nil, false)
			if err != nil {
				return err
			}

			return writeRaw(out, raw)
		},
	}
}

func hasClaimedCmd(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "has-claimed",
		Usage:     "Report whether an identity claimed a packet",
		ArgsUsage: "<packet-id> <identity>",
		Action: func(c *cli.Context) error {
			id, err := packetIDArg(c)
			if err != nil {
				return err
			}

			identity := c.Args().Get(1)
			if identity == "" {
				return errors.New("identity required")
			}

			raw, err := clientFrom(c).do(c.Context, http.MethodGet,
				fmt.Sprintf("/packets/%d/claims/%s", id, identity), nil, false)
			if err != nil {
				return err
			}

			return writeRaw(out, raw)
		},
	}
}

func eventsCmd(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "events",
		Usage:     "List the events of a packet",
		ArgsUsage: "<packet-id>",
		Action: func(c *cli.Context) error {
			id, err := packetIDArg(c)
			if err != nil {
				return err
			}

			raw, err := clientFrom(c).do(c.Context, http.MethodGet, fmt.Sprintf("/packets/%d/events", id), nil, false)
			if err != nil {
				return err
			}

			return writeRaw(out, raw)
		},
	}
}

func balanceCmd(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "balance",
		Usage:     "Show a wallet balance (defaults to --as)",
		ArgsUsage: "[wallet]",
		Action: func(c *cli.Context) error {
			wallet := c.Args().First()
			if wallet == "" {
				wallet = c.String("as")
			}

			if wallet == "" {
				return errors.New("wallet required")
			}

			raw, err := clientFrom(c).do(c.Context, http.MethodGet, "/wallets/"+wallet+"/balance", nil, false)
			if err != nil {
				return err
			}

			return writeRaw(out, raw)
		},
	}
}

func depositCmd(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "deposit",
		Usage: "Fund the caller's wallet",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "amount", Aliases: []string{"a"}, Required: true, Usage: "Amount, e.g. 12.34"},
			&cli.StringFlag{Name: "tx", Required: true, Usage: "Idempotency key"},
		},
		Action: func(c *cli.Context) error {
			cl := clientFrom(c)

			raw, err := cl.do(c.Context, http.MethodPost, "/wallets/"+cl.caller+"/deposit",
				map[string]string{"amount": c.String("amount"), "transactionId": c.String("tx")}, true)
			if err != nil {
				return err
			}

			return writeRaw(out, raw)
		},
	}
}

type simulatedClaim struct {
	Claimant string `json:"claimant"`
	Amount   string `json:"amount,omitempty"`
	Error    string `json:"error,omitempty"`
}

type simulation struct {
	Packet redpacket.Snapshot `json:"packet"`
	Claims []simulatedClaim   `json:"claims"`
	Events int                `json:"events"`
}

// simulateCmd runs a packet through the in-memory ledger without a server.
func simulateCmd(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "simulate",
		Usage: "Run a packet on an in-memory ledger and print every claim",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "count", Aliases: []string{"n"}, Value: 5, Usage: "Number of claims"},
			&cli.StringFlag{Name: "amount", Aliases: []string{"a"}, Value: "10.00", Usage: "Deposit"},
			&cli.IntFlag{Name: "claimants", Aliases: []string{"c"}, Usage: "Claimants to try (default count)"},
			&cli.StringSliceFlag{Name: "reject", Usage: "Claimants whose payouts fail"},
		},
		Action: func(c *cli.Context) error {
			amount, err := redpacket.ParseAmount(c.String("amount"))
			if err != nil {
				return err
			}

			claimants := c.Int("claimants")
			if claimants <= 0 {
				claimants = int(c.Int64("count"))
			}

			res, err := simulate(c, c.Int64("count"), amount, claimants, c.StringSlice("reject"))
			if err != nil {
				return err
			}

			return writeJSON(out, res)
		},
	}
}

func simulate(c *cli.Context, count, amount int64, claimants int, reject []string) (simulation, error) {
	vault := ledger.NewVault()
	for _, who := range reject {
		vault.Reject(who)
	}

	rec := events.NewRecorder()
	l := ledger.New(ledger.WithTransferer(vault), ledger.WithSink(rec))

	id, err := l.Create(c.Context, "simulator", count, amount)
	if err != nil {
		return simulation{}, err
	}

	res := simulation{Claims: make([]simulatedClaim, 0, claimants)}

	for i := range claimants {
		who := fmt.Sprintf("claimant-%d", i+1)

		claim := simulatedClaim{Claimant: who}

		_, err := l.Claim(c.Context, id, who)
		if err != nil {
			claim.Error = err.Error()
		}

		// the committed share, absent when the claim was reverted
		if got, ok := l.ClaimOf(id, who); ok {
			claim.Amount = redpacket.FormatAmount(got)
		}

		res.Claims = append(res.Claims, claim)
	}

	res.Packet, err = l.Query(c.Context, id)
	if err != nil {
		return simulation{}, err
	}

	res.Events = len(rec.All())

	return res, nil
}
