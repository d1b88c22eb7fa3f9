package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var (
	baseURL string
	timeout time.Duration
	token   string
)

// bcryptGenerate is swapped out in tests.
var bcryptGenerate = bcrypt.GenerateFromPassword

func main() {
	rootCmd := &cobra.Command{
		Use:   "minimint",
		Short: "The Mini Mint CLI",
		Long:  `A command line interface for the family ledger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("MINIMINT_TOKEN"), "Bearer token (defaults to MINIMINT_TOKEN)")

	rootCmd.AddCommand(
		authCmd(),
		memberCmd(),
		depositCmd(),
		withdrawCmd(),
		transferCmd(),
		spendCmd(),
		accrueCmd(),
		lotCmd(),
		stockCmd(),
		snapshotCmd(),
		settingsCmd(),
		priceCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authentication",
	}

	login := &cobra.Command{
		Use:   "login <email> <password>",
		Short: "Log in and print a token",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return apiRequest(http.MethodPost, "/api/v1/auth/login", map[string]string{
				"email":    args[0],
				"password": args[1],
			})
		},
	}

	register := &cobra.Command{
		Use:   "register <email> <name> <password> <role>",
		Short: "Register a user (role: parent or viewer)",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return apiRequest(http.MethodPost, "/api/v1/auth/register", map[string]string{
				"email":    args[0],
				"name":     args[1],
				"password": args[2],
				"role":     args[3],
			})
		},
	}

	cmd.AddCommand(login, register, hashPasswordCmd())
	return cmd
}

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print a bcrypt hash for seeding users by hand",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := bcryptGenerate([]byte(args[0]), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			fmt.Println(string(hash))
			return nil
		},
	}
}

func memberCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "member",
		Short: "Members",
	}

	var nickname string
	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return apiRequest(http.MethodPost, "/api/v1/members", map[string]string{
				"name":     args[0],
				"nickname": nickname,
			})
		},
	}
	create.Flags().StringVar(&nickname, "nickname", "", "Display nickname")

	list := &cobra.Command{
		Use:   "list",
		Short: "List members",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return apiRequest(http.MethodGet, "/api/v1/members", nil)
		},
	}

	balances := &cobra.Command{
		Use:   "balances <member-id>",
		Short: "Show bucket balances",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return apiRequest(http.MethodGet, "/api/v1/members/"+args[0]+"/balances", nil)
		},
	}

	portfolio := &cobra.Command{
		Use:   "portfolio <member-id>",
		Short: "Show full portfolio",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return apiRequest(http.MethodGet, "/api/v1/members/"+args[0]+"/portfolio", nil)
		},
	}

	entries := &cobra.Command{
		Use:   "entries <member-id>",
		Short: "List recent entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printEntries(args[0])
		},
	}

	cmd.AddCommand(create, list, balances, portfolio, entries)
	return cmd
}

func depositCmd() *cobra.Command {
	var note string
	cmd := &cobra.Command{
		Use:   "deposit <member-id> <amount>",
		Short: "Deposit cash",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return apiRequest(http.MethodPost, "/api/v1/members/"+args[0]+"/deposit", map[string]string{
				"amount": args[1],
				"note":   note,
			})
		},
	}
	cmd.Flags().StringVar(&note, "note", "", "Entry note")
	return cmd
}

func withdrawCmd() *cobra.Command {
	var note string
	cmd := &cobra.Command{
		Use:   "withdraw <member-id> <amount>",
		Short: "Withdraw cash",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return apiRequest(http.MethodPost, "/api/v1/members/"+args[0]+"/withdraw", map[string]string{
				"amount": args[1],
				"note":   note,
			})
		},
	}
	cmd.Flags().StringVar(&note, "note", "", "Entry note")
	return cmd
}

func transferCmd() *cobra.Command {
	var note string
	cmd := &cobra.Command{
		Use:   "transfer <member-id> <from-bucket> <to-bucket> <amount>",
		Short: "Move money between buckets",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return apiRequest(http.MethodPost, "/api/v1/members/"+args[0]+"/transfer", map[string]string{
				"from_bucket": args[1],
				"to_bucket":   args[2],
				"amount":      args[3],
				"note":        note,
			})
		},
	}
	cmd.Flags().StringVar(&note, "note", "", "Entry note")
	return cmd
}

func spendCmd() *cobra.Command {
	var note, source string
	cmd := &cobra.Command{
		Use:   "spend <member-id> <amount>",
		Short: "Record money leaving the household",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return apiRequest(http.MethodPost, "/api/v1/members/"+args[0]+"/spend", map[string]string{
				"amount": args[1],
				"source": source,
				"note":   note,
			})
		},
	}
	cmd.Flags().StringVar(&note, "note", "", "Entry note")
	cmd.Flags().StringVar(&source, "source", "cash", "Bucket to spend from")
	return cmd
}

func accrueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "accrue <member-id>",
		Short: "Credit savings interest since the last accrual",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return apiRequest(http.MethodPost, "/api/v1/members/"+args[0]+"/accrue", map[string]string{})
		},
	}
}

func lotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lot",
		Short: "Term deposits",
	}

	var note string
	var term int
	open := &cobra.Command{
		Use:   "open <member-id> <principal>",
		Short: "Lock cash into a term deposit",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return apiRequest(http.MethodPost, "/api/v1/members/"+args[0]+"/lots", map[string]any{
				"principal":   args[1],
				"term_months": term,
				"note":        note,
			})
		},
	}
	open.Flags().IntVar(&term, "term", 3, "Term length in months (3, 6 or 12)")
	open.Flags().StringVar(&note, "note", "", "Entry note")

	list := &cobra.Command{
		Use:   "list <member-id>",
		Short: "List a member's lots",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return apiRequest(http.MethodGet, "/api/v1/members/"+args[0]+"/lots", nil)
		},
	}

	mature := &cobra.Command{
		Use:   "mature <lot-id>",
		Short: "Pay out a lot that has reached maturity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return apiRequest(http.MethodPost, "/api/v1/lots/"+args[0]+"/mature", map[string]string{})
		},
	}

	breakCmd := &cobra.Command{
		Use:   "break <lot-id>",
		Short: "Close a lot early, applying the penalty",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return apiRequest(http.MethodPost, "/api/v1/lots/"+args[0]+"/break", map[string]string{})
		},
	}

	cmd.AddCommand(open, list, mature, breakCmd)
	return cmd
}

func stockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stock",
		Short: "Stock trading",
	}

	var note string
	buy := &cobra.Command{
		Use:   "buy <member-id> <symbol> <dollars>",
		Short: "Buy a dollar amount of a symbol",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return apiRequest(http.MethodPost, "/api/v1/members/"+args[0]+"/buy", map[string]string{
				"symbol":  args[1],
				"dollars": args[2],
				"note":    note,
			})
		},
	}
	buy.Flags().StringVar(&note, "note", "", "Entry note")

	var sellDollars string
	sell := &cobra.Command{
		Use:   "sell <member-id> <symbol>",
		Short: "Sell a dollar amount (or everything) of a symbol",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{"symbol": args[1]}
			if sellDollars != "" {
				body["dollars"] = sellDollars
			}
			return apiRequest(http.MethodPost, "/api/v1/members/"+args[0]+"/sell", body)
		},
	}
	sell.Flags().StringVar(&sellDollars, "dollars", "", "Dollar amount to sell; omit to sell the whole position")

	positions := &cobra.Command{
		Use:   "positions <member-id>",
		Short: "List open positions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return apiRequest(http.MethodGet, "/api/v1/members/"+args[0]+"/positions", nil)
		},
	}

	cmd.AddCommand(buy, sell, positions)
	return cmd
}

func snapshotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot <member-id> <source> <total>",
		Short: "Report an external counter total",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return apiRequest(http.MethodPost, "/api/v1/members/"+args[0]+"/snapshots", map[string]string{
				"source": args[1],
				"total":  args[2],
			})
		},
	}
}

func settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Rates and limits",
	}

	get := &cobra.Command{
		Use:   "get",
		Short: "Show all settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return apiRequest(http.MethodGet, "/api/v1/settings", nil)
		},
	}

	set := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return apiRequest(http.MethodPut, "/api/v1/settings/"+args[0], map[string]string{
				"value": args[1],
			})
		},
	}

	cmd.AddCommand(get, set)
	return cmd
}

func priceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "price",
		Short: "Closing prices",
	}

	record := &cobra.Command{
		Use:   "record <symbol> <date> <close>",
		Short: "Record a closing price (date: YYYY-MM-DD)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return apiRequest(http.MethodPost, "/api/v1/prices", map[string]string{
				"symbol":     args[0],
				"quote_date": args[1],
				"close":      args[2],
			})
		},
	}

	get := &cobra.Command{
		Use:   "get <symbol>",
		Short: "Show the latest price for a symbol",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return apiRequest(http.MethodGet, "/api/v1/prices/"+args[0], nil)
		},
	}

	cmd.AddCommand(record, get)
	return cmd
}

// apiRequest performs one call against the API and prints the JSON response.
func apiRequest(method, path string, body any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		fmt.Println(string(raw))
	} else {
		printJSON(parsed)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}
	return nil
}

// printEntries renders a member's entries as a compact table.
func printEntries(memberID string) error {
	req, err := http.NewRequest(http.MethodGet, baseURL+"/api/v1/members/"+memberID+"/entries", nil)
	if err != nil {
		return err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(raw))
	}

	var payload struct {
		Entries []struct {
			Category string `json:"category"`
			Bucket   string `json:"bucket"`
			Amount   string `json:"amount"`
			Note     string `json:"note"`
		} `json:"entries"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return err
	}

	fmt.Printf("%-14s %-12s %12s  %s\n", "CATEGORY", "BUCKET", "AMOUNT", "NOTE")
	for _, e := range payload.Entries {
		fmt.Printf("%-14s %-12s %12s  %s\n", e.Category, e.Bucket, e.Amount, truncate(e.Note, 40))
	}
	return nil
}

func printJSON(v any) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(raw))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
