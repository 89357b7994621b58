package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/krzysztofcal/chipledger/internal/infrastructure/postgres"
	"github.com/krzysztofcal/chipledger/internal/poker"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "chipledger-cli",
		Short: "chipledger admin CLI",
		Long:  `Administrative commands for the chipledger poker settlement service.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the chipledger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(ledgerCmd())
	rootCmd.AddCommand(accountCmd())
	rootCmd.AddCommand(showdownCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func migrateCmd() *cobra.Command {
	var databaseURL, migrationsPath string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migrations",
	}
	cmd.PersistentFlags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection URL")
	cmd.PersistentFlags().StringVar(&migrationsPath, "path", "migrations", "Migrations directory")

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return postgres.RunMigrations(databaseURL, migrationsPath)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return postgres.RunMigrationsDown(databaseURL, migrationsPath)
		},
	})

	return cmd
}

func ledgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "consistency",
		Short: "Check the ledger's zero-sum invariants",
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON("/api/v1/ledger/consistency")
		},
	})

	postCmd := &cobra.Command{
		Use:   "post <file.json>",
		Short: "Post a transaction from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			return postJSON("/api/v1/transactions/", body)
		},
	}
	cmd.AddCommand(postCmd)

	return cmd
}

func accountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Account inspection",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Get an account by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON("/api/v1/accounts/" + args[0])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "user <user-id>",
		Short: "Get a player's chip account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON("/api/v1/users/" + args[0] + "/account")
		},
	})

	return cmd
}

func showdownCmd() *cobra.Command {
	var community string

	cmd := &cobra.Command{
		Use:   "showdown <user:cards>...",
		Short: "Evaluate a showdown locally",
		Long: `Evaluate a showdown without touching the server. Each argument is a
player description like "alice:AH,AD". The board is passed with --community.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := parseCardList(community)
			if err != nil {
				return fmt.Errorf("community: %w", err)
			}

			players, err := parsePlayers(args)
			if err != nil {
				return err
			}

			result, err := poker.ComputeShowdown(board, players)
			if err != nil {
				return err
			}

			printJSON(result)
			return nil
		},
	}
	cmd.Flags().StringVar(&community, "community", "", "Comma-separated community cards, e.g. AS,KD,7C,2H,9S")

	return cmd
}

func parsePlayers(args []string) ([]poker.PlayerHand, error) {
	players := make([]poker.PlayerHand, 0, len(args))
	for _, arg := range args {
		userID, cards, ok := strings.Cut(arg, ":")
		if !ok {
			return nil, fmt.Errorf("malformed player %q, want user:cards", arg)
		}

		holeCards, err := parseCardList(cards)
		if err != nil {
			return nil, fmt.Errorf("player %s: %w", userID, err)
		}

		players = append(players, poker.PlayerHand{UserID: userID, HoleCards: holeCards})
	}

	return players, nil
}

func parseCardList(s string) ([]poker.Card, error) {
	if s == "" {
		return nil, nil
	}

	return poker.ParseCards(strings.Split(s, ","))
}

func getJSON(path string) error {
	client := &http.Client{Timeout: timeout}

	resp, err := client.Get(baseURL + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func postJSON(path string, body []byte) error {
	client := &http.Client{Timeout: timeout}

	resp, err := client.Post(baseURL+path, "application/json", strings.NewReader(string(body)))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var parsed any
	if err := json.Unmarshal(body, &parsed); err != nil {
		fmt.Println(string(body))
	} else {
		printJSON(parsed)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	return nil
}

func printJSON(v any) {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Println(v)
		return
	}
	fmt.Println(string(encoded))
}
