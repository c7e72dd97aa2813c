package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ledgercore-cli",
		Short: "Ledger core CLI tool",
		Long:  `A command line interface for interacting with the loan ledger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the ledger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(
		originateCmd(),
		repayCmd(),
		defaultCmd(),
		getCmd(),
		entriesCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func originateCmd() *cobra.Command {
	var key string

	cmd := &cobra.Command{
		Use:   "originate <user-id> <amount>",
		Short: "Originate a loan for a borrower",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if key == "" {
				key = uuid.NewString()
			}

			body := map[string]string{
				"user_id":         args[0],
				"amount":          args[1],
				"idempotency_key": key,
			}

			return doRequest(http.MethodPost, "/api/v1/loans", body)
		},
	}

	cmd.Flags().StringVar(&key, "idempotency-key", "", "Idempotency key (generated when empty)")

	return cmd
}

func repayCmd() *cobra.Command {
	var key string

	cmd := &cobra.Command{
		Use:   "repay <user-id> <amount>",
		Short: "Record a repayment against a loan",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if key == "" {
				key = uuid.NewString()
			}

			body := map[string]string{
				"amount":          args[1],
				"idempotency_key": key,
			}

			return doRequest(http.MethodPost, "/api/v1/loans/"+args[0]+"/repayments", body)
		},
	}

	cmd.Flags().StringVar(&key, "idempotency-key", "", "Idempotency key (generated when empty)")

	return cmd
}

func defaultCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "default <user-id>",
		Short: "Mark a loan as defaulted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return doRequest(http.MethodPost, "/api/v1/loans/"+args[0]+"/default", nil)
		},
	}
}

func getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <user-id>",
		Short: "Show the current loan state for a borrower",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return doRequest(http.MethodGet, "/api/v1/loans/"+args[0], nil)
		},
	}
}

func entriesCmd() *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "entries <user-id>",
		Short: "List ledger entries for a borrower",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/api/v1/loans/%s/entries?limit=%d&offset=%d", args[0], limit, offset)
			return doRequest(http.MethodGet, path, nil)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Page size")
	cmd.Flags().IntVar(&offset, "offset", 0, "Page offset")

	return cmd
}

func doRequest(method, path string, body any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, raw)
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		fmt.Println(string(raw))
		return nil
	}

	printJSON(parsed)
	return nil
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("failed to format output: %v\n", err)
		return
	}
	fmt.Println(string(out))
}
