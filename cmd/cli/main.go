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

	"github.com/drajad/kasbuku/internal/infrastructure/postgres"
)

var (
	baseURL string
	token   string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "kasbuku-cli",
		Short: "Kasbuku CLI tool",
		Long:  `A command line interface for interacting with the Kasbuku API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Kasbuku API")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("KASBUKU_TOKEN"), "Bearer token (defaults to KASBUKU_TOKEN)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	loginCmd := &cobra.Command{
		Use:   "login <email> <password>",
		Short: "Sign in and print a bearer token",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			login(args[0], args[1])
		},
	}

	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the inflow/outflow summary",
		Run: func(cmd *cobra.Command, args []string) {
			showSummary(cmd.Flag("from").Value.String(), cmd.Flag("to").Value.String())
		},
	}
	summaryCmd.Flags().String("from", "", "Range start (YYYY-MM-DD)")
	summaryCmd.Flags().String("to", "", "Range end (YYYY-MM-DD)")

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Download the ledger export as CSV",
		Run: func(cmd *cobra.Command, args []string) {
			exportLedger(cmd.Flag("from").Value.String(), cmd.Flag("to").Value.String(), cmd.Flag("out").Value.String())
		},
	}
	exportCmd.Flags().String("from", "", "Range start (YYYY-MM-DD)")
	exportCmd.Flags().String("to", "", "Range end (YYYY-MM-DD)")
	exportCmd.Flags().String("out", "", "Output file (defaults to the server-provided name)")

	unpaidCmd := &cobra.Command{
		Use:   "unpaid",
		Short: "List unpaid invoices",
		Run: func(cmd *cobra.Command, args []string) {
			listUnpaid()
		},
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate <up|down>",
		Short: "Run database migrations",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			runMigrations(args[0], cmd.Flag("database-url").Value.String(), cmd.Flag("path").Value.String())
		},
	}
	migrateCmd.Flags().String("database-url", os.Getenv("DATABASE_URL"), "Database URL (defaults to DATABASE_URL)")
	migrateCmd.Flags().String("path", "migrations", "Migrations directory")

	rootCmd.AddCommand(loginCmd, summaryCmd, exportCmd, unpaidCmd, migrateCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runMigrations(direction, databaseURL, path string) {
	if databaseURL == "" {
		fmt.Println("migrate: --database-url or DATABASE_URL is required")
		os.Exit(1)
	}

	var err error
	switch direction {
	case "up":
		err = postgres.RunMigrations(databaseURL, path)
	case "down":
		err = postgres.RunMigrationsDown(databaseURL, path)
	default:
		fmt.Printf("migrate: unknown direction %q (want up or down)\n", direction)
		os.Exit(1)
	}
	if err != nil {
		fmt.Printf("Migration FAILED: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Migrations %s complete\n", direction)
}

func doRequest(method, path string, body io.Reader) *http.Response {
	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequest(method, baseURL+path, body)
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	return resp
}

func login(email, password string) {
	payload := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	resp := doRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(payload))
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Login FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var result struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(result.Token)
}

func rangeQuery(from, to string) string {
	params := []string{}
	if from != "" {
		params = append(params, "from="+from)
	}
	if to != "" {
		params = append(params, "to="+to)
	}
	if len(params) == 0 {
		return ""
	}
	return "?" + strings.Join(params, "&")
}

func showSummary(from, to string) {
	resp := doRequest(http.MethodGet, "/api/v1/reports/summary"+rangeQuery(from, to), nil)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Summary FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var summary struct {
		Inflow  string `json:"pemasukan"`
		Outflow string `json:"pengeluaran"`
		Balance string `json:"saldo"`
	}
	if err := json.Unmarshal(body, &summary); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Pemasukan:   %s\n", summary.Inflow)
	fmt.Printf("Pengeluaran: %s\n", summary.Outflow)
	fmt.Printf("Saldo:       %s\n", summary.Balance)
}

func exportLedger(from, to, out string) {
	resp := doRequest(http.MethodGet, "/api/v1/reports/export"+rangeQuery(from, to), nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		fmt.Printf("Export FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	if out == "" {
		out = filenameFromHeader(resp.Header.Get("Content-Disposition"))
	}

	f, err := os.Create(out)
	if err != nil {
		fmt.Printf("Failed to create %s: %v\n", out, err)
		os.Exit(1)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		fmt.Printf("Failed to write %s: %v\n", out, err)
		os.Exit(1)
	}

	fmt.Printf("Saved %s\n", out)
}

func filenameFromHeader(disposition string) string {
	const marker = `filename="`
	if i := strings.Index(disposition, marker); i >= 0 {
		rest := disposition[i+len(marker):]
		if j := strings.Index(rest, `"`); j > 0 {
			return rest[:j]
		}
	}
	return "ledger.csv"
}

func listUnpaid() {
	resp := doRequest(http.MethodGet, "/api/v1/invoices/unpaid", nil)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Listing FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var invoices []struct {
		Number   string `json:"nomor"`
		Customer string `json:"pelanggan"`
		Date     string `json:"tanggal"`
		Amount   string `json:"jumlah"`
	}
	if err := json.Unmarshal(body, &invoices); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	if len(invoices) == 0 {
		fmt.Println("No unpaid invoices.")
		return
	}

	for _, inv := range invoices {
		fmt.Printf("%-16s %-24s %-12s %s\n", inv.Number, inv.Customer, inv.Date, inv.Amount)
	}
}
