package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/patpij2/server-login-sub000/internal/config"
	"github.com/patpij2/server-login-sub000/internal/database"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command.
// This command lists past scrape batches stored in the database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past scrape runs",
		Long: `History lists past scrape batches stored in the local database.

Every 'leadscout scrape' run is saved automatically. This command shows
when each batch ran, how many sites it covered, and how many emails it
found. Use --id to print the full result of one batch as JSON.

Examples:
  # List the 10 most recent batches
  leadscout history

  # List the 25 most recent batches
  leadscout history --limit 25

  # Print one batch in full as JSON
  leadscout history --id 3`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", 10,
		"Maximum number of batches to list")
	cmd.Flags().Int64P("id", "i", 0,
		"Print the full result of a specific batch as JSON")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	batchID, err := cmd.Flags().GetInt64("id")
	if err != nil {
		return err
	}

	// Use XDG data directory for database
	dbDir := config.DefaultDBDir()

	db, err := database.Open(dbDir, database.Options{EnableWAL: true})
	if err != nil {
		return fmt.Errorf("failed to open database (run 'leadscout scrape' first): %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	if batchID > 0 {
		return showBatch(ctx, cmd, db, batchID)
	}
	return listBatches(ctx, cmd, db, limit)
}

// showBatch prints one stored batch result as indented JSON.
func showBatch(ctx context.Context, cmd *cobra.Command, db *database.LeadDB, id int64) error {
	batch, err := db.GetBatch(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load batch %d: %w", id, err)
	}
	if batch == nil {
		return fmt.Errorf("no batch found with ID %d (use 'leadscout history' to see available IDs)", id)
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(batch)
}

// listBatches prints a summary table of recent batches.
func listBatches(ctx context.Context, cmd *cobra.Command, db *database.LeadDB, limit int) error {
	batches, err := db.ListRecentBatches(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list batches: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(batches) == 0 {
		fmt.Fprintln(out, "No scrape history found in the database.")
		fmt.Fprintln(out, "\nUse 'leadscout scrape <url>' to scrape a site.")
		return nil
	}

	fmt.Fprintf(out, "Recent scrape batches (%d):\n\n", len(batches))
	fmt.Fprintf(out, "  %-6s  %-20s  %-6s  %-8s  %-8s  %s\n",
		"ID", "Date", "Sites", "Success", "Failed", "Emails")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 64))

	for _, b := range batches {
		fmt.Fprintf(out, "  %-6d  %-20s  %-6d  %-8d  %-8d  %d\n",
			b.ID, b.Timestamp.Format("2006-01-02 15:04:05"),
			b.TotalURLs, b.SuccessfulURLs, b.FailedURLs, b.TotalEmails)
	}
	fmt.Fprintln(out, "\nUse 'leadscout history --id <ID>' to see a batch in full.")

	return nil
}
