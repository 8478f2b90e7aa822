package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/patpij2/server-login-sub000/internal/database"
	"github.com/patpij2/server-login-sub000/internal/model"
	"github.com/spf13/cobra"
)

// TestNewHistoryCmd tests the history command creation.
func TestNewHistoryCmd(t *testing.T) {
	t.Parallel()

	cmd := NewHistoryCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "history" {
			t.Errorf("expected use 'history', got %q", cmd.Use)
		}
	})

	t.Run("has short description", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" {
			t.Error("expected non-empty short description")
		}
	})

	t.Run("has limit flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("limit")
		if flag == nil {
			t.Fatal("expected limit flag")
		}
		if flag.Shorthand != "n" {
			t.Errorf("expected shorthand 'n', got %q", flag.Shorthand)
		}
		if flag.DefValue != "10" {
			t.Errorf("expected default '10', got %q", flag.DefValue)
		}
	})

	t.Run("has id flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("id")
		if flag == nil {
			t.Fatal("expected id flag")
		}
		if flag.Shorthand != "i" {
			t.Errorf("expected shorthand 'i', got %q", flag.Shorthand)
		}
	})

	t.Run("rejects positional arguments", func(t *testing.T) {
		t.Parallel()
		cmd := NewHistoryCmd()
		cmd.SetArgs([]string{"unexpected"})
		if err := cmd.Execute(); err == nil {
			t.Error("expected error for positional argument")
		}
	})
}

// openHistoryDB creates a database with one saved batch for output tests.
func openHistoryDB(t *testing.T) (*database.LeadDB, int64) {
	t.Helper()

	db, err := database.Open(t.TempDir(), database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close database: %v", err)
		}
	})

	batch := model.NewBatchResult([]*model.ScrapeResult{
		{
			URL:          "https://example.com",
			Success:      true,
			Emails:       []string{"info@example.com", "sales@example.com"},
			TotalEmails:  2,
			PagesVisited: 5,
			Timestamp:    time.Now(),
		},
		(&model.ScrapeResult{URL: "https://broken.example"}).Fail(errors.New("timeout")),
	})

	id, err := db.SaveBatch(context.Background(), batch)
	if err != nil {
		t.Fatalf("failed to save batch: %v", err)
	}
	return db, id
}

// TestListBatches tests the batch summary listing.
func TestListBatches(t *testing.T) {
	t.Parallel()

	t.Run("lists saved batches", func(t *testing.T) {
		t.Parallel()
		db, _ := openHistoryDB(t)

		var buf bytes.Buffer
		cmd := &cobra.Command{}
		cmd.SetOut(&buf)

		if err := listBatches(context.Background(), cmd, db, 10); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "Recent scrape batches (1)") {
			t.Errorf("expected batch count in output, got %q", output)
		}
		if !strings.Contains(output, "ID") || !strings.Contains(output, "Emails") {
			t.Errorf("expected table header, got %q", output)
		}
	})

	t.Run("reports empty history", func(t *testing.T) {
		t.Parallel()
		db, err := database.Open(t.TempDir(), database.DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		var buf bytes.Buffer
		cmd := &cobra.Command{}
		cmd.SetOut(&buf)

		if err := listBatches(context.Background(), cmd, db, 10); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "No scrape history") {
			t.Errorf("expected empty-history message, got %q", buf.String())
		}
	})
}

// TestShowBatch tests printing a single batch as JSON.
func TestShowBatch(t *testing.T) {
	t.Parallel()

	t.Run("prints batch as JSON", func(t *testing.T) {
		t.Parallel()
		db, id := openHistoryDB(t)

		var buf bytes.Buffer
		cmd := &cobra.Command{}
		cmd.SetOut(&buf)

		if err := showBatch(context.Background(), cmd, db, id); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, `"total_urls": 2`) {
			t.Errorf("expected batch totals in JSON, got %q", output)
		}
		if !strings.Contains(output, "info@example.com") {
			t.Errorf("expected emails in JSON, got %q", output)
		}
	})

	t.Run("returns error for unknown ID", func(t *testing.T) {
		t.Parallel()
		db, _ := openHistoryDB(t)

		cmd := &cobra.Command{}
		cmd.SetOut(&bytes.Buffer{})

		if err := showBatch(context.Background(), cmd, db, 9999); err == nil {
			t.Error("expected error for unknown batch ID")
		}
	})
}
