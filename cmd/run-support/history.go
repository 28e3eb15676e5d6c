package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tjfontaine/support-inquiry-pipeline/internal/core/domain"
	"github.com/tjfontaine/support-inquiry-pipeline/internal/core/ports"
	"github.com/tjfontaine/support-inquiry-pipeline/internal/pkg/config"
	"github.com/tjfontaine/support-inquiry-pipeline/internal/storage"
)

var errJournalDisabled = errors.New("run journal is not persistent (set storage.type to sqlite or redis)")

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List journaled runs, or show one run in full",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runHistory,
	}
	cmd.Flags().Int("limit", 20, "Maximum number of runs to list")
	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// Reading the journal needs no credential.
	if err := cfg.Validate(); err != nil && !errors.Is(err, config.ErrMissingAPIKey) {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// An in-memory journal never outlives the process that wrote it.
	if cfg.Storage.Type == "memory" {
		return errJournalDisabled
	}

	store, err := storage.Open(cfg.Storage)
	if err != nil {
		return err
	}
	if store == nil {
		return errJournalDisabled
	}
	defer store.Close()

	out := cmd.OutOrStdout()

	if len(args) == 1 {
		inq, err := store.GetRun(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return writeReport(out, inq, format)
	}

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.ListRuns(cmd.Context(), ports.ListOptions{Limit: limit})
	if err != nil {
		return err
	}

	if format == "json" {
		if runs == nil {
			runs = []*domain.Inquiry{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tSTATUS\tCLIENT\tAPPOINTMENT")
	for _, inq := range runs {
		appointment := "N/A"
		if inq.HasAppointment() {
			appointment = inq.AppointmentTime
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", inq.ID,
			inq.CreatedAt.Local().Format(domain.TimestampLayout), inq.Status(), inq.ClientName, appointment)
	}
	return tw.Flush()
}
