package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

const (
	defaultClientName  = "Anonymous Client"
	defaultClientEmail = "unknown@example.com"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run-support [flags] <request text...>",
		Short: "Evaluate a client support request",
		Long: `run-support logs a client request, asks the policy model to approve or deny it,
books a follow-up for approved requests and prints the final CRM status line.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runInquiry,
	}

	cmd.PersistentFlags().String("config", "", "Path to config file (default ./config.yaml if present)")
	cmd.PersistentFlags().String("metrics-file", "", "Write Prometheus metrics to this textfile after the run")
	cmd.PersistentFlags().StringP("output", "o", "text", "Output format: 'text' or 'json'")

	cmd.Flags().String("name", defaultClientName, "Client name")
	cmd.Flags().String("email", defaultClientEmail, "Client email")

	cmd.AddCommand(newDemoCmd(), newHistoryCmd())

	return cmd
}

func runInquiry(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	name, _ := cmd.Flags().GetString("name")
	email, _ := cmd.Flags().GetString("email")

	details := strings.TrimSpace(strings.Join(args, " "))
	if details == "" {
		return fmt.Errorf("request text must not be empty")
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close(cmd.Context())

	inq := a.executor.Run(cmd.Context(), name, email, details)

	return writeReport(cmd.OutOrStdout(), inq, format)
}

func outputFormat(cmd *cobra.Command) (string, error) {
	format, _ := cmd.Flags().GetString("output")
	switch format {
	case "text", "json":
		return format, nil
	default:
		return "", fmt.Errorf("invalid --output %q (must be 'text' or 'json')", format)
	}
}
