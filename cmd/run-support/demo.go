package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type scenario struct {
	title   string
	name    string
	email   string
	details string
}

var demoScenarios = []scenario{
	{
		title:   "Quota Upgrade - Approved",
		name:    "Peter Bob",
		email:   "peter@bob.com",
		details: "Can we upgrade our team's quota to 10M requests/month?",
	},
	{
		title:   "Prod Database Access - Denied",
		name:    "Sandra Dee",
		email:   "sandra@dee.com",
		details: "Can I have access to the production database?",
	},
}

func newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run the two built-in example inquiries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close(cmd.Context())

			out := cmd.OutOrStdout()
			for i, sc := range demoScenarios {
				if i > 0 && format == "text" {
					fmt.Fprintln(out, "===========================================")
				}
				if format == "text" {
					fmt.Fprintf(out, "\n--- Running Scenario %d (%s) ---\n", i+1, sc.title)
				}

				inq := a.executor.Run(cmd.Context(), sc.name, sc.email, sc.details)
				if err := writeReport(out, inq, format); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
