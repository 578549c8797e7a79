package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/splitty/internal/importer"
	"github.com/MrJamesThe3rd/splitty/internal/report"
	"github.com/MrJamesThe3rd/splitty/internal/stats"
)

var (
	flagFile    string
	flagMembers []string
)

var settleCmd = &cobra.Command{
	Use:   "settle",
	Short: "Settle a spreadsheet of expenses without a database",
	Long: "Reads a CSV with date, purpose, amount and payer columns and prints who pays whom.\n" +
		"Every listed member shares equally, including members who paid nothing.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !stats.ValidPeriod(flagMonth) {
			return fmt.Errorf("invalid --month %q: want YYYY-MM or all", flagMonth)
		}

		f, err := os.Open(flagFile)
		if err != nil {
			return fmt.Errorf("open expenses file: %w", err)
		}
		defer f.Close()

		rows, err := importer.NewParser().Parse(f)
		if err != nil {
			return fmt.Errorf("parse %s: %w", flagFile, err)
		}

		rep, err := report.FromRows(rows, flagMembers, flagMonth)
		if err != nil {
			return err
		}

		fmt.Fprint(cmd.OutOrStdout(), report.Summary(rep))

		return nil
	},
}

func init() {
	settleCmd.Flags().StringVarP(&flagFile, "file", "f", "", "CSV file with a payer column")
	settleCmd.Flags().StringSliceVarP(&flagMembers, "members", "m", nil, "Comma separated member names")
	settleCmd.Flags().StringVar(&flagMonth, "month", stats.PeriodAll, "Month as YYYY-MM, or all")
	_ = settleCmd.MarkFlagRequired("file")
	_ = settleCmd.MarkFlagRequired("members")
}
