package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/splitty/internal/expense"
	expenseStore "github.com/MrJamesThe3rd/splitty/internal/expense/store"
	"github.com/MrJamesThe3rd/splitty/internal/member"
	memberStore "github.com/MrJamesThe3rd/splitty/internal/member/store"
	"github.com/MrJamesThe3rd/splitty/internal/report"
	"github.com/MrJamesThe3rd/splitty/internal/stats"
)

var (
	flagHome  string
	flagMonth string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the balances and settlements of a home",
	RunE: func(cmd *cobra.Command, _ []string) error {
		homeID, err := uuid.Parse(flagHome)
		if err != nil {
			return fmt.Errorf("invalid --home: %w", err)
		}

		if !stats.ValidPeriod(flagMonth) {
			return fmt.Errorf("invalid --month %q: want YYYY-MM or all", flagMonth)
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		members := member.NewService(memberStore.New(db))

		home, err := members.GetHome(cmd.Context(), homeID)
		if err != nil {
			return err
		}

		svc := report.NewService(expense.NewService(expenseStore.New(db), nil), members)

		rep, err := svc.Build(cmd.Context(), homeID, flagMonth)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Home: %s\n%s", home.Name, report.Summary(rep))

		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&flagHome, "home", "", "Home ID")
	reportCmd.Flags().StringVar(&flagMonth, "month", stats.PeriodAll, "Month as YYYY-MM, or all")
	_ = reportCmd.MarkFlagRequired("home")
}
