package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/repflow/internal/config"
	"github.com/hammamikhairi/repflow/internal/history"
)

var (
	histLimit int
	histDB    string
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent workout runs",
		RunE:  runHistoryCmd,
	}

	cmd.Flags().IntVar(&histLimit, "limit", 10, "number of runs to show (0 = all)")
	cmd.Flags().StringVar(&histDB, "db", config.DefaultDBPath(), "path to the history database")

	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	log := setupLogger()

	store, err := history.OpenSQLite(histDB, log.Named("history"))
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer store.Close()

	recs, err := store.List(cmd.Context(), histLimit)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Println("no workouts recorded yet")
		return nil
	}

	for _, rec := range recs {
		duration := rec.CompletedAt.Sub(rec.StartedAt).Round(time.Second)
		names := make([]string, 0, len(rec.Workout))
		for _, ex := range rec.Workout {
			names = append(names, ex.Name)
		}
		fmt.Printf("%s  %2d exercises  %s\n", rec.CompletedAt.Local().Format("2006-01-02 15:04"), rec.Exercises, duration)
		if len(names) > 0 {
			fmt.Printf("    %s\n", strings.Join(names, ", "))
		}
	}
	return nil
}
