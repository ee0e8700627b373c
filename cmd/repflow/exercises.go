package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/repflow/internal/catalog"
)

func newExercisesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exercises [query]",
		Short: "Browse the exercise catalog, optionally filtered by a search query",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runExercisesCmd,
	}
}

func runExercisesCmd(cmd *cobra.Command, args []string) error {
	log := setupLogger()
	cat := catalog.NewMemoryCatalog(log.Named("catalog"))

	if len(args) == 1 {
		matches := cat.Search(args[0])
		if len(matches) == 0 {
			fmt.Printf("no exercises matching %q\n", args[0])
			return nil
		}
		for _, ex := range matches {
			fmt.Printf("%-20s %-12s %s\n", ex.ID, cat.Label(ex.MuscleGroup), ex.Name)
		}
		return nil
	}

	for _, group := range cat.MuscleGroups() {
		exercises, err := cat.ExercisesByGroup(group)
		if err != nil {
			return err
		}
		fmt.Printf("%s\n%s\n", cat.Label(group), strings.Repeat("-", len(cat.Label(group))))
		for _, ex := range exercises {
			fmt.Printf("  %-20s %s\n", ex.ID, ex.Name)
		}
		fmt.Println()
	}
	fmt.Printf("%d exercises total\n", cat.Size())
	return nil
}
