package main

import (
	"fmt"
	"math/rand"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/repflow/internal/catalog"
	"github.com/hammamikhairi/repflow/internal/generator"
)

var (
	genLength int
	genGroups []string
	genSeed   int64
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a workout and print it without running the timer",
		RunE:  runGenerateCmd,
	}

	cmd.Flags().IntVar(&genLength, "length", 0, "number of exercises (4-20, default from config)")
	cmd.Flags().StringSliceVar(&genGroups, "groups", nil, "muscle groups to draw from (default: all)")
	cmd.Flags().Int64Var(&genSeed, "seed", 0, "random seed for reproducible workouts (0 = random)")

	return cmd
}

func runGenerateCmd(cmd *cobra.Command, _ []string) error {
	log := setupLogger()

	settings, err := loadSettings()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("length") {
		settings.Workout.Length = genLength
	}
	if cmd.Flags().Changed("groups") {
		settings.Workout.Groups = genGroups
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	cat := catalog.NewMemoryCatalog(log.Named("catalog"))
	groups, err := workoutGroups(settings, cat)
	if err != nil {
		return err
	}

	var opts []generator.Option
	if genSeed != 0 {
		opts = append(opts, generator.WithRand(rand.New(rand.NewSource(genSeed))))
	}
	gen := generator.New(cat, log.Named("generator"), opts...)

	workout, err := gen.GenerateRandomWorkout(settings.Workout.Length, groups)
	if err != nil {
		return err
	}

	for i, ex := range workout {
		fmt.Printf("%2d. %-20s %s\n", i+1, ex.Name, cat.Label(ex.MuscleGroup))
	}
	return nil
}
