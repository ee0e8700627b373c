package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/repflow/internal/announce"
	"github.com/hammamikhairi/repflow/internal/audio"
	"github.com/hammamikhairi/repflow/internal/catalog"
	"github.com/hammamikhairi/repflow/internal/command"
	"github.com/hammamikhairi/repflow/internal/config"
	"github.com/hammamikhairi/repflow/internal/display"
	"github.com/hammamikhairi/repflow/internal/domain"
	"github.com/hammamikhairi/repflow/internal/generator"
	"github.com/hammamikhairi/repflow/internal/history"
	"github.com/hammamikhairi/repflow/internal/logger"
	"github.com/hammamikhairi/repflow/internal/session"
	"github.com/hammamikhairi/repflow/internal/timer"
	"github.com/hammamikhairi/repflow/internal/voice"
)

var (
	runLength    int
	runGroups    []string
	runSeed      int64
	runPrepare   int
	runWork      int
	runRest      int
	runCycles    int
	runSets      int
	runSetRest   int
	runNoAuto    bool
	runNoSound   bool
	runNoVoice   bool
	runNoHistory bool
	runCacheDir  string
	runDB        string
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate a workout and run it on the interval timer",
		RunE:  runRunCmd,
	}

	cmd.Flags().IntVar(&runLength, "length", 0, "number of exercises (4-20, default from config)")
	cmd.Flags().StringSliceVar(&runGroups, "groups", nil, "muscle groups to draw from (default: all)")
	cmd.Flags().Int64Var(&runSeed, "seed", 0, "random seed for reproducible workouts (0 = random)")
	cmd.Flags().IntVar(&runPrepare, "prepare", 0, "prepare seconds before each exercise")
	cmd.Flags().IntVar(&runWork, "work", 0, "work seconds per cycle")
	cmd.Flags().IntVar(&runRest, "rest", 0, "rest seconds per cycle")
	cmd.Flags().IntVar(&runCycles, "cycles", 0, "work/rest cycles per set")
	cmd.Flags().IntVar(&runSets, "sets", 0, "sets per exercise")
	cmd.Flags().IntVar(&runSetRest, "set-rest", 0, "rest seconds between sets")
	cmd.Flags().BoolVar(&runNoAuto, "no-auto-advance", false, "wait for 'next' instead of advancing automatically")
	cmd.Flags().BoolVar(&runNoSound, "no-sound", false, "disable audio cues")
	cmd.Flags().BoolVar(&runNoVoice, "no-voice", false, "disable spoken announcements even if Azure keys are set")
	cmd.Flags().BoolVar(&runNoHistory, "no-history", false, "do not persist finished runs")
	cmd.Flags().StringVar(&runCacheDir, "cache-dir", config.DefaultAudioCacheDir(), "directory for persistent TTS audio cache")
	cmd.Flags().StringVar(&runDB, "db", config.DefaultDBPath(), "path to the history database")

	return cmd
}

func resolveRunSettings(cmd *cobra.Command) (config.Settings, error) {
	settings, err := loadSettings()
	if err != nil {
		return settings, err
	}
	if cmd.Flags().Changed("length") {
		settings.Workout.Length = runLength
	}
	if cmd.Flags().Changed("groups") {
		settings.Workout.Groups = runGroups
	}
	if cmd.Flags().Changed("prepare") {
		settings.Timer.PrepareSeconds = runPrepare
	}
	if cmd.Flags().Changed("work") {
		settings.Timer.WorkSeconds = runWork
	}
	if cmd.Flags().Changed("rest") {
		settings.Timer.RestSeconds = runRest
	}
	if cmd.Flags().Changed("cycles") {
		settings.Timer.CyclesPerSet = runCycles
	}
	if cmd.Flags().Changed("sets") {
		settings.Timer.Sets = runSets
	}
	if cmd.Flags().Changed("set-rest") {
		settings.Timer.SetRestSeconds = runSetRest
	}
	if runNoAuto {
		settings.Timer.AutoAdvance = false
	}
	if runNoSound {
		settings.Audio.Sound = false
	}
	if runNoVoice {
		settings.Audio.Voice = false
	}
	if err := settings.Validate(); err != nil {
		return settings, err
	}
	return settings, nil
}

func runRunCmd(cmd *cobra.Command, _ []string) error {
	log := setupLogger()

	settings, err := resolveRunSettings(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Wire dependencies.
	cat := catalog.NewMemoryCatalog(log.Named("catalog"))
	groups, err := workoutGroups(settings, cat)
	if err != nil {
		return err
	}

	var genOpts []generator.Option
	if runSeed != 0 {
		genOpts = append(genOpts, generator.WithRand(rand.New(rand.NewSource(runSeed))))
	}
	gen := generator.New(cat, log.Named("generator"), genOpts...)

	workout, err := gen.GenerateRandomWorkout(settings.Workout.Length, groups)
	if err != nil {
		return err
	}

	eng := timer.New(settings.TimerConfig(), log.Named("timer"))

	var store domain.HistoryStore
	if runNoHistory {
		store = history.NewMemoryStore(log.Named("history"))
	} else {
		sqlStore, err := history.OpenSQLite(runDB, log.Named("history"))
		if err != nil {
			log.Error("history disabled, cannot open %s: %v", runDB, err)
			store = history.NewMemoryStore(log.Named("history"))
		} else {
			defer sqlStore.Close()
			store = sqlStore
		}
	}

	runner := session.New(eng, log.Named("session"), session.WithHistory(store))
	if err := runner.SetWorkout(workout); err != nil {
		return err
	}

	ui := display.NewUI(runner)
	notifier := command.NewCLINotifier(log.Named("notify"), ui.Printf)
	parser := command.NewKeywordParser(log.Named("parser"))

	// Audio cues. Fall back to silence when no device is available.
	var cues domain.CuePlayer = audio.NewNoOp(log.Named("audio"))
	var player *audio.Player
	if settings.Audio.Sound {
		player, err = audio.NewPlayer(log.Named("audio"))
		if err != nil {
			log.Error("audio init failed, sound disabled: %v", err)
			player = nil
		} else {
			cues = audio.NewCueKit(player, log.Named("audio"))
		}
	}

	// Spoken announcements need Azure credentials and a working player.
	var voiceProv domain.VoiceProvider = voice.NewNoOp(log.Named("voice"))
	var speaker *voice.Speaker
	if settings.Audio.Voice {
		key := os.Getenv(voice.EnvAzureSpeechKey)
		region := os.Getenv(voice.EnvAzureSpeechRegion)
		switch {
		case key == "" || region == "":
			log.Info("voice disabled: set %s and %s env vars to enable", voice.EnvAzureSpeechKey, voice.EnvAzureSpeechRegion)
		case player == nil:
			log.Info("voice disabled: no audio device")
		default:
			var ttsOpts []voice.AzureOption
			if settings.Audio.Name != "" {
				ttsOpts = append(ttsOpts, voice.WithVoice(settings.Audio.Name))
			}
			tts := voice.NewAzureClient(key, region, log.Named("tts"), ttsOpts...)
			speaker = voice.NewSpeaker(tts, player, log.Named("speaker"), voice.WithCacheDir(runCacheDir))
			speaker.Start(ctx)
			speaker.Prefetch(ctx, announce.FixedLines()...)
			voiceProv = speaker
			log.Info("voice enabled (voice=%s, region=%s)", tts.Voice(), region)
		}
	}

	ann := announce.New(notifier, voiceProv, cues, log.Named("announce"))
	ann.Attach(runner)
	defer ann.Detach()

	app := &cliApp{
		runner:  runner,
		gen:     gen,
		cat:     cat,
		parser:  parser,
		speaker: speaker,
		log:     log.Named("app"),
		ui:      ui,
	}

	fmt.Println(display.RenderBanner())
	fmt.Println(display.BannerStyle.Render("  Type 'start' to begin, 'help' for commands, 'quit' to exit."))
	fmt.Println()

	// Run app logic in a background goroutine; Bubble Tea owns the
	// terminal and blocks until quit.
	go func() {
		ui.WaitReady()
		app.run(ctx)
		ui.Quit()
	}()

	if err := ui.Run(); err != nil {
		log.Error("display: %v", err)
	}
	cancel()
	return nil
}

type cliApp struct {
	runner   *session.Runner
	gen      *generator.Generator
	cat      *catalog.MemoryCatalog
	parser   domain.IntentParser
	speaker *voice.Speaker // nil when voice is disabled
	log     *logger.Logger
	ui      *display.UI
}

func (a *cliApp) run(ctx context.Context) {
	a.showWorkout()
	a.ui.PrintHint("Type 'start' when you're ready.")

	uiCh := a.ui.InputChan()
	for {
		var input string
		var ok bool

		select {
		case <-ctx.Done():
			return
		case input, ok = <-uiCh:
			if !ok {
				return
			}
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		intent, err := a.parser.Parse(ctx, input)
		if err != nil {
			a.log.Error("parsing input: %v", err)
			continue
		}

		a.log.Debug("intent: %s (payload=%q)", intent.Type, intent.Payload)
		if a.handleIntent(ctx, intent) {
			return
		}
	}
}

// handleIntent dispatches one intent. Returns true when the app should
// exit.
func (a *cliApp) handleIntent(ctx context.Context, intent *domain.Intent) bool {
	// Transport intents interrupt whatever is being spoken so the coach
	// doesn't keep narrating a state that just changed.
	switch intent.Type {
	case domain.IntentStart, domain.IntentPause, domain.IntentResume,
		domain.IntentSkip, domain.IntentNext, domain.IntentPrevious,
		domain.IntentReset, domain.IntentStop, domain.IntentQuit:
		if a.speaker != nil {
			a.speaker.Interrupt()
		}
	}

	switch intent.Type {
	case domain.IntentStart:
		a.start(ctx)
	case domain.IntentPause:
		a.pause()
	case domain.IntentResume:
		a.resume()
	case domain.IntentSkip:
		a.skip()
	case domain.IntentNext:
		a.next(intent.Payload)
	case domain.IntentPrevious:
		a.previous()
	case domain.IntentReset:
		a.reset()
	case domain.IntentStop:
		a.stop()
	case domain.IntentShuffle:
		a.shuffle()
	case domain.IntentReplace:
		a.replace(intent.Payload)
	case domain.IntentOptions:
		a.options(intent.Payload)
	case domain.IntentStatus:
		a.status()
	case domain.IntentHelp:
		a.showHelp()
	case domain.IntentQuit:
		a.ui.PrintHint("Bye.")
		return true
	case domain.IntentUnknown:
		a.ui.PrintHint(fmt.Sprintf("Didn't catch that: %s. Type 'help' for commands.", intent.Payload))
	}
	return false
}

func (a *cliApp) start(ctx context.Context) {
	phase := a.runner.Engine().Phase()
	if phase != domain.PhaseIdle && phase != domain.PhaseCompleted {
		a.ui.PrintHint("Already running. Use 'pause', 'skip', or 'stop'.")
		return
	}
	if !a.runner.Start(ctx) {
		a.ui.PrintUrgent("Could not start the timer.")
	}
}

func (a *cliApp) pause() {
	if !a.runner.Engine().Pause() {
		a.ui.PrintHint("Nothing to pause.")
	}
}

func (a *cliApp) resume() {
	if !a.runner.Engine().Resume() {
		a.ui.PrintHint("Nothing to resume.")
	}
}

func (a *cliApp) skip() {
	if !a.runner.Engine().SkipPhase() {
		a.ui.PrintHint("Nothing to skip — start the timer first.")
	}
}

func (a *cliApp) next(payload string) {
	// A bare number jumps straight to that exercise.
	if payload != "" {
		if n, err := strconv.Atoi(payload); err == nil {
			if !a.runner.ShowExercise(n - 1) {
				a.ui.PrintHint(fmt.Sprintf("No exercise %s in this workout.", payload))
			}
			return
		}
	}
	if !a.runner.Next() {
		a.ui.PrintHint("Already at the last exercise.")
	}
}

func (a *cliApp) previous() {
	if !a.runner.Previous() {
		a.ui.PrintHint("Already at the first exercise.")
	}
}

func (a *cliApp) reset() {
	if !a.runner.Engine().ResetExercise() {
		a.ui.PrintHint("Nothing to reset.")
	}
}

func (a *cliApp) stop() {
	a.runner.Stop()
	a.ui.PrintHint("Stopped. 'start' picks up at the current exercise.")
}

func (a *cliApp) shuffle() {
	shuffled, err := a.gen.ShuffleWorkout(a.runner.State().Workout)
	if err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Shuffle failed: %v", err))
		return
	}
	if err := a.runner.ReplaceWorkout(shuffled); err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Shuffle failed: %v", err))
		return
	}
	a.ui.PrintAnnouncement("Workout shuffled.")
	a.showWorkout()
}

// replace handles "replace <n> <exercise-id>".
func (a *cliApp) replace(payload string) {
	fields := strings.Fields(payload)
	if len(fields) != 2 {
		a.ui.PrintHint("Usage: replace <position> <exercise-id>  (see 'options <position>')")
		return
	}
	pos, err := strconv.Atoi(fields[0])
	if err != nil {
		a.ui.PrintHint("Usage: replace <position> <exercise-id>")
		return
	}

	ex, ok := a.cat.ExerciseByID(fields[1])
	if !ok {
		a.ui.PrintUrgent(fmt.Sprintf("Unknown exercise id %q — try 'exercises' to browse the catalog.", fields[1]))
		return
	}

	current := a.runner.State().Workout
	replaced, err := a.gen.ReplaceExercise(current, pos-1, ex)
	if err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Replace failed: %v", err))
		return
	}
	if err := a.runner.ReplaceWorkout(replaced); err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Replace failed: %v", err))
		return
	}
	a.ui.PrintAnnouncement(fmt.Sprintf("Position %d is now %s.", pos, ex.Name))
	a.showWorkout()
}

// options handles "options <n>".
func (a *cliApp) options(payload string) {
	pos, err := strconv.Atoi(strings.TrimSpace(payload))
	if err != nil {
		a.ui.PrintHint("Usage: options <position>")
		return
	}

	candidates, err := a.gen.GetReplacementOptions(pos-1, a.runner.State().Workout)
	if err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
		return
	}
	if len(candidates) == 0 {
		a.ui.PrintHint(fmt.Sprintf("No valid replacements for position %d.", pos))
		return
	}

	a.ui.PrintExercise(fmt.Sprintf("Replacements for position %d:", pos))
	for _, ex := range candidates {
		a.ui.PrintInfo(fmt.Sprintf("  %-20s %-12s %s", ex.ID, a.cat.Label(ex.MuscleGroup), ex.Name))
	}
	a.ui.PrintHint(fmt.Sprintf("Apply with: replace %d <exercise-id>", pos))
}

func (a *cliApp) status() {
	state := a.runner.Engine().State()
	run := a.runner.State()

	if len(run.Workout) == 0 {
		a.ui.PrintHint("No workout loaded.")
		return
	}

	ex := run.Workout[run.CurrentIndex]
	a.ui.PrintExercise(fmt.Sprintf("Exercise %d/%d: %s (%s)", run.CurrentIndex+1, len(run.Workout), ex.Name, a.cat.Label(ex.MuscleGroup)))

	switch state.Phase {
	case domain.PhaseIdle:
		a.ui.PrintInfo("Timer idle.")
	case domain.PhaseCompleted:
		a.ui.PrintInfo("Exercise completed.")
	default:
		line := fmt.Sprintf("%s — %s remaining (set %d, cycle %d)",
			strings.ToUpper(state.Phase.String()), formatDuration(state.Remaining), state.CurrentSet, state.CurrentCycle)
		if state.Paused {
			line += "  [paused]"
		}
		a.ui.PrintInfo(line)
		a.ui.PrintHint(fmt.Sprintf("%.0f%% of this phase done", a.runner.Engine().Progress()*100))
	}
}

func (a *cliApp) showWorkout() {
	run := a.runner.State()
	a.ui.PrintExercise("Today's workout:")
	for i, ex := range run.Workout {
		marker := "  "
		if i == run.CurrentIndex {
			marker = "▸ "
		}
		a.ui.PrintInfo(fmt.Sprintf("%s%2d. %-20s %s", marker, i+1, ex.Name, a.cat.Label(ex.MuscleGroup)))
	}
	a.ui.Println("")
}

func (a *cliApp) showHelp() {
	a.ui.PrintExercise("Commands:")
	a.ui.PrintInfo("  start / go        Start the timer at the current exercise")
	a.ui.PrintInfo("  pause / resume    Freeze and unfreeze the countdown")
	a.ui.PrintInfo("  skip              Jump to the next phase")
	a.ui.PrintInfo("  next / previous   Move between exercises")
	a.ui.PrintInfo("  1, 2, 3...        Jump to an exercise by number")
	a.ui.PrintInfo("  reset             Restart the current exercise")
	a.ui.PrintInfo("  stop              Halt the timer, keep the position")
	a.ui.PrintInfo("  shuffle           Reorder the workout")
	a.ui.PrintInfo("  options <n>       Show valid replacements for position n")
	a.ui.PrintInfo("  replace <n> <id>  Swap the exercise at position n")
	a.ui.PrintInfo("  status            Show where you are")
	a.ui.PrintInfo("  help              Show this message")
	a.ui.PrintInfo("  quit / exit       Leave")
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	if s == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dm%ds", m, s)
}
