// Package config provides TOML configuration, defaults, and XDG path
// helpers.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/hammamikhairi/repflow/internal/domain"
)

// Settings is the fully resolved configuration: defaults overlaid with
// the config file, then with command-line flags. Validate before use.
type Settings struct {
	Timer   TimerSettings   `validate:"required"`
	Workout WorkoutSettings `validate:"required"`
	Audio   AudioSettings
}

// TimerSettings controls how each exercise is timed.
type TimerSettings struct {
	PrepareSeconds int `validate:"min=0,max=600"`
	WorkSeconds    int `validate:"min=1,max=3600"`
	RestSeconds    int `validate:"min=0,max=3600"`
	CyclesPerSet   int `validate:"min=1,max=50"`
	Sets           int `validate:"min=1,max=20"`
	SetRestSeconds int `validate:"min=0,max=3600"`
	AutoAdvance    bool
}

// WorkoutSettings controls generation.
type WorkoutSettings struct {
	Length int      `validate:"min=4,max=20"`
	Groups []string `validate:"omitempty,dive,oneof=chest back legs shoulders arms core"`
}

// AudioSettings controls sound and voice output.
type AudioSettings struct {
	Sound bool
	Voice bool
	Name  string // TTS voice, empty = provider default
}

// Defaults returns the built-in settings: a 45/15 interval scheme over
// an 8-exercise workout drawing from every muscle group.
func Defaults() Settings {
	return Settings{
		Timer: TimerSettings{
			PrepareSeconds: 5,
			WorkSeconds:    45,
			RestSeconds:    15,
			CyclesPerSet:   1,
			Sets:           1,
			SetRestSeconds: 60,
			AutoAdvance:    true,
		},
		Workout: WorkoutSettings{
			Length: 8,
		},
		Audio: AudioSettings{
			Sound: true,
		},
	}
}

// FileConfig represents the TOML configuration file. Pointer fields
// distinguish "unset" from zero values.
type FileConfig struct {
	Timer   TimerFileConfig   `toml:"timer"`
	Workout WorkoutFileConfig `toml:"workout"`
	Audio   AudioFileConfig   `toml:"audio"`
}

// TimerFileConfig maps the [timer] section.
type TimerFileConfig struct {
	Prepare      *int  `toml:"prepare"`
	Work         *int  `toml:"work"`
	Rest         *int  `toml:"rest"`
	CyclesPerSet *int  `toml:"cycles-per-set"`
	Sets         *int  `toml:"sets"`
	SetRest      *int  `toml:"set-rest"`
	AutoAdvance  *bool `toml:"auto-advance"`
}

// WorkoutFileConfig maps the [workout] section.
type WorkoutFileConfig struct {
	Length *int     `toml:"length"`
	Groups []string `toml:"groups"`
}

// AudioFileConfig maps the [audio] section.
type AudioFileConfig struct {
	Sound *bool   `toml:"sound"`
	Voice *bool   `toml:"voice"`
	Name  *string `toml:"voice-name"`
}

// Load reads a TOML config from the given path. Missing file is not an
// error.
func Load(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Apply overlays the file config onto the settings. Only set fields win.
func (s *Settings) Apply(fc FileConfig) {
	if fc.Timer.Prepare != nil {
		s.Timer.PrepareSeconds = *fc.Timer.Prepare
	}
	if fc.Timer.Work != nil {
		s.Timer.WorkSeconds = *fc.Timer.Work
	}
	if fc.Timer.Rest != nil {
		s.Timer.RestSeconds = *fc.Timer.Rest
	}
	if fc.Timer.CyclesPerSet != nil {
		s.Timer.CyclesPerSet = *fc.Timer.CyclesPerSet
	}
	if fc.Timer.Sets != nil {
		s.Timer.Sets = *fc.Timer.Sets
	}
	if fc.Timer.SetRest != nil {
		s.Timer.SetRestSeconds = *fc.Timer.SetRest
	}
	if fc.Timer.AutoAdvance != nil {
		s.Timer.AutoAdvance = *fc.Timer.AutoAdvance
	}
	if fc.Workout.Length != nil {
		s.Workout.Length = *fc.Workout.Length
	}
	if len(fc.Workout.Groups) > 0 {
		s.Workout.Groups = append([]string(nil), fc.Workout.Groups...)
	}
	if fc.Audio.Sound != nil {
		s.Audio.Sound = *fc.Audio.Sound
	}
	if fc.Audio.Voice != nil {
		s.Audio.Voice = *fc.Audio.Voice
	}
	if fc.Audio.Name != nil {
		s.Audio.Name = *fc.Audio.Name
	}
}

// Validate checks the resolved settings against the struct tags.
func (s Settings) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(s); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

// TimerConfig converts the timer settings to the engine's config type.
func (s Settings) TimerConfig() domain.TimerConfig {
	return domain.TimerConfig{
		Prepare:         time.Duration(s.Timer.PrepareSeconds) * time.Second,
		Work:            time.Duration(s.Timer.WorkSeconds) * time.Second,
		Rest:            time.Duration(s.Timer.RestSeconds) * time.Second,
		CyclesPerSet:    s.Timer.CyclesPerSet,
		Sets:            s.Timer.Sets,
		RestBetweenSets: time.Duration(s.Timer.SetRestSeconds) * time.Second,
		AutoAdvance:     s.Timer.AutoAdvance,
		SoundEnabled:    s.Audio.Sound,
		VoiceEnabled:    s.Audio.Voice,
	}
}

// MuscleGroups resolves the configured group names. An empty config
// returns nil; callers expand that to the catalog's full group set.
func (s Settings) MuscleGroups() ([]domain.MuscleGroup, error) {
	if len(s.Workout.Groups) == 0 {
		return nil, nil
	}
	out := make([]domain.MuscleGroup, 0, len(s.Workout.Groups))
	for _, name := range s.Workout.Groups {
		g := domain.MuscleGroup(name)
		switch g {
		case domain.GroupChest, domain.GroupBack, domain.GroupLegs,
			domain.GroupShoulders, domain.GroupArms, domain.GroupCore:
			out = append(out, g)
		default:
			return nil, fmt.Errorf("group %q: %w", name, domain.ErrUnknownMuscleGroup)
		}
	}
	return out, nil
}

// ── XDG paths ────────────────────────────────────────────────────

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), "repflow", "config.toml")
}

// DefaultDBPath returns the default path for the history database.
func DefaultDBPath() string {
	return filepath.Join(XDGDataHome(), "repflow", "history.db")
}

// DefaultAudioCacheDir returns the directory for cached TTS audio.
func DefaultAudioCacheDir() string {
	return filepath.Join(XDGDataHome(), "repflow", "tts-cache")
}

// DefaultLogPath returns the default log file path.
func DefaultLogPath() string {
	return filepath.Join(XDGDataHome(), "repflow", "repflow.log")
}
