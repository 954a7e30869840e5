// Package main provides the CLI entrypoint for reflex.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/akhutsishvili/hit-reflex-trainer/internal/config"
	"github.com/akhutsishvili/hit-reflex-trainer/internal/difficulty"
	"github.com/akhutsishvili/hit-reflex-trainer/internal/history"
	"github.com/akhutsishvili/hit-reflex-trainer/internal/historyui"
	"github.com/akhutsishvili/hit-reflex-trainer/internal/model"
	"github.com/akhutsishvili/hit-reflex-trainer/internal/stats"
	"github.com/akhutsishvili/hit-reflex-trainer/internal/stimulus"
	"github.com/akhutsishvili/hit-reflex-trainer/internal/store"
	"github.com/akhutsishvili/hit-reflex-trainer/internal/tui"
)

const (
	defaultMode     = string(model.ModeBoth)
	defaultType     = string(model.TypeSingle)
	defaultSessions = 1
)

var (
	trainDifficulty string
	trainMode       string
	trainType       string
	trainSessions   int
	trainMidRest    bool

	historyPlain bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "reflex",
		Short:         "TUI reaction trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runTrainCmd,
	}

	rootCmd.Flags().StringVar(&trainDifficulty, "difficulty", "", "difficulty id (default: active profile or standard)")
	rootCmd.Flags().StringVar(&trainMode, "mode", defaultMode, "cue mode: a, b, or both")
	rootCmd.Flags().StringVar(&trainType, "type", defaultType, "training type: single or combo")
	rootCmd.Flags().IntVar(&trainSessions, "sessions", defaultSessions, "number of sessions (1-4)")
	rootCmd.Flags().BoolVar(&trainMidRest, "mid-rest", false, "take a breather halfway through each single-mode session")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newProfilesCmd())

	return rootCmd
}

func runTrainCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx := context.Background()
	program, err := resolveProgram(ctx, cmd, fileCfg, st)
	if err != nil {
		return err
	}

	profile, warnings, err := resolveProfile(ctx, st, program.Difficulty)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		logErrf("warning: %s\n", w)
	}

	if err := st.SaveLastProgram(ctx, program); err != nil {
		logErrf("failed to save last program: %v\n", err)
	}

	recorder := history.NewRecorder(st)
	m := tui.NewModel(profile, program, stimulus.New(), recorder, tui.NewBeeper(os.Stdout))
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithReportFocus())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func resolveProgram(ctx context.Context, cmd *cobra.Command, fileCfg config.FileConfig, st *store.Store) (model.TrainingProgram, error) {
	last, haveLast, err := st.LastProgram(ctx)
	if err != nil {
		logErrf("failed to load last program: %v\n", err)
		haveLast = false
	}
	if haveLast {
		applyStringDefault(cmd, "difficulty", &trainDifficulty, last.Difficulty)
		applyStringDefault(cmd, "mode", &trainMode, string(last.Mode))
		applyStringDefault(cmd, "type", &trainType, string(last.TrainingType))
		applyIntDefault(cmd, "sessions", &trainSessions, last.Sessions)
		applyBoolDefault(cmd, "mid-rest", &trainMidRest, last.MidRest)
	}
	applyStringConfig(cmd, "difficulty", &trainDifficulty, fileCfg.Training.Difficulty)
	applyStringConfig(cmd, "mode", &trainMode, fileCfg.Training.Mode)
	applyStringConfig(cmd, "type", &trainType, fileCfg.Training.Type)
	applyIntConfig(cmd, "sessions", &trainSessions, fileCfg.Training.Sessions)
	applyBoolConfig(cmd, "mid-rest", &trainMidRest, fileCfg.Training.MidRest)

	if trainDifficulty == "" {
		active, err := st.ActiveProfile(ctx)
		if err != nil {
			logErrf("failed to load active profile: %v\n", err)
		}
		if active != "" {
			trainDifficulty = active
		} else {
			trainDifficulty = difficulty.DefaultID
		}
	}

	program := model.TrainingProgram{
		Mode:         model.Mode(trainMode),
		TrainingType: model.TrainingType(trainType),
		Sessions:     trainSessions,
		Difficulty:   trainDifficulty,
		MidRest:      trainMidRest,
	}
	if !model.ValidMode(program.Mode) {
		return model.TrainingProgram{}, fmt.Errorf("--mode must be a, b, or both")
	}
	if !model.ValidTrainingType(program.TrainingType) {
		return model.TrainingProgram{}, fmt.Errorf("--type must be single or combo")
	}
	if program.Sessions < 1 || program.Sessions > 4 {
		return model.TrainingProgram{}, fmt.Errorf("--sessions must be between 1 and 4")
	}
	return program, nil
}

// resolveProfile merges a stored custom override (if any) over its base
// difficulty and validates the result. The scheduler only ever receives
// profiles that passed this validation.
func resolveProfile(ctx context.Context, st *store.Store, id string) (model.DifficultyProfile, []string, error) {
	overrides, err := st.LoadProfiles(ctx)
	if err != nil {
		logErrf("failed to load custom profiles: %v\n", err)
		overrides = nil
	}
	var profile model.DifficultyProfile
	if override, ok := overrides[id]; ok {
		profile, err = difficulty.Resolve(id, override.BaseID(), &override)
	} else {
		profile, err = difficulty.Resolve(id, id, nil)
	}
	if err != nil {
		return model.DifficultyProfile{}, nil, err
	}
	warnings, err := difficulty.Validate(profile)
	if err != nil {
		return model.DifficultyProfile{}, nil, fmt.Errorf("difficulty %q is invalid: %w", id, err)
	}
	return profile, warnings, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded sessions",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().BoolVar(&historyPlain, "plain", false, "print a text report instead of the TUI")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	entries, err := st.LoadHistory(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	if historyPlain || !term.IsTerminal(int(os.Stdout.Fd())) {
		return stats.RenderHistory(cmd.OutOrStdout(), entries)
	}

	m := historyui.NewModel(entries)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run history TUI: %w", err)
	}
	return nil
}

func newProfilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "Manage difficulty profiles",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List resolved difficulty profiles",
		Args:  cobra.NoArgs,
		RunE:  runProfilesListCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "import <file.toml>",
		Short: "Validate and save a custom profile",
		Args:  cobra.ExactArgs(1),
		RunE:  runProfilesImportCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "use <id>",
		Short: "Set the active profile",
		Args:  cobra.ExactArgs(1),
		RunE:  runProfilesUseCmd,
	})
	return cmd
}

func runProfilesListCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx := context.Background()
	active, err := st.ActiveProfile(ctx)
	if err != nil {
		logErrf("failed to load active profile: %v\n", err)
	}
	overrides, err := st.LoadProfiles(ctx)
	if err != nil {
		logErrf("failed to load custom profiles: %v\n", err)
	}

	ids := difficulty.BuiltinIDs()
	for id := range overrides {
		if _, builtin := difficulty.Builtin(id); !builtin {
			ids = append(ids, id)
		}
	}

	out := cmd.OutOrStdout()
	for _, id := range ids {
		profile, _, err := resolveProfile(ctx, st, id)
		if err != nil {
			logErrf("skipping %s: %v\n", id, err)
			continue
		}
		marker := " "
		if id == active {
			marker = "*"
		}
		rest := "no break"
		if profile.Rest.Enabled {
			rest = fmt.Sprintf("%ds break", profile.Rest.BreakDuration/1000)
		}
		if _, err := fmt.Fprintf(out,
			"%s %-10s interval %d-%dms  hits %d-%d  combos %dx%d-%d (gap %d-%dms, rest %d-%dms)  %s\n",
			marker, profile.ID,
			profile.MinInterval, profile.MaxInterval,
			profile.TotalHits.Min, profile.TotalHits.Max,
			profile.TotalCombos, profile.ComboSize.Min, profile.ComboSize.Max,
			profile.StrikeGap.Min, profile.StrikeGap.Max,
			profile.ComboRest.Min, profile.ComboRest.Max,
			rest,
		); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func runProfilesImportCmd(cmd *cobra.Command, args []string) error {
	path := args[0]
	override, err := difficulty.LoadOverride(path)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}
	id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	profile, err := difficulty.Resolve(id, override.BaseID(), &override)
	if err != nil {
		return err
	}
	warnings, err := difficulty.Validate(profile)
	if err != nil {
		// Hard errors block saving the profile.
		return fmt.Errorf("profile %q rejected: %w", id, err)
	}
	for _, w := range warnings {
		logErrf("warning: %s\n", w)
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	if err := st.SaveProfile(context.Background(), id, override); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Saved profile %s (base %s)\n", id, override.BaseID()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func runProfilesUseCmd(cmd *cobra.Command, args []string) error {
	id := args[0]
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx := context.Background()
	if _, _, err := resolveProfile(ctx, st, id); err != nil {
		return err
	}
	if err := st.SetActiveProfile(ctx, id); err != nil {
		return fmt.Errorf("failed to set active profile: %w", err)
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Active profile: %s\n", id); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyStringDefault(cmd *cobra.Command, name string, target *string, value string) {
	if value == "" || cmd.Flags().Changed(name) {
		return
	}
	*target = value
}

func applyIntDefault(cmd *cobra.Command, name string, target *int, value int) {
	if value == 0 || cmd.Flags().Changed(name) {
		return
	}
	*target = value
}

func applyBoolDefault(cmd *cobra.Command, name string, target *bool, value bool) {
	if cmd.Flags().Changed(name) {
		return
	}
	*target = value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# reflex configuration
# Uncomment a value to enable it. CLI flags override config values.

[training]
# difficulty = %q    # Difficulty id: light, standard, intense, or a custom profile
# mode = %q              # Cue mode: a, b, or both
# type = %q            # Training type: single or combo
# sessions = %d               # Sessions per program (1-4)
# mid-rest = false           # Breather halfway through single-mode sessions
`,
		difficulty.DefaultID,
		defaultMode,
		defaultType,
		defaultSessions,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
