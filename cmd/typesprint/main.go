// Package main provides the CLI entrypoint for typesprint.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/typesprint/internal/config"
	"github.com/verte-zerg/typesprint/internal/history"
	"github.com/verte-zerg/typesprint/internal/model"
	"github.com/verte-zerg/typesprint/internal/passage"
	"github.com/verte-zerg/typesprint/internal/session"
	"github.com/verte-zerg/typesprint/internal/stats"
	"github.com/verte-zerg/typesprint/internal/store"
	"github.com/verte-zerg/typesprint/internal/tui"
)

const (
	sourcePassages = "passages"
	sourceWords    = "words"
)

const (
	defaultWords = 25
	defaultCaps  = 0.0
	defaultPunct = 0.0
)

const defaultPunctSet = ".,!?;:"

var (
	dbPath string

	practiceDuration     int
	practiceSource       string
	practicePassagesFile string
	practiceWordList     string
	practiceWords        int
	practiceCaps         float64
	practicePunct        float64
	practicePunctSet     string
	practiceSeed         int64
	practiceNoSave       bool
	practiceWindow       int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "typesprint",
		Short:         "Timed typing speed trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", config.DefaultDBPath(), "path to the results database")

	rootCmd.Flags().IntVar(&practiceDuration, "duration", model.DefaultDuration, "test length in seconds (15, 30, 60, 120)")
	rootCmd.Flags().StringVar(&practiceSource, "source", sourcePassages, "passage source: passages or words")
	rootCmd.Flags().StringVar(&practicePassagesFile, "passages", "", "file with one passage per line")
	rootCmd.Flags().StringVar(&practiceWordList, "wordlist", "", "word list for --source words")
	rootCmd.Flags().IntVar(&practiceWords, "words", defaultWords, "words per generated passage")
	rootCmd.Flags().Float64Var(&practiceCaps, "caps", defaultCaps, "probability of capitalized first letter (0-1)")
	rootCmd.Flags().Float64Var(&practicePunct, "punct", defaultPunct, "punctuation probability per word (0-1)")
	rootCmd.Flags().StringVar(&practicePunctSet, "punct-set", defaultPunctSet, "punctuation set")
	rootCmd.Flags().Int64Var(&practiceSeed, "seed", 0, "random seed for passage selection (0 = time based)")
	rootCmd.Flags().BoolVar(&practiceNoSave, "no-save", false, "do not persist results")
	rootCmd.Flags().IntVar(&practiceWindow, "window", stats.DefaultWindow, "recent results shown in the footer")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newHistoryCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyPracticeConfig(cmd, fileCfg)

	cfg := model.Config{
		Duration:     practiceDuration,
		Source:       practiceSource,
		PassagesFile: practicePassagesFile,
		WordListPath: practiceWordList,
		Words:        practiceWords,
		CapsPct:      practiceCaps,
		PunctPct:     practicePunct,
		PunctSet:     practicePunctSet,
		Seed:         practiceSeed,
		NoSave:       practiceNoSave,
		Window:       practiceWindow,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	provider, err := buildPassages(cfg)
	if err != nil {
		return err
	}

	medium, err := openMedium(cfg.NoSave)
	if err != nil {
		return err
	}
	defer closeMedium(medium)
	results := history.NewStore(medium)

	m, err := tui.NewModel(tui.Options{
		Passages: provider,
		Store:    results,
		History:  results,
		Duration: cfg.Duration,
		Window:   cfg.Window,
	})
	if err != nil {
		return err
	}
	defer m.Close()

	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func applyPracticeConfig(cmd *cobra.Command, fileCfg config.FileConfig) {
	p := fileCfg.Practice
	applyIntConfig(cmd, "duration", &practiceDuration, p.Duration)
	applyStringConfig(cmd, "source", &practiceSource, p.Source)
	applyStringConfig(cmd, "passages", &practicePassagesFile, p.PassagesFile)
	applyStringConfig(cmd, "wordlist", &practiceWordList, p.WordList)
	applyIntConfig(cmd, "words", &practiceWords, p.Words)
	applyFloatConfig(cmd, "caps", &practiceCaps, p.CapsPct)
	applyFloatConfig(cmd, "punct", &practicePunct, p.PunctPct)
	applyStringConfig(cmd, "punct-set", &practicePunctSet, p.PunctSet)
	applyInt64Config(cmd, "seed", &practiceSeed, p.Seed)
	applyBoolConfig(cmd, "no-save", &practiceNoSave, p.NoSave)
	applyIntConfig(cmd, "window", &practiceWindow, fileCfg.History.Window)
}

// buildPassages picks the passage provider for the configured source. Without
// an explicit passages file, a passages.txt next to the config file is used
// when present, then the built-in set.
func buildPassages(cfg model.Config) (session.Passages, error) {
	rnd := passage.NewRand(cfg.Seed)
	if cfg.Source == sourceWords {
		path := cfg.WordListPath
		if path == "" {
			path = config.DefaultWordListPath()
		}
		words, err := passage.LoadWords(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load word list %s: %w", path, err)
		}
		gen, err := passage.NewGenerator(words, passage.WordOptions{
			Count:    cfg.Words,
			CapsPct:  cfg.CapsPct,
			PunctPct: cfg.PunctPct,
			PunctSet: []rune(cfg.PunctSet),
		}, rnd)
		if err != nil {
			return nil, err
		}
		return gen, nil
	}

	texts := passage.Builtin
	path := cfg.PassagesFile
	if path == "" {
		if _, err := os.Stat(config.DefaultPassagesPath()); err == nil {
			path = config.DefaultPassagesPath()
		}
	}
	if path != "" {
		loaded, err := passage.LoadPassages(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load passages: %w", err)
		}
		texts = loaded
	}
	picker, err := passage.NewPicker(texts, rnd)
	if err != nil {
		return nil, err
	}
	return picker, nil
}

type medium interface {
	history.Medium
	Close() error
}

func openMedium(noSave bool) (medium, error) {
	if noSave {
		return store.NewMemory(), nil
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeMedium(m medium) {
	if err := m.Close(); err != nil {
		logErrf("failed to close db: %v\n", err)
	}
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
	if err := writeConfigTemplate(path); err != nil {
		return err
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

// writeConfigTemplate creates the config file unless it already exists.
func writeConfigTemplate(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat config: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
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

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
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

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# typesprint configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# duration = %d           # Test length in seconds: 15, 30, 60 or 120
# source = %q     # "passages" or "words"
# passages-file = ""      # One passage per line (default: built-in set)
# wordlist = ""           # Word list for source = "words"
# words = %d              # Words per generated passage
# caps = %.2f             # Probability of capitalized first letter (0-1)
# punct = %.2f            # Punctuation probability per word (0-1)
# punct-set = %q      # Punctuation set
# seed = 0                # Random seed (0 = time based)
# no-save = false         # Do not persist results

[history]
# window = %d             # Recent results shown in charts and lists
`,
		model.DefaultDuration,
		sourcePassages,
		defaultWords,
		defaultCaps,
		defaultPunct,
		defaultPunctSet,
		stats.DefaultWindow,
	)
}

func validateConfig(cfg model.Config) error {
	if err := model.ValidateDuration(cfg.Duration); err != nil {
		return fmt.Errorf("--duration: %w", err)
	}
	switch cfg.Source {
	case sourcePassages, sourceWords:
	default:
		return fmt.Errorf("--source must be %q or %q", sourcePassages, sourceWords)
	}
	if cfg.Words <= 0 {
		return fmt.Errorf("--words must be > 0")
	}
	if cfg.CapsPct < 0 || cfg.CapsPct > 1 {
		return fmt.Errorf("--caps must be between 0 and 1")
	}
	if cfg.PunctPct < 0 || cfg.PunctPct > 1 {
		return fmt.Errorf("--punct must be between 0 and 1")
	}
	if cfg.PunctPct > 0 && cfg.PunctSet == "" {
		return fmt.Errorf("--punct-set must not be empty")
	}
	if cfg.Window <= 0 {
		return fmt.Errorf("--window must be > 0")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
