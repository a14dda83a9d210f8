// Package main provides the CLI entrypoint for dartlog.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/dartlog/internal/api"
	"github.com/verte-zerg/dartlog/internal/config"
	"github.com/verte-zerg/dartlog/internal/gamelog"
	"github.com/verte-zerg/dartlog/internal/generator"
	"github.com/verte-zerg/dartlog/internal/model"
	"github.com/verte-zerg/dartlog/internal/stats"
	"github.com/verte-zerg/dartlog/internal/statsui"
	"github.com/verte-zerg/dartlog/internal/store"
	"github.com/verte-zerg/dartlog/internal/tui"
	"github.com/verte-zerg/dartlog/internal/twentyseven"
)

const (
	defaultRule      = "all"
	defaultWindow    = 5
	defaultAddr      = ":8027"
	defaultRateLimit = 4.0
	defaultBurst     = 8
	defaultHitProb   = 0.3
	defaultSimGames  = 10
	defaultPractice  = 3
	dateLayout       = "2006-01-02"
)

var (
	playPlayers []string
	playOwner   string

	recordPlayers []string
	recordOwner   string
	recordAt      string

	importDryRun bool

	simPlayers    []string
	simGames      int
	simHitProb    float64
	simStopProb   float64
	simStopAtZero bool
	simSeed       int64
	simPrint      bool

	statsRule     string
	statsSince    string
	statsLast     int
	statsPlayers  []string
	statsWindow   int
	statsExtended bool
	statsLocale   string
	statsColor    bool
	statsRounds   bool
	statsHistory  bool

	serveAddr      string
	serveRateLimit float64
	serveBurst     int

	exportLast int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "dartlog",
		Short:         "Twenty-seven darts scorer and statistics",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}
	addPlayFlags(rootCmd)

	rootCmd.AddCommand(newPlayCmd())
	rootCmd.AddCommand(newRecordCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newSimulateCmd())
	rootCmd.AddCommand(newSummaryCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newPlayersCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func twentySeven() stats.Game {
	return stats.Game{
		Type:       twentyseven.Type,
		NewFactory: twentyseven.NewFactory,
		Rows:       twentyseven.DefaultRows(),
		RoundsPart: "rounds",
	}
}

func loadFileConfig() (config.FileConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	return fileCfg, nil
}

func openStore() (*store.Store, func(), error) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db: %w", err)
	}
	closeFn := func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}
	return st, closeFn, nil
}

func addPlayFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&playPlayers, "players", "p", nil, "players in throwing order")
	cmd.Flags().StringVar(&playOwner, "owner", "", "player who recorded the game (default: first player)")
}

func newPlayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Score games interactively",
		Args:  cobra.NoArgs,
		RunE:  runPlayCmd,
	}
	addPlayFlags(cmd)
	return cmd
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	applyStringSliceConfig(cmd, "players", &playPlayers, fileCfg.Play.Players)
	applyStringConfig(cmd, "owner", &playOwner, fileCfg.Play.Owner)
	if len(playPlayers) == 0 {
		return fmt.Errorf("--players must name at least one player")
	}

	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	m, err := tui.NewModel(tui.Options{
		Game:    twentyseven.Definition(),
		Players: playPlayers,
		Owner:   playOwner,
		Valid:   twentyseven.ValidHits,
	}, st)
	if err != nil {
		return err
	}
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if n := m.Saved(); n > 0 {
		logErrf("Saved %d game(s)\n", n)
	}
	return nil
}

func newRecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a finished game from the command line",
		Example: `  dartlog record --player alice=1,0,2,3 --player bob=0,0,1
  dartlog record --player alice="1 0 2 3" --at 2024-05-01T18:00:00Z`,
		Args: cobra.NoArgs,
		RunE: runRecordCmd,
	}
	cmd.Flags().StringArrayVar(&recordPlayers, "player", nil, "player=values, values separated by commas or spaces (repeatable)")
	cmd.Flags().StringVar(&recordOwner, "owner", "", "player who recorded the game (default: first player)")
	cmd.Flags().StringVar(&recordAt, "at", "", "start time (RFC 3339 or YYYY-MM-DD, default: now)")
	return cmd
}

func runRecordCmd(_ *cobra.Command, _ []string) error {
	if len(recordPlayers) == 0 {
		return fmt.Errorf("--player is required")
	}
	var text strings.Builder
	if recordAt != "" || recordOwner != "" {
		text.WriteString("@")
		if recordAt != "" {
			at, err := parseTime(recordAt)
			if err != nil {
				return fmt.Errorf("invalid --at value: %w", err)
			}
			text.WriteString(" " + at.Format(time.RFC3339))
		}
		if recordOwner != "" {
			text.WriteString(" owner=" + recordOwner)
		}
		text.WriteByte('\n')
	}
	for _, p := range recordPlayers {
		name, values, ok := strings.Cut(p, "=")
		if !ok {
			return fmt.Errorf("invalid --player %q (expected name=values)", p)
		}
		fmt.Fprintf(&text, "%s: %s\n", strings.TrimSpace(name), strings.ReplaceAll(values, ",", " "))
	}
	games, err := gamelog.Parse(strings.NewReader(text.String()), importOptions(time.Now()))
	if err != nil {
		return fmt.Errorf("failed to parse game: %w", err)
	}

	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	def := twentyseven.Definition()
	for _, g := range games {
		id, err := st.InsertGame(context.Background(), g)
		if err != nil {
			return fmt.Errorf("failed to save game: %w", err)
		}
		results, err := def.ResolveGame(g)
		if err != nil {
			return fmt.Errorf("failed to score game: %w", err)
		}
		parts := make([]string, len(results))
		for i, r := range results {
			parts[i] = fmt.Sprintf("%s %.0f", r.PlayerID, r.Score)
		}
		if _, err := fmt.Printf("Saved game #%d: %s\n", id, strings.Join(parts, ", ")); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func importOptions(start time.Time) gamelog.Options {
	return gamelog.Options{
		GameType:   twentyseven.Type,
		Addressing: model.AddressIndexed,
		Start:      start,
		Valid:      twentyseven.ValidHits,
	}
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [file...]",
		Short: "Import games from game log files",
		Long:  "Import games from game log files. Without arguments every *.txt file in the import directory is read.",
		RunE:  runImportCmd,
	}
	cmd.Flags().BoolVar(&importDryRun, "dry-run", false, "parse files without saving")
	return cmd
}

func runImportCmd(_ *cobra.Command, args []string) error {
	paths := args
	if len(paths) == 0 {
		dir := config.DefaultImportDir()
		matches, err := filepath.Glob(filepath.Join(dir, "*.txt"))
		if err != nil {
			return fmt.Errorf("failed to list import directory: %w", err)
		}
		if len(matches) == 0 {
			return fmt.Errorf("no game logs found in %s", dir)
		}
		sort.Strings(matches)
		paths = matches
	}

	var games []model.GameRecord
	start := time.Now()
	for _, path := range paths {
		loaded, err := gamelog.Load(path, importOptions(start))
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		logErrf("Read %d game(s) from %s\n", len(loaded), path)
		games = append(games, loaded...)
		start = start.Add(time.Duration(len(loaded)) * time.Minute)
	}
	if importDryRun {
		logErrf("Dry run: %d game(s) not saved\n", len(games))
		return nil
	}

	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()
	for _, g := range games {
		if _, err := st.InsertGame(context.Background(), g); err != nil {
			return fmt.Errorf("failed to save game: %w", err)
		}
	}
	logErrf("Imported %d game(s)\n", len(games))
	return nil
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write stored games in game log format",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	cmd.Flags().IntVar(&exportLast, "last", 0, "limit to last N games")
	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()
	games, err := st.ListGames(context.Background(), model.StatsConfig{GameType: twentyseven.Type, Last: exportLast})
	if err != nil {
		return fmt.Errorf("failed to load games: %w", err)
	}
	if err := gamelog.Write(cmd.OutOrStdout(), games); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Generate random games",
		Args:  cobra.NoArgs,
		RunE:  runSimulateCmd,
	}
	cmd.Flags().StringSliceVarP(&simPlayers, "players", "p", []string{"sim"}, "simulated players")
	cmd.Flags().IntVar(&simGames, "games", defaultSimGames, "number of games")
	cmd.Flags().Float64Var(&simHitProb, "hit-prob", defaultHitProb, "probability of each dart hitting (0-1)")
	cmd.Flags().Float64Var(&simStopProb, "stop-prob", 0, "probability of abandoning after each round (0-1)")
	cmd.Flags().BoolVar(&simStopAtZero, "stop-at-zero", true, "end a player's game once the score drops to zero")
	cmd.Flags().Int64Var(&simSeed, "seed", 0, "random seed (default: time based)")
	cmd.Flags().BoolVar(&simPrint, "print", false, "print games instead of saving them")
	return cmd
}

func runSimulateCmd(cmd *cobra.Command, _ []string) error {
	if simGames <= 0 {
		return fmt.Errorf("--games must be > 0")
	}
	if len(simPlayers) == 0 {
		return fmt.Errorf("--players must not be empty")
	}
	opts := generator.Options{
		HitProb:    simHitProb,
		Darts:      twentyseven.MaxHits,
		StopProb:   simStopProb,
		StopAtZero: simStopAtZero,
	}
	if err := opts.Validate(); err != nil {
		return err
	}
	gen := generator.New()
	if cmd.Flags().Changed("seed") {
		gen = generator.NewSeeded(simSeed)
	}

	def := twentyseven.Definition()
	start := time.Now().Add(-time.Duration(simGames) * time.Minute)
	games := make([]model.GameRecord, 0, simGames)
	for i := 0; i < simGames; i++ {
		g, err := gen.Game(def, simPlayers, start.Add(time.Duration(i)*time.Minute), opts)
		if err != nil {
			return fmt.Errorf("failed to generate game: %w", err)
		}
		games = append(games, g)
	}
	if simPrint {
		return gamelog.Write(cmd.OutOrStdout(), games)
	}

	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()
	for _, g := range games {
		if _, err := st.InsertGame(context.Background(), g); err != nil {
			return fmt.Errorf("failed to save game: %w", err)
		}
	}
	logErrf("Simulated %d game(s)\n", len(games))
	return nil
}

func addStatsFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&statsRule, "rule", defaultRule, "summary rule (all, solo, team, with:a,b, only:a,b)")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N games")
	cmd.Flags().StringSliceVarP(&statsPlayers, "players", "p", nil, "columns to show (default: all players)")
	cmd.Flags().IntVar(&statsWindow, "window", defaultWindow, "moving average window for score history")
	cmd.Flags().BoolVar(&statsExtended, "extended", false, "show extended rows")
	cmd.Flags().StringVar(&statsLocale, "locale", "", "number locale (BCP 47, default: en)")
}

// statsConfig merges stats flags with the config file.
func statsConfig(cmd *cobra.Command, fileCfg config.FileConfig) (model.StatsConfig, error) {
	applyStringConfig(cmd, "rule", &statsRule, fileCfg.Stats.Rule)
	applyStringConfig(cmd, "since", &statsSince, fileCfg.Stats.Since)
	applyIntConfig(cmd, "last", &statsLast, fileCfg.Stats.Last)
	applyIntConfig(cmd, "window", &statsWindow, fileCfg.Stats.Window)
	applyBoolConfig(cmd, "extended", &statsExtended, fileCfg.Display.Extended)
	applyStringConfig(cmd, "locale", &statsLocale, fileCfg.Display.Locale)

	var since *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation(dateLayout, statsSince, time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		since = &parsed
	}
	if statsLast < 0 {
		return model.StatsConfig{}, fmt.Errorf("--last must be >= 0")
	}
	if statsWindow < 1 {
		return model.StatsConfig{}, fmt.Errorf("--window must be >= 1")
	}
	return model.StatsConfig{
		GameType: twentyseven.Type,
		Since:    since,
		Last:     statsLast,
		Players:  statsPlayers,
		Rule:     statsRule,
		Extended: statsExtended,
		Locale:   statsLocale,
		Window:   statsWindow,
	}, nil
}

func newSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the summary table",
		Args:  cobra.NoArgs,
		RunE:  runSummaryCmd,
	}
	addStatsFlags(cmd)
	cmd.Flags().BoolVar(&statsColor, "color", false, "force coloured output")
	cmd.Flags().BoolVar(&statsRounds, "rounds", false, "print the per-round breakdown")
	cmd.Flags().BoolVar(&statsHistory, "history", false, "plot score history")
	return cmd
}

func runSummaryCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	cfg, err := statsConfig(cmd, fileCfg)
	if err != nil {
		return err
	}
	applyBoolConfig(cmd, "color", &statsColor, fileCfg.Display.Color)

	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	game := twentySeven()
	report, err := stats.BuildReport(context.Background(), st, game, cfg, fileCfg)
	if err != nil {
		return err
	}
	for _, w := range report.Warnings {
		logErrln("warning:", w)
	}
	out := cmd.OutOrStdout()
	useColor := statsColor || isTerminal(out)
	if err := stats.RenderSummary(out, report, useColor); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if statsRounds {
		if err := stats.RenderRounds(out, report, game.RoundsPart); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if err := stats.RenderPractice(out, report, game.RoundsPart, defaultPractice); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if statsHistory {
		if err := stats.RenderHistory(out, report, cfg.Window, stats.PlotOptions{Color: statsColor}); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Browse stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	addStatsFlags(cmd)
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	cfg, err := statsConfig(cmd, fileCfg)
	if err != nil {
		return err
	}

	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	m := statsui.NewModel(st, twentySeven(), cfg, fileCfg)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve summaries over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServeCmd,
	}
	cmd.Flags().StringVar(&serveAddr, "addr", defaultAddr, "listen address")
	cmd.Flags().Float64Var(&serveRateLimit, "rate-limit", defaultRateLimit, "requests per second per client (0 disables)")
	cmd.Flags().IntVar(&serveBurst, "burst", defaultBurst, "rate limiter burst")
	cmd.Flags().StringVar(&statsLocale, "locale", "", "number locale (BCP 47, default: en)")
	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "addr", &serveAddr, fileCfg.Server.Addr)
	applyFloatConfig(cmd, "rate-limit", &serveRateLimit, fileCfg.Server.RateLimit)
	applyIntConfig(cmd, "burst", &serveBurst, fileCfg.Server.Burst)
	applyStringConfig(cmd, "locale", &statsLocale, fileCfg.Display.Locale)
	if serveRateLimit < 0 {
		return fmt.Errorf("--rate-limit must be >= 0")
	}
	if serveBurst < 1 {
		return fmt.Errorf("--burst must be >= 1")
	}

	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	cfg := api.DefaultConfig()
	cfg.Locale = statsLocale
	cfg.Limiter.RPS = serveRateLimit
	cfg.Limiter.Burst = serveBurst
	cfg.Limiter.Enabled = serveRateLimit > 0
	srv, err := api.New(st, twentySeven(), fileCfg, cfg, os.Stderr)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Serve(ctx, serveAddr)
}

func newPlayersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "players",
		Short: "List players with stored games",
		Args:  cobra.NoArgs,
		RunE:  runPlayersCmd,
	}
}

func runPlayersCmd(cmd *cobra.Command, _ []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	players, err := st.ListPlayers(context.Background(), twentyseven.Type)
	if err != nil {
		return fmt.Errorf("failed to list players: %w", err)
	}
	if len(players) == 0 {
		logErrln("No games recorded yet. Start with: dartlog play --players <name>")
		return nil
	}
	for _, p := range players {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\t%s\n", p.ID, p.Games, p.LastPlayed.Local().Format(dateLayout)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <game-id>",
		Short: "Delete a stored game",
		Args:  cobra.ExactArgs(1),
		RunE:  runDeleteCmd,
	}
}

func runDeleteCmd(_ *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid game id %q", args[0])
	}
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()
	if err := st.DeleteGame(context.Background(), id); err != nil {
		return fmt.Errorf("failed to delete game %d: %w", id, err)
	}
	logErrf("Deleted game #%d\n", id)
	return nil
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

func isTerminal(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation(dateLayout, s, time.Local)
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

func applyStringSliceConfig(cmd *cobra.Command, name string, target *[]string, value []string) {
	if len(value) == 0 {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = append([]string(nil), value...)
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
	return fmt.Sprintf(`# dartlog configuration
# Uncomment a value to enable it. CLI flags override config values.

[play]
# players = ["alice", "bob"]  # Players in throwing order
# owner = "alice"             # Player who records games

[stats]
# rule = %q               # all, solo, team, with:a,b or only:a,b
# last = 0                  # Limit to last N games (0 = all)
# since = "2024-01-01"      # Start date
# window = %d                # Moving average window for score history

[display]
# locale = "en"             # Number locale (BCP 47)
# color = false             # Force coloured summary output
# extended = false          # Show extended rows
# default-rows = true       # Show built-in rows before custom ones

[server]
# addr = %q
# rate-limit = %.1f         # Requests per second per client (0 disables)
# burst = %d

# Named fields usable from rows
# [refs]
# perGame = ["cliffs.total", "/", "numGames"]

# Custom summary rows
# [[rows]]
# group = "Custom"
# label = "Cliffs per game"
# field = ["cliffs.total", "/", "numGames"]
# direction = "higher"
# [rows.format]
# max-fraction-digits = 2
`,
		defaultRule,
		defaultWindow,
		defaultAddr,
		defaultRateLimit,
		defaultBurst,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
