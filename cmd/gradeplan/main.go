// Package main provides the CLI entrypoint for gradeplan.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-kit/log"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/gradeplan/internal/applog"
	"github.com/verte-zerg/gradeplan/internal/config"
	"github.com/verte-zerg/gradeplan/internal/distribution"
	"github.com/verte-zerg/gradeplan/internal/grade"
	"github.com/verte-zerg/gradeplan/internal/model"
	"github.com/verte-zerg/gradeplan/internal/stats"
	"github.com/verte-zerg/gradeplan/internal/statsui"
	"github.com/verte-zerg/gradeplan/internal/store"
	"github.com/verte-zerg/gradeplan/internal/tui"
)

const (
	defaultBackend     = store.BackendSQLite
	defaultCurveWindow = 5
	defaultChartWidth  = 800
	defaultChartHeight = 400
	defaultPlotHeight  = 10
)

var (
	storeBackend string
	storePath    string

	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsMyGrade     float64

	chartPNG    string
	chartWidth  int
	chartHeight int

	exportOut string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "gradeplan",
		Short:         "Two-year grade tracker and target planner",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runEditorCmd,
	}

	rootCmd.PersistentFlags().StringVar(&storeBackend, "backend", defaultBackend, "store backend (sqlite or bolt)")
	rootCmd.PersistentFlags().StringVar(&storePath, "db", "", "store file path (default: XDG data dir)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newSummaryCmd())
	rootCmd.AddCommand(newChartCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newExportCmd())

	return rootCmd
}

// loadFileConfig resolves the TOML file, the dotenv file and the environment
// and applies them to every flag the user did not set.
func loadFileConfig(cmd *cobra.Command) (config.FileConfig, error) {
	if err := config.LoadEnv(config.DefaultEnvPath()); err != nil {
		return config.FileConfig{}, err
	}
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	config.ApplyEnv(&fileCfg)
	applyStringConfig(cmd, "backend", &storeBackend, fileCfg.Store.Backend)
	applyStringConfig(cmd, "db", &storePath, fileCfg.Store.Path)
	return fileCfg, nil
}

func resolveConfig() (model.Config, error) {
	cfg := model.Config{
		StoreBackend: strings.ToLower(strings.TrimSpace(storeBackend)),
		StorePath:    strings.TrimSpace(storePath),
		MyGrade:      statsMyGrade,
	}
	if cfg.StoreBackend == "" {
		cfg.StoreBackend = defaultBackend
	}
	if cfg.StoreBackend != store.BackendSQLite && cfg.StoreBackend != store.BackendBolt {
		return model.Config{}, fmt.Errorf("--backend must be %s or %s", store.BackendSQLite, store.BackendBolt)
	}
	if cfg.StorePath == "" {
		cfg.StorePath = config.DefaultStorePath(cfg.StoreBackend)
	}
	return cfg, nil
}

func openStore(cfg model.Config, logger log.Logger) (store.Store, func(), error) {
	if err := os.MkdirAll(filepath.Dir(cfg.StorePath), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	st, err := store.Open(cfg.StoreBackend, cfg.StorePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store: %w", err)
	}
	closeFn := func() {
		if cerr := st.Close(); cerr != nil {
			applog.Error(logger, "failed to close store", cerr, "path", cfg.StorePath)
		}
	}
	return st, closeFn, nil
}

// tuiLogger logs to a file so the alternate screen stays intact.
func tuiLogger() (log.Logger, func()) {
	logger, closeFile, err := applog.NewFile(config.DefaultLogPath())
	if err != nil {
		applog.Error(applog.New(os.Stderr), "failed to open log file, logging disabled", err)
		return applog.Nop(), func() {}
	}
	return logger, func() {
		if cerr := closeFile(); cerr != nil {
			// Best-effort close of the log file.
			_ = cerr
		}
	}
}

func runEditorCmd(cmd *cobra.Command, _ []string) error {
	if _, err := loadFileConfig(cmd); err != nil {
		return err
	}
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}

	logger, closeLog := tuiLogger()
	defer closeLog()

	st, closeStore, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	book, _, err := st.LoadBook(ctx)
	if err != nil {
		return fmt.Errorf("failed to load subjects: %w", err)
	}
	applog.Info(logger, "editor started", "backend", cfg.StoreBackend, "subjects", len(book.Subjects), "version", book.Version)

	editor := tui.NewModel(ctx, st, logger, book)
	program := tea.NewProgram(editor, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	applog.Info(logger, "editor closed", "version", editor.Book().Version)
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

func addStatsFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N saves")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().Float64Var(&statsMyGrade, "my-grade", distribution.DefaultMarker, "grade highlighted on the distribution")
}

func resolveStatsConfig(cmd *cobra.Command) (model.StatsConfig, error) {
	fileCfg, err := loadFileConfig(cmd)
	if err != nil {
		return model.StatsConfig{}, err
	}
	applyIntConfig(cmd, "curve-window", &statsCurveWindow, fileCfg.Stats.CurveWindow)
	applyIntConfig(cmd, "last", &statsLast, fileCfg.Stats.Last)
	applyFloatConfig(cmd, "my-grade", &statsMyGrade, fileCfg.Chart.MyGrade)

	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	cfg := model.StatsConfig{
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
		MyGrade:     statsMyGrade,
	}
	if err := validateStatsConfig(cfg); err != nil {
		return model.StatsConfig{}, err
	}
	return cfg, nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	addStatsFlags(cmd)
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	statsCfg, err := resolveStatsConfig(cmd)
	if err != nil {
		return err
	}
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}

	logger, closeLog := tuiLogger()
	defer closeLog()

	st, closeStore, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	ui := statsui.NewModel(context.Background(), st, logger, statsCfg)
	program := tea.NewProgram(ui, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func newSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print means, subjects and grade history",
		Args:  cobra.NoArgs,
		RunE:  runSummaryCmd,
	}
	addStatsFlags(cmd)
	return cmd
}

func runSummaryCmd(cmd *cobra.Command, _ []string) error {
	statsCfg, err := resolveStatsConfig(cmd)
	if err != nil {
		return err
	}
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}
	logger := applog.New(os.Stderr)
	st, closeStore, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	report, err := stats.BuildReport(context.Background(), st, statsCfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, report); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderSubjectTable(out, report.Book); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderCurves(out, report.History, statsCfg.CurveWindow, 0, defaultPlotHeight, false); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newChartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Show the historical grade distribution",
		Args:  cobra.NoArgs,
		RunE:  runChartCmd,
	}
	cmd.Flags().Float64Var(&statsMyGrade, "my-grade", distribution.DefaultMarker, "grade highlighted on the chart")
	cmd.Flags().StringVar(&chartPNG, "png", "", "write the chart as PNG to this file")
	cmd.Flags().IntVar(&chartWidth, "width", defaultChartWidth, "PNG width in pixels")
	cmd.Flags().IntVar(&chartHeight, "height", defaultChartHeight, "PNG height in pixels")
	return cmd
}

func runChartCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig(cmd)
	if err != nil {
		return err
	}
	applyFloatConfig(cmd, "my-grade", &statsMyGrade, fileCfg.Chart.MyGrade)
	applyIntConfig(cmd, "width", &chartWidth, fileCfg.Chart.Width)
	applyIntConfig(cmd, "height", &chartHeight, fileCfg.Chart.Height)
	if statsMyGrade < 0 || statsMyGrade > grade.MaxGrade {
		return fmt.Errorf("--my-grade must be between 0 and 20")
	}

	hist := distribution.Build(distribution.Historical, statsMyGrade)
	if chartPNG == "" {
		if err := stats.RenderHistogram(cmd.OutOrStdout(), hist, 0); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	if chartWidth <= 0 || chartHeight <= 0 {
		return fmt.Errorf("--width and --height must be > 0")
	}
	var buf bytes.Buffer
	if err := distribution.RenderPNG(&buf, hist, chartWidth, chartHeight); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	if err := writeFileAtomic(chartPNG, buf.Bytes()); err != nil {
		return err
	}
	applog.Info(applog.New(os.Stderr), "chart written", "path", chartPNG, "bytes", buf.Len())
	return nil
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Replace subjects with a JSON export (use - for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE:  runImportCmd,
	}
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	if _, err := loadFileConfig(cmd); err != nil {
		return err
	}
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}
	data, err := readInput(cmd.InOrStdin(), args[0])
	if err != nil {
		return err
	}
	var imported model.Book
	if err := json.Unmarshal(data, &imported); err != nil {
		return fmt.Errorf("failed to decode %s: %w", args[0], err)
	}

	logger := applog.New(os.Stderr)
	st, closeStore, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	ctx := context.Background()
	current, _, err := st.LoadBook(ctx)
	if err != nil {
		return fmt.Errorf("failed to load subjects: %w", err)
	}
	book := model.Book{Version: current.Version + 1, Subjects: imported.Subjects}
	if err := st.SaveBook(ctx, book, stats.HistoryPoint(book, time.Now())); err != nil {
		return fmt.Errorf("failed to save subjects: %w", err)
	}
	applog.Info(logger, "subjects imported", "file", args[0], "subjects", len(book.Subjects), "version", book.Version)
	return nil
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write subjects as JSON",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVarP(&exportOut, "output", "o", "", "output file (default: stdout)")
	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	if _, err := loadFileConfig(cmd); err != nil {
		return err
	}
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}
	st, closeStore, err := openStore(cfg, applog.New(os.Stderr))
	if err != nil {
		return err
	}
	defer closeStore()

	book, _, err := st.LoadBook(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load subjects: %w", err)
	}
	data, err := encodeSubjects(book)
	if err != nil {
		return err
	}
	if exportOut == "" {
		if _, err := cmd.OutOrStdout().Write(data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	return writeFileAtomic(exportOut, data)
}

// encodeSubjects writes the bare subject array the browser tracker stores.
func encodeSubjects(book model.Book) ([]byte, error) {
	subjects := book.Subjects
	if subjects == nil {
		subjects = []model.Subject{}
	}
	data, err := json.MarshalIndent(subjects, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode subjects: %w", err)
	}
	return append(data, '\n'), nil
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(dir, ".gradeplan-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()
	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
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

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# gradeplan configuration
# Uncomment a value to enable it. CLI flags and %s / %s
# (also read from gradeplan.env next to this file) override config values.

[store]
# backend = %q           # sqlite or bolt
# path = ""               # Store file (default: XDG data dir)

[stats]
# curve-window = %d        # Moving average window for history curves
# last = 0                # Limit history to the last N saves (0 = all)

[chart]
# my-grade = %.1f          # Grade highlighted on the distribution chart
# width = %d             # PNG width in pixels
# height = %d            # PNG height in pixels
`,
		config.EnvStoreBackend,
		config.EnvStorePath,
		defaultBackend,
		defaultCurveWindow,
		distribution.DefaultMarker,
		defaultChartWidth,
		defaultChartHeight,
	)
}

func validateStatsConfig(cfg model.StatsConfig) error {
	if cfg.CurveWindow <= 0 {
		return fmt.Errorf("--curve-window must be > 0")
	}
	if cfg.Last < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if cfg.MyGrade < 0 || cfg.MyGrade > grade.MaxGrade {
		return fmt.Errorf("--my-grade must be between 0 and 20")
	}
	return nil
}
