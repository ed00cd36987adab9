package internal

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/goplus/build-mad-pascal/internal/config"
	"github.com/goplus/build-mad-pascal/internal/env"
	"github.com/goplus/build-mad-pascal/pkgs/buildsys/madpascal"
)

var (
	configPath  string
	projectDir  string
	targetGOOS  string
	compileOnly bool
	verbose     bool

	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "build-mad-pascal",
	Short: "build-mad-pascal provides Mad-Pascal build targets to the editor",
	Long: `build-mad-pascal generates the build targets an editor uses to compile the
active file with Mad-Pascal and assemble it with Mad-Assembler, and checks
whether both tools are installed.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogger,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "Configuration file (default <user config dir>/build-mad-pascal/config.yaml)")
	flags.StringVar(&projectDir, "cwd", ".", "Project directory")
	flags.StringVar(&targetGOOS, "goos", runtime.GOOS, "Operating system to generate targets for")
	flags.BoolVar(&compileOnly, "compile-only", false, "Only offer the Mad-Pascal compile target")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func setupLogger(cmd *cobra.Command, args []string) error {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = l
	return nil
}

// openStore loads the configuration file with environment overrides applied.
func openStore() (*config.FileStore, error) {
	path := configPath
	if path == "" {
		p, err := env.ConfigFile()
		if err != nil {
			return nil, fmt.Errorf("failed to locate config file: %w", err)
		}
		path = p
	}
	if err := config.LoadDotEnv(".env", ".env.local"); err != nil {
		logger.Warn("failed to load .env", zap.Error(err))
	}
	store, err := config.OpenFile(path, logger)
	if err != nil {
		return nil, err
	}
	config.ApplyEnv(store.MemStore, madpascal.EnvBindings)
	return store, nil
}

func newProvider(store config.Store) *madpascal.Provider {
	opts := []madpascal.Option{
		madpascal.WithGOOS(targetGOOS),
		madpascal.WithLogger(logger),
	}
	if compileOnly {
		opts = append(opts, madpascal.WithoutAssembler())
	}
	return madpascal.New(projectDir, store, opts...)
}

// errNotEligible makes the process exit with status 1 without an error message.
var errNotEligible = errors.New("not eligible")

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	_ = logger.Sync()
	if errors.Is(err, errNotEligible) {
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
