package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/ppiankov/corefer/internal/cache"
	"github.com/ppiankov/corefer/internal/knowledge"
	"github.com/ppiankov/corefer/internal/logging"
	"github.com/ppiankov/corefer/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage Corefer configuration",
	Long: `Manage Corefer configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (COREFER_*)
3. Config file (~/.corefer/config.yaml)
4. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration after merging defaults, the config file and environment variables.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		configFile := viper.ConfigFileUsed()
		if configFile != "" {
			fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", configFile)
		} else {
			fmt.Fprintf(os.Stderr, "No configuration file found (using defaults)\n\n")
		}

		fmt.Println("═══════════════════════════════════════════════════════════")
		fmt.Println("  Current Configuration")
		fmt.Println("═══════════════════════════════════════════════════════════")
		fmt.Println()

		yamlData, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}

		fmt.Println(string(yamlData))

		fmt.Println("═══════════════════════════════════════════════════════════")
		fmt.Println()
		fmt.Println("Configuration hierarchy (highest to lowest priority):")
		fmt.Println("  1. CLI flags")
		fmt.Println("  2. Environment variables (COREFER_*, e.g. COREFER_LINKER_LANGUAGE)")
		fmt.Println("  3. Config file (~/.corefer/config.yaml)")
		fmt.Println("  4. Defaults")
		fmt.Println()

		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize default configuration file",
	Long:  `Create a default configuration file at ~/.corefer/config.yaml with all available options.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("error finding home directory: %w", err)
		}

		configDir := home + "/.corefer"
		configPath := configDir + "/config.yaml"

		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("config file already exists: %s\nUse 'corefer config show' to view it, or delete it first to recreate", configPath)
		}

		if err := os.MkdirAll(configDir, 0755); err != nil {
			return fmt.Errorf("error creating config directory: %w", err)
		}

		f, err := os.Create(configPath)
		if err != nil {
			return fmt.Errorf("error creating config file: %w", err)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("close config file: %w", closeErr)
			}
		}()

		// Helper for writing with error checking
		printf := func(format string, a ...interface{}) {
			if err != nil {
				return
			}
			_, err = fmt.Fprintf(f, format, a...)
		}

		printf("# Corefer Configuration File\n")
		printf("#\n")
		printf("# Configuration hierarchy (highest to lowest priority):\n")
		printf("#   1. CLI flags\n")
		printf("#   2. Environment variables (COREFER_*)\n")
		printf("#   3. This config file\n")
		printf("#   4. Built-in defaults\n\n")

		yamlData, mErr := yaml.Marshal(model.DefaultConfig())
		if mErr != nil {
			return fmt.Errorf("error marshaling config: %w", mErr)
		}
		if err == nil {
			if _, wErr := f.Write(yamlData); wErr != nil {
				return fmt.Errorf("error writing config: %w", wErr)
			}
		}

		printf("\n# World-knowledge files are optional; a missing file disables its signal:\n")
		printf("#   knowledge:\n")
		printf("#     gazetteers:\n")
		printf("#       PER: /path/to/person-names.tsv\n")
		printf("#     stop_words: /path/to/stop-words.txt\n")

		if err != nil {
			return err
		}

		fmt.Printf("✓ Created default configuration: %s\n", configPath)
		fmt.Printf("\nTo view the configuration:\n")
		fmt.Printf("  corefer config show\n")
		fmt.Printf("\nTo customize, edit the file with your preferred editor:\n")
		fmt.Printf("  $EDITOR %s\n", configPath)
		fmt.Printf("\n")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}

// loadConfig merges defaults, the config file and COREFER_* variables
// into a validated config. Every default is registered with viper so that
// environment variables are seen for keys absent from the file.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()

	defaults, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal defaults: %w", err)
	}
	var tree map[string]interface{}
	if err := yaml.Unmarshal(defaults, &tree); err != nil {
		return nil, fmt.Errorf("unmarshal defaults: %w", err)
	}
	registerDefaults("", tree)

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func registerDefaults(prefix string, tree map[string]interface{}) {
	for key, value := range tree {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		if sub, ok := value.(map[string]interface{}); ok && len(sub) > 0 {
			registerDefaults(full, sub)
			continue
		}
		viper.SetDefault(full, value)
	}
}

// loadKnowledge reads the configured world-knowledge files through a
// memory cache, throttling warnings about malformed lines
func loadKnowledge(ctx context.Context, cfg *model.Config, logger *slog.Logger) (*knowledge.Knowledge, error) {
	throttle := logging.NewThrottle(cfg.Logging.WarningsPerSecond, cfg.Logging.WarningBurst)
	loader := knowledge.NewLoader(cache.NewMemoryCache(0, 0), logger, throttle)

	k, err := loader.Load(ctx, cfg.Knowledge)
	if err != nil {
		return nil, err
	}
	if n := throttle.Suppressed(); n > 0 {
		logger.Warn("suppressed repeated knowledge warnings", slog.Int64("count", n))
	}
	return k, nil
}

// newLogger builds the process logger; logs always go to stderr so that
// stdout stays free for reports
func newLogger(cfg *model.Config) *slog.Logger {
	logger := logging.New(cfg.Logging, os.Stderr)
	slog.SetDefault(logger)
	return logger
}

// synonymsFlag parses "a,b,c;d,e" into synonym sets
func synonymsFlag(s string) [][]string {
	var sets [][]string
	for _, group := range strings.Split(s, ";") {
		var set []string
		for _, w := range strings.Split(group, ",") {
			if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
				set = append(set, w)
			}
		}
		if len(set) > 1 {
			sets = append(sets, set)
		}
	}
	return sets
}
