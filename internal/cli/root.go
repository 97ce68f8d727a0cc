package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/egedemirkapi/entity-scanner/internal/llm"
	"github.com/egedemirkapi/entity-scanner/internal/logging"
	"github.com/egedemirkapi/entity-scanner/internal/model"
	"github.com/egedemirkapi/entity-scanner/internal/pipeline"
)

// AppName is the binary and config directory name
const AppName = "entity-scanner"

// envPrefix namespaces environment overrides: ENTITY_SCANNER_LLM_PROVIDER etc.
const envPrefix = "ENTITY_SCANNER"

// Version is set at build time with -ldflags "-X ...cli.Version=..."
var Version = "dev"

var (
	cfgFile string
	verbose bool

	// v holds every configuration source; cfg is the decoded result for the running command
	v   = viper.New()
	cfg model.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   AppName,
	Short: "Entity Scanner - detect AI hallucinations about a company",
	Long: `Entity Scanner checks what a language model says about a company
against the company's own website.

It scrapes the site for ground truth (name, tagline, description, pricing),
asks the model what it knows, and compares the two. Every scan ends in one
of three verdicts:

  ACCURATE       the model's answer lines up with the site
  UNCERTAIN      partial match or hedged answer
  HALLUCINATING  the model does not know the company or contradicts it`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := loadConfig(v)
		if err != nil {
			return err
		}
		cfg = loaded

		level := cfg.Log.Level
		if verbose {
			level = "debug"
		}
		logging.Init(logging.ParseLevel(level), cfg.Log.Format, os.Stderr)
		return nil
	},
}

// Execute runs the root command; SIGINT and SIGTERM cancel its context
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s %s\n", AppName, Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/entity-scanner/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("provider", "", "LLM provider: cohere, openai, anthropic, ollama")
	rootCmd.PersistentFlags().String("model", "", "model name (provider default when empty)")
	rootCmd.PersistentFlags().String("log-format", "", "log format: text or json")

	// Bind flags to viper
	_ = v.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = v.BindPFlag("llm.provider", rootCmd.PersistentFlags().Lookup("provider"))
	_ = v.BindPFlag("llm.model", rootCmd.PersistentFlags().Lookup("model"))
	_ = v.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig loads .env and points viper at the config file and ENV variables
func initConfig() {
	// .env is optional; real environment variables win over it
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: could not read .env: %v\n", err)
	}

	configureViper(v, cfgFile)
}

// configureViper wires the config file and environment into v
func configureViper(v *viper.Viper, file string) {
	if file == "" {
		file = defaultConfigPath()
	}
	v.SetConfigFile(file)
	v.SetConfigType("yaml")

	// Read in environment variables that match ENTITY_SCANNER_*
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The key is never written to the config file, so viper only learns it from the environment
	_ = v.BindEnv("llm.api_key")
}

// defaultConfigPath is $XDG_CONFIG_HOME/entity-scanner/config.yaml
func defaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}

// loadConfig merges defaults, the config file, the environment and bound
// flags, highest priority last, and decodes the result.
func loadConfig(v *viper.Viper) (model.Config, error) {
	defaults := model.DefaultConfig()

	if err := mergeDefaults(v, defaults); err != nil {
		return model.Config{}, err
	}

	if path := v.ConfigFileUsed(); path != "" {
		if err := v.MergeInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return model.Config{}, fmt.Errorf("read config %s: %w", path, err)
			}
		} else {
			slog.Debug("using config file", "path", path)
		}
	}

	var out model.Config
	if err := v.Unmarshal(&out); err != nil {
		return model.Config{}, fmt.Errorf("decode config: %w", err)
	}

	// A Cohere model name means nothing to another provider; let it pick its own
	if !strings.EqualFold(out.LLM.Provider, defaults.LLM.Provider) && out.LLM.Model == defaults.LLM.Model {
		out.LLM.Model = ""
	}

	if out.LLM.APIKey == "" {
		out.LLM.APIKey = llm.APIKeyFromEnv(out.LLM.Provider)
	}

	return out, nil
}

// mergeDefaults registers every default key so env overrides reach nested fields
func mergeDefaults(v *viper.Viper, defaults model.Config) error {
	data, err := yaml.Marshal(defaults)
	if err != nil {
		return fmt.Errorf("encode defaults: %w", err)
	}

	var m map[string]interface{}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("decode defaults: %w", err)
	}

	return v.MergeConfigMap(m)
}

// newClient builds the model client, failing before any scan when a hosted
// provider has no credential.
func newClient(c model.Config) (*llm.Client, error) {
	provider, err := llm.NewProvider(llm.ConfigFromModel(c))
	if err != nil {
		return nil, fmt.Errorf("configure model: %w", err)
	}

	return llm.NewClient(provider,
		llm.WithLogger(logging.New("llm")),
		llm.WithTimeout(time.Duration(c.LLM.Timeout)*time.Second),
	), nil
}

// newScanner wires the full pipeline for the loaded configuration
func newScanner(c model.Config, opts ...pipeline.Option) (*pipeline.Scanner, error) {
	client, err := newClient(c)
	if err != nil {
		return nil, err
	}

	opts = append([]pipeline.Option{pipeline.WithLogger(logging.New("pipeline"))}, opts...)
	return pipeline.NewScanner(c, client, opts...), nil
}
