package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mentorflow/mentor-match/internal/matching"
)

const (
	app = "mentor-match"
)

type Config struct {
	CohortFile string          `mapstructure:"cohort-file"`
	OutputFile string          `mapstructure:"output-file"`
	Matching   *MatchingConfig `mapstructure:"matching"`
	AI         *AIConfig       `mapstructure:"ai"`
}

type MatchingConfig struct {
	Mode                       string `mapstructure:"mode"`
	MaxTimezoneDifferenceHours int    `mapstructure:"max-timezone-difference-hours"`
	RequireAvailableCapacity   bool   `mapstructure:"require-available-capacity"`
}

type AIConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Provider     string        `mapstructure:"provider"`
	Embeddings   bool          `mapstructure:"embeddings"`
	Explanations bool          `mapstructure:"explanations"`
	Gemini       *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile     string `mapstructure:"api-key-file"`
	Model          string `mapstructure:"model"`
	EmbeddingModel string `mapstructure:"embedding-model"`
	MaxLogLength   int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "mentor-match pairs mentees with mentors for a mentorship cohort and proposes assignments",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is mentor-match.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	viper.SetDefault("matching.mode", string(matching.ModeTop3))
	viper.SetDefault("matching.max-timezone-difference-hours", matching.DefaultMaxTimezoneDifferenceHours)
	viper.SetDefault("matching.require-available-capacity", true)
}

func initConfig() {
	// Config needed only for run command now. If there is no config, we can skip initialization
	if runCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
