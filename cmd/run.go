package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/mentorflow/mentor-match/internal/capability"
	"github.com/mentorflow/mentor-match/internal/cohort"
	"github.com/mentorflow/mentor-match/internal/embedding"
	"github.com/mentorflow/mentor-match/internal/explain"
	"github.com/mentorflow/mentor-match/internal/logger"
	"github.com/mentorflow/mentor-match/internal/matching"
	"github.com/mentorflow/mentor-match/internal/output"
	"github.com/mentorflow/mentor-match/internal/secrets"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptYes            = "Yes"
	PromptNo             = "No"
	PromptCapacityReport = "Report capacity changes by mentor"
	PromptResultsToFile  = "Dump results to tmp file"
	defaultOutputFile    = "mentor-match-results.json"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "Save results?",
	Items: []string{PromptYes, PromptNo, PromptCapacityReport, PromptResultsToFile},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the mentor-match main command",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation before saving results")
	runCmd.Flags().StringP("cohort-file", "f", "", "a json file with the cohort to match. Required.")
	runCmd.Flags().StringP("output-file", "o", "", "file for the matching results. Default is "+defaultOutputFile)
	runCmd.Flags().StringP("mode", "m", "", "matching mode: top3 or batch")

	viper.BindPFlag("cohort-file", runCmd.Flags().Lookup("cohort-file"))
	viper.BindPFlag("output-file", runCmd.Flags().Lookup("output-file"))

	if err := viper.BindPFlag("matching.mode", runCmd.Flags().Lookup("mode")); err != nil {
		log.Fatalf("binding mode flag: %v", err)
	}
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the mentor-match", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	if config.Matching == nil {
		config.Matching = &MatchingConfig{
			Mode:                       string(matching.ModeTop3),
			MaxTimezoneDifferenceHours: matching.DefaultMaxTimezoneDifferenceHours,
			RequireAvailableCapacity:   true,
		}
	}

	mode, err := matching.ParseMode(config.Matching.Mode)
	if err != nil {
		logger.Fatal("parsing matching mode", zap.Error(err))
	}

	if strings.TrimSpace(config.CohortFile) == "" {
		logger.Fatal("cohort file is required",
			zap.String("hint", "set the 'cohort-file' key in the configuration file or pass --cohort-file"),
		)
	}

	group, err := cohort.Load(config.CohortFile)
	if err != nil {
		logger.Fatal("loading the cohort", zap.Error(err))
	}

	logger.Info("loaded the cohort",
		zap.String("cohort_id", group.ID),
		zap.Int("mentees", len(group.Mentees)),
		zap.Int("mentors", len(group.Mentors)),
	)

	engine := matching.NewEngine(capability.NewIndex(),
		matching.WithSimilarity(prepareSimilarity(ctx, config.AI, group, logger)),
		matching.WithLogger(logger),
	)

	filters := matching.Filters{
		MaxTimezoneDifferenceHours: config.Matching.MaxTimezoneDifferenceHours,
		RequireAvailableCapacity:   config.Matching.RequireAvailableCapacity,
	}

	results, err := engine.Run(group, filters, mode)
	if err != nil {
		logger.Fatal("matching run failed", zap.Error(err))
	}

	if annotator := prepareAnnotator(ctx, config.AI, logger); annotator != nil {
		annotator.Annotate(ctx, group, results)
	}

	if err := output.ResultsTable(os.Stdout, results); err != nil {
		logger.Fatal("rendering results", zap.Error(err))
	}

	action := PromptYes
	for {
		var err error
		if cmd.Flag("auto-approve").Value.String() == "false" {
			_, action, err = prompt.Run()
			if err != nil {
				logger.Fatal("exiting", zap.Error(err))
			}
		}

		if err := handleAction(action, logger, config, results); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, logger *zap.Logger, config *Config, results *matching.Output) error {
	switch action {
	case PromptYes:
		filename := strings.TrimSpace(config.OutputFile)
		if filename == "" {
			filename = defaultOutputFile
		}

		if err := results.ToFile(filename); err != nil {
			return fmt.Errorf("write results to file: %w", err)
		}

		logger.Info("saved matching results", zap.String("filename", filename))
		return errExit
	case PromptNo:
		logger.Info("exiting", zap.String("reason", "got no from prompt"))
		return errExit
	case PromptCapacityReport:
		deltas := results.CapacityDeltas()
		pretty, _ := json.MarshalIndent(deltas, "", "  ")
		logger.Info(string(pretty), zap.Int("mentors affected", len(deltas)))
		return nil
	case PromptResultsToFile:
		filename, err := results.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping results to file", zap.String("filename", filename))
		return nil
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// prepareSimilarity returns the semantic similarity source for the run. Any
// problem with the AI backend degrades to keyword similarity instead of
// failing the run.
func prepareSimilarity(ctx context.Context, cfg *AIConfig, group *cohort.Cohort, logger *zap.Logger) matching.SimilarityFn {
	if cfg == nil || !cfg.Enabled || !cfg.Embeddings {
		logger.Info("semantic scoring uses keyword similarity", zap.String("reason", "ai embeddings disabled"))
		return embedding.KeywordFallback()
	}

	fn, err := prepareEmbeddingSimilarity(ctx, cfg, group, logger)
	if err != nil {
		logger.Warn("falling back to keyword similarity", zap.Error(err))
		return embedding.KeywordFallback()
	}

	return fn
}

func prepareEmbeddingSimilarity(ctx context.Context, cfg *AIConfig, group *cohort.Cohort, base *zap.Logger) (matching.SimilarityFn, error) {
	if cfg.Gemini == nil {
		return nil, errors.New("gemini configuration is required when ai embeddings are enabled")
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := resolveAPIKey(cfg)
	if err != nil {
		return nil, err
	}

	embedder, err := embedding.NewGeminiEmbedder(ctx, apiKey, cfg.Gemini.EmbeddingModel)
	if err != nil {
		return nil, err
	}

	service := embedding.NewService(embedder, logger.WithAIFields(base, "gemini", embedder.Model()))

	return service.SimilarityFn(ctx, group)
}

// prepareAnnotator returns nil when explanations are disabled or the backend
// cannot be built. Recommendations stay useful without explanations, so a
// broken backend is a warning, not a failure.
func prepareAnnotator(ctx context.Context, cfg *AIConfig, base *zap.Logger) *explain.Annotator {
	if cfg == nil || !cfg.Enabled || !cfg.Explanations {
		return nil
	}

	if cfg.Gemini == nil {
		base.Warn("skipping explanations", zap.String("reason", "gemini configuration is missing"))
		return nil
	}

	apiKey, err := resolveAPIKey(cfg)
	if err != nil {
		base.Warn("skipping explanations", zap.Error(err))
		return nil
	}

	generator, err := explain.NewGenerator(ctx, apiKey, cfg.Gemini.Model)
	if err != nil {
		base.Warn("skipping explanations", zap.Error(err))
		return nil
	}

	explainLogger := logger.WithAIFields(base, "gemini", generator.Model())
	explainer := explain.NewGeminiExplainer(generator, explainLogger, cfg.Gemini.MaxLogLength)

	return explain.NewAnnotator(explainer, explainLogger)
}

func resolveAPIKey(cfg *AIConfig) (string, error) {
	keyFile := strings.TrimSpace(cfg.Gemini.APIKeyFile)
	if keyFile == "" {
		keyFile = strings.TrimSpace(viper.GetString("ai.gemini.api-key-file"))
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: keyFile,
	})
	if err != nil {
		return "", fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	return apiKey, nil
}
