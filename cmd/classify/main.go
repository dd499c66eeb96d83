// Command classify 画像1枚の金種をコマンドラインで識別する
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"denomination-vision-app/internal/config"
	"denomination-vision-app/internal/modules/classification/domain"
	"denomination-vision-app/internal/modules/classification/usecase"
	"denomination-vision-app/internal/modules/shared/infrastructure/inference"
	"denomination-vision-app/internal/presentation/di"
)

// options コマンドラインオプション
type options struct {
	configPath string
	category   string
	jsonOutput bool
	verbose    bool
}

func defaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".denomination-vision-app", "config.yaml")
}

// newRootCmd classifyコマンドを作成
func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "classify [flags] <image>",
		Short: "Identify the denomination of a bill or coin image",
		Long: `Loads every classifier of the configured catalog from the inference server,
runs them against one PNG or JPEG image and prints the best match.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", defaultConfigPath(), "Path to the config file")
	cmd.Flags().StringVarP(&opts.category, "category", "k", domain.CategoryCoin.String(), "Category of the image (bill or coin)")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Print the result as JSON")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log per-model failures")

	return cmd
}

func run(cmd *cobra.Command, opts *options, imagePath string) error {
	level := slog.LevelError
	if opts.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))

	category, err := domain.ParseCategory(opts.category)
	if err != nil {
		return err
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	imageData, err := os.ReadFile(imagePath)
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}

	identifier, err := newIdentifier(cmd.Context(), &cfg.Classifier)
	if err != nil {
		return err
	}

	identification, err := identifier.Identify(cmd.Context(), imageData, category)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(identification)
	}
	_, err = fmt.Fprintln(out, identification.Message)
	return err
}

// newIdentifier 履歴を保存しない識別ユースケースを作成
func newIdentifier(ctx context.Context, cfg *config.ClassifierConfig) (*usecase.IdentificationUseCase, error) {
	catalog, err := di.CatalogFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	loadCtx := ctx
	if cfg.LoadTimeout > 0 {
		var cancel context.CancelFunc
		loadCtx, cancel = context.WithTimeout(ctx, cfg.LoadTimeout)
		defer cancel()
	}

	registry, err := domain.LoadCatalog(loadCtx, catalog, inference.NewClient(cfg))
	if err != nil {
		return nil, err
	}

	dispatcher := usecase.NewDispatcher(registry, usecase.DispatcherOptions{
		Workers:        cfg.Workers,
		BindingTimeout: cfg.BindingTimeout,
	})
	return usecase.NewIdentificationUseCase(dispatcher, catalog, cfg.AcceptanceThreshold, nil), nil
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
