// Package cli implements faqctl, the terminal front end of the FAQ bot.
package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/yanqian/faqbot/internal/bootstrap"
	"github.com/yanqian/faqbot/internal/domain/faq"
	"github.com/yanqian/faqbot/internal/infra/config"
	"github.com/yanqian/faqbot/internal/infra/faqstore"
	"github.com/yanqian/faqbot/pkg/logger"
)

// SourceOpener returns the corpus source described by cfg and a cleanup that
// releases it.
type SourceOpener func(cfg *config.Config, logger *slog.Logger) (faq.Source, func(), error)

// Options customizes how commands reach their dependencies.
type Options struct {
	LoadConfig func(path string) (*config.Config, error)
	OpenSource SourceOpener
}

type app struct {
	opts       Options
	configPath string
	verbose    bool
}

// NewRootCommand builds the faqctl command tree. Zero options use the same
// loaders as the HTTP service.
func NewRootCommand(opts Options) *cobra.Command {
	if opts.LoadConfig == nil {
		opts.LoadConfig = config.LoadFrom
	}
	if opts.OpenSource == nil {
		opts.OpenSource = bootstrap.ProvideFAQSource
	}
	a := &app{opts: opts}

	root := &cobra.Command{
		Use:   "faqctl",
		Short: "Ask the library FAQ bot from the terminal",
		Long: `faqctl loads the configured FAQ corpus and answers questions locally.
It reads the same configuration file as the HTTP service.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to the YAML config (defaults to CONFIG_PATH or configs/config.yaml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log to stderr")

	root.AddCommand(
		newAskCommand(a),
		newChatCommand(a),
		newValidateCommand(a),
		newTokenCommand(a),
	)
	return root
}

func (a *app) logger(cmd *cobra.Command) *slog.Logger {
	if a.verbose {
		return logger.NewWithWriter(cmd.ErrOrStderr())
	}
	return logger.NewWithWriter(io.Discard)
}

func (a *app) loadConfig() (*config.Config, error) {
	return a.opts.LoadConfig(a.configPath)
}

// service builds a FAQ service over an in-process store so local questions
// never show up in the shared trending list. Callers must run the returned
// cleanup once they are done with the service.
func (a *app) service(cmd *cobra.Command) (faq.Service, func(), error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	log := a.logger(cmd)
	normalizer, err := bootstrap.ProvideNormalizer(cfg)
	if err != nil {
		return nil, nil, err
	}
	source, cleanup, err := a.opts.OpenSource(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	svc, err := faq.NewService(bootstrap.ProvideFAQConfig(cfg), source, normalizer, faqstore.NewMemoryStore(), log)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return svc, cleanup, nil
}

// Execute runs the command tree with ctx.
func Execute(ctx context.Context, root *cobra.Command) error {
	return root.ExecuteContext(ctx)
}
