package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yanqian/faqbot/internal/bootstrap"
	"github.com/yanqian/faqbot/internal/domain/faq"
)

func newValidateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that the configured corpus builds a matcher",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			normalizer, err := bootstrap.ProvideNormalizer(cfg)
			if err != nil {
				return err
			}
			source, cleanup, err := a.opts.OpenSource(cfg, a.logger(cmd))
			if err != nil {
				return err
			}
			defer cleanup()
			entries, err := source.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("%s: %w", source.Describe(), err)
			}
			matcher, err := faq.BuildMatcher(entries, normalizer, faq.MatcherOptions{Threshold: cfg.FAQ.Threshold})
			if err != nil {
				return fmt.Errorf("%s: %w", source.Describe(), err)
			}
			corpus := matcher.Corpus()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "source:     %s\n", source.Describe())
			fmt.Fprintf(out, "entries:    %d\n", corpus.Entries())
			fmt.Fprintf(out, "questions:  %d\n", corpus.Len())
			fmt.Fprintf(out, "vocabulary: %d\n", matcher.VocabularySize())
			return nil
		},
	}
}
