package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yanqian/faqbot/internal/domain/faq"
)

const chatPrompt = "> "

func newChatCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive session",
		Long: `Prints the welcome message, then answers one question per line.
Type "exit" or send EOF to leave.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, cleanup, err := a.service(cmd)
			if err != nil {
				return err
			}
			defer cleanup()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, svc.Welcome())

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprint(out, chatPrompt)
				if !scanner.Scan() {
					fmt.Fprintln(out)
					break
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				if strings.EqualFold(line, "exit") {
					break
				}
				resp, err := svc.Answer(cmd.Context(), faq.Request{Question: line})
				if err != nil {
					return fmt.Errorf("chat failed: %w", err)
				}
				fmt.Fprintln(out, resp.Answer)
			}
			return scanner.Err()
		},
	}
}
