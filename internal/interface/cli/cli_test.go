package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/faqbot/internal/bootstrap"
	"github.com/yanqian/faqbot/internal/domain/faq"
	"github.com/yanqian/faqbot/internal/infra/config"
)

const testCorpus = `[
  {"question": ["Kütüphane saat kaçta açılıyor?", "Açılış saati nedir?"], "answer": "09:00'da açılıyoruz."},
  {"question": "Kitap nasıl ödünç alabilirim?", "answer": "Kütüphane kartınızla danışmadan ödünç alabilirsiniz."}
]`

// writeFixture lays out a corpus and a config pointing at it.
func writeFixture(t *testing.T, corpus, secret string) string {
	t.Helper()
	dir := t.TempDir()
	corpusPath := filepath.Join(dir, "faq.json")
	require.NoError(t, os.WriteFile(corpusPath, []byte(corpus), 0o600))
	cfgPath := filepath.Join(dir, "config.yaml")
	cfg := "http:\n  admin:\n    tokenSecret: \"" + secret + "\"\nfaq:\n  source:\n    kind: file\n    path: " + corpusPath + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))
	return cfgPath
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	return runWith(t, Options{}, stdin, args...)
}

func runWith(t *testing.T, opts Options, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand(opts)
	out := new(bytes.Buffer)
	root.SetOut(out)
	root.SetErr(new(bytes.Buffer))
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := Execute(context.Background(), root)
	return out.String(), err
}

func TestAskPrintsAnswer(t *testing.T) {
	cfgPath := writeFixture(t, testCorpus, "")

	out, err := run(t, "", "--config", cfgPath, "ask", "kütüphane", "saat", "kacta", "aciliyor")
	require.NoError(t, err)
	assert.Equal(t, "09:00'da açılıyoruz.\n", out)

	out, err = run(t, "", "--config", cfgPath, "ask", "hava durumu")
	require.NoError(t, err)
	assert.Equal(t, faq.DefaultFallbackMessage+"\n", out)
}

func TestAskJSON(t *testing.T) {
	cfgPath := writeFixture(t, testCorpus, "")

	out, err := run(t, "", "--config", cfgPath, "ask", "--json", "Açılış saati nedir?")
	require.NoError(t, err)

	var resp faq.Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.True(t, resp.Matched)
	assert.Equal(t, faq.SourceCorpus, resp.Source)
	assert.Equal(t, "Açılış saati nedir?", resp.MatchedQuestion)
}

func TestAskRequiresQuestion(t *testing.T) {
	_, err := run(t, "", "ask")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg(s)")
}

func TestChatSession(t *testing.T) {
	cfgPath := writeFixture(t, testCorpus, "")
	stdin := "  kütüphane saat kaçta açılıyor  \n\n   \nhava durumu\nexit\nAçılış saati nedir?\n"

	out, err := run(t, stdin, "--config", cfgPath, "chat")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, faq.DefaultWelcomeMessage+"\n"))
	assert.Equal(t, 1, strings.Count(out, "09:00'da açılıyoruz."), "input after exit must be ignored")
	assert.Equal(t, 1, strings.Count(out, faq.DefaultFallbackMessage))
}

func TestChatStopsAtEOF(t *testing.T) {
	cfgPath := writeFixture(t, testCorpus, "")

	out, err := run(t, "Açılış saati nedir?", "--config", cfgPath, "chat")
	require.NoError(t, err)
	assert.Contains(t, out, "09:00'da açılıyoruz.")
}

func TestValidateReportsCounts(t *testing.T) {
	cfgPath := writeFixture(t, testCorpus, "")

	out, err := run(t, "", "--config", cfgPath, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "entries:    2")
	assert.Contains(t, out, "questions:  3")
	assert.Contains(t, out, "source:     file:")
}

func TestValidateRejectsBadCorpus(t *testing.T) {
	cfgPath := writeFixture(t, `[{"question": "Açılış saati?", "answer": ""}]`, "")

	_, err := run(t, "", "--config", cfgPath, "validate")
	require.Error(t, err)
	assert.ErrorIs(t, err, faq.ErrMalformedEntry)
}

func TestCommandsReleaseSource(t *testing.T) {
	released := 0
	opts := Options{
		OpenSource: func(cfg *config.Config, logger *slog.Logger) (faq.Source, func(), error) {
			source, cleanup, err := bootstrap.ProvideFAQSource(cfg, logger)
			if err != nil {
				return nil, nil, err
			}
			return source, func() {
				released++
				cleanup()
			}, nil
		},
	}

	cfgPath := writeFixture(t, testCorpus, "")
	_, err := runWith(t, opts, "", "--config", cfgPath, "ask", "Açılış saati nedir?")
	require.NoError(t, err)
	_, err = runWith(t, opts, "exit\n", "--config", cfgPath, "chat")
	require.NoError(t, err)
	_, err = runWith(t, opts, "", "--config", cfgPath, "validate")
	require.NoError(t, err)
	assert.Equal(t, 3, released)

	badPath := writeFixture(t, `[{"question": "Açılış saati?", "answer": ""}]`, "")
	_, err = runWith(t, opts, "", "--config", badPath, "ask", "Açılış saati?")
	require.Error(t, err)
	_, err = runWith(t, opts, "", "--config", badPath, "validate")
	require.Error(t, err)
	assert.Equal(t, 5, released)
}

func TestTokenCommand(t *testing.T) {
	cfgPath := writeFixture(t, testCorpus, "s3cret")

	out, err := run(t, "", "--config", cfgPath, "token", "--subject", "ops")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(strings.TrimSpace(out), "."), "expected a compact JWT")

	cfgPath = writeFixture(t, testCorpus, "")
	_, err = run(t, "", "--config", cfgPath, "token")
	require.Error(t, err)
}
