package faq

// Default matching knobs.
const (
	DefaultThreshold       = 0.3
	DefaultFallbackMessage = "Üzgünüm, bu konuda size yardımcı olamıyorum. Lütfen farklı bir şekilde ifade eder misiniz?"
	DefaultWelcomeMessage  = "Kütüphane Chatbot'una Hoş Geldiniz! Size nasıl yardımcı olabilirim?"
)

// Config holds runtime knobs for the FAQ service.
type Config struct {
	Threshold          float64
	FallbackMessage    string
	WelcomeMessage     string
	TopRecommendations int
	UnansweredLimit    int
}

func (c Config) matcherOptions() MatcherOptions {
	return MatcherOptions{
		Threshold:       c.Threshold,
		FallbackMessage: c.FallbackMessage,
	}
}

func (c Config) welcome() string {
	if c.WelcomeMessage == "" {
		return DefaultWelcomeMessage
	}
	return c.WelcomeMessage
}
