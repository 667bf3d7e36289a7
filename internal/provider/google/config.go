package google

// Config holds Gemini answer provider configuration.
type Config struct {
	APIKey  string `env:"GOOGLE_API_KEY"`
	BaseURL string `env:"GOOGLE_BASE_URL"`
	Model   string `env:"GOOGLE_ANSWER_MODEL" envDefault:"gemini-1.5-flash"`
}
