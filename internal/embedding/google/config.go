package google

// Config holds configuration for the Gemini embedding generator.
type Config struct {
	APIKey    string `env:"GOOGLE_API_KEY"`
	BaseURL   string `env:"GOOGLE_BASE_URL"`
	Model     string `env:"GOOGLE_EMBEDDING_MODEL"     envDefault:"text-embedding-004"`
	Dimension int    `env:"GOOGLE_EMBEDDING_DIMENSION" envDefault:"768"`
}
