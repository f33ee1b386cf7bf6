package config

import (
	"encoding/xml"
	"io"
	"os"
	"sync"
)

var (
	cfg  *APIConfig
	once sync.Once
)

// APIConfig represents the root element.
type APIConfig struct {
	XMLName        xml.Name             `xml:"API"`
	RequestDump    bool                 `xml:"REQUEST_DUMP,attr"`
	Context        ContextConfig        `xml:"CONTEXT"`
	Authentication AuthenticationConfig `xml:"AUTHENTICATION"`
	RateLimit      RateLimitConfig      `xml:"RATE_LIMIT"`
	DB             DBConfig             `xml:"DB"`
	Redis          RedisConfig          `xml:"REDIS"`
	LLM            LLMConfig            `xml:"LLM"`
	Generation     GenerationConfig     `xml:"GENERATION"`
}

// ContextConfig holds basic server settings.
type ContextConfig struct {
	Port     int    `xml:"PORT"`
	Host     string `xml:"HOST"`
	Path     string `xml:"PATH"`
	TimeZone string `xml:"TIME_ZONE"`
	LogDir   string `xml:"LOG_DIR"`
}

// AuthenticationConfig holds authentication settings.
type AuthenticationConfig struct {
	EnableTokenAuth bool `xml:"ENABLE_TOKEN_AUTH"`
	SessionTimeout  int  `xml:"SESSION_TIMEOUT"`
}

// RateLimitConfig bounds requests per client.
type RateLimitConfig struct {
	Enabled           bool    `xml:"ENABLED"`
	RequestsPerSecond float64 `xml:"REQUESTS_PER_SECOND"`
	Burst             int     `xml:"BURST"`
}

// DBConfig holds database connection settings.
type DBConfig struct {
	Initialize bool         `xml:"INITIALIZE"`
	Host       string       `xml:"HOST"`
	Port       int          `xml:"PORT"`
	SSLMode    string       `xml:"SSL_MODE"`
	Name       string       `xml:"NAME"`
	Username   string       `xml:"USERNAME"`
	Password   DBPassword   `xml:"PASSWORD"`
	Pool       DBPoolConfig `xml:"POOL"`
}

// DBPassword holds password details.
type DBPassword struct {
	Type  string `xml:"TYPE,attr"`
	Value string `xml:",chardata"`
}

// DBPoolConfig holds database connection pooling settings.
type DBPoolConfig struct {
	MaxOpenConns    int `xml:"MAX_OPEN_CONNS"`
	MaxIdleConns    int `xml:"MAX_IDLE_CONNS"`
	ConnMaxLifetime int `xml:"CONN_MAX_LIFETIME"`
}

// RedisConfig holds cache connection settings.
type RedisConfig struct {
	Enabled  bool   `xml:"ENABLED"`
	Host     string `xml:"HOST"`
	Port     int    `xml:"PORT"`
	Password string `xml:"PASSWORD"`
	DB       int    `xml:"DB"`
}

// LLMConfig holds settings for the text-generation service.
type LLMConfig struct {
	OllamaURL      string `xml:"OLLAMA_URL"`
	Model          string `xml:"MODEL"`
	TimeoutSeconds int    `xml:"TIMEOUT_SECONDS"`
}

// GenerationConfig holds artifact cardinality defaults.
type GenerationConfig struct {
	FlashcardCount    int `xml:"FLASHCARD_COUNT"`
	QuizQuestionCount int `xml:"QUIZ_QUESTION_COUNT"`
	TestQuestionCount int `xml:"TEST_QUESTION_COUNT"`
	TestTimeLimit     int `xml:"TEST_TIME_LIMIT"`
}

// LoadConfig loads and parses the XML configuration from the given file.
func LoadConfig(xmlPath string) (*APIConfig, error) {
	var loadErr error
	once.Do(func() {
		f, err := os.Open(xmlPath)
		if err != nil {
			loadErr = err
			return
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			loadErr = err
			return
		}

		var newCfg APIConfig
		if err := xml.Unmarshal(data, &newCfg); err != nil {
			loadErr = err
			return
		}

		applyDefaults(&newCfg)
		cfg = &newCfg
	})

	if cfg == nil {
		if loadErr != nil {
			return nil, loadErr
		}
		return nil, os.ErrInvalid
	}
	return cfg, nil
}

func applyDefaults(c *APIConfig) {
	if c.Context.Port == 0 {
		c.Context.Port = 8080
	}
	if c.Context.LogDir == "" {
		c.Context.LogDir = "logs"
	}
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = 30
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "mistral"
	}
	if c.Generation.FlashcardCount <= 0 {
		c.Generation.FlashcardCount = 5
	}
	if c.Generation.QuizQuestionCount <= 0 {
		c.Generation.QuizQuestionCount = 5
	}
	if c.Generation.TestQuestionCount <= 0 {
		c.Generation.TestQuestionCount = 15
	}
	if c.Generation.TestTimeLimit <= 0 {
		c.Generation.TestTimeLimit = 900
	}
	if c.RateLimit.RequestsPerSecond <= 0 {
		c.RateLimit.RequestsPerSecond = 20
	}
	if c.RateLimit.Burst <= 0 {
		c.RateLimit.Burst = 40
	}
}

// GetConfig returns the loaded configuration.
func GetConfig() *APIConfig {
	return cfg
}
