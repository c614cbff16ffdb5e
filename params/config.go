package params

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type API struct {
	// Addr is the listen address for the REST/WebSocket server.
	Addr string
	// CORSOrigins are the origins allowed by the CORS middleware.
	CORSOrigins []string
}

type Engine struct {
	// TradeHistory bounds the in-memory ring of recent trades exposed by
	// the API. Nothing is persisted.
	TradeHistory int
}

type Config struct {
	API     API
	Engine  Engine
	LogFile string
}

func Default() Config {
	return Config{
		API: API{
			Addr:        ":8080",
			CORSOrigins: []string{"http://localhost:3000"},
		},
		Engine: Engine{
			TradeHistory: 512,
		},
		LogFile: "data/stockmatch.log",
	}
}

// LoadFromEnv loads configuration from a .env file (if present) and
// environment variables. Priority: ENV > .env file > defaults. An empty
// envPath loads .env from the current directory.
func LoadFromEnv(envPath string) Config {
	cfg := Default()

	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load()
	}

	if addr := os.Getenv("API_ADDR"); addr != "" {
		cfg.API.Addr = addr
	}
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.API.CORSOrigins = strings.Split(origins, ",")
	}
	if history := os.Getenv("TRADE_HISTORY"); history != "" {
		if n, err := strconv.Atoi(history); err == nil && n > 0 {
			cfg.Engine.TradeHistory = n
		}
	}
	if logFile := os.Getenv("LOG_FILE"); logFile != "" {
		cfg.LogFile = logFile
	}

	return cfg
}
