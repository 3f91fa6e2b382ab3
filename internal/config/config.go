package config

type Config struct {
	ServerConfig
	GoogleSheetConfig
	GeminiConfig
	TelegramConfig
	CacheConfig
}

type ServerConfig struct {
	Addr string `envconfig:"SERVER_ADDR" default:":8080"`
}

type GoogleSheetConfig struct {
	SpreadsheetID     string `envconfig:"SPREADSHEET_ID" required:"true" masked:"true"`
	CredentialsBase64 string `envconfig:"CREDENTIALS_BASE64" required:"true" masked:"true"`
	PauseMs           int    `envconfig:"SHEET_PAUSE_MS" required:"false"`
}

// GeminiConfig is optional: without an API key the note pipeline stores raw
// text only.
type GeminiConfig struct {
	APIKey string `envconfig:"GEMINI_API_KEY" required:"false" masked:"true"`
	Model  string `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash"`
}

// TelegramConfig is optional: without a bot token follow-up notifications
// are disabled.
type TelegramConfig struct {
	BotToken      string `envconfig:"BOT_TOKEN" required:"false" masked:"true"`
	DeptChats     string `envconfig:"DEPT_CHATS" required:"false"`
	DefaultChatID int64  `envconfig:"DEFAULT_CHAT_ID" required:"false"`
}

type CacheConfig struct {
	TableTTLSeconds int `envconfig:"CACHE_TTL_SECONDS" default:"600"`
	SessionTTLHours int `envconfig:"SESSION_TTL_HOURS" default:"12"`
}
