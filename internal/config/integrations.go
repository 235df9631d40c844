package config

type LLM struct {
	BaseURL      string  `env:"LLM_BASE_URL"`
	APIKey       string  `env:"LLM_API_KEY"        json:"-"`
	Model        string  `env:"LLM_MODEL"          envDefault:"gpt-4o-mini"`
	ReqPerMinute int     `env:"LLM_REQ_PER_MINUTE" envDefault:"20"`
}

func (l LLM) Enabled() bool {
	return l.APIKey != ""
}

type Outreach struct {
	SenderName    string `env:"SENDER_NAME"    envDefault:"Alex"`
	SenderCompany string `env:"SENDER_COMPANY" envDefault:"Website Revolution"`
}

type Redis struct {
	Address  string `env:"REDIS_ADDRESS"`
	Username string `env:"REDIS_USERNAME"`
	Password string `env:"REDIS_PASSWORD" json:"-"`
	DB       int    `env:"REDIS_DB"       envDefault:"0"`
}

func (r Redis) Enabled() bool {
	return r.Address != ""
}

type Bot struct {
	Token   string `env:"BOT_TOKEN"    json:"-"`
	ChatID  int64  `env:"BOT_CHAT_ID"`
	AdminID int64  `env:"BOT_ADMIN_ID"`
}

func (b Bot) NotifierEnabled() bool {
	return b.Token != "" && b.ChatID != 0
}

func (b Bot) CommandsEnabled() bool {
	return b.Token != "" && b.AdminID != 0
}
