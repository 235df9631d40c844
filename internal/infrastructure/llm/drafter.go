package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	jsoniter "github.com/json-iterator/go"
	"golang.org/x/time/rate"

	"website_revolution/internal/domain/entity"
	"website_revolution/internal/domain/service/outreach"
	"website_revolution/pkg/contextx"
)

var (
	json   = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip
	logger = contextx.LoggerFromContextOrDefault          //nolint:gochecknoglobals
)

const (
	maxRetries = 3
	baseDelay  = 2 * time.Second

	systemPrompt = "You write short, friendly cold outreach for a web design agency. " +
		"Reply with a single JSON object and nothing else."
)

var ErrEmptyDraft = errors.New("model returned an empty draft")

//nolint:gochecknoglobals
var userPrompt = template.Must(template.New("prompt").Parse(`Business: {{.Business.Name}}
Category: {{.Niche}}
Location: {{.Location}}
Website: {{if .Business.Website}}{{.Business.Website}}{{else}}none{{end}}
Digital readiness score: {{.Business.Score}}/100
Problems found:
{{range .Business.Issues}}- {{.}}
{{else}}- none
{{end}}{{if .Business.RedesignURL}}Free redesign preview: {{.Business.RedesignURL}}
{{end}}Sender: {{.SenderName}} from {{.SenderCompany}}

Write three messages for this business and return JSON with exactly these keys:
{"email": "...", "whatsapp": "...", "sms": "..."}
The email starts with a "Subject:" line. The sms is under 300 characters and ends with "Reply STOP to opt out."
Mention the redesign preview link when one is given.`))

type Config struct {
	BaseURL       string
	APIKey        string
	Model         string
	ReqPerMinute  int
	SenderName    string
	SenderCompany string
}

type draft struct {
	Email    string `json:"email"`
	WhatsApp string `json:"whatsapp"`
	SMS      string `json:"sms"`
}

// Drafter asks a chat model to write outreach messages.
type Drafter struct {
	model   model.BaseChatModel
	limiter *rate.Limiter
	cfg     Config
	delay   time.Duration
}

func NewDrafter(ctx context.Context, cfg Config) (*Drafter, error) {
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("openai.NewChatModel: %w", err)
	}

	return NewDrafterWithModel(cm, cfg), nil
}

func NewDrafterWithModel(cm model.BaseChatModel, cfg Config) *Drafter {
	perMinute := cfg.ReqPerMinute
	if perMinute <= 0 {
		perMinute = 60
	}

	return &Drafter{
		model:   cm,
		limiter: rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), 1),
		cfg:     cfg,
		delay:   baseDelay,
	}
}

func (d *Drafter) WithBaseDelay(delay time.Duration) *Drafter {
	d.delay = delay
	return d
}

// Draft implements outreach.Drafter. Rate-limited responses are retried with
// exponential backoff; malformed JSON is retried as well.
func (d *Drafter) Draft(ctx context.Context, lead outreach.Lead) (entity.OutreachMessages, error) {
	prompt, err := d.prompt(lead)
	if err != nil {
		return entity.OutreachMessages{}, err
	}

	messages := []*schema.Message{
		{Role: schema.System, Content: systemPrompt},
		{Role: schema.User, Content: prompt},
	}

	var lastErr error

	for i := 0; i <= maxRetries; i++ {
		if err := d.limiter.Wait(ctx); err != nil {
			return entity.OutreachMessages{}, fmt.Errorf("limiter.Wait: %w", err)
		}

		resp, err := d.model.Generate(ctx, messages)
		if err != nil {
			if !isRateLimited(err) || i == maxRetries {
				return entity.OutreachMessages{}, fmt.Errorf("model.Generate: %w", err)
			}

			lastErr = err
			logger(ctx).Warn("llm rate limited, backing off", "attempt", i+1)

			if err := sleep(ctx, d.delay*time.Duration(1<<i)); err != nil {
				return entity.OutreachMessages{}, err
			}

			continue
		}

		msgs, err := parse(resp.Content)
		if err != nil {
			lastErr = err
			continue
		}

		return msgs, nil
	}

	return entity.OutreachMessages{}, fmt.Errorf("llm.Draft: %w", lastErr)
}

func (d *Drafter) prompt(lead outreach.Lead) (string, error) {
	var sb strings.Builder

	err := userPrompt.Execute(&sb, struct {
		outreach.Lead
		SenderName    string
		SenderCompany string
	}{
		Lead:          lead,
		SenderName:    d.cfg.SenderName,
		SenderCompany: d.cfg.SenderCompany,
	})
	if err != nil {
		return "", fmt.Errorf("userPrompt.Execute: %w", err)
	}

	return sb.String(), nil
}

func parse(content string) (entity.OutreachMessages, error) {
	clean := strings.TrimSpace(content)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")

	var out draft
	if err := json.Unmarshal([]byte(strings.TrimSpace(clean)), &out); err != nil {
		return entity.OutreachMessages{}, fmt.Errorf("json.Unmarshal: %w", err)
	}

	msgs := entity.OutreachMessages{
		Email:    strings.TrimSpace(out.Email),
		WhatsApp: strings.TrimSpace(out.WhatsApp),
		SMS:      strings.TrimSpace(out.SMS),
	}

	if msgs.IsZero() {
		return entity.OutreachMessages{}, ErrEmptyDraft
	}

	return msgs, nil
}

func isRateLimited(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "too many requests")
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("llm backoff: %w", ctx.Err())
	case <-t.C:
		return nil
	}
}
