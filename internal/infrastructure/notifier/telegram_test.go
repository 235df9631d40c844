package notifier_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/mymmrac/telego"
	"github.com/stretchr/testify/require"

	"website_revolution/internal/domain/entity"
	"website_revolution/internal/infrastructure/notifier"
)

type fakeSender struct {
	sent []*telego.SendMessageParams
	err  error
}

func (s *fakeSender) SendMessage(_ context.Context, params *telego.SendMessageParams) (*telego.Message, error) {
	s.sent = append(s.sent, params)
	if s.err != nil {
		return nil, s.err
	}
	return &telego.Message{}, nil
}

func run() entity.SearchRun {
	return entity.SearchRun{Location: "Austin", Niche: "coffee & tea"}
}

func lead() entity.Business {
	return entity.Business{
		Name:        "Cafe <Nowhere>",
		Phone:       "+1 555 0101",
		Score:       15,
		Issues:      []string{"No website found", "a", "b", "c"},
		RedesignURL: "https://leads.example/redesigns/cafe-nowhere-pnone.html",
	}
}

func TestFormatLead(t *testing.T) {
	rq := require.New(t)

	text := notifier.FormatLead(run(), lead())

	rq.Contains(text, "<b>Critical lead</b>: Cafe &lt;Nowhere&gt;")
	rq.Contains(text, "coffee &amp; tea · Austin")
	rq.Contains(text, "Score:</b> 15/100")
	rq.Contains(text, "• No website found")
	rq.NotContains(text, "• c")
	rq.Contains(text, `<a href="https://leads.example/redesigns/cafe-nowhere-pnone.html">Redesign preview</a>`)
	rq.NotContains(text, "🌐")
}

func TestTelegramNotifierNotifyLeads(t *testing.T) {
	rq := require.New(t)

	sender := &fakeSender{}
	n := notifier.NewTelegramNotifier(sender, 42)

	second := lead()
	second.Name = "Aroma"

	rq.NoError(n.NotifyLeads(context.Background(), run(), []entity.Business{lead(), second}))
	rq.Len(sender.sent, 1)
	rq.Equal(int64(42), sender.sent[0].ChatID.ID)
	rq.Equal(telego.ModeHTML, sender.sent[0].ParseMode)
	rq.Contains(sender.sent[0].Text, "Cafe &lt;Nowhere&gt;")
	rq.Contains(sender.sent[0].Text, "Aroma")

	failing := &fakeSender{err: errors.New("chat not found")}
	err := notifier.NewTelegramNotifier(failing, 42).NotifyLeads(context.Background(), run(), []entity.Business{lead(), lead()})
	rq.ErrorContains(err, "chat not found")
	rq.Len(failing.sent, 1)
}

func TestBatchLeads(t *testing.T) {
	rq := require.New(t)

	rq.Empty(notifier.BatchLeads(run(), nil))

	leads := make([]entity.Business, 60)
	for i := range leads {
		leads[i] = lead()
	}

	batches := notifier.BatchLeads(run(), leads)
	rq.Greater(len(batches), 1)
	rq.Less(len(batches), len(leads))

	total := 0
	for _, text := range batches {
		rq.LessOrEqual(utf8.RuneCountInString(text), 4096)
		total += strings.Count(text, "Critical lead")
	}

	rq.Equal(len(leads), total)
}
