package outreach

import (
	"context"
	"fmt"
	"strings"

	"website_revolution/internal/domain/entity"
	"website_revolution/pkg/contextx"
	"website_revolution/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const maxIssuesInMessage = 3

// Lead is everything a drafter may mention in a message.
type Lead struct {
	Business entity.Business
	Niche    string
	Location string
}

type Drafter interface {
	Draft(ctx context.Context, lead Lead) (entity.OutreachMessages, error)
}

// OutreachService drafts messages with the primary drafter and falls back to
// templates when it is absent or fails.
type OutreachService struct {
	primary  Drafter
	fallback TemplateDrafter
}

func NewOutreachService(fallback TemplateDrafter) *OutreachService {
	return &OutreachService{fallback: fallback}
}

func (s *OutreachService) WithDrafter(d Drafter) *OutreachService {
	s.primary = d
	return s
}

func (s *OutreachService) Draft(ctx context.Context, lead Lead) entity.OutreachMessages {
	if s.primary != nil {
		msgs, err := s.primary.Draft(ctx, lead)
		if err == nil && !msgs.IsZero() {
			return s.complete(msgs, lead)
		}

		if err != nil {
			logger(ctx).Warn("outreach drafter failed, using templates",
				logx.Error(err),
				"business", lead.Business.Name,
			)
		}
	}

	return s.fallback.Render(lead)
}

// complete fills channels the primary drafter left empty.
func (s *OutreachService) complete(msgs entity.OutreachMessages, lead Lead) entity.OutreachMessages {
	if msgs.Email != "" && msgs.WhatsApp != "" && msgs.SMS != "" {
		return msgs
	}

	tpl := s.fallback.Render(lead)

	if msgs.Email == "" {
		msgs.Email = tpl.Email
	}

	if msgs.WhatsApp == "" {
		msgs.WhatsApp = tpl.WhatsApp
	}

	if msgs.SMS == "" {
		msgs.SMS = tpl.SMS
	}

	return msgs
}

type TemplateDrafter struct {
	SenderName    string
	SenderCompany string
}

func (d TemplateDrafter) Draft(_ context.Context, lead Lead) (entity.OutreachMessages, error) {
	return d.Render(lead), nil
}

func (d TemplateDrafter) Render(lead Lead) entity.OutreachMessages {
	return entity.OutreachMessages{
		Email:    d.email(lead),
		WhatsApp: d.whatsApp(lead),
		SMS:      d.sms(lead),
	}
}

func (d TemplateDrafter) email(lead Lead) string {
	b := lead.Business
	issues := b.TopIssues(maxIssuesInMessage)

	var sb strings.Builder

	fmt.Fprintf(&sb, "Subject: A quick idea for %s's website\n\n", b.Name)
	fmt.Fprintf(&sb, "Hi %s team,\n\n", b.Name)
	fmt.Fprintf(&sb, "I was looking for %s in %s and came across %s.", lead.Niche, lead.Location, b.Name)

	if len(issues) > 0 {
		sb.WriteString(" A few things on your website may be costing you customers:\n\n")

		for _, issue := range issues {
			fmt.Fprintf(&sb, "- %s\n", issue)
		}
	} else {
		sb.WriteString(" Your website is in good shape, and a few small changes could still bring in more enquiries.\n")
	}

	if b.RedesignURL != "" {
		fmt.Fprintf(&sb, "\nWe put together a free redesign preview for you: %s\n", b.RedesignURL)
	}

	sb.WriteString("\nWould you be open to a 15-minute call this week?\n\n")
	fmt.Fprintf(&sb, "Best regards,\n%s\n%s", d.SenderName, d.SenderCompany)

	return sb.String()
}

func (d TemplateDrafter) whatsApp(lead Lead) string {
	b := lead.Business
	issues := b.TopIssues(maxIssuesInMessage)

	msg := fmt.Sprintf("Hi %s! This is %s from %s.", b.Name, d.SenderName, d.SenderCompany)

	if len(issues) > 0 {
		msg += fmt.Sprintf(" I had a look at your website and spotted %d quick wins, starting with: %s.",
			len(issues), strings.ToLower(issues[0]))
	}

	if b.RedesignURL != "" {
		return msg + " I made you a free redesign preview: " + b.RedesignURL
	}

	return msg + " Would you like a free review of your online presence?"
}

func (d TemplateDrafter) sms(lead Lead) string {
	b := lead.Business

	msg := fmt.Sprintf("Hi %s, %s from %s.", b.Name, d.SenderName, d.SenderCompany)

	if b.RedesignURL != "" {
		return msg + " Free website redesign preview: " + b.RedesignURL + " Reply STOP to opt out."
	}

	return msg + " Reply YES for a free website review. Reply STOP to opt out."
}
