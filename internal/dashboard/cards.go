package dashboard

import (
	"website_revolution/internal/domain/entity"
	"website_revolution/internal/domain/value"
	"website_revolution/pkg/rest"
)

const cardIssues = 3

// Card is the grid/list entry of one business.
type Card struct {
	ID          string
	Name        string
	Website     string
	Phone       string
	Email       string
	Address     string
	Score       int
	Priority    value.Priority
	Label       string
	Theme       string
	Issues      []string
	MoreIssues  int
	RedesignURL string
	Outreach    entity.OutreachMessages
}

func NewCard(b entity.Business) Card {
	p := b.Priority()
	top := b.TopIssues(cardIssues)

	return Card{
		ID:          b.ID,
		Name:        b.Name,
		Website:     b.Website,
		Phone:       b.Phone,
		Email:       b.Email,
		Address:     b.Address,
		Score:       b.Score,
		Priority:    p,
		Label:       p.Label(),
		Theme:       p.Theme(),
		Issues:      top,
		MoreIssues:  len(b.Issues) - len(top),
		RedesignURL: b.RedesignURL,
		Outreach:    b.OutreachMessages,
	}
}

func NewCards(businesses []entity.Business) []Card {
	out := make([]Card, 0, len(businesses))
	for _, b := range businesses {
		out = append(out, NewCard(b))
	}
	return out
}

func businessFromREST(b rest.Business) entity.Business {
	return entity.Business{
		ID:          b.ID,
		Name:        b.Name,
		Website:     b.Website,
		Phone:       b.Phone,
		Email:       b.Email,
		Address:     b.Address,
		Score:       b.Score,
		Issues:      b.Issues,
		RedesignURL: b.RedesignURL,
		OutreachMessages: entity.OutreachMessages{
			Email:    b.OutreachMessages.Email,
			WhatsApp: b.OutreachMessages.WhatsApp,
			SMS:      b.OutreachMessages.SMS,
		},
	}
}

func businessToREST(b entity.Business) rest.Business {
	issues := b.Issues
	if issues == nil {
		issues = []string{}
	}

	return rest.Business{
		ID:          b.ID,
		Name:        b.Name,
		Website:     b.Website,
		Phone:       b.Phone,
		Email:       b.Email,
		Address:     b.Address,
		Score:       b.Score,
		Issues:      issues,
		RedesignURL: b.RedesignURL,
		OutreachMessages: rest.OutreachMessages{
			Email:    b.OutreachMessages.Email,
			WhatsApp: b.OutreachMessages.WhatsApp,
			SMS:      b.OutreachMessages.SMS,
		},
	}
}
