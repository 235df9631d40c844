package server

import (
	"website_revolution/internal/domain/entity"
	"website_revolution/pkg/lox"
	"website_revolution/pkg/rest"
)

func newRESTBusiness(b entity.Business) rest.Business {
	return rest.Business{
		ID:          b.ID,
		Name:        b.Name,
		Website:     b.Website,
		Phone:       b.Phone,
		Email:       b.Email,
		Address:     b.Address,
		Score:       b.Score,
		Issues:      nonNil(b.Issues),
		RedesignURL: b.RedesignURL,
		OutreachMessages: rest.OutreachMessages{
			Email:    b.OutreachMessages.Email,
			WhatsApp: b.OutreachMessages.WhatsApp,
			SMS:      b.OutreachMessages.SMS,
		},
	}
}

func newRESTBusinesses(businesses []entity.Business) []rest.Business {
	return lox.Map(businesses, newRESTBusiness)
}

func newDomainBusiness(b rest.Business) entity.Business {
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

func newRESTSearchRun(run entity.SearchRun) rest.SearchRun {
	return rest.SearchRun{
		ID:         run.ID.String(),
		Location:   run.Location,
		Niche:      run.Niche,
		Businesses: newRESTBusinesses(run.Businesses),
		CreatedAt:  run.CreatedAt,
	}
}

func newRESTSearchSummary(s entity.SearchSummary) rest.SearchSummary {
	return rest.SearchSummary{
		ID:          s.ID.String(),
		Location:    s.Location,
		Niche:       s.Niche,
		ResultCount: s.ResultCount,
		CreatedAt:   s.CreatedAt,
	}
}

func newRESTRedesign(r entity.Redesign) rest.Redesign {
	return rest.Redesign{
		Filename:     r.Filename.String(),
		HTML:         r.HTML,
		CSS:          r.CSS,
		BusinessName: r.BusinessName,
		Improvements: nonNil(r.Improvements),
		DesignNotes:  nonNil(r.DesignNotes),
		CreatedAt:    r.CreatedAt,
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
