package persistence

import (
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"

	"website_revolution/internal/domain/entity"
	"website_revolution/internal/domain/value"
	"website_revolution/pkg/contextx"
)

var (
	json   = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip
	logger = contextx.LoggerFromContextOrDefault          //nolint:gochecknoglobals
)

type searchRunSchema struct {
	ID          string    `db:"id"`
	Location    string    `db:"location"`
	Niche       string    `db:"niche"`
	ResultCount int       `db:"result_count"`
	CreatedAt   time.Time `db:"created_at"`
}

func fromSearchRun(run entity.SearchRun) searchRunSchema {
	return searchRunSchema{
		ID:          run.ID.String(),
		Location:    run.Location,
		Niche:       run.Niche,
		ResultCount: len(run.Businesses),
		CreatedAt:   run.CreatedAt.UTC(),
	}
}

func (s searchRunSchema) toSummary() (entity.SearchSummary, error) {
	id, err := value.ParseSearchID(s.ID)
	if err != nil {
		return entity.SearchSummary{}, fmt.Errorf("search run %q: %w", s.ID, err)
	}

	return entity.SearchSummary{
		ID:          id,
		Location:    s.Location,
		Niche:       s.Niche,
		ResultCount: s.ResultCount,
		CreatedAt:   s.CreatedAt,
	}, nil
}

type outreachSchema struct {
	Email    string `json:"email"`
	WhatsApp string `json:"whatsapp"`
	SMS      string `json:"sms"`
}

type businessSchema struct {
	SearchID    string `db:"search_id"`
	Position    int    `db:"position"`
	ID          string `db:"id"`
	Name        string `db:"name"`
	Website     string `db:"website"`
	Phone       string `db:"phone"`
	Email       string `db:"email"`
	Address     string `db:"address"`
	Score       int    `db:"score"`
	Issues      string `db:"issues"`
	RedesignURL string `db:"redesign_url"`
	Outreach    string `db:"outreach"`
}

func fromBusiness(searchID string, position int, b entity.Business) (businessSchema, error) {
	issues, err := json.Marshal(nonNil(b.Issues))
	if err != nil {
		return businessSchema{}, fmt.Errorf("json.Marshal issues: %w", err)
	}

	outreach, err := json.Marshal(outreachSchema(b.OutreachMessages))
	if err != nil {
		return businessSchema{}, fmt.Errorf("json.Marshal outreach: %w", err)
	}

	return businessSchema{
		SearchID:    searchID,
		Position:    position,
		ID:          b.ID,
		Name:        b.Name,
		Website:     b.Website,
		Phone:       b.Phone,
		Email:       b.Email,
		Address:     b.Address,
		Score:       b.Score,
		Issues:      string(issues),
		RedesignURL: b.RedesignURL,
		Outreach:    string(outreach),
	}, nil
}

func (s businessSchema) toDomain() (entity.Business, error) {
	var issues []string
	if err := json.UnmarshalFromString(s.Issues, &issues); err != nil {
		return entity.Business{}, fmt.Errorf("json.Unmarshal issues: %w", err)
	}

	var outreach outreachSchema
	if err := json.UnmarshalFromString(s.Outreach, &outreach); err != nil {
		return entity.Business{}, fmt.Errorf("json.Unmarshal outreach: %w", err)
	}

	return entity.Business{
		ID:               s.ID,
		Name:             s.Name,
		Website:          s.Website,
		Phone:            s.Phone,
		Email:            s.Email,
		Address:          s.Address,
		Score:            s.Score,
		Issues:           issues,
		RedesignURL:      s.RedesignURL,
		OutreachMessages: entity.OutreachMessages(outreach),
	}, nil
}

type redesignSchema struct {
	Filename     string    `db:"filename"`
	BusinessID   string    `db:"business_id"`
	BusinessName string    `db:"business_name"`
	HTML         string    `db:"html"`
	CSS          string    `db:"css"`
	Improvements string    `db:"improvements"`
	DesignNotes  string    `db:"design_notes"`
	CreatedAt    time.Time `db:"created_at"`
}

func fromRedesign(r entity.Redesign) (redesignSchema, error) {
	improvements, err := json.Marshal(nonNil(r.Improvements))
	if err != nil {
		return redesignSchema{}, fmt.Errorf("json.Marshal improvements: %w", err)
	}

	notes, err := json.Marshal(nonNil(r.DesignNotes))
	if err != nil {
		return redesignSchema{}, fmt.Errorf("json.Marshal design notes: %w", err)
	}

	return redesignSchema{
		Filename:     r.Filename.String(),
		BusinessID:   r.BusinessID,
		BusinessName: r.BusinessName,
		HTML:         r.HTML,
		CSS:          r.CSS,
		Improvements: string(improvements),
		DesignNotes:  string(notes),
		CreatedAt:    r.CreatedAt.UTC(),
	}, nil
}

func (s redesignSchema) toDomain() (entity.Redesign, error) {
	var improvements, notes []string

	if err := json.UnmarshalFromString(s.Improvements, &improvements); err != nil {
		return entity.Redesign{}, fmt.Errorf("json.Unmarshal improvements: %w", err)
	}

	if err := json.UnmarshalFromString(s.DesignNotes, &notes); err != nil {
		return entity.Redesign{}, fmt.Errorf("json.Unmarshal design notes: %w", err)
	}

	return entity.Redesign{
		Filename:     value.RedesignFilename(s.Filename),
		BusinessID:   s.BusinessID,
		BusinessName: s.BusinessName,
		HTML:         s.HTML,
		CSS:          s.CSS,
		Improvements: improvements,
		DesignNotes:  notes,
		CreatedAt:    s.CreatedAt,
	}, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
