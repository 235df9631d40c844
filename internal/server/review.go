package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"git.appkode.ru/pub/go/failure"

	"website_revolution/internal/domain"
	"website_revolution/internal/domain/entity"
	"website_revolution/internal/domain/value"
	"website_revolution/pkg/errcodes"
	"website_revolution/pkg/httpx/reply"
	"website_revolution/pkg/httpx/req"
	"website_revolution/pkg/logx"
	"website_revolution/pkg/lox"
	"website_revolution/pkg/rest"
)

const (
	defaultSearchesLimit = 20
	maxSearchesLimit     = 100
)

type Reviewer interface {
	Search(ctx context.Context, query value.SearchQuery) (entity.SearchRun, error)
	RecentSearches(ctx context.Context, limit int) ([]entity.SearchSummary, error)
	GetSearch(ctx context.Context, id value.SearchID) (entity.SearchRun, error)
}

type ReviewServer struct {
	reviewer Reviewer
}

func NewReviewServer(reviewer Reviewer) ReviewServer {
	return ReviewServer{
		reviewer: reviewer,
	}
}

// postAPIBusinessesReview always answers with the review envelope, failures
// included.
func (s ReviewServer) postAPIBusinessesReview(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var body rest.BusinessesReviewRequest
	if err := req.Read(r, &body); err != nil {
		reply.JSON(ctx, w, http.StatusBadRequest, rest.BusinessesReviewFailure{
			Error:   "Invalid request",
			Details: failure.Description(err),
		})

		return nil
	}

	query, err := value.NewSearchQuery(body.Location, body.Niche)
	if err != nil {
		reply.JSON(ctx, w, http.StatusBadRequest, rest.BusinessesReviewFailure{
			Error:   "Location and niche are required",
			Details: err.Error(),
		})

		return nil
	}

	run, err := s.reviewer.Search(ctx, query)
	if err != nil {
		status, response := reviewFailure(err)

		logger(ctx).Error("review failed", logx.Error(err), slog.Int(logx.FieldResponseStatus, status))
		reply.JSON(ctx, w, status, response)

		return nil
	}

	reply.JSON(ctx, w, http.StatusOK, rest.BusinessesReviewResponse{
		Success:    true,
		SearchID:   run.ID.String(),
		Businesses: newRESTBusinesses(run.Businesses),
	})

	return nil
}

func reviewFailure(err error) (int, rest.BusinessesReviewFailure) {
	switch {
	case domain.HasCode(err, errcodes.SetupRequired):
		return http.StatusServiceUnavailable, rest.BusinessesReviewFailure{
			SetupRequired: true,
			Error:         "Google Places API key is not configured",
			Details:       "Set GOOGLE_PLACES_API_KEY and restart the server.",
		}
	case domain.HasCode(err, errcodes.InvalidSearchQuery):
		return http.StatusBadRequest, rest.BusinessesReviewFailure{
			Error:   "Invalid search",
			Details: appMessage(err),
		}
	case domain.HasCode(err, errcodes.PlacesUnavailable):
		return http.StatusInternalServerError, rest.BusinessesReviewFailure{
			Error:   "Failed to review businesses",
			Details: appMessage(err),
		}
	default:
		return http.StatusInternalServerError, rest.BusinessesReviewFailure{
			Error:   "Failed to review businesses",
			Details: "Please try again later.",
		}
	}
}

// appMessage is the user-facing message of the first domain error in the
// chain.
func appMessage(err error) string {
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return ""
}

func (s ReviewServer) getAPISearches(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		return err
	}

	summaries, err := s.reviewer.RecentSearches(ctx, limit)
	if err != nil {
		return fmt.Errorf("reviewer.RecentSearches: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.SearchList{
		Searches: lox.Map(summaries, newRESTSearchSummary),
	})

	return nil
}

func (s ReviewServer) getAPISearch(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := value.ParseSearchID(r.PathValue("id"))
	if err != nil {
		return failure.NewInvalidArgumentError(
			err.Error(),
			failure.WithCode(errcodes.InvalidSearchID),
			failure.WithDescription("Invalid search id"),
		)
	}

	run, err := s.reviewer.GetSearch(ctx, id)
	if err != nil {
		return fmt.Errorf("reviewer.GetSearch: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTSearchRun(run))

	return nil
}

func parseLimit(s string) (int, error) {
	if s == "" {
		return defaultSearchesLimit, nil
	}

	limit, err := strconv.Atoi(s)
	if err != nil || limit < 1 || limit > maxSearchesLimit {
		return 0, failure.NewInvalidArgumentError(
			fmt.Sprintf("invalid limit %q", s),
			failure.WithCode(errcodes.ValidationError),
			failure.WithDescription(fmt.Sprintf("limit must be between 1 and %d", maxSearchesLimit)),
		)
	}

	return limit, nil
}
