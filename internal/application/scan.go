package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"website_revolution/internal/dashboard"
	"website_revolution/pkg/httpx"
	"website_revolution/pkg/logx"
)

var errSetupRequired = errors.New("server reports that setup is required: set GOOGLE_PLACES_API_KEY")

type ScanOptions struct {
	BaseURL  string
	Location string
	Niche    string
	// OutDir receives the CSV export. Empty skips the export.
	OutDir string
}

// Scan drives a dashboard session against a running server.
func Scan(ctx context.Context, opts ScanOptions) (dashboard.View, error) {
	client := dashboard.NewClient(opts.BaseURL, httpx.WithSensitiveDataMasker(logx.NewSensitiveDataMasker()))
	session := dashboard.NewSession(client, dashboard.DirDownloader{Dir: opts.OutDir})

	session.SetLocation(opts.Location)
	session.SetNiche(opts.Niche)

	if err := session.Search(ctx); err != nil {
		return session.View(), fmt.Errorf("session.Search: %w", err)
	}

	switch st := session.State().(type) {
	case dashboard.SetupRequired:
		return session.View(), errSetupRequired
	case dashboard.Failed:
		return session.View(), fmt.Errorf("search failed: %s", st.Message)
	case dashboard.Results:
		logger(ctx).Info("search finished", slog.Int(logx.FieldCount, len(st.Businesses)))

		if opts.OutDir == "" || st.Empty() {
			return session.View(), nil
		}
	}

	if err := session.Export(ctx); err != nil {
		return session.View(), fmt.Errorf("session.Export: %w", err)
	}

	view := session.View()

	switch st := view.Export.(type) {
	case dashboard.ExportFailed:
		return view, fmt.Errorf("export failed: %s", st.Message)
	case dashboard.Exported:
		logger(ctx).Info("export saved", slog.String(logx.FieldFilename, st.Filename))
	}

	return view, nil
}
