package server

import (
	"fmt"
	"log/slog"
	"net/http"

	"website_revolution/internal/domain/service/export"
	"website_revolution/pkg/httpx/reply"
	"website_revolution/pkg/httpx/req"
	"website_revolution/pkg/logx"
	"website_revolution/pkg/lox"
	"website_revolution/pkg/metrics"
	"website_revolution/pkg/rest"
)

type Exporter interface {
	Export(req export.Request) (export.File, error)
}

type ExportServer struct {
	exporter Exporter
}

func NewExportServer(exporter Exporter) ExportServer {
	return ExportServer{
		exporter: exporter,
	}
}

func (s ExportServer) postAPICSVFileExport(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var body rest.CSVExportRequest
	if err := req.Read(r, &body); err != nil {
		metrics.ExportsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return err
	}

	file, err := s.exporter.Export(export.Request{
		Businesses: lox.Map(body.Businesses, newDomainBusiness),
		Location:   body.Location,
		Niche:      body.Niche,
		Options: export.Options{
			IncludeOutreach: body.IncludeOutreach,
			IncludeAnalysis: body.IncludeAnalysis,
		},
	})
	if err != nil {
		metrics.ExportsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return fmt.Errorf("exporter.Export: %w", err)
	}

	metrics.ExportsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()

	logger(ctx).Info("csv exported",
		slog.String(logx.FieldFilename, file.Filename),
		"rows", len(body.Businesses),
	)

	reply.Attachment(ctx, w, file.ContentType, file.Filename, file.Data)

	return nil
}
