package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"git.appkode.ru/pub/go/failure"

	"website_revolution/internal/domain/entity"
	"website_revolution/internal/domain/value"
	"website_revolution/pkg/errcodes"
)

const issueSeparator = "; "

// Options select the optional column groups.
type Options struct {
	IncludeOutreach bool
	IncludeAnalysis bool
}

type Request struct {
	Businesses []entity.Business
	Location   string
	Niche      string
	Options    Options
}

type File struct {
	Filename    string
	ContentType string
	Data        []byte
}

// CSVExporter renders review results as a spreadsheet-friendly CSV file.
type CSVExporter struct {
	baseURL string
}

// NewCSVExporter resolves relative redesign links against baseURL.
func NewCSVExporter(baseURL string) CSVExporter {
	return CSVExporter{baseURL: strings.TrimRight(baseURL, "/")}
}

func (e CSVExporter) Export(req Request) (File, error) {
	if len(req.Businesses) == 0 {
		return File{}, failure.NewInvalidArgumentError(
			"no businesses to export",
			failure.WithCode(errcodes.InvalidExportRequest),
			failure.WithDescription("There are no businesses to export"),
		)
	}

	var buf bytes.Buffer

	// UTF-8 BOM so spreadsheet apps detect the encoding.
	buf.WriteString("\ufeff")

	w := csv.NewWriter(&buf)

	if err := w.Write(Header(req.Options)); err != nil {
		return File{}, fmt.Errorf("csv.Write: %w", err)
	}

	for _, b := range req.Businesses {
		if err := w.Write(e.row(b, req.Options)); err != nil {
			return File{}, fmt.Errorf("csv.Write: %w", err)
		}
	}

	w.Flush()

	if err := w.Error(); err != nil {
		return File{}, fmt.Errorf("csv.Flush: %w", err)
	}

	return File{
		Filename:    value.ExportFilename(req.Location, req.Niche),
		ContentType: "text/csv; charset=utf-8",
		Data:        buf.Bytes(),
	}, nil
}

func Header(opts Options) []string {
	header := []string{"Business Name", "Website", "Phone", "Email", "Address"}

	if opts.IncludeAnalysis {
		header = append(header, "Score", "Priority", "Issues", "Redesign URL")
	}

	if opts.IncludeOutreach {
		header = append(header, "Email Outreach", "WhatsApp Outreach", "SMS Outreach")
	}

	return header
}

func (e CSVExporter) row(b entity.Business, opts Options) []string {
	row := []string{b.Name, b.Website, b.Phone, b.Email, b.Address}

	if opts.IncludeAnalysis {
		row = append(row,
			strconv.Itoa(b.Score),
			b.Priority().Label(),
			strings.Join(b.Issues, issueSeparator),
			e.absolute(b.RedesignURL),
		)
	}

	if opts.IncludeOutreach {
		row = append(row,
			b.OutreachMessages.Email,
			b.OutreachMessages.WhatsApp,
			b.OutreachMessages.SMS,
		)
	}

	return row
}

func (e CSVExporter) absolute(u string) string {
	if u == "" || e.baseURL == "" || !strings.HasPrefix(u, "/") {
		return u
	}

	return e.baseURL + u
}
