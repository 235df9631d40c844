package server

import "website_revolution/pkg/contextx"

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Server groups the HTTP servers of each resource.
type Server struct {
	ReviewServer
	ExportServer
	RedesignServer
}

func NewServer(
	reviewServer ReviewServer,
	exportServer ExportServer,
	redesignServer RedesignServer,
) Server {
	return Server{
		ReviewServer:   reviewServer,
		ExportServer:   exportServer,
		RedesignServer: redesignServer,
	}
}
