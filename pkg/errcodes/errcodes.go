package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	Forbidden           failure.ErrorCode = "Forbidden"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"

	SetupRequired        failure.ErrorCode = "SetupRequired"        // Places API key is not configured
	PlacesUnavailable    failure.ErrorCode = "PlacesUnavailable"    // Places API answered with a non-OK status
	InvalidSearchQuery   failure.ErrorCode = "InvalidSearchQuery"   // empty location or niche
	InvalidSearchID      failure.ErrorCode = "InvalidSearchID"
	SearchNotFound       failure.ErrorCode = "SearchNotFound"
	InvalidExportRequest failure.ErrorCode = "InvalidExportRequest" // nothing to export
	InvalidFilename      failure.ErrorCode = "InvalidFilename"
	RedesignNotFound     failure.ErrorCode = "RedesignNotFound"
	InvalidRulesFile     failure.ErrorCode = "InvalidRulesFile"
)
