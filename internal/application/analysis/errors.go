package analysis

import "errors"

// ErrReportNotFound is returned when a download asks for a record this session does not own.
var ErrReportNotFound = errors.New("report not found")
