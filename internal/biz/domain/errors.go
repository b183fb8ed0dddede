package domain

import "errors"

// ErrCollaboratorUnavailable indicates the Slack or Gmail extension could
// not be reached. It is reported to the caller; the filter and formatter
// are never invoked with partial data.
var ErrCollaboratorUnavailable = errors.New("collaborator unavailable")
