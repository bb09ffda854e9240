package service

import (
	"database/sql"
	"errors"
	"fmt"

	appErrors "github.com/noah-isme/campus-timetable-api/pkg/errors"
)

// mapNoRows converts a missing-row error into a typed not-found and
// wraps everything else as internal.
func mapNoRows(err error, notFoundMsg, internalMsg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, notFoundMsg)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, internalMsg)
}

// sessionLabel renders an intake session as "2023-2027".
func sessionLabel(startYear, endYear int) string {
	return fmt.Sprintf("%d-%d", startYear, endYear)
}
