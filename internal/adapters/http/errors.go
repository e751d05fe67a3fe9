package web

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"hoteladmin/internal/adapters/images"
	"hoteladmin/internal/application/orchestrators"
	"hoteladmin/internal/application/projections"
	"hoteladmin/internal/domain/account"
	"hoteladmin/internal/domain/audit"
	"hoteladmin/internal/domain/content"
	"hoteladmin/internal/domain/inquiry"
	"hoteladmin/internal/domain/reservation"
	"hoteladmin/internal/domain/room"
	"hoteladmin/internal/domain/stats"
)

var notFoundErrors = []error{
	sql.ErrNoRows,
	orchestrators.ErrRoomNotFound,
	orchestrators.ErrReservationNotFound,
	orchestrators.ErrInquiryNotFound,
	orchestrators.ErrDocumentNotFound,
	orchestrators.ErrOutboxEntryNotFound,
	orchestrators.ErrAccountNotFound,
	room.ErrImageNotFound,
}

var conflictErrors = []error{
	orchestrators.ErrRoomDoubleBooked,
	orchestrators.ErrEmailAlreadyExists,
	orchestrators.ErrOutboxEntryClosed,
}

// badRequestErrors are the validation failures whose message is safe to show.
var badRequestErrors = []error{
	room.ErrEmptyName, room.ErrNameTooLong, room.ErrInvalidType, room.ErrInvalidPrice,
	room.ErrInvalidCapacity, room.ErrDescriptionLong, room.ErrTooManyAmenities,
	room.ErrEmptyAmenity, room.ErrTooManyImages,

	reservation.ErrEmptyFirstName, reservation.ErrEmptyLastName, reservation.ErrNameTooLong,
	reservation.ErrInvalidEmail, reservation.ErrEmailTooLong, reservation.ErrEmptyStartDate,
	reservation.ErrEmptyEndDate, reservation.ErrInvalidDates, reservation.ErrEmptyRoomID,

	inquiry.ErrEmptyEmail, inquiry.ErrInvalidEmail, inquiry.ErrEmailTooLong,
	inquiry.ErrEmptyMessage, inquiry.ErrMessageTooLong, inquiry.ErrInvalidType,
	inquiry.ErrEmptyReply, inquiry.ErrReplyTooLong, inquiry.ErrInvalidTypeFilter,

	content.ErrInvalidJSON, content.ErrDocumentLarge,

	account.ErrInvalidEmail, account.ErrEmptyEmail, account.ErrEmailTooLong,
	account.ErrInvalidRole, account.ErrEmptyPassword, account.ErrPasswordTooShort,
	orchestrators.ErrCurrentPasswordWrong, orchestrators.ErrNewPasswordSame,

	images.ErrEmpty, images.ErrTooLarge, images.ErrUnsupportedType, images.ErrTooManyPixels, errInvalidUpload,

	stats.ErrInvalidMonths,
	audit.ErrInvalidCategory,
	projections.ErrInvalidOutboxStatus,
}

// statusFor maps an application error to its HTTP status.
func statusFor(err error) int {
	if isAny(err, notFoundErrors) {
		return http.StatusNotFound
	}
	if isAny(err, conflictErrors) {
		return http.StatusConflict
	}
	var parseErr *time.ParseError
	if isAny(err, badRequestErrors) || errors.As(err, &parseErr) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// writeError answers with the mapped status. Unmapped errors go through internalError.
func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		internalError(w, err)
		return
	}
	if errors.Is(err, sql.ErrNoRows) {
		http.Error(w, "not found", status)
		return
	}
	http.Error(w, err.Error(), status)
}

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}
