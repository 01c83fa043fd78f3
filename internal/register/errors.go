package register

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a business rule failure. Two errors match under errors.Is when
// their codes are equal, so a server message can replace the default text
// without breaking comparisons.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// WithMessage returns a copy of e carrying another message.
func (e *Error) WithMessage(msg string) *Error {
	if msg == "" {
		return e
	}
	return &Error{Code: e.Code, Message: msg}
}

var (
	ErrAlreadyOpen         = &Error{Code: "REGISTER_ALREADY_OPEN", Message: "La caisse est déjà ouverte pour cette date"}
	ErrRegisterClosed      = &Error{Code: "REGISTER_CLOSED", Message: "La caisse est fermée ou n'a pas été ouverte"}
	ErrAlreadyClosed       = &Error{Code: "REGISTER_ALREADY_CLOSED", Message: "La caisse est déjà fermée"}
	ErrNoOpenRegister      = &Error{Code: "NO_OPEN_REGISTER", Message: "Aucune caisse ouverte pour aujourd'hui"}
	ErrNotFound            = &Error{Code: "REGISTER_NOT_FOUND", Message: "Caisse journalière non trouvée"}
	ErrInvalidAmount       = &Error{Code: "INVALID_AMOUNT", Message: "Le montant doit être supérieur à zéro"}
	ErrInvalidRange        = &Error{Code: "INVALID_RANGE", Message: "La date de début doit précéder la date de fin"}
	ErrInsufficientBalance = &Error{Code: "INSUFFICIENT_BALANCE", Message: "Solde insuffisant pour ce retrait"}
	ErrForbiddenScope      = &Error{Code: "FORBIDDEN_SCOPE", Message: "Vous n'êtes pas autorisé à consulter ce périmètre"}
	ErrScopeRequired       = &Error{Code: "SCOPE_REQUIRED", Message: "Un site ou un groupe doit être précisé"}
	ErrOperationPending    = &Error{Code: "OPERATION_PENDING", Message: "Une opération identique est déjà en cours"}
	ErrNotClosed           = &Error{Code: "REGISTER_NOT_CLOSED", Message: "La caisse n'est pas fermée"}
	ErrCashierNotFound     = &Error{Code: "CASHIER_NOT_FOUND", Message: "Caissier introuvable"}
	ErrInvalidFormat       = &Error{Code: "INVALID_FORMAT", Message: "Format d'export non supporté (pdf, csv, xlsx)"}
)

var knownErrors = []*Error{
	ErrAlreadyOpen, ErrRegisterClosed, ErrAlreadyClosed, ErrNoOpenRegister,
	ErrNotFound, ErrInvalidAmount, ErrInvalidRange, ErrInsufficientBalance,
	ErrForbiddenScope, ErrScopeRequired, ErrOperationPending, ErrNotClosed,
	ErrCashierNotFound, ErrInvalidFormat,
}

// ErrorFromCode rebuilds a business error received over the wire. Unknown
// codes still produce an *Error so callers can show the message.
func ErrorFromCode(code, message string) *Error {
	for _, e := range knownErrors {
		if e.Code == code {
			return e.WithMessage(message)
		}
	}
	if message == "" {
		message = "Opération refusée"
	}
	return &Error{Code: code, Message: message}
}

// HTTPStatus is the status a server answers with for a business error.
func HTTPStatus(e *Error) int {
	switch e.Code {
	case ErrAlreadyOpen.Code, ErrRegisterClosed.Code, ErrAlreadyClosed.Code,
		ErrNoOpenRegister.Code, ErrNotClosed.Code, ErrOperationPending.Code:
		return http.StatusConflict
	case ErrNotFound.Code, ErrCashierNotFound.Code:
		return http.StatusNotFound
	case ErrInvalidAmount.Code, ErrInvalidRange.Code, ErrScopeRequired.Code, ErrInvalidFormat.Code:
		return http.StatusBadRequest
	case ErrForbiddenScope.Code:
		return http.StatusForbidden
	case ErrInsufficientBalance.Code:
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadRequest
}

// TransportError is a failure to reach the store or to get a usable answer
// from it.
type TransportError struct {
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("register store: http %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("register store: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Unauthorized reports a rejected session. Ending the session is the
// caller's concern.
func (e *TransportError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// IsBusiness reports whether err is a business rule failure the user can act on.
func IsBusiness(err error) bool {
	var e *Error
	return errors.As(err, &e)
}

func IsUnauthorized(err error) bool {
	var t *TransportError
	return errors.As(err, &t) && t.Unauthorized()
}
