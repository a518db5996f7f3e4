package httperr

import "errors"

type Kind int

const (
	KindDomain Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindIntegrity
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindIntegrity:
		return "integrity"
	case KindForbidden:
		return "forbidden"
	default:
		return "domain"
	}
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// BusinessError is any error the caller can act on. Everything that is not a
// BusinessError is treated as infrastructure failure.
type BusinessError struct {
	Kind    Kind
	Code    string
	Message string
	Fields  []FieldError
}

func (e BusinessError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Code + ": " + e.Message
}

func ErrBusiness(code string) error {
	return BusinessError{Kind: KindDomain, Code: code}
}

func Domain(code, message string) error {
	return BusinessError{Kind: KindDomain, Code: code, Message: message}
}

func NotFoundErr(code, message string) error {
	return BusinessError{Kind: KindNotFound, Code: code, Message: message}
}

func ConflictErr(code, message string) error {
	return BusinessError{Kind: KindConflict, Code: code, Message: message}
}

func IntegrityErr(code, message string) error {
	return BusinessError{Kind: KindIntegrity, Code: code, Message: message}
}

func ForbiddenErr(code, message string) error {
	return BusinessError{Kind: KindForbidden, Code: code, Message: message}
}

func ValidationErr(code, message string, fields ...FieldError) error {
	return BusinessError{Kind: KindValidation, Code: code, Message: message, Fields: fields}
}

func AsBusiness(err error) (BusinessError, bool) {
	var be BusinessError
	if errors.As(err, &be) {
		return be, true
	}
	return BusinessError{}, false
}

func IsBusiness(err error, code string) bool {
	be, ok := AsBusiness(err)
	return ok && be.Code == code
}

func IsKind(err error, kind Kind) bool {
	be, ok := AsBusiness(err)
	return ok && be.Kind == kind
}
