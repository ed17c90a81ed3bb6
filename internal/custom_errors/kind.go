package custom_errors

import "errors"

// Kind is the classification of a failure used to pick response semantics.
type Kind int

const (
	KindUnclassified Kind = iota
	KindValidation
	KindNotFound
	KindStorage
	KindPersistence
)

const unclassifiedMessage = "an internal error occurred"

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindNotFound:
		return "NotFound"
	case KindStorage:
		return "StorageError"
	case KindPersistence:
		return "PersistenceError"
	default:
		return "Unclassified"
	}
}

func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnclassified
	case errors.Is(err, ErrPostValidation):
		return KindValidation
	case errors.Is(err, ErrPostNotFound):
		return KindNotFound
	case errors.Is(err, ErrAssetWrite):
		return KindStorage
	case errors.Is(err, ErrDatabaseQuery), errors.Is(err, ErrDatabaseScan), errors.Is(err, ErrDatabaseUnavailable):
		return KindPersistence
	default:
		return KindUnclassified
	}
}

// PublicMessage is the message a caller may see for err. Infrastructure
// failures expose only the sentinel text, unclassified ones a generic text.
func PublicMessage(err error) string {
	switch KindOf(err) {
	case KindValidation:
		return ErrPostValidation.Error()
	case KindNotFound:
		return ErrPostNotFound.Error()
	case KindStorage:
		return ErrAssetWrite.Error()
	case KindPersistence:
		switch {
		case errors.Is(err, ErrDatabaseUnavailable):
			return ErrDatabaseUnavailable.Error()
		case errors.Is(err, ErrDatabaseScan):
			return ErrDatabaseScan.Error()
		}
		return ErrDatabaseQuery.Error()
	default:
		return unclassifiedMessage
	}
}
