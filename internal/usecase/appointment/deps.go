package appointment

import (
	"errors"
	"time"

	"github.com/BruksfildServices01/hyperlocal-booking/internal/audit"
	domain "github.com/BruksfildServices01/hyperlocal-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/httperr"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/notify"
)

type Auditor interface {
	Dispatch(ev audit.Event)
}

type Notifier interface {
	Notify(n notify.Notification)
}

type Clock func() time.Time

func utcNow() time.Time {
	return time.Now().UTC()
}

// SearchRadius bounds the radius a customer may search in when the shop is
// chosen for them.
type SearchRadius struct {
	DefaultKm float64
	MaxKm     float64
}

func orNotFound(err error, code, message string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return httperr.NotFoundErr(code, message)
	}
	return err
}
