package http

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"

	"github.com/comitanigiacomo/kanso-habits/internal/core/progress"
)

const TimezoneHeader = "X-Timezone"

var ErrInvalidTimezone = errors.New("invalid timezone")

// SettingsResolver turns a request into the progress.Settings it is computed
// with. X-Timezone and Accept-Language override the server defaults.
type SettingsResolver struct {
	Location *time.Location
	Locale   string
	// FirstWeekday is used when ExplicitWeekday is set; otherwise the first
	// day of the week follows the request locale.
	FirstWeekday    time.Weekday
	ExplicitWeekday bool
	Now             func() time.Time
}

func (r SettingsResolver) Resolve(c *gin.Context) (progress.Settings, error) {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}

	loc := r.Location
	if loc == nil {
		loc = time.Local
	}
	if name := c.GetHeader(TimezoneHeader); name != "" {
		l, err := time.LoadLocation(name)
		if err != nil {
			return progress.Settings{}, fmt.Errorf("%w: %q", ErrInvalidTimezone, name)
		}
		loc = l
	}

	locale := r.Locale
	if locale == "" {
		locale = progress.DefaultLocale
	}
	if header := c.GetHeader("Accept-Language"); header != "" {
		if tags, _, err := language.ParseAcceptLanguage(header); err == nil && len(tags) > 0 {
			locale = tags[0].String()
		}
	}

	first := r.FirstWeekday
	if !r.ExplicitWeekday {
		first = progress.FirstWeekdayForLocale(locale)
	}

	return progress.Settings{
		Now:          now().In(loc),
		Location:     loc,
		FirstWeekday: first,
		Locale:       locale,
	}, nil
}

func (r SettingsResolver) resolveOrAbort(c *gin.Context) (progress.Settings, bool) {
	s, err := r.Resolve(c)
	if err != nil {
		handleError(c, err)
		return progress.Settings{}, false
	}
	return s, true
}
