package progress

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/de"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/es"
	"github.com/go-playground/locales/fr"
	"github.com/go-playground/locales/it"
	"github.com/go-playground/locales/pt"
	ut "github.com/go-playground/universal-translator"
	"golang.org/x/text/language"
)

const DefaultLocale = "en"

var translators = newTranslators()

func newTranslators() *ut.UniversalTranslator {
	fallback := en.New()
	return ut.New(fallback, fallback, es.New(), it.New(), fr.New(), de.New(), pt.New())
}

// Regions whose calendars start the week on Sunday or Saturday (CLDR
// weekData). Everything else starts on Monday.
var (
	sundayFirstRegions = map[string]bool{
		"AG": true, "AS": true, "BD": true, "BR": true, "BS": true, "BT": true, "BW": true,
		"BZ": true, "CA": true, "CN": true, "CO": true, "DM": true, "DO": true, "ET": true,
		"GT": true, "GU": true, "HK": true, "HN": true, "ID": true, "IL": true, "IN": true,
		"JM": true, "JP": true, "KE": true, "KH": true, "KR": true, "LA": true, "MH": true,
		"MM": true, "MO": true, "MT": true, "MX": true, "MZ": true, "NI": true, "NP": true,
		"PA": true, "PE": true, "PH": true, "PK": true, "PR": true, "PT": true, "PY": true,
		"SA": true, "SG": true, "SV": true, "TH": true, "TT": true, "TW": true, "UM": true,
		"US": true, "VE": true, "VI": true, "WS": true, "YE": true, "ZA": true, "ZW": true,
	}
	saturdayFirstRegions = map[string]bool{
		"AE": true, "AF": true, "BH": true, "DJ": true, "DZ": true, "EG": true, "IQ": true,
		"IR": true, "JO": true, "KW": true, "LY": true, "OM": true, "QA": true, "SD": true,
		"SY": true,
	}
)

func translatorFor(locale string) locales.Translator {
	tag, err := language.Parse(strings.ReplaceAll(locale, "_", "-"))
	if err != nil {
		return translators.GetFallback()
	}
	base, _ := tag.Base()
	trans, _ := translators.GetTranslator(base.String())
	return trans
}

// MonthTitle renders the "Month Year" header of a calendar page.
func MonthTitle(year int, month time.Month, locale string) string {
	return fmt.Sprintf("%s %d", translatorFor(locale).MonthWide(month), year)
}

// WeekdaySymbols returns abbreviated weekday names in display order, starting
// at first.
func WeekdaySymbols(first time.Weekday, locale string) [7]string {
	trans := translatorFor(locale)

	var symbols [7]string
	for i := range symbols {
		symbols[i] = trans.WeekdayAbbreviated(time.Weekday((int(first) + i) % 7))
	}
	return symbols
}

// FirstWeekdayForLocale derives the first day of the week from the locale's
// region, inferring the most likely region when the tag has none ("en" is
// read as en-US). Unparseable locales fall back to Sunday.
func FirstWeekdayForLocale(locale string) time.Weekday {
	tag, err := language.Parse(strings.ReplaceAll(locale, "_", "-"))
	if err != nil {
		return time.Sunday
	}

	region, _ := tag.Region()
	switch code := region.String(); {
	case sundayFirstRegions[code]:
		return time.Sunday
	case saturdayFirstRegions[code]:
		return time.Saturday
	default:
		return time.Monday
	}
}
