package notify

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/umbrella-alerts/umbrella/internal/common"
	"github.com/umbrella-alerts/umbrella/internal/forecast"
)

// ErrCompose is returned when a forecast document is missing the fields a
// notification needs.
var ErrCompose = errors.New("cannot compose notification")

// PeakTimeNotFound is emitted when no hourly entry matches the daily maximum
// UV index within the current local day.
const PeakTimeNotFound = "not found"

// ComposeCurrent builds the current-conditions notification from a forecast
// document. Group, priority and attachment are left for the caller.
func ComposeCurrent(doc *forecast.Document) (Record, error) {
	if len(doc.Current.Weather) == 0 {
		return Record{}, fmt.Errorf("%w: current weather description missing", ErrCompose)
	}
	desc := doc.Current.Weather[0].Description

	localTS := common.ConvertUTCToLocal(doc.Current.Dt, doc.TimezoneOffset)

	lines := []string{
		desc,
		fmt.Sprintf("Temperature: %.1fC (feels like %.1fC)", doc.Current.Temp, doc.Current.FeelsLike),
		fmt.Sprintf("Wind: %.1f m/s", doc.Current.WindSpeed),
		fmt.Sprintf("Clouds: %d%%", doc.Current.Clouds),
		fmt.Sprintf("UV index: %.1f", doc.Current.UVI),
	}

	title := fmt.Sprintf("UMBRELLA: Current Weather @ %s", common.HumanReadable(localTS))
	if doc.Address != "" {
		title += " - " + doc.Address
	}

	return Record{
		Message: strings.Join(lines, "\n"),
		Title:   title,
	}, nil
}

// ComposeDaily builds the daily-outlook notification from the first entry of
// the daily series.
func ComposeDaily(doc *forecast.Document) (Record, error) {
	if len(doc.Daily) == 0 {
		return Record{}, fmt.Errorf("%w: daily series empty", ErrCompose)
	}
	today := doc.Daily[0]

	rainProbability := int(math.Round(today.Pop * 100))
	peak := peakUVTime(doc.Hourly, doc.TimezoneOffset, today.UVI)

	lines := make([]string, 0, 5)
	if len(today.Weather) > 0 {
		lines = append(lines, today.Weather[0].Description)
	}
	lines = append(lines,
		fmt.Sprintf("Rain probability: %d%%", rainProbability),
		fmt.Sprintf("Max UV index: %.1f (peak at %s)", today.UVI, peak),
		fmt.Sprintf("Feels like: morning %.1fC, day %.1fC, evening %.1fC, night %.1fC",
			today.FeelsLike.Morn, today.FeelsLike.Day, today.FeelsLike.Eve, today.FeelsLike.Night),
	)

	localDay := common.ConvertUTCToLocal(today.Dt, doc.TimezoneOffset)
	title := fmt.Sprintf("UMBRELLA: Daily Outlook @ %s", common.HumanReadable(localDay))
	if doc.Address != "" {
		title += " - " + doc.Address
	}

	return Record{
		Message: strings.Join(lines, "\n"),
		Title:   title,
	}, nil
}

// peakUVTime scans the hourly series for the first entry of the current local
// day whose UV index equals the daily maximum. The series is ordered by time
// ascending, so the scan stops at the first entry that falls on a later local
// calendar day. The daily maximum and hourly samples may disagree due to
// rounding; in that case the sentinel is emitted rather than failing.
func peakUVTime(hourly []forecast.Hourly, offsetSeconds int64, maxUVI float64) string {
	if len(hourly) == 0 {
		return PeakTimeNotFound
	}

	today := common.ConvertUTCToLocal(hourly[0].Dt, offsetSeconds)
	for _, h := range hourly {
		local := common.ConvertUTCToLocal(h.Dt, offsetSeconds)
		if !common.SameCalendarDay(local, today) {
			break
		}
		if h.UVI == maxUVI {
			return common.HourMinute(local)
		}
	}
	return PeakTimeNotFound
}
