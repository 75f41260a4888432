package recommendation

import (
	"time"

	"github.com/shuv1824/weatherwise/internal/types"
)

const (
	coldTemp     = 10.0
	warmTemp     = 20.0
	strongWind   = 25.0
	highHumidity = 80
)

// rule adjusts the running score for one activity and appends its reasons.
// Rules only read their inputs; the returned slice may share reasons' backing array.
type rule func(w *types.Weather, a *types.Activity, now time.Time, score int, reasons []string) (int, []string)

// rules run in this order for every activity
var rules = []rule{
	temperatureRule,
	precipitationRule,
	windRule,
	humidityRule,
	categoryRule,
	timeOfDayRule,
}

func temperatureRule(w *types.Weather, a *types.Activity, _ time.Time, score int, reasons []string) (int, []string) {
	switch {
	case w.Temperature < coldTemp:
		if a.Indoor {
			return score + 25, append(reasons, "Staying indoors may be more comfortable")
		}
		return score - 10, append(reasons, "It's quite cold outside")
	case w.Temperature > warmTemp:
		if !a.Indoor {
			return score + 20, append(reasons, "Enjoy the warm weather outdoors")
		}
		return score - 10, append(reasons, "It's a nice day outside")
	default:
		return score, append(reasons, "Weather is nice for most activities")
	}
}

// precipitationRule matches the condition exactly; "Drizzle" or "rain" do not count.
func precipitationRule(w *types.Weather, a *types.Activity, _ time.Time, score int, reasons []string) (int, []string) {
	if w.Condition != "Rain" && w.Condition != "Snow" {
		return score, reasons
	}
	if a.Indoor {
		return score + 30, append(reasons, "Indoors is more preferable in with conditions like this")
	}
	return score - 30, append(reasons, "Outdoor activities may be less enjoyable in this weather")
}

func windRule(w *types.Weather, a *types.Activity, _ time.Time, score int, reasons []string) (int, []string) {
	if w.WindSpeed > strongWind && !a.Indoor {
		return score - 20, append(reasons, "Strong winds make outdoor activities risky")
	}
	return score, reasons
}

func humidityRule(w *types.Weather, a *types.Activity, _ time.Time, score int, reasons []string) (int, []string) {
	if w.Humidity > highHumidity && a.Indoor {
		return score + 10, append(reasons, "High humidity makes indoor activities more comfortable")
	}
	return score, reasons
}

func categoryRule(w *types.Weather, a *types.Activity, _ time.Time, score int, reasons []string) (int, []string) {
	switch types.NormalizeCategory(a.Category) {
	case types.CategoryCafe:
		if w.Temperature < coldTemp {
			return score + 10, append(reasons, "A warm cafe is perfect for cold weather")
		}
	case types.CategoryPark:
		if w.Temperature > warmTemp-5 {
			return score + 15, append(reasons, "Great weather for enjoying the outdoors in the park")
		}
	}
	return score, reasons
}

// timeOfDayRule uses the wall-clock hour of the request, not opening hours.
func timeOfDayRule(_ *types.Weather, a *types.Activity, now time.Time, score int, reasons []string) (int, []string) {
	hour := now.Hour()

	switch types.NormalizeCategory(a.Category) {
	case types.CategoryMall:
		if inHours(hour, 10, 19) {
			return score + 5, append(reasons, "Stores are open for shopping")
		}
	case types.CategoryCafe:
		if inHours(hour, 7, 10) || inHours(hour, 14, 17) {
			return score + 5, append(reasons, "Good time for a fika")
		}
	case types.CategoryRestaurant:
		if inHours(hour, 11, 14) || inHours(hour, 18, 21) {
			return score + 5, append(reasons, "Ideal time for a warm meal")
		}
	}
	return score, reasons
}

// inHours reports whether hour is in [from, to)
func inHours(hour, from, to int) bool {
	return hour >= from && hour < to
}
