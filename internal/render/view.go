package render

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/kjstillabower/weather-dashboard/internal/models"
)

// Fixed user-facing messages.
const (
	MsgPrompt         = "Please enter a city name."
	MsgTooLong        = "City name is too long."
	MsgInvalidChars   = "City name contains invalid characters."
	MsgPlaceholder    = "Search for a city above to see the weather details."
	MsgFetching       = "Fetching weather..."
	MsgNotFound       = "City not found. Please check the spelling and try again."
	MsgConnectFailure = "Failed to connect to weather service. Check your API key or network."
	MsgNoHistory      = "No recent searches yet."
	HistoryHeading    = "Recent Searches:"
)

// View is the display-ready form of a successful lookup.
type View struct {
	Heading     string `json:"heading"`
	Name        string `json:"name"`
	Country     string `json:"country"`
	Date        string `json:"date"`
	Emoji       string `json:"emoji"`
	Temperature string `json:"temperature"`
	Condition   string `json:"condition"`
	Humidity    string `json:"humidity"`
	WindSpeed   string `json:"windSpeed"`
	Pressure    string `json:"pressure"`
}

// BuildView maps a provider response to a View. It does not inspect the error field.
func BuildView(resp models.ProviderResponse) View {
	loc, cur := resp.Location, resp.Current
	return View{
		Heading:     loc.Name + ", " + loc.Country,
		Name:        loc.Name,
		Country:     loc.Country,
		Date:        FormatDate(loc.LocalTime),
		Emoji:       Emoji(cur.Condition.Text),
		Temperature: formatNumber(cur.TempC) + "°C",
		Condition:   cur.Condition.Text,
		Humidity:    strconv.Itoa(cur.Humidity) + "%",
		WindSpeed:   formatNumber(cur.WindKPH) + " kph",
		Pressure:    formatNumber(cur.PressureMB) + " mb",
	}
}

// formatNumber prints the shortest representation, so 20 renders as "20" and 20.5 as "20.5".
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// IsProviderError reports whether a response should take the not-found path:
// the provider set its error object or the status is a client error.
func IsProviderError(resp models.ProviderResponse, status int) bool {
	return resp.Failed() || (status >= http.StatusBadRequest && status < http.StatusInternalServerError)
}

// HistoryItem is one row of the recent-search list.
type HistoryItem struct {
	City string `json:"city"`
	Href string `json:"href"`
}

// HistoryView is the recent-search list. Empty holds the placeholder text when there are no items.
type HistoryView struct {
	Heading string        `json:"heading"`
	Items   []HistoryItem `json:"items"`
	Empty   string        `json:"empty,omitempty"`
}

// BuildHistoryView lists entries in order; each item links back to a fresh lookup.
func BuildHistoryView(entries []string) HistoryView {
	hv := HistoryView{Heading: HistoryHeading, Items: make([]HistoryItem, 0, len(entries))}
	if len(entries) == 0 {
		hv.Empty = MsgNoHistory
		return hv
	}
	for _, city := range entries {
		hv.Items = append(hv.Items, HistoryItem{
			City: city,
			Href: "/search?city=" + url.QueryEscape(city),
		})
	}
	return hv
}
