package models

// ProviderResponse is the decoded body of a current-conditions lookup.
// Exactly one of Error or Location/Current is populated by the provider.
type ProviderResponse struct {
	Location Location       `json:"location"`
	Current  Current        `json:"current"`
	Error    *ProviderError `json:"error,omitempty"`
}

type Location struct {
	Name      string `json:"name"`
	Country   string `json:"country"`
	LocalTime string `json:"localtime"` // "2024-12-16 11:30"
}

type Current struct {
	TempC      float64   `json:"temp_c"`
	Condition  Condition `json:"condition"`
	Humidity   int       `json:"humidity"`
	WindKPH    float64   `json:"wind_kph"`
	PressureMB float64   `json:"pressure_mb"`
}

type Condition struct {
	Text string `json:"text"`
}

// ProviderError is the provider's error object, e.g. code 1006 "No matching location found.".
type ProviderError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Failed reports whether the provider flagged the lookup as an error.
func (r ProviderResponse) Failed() bool {
	return r.Error != nil
}
