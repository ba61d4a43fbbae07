package render

import (
	"sync"

	"github.com/kjstillabower/weather-dashboard/internal/models"
)

// Display is the surface a lookup writes into: a message slot and a weather region.
type Display interface {
	// ShowMessage replaces the message slot. An empty string clears it.
	ShowMessage(text string)
	// ShowWeather replaces the weather region with a rendered result.
	ShowWeather(v View)
	// ClearWeather empties the weather region.
	ClearWeather()
	// ShowPlaceholder replaces the weather region with a hint.
	ShowPlaceholder(text string)
}

// Renderer writes provider responses into a Display.
type Renderer struct{}

// Render takes the error path (clear region, not-found message) when the provider
// reported a failure, otherwise clears the message slot and shows the view.
// Returns true when weather was rendered.
func (Renderer) Render(resp models.ProviderResponse, status int, d Display) bool {
	if IsProviderError(resp, status) {
		d.ClearWeather()
		d.ShowMessage(MsgNotFound)
		return false
	}
	d.ShowMessage("")
	d.ShowWeather(BuildView(resp))
	return true
}

// Page is an in-memory Display. The server renders one per request.
type Page struct {
	mu          sync.Mutex
	message     string
	weather     *View
	placeholder string
}

// NewPage returns a Page showing the initial placeholder.
func NewPage() *Page {
	return &Page{placeholder: MsgPlaceholder}
}

func (p *Page) ShowMessage(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.message = text
}

func (p *Page) ShowWeather(v View) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.weather = &v
	p.placeholder = ""
}

func (p *Page) ClearWeather() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.weather = nil
	p.placeholder = ""
}

func (p *Page) ShowPlaceholder(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.weather = nil
	p.placeholder = text
}

// Snapshot is the state of a Page at one point in time.
type Snapshot struct {
	Message     string
	Weather     *View
	Placeholder string
}

// Snapshot returns a copy of the page contents.
func (p *Page) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := Snapshot{Message: p.message, Placeholder: p.placeholder}
	if p.weather != nil {
		v := *p.weather
		s.Weather = &v
	}
	return s
}
