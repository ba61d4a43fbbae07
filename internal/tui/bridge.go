package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kjstillabower/weather-dashboard/internal/render"
	"github.com/kjstillabower/weather-dashboard/internal/service"
)

// Fetcher runs tagged lookups. *service.Orchestrator implements it.
type Fetcher interface {
	NextSeq() uint64
	FetchSeq(ctx context.Context, seq uint64, city string, d render.Display) service.Outcome
}

// Bridge forwards messages produced outside the Bubble Tea loop into the running
// program. Messages sent before Attach are dropped.
type Bridge struct {
	mu   sync.RWMutex
	send func(tea.Msg)
}

// NewBridge returns an unattached Bridge.
func NewBridge() *Bridge {
	return &Bridge{}
}

// Attach sets the delivery function, normally (*tea.Program).Send.
func (b *Bridge) Attach(send func(tea.Msg)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.send = send
}

// Send delivers msg to the attached program.
func (b *Bridge) Send(msg tea.Msg) {
	b.mu.RLock()
	send := b.send
	b.mu.RUnlock()
	if send != nil {
		send(msg)
	}
}

// Display update messages. Each carries the sequence number of the lookup that produced it.
type (
	messageMsg struct {
		seq  uint64
		text string
	}
	weatherMsg struct {
		seq  uint64
		view render.View
	}
	clearWeatherMsg struct {
		seq uint64
	}
	placeholderMsg struct {
		seq  uint64
		text string
	}
	fetchDoneMsg struct {
		outcome service.Outcome
	}
)

// HistoryMsg carries the recent-search list after it changed.
type HistoryMsg struct {
	Entries []string
}

// display is the render.Display for one lookup; every call becomes a tagged message.
type display struct {
	seq    uint64
	bridge *Bridge
}

func (d display) ShowMessage(text string)     { d.bridge.Send(messageMsg{seq: d.seq, text: text}) }
func (d display) ShowWeather(v render.View)   { d.bridge.Send(weatherMsg{seq: d.seq, view: v}) }
func (d display) ClearWeather()               { d.bridge.Send(clearWeatherMsg{seq: d.seq}) }
func (d display) ShowPlaceholder(text string) { d.bridge.Send(placeholderMsg{seq: d.seq, text: text}) }
