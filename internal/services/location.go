package services

import (
	"strings"
	"sync"

	"github.com/statusarea/presenced/internal/models"
)

// StaticLocation is a LocationProvider fed by explicit position updates.
// The device build replaces it with the positioning daemon client.
type StaticLocation struct {
	mu       sync.Mutex
	level    models.LocationLevel
	running  bool
	street   string
	district string
	city     string
	onChange func()
}

func NewStaticLocation() *StaticLocation {
	return &StaticLocation{level: models.LocationLevelNone}
}

// OnChange registers the callback fired when the phrase may have changed.
func (p *StaticLocation) OnChange(fn func()) {
	p.mu.Lock()
	p.onChange = fn
	p.mu.Unlock()
}

// SetPosition updates the known position and notifies if tracking is on.
func (p *StaticLocation) SetPosition(street, district, city string) {
	p.mu.Lock()
	p.street, p.district, p.city = street, district, city
	fn := p.onChange
	running := p.running
	p.mu.Unlock()
	if running && fn != nil {
		fn()
	}
}

// Phrase renders the position at the configured detail level. Empty while
// tracking is off.
func (p *StaticLocation) Phrase() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return ""
	}

	var parts []string
	switch p.level {
	case models.LocationLevelStreet:
		parts = []string{p.street, p.city}
	case models.LocationLevelDistrict:
		parts = []string{p.district, p.city}
	case models.LocationLevelCity:
		parts = []string{p.city}
	default:
		return ""
	}

	var filled []string
	for _, part := range parts {
		if part != "" {
			filled = append(filled, part)
		}
	}
	return strings.Join(filled, ", ")
}

func (p *StaticLocation) SetLevel(level models.LocationLevel) {
	p.mu.Lock()
	p.level = level
	p.mu.Unlock()
}

// Reset drops the known position; the next fix repopulates it.
func (p *StaticLocation) Reset() {
	p.mu.Lock()
	p.street, p.district, p.city = "", "", ""
	p.mu.Unlock()
}

func (p *StaticLocation) Start() {
	p.mu.Lock()
	p.running = true
	p.mu.Unlock()
}

func (p *StaticLocation) Stop() {
	p.mu.Lock()
	p.running = false
	p.mu.Unlock()
}
