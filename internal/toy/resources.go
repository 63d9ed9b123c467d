// ABOUTME: Resource display screen: one picture per page that makes its sound
// ABOUTME: File sounds pick a random alternative, synth sounds play a tone
package toy

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/arismusic/aris-go/internal/config"
	"github.com/arismusic/aris-go/internal/touch"
)

const (
	resourceBurstColor = "#fbbf24"
	resourceToneLength = 600 * time.Millisecond
	pageEdge           = 0.15
)

// ResourceDisplay pages through the configured resources
type ResourceDisplay struct {
	ctx       context.Context
	audio     Audio
	burst     Burster
	rng       *rand.Rand
	resources []config.Resource
	page      int
	processed map[int]bool
}

// NewResourceDisplay creates the screen over resources
func NewResourceDisplay(ctx context.Context, a Audio, b Burster, resources []config.Resource, rng *rand.Rand) *ResourceDisplay {
	return &ResourceDisplay{
		ctx:       ctx,
		audio:     a,
		burst:     b,
		rng:       orRandom(rng),
		resources: resources,
		processed: make(map[int]bool),
	}
}

func (r *ResourceDisplay) ID() ScreenID  { return ScreenResourceDisplay }
func (r *ResourceDisplay) Title() string { return "Resource Display" }

func (r *ResourceDisplay) Enter(now time.Time) {
	r.page = 0
	clear(r.processed)
}

func (r *ResourceDisplay) Exit()              { clear(r.processed) }
func (r *ResourceDisplay) Tick(now time.Time) {}

// Update reacts to pointers going down. The outer edges turn the page.
func (r *ResourceDisplay) Update(now time.Time, pointers []touch.Pointer) {
	live := make(map[int]bool, len(pointers))
	for _, p := range pointers {
		live[p.ID] = true
	}
	for id := range r.processed {
		if !live[id] {
			delete(r.processed, id)
		}
	}

	for _, p := range pointers {
		if r.processed[p.ID] {
			continue
		}
		r.processed[p.ID] = true

		switch {
		case p.X < pageEdge:
			r.Prev()
		case p.X > 1-pageEdge:
			r.Next()
		default:
			r.burst.Burst(p.X, p.Y, resourceBurstColor)
			r.play()
		}
	}
}

// Key turns pages with the arrow keys
func (r *ResourceDisplay) Key(now time.Time, key string) bool {
	switch key {
	case "left", "h":
		r.Prev()
	case "right", "l":
		r.Next()
	default:
		return false
	}
	return true
}

func (r *ResourceDisplay) play() {
	res, ok := r.Current()
	if !ok {
		return
	}
	switch res.Sound.Type {
	case config.SoundFile:
		if len(res.Sound.Src) == 0 {
			return
		}
		src := res.Sound.Src[r.rng.IntN(len(res.Sound.Src))]
		go r.audio.PlaySoundFile(r.ctx, src)
	case config.SoundSynth:
		r.audio.PlayTone(res.Sound.Freq, res.Sound.Wave, resourceToneLength)
	}
}

// Next moves to the following page, wrapping around
func (r *ResourceDisplay) Next() {
	if len(r.resources) > 0 {
		r.page = (r.page + 1) % len(r.resources)
	}
}

// Prev moves to the previous page, wrapping around
func (r *ResourceDisplay) Prev() {
	if n := len(r.resources); n > 0 {
		r.page = (r.page + n - 1) % n
	}
}

// Page returns the zero-based page index
func (r *ResourceDisplay) Page() int { return r.page }

// Current returns the resource on screen
func (r *ResourceDisplay) Current() (config.Resource, bool) {
	if len(r.resources) == 0 {
		return config.Resource{}, false
	}
	return r.resources[r.page], true
}

func (r *ResourceDisplay) View(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	res, ok := r.Current()
	if !ok {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, "Nothing to show")
	}

	icon := res.Emoji
	if icon == "" {
		icon = "◉"
	}
	card := lipgloss.NewStyle().
		Padding(1, 4).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(resourceBurstColor)).
		Align(lipgloss.Center).
		Render(fmt.Sprintf("%s\n\n%s", icon, res.Name))
	counter := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#64748b")).
		Render(fmt.Sprintf("‹  %d / %d  ›", r.page+1, len(r.resources)))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, card, "", counter))
}
