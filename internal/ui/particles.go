// ABOUTME: Particle bursts drawn over the game screens
// ABOUTME: Implements the burst sink the screens report visual feedback to
package ui

import (
	"math"
	"math/rand/v2"
)

const (
	particleLife    = 1.5
	burstCount      = 20
	paletteCount    = 5
	maxParticles    = 400
	particleGravity = 0.6
	particleDrag    = 0.9
)

// HappyPalette is used for multicolour bursts
var HappyPalette = []string{"#22c55e", "#eab308", "#f59e0b", "#3b82f6", "#8b5cf6", "#ec4899", "#ffffff"}

type particle struct {
	x, y   float64
	vx, vy float64
	life   float64
	color  string
}

// Particles is a simple ballistic particle system in normalised space
type Particles struct {
	rng  *rand.Rand
	live []particle
}

// NewParticles creates an empty system. A nil rng seeds a private one.
func NewParticles(rng *rand.Rand) *Particles {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Particles{rng: rng}
}

func (p *Particles) spawn(x, y float64, color string, n int) {
	for i := 0; i < n; i++ {
		angle := p.rng.Float64() * 2 * math.Pi
		speed := 0.1 + p.rng.Float64()*0.25
		p.live = append(p.live, particle{
			x: x, y: y,
			vx:    math.Cos(angle) * speed,
			vy:    math.Sin(angle) * speed,
			life:  particleLife,
			color: color,
		})
	}
	if len(p.live) > maxParticles {
		p.live = p.live[len(p.live)-maxParticles:]
	}
}

// Burst spawns a single-colour burst
func (p *Particles) Burst(x, y float64, color string) {
	p.spawn(x, y, color, burstCount)
}

// BurstMulticolor spawns a few particles of every happy colour
func (p *Particles) BurstMulticolor(x, y float64) {
	for _, c := range HappyPalette {
		p.spawn(x, y, c, paletteCount)
	}
}

// Step advances the simulation by dt seconds and drops dead particles
func (p *Particles) Step(dt float64) {
	kept := p.live[:0]
	drag := math.Pow(particleDrag, dt)
	for _, q := range p.live {
		q.life -= dt
		if q.life <= 0 {
			continue
		}
		q.x += q.vx * dt
		q.y += q.vy * dt
		q.vx *= drag
		q.vy = q.vy*drag + particleGravity*dt
		if q.x < 0 || q.x > 1 || q.y > 1 {
			continue
		}
		kept = append(kept, q)
	}
	p.live = kept
}

// Len returns the number of live particles
func (p *Particles) Len() int {
	return len(p.live)
}

// glyph picks a character by remaining life
func (q particle) glyph() string {
	switch {
	case q.life > particleLife*2/3:
		return "●"
	case q.life > particleLife/3:
		return "•"
	default:
		return "·"
	}
}

// cells maps live particles to screen cells. Later particles win.
func (p *Particles) cells(width, height int) map[[2]int]particle {
	out := make(map[[2]int]particle, len(p.live))
	if width <= 0 || height <= 0 {
		return out
	}
	for _, q := range p.live {
		if q.y < 0 {
			continue
		}
		c := min(int(q.x*float64(width)), width-1)
		r := min(int(q.y*float64(height)), height-1)
		out[[2]int{r, c}] = q
	}
	return out
}
