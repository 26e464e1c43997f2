// Package sound resolves sound references for ringing entities. Actual
// playback happens in the browser; the server side only tracks which sound
// should play for which ringing instance.
package sound

import (
	"fmt"
	"log"
	"sort"
	"sync"
)

// Ref is a resolved sound reference.
type Ref struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	File string `json:"file"`
}

// Player starts and stops sound instances. instanceKey scopes one ringing
// entity so stacked rings can be silenced individually.
type Player interface {
	Play(ref Ref, instanceKey string)
	Stop(instanceKey string)
}

// Catalog maps sound ids to refs and supplies the fallback for unresolvable
// references (e.g. a deleted custom sound).
type Catalog struct {
	refs     map[string]Ref
	fallback string
}

// Builtin sound set shipped with the app.
var builtinRefs = []Ref{
	{ID: "classic-bell", Name: "Classic Bell", File: "sounds/classic-bell.mp3"},
	{ID: "digital-beep", Name: "Digital Beep", File: "sounds/digital-beep.mp3"},
	{ID: "soft-chime", Name: "Soft Chime", File: "sounds/soft-chime.mp3"},
	{ID: "rooster", Name: "Rooster", File: "sounds/rooster.mp3"},
}

// NewCatalog creates a catalog of the builtin sounds with the given fallback
// id. An unknown fallback id falls back to the first builtin sound.
func NewCatalog(fallbackID string) *Catalog {
	c := &Catalog{refs: make(map[string]Ref, len(builtinRefs))}
	for _, r := range builtinRefs {
		c.refs[r.ID] = r
	}
	if _, ok := c.refs[fallbackID]; !ok {
		log.Printf("unknown fallback sound %q, using %q", fallbackID, builtinRefs[0].ID)
		fallbackID = builtinRefs[0].ID
	}
	c.fallback = fallbackID
	return c
}

// Resolve looks up a sound id.
func (c *Catalog) Resolve(id string) (Ref, error) {
	if r, ok := c.refs[id]; ok {
		return r, nil
	}
	return Ref{}, fmt.Errorf("unknown sound %q", id)
}

// FallbackID returns the id substituted for unresolvable references.
func (c *Catalog) FallbackID() string { return c.fallback }

// Fallback returns the fallback ref.
func (c *Catalog) Fallback() Ref { return c.refs[c.fallback] }

// List returns all refs ordered by id, for the catalog endpoint.
func (c *Catalog) List() []Ref {
	out := make([]Ref, 0, len(c.refs))
	for _, r := range c.refs {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LogPlayer is the default Player: it records active instances and logs
// transitions. The browser collaborator performs the audible part.
type LogPlayer struct {
	mu     sync.Mutex
	active map[string]Ref
}

// NewLogPlayer creates an empty LogPlayer.
func NewLogPlayer() *LogPlayer {
	return &LogPlayer{active: make(map[string]Ref)}
}

// Play marks an instance as sounding.
func (p *LogPlayer) Play(ref Ref, instanceKey string) {
	p.mu.Lock()
	p.active[instanceKey] = ref
	p.mu.Unlock()
	log.Printf("sound: playing %s for %s", ref.ID, instanceKey)
}

// Stop silences an instance. Stopping an unknown instance is a no-op.
func (p *LogPlayer) Stop(instanceKey string) {
	p.mu.Lock()
	_, ok := p.active[instanceKey]
	delete(p.active, instanceKey)
	p.mu.Unlock()
	if ok {
		log.Printf("sound: stopped %s", instanceKey)
	}
}

// Active returns the number of sounding instances.
func (p *LogPlayer) Active() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.active)
}
