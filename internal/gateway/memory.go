package gateway

import "sync"

// MemoryGateway is an in-memory Gateway used by tests and available as a
// no-persistence fallback.
type MemoryGateway struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemoryGateway creates an empty MemoryGateway.
func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{data: make(map[string][]byte)}
}

// Load returns the stored value for key, if any.
func (g *MemoryGateway) Load(key string) ([]byte, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	v, ok := g.data[key]
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(v))
	copy(cp, v)
	return cp, true, nil
}

// Save stores value under key.
func (g *MemoryGateway) Save(key string, value []byte) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	cp := make([]byte, len(value))
	copy(cp, value)
	g.data[key] = cp
	return nil
}

// Put seeds a raw value, bypassing the core's serializers. Test helper.
func (g *MemoryGateway) Put(key string, value []byte) {
	_ = g.Save(key, value)
}
