package passage

import (
	"math/rand"
	"sync"
	"time"

	"github.com/verte-zerg/typemaster/internal/model"
)

// Picker selects passages uniformly at random without replacement. Each tier
// keeps its own pool of unused passages; once a pool is exhausted it is
// refilled. A tier with no passages draws from the whole pack.
type Picker struct {
	mu     sync.Mutex
	rnd    *rand.Rand
	pack   *Pack
	unused map[model.Difficulty][]string
}

// fallbackPool keys the whole-pack pool.
const fallbackPool model.Difficulty = ""

// NewPicker returns a Picker seeded with seed, or with the current time when
// seed is zero.
func NewPicker(pack *Pack, seed int64) *Picker {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Picker{
		rnd:    rand.New(rand.NewSource(seed)),
		pack:   pack,
		unused: map[model.Difficulty][]string{},
	}
}

// Next implements Source.
func (p *Picker) Next(d model.Difficulty) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pool := d
	candidates := p.pack.byTier[d]
	if len(candidates) == 0 {
		pool = fallbackPool
		candidates = p.pack.all
	}
	unused := p.unused[pool]
	if len(unused) == 0 {
		unused = append([]string(nil), candidates...)
	}
	idx := p.rnd.Intn(len(unused))
	text := unused[idx]
	unused[idx] = unused[len(unused)-1]
	p.unused[pool] = unused[:len(unused)-1]
	return text, nil
}
