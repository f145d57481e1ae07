package store

import (
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/oklog/ulid/v2"
)

// IDGen hands out monotonic ULIDs stamped from its clock.
type IDGen struct {
	mu      sync.Mutex
	entropy io.Reader
	clock   quartz.Clock
}

func NewIDGen(clock quartz.Clock) *IDGen {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &IDGen{
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
		clock:   clock,
	}
}

func (g *IDGen) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(g.clock.Now()), g.entropy).String()
}

var defaultGen = NewIDGen(nil)

func NewID() string {
	return defaultGen.New()
}
