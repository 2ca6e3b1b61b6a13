// Package archive packages an upload batch into the zip the backend trains on.
package archive

import (
	"encoding/binary"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	modelIDPrefix = "model-"
	suffixLen     = 9
)

// IDGenerator produces model identifiers of the form
// model-<unix ms>-<9 base36 chars>. Timestamps are strictly increasing per
// generator, so two ids from the same generator never share one.
type IDGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
	rand func() [16]byte
}

func NewIDGenerator() *IDGenerator {
	return &IDGenerator{
		now:  time.Now,
		rand: func() [16]byte { return uuid.New() },
	}
}

var defaultGenerator = NewIDGenerator()

// NewModelID uses the process-wide generator.
func NewModelID() string {
	return defaultGenerator.Next()
}

func (g *IDGenerator) Next() string {
	g.mu.Lock()
	ts := g.now().UnixMilli()
	if ts <= g.last {
		ts = g.last + 1
	}
	g.last = ts
	g.mu.Unlock()

	return modelIDPrefix + strconv.FormatInt(ts, 10) + "-" + g.suffix()
}

func (g *IDGenerator) suffix() string {
	b := g.rand()
	n := binary.BigEndian.Uint64(b[:8]) ^ binary.BigEndian.Uint64(b[8:])
	s := strconv.FormatUint(n, 36)
	if len(s) < suffixLen {
		s = strings.Repeat("0", suffixLen-len(s)) + s
	}
	return s[len(s)-suffixLen:]
}

// IsModelID reports whether id has the generated shape.
func IsModelID(id string) bool {
	rest, ok := strings.CutPrefix(id, modelIDPrefix)
	if !ok {
		return false
	}
	ts, suffix, ok := strings.Cut(rest, "-")
	if !ok || len(suffix) != suffixLen {
		return false
	}
	if _, err := strconv.ParseInt(ts, 10, 64); err != nil {
		return false
	}
	for _, r := range suffix {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'z') {
			return false
		}
	}
	return true
}
