package service

import (
	"fmt"
	"sync"

	"github.com/joshdurbin/linkbio/internal/shortener"
)

// TestGenerator hands out scripted codes, then "test0001", "test0002", ...
type TestGenerator struct {
	mu      sync.Mutex
	scripts []string
	counter int
}

// NewTestGenerator creates a generator that returns codes in order before counting
func NewTestGenerator(codes ...string) *TestGenerator {
	return &TestGenerator{scripts: codes}
}

// GenerateShortCode returns the next scripted or counted code
func (g *TestGenerator) GenerateShortCode() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.scripts) > 0 {
		code := g.scripts[0]
		g.scripts = g.scripts[1:]
		return code
	}
	g.counter++
	return fmt.Sprintf("test%04d", g.counter)
}

// Length returns the length of counted codes
func (g *TestGenerator) Length() int {
	return 8
}

// Type returns the generator type
func (g *TestGenerator) Type() string {
	return "test"
}

var _ shortener.Generator = (*TestGenerator)(nil)
