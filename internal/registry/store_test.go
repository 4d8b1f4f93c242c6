package registry_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/navaid-service/internal/nasr/nasrtest"
	"github.com/couchcryptid/navaid-service/internal/registry"
)

func TestStore_StartsEmpty(t *testing.T) {
	s := registry.NewStore()
	require.NotNil(t, s.Current())
	assert.True(t, s.Current().IsEmpty())
}

func TestStore_ReplaceSwapsGeneration(t *testing.T) {
	s := registry.NewStore()
	first := s.Current()

	next := buildSample(t)
	prev := s.Replace(next)

	assert.Same(t, first, prev)
	assert.Same(t, next, s.Current())
}

func TestStore_ReadersSeeWholeGenerations(t *testing.T) {
	s := registry.NewStore()

	gens := make([]*registry.Registry, 0, 8)
	for i := 0; i < 8; i++ {
		fix := nasrtest.File(
			nasrtest.Fix("ONE", "WASHINGTON", "47-00-00.000N", "122-00-00.000W"),
			nasrtest.Fix("TWO", "WASHINGTON", "47-10-00.000N", "122-10-00.000W"),
		)
		r, err := registry.Build(registry.Sources{Fixes: strings.NewReader(fix)})
		require.NoError(t, err)
		gens = append(gens, r)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for _, g := range gens {
			s.Replace(g)
		}
	}()

	for i := 0; i < 1000; i++ {
		r := s.Current()
		_, one := r.LookupFix("ONE")
		_, two := r.LookupFix("TWO")
		assert.Equal(t, one, two, "a generation is either empty or complete")
	}
	wg.Wait()
}
