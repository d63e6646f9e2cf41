package challenge

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate_Deterministic(t *testing.T) {
	seq := []int{2, 6}
	i := 0
	g := NewGeneratorWith(func(n int) int {
		assert.Equal(t, 10, n)
		v := seq[i%len(seq)]
		i++
		return v
	})

	c := g.Generate()
	assert.Equal(t, "3 + 7 = ?", c.Question)
	assert.Equal(t, 10, c.Answer)
}

func TestGenerate_Range(t *testing.T) {
	g := NewGenerator()
	for i := 0; i < 1000; i++ {
		c := g.Generate()
		var a, b int
		_, err := fmt.Sscanf(c.Question, "%d + %d = ?", &a, &b)
		assert.NoError(t, err)
		assert.GreaterOrEqual(t, a, 1)
		assert.LessOrEqual(t, a, 10)
		assert.GreaterOrEqual(t, b, 1)
		assert.LessOrEqual(t, b, 10)
		assert.Equal(t, a+b, c.Answer)
	}
}

func TestGenerate_Concurrent(t *testing.T) {
	g := NewGenerator()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c := g.Generate()
				if c.Answer < 2 || c.Answer > 20 {
					t.Errorf("answer out of range: %d", c.Answer)
				}
			}
		}()
	}
	wg.Wait()
}
