package mcts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProportionRatioSmoothing(t *testing.T) {
	assert.Equal(t, 0.5, Proportion{}.Ratio())

	p := Proportion{Wins: 1, Total: 1}
	assert.InDelta(t, 2.0/3.0, p.Ratio(), 1e-9)

	p = Proportion{Wins: 0, Total: 1}
	assert.InDelta(t, 1.0/3.0, p.Ratio(), 1e-9)
}

func TestProportionComplement(t *testing.T) {
	p := Proportion{Wins: 3, Total: 10}
	c := p.Complement()
	assert.Equal(t, uint32(7), c.Wins)
	assert.Equal(t, uint32(10), c.Total)
}

func TestProportionAddAndRecord(t *testing.T) {
	p := Proportion{Wins: 1, Total: 2}
	p = p.Add(Proportion{Wins: 2, Total: 3})
	assert.Equal(t, Proportion{Wins: 3, Total: 5}, p)

	p = Proportion{}
	p = p.Record(true)
	p = p.Record(false)
	assert.Equal(t, Proportion{Wins: 1, Total: 2}, p)
}
