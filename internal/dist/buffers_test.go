package dist

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/paul-f-baumeister/metalbm-go/internal/domain"
)

func testHalo() domain.Halo {
	g := domain.NewGlobal(domain.Position{4, 4, 4}, 1)
	l := domain.NewLocal(g, 0)
	return domain.NewHalo(l, domain.Position{1, 1, 1}, domain.AoS, 9)
}

func TestSwapExchangesRoles(t *testing.T) {
	h := testHalo()
	buf := New(h)

	prev, next := buf.Previous(), buf.Next()
	prev[0] = 42
	next[0] = 7

	buf.Swap()
	assert.Equal(t, float64(7), buf.Previous()[0])
	assert.Equal(t, float64(42), buf.Next()[0])
}

func TestBuffersSizedToHaloVolumeTimesQ(t *testing.T) {
	h := testHalo()
	buf := New(h)
	assert.Len(t, buf.Previous(), h.Volume()*h.Q)
	assert.Len(t, buf.Next(), h.Volume()*h.Q)
}
