package relay

import (
	"fmt"
	"sync"
	"testing"

	"github.com/rifkyrahmat2006/scorerelay/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_ConnectJoinsScoreboard(t *testing.T) {
	r := NewRegistry()

	conn := r.Connect("client-1")

	assert.Equal(t, "client-1", conn.ID)
	assert.Equal(t, []domain.Group{domain.GroupScoreboard}, conn.Groups)
	assert.True(t, conn.InGroup(domain.GroupScoreboard))
	assert.Equal(t, 1, r.Count())
	assert.Equal(t, 1, r.GroupSize(domain.GroupScoreboard))
}

func TestRegistry_ConnectTwiceIsIdempotent(t *testing.T) {
	r := NewRegistry()

	r.Connect("client-1")
	r.Connect("client-1")

	assert.Equal(t, 1, r.Count())
	assert.Equal(t, []string{"client-1"}, r.Members(domain.GroupScoreboard))
}

func TestRegistry_ConnectDisconnectSequence(t *testing.T) {
	r := NewRegistry()

	r.Connect("a")
	r.Connect("b")
	r.Connect("c")
	require.Equal(t, 3, r.Count())

	r.Disconnect("b")

	assert.Equal(t, 2, r.Count())
	assert.Equal(t, []string{"a", "c"}, r.Members(domain.GroupScoreboard))
}

func TestRegistry_DuplicateDisconnectNeverNegative(t *testing.T) {
	r := NewRegistry()

	r.Connect("a")
	r.Disconnect("a")
	r.Disconnect("a")
	r.Disconnect("never-connected")

	assert.Equal(t, 0, r.Count())
	assert.Equal(t, 0, r.GroupSize(domain.GroupScoreboard))
}

func TestRegistry_DecrementFloorsAtZero(t *testing.T) {
	r := NewRegistry()

	assert.Equal(t, int64(0), r.decrement())
	assert.Equal(t, 0, r.Count())
}

func TestRegistry_UnknownGroupIsEmpty(t *testing.T) {
	r := NewRegistry()
	r.Connect("a")

	assert.Equal(t, 0, r.GroupSize(domain.Group("admin")))
	assert.Empty(t, r.Members(domain.Group("admin")))
}

func TestRegistry_ConnectionsAreIsolatedCopies(t *testing.T) {
	r := NewRegistry()

	conn := r.Connect("a")
	conn.Groups[0] = "tampered"

	assert.Equal(t, 1, r.GroupSize(domain.GroupScoreboard))
}

func TestRegistry_ConcurrentChurn(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			r.Connect(id)
			r.Disconnect(id)
			r.Disconnect(id)
		}(fmt.Sprintf("client-%d", i))
	}
	wg.Wait()

	assert.Equal(t, 0, r.Count())
	assert.Equal(t, 0, r.GroupSize(domain.GroupScoreboard))
}
