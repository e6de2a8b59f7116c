package inmemory

import (
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryJoinLeave(t *testing.T) {
	r := NewRegistry(slog.Default())

	r.Join("s1", "p1")
	r.Join("s2", "p1")
	r.Join("s1", "p2")

	assert.ElementsMatch(t, []string{"s1", "s2"}, r.MembersOf("p1"))
	assert.ElementsMatch(t, []string{"s1"}, r.MembersOf("p2"))

	// joining the same room twice changes nothing
	r.Join("s1", "p1")
	assert.Len(t, r.MembersOf("p1"), 2)

	r.Leave("s1", "p1")
	assert.ElementsMatch(t, []string{"s2"}, r.MembersOf("p1"))

	// leaving a room never joined is a no-op
	r.Leave("s1", "never-joined")
	assert.ElementsMatch(t, []string{"s1"}, r.MembersOf("p2"))
}

func TestRegistryLeaveAll(t *testing.T) {
	r := NewRegistry(slog.Default())

	r.Join("s1", "p1")
	r.Join("s1", "p2")
	r.Join("s2", "p1")

	left := r.LeaveAll("s1")
	assert.ElementsMatch(t, []string{"p1", "p2"}, left)
	assert.ElementsMatch(t, []string{"s2"}, r.MembersOf("p1"))
	assert.Empty(t, r.MembersOf("p2"))

	assert.Empty(t, r.LeaveAll("s1"))
	assert.Empty(t, r.LeaveAll("unknown"))
}

func TestRegistryMembersOfUnknownProject(t *testing.T) {
	r := NewRegistry(slog.Default())

	assert.Empty(t, r.MembersOf("nobody-home"))
}

func TestRegistryConcurrentChurn(t *testing.T) {
	r := NewRegistry(slog.Default())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			sessionID := string(rune('a' + n%26))
			r.Join(sessionID, "p1")
			r.MembersOf("p1")
			r.Leave(sessionID, "p1")
		}(i)
	}
	wg.Wait()

	assert.Empty(t, r.MembersOf("p1"))
}
