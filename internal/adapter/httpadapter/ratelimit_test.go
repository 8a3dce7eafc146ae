package httpadapter

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func TestClientLimiter_EvictsIdleClients(t *testing.T) {
	clock := clockwork.NewFakeClock()
	l := newClientLimiter(1, 1, clock)

	assert.True(t, l.allow("a"))
	assert.True(t, l.allow("b"))
	assert.Equal(t, 2, l.size())

	clock.Advance(5 * time.Minute)
	assert.True(t, l.allow("b"))

	clock.Advance(6 * time.Minute)
	assert.True(t, l.allow("c"))
	assert.Equal(t, 2, l.size(), "a was idle past the TTL")
}

func TestClientKey(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "[2001:db8::1]:4430"
	assert.Equal(t, "2001:db8::1", clientKey(r))

	r.RemoteAddr = "unix"
	assert.Equal(t, "unix", clientKey(r))
}
