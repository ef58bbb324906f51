package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtClock(t *testing.T) {
	s := At(0, Clear)
	assert.True(t, s.IsNight())
	assert.Equal(t, Spring, s.Season)

	noon := At(TicksPerDay/2, Rain)
	assert.False(t, noon.IsNight())
	assert.InDelta(t, 0.5, noon.TimeOfDay, 1e-9)

	assert.Equal(t, Winter, At(3*TicksPerSeason+5, Clear).Season)
	assert.Equal(t, Spring, At(4*TicksPerSeason, Clear).Season)
}

func TestCycleDeterministic(t *testing.T) {
	a := NewCycle(7)
	b := NewCycle(7)
	for i := 0; i < 500; i++ {
		season := Season(i / 125)
		a.Roll(season)
		b.Roll(season)
		require.Equal(t, a.Current(), b.Current())
	}
}

func TestCycleNoSummerSnow(t *testing.T) {
	c := NewCycle(1)
	for i := 0; i < 2000; i++ {
		c.Roll(Summer)
		require.NotEqual(t, Snow, c.Current())
	}
}

func TestClientMapsConditions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Oslo,NO", r.URL.Query().Get("q"))
		w.Write([]byte(`{"main":{"temp":3.5},"weather":[{"main":"Snow","description":"light snow"}],"wind":{"speed":2}}`))
	}))
	defer srv.Close()

	client := NewClient("key", "Oslo,NO")
	client.baseURL = srv.URL

	c := NewCycle(1)
	c.UseClient(client)
	_, ok := client.Latest()
	assert.False(t, ok)

	cond, err := client.Fetch(context.Background())
	require.NoError(t, err)
	assert.True(t, cond.IsSnow)
	assert.Equal(t, Snow, KindFromConditions(cond))

	assert.True(t, c.Roll(Summer))
	assert.Equal(t, Snow, c.Current())
}

func TestClientErrorKeepsLatest(t *testing.T) {
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			http.Error(w, "quota exceeded", http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"main":{"temp":20},"weather":[{"main":"Clouds"}],"wind":{"speed":20}}`))
	}))
	defer srv.Close()

	client := NewClient("key", "")
	client.baseURL = srv.URL

	cond, err := client.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Storm, KindFromConditions(cond))

	fail.Store(true)
	_, err = client.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")

	latest, ok := client.Latest()
	require.True(t, ok)
	assert.True(t, latest.IsStorm)
}

func TestPollStopsWithContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"main":{"temp":10},"weather":[{"main":"Rain"}]}`))
	}))
	defer srv.Close()

	client := NewClient("key", "Porto,PT")
	client.baseURL = srv.URL

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		client.Poll(ctx, time.Hour)
		close(done)
	}()
	require.Eventually(t, func() bool {
		_, ok := client.Latest()
		return ok
	}, 5*time.Second, 10*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Poll did not stop")
	}

	cond, ok := client.Latest()
	require.True(t, ok)
	assert.True(t, cond.IsRain)
}

func TestNewClientWithoutKey(t *testing.T) {
	assert.Nil(t, NewClient("", ""))
	assert.Equal(t, Clear, KindFromConditions(nil))
}
