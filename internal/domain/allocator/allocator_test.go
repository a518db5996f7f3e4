package allocator

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func at(d time.Duration) *time.Time {
	t := now.Add(d)
	return &t
}

func id(s string) uuid.UUID {
	return uuid.MustParse(s)
}

func TestFreeAt(t *testing.T) {
	assert.Equal(t, now, Candidate{}.FreeAt(now))
	assert.Equal(t, now, Candidate{LatestEnd: at(-time.Hour)}.FreeAt(now))
	assert.Equal(t, now.Add(30*time.Minute), Candidate{LatestEnd: at(30 * time.Minute)}.FreeAt(now))
}

func TestSelect_PrefersAvailableBarber(t *testing.T) {
	shop := uuid.New()
	busy := Candidate{BarberID: uuid.New(), ShopID: shop, LatestEnd: at(10 * time.Minute)}
	free := Candidate{BarberID: uuid.New(), ShopID: shop, Available: true, LatestEnd: at(3 * time.Hour)}

	got, ok := Select([]Candidate{busy, free}, now)

	require.True(t, ok)
	assert.Equal(t, free.BarberID, got.BarberID)
	assert.Equal(t, now, got.Start)
	assert.Equal(t, StrategyImmediate, got.Strategy)
}

func TestSelect_NearestAvailableShopWins(t *testing.T) {
	near := Candidate{BarberID: uuid.New(), ShopID: uuid.New(), DistanceKm: 0.4, Available: true}
	far := Candidate{BarberID: uuid.New(), ShopID: uuid.New(), DistanceKm: 2.1, Available: true}

	got, ok := Select([]Candidate{far, near}, now)

	require.True(t, ok)
	assert.Equal(t, near.ShopID, got.ShopID)
}

func TestSelect_FallsBackToEarliestFree(t *testing.T) {
	b1 := Candidate{BarberID: uuid.New(), ShopID: uuid.New(), LatestEnd: at(45 * time.Minute)}
	b2 := Candidate{BarberID: uuid.New(), ShopID: uuid.New(), DistanceKm: 3, LatestEnd: at(20 * time.Minute)}

	got, ok := Select([]Candidate{b1, b2}, now)

	require.True(t, ok)
	assert.Equal(t, b2.BarberID, got.BarberID)
	assert.Equal(t, now.Add(20*time.Minute), got.Start)
	assert.Equal(t, StrategyEarliestFree, got.Strategy)
}

func TestSelect_NoCandidates(t *testing.T) {
	_, ok := Select(nil, now)
	assert.False(t, ok)
}

func TestEarliestFree_TieBreak(t *testing.T) {
	shop := id("00000000-0000-0000-0000-000000000001")
	a := Candidate{BarberID: id("00000000-0000-0000-0000-00000000000a"), ShopID: shop, LatestEnd: at(time.Hour)}
	b := Candidate{BarberID: id("00000000-0000-0000-0000-00000000000b"), ShopID: shop, LatestEnd: at(time.Hour)}

	for _, in := range [][]Candidate{{a, b}, {b, a}} {
		got, ok := EarliestFree(in, now)
		require.True(t, ok)
		assert.Equal(t, a.BarberID, got.BarberID)
	}
}

func TestEarliestFree_BarberWithoutWorkStartsNow(t *testing.T) {
	idle := Candidate{BarberID: uuid.New(), ShopID: uuid.New(), DistanceKm: 4}
	queued := Candidate{BarberID: uuid.New(), ShopID: uuid.New(), LatestEnd: at(5 * time.Minute)}

	got, ok := EarliestFree([]Candidate{queued, idle}, now)

	require.True(t, ok)
	assert.Equal(t, idle.BarberID, got.BarberID)
	assert.Equal(t, now, got.Start)
}

func TestImmediate_KeepsSelectionOrder(t *testing.T) {
	shop := id("00000000-0000-0000-0000-000000000001")
	b2 := Candidate{BarberID: id("00000000-0000-0000-0000-000000000002"), ShopID: shop, Available: true}
	b1 := Candidate{BarberID: id("00000000-0000-0000-0000-000000000001"), ShopID: shop, Available: true}
	off := Candidate{BarberID: id("00000000-0000-0000-0000-000000000003"), ShopID: shop}

	got := Immediate([]Candidate{b2, off, b1})

	require.Len(t, got, 2)
	assert.Equal(t, b1.BarberID, got[0].BarberID)
	assert.Equal(t, b2.BarberID, got[1].BarberID)
}

func TestSelect_Property(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for round := 0; round < 200; round++ {
		cands := make([]Candidate, 1+rng.Intn(8))
		anyAvailable := false
		for i := range cands {
			c := Candidate{
				BarberID:   uuid.New(),
				ShopID:     uuid.New(),
				DistanceKm: rng.Float64() * 5,
				Available:  rng.Intn(3) == 0,
			}
			if rng.Intn(2) == 0 {
				c.LatestEnd = at(time.Duration(rng.Intn(240)-60) * time.Minute)
			}
			anyAvailable = anyAvailable || c.Available
			cands[i] = c
		}

		got, ok := Select(cands, now)
		require.True(t, ok)

		if anyAvailable {
			assert.True(t, got.Available)
			assert.Equal(t, now, got.Start)
			continue
		}

		for _, c := range cands {
			assert.False(t, c.FreeAt(now).Before(got.Start))
		}
		assert.False(t, got.Start.Before(now))
	}
}

func TestExpectedEnd(t *testing.T) {
	assert.Equal(t, now.Add(45*time.Minute), ExpectedEnd(now, 30, 15))
	assert.Equal(t, now.Add(30*time.Minute), ExpectedEnd(now, 30, 0))
}
