package carousel_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"review_carousel/internal/carousel"
	"review_carousel/internal/carousel/carouseltest"
	"review_carousel/internal/domain"
)

func reviews(n int) []domain.ReviewRecord {
	out := make([]domain.ReviewRecord, n)
	for i := range out {
		out[i] = domain.ReviewRecord{AuthorName: string(rune('A' + i))}
	}
	return out
}

func TestEmptyCarouselIgnoresNavigation(t *testing.T) {
	c := carousel.New(nil)
	require.Equal(t, carousel.StateEmpty, c.State())
	require.Equal(t, 0, c.Next())
	require.Equal(t, 0, c.Previous())
	_, ok := c.Current()
	require.False(t, ok)
}

func TestInitRewinds(t *testing.T) {
	c := carousel.New(reviews(3))
	c.Next()
	c.Next()
	c.Init(reviews(2))
	require.Equal(t, carousel.StateActive, c.State())
	require.Equal(t, 0, c.Index())
	require.Equal(t, 2, c.Len())
}

func TestWrapPolicy(t *testing.T) {
	c := carousel.New(reviews(3))
	require.Equal(t, 2, c.Previous())
	require.Equal(t, 0, c.Next())
	require.Equal(t, 1, c.Next())
	cur, ok := c.Current()
	require.True(t, ok)
	require.Equal(t, "B", cur.AuthorName)
}

func TestClampPolicy(t *testing.T) {
	c := carousel.New(reviews(3), carousel.WithPolicy(carousel.Clamp))
	require.Equal(t, 0, c.Previous())
	c.Next()
	c.Next()
	require.Equal(t, 2, c.Next())
	require.ErrorIs(t, c.StartAutoAdvance(time.Second), carousel.ErrClampAutoAdvance)
	require.False(t, c.AutoAdvancing())
}

func TestIndexStaysInRangeAndStepsInvert(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, policy := range []carousel.Policy{carousel.Wrap, carousel.Clamp} {
		for n := 1; n <= 7; n++ {
			c := carousel.New(reviews(n), carousel.WithPolicy(policy))
			for step := 0; step < 200; step++ {
				if rng.Intn(2) == 0 {
					c.Next()
				} else {
					c.Previous()
				}
				require.GreaterOrEqual(t, c.Index(), 0)
				require.Less(t, c.Index(), n)

				if policy == carousel.Wrap {
					before := c.Index()
					c.Next()
					c.Previous()
					require.Equal(t, before, c.Index())
					c.Previous()
					c.Next()
					require.Equal(t, before, c.Index())
				}
			}
		}
	}
}

func TestParsePolicy(t *testing.T) {
	p, err := carousel.ParsePolicy("Clamped")
	require.NoError(t, err)
	require.Equal(t, carousel.Clamp, p)
	p, err = carousel.ParsePolicy("")
	require.NoError(t, err)
	require.Equal(t, carousel.Wrap, p)
	_, err = carousel.ParsePolicy("bounce")
	require.Error(t, err)
}

func TestAutoAdvance_StartTwiceKeepsOneTimer(t *testing.T) {
	defer goleak.VerifyNone(t)

	clock := &carouseltest.Clock{}
	advanced := make(chan int, 8)
	c := carousel.New(reviews(4),
		carousel.WithTicker(clock.NewTicker),
		carousel.OnAdvance(func(i int) { advanced <- i }),
	)

	require.NoError(t, c.StartAutoAdvance(7*time.Second))
	require.NoError(t, c.StartAutoAdvance(5*time.Second))
	require.Equal(t, 2, clock.Created())
	require.Len(t, clock.Active(), 1)
	require.Equal(t, []time.Duration{7 * time.Second, 5 * time.Second}, clock.Periods())

	require.True(t, clock.Fire())
	require.Equal(t, 1, <-advanced)
	require.Equal(t, 1, c.Index())

	require.True(t, clock.Fire())
	require.Equal(t, 2, <-advanced)
	require.Len(t, advanced, 0)

	c.StopAutoAdvance()
	require.False(t, c.AutoAdvancing())
	require.Empty(t, clock.Active())
	c.StopAutoAdvance() // idle stop is a no-op
}

func TestAutoAdvance_WrapsAround(t *testing.T) {
	defer goleak.VerifyNone(t)

	clock := &carouseltest.Clock{}
	advanced := make(chan int, 8)
	c := carousel.New(reviews(2),
		carousel.WithTicker(clock.NewTicker),
		carousel.OnAdvance(func(i int) { advanced <- i }),
	)
	require.NoError(t, c.StartAutoAdvance(time.Second))
	defer c.StopAutoAdvance()

	require.True(t, clock.Fire())
	require.Equal(t, 1, <-advanced)
	require.True(t, clock.Fire())
	require.Equal(t, 0, <-advanced)
}

func TestManual_RestartsTimer(t *testing.T) {
	defer goleak.VerifyNone(t)

	clock := &carouseltest.Clock{}
	c := carousel.New(reviews(5), carousel.WithTicker(clock.NewTicker))
	require.NoError(t, c.StartAutoAdvance(time.Second))

	require.Equal(t, 1, c.Manual(carousel.Forward))
	require.Equal(t, 2, clock.Created(), "manual step restarts the period")
	require.Len(t, clock.Active(), 1)
	require.True(t, c.AutoAdvancing())

	require.Equal(t, 0, c.Manual(carousel.Backward))
	require.Equal(t, 4, c.Manual(carousel.Backward))

	c.StopAutoAdvance()
	require.Equal(t, 3, c.Manual(carousel.Backward))
	require.False(t, c.AutoAdvancing(), "manual step does not resurrect a stopped timer")
}

func TestAutoAdvance_EmptyCarouselDoesNotNotify(t *testing.T) {
	defer goleak.VerifyNone(t)

	clock := &carouseltest.Clock{}
	notified := make(chan int, 1)
	c := carousel.New(nil,
		carousel.WithTicker(clock.NewTicker),
		carousel.OnAdvance(func(i int) { notified <- i }),
	)
	require.NoError(t, c.StartAutoAdvance(time.Second))
	require.True(t, clock.Fire())
	c.StopAutoAdvance()
	require.Len(t, notified, 0)
}

func TestAutoAdvance_RealTicker(t *testing.T) {
	defer goleak.VerifyNone(t)

	advanced := make(chan int, 16)
	c := carousel.New(reviews(3), carousel.OnAdvance(func(i int) {
		select {
		case advanced <- i:
		default:
		}
	}))
	require.NoError(t, c.StartAutoAdvance(5*time.Millisecond))
	select {
	case i := <-advanced:
		require.Equal(t, 1, i)
	case <-time.After(2 * time.Second):
		t.Fatal("no automatic step observed")
	}
	c.StopAutoAdvance()
	require.Error(t, c.StartAutoAdvance(0))
}

func TestCurrentSlide(t *testing.T) {
	c := carousel.New(reviews(3))
	c.Previous()
	s, ok := c.CurrentSlide()
	require.True(t, ok)
	require.Equal(t, carousel.Slide{Review: domain.ReviewRecord{AuthorName: "C"}, Index: 2, Total: 3}, s)

	_, ok = carousel.New(nil).CurrentSlide()
	require.False(t, ok)
}
