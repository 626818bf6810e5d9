package bus

import (
	"strconv"
	"sync/atomic"
	"testing"
	"time"
)

type nopObserver struct{}

func (nopObserver) OnPublish(string, Event)                              {}
func (nopObserver) OnDelivered(string, Event, int, error, time.Duration) {}

func countingHandler(c *int64) EventHandler {
	return func(Event) error {
		atomic.AddInt64(c, 1)
		return nil
	}
}

func BenchmarkPublishSubscribers(b *testing.B) {
	for _, subs := range []int{1, 4, 16, 64} {
		b.Run("subs="+strconv.Itoa(subs), func(b *testing.B) {
			bus := New()
			var c int64
			for range subs {
				_, _ = bus.Subscribe("world.snapshot", countingHandler(&c))
			}
			e := NewEvent("world.snapshot", "bench", 1, nil)

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = bus.Publish(e)
			}
		})
	}
}

func BenchmarkPublishObserved(b *testing.B) {
	bus := New()
	bus.AddObserver(nopObserver{})
	var c int64
	_, _ = bus.Subscribe("world.snapshot", countingHandler(&c))
	e := NewEvent("world.snapshot", "bench", 1, nil)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = bus.Publish(e)
	}
}
