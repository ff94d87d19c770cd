package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	dedupe "github.com/resicentral/resicentral/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	ctx := context.Background()

	Convey("Given a new InMemoryDeduper", t, func() {
		d := dedupe.NewInMemoryDeduper()

		Convey("Then it starts empty", func() {
			So(d.Size(), ShouldEqual, 0)
		})

		Convey("When a key is new", func() {
			seen := d.SeenAndRecord(ctx, "req-1")

			Convey("Then it is recorded", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When a key is repeated", func() {
			d.SeenAndRecord(ctx, "req-1")
			seen := d.SeenAndRecord(ctx, "req-1")

			Convey("Then it is reported as seen", func() {
				So(seen, ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When a key is unrecorded", func() {
			d.SeenAndRecord(ctx, "req-1")
			d.Unrecord(ctx, "req-1")
			d.Unrecord(ctx, "never-seen")

			Convey("Then it can be recorded again", func() {
				So(d.Size(), ShouldEqual, 0)
				So(d.SeenAndRecord(ctx, "req-1"), ShouldBeFalse)
			})
		})

		Convey("When the same key comes from two users", func() {
			first := d.SeenAndRecord(ctx, dedupe.Key("r1", "abc"))
			second := d.SeenAndRecord(ctx, dedupe.Key("r2", "abc"))

			Convey("Then they do not collide", func() {
				So(first, ShouldBeFalse)
				So(second, ShouldBeFalse)
			})
		})
	})

	Convey("Given a bounded deduper", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))

		Convey("When more keys than the bound are recorded", func() {
			for i := 1; i <= 4; i++ {
				d.SeenAndRecord(ctx, fmt.Sprintf("req-%d", i))
			}

			Convey("Then the oldest key is evicted", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "req-4"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "req-2"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "req-1"), ShouldBeFalse)
			})
		})
	})

	Convey("Given an unbounded deduper", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(-1))

		Convey("When many keys are recorded", func() {
			for i := 0; i < 20000; i++ {
				d.SeenAndRecord(ctx, fmt.Sprintf("req-%d", i))
			}

			Convey("Then none are evicted", func() {
				So(d.Size(), ShouldEqual, 20000)
				So(d.SeenAndRecord(ctx, "req-0"), ShouldBeTrue)
			})
		})
	})

	Convey("Given a deduper with a ttl", t, func() {
		now := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
		clock := func() time.Time { return now }
		d := dedupe.NewInMemoryDeduper(dedupe.WithTTL(time.Minute), dedupe.WithClock(clock))

		d.SeenAndRecord(ctx, "req-1")
		now = now.Add(30 * time.Second)
		d.SeenAndRecord(ctx, "req-2")

		Convey("When the ttl has not passed", func() {
			Convey("Then the key is still seen", func() {
				So(d.SeenAndRecord(ctx, "req-1"), ShouldBeTrue)
			})
		})

		Convey("When only the first key has expired", func() {
			now = now.Add(45 * time.Second)

			Convey("Then it is forgotten and the second is kept", func() {
				So(d.SeenAndRecord(ctx, "req-1"), ShouldBeFalse)
				So(d.SeenAndRecord(ctx, "req-2"), ShouldBeTrue)
				So(d.Size(), ShouldEqual, 2)
			})
		})
	})
}

func TestInMemoryDeduperConcurrency(t *testing.T) {
	Convey("Given a deduper with concurrent access", t, func() {
		ctx := context.Background()
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(-1))

		Convey("When goroutines race on the same keys", func() {
			var wg sync.WaitGroup
			var mu sync.Mutex
			firsts := 0
			for g := 0; g < 8; g++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for i := 0; i < 100; i++ {
						if !d.SeenAndRecord(ctx, fmt.Sprintf("req-%d", i)) {
							mu.Lock()
							firsts++
							mu.Unlock()
						}
					}
				}()
			}
			wg.Wait()

			Convey("Then each key is new exactly once", func() {
				So(firsts, ShouldEqual, 100)
				So(d.Size(), ShouldEqual, 100)
			})
		})
	})
}
