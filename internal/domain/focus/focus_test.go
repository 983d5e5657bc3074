package focus

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/draftreveal/internal/domain/schedule"
)

func TestCoordinator(t *testing.T) {
	Convey("Given a coordinator over a layout", t, func() {
		clock := schedule.NewManual(time.Unix(0, 0))
		var scrolls []float64
		layout := NewLayout(
			WithBoardTop(400), WithCardHeight(200), WithCardGap(20),
			WithScrollHook(func(y float64) { scrolls = append(scrolls, y) }),
		)
		c := New(layout, WithScheduler(clock))

		Convey("A mounted card is scrolled below the header after the mount delay", func() {
			layout.Mount(4)
			scrolls = nil
			c.FocusSlot(2)
			clock.Advance(149 * time.Millisecond)
			So(scrolls, ShouldBeEmpty)
			clock.Advance(time.Millisecond)
			// 400 + 2*(200+20) - 360
			So(scrolls, ShouldResemble, []float64{480})
			So(layout.ScrollY(), ShouldEqual, 480.0)

			Convey("Offsets are relative to the current scroll position", func() {
				c.FocusSlot(3)
				clock.Advance(time.Second)
				So(layout.ScrollY(), ShouldEqual, 700.0)
			})
		})

		Convey("The offset never goes negative", func() {
			layout.Mount(1)
			c.FocusSlot(0)
			clock.Advance(time.Second)
			So(layout.ScrollY(), ShouldEqual, 40.0)
			So(c.Offset(0, 100), ShouldEqual, 0.0)
		})

		Convey("A card that mounts late is found by the retry", func() {
			c.FocusSlot(1)
			clock.Advance(150 * time.Millisecond)
			So(layout.ScrollY(), ShouldEqual, 0.0)
			layout.Mount(2)
			scrolls = nil
			clock.Advance(300 * time.Millisecond)
			So(scrolls, ShouldResemble, []float64{260})
		})

		Convey("A card that never mounts is given up on silently", func() {
			scrolls = nil
			c.FocusSlot(5)
			clock.Advance(time.Minute)
			So(scrolls, ShouldBeEmpty)
			So(clock.Pending(), ShouldEqual, 0)
		})

		Convey("FocusTop scrolls immediately and drops pending work", func() {
			layout.Mount(4)
			c.FocusSlot(3)
			c.FocusTop()
			So(layout.ScrollY(), ShouldEqual, 0.0)
			clock.Advance(time.Second)
			So(layout.ScrollY(), ShouldEqual, 0.0)
		})

		Convey("Cancel drops pending work", func() {
			layout.Mount(4)
			scrolls = nil
			c.FocusSlot(3)
			c.Cancel()
			clock.Advance(time.Second)
			So(scrolls, ShouldBeEmpty)
		})

		Convey("A newer request replaces an older one", func() {
			layout.Mount(4)
			scrolls = nil
			c.FocusSlot(3)
			c.FocusSlot(1)
			clock.Advance(time.Second)
			So(scrolls, ShouldResemble, []float64{260})
		})
	})
}

func TestLayout(t *testing.T) {
	Convey("Given a layout", t, func() {
		l := NewLayout()

		Convey("Nothing is mounted initially", func() {
			_, ok := l.ElementTop(0)
			So(ok, ShouldBeFalse)
			So(l.Mounted(), ShouldEqual, 0)
		})

		Convey("Mounting exposes cards and resets scroll", func() {
			l.ScrollTo(500)
			l.Mount(3)
			So(l.ScrollY(), ShouldEqual, 0.0)
			top, ok := l.ElementTop(2)
			So(ok, ShouldBeTrue)
			So(top, ShouldEqual, float64(420+2*(180+24)))
			_, ok = l.ElementTop(3)
			So(ok, ShouldBeFalse)
		})

		Convey("Scrolling clamps at zero", func() {
			l.ScrollTo(-20)
			So(l.ScrollY(), ShouldEqual, 0.0)
		})
	})
}
