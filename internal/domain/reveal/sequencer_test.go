package reveal

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"sort"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/draftreveal/internal/domain/model"
	"github.com/okian/draftreveal/internal/domain/schedule"
)

// identity keeps entry order, so entry i gets position i+1.
type identity struct{ calls int }

func (s *identity) Shuffle(in []model.Participant) []model.Participant {
	s.calls++
	return append([]model.Participant(nil), in...)
}

// reversing alternates orders so a reset visibly reshuffles.
type reversing struct{ calls int }

func (s *reversing) Shuffle(in []model.Participant) []model.Participant {
	s.calls++
	out := append([]model.Participant(nil), in...)
	if s.calls%2 == 0 {
		slices.Reverse(out)
	}
	return out
}

type dropping struct{}

func (dropping) Shuffle(in []model.Participant) []model.Participant { return in[:len(in)-1] }

type recorder struct{ events []string }

func (r *recorder) OnCountdownTick(v int)           { r.events = append(r.events, fmt.Sprintf("tick:%d", v)) }
func (r *recorder) OnCardReveal()                   { r.events = append(r.events, "reveal") }
func (r *recorder) OnChampionCelebration()          { r.events = append(r.events, "champion") }
func (r *recorder) OnButtonActivate()               { r.events = append(r.events, "button") }
func (r *recorder) OnScreenShake(d time.Duration)   { r.events = append(r.events, "shake:"+d.String()) }
func (r *recorder) FocusSlot(i int)                 { r.events = append(r.events, fmt.Sprintf("focus:%d", i)) }
func (r *recorder) FocusTop()                       { r.events = append(r.events, "focus:top") }
func (r *recorder) Cancel()                         { r.events = append(r.events, "focus:cancel") }
func (r *recorder) reset()                          { r.events = nil }
func (r *recorder) has(e string) bool               { return slices.Contains(r.events, e) }
func (r *recorder) count(prefix string) (n int) {
	for _, e := range r.events {
		if len(e) >= len(prefix) && e[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

// leaky ignores cancellation so stale callbacks still fire.
type leaky struct{ *schedule.Manual }

type noCancel struct{}

func (noCancel) Cancel() bool { return false }

func (l leaky) Schedule(d time.Duration, fn func()) schedule.Handle {
	l.Manual.Schedule(d, fn)
	return noCancel{}
}

var abcd = []model.Participant{
	{ID: "a", Name: "A"}, {ID: "b", Name: "B"}, {ID: "c", Name: "C"}, {ID: "d", Name: "D"},
}

type rig struct {
	seq   *Sequencer
	clock *schedule.Manual
	fx    *recorder
	views []View
}

func newRig(participants []model.Participant, opts ...Option) *rig {
	r := &rig{clock: schedule.NewManual(time.Unix(0, 0)), fx: &recorder{}}
	base := []Option{
		WithShuffler(&identity{}),
		WithScheduler(r.clock),
		WithEffects(r.fx),
		WithFocuser(r.fx),
		WithObserver(ObserverFunc(func(v View) { r.views = append(r.views, v) })),
	}
	seq, err := New(participants, append(base, opts...)...)
	if err != nil {
		panic(err)
	}
	r.seq = seq
	return r
}

func (r *rig) activePosition() int {
	v := r.seq.View()
	if v.ActiveSlot == nil {
		return 0
	}
	return v.ActiveSlot.Position
}

// play runs the whole pass, letting every countdown and celebration finish.
func (r *rig) play() {
	r.seq.Start()
	for r.seq.View().Phase != PhaseComplete {
		if r.seq.Reveal() {
			r.clock.Advance(10 * time.Second)
		}
		r.seq.Advance()
	}
}

func TestNew(t *testing.T) {
	Convey("Given session generation", t, func() {
		Convey("An empty roster is rejected", func() {
			_, err := New(nil)
			So(errors.Is(err, ErrEmptyRoster), ShouldBeTrue)
		})

		Convey("Duplicate ids are rejected", func() {
			_, err := New([]model.Participant{{ID: "a"}, {ID: "a"}})
			So(errors.Is(err, ErrDuplicateParticipant), ShouldBeTrue)
		})

		Convey("A new session is idle with every slot hidden", func() {
			r := newRig(abcd)
			v := r.seq.View()
			So(v.Phase, ShouldEqual, PhaseIdle)
			So(v.Cursor, ShouldEqual, -1)
			So(v.ActiveSlot, ShouldBeNil)
			So(v.Total, ShouldEqual, 4)
			So(v.Revealed, ShouldEqual, 0)
			So(v.Pass, ShouldEqual, 1)
			So([]int{v.Slots[0].Position, v.Slots[1].Position, v.Slots[2].Position, v.Slots[3].Position},
				ShouldResemble, []int{4, 3, 2, 1})
		})

		Convey("The roster is copied", func() {
			in := append([]model.Participant(nil), abcd...)
			r := newRig(in)
			in[0].Name = "changed"
			So(r.seq.Participants()[0].Name, ShouldEqual, "A")
		})

		Convey("A shuffler that loses participants is replaced by the default randomizer", func() {
			seq, err := New(abcd, WithShuffler(dropping{}), WithScheduler(schedule.NewManual(time.Unix(0, 0))))
			So(err, ShouldBeNil)
			So(seq.View().Total, ShouldEqual, 4)
		})

		Convey("The default randomizer yields a valid permutation", func() {
			seq, err := New(abcd)
			So(err, ShouldBeNil)
			defer seq.Close()
			var positions []int
			for _, s := range seq.View().Slots {
				positions = append(positions, s.Position)
			}
			sort.Ints(positions)
			So(positions, ShouldResemble, []int{1, 2, 3, 4})
		})
	})
}

func TestFourParticipantPass(t *testing.T) {
	Convey("Given four participants A, B, C, D", t, func() {
		r := newRig(abcd)

		Convey("Start activates position 4 and focuses it", func() {
			So(r.seq.Start(), ShouldBeTrue)
			So(r.activePosition(), ShouldEqual, 4)
			So(r.seq.View().Phase, ShouldEqual, PhaseAwaitingReveal)
			So(r.fx.events, ShouldResemble, []string{"focus:0"})

			Convey("Starting twice is ignored", func() {
				So(r.seq.Start(), ShouldBeFalse)
			})

			Convey("Advance before reveal is ignored", func() {
				So(r.seq.Advance(), ShouldBeFalse)
				So(r.seq.View().Cursor, ShouldEqual, 0)
			})

			Convey("Reveal on position 4 flips immediately", func() {
				r.fx.reset()
				So(r.seq.Reveal(), ShouldBeTrue)
				v := r.seq.View()
				So(v.ActiveSlot.Revealed, ShouldBeTrue)
				So(v.Phase, ShouldEqual, PhaseAwaitingReveal)
				So(v.CountdownValue, ShouldEqual, 0)
				So(r.fx.events, ShouldResemble, []string{"shake:600ms", "reveal"})
				So(r.seq.PendingTimers(), ShouldEqual, 0)

				Convey("A second reveal is a no-op", func() {
					So(r.seq.Reveal(), ShouldBeFalse)
					So(r.seq.View().Revealed, ShouldEqual, 1)
					So(r.fx.count("reveal"), ShouldEqual, 1)
				})

				Convey("Advance moves to position 3", func() {
					So(r.seq.Advance(), ShouldBeTrue)
					So(r.seq.View().Cursor, ShouldEqual, 1)
					So(r.activePosition(), ShouldEqual, 3)
					So(r.fx.has("focus:1"), ShouldBeTrue)
				})
			})
		})
	})
}

func TestCountdown(t *testing.T) {
	Convey("Given the session sits on position 3", t, func() {
		r := newRig(abcd)
		r.seq.Start()
		r.seq.Reveal()
		r.seq.Advance()
		So(r.activePosition(), ShouldEqual, 3)
		r.fx.reset()

		Convey("Reveal enters the countdown and focuses the top", func() {
			So(r.seq.Reveal(), ShouldBeTrue)
			v := r.seq.View()
			So(v.Phase, ShouldEqual, PhaseCountdown)
			So(v.ActiveSlot.Revealed, ShouldBeFalse)
			So(r.fx.events, ShouldResemble, []string{"focus:top"})

			Convey("Nothing happens before the settle delay", func() {
				r.clock.Advance(299 * time.Millisecond)
				So(r.fx.count("tick"), ShouldEqual, 0)
				So(r.seq.View().DramaticCaption, ShouldEqual, "")
			})

			Convey("Ticks run 3, 2, 1 at one second spacing, then the card flips", func() {
				r.clock.Advance(300 * time.Millisecond)
				v := r.seq.View()
				So(v.CountdownValue, ShouldEqual, 3)
				So(v.DramaticCaption, ShouldEqual, "THIRD OVERALL PICK")

				r.clock.Advance(999 * time.Millisecond)
				So(r.seq.View().CountdownValue, ShouldEqual, 3)
				r.clock.Advance(time.Millisecond)
				So(r.seq.View().CountdownValue, ShouldEqual, 2)

				r.clock.Advance(time.Second)
				So(r.seq.View().CountdownValue, ShouldEqual, 1)
				So(r.seq.View().ActiveSlot.Revealed, ShouldBeFalse)

				r.clock.Advance(time.Second)
				v = r.seq.View()
				So(v.ActiveSlot.Revealed, ShouldBeTrue)
				So(v.Phase, ShouldEqual, PhaseAwaitingReveal)
				So(v.CountdownValue, ShouldEqual, 0)
				So(v.DramaticCaption, ShouldEqual, "")
				So(r.fx.events, ShouldResemble, []string{
					"focus:top", "tick:3", "tick:2", "tick:1", "shake:600ms", "reveal",
				})

				Convey("The revealed card is refocused a second later", func() {
					r.clock.Advance(time.Second)
					So(r.fx.events[len(r.fx.events)-1], ShouldEqual, "focus:1")
					So(r.seq.PendingTimers(), ShouldEqual, 0)
				})
			})

			Convey("User input is ignored during the countdown", func() {
				r.clock.Advance(1500 * time.Millisecond)
				So(r.seq.Reveal(), ShouldBeFalse)
				So(r.seq.Advance(), ShouldBeFalse)
				So(r.seq.PrimaryAction(), ShouldBeFalse)
				So(r.seq.ResetInput(), ShouldBeFalse)
				So(r.seq.HandleKey("r"), ShouldBeFalse)
				So(r.seq.HandleKey(" "), ShouldBeFalse)
				So(r.fx.has("button"), ShouldBeFalse)
				So(r.seq.View().Phase, ShouldEqual, PhaseCountdown)
			})

			Convey("Reset cancels the countdown", func() {
				r.clock.Advance(1500 * time.Millisecond)
				So(r.seq.Reset(), ShouldBeTrue)
				So(r.seq.PendingTimers(), ShouldEqual, 0)
				ticks := r.fx.count("tick")

				r.clock.Advance(time.Minute)
				v := r.seq.View()
				So(r.fx.count("tick"), ShouldEqual, ticks)
				So(v.Phase, ShouldEqual, PhaseIdle)
				So(v.Cursor, ShouldEqual, -1)
				So(v.Revealed, ShouldEqual, 0)
				So(v.CountdownValue, ShouldEqual, 0)
				So(v.DramaticCaption, ShouldEqual, "")
				So(r.fx.has("focus:cancel"), ShouldBeTrue)
			})
		})
	})
}

func TestChampion(t *testing.T) {
	Convey("Given the session reaches position 1", t, func() {
		r := newRig(abcd)
		r.seq.Start()
		for r.activePosition() != 1 {
			if r.seq.Reveal() {
				r.clock.Advance(10 * time.Second)
			}
			r.seq.Advance()
		}
		So(r.seq.View().Cursor, ShouldEqual, 3)
		r.fx.reset()

		Convey("Reveal counts down, flips, then celebrates", func() {
			So(r.seq.Reveal(), ShouldBeTrue)
			So(r.seq.View().Phase, ShouldEqual, PhaseCountdown)
			r.clock.Advance(300 * time.Millisecond)
			So(r.seq.View().DramaticCaption, ShouldEqual, "FIRST OVERALL PICK")
			r.clock.Advance(3 * time.Second)

			v := r.seq.View()
			So(v.Phase, ShouldEqual, PhaseCelebrating)
			So(v.ActiveSlot.Revealed, ShouldBeTrue)
			So(r.fx.events, ShouldResemble, []string{
				"focus:top", "tick:3", "tick:2", "tick:1", "shake:600ms", "reveal", "champion",
			})

			Convey("Advance is ignored while celebrating", func() {
				So(r.seq.Advance(), ShouldBeFalse)
				So(r.seq.PrimaryAction(), ShouldBeFalse)
			})

			Convey("The celebration ends after its duration", func() {
				r.clock.Advance(2999 * time.Millisecond)
				So(r.seq.View().Phase, ShouldEqual, PhaseCelebrating)
				r.clock.Advance(time.Millisecond)
				So(r.seq.View().Phase, ShouldEqual, PhaseAwaitingReveal)

				Convey("Advance on the last slot completes without moving the cursor", func() {
					So(r.seq.Advance(), ShouldBeTrue)
					v := r.seq.View()
					So(v.Phase, ShouldEqual, PhaseComplete)
					So(v.Cursor, ShouldEqual, 3)
					So(v.Revealed, ShouldEqual, 4)
				})
			})

			Convey("Reset input is accepted while celebrating", func() {
				So(r.seq.ResetInput(), ShouldBeTrue)
				So(r.seq.View().Phase, ShouldEqual, PhaseIdle)
				r.clock.Advance(time.Minute)
				So(r.seq.View().Phase, ShouldEqual, PhaseIdle)
			})
		})
	})
}

func TestCompletion(t *testing.T) {
	Convey("Given a full pass", t, func() {
		r := newRig(abcd)

		Convey("Results are unavailable before completion", func() {
			_, err := r.seq.FinalOrder()
			So(errors.Is(err, ErrNotComplete), ShouldBeTrue)
		})

		r.play()

		Convey("Every slot is revealed and the phase is complete", func() {
			v := r.seq.View()
			So(v.Phase, ShouldEqual, PhaseComplete)
			for _, s := range v.Slots {
				So(s.Revealed, ShouldBeTrue)
			}
		})

		Convey("FinalOrder is ascending by position", func() {
			final, err := r.seq.FinalOrder()
			So(err, ShouldBeNil)
			var ids []string
			for _, s := range final {
				ids = append(ids, s.Participant.ID)
			}
			So(ids, ShouldResemble, []string{"a", "b", "c", "d"})
		})

		Convey("Only reset leaves the complete phase", func() {
			So(r.seq.Start(), ShouldBeFalse)
			So(r.seq.Reveal(), ShouldBeFalse)
			So(r.seq.Advance(), ShouldBeFalse)
			So(r.seq.PrimaryAction(), ShouldBeFalse)
			So(r.seq.Reset(), ShouldBeTrue)
			So(r.seq.View().Phase, ShouldEqual, PhaseIdle)
		})

		Convey("Each dramatic position got exactly three ticks", func() {
			So(r.fx.count("tick"), ShouldEqual, 9)
			So(r.fx.count("champion"), ShouldEqual, 1)
			So(r.fx.count("reveal"), ShouldEqual, 4)
		})
	})
}

func TestReset(t *testing.T) {
	Convey("Given a session part way through", t, func() {
		shuf := &reversing{}
		r := newRig(abcd, WithShuffler(shuf))
		r.seq.Start()
		r.seq.Reveal()
		r.seq.Advance()
		before := r.seq.View()

		Convey("Reset reshuffles the same participants and hides every card", func() {
			So(r.seq.Reset(), ShouldBeTrue)
			v := r.seq.View()
			So(shuf.calls, ShouldEqual, 2)
			So(v.Cursor, ShouldEqual, -1)
			So(v.Phase, ShouldEqual, PhaseIdle)
			So(v.Pass, ShouldEqual, before.Pass+1)
			var ids, positions []string
			for _, s := range v.Slots {
				So(s.Revealed, ShouldBeFalse)
				ids = append(ids, s.Participant.ID)
				positions = append(positions, fmt.Sprint(s.Position))
			}
			sort.Strings(ids)
			So(ids, ShouldResemble, []string{"a", "b", "c", "d"})
			So(positions, ShouldResemble, []string{"4", "3", "2", "1"})
			So(v.Slots[0].Participant.ID, ShouldNotEqual, before.Slots[0].Participant.ID)
		})
	})

	Convey("Given a scheduler whose cancellation does nothing", t, func() {
		clock := schedule.NewManual(time.Unix(0, 0))
		fx := &recorder{}
		seq, err := New(abcd,
			WithShuffler(&identity{}), WithScheduler(leaky{clock}), WithEffects(fx), WithFocuser(fx))
		So(err, ShouldBeNil)
		seq.Start()
		for seq.View().ActiveSlot.Position != 1 {
			if seq.Reveal() {
				clock.Advance(10 * time.Second)
			}
			seq.Advance()
		}
		seq.Reveal()
		clock.Advance(1500 * time.Millisecond)

		Convey("Stale callbacks from before the reset are dropped", func() {
			seq.Reset()
			seq.Start()
			ticks := fx.count("tick")
			clock.Advance(time.Minute)
			v := seq.View()
			So(fx.count("tick"), ShouldEqual, ticks)
			So(fx.has("champion"), ShouldBeFalse)
			So(v.Phase, ShouldEqual, PhaseAwaitingReveal)
			So(v.Revealed, ShouldEqual, 0)
		})
	})
}

func TestInputs(t *testing.T) {
	Convey("Given the keyboard surface", t, func() {
		r := newRig(abcd)

		Convey("Keys are ignored before start except s", func() {
			So(r.seq.HandleKey(" "), ShouldBeFalse)
			So(r.seq.HandleKey("n"), ShouldBeFalse)
			So(r.seq.HandleKey("x"), ShouldBeFalse)
			So(r.fx.events, ShouldBeEmpty)
			So(r.seq.HandleKey("S"), ShouldBeTrue)
			So(r.fx.events, ShouldResemble, []string{"button", "focus:0"})
		})

		Convey("Primary reveals then advances", func() {
			r.seq.Start()
			r.fx.reset()
			So(r.seq.HandleKey("Enter"), ShouldBeTrue)
			So(r.fx.events, ShouldResemble, []string{"button", "shake:600ms", "reveal"})
			So(r.seq.HandleKey(" "), ShouldBeTrue)
			So(r.seq.View().Cursor, ShouldEqual, 1)
		})

		Convey("n only advances a revealed card", func() {
			r.seq.Start()
			So(r.seq.HandleKey("n"), ShouldBeFalse)
			r.seq.Reveal()
			So(r.seq.HandleKey("N"), ShouldBeTrue)
			So(r.seq.View().Cursor, ShouldEqual, 1)
		})

		Convey("r resets outside a countdown", func() {
			r.seq.Start()
			r.seq.Reveal()
			So(r.seq.HandleKey("r"), ShouldBeTrue)
			So(r.seq.View().Phase, ShouldEqual, PhaseIdle)
		})

		Convey("Press with an unknown input is ignored", func() {
			So(r.seq.Press(Input("jump")), ShouldBeFalse)
		})
	})
}

func TestObserversAndClose(t *testing.T) {
	Convey("Given an observed session", t, func() {
		r := newRig(abcd)

		Convey("Every applied transition emits a view, ignored ones do not", func() {
			r.seq.Advance()
			So(r.views, ShouldBeEmpty)
			r.seq.Start()
			r.seq.Reveal()
			So(len(r.views), ShouldEqual, 2)
			So(r.views[0].Phase, ShouldEqual, PhaseAwaitingReveal)
			So(r.views[1].Revealed, ShouldEqual, 1)
		})

		Convey("Close cancels playback and freezes the session", func() {
			r.seq.Start()
			r.seq.Reveal()
			r.seq.Advance()
			r.seq.Reveal()
			So(r.seq.PendingTimers(), ShouldBeGreaterThan, 0)
			r.seq.Close()
			r.seq.Close()
			So(r.seq.PendingTimers(), ShouldEqual, 0)
			r.clock.Advance(time.Minute)
			So(r.seq.View().Phase, ShouldEqual, PhaseCountdown)
			So(r.seq.Reset(), ShouldBeFalse)
			So(r.seq.Start(), ShouldBeFalse)
		})
	})
}

func TestMonotonicCursor(t *testing.T) {
	Convey("Random input sequences never move the cursor backwards within a pass", t, func() {
		inputs := []Input{InputStart, InputPrimary, InputAdvance, InputReset}
		for seed := uint64(1); seed <= 20; seed++ {
			rng := rand.New(rand.NewPCG(seed, seed*7))
			r := newRig(abcd, WithShuffler(&reversing{}))
			for range 200 {
				switch rng.IntN(5) {
				case 0:
					r.seq.Reveal()
				default:
					in := inputs[rng.IntN(len(inputs))]
					if in == InputReset && rng.IntN(4) != 0 {
						in = InputPrimary
					}
					r.seq.Press(in)
				}
				r.clock.Advance(time.Duration(rng.IntN(2500)) * time.Millisecond)
			}

			prev := map[int]int{}
			for _, v := range r.views {
				last, seen := prev[v.Pass]
				if seen {
					So(v.Cursor, ShouldBeGreaterThanOrEqualTo, last)
				}
				prev[v.Pass] = v.Cursor
				So(v.Revealed, ShouldBeLessThanOrEqualTo, v.Cursor+1)
				if v.Phase == PhaseComplete {
					So(v.Revealed, ShouldEqual, v.Total)
				}
			}
		}
	})
}
