package model_test

import (
	"testing"

	model "github.com/okian/draftreveal/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestDraftSlot(t *testing.T) {
	convey.Convey("Given draft slots", t, func() {
		p := model.Participant{ID: "member-0", Name: "Lisa Chen"}

		convey.Convey("Position 1 is the champion and dramatic", func() {
			s := model.DraftSlot{Participant: p, Position: 1}
			convey.So(s.Champion(), convey.ShouldBeTrue)
			convey.So(s.Dramatic(3), convey.ShouldBeTrue)
		})

		convey.Convey("Position 3 is dramatic but not the champion", func() {
			s := model.DraftSlot{Participant: p, Position: 3}
			convey.So(s.Champion(), convey.ShouldBeFalse)
			convey.So(s.Dramatic(3), convey.ShouldBeTrue)
		})

		convey.Convey("Position 4 is revealed immediately", func() {
			s := model.DraftSlot{Participant: p, Position: 4}
			convey.So(s.Dramatic(3), convey.ShouldBeFalse)
			convey.So(s.Revealed, convey.ShouldBeFalse)
		})
	})
}
