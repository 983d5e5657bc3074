package reveal

import "github.com/okian/draftreveal/internal/domain/model"

// View is the read-only projection rendered by the presentation layer.
type View struct {
	Cursor          int               `json:"cursor"`
	Phase           Phase             `json:"phase"`
	ActiveSlot      *model.DraftSlot  `json:"active_slot,omitempty"`
	Slots           []model.DraftSlot `json:"slots"` // playback order, highest position first
	CountdownValue  int               `json:"countdown_value,omitempty"`
	DramaticCaption string            `json:"dramatic_caption,omitempty"`
	Total           int               `json:"total"`
	Revealed        int               `json:"revealed"`
	Pass            int               `json:"pass"`
}
