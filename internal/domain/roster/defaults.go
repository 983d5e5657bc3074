package roster

import (
	"fmt"

	"github.com/okian/draftreveal/internal/domain/model"
)

var testNames = []string{
	"Alex Johnson", "Morgan Smith", "Taylor Davis", "Jordan Wilson",
	"Casey Brown", "Riley Jones", "Avery Miller", "Quinn Garcia",
	"Blake Martinez", "Sage Anderson", "Drew Thompson", "Reese Williams",
}

var mottos = []string{
	"Victory at all costs!", "Champions never quit!", "Dominate or go home!",
	"Fear the fury!", "Legends in the making!", "Unstoppable force!",
	"Rise above all!", "Conquer everything!", "Never back down!",
	"Elite performance only!", "Maximum effort, maximum results!", "Championship or bust!",
}

var predictions = []string{
	"Going undefeated this season!", "Championship trophy incoming!",
	"Playoff domination guaranteed!", "Setting new league records!",
	"First place finish locked in!", "Fantasy football perfection!",
	"Winning it all this year!", "League champion destiny!",
	"Unstoppable season ahead!", "Trophy case getting fuller!",
	"Victory parade planning!", "Championship celebration ready!",
}

// Default returns the pre-filled roster for a league of the given size.
// Members beyond the named set get generic placeholders.
func Default(size int) ([]model.Participant, error) {
	if !SupportedSize(size) {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedLeagueSize, size)
	}
	out := make([]model.Participant, size)
	for i := range out {
		out[i] = model.Participant{
			ID:         fmt.Sprintf("member-%d", i+1),
			Name:       pick(testNames, i, fmt.Sprintf("Member %d", i+1)),
			Motto:      pick(mottos, i, "Ready to win!"),
			Prediction: pick(predictions, i, "This is our year!"),
		}
	}
	return out, nil
}

func pick(values []string, i int, fallback string) string {
	if i < len(values) {
		return values[i]
	}
	return fallback
}
