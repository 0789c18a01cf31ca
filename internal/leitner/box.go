package leitner

import "fmt"

const (
	// MinBox is where every new card starts.
	MinBox = 1
	// MaxBox is the last box a card can sit in; a success here graduates it.
	MaxBox = 5
	// GraduationBox is never stored. Reaching it removes the card.
	GraduationBox = MaxBox + 1
	// DemotionThreshold is the number of consecutive failures that drops a card one box.
	DemotionThreshold = 2
)

// intervals[b-1] is the review delay in days for box b.
var intervals = [MaxBox]int{1, 2, 4, 6, 10}

// Interval returns the review delay in days for box. It panics on a box
// outside [MinBox, MaxBox]; callers validate boxes read from the store.
func Interval(box int) int {
	if !ValidBox(box) {
		panic(fmt.Sprintf("leitner: no interval for box %d", box))
	}
	return intervals[box-1]
}

// ValidBox reports whether box can be stored.
func ValidBox(box int) bool {
	return box >= MinBox && box <= MaxBox
}

// StepKind classifies a box transition.
type StepKind int

const (
	Retained StepKind = iota
	Promoted
	Demoted
	Graduated
)

func (k StepKind) String() string {
	switch k {
	case Retained:
		return "retained"
	case Promoted:
		return "promoted"
	case Demoted:
		return "demoted"
	case Graduated:
		return "graduated"
	default:
		return "unknown"
	}
}

// Step is the result of applying one review outcome to a card's box state.
type Step struct {
	Box      int
	Attempts int
	Kind     StepKind
}

// ApplyReview computes the next box and attempt count.
//
// A success promotes and clears attempts. A failure demotes only when it is
// the second consecutive one and the card is above MinBox; otherwise the box
// holds and the failure is counted.
func ApplyReview(box, attempts int, success bool) Step {
	switch {
	case success:
		next := Step{Box: box + 1, Attempts: 0, Kind: Promoted}
		if next.Box >= GraduationBox {
			next.Kind = Graduated
		}
		return next
	case attempts+1 >= DemotionThreshold && box > MinBox:
		return Step{Box: box - 1, Attempts: 0, Kind: Demoted}
	default:
		return Step{Box: box, Attempts: attempts + 1, Kind: Retained}
	}
}
