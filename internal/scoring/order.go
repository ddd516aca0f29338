package scoring

// Team identifies which side a player throws for.
type Team string

const (
	TeamOwn Team = "own"
	TeamOpp Team = "opp"
)

// Valid reports whether t is one of the two known teams.
func (t Team) Valid() bool {
	return t == TeamOwn || t == TeamOpp
}

// Label is the display name used on forms and reports.
func (t Team) Label() string {
	if t == TeamOpp {
		return "Opposing Team"
	}
	return "Own Team"
}

// ScoringOrder interleaves the two teams, starting with first. Once the
// shorter team runs out the remaining players of the other team follow in
// order.
func ScoringOrder[T any](own, opp []T, first Team) []T {
	lead, follow := own, opp
	if first == TeamOpp {
		lead, follow = opp, own
	}

	order := make([]T, 0, len(own)+len(opp))
	for i := 0; i < len(lead) || i < len(follow); i++ {
		if i < len(lead) {
			order = append(order, lead[i])
		}
		if i < len(follow) {
			order = append(order, follow[i])
		}
	}
	return order
}

// RoundProgress locates the next turn inside a round.
type RoundProgress struct {
	Cycle     int
	NextIndex int
	Complete  bool
}

// Progress derives the next turn from the number of scores already entered
// in the round. turns is the number of players in the scoring order.
func Progress(entered, turns, cyclesPerRound int) RoundProgress {
	if turns <= 0 {
		return RoundProgress{Cycle: 1}
	}
	if cyclesPerRound < 1 {
		cyclesPerRound = 1
	}
	p := RoundProgress{
		Cycle:     entered/turns + 1,
		NextIndex: entered % turns,
	}
	p.Complete = p.Cycle > cyclesPerRound
	return p
}
