package leaderboard

import (
	"sort"

	"github.com/gavel-oj/gavel/internal/database/models"
)

// buildRow combines one member's cells into a row. Cells are ordered by
// problem letter so the layout is stable regardless of input order.
func buildRow(member *models.Member, cells []Cell) Row {
	ordered := make([]Cell, len(cells))
	copy(ordered, cells)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ProblemLetter < ordered[j].ProblemLetter
	})

	score := 0
	penalty := 0
	for _, cell := range ordered {
		if cell.IsAccepted {
			score++
		}
		penalty += cell.Penalty
	}

	return Row{
		MemberID:   member.ID,
		MemberName: member.Name,
		Score:      score,
		Penalty:    penalty,
		Cells:      ordered,
	}
}

// rankRows orders rows by score descending, penalty ascending, then member
// name ascending. The name comparison makes the order total, so repeated
// builds over the same data always agree.
func rankRows(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Score != rows[j].Score {
			return rows[i].Score > rows[j].Score
		}
		if rows[i].Penalty != rows[j].Penalty {
			return rows[i].Penalty < rows[j].Penalty
		}
		return rows[i].MemberName < rows[j].MemberName
	})
}
