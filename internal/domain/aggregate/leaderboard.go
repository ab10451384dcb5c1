package aggregate

import (
	"sort"

	"github.com/okian/salesboard/internal/domain/model"
)

// Standing is one leaderboard row.
type Standing struct {
	Rank   int    `json:"rank"`
	Name   string `json:"name"`
	Team   string `json:"team"`
	Points int    `json:"points"`
}

// Leaderboard ranks Agent-role records by points descending. The sort is
// stable: equal points keep roster order. Rank is the 1-based position.
func Leaderboard(agents []model.Agent) []Standing {
	board := make([]Standing, 0, len(agents))
	for _, a := range agents {
		if a.Role != model.RoleAgent {
			continue
		}
		board = append(board, Standing{Name: a.Name, Team: a.Team, Points: a.PointsBalance})
	}
	sort.SliceStable(board, func(i, j int) bool { return board[i].Points > board[j].Points })
	for i := range board {
		board[i].Rank = i + 1
	}
	return board
}

// RankOf finds the rank of name on the board. Names are not unique; the first
// match wins.
func RankOf(board []Standing, name string) (int, bool) {
	for _, s := range board {
		if s.Name == name {
			return s.Rank, true
		}
	}
	return 0, false
}

// Top returns at most n leading rows.
func Top(board []Standing, n int) []Standing {
	if n < 0 {
		n = 0
	}
	if n > len(board) {
		n = len(board)
	}
	return board[:n]
}
