// Package export builds spreadsheet downloads of finished games.
package export

import (
	"fmt"

	"github.com/mauv0809/keiths-skittles/internal/game"
	"github.com/mauv0809/keiths-skittles/internal/stats"
	"github.com/xuri/excelize/v2"
)

const (
	SheetScorecard = "Scorecard"
	SheetSummary   = "Summary"
)

var scorecardHeader = []any{"Round", "Cycle", "Player", "Team", "Roll 1", "Roll 2", "Roll 3", "Total", "Strike", "Spare"}

// GameWorkbook returns an xlsx file with every turn of the game on the
// Scorecard sheet and the game report on the Summary sheet.
func GameWorkbook(g game.Game, scores []game.Score, st *stats.GameStats) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetScorecard); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return nil, fmt.Errorf("failed to add summary sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeScorecard(f, scores, bold); err != nil {
		return nil, err
	}
	if err := writeSummary(f, g, st, bold); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// FileName is the download name for a game's workbook.
func FileName(g game.Game) string {
	return fmt.Sprintf("skittles-game-%d-%s.xlsx", g.ID, g.Date.Format(game.DateLayout))
}

func writeScorecard(f *excelize.File, scores []game.Score, headerStyle int) error {
	if err := setRow(f, SheetScorecard, 1, scorecardHeader); err != nil {
		return err
	}
	if err := f.SetRowStyle(SheetScorecard, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, s := range scores {
		team := "Own"
		if (game.Player{Name: s.PlayerName}).IsMirror() {
			team = "Opp"
		}
		row := []any{s.RoundNumber, s.CycleNumber, s.PlayerName, team, s.Roll1, s.Roll2, s.Roll3, s.Total, yesNo(s.IsStrike), yesNo(s.IsSpare)}
		if err := setRow(f, SheetScorecard, i+2, row); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(SheetScorecard, "C", "C", 24); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, g game.Game, st *stats.GameStats, headerStyle int) error {
	rows := [][]any{
		{"Date", g.Date.Format(game.DateLayout)},
		{"Opponent", g.OpponentName},
		{"Location", g.LocationName},
		{"Game type", g.GameTypeName},
		{"Own total", st.OwnTotal},
		{"Opponent total", st.OppTotal},
		{"Result", string(st.Result)},
		{},
		{"Round", "Own", "Opponent", "Differential"},
	}
	headers := []int{len(rows)}
	for _, d := range st.RoundDiffs {
		rows = append(rows, []any{d.Round, d.OwnTotal, d.OppTotal, d.Differential})
	}
	rows = append(rows, []any{}, []any{"Player", "Total", "Cycles", "Average", "Top scorer"})
	headers = append(headers, len(rows))
	for _, p := range st.Players {
		rows = append(rows, []any{p.Name, p.Total, p.Cycles, p.Average, yesNo(st.IsHighest(p.PlayerID))})
	}

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		if err := setRow(f, SheetSummary, i+1, row); err != nil {
			return err
		}
	}
	for _, r := range headers {
		if err := f.SetRowStyle(SheetSummary, r, r, headerStyle); err != nil {
			return fmt.Errorf("failed to style header: %w", err)
		}
	}
	if err := f.SetColWidth(SheetSummary, "A", "A", 24); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	axis, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, axis, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return ""
}
