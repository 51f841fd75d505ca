// Package export は保存済みの月次シフト表を Excel / iCalendar に描画する。
package export

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/taehong0711/shiftmaster/internal/model"
)

var ErrNoGridRows = errors.New("描画する行がありません")

// シフトコードの分類別セル背景色
var shiftPalette = map[string]string{
	"night":  "#FFCDD2",
	"off":    "#E0E0E0",
	"public": "#C8E6C9",
	"l1":     "#E1BEE7",
	"early":  "#BBDEFB",
	"late":   "#FFE0B2",
	"mid":    "#FFF9C4",
}

// MonthGrid Excel に描画する 1 か月分のグリッド
type MonthGrid struct {
	BranchName string
	BranchCode string
	Year       int
	Month      int
	NightCodes []string // 夜勤として塗るコード。branches.settings の night_shifts を渡す
	Rows       []model.MonthlyShift
}

// ═══════════════════════════════════════════════════════════
// MonthWorkbook — 月次シフト表を Excel に描画
// ═══════════════════════════════════════════════════════════
//
// 出力形式：
//   - Sheet "2026年3月"（1 か月 1 シート）
//   - 行：スタッフ（保存順＝名前順）
//   - 列：スタッフ名、1 日〜月末日、休日数、勤務日数
//   - 日付セル：シフトコード。分類できたコードは配色で塗る
//
// 返り値：buf（xlsx 内容）, filename（推奨ファイル名）, error

func MonthWorkbook(grid MonthGrid) (*bytes.Buffer, string, error) {
	if len(grid.Rows) == 0 {
		return nil, "", ErrNoGridRows
	}

	days := daysIn(grid.Year, grid.Month)
	nightSet := make(map[string]bool, len(grid.NightCodes))
	for _, code := range grid.NightCodes {
		nightSet[code] = true
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := fmt.Sprintf("%d年%d月", grid.Year, grid.Month)
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, "", err
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	// 列幅: A=スタッフ名、以降が日付、末尾 2 列は集計
	f.SetColWidth(sheet, "A", "A", 14)
	f.SetColWidth(sheet, columnOf(2), columnOf(1+days), 4.5)
	f.SetColWidth(sheet, columnOf(2+days), columnOf(3+days), 9)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	fills, err := fillStyles(f)
	if err != nil {
		return nil, "", err
	}

	// 標題行
	f.SetCellValue(sheet, "A1", fmt.Sprintf("%s %d年%d月 シフト表", grid.BranchName, grid.Year, grid.Month))
	f.MergeCell(sheet, "A1", cellAt(3+days, 1))
	f.SetCellStyle(sheet, "A1", "A1", headerStyle)

	// 見出し行
	f.SetCellValue(sheet, cellAt(1, 2), "スタッフ")
	for d := 1; d <= days; d++ {
		f.SetCellValue(sheet, cellAt(1+d, 2), d)
	}
	f.SetCellValue(sheet, cellAt(2+days, 2), "休日数")
	f.SetCellValue(sheet, cellAt(3+days, 2), "勤務日数")
	f.SetCellStyle(sheet, cellAt(1, 2), cellAt(3+days, 2), headerStyle)

	// データ行
	row := 3
	for i := range grid.Rows {
		r := &grid.Rows[i]
		f.SetCellValue(sheet, cellAt(1, row), r.StaffName)
		for d := 1; d <= days; d++ {
			code := r.ShiftOn(d)
			if code == "" {
				continue
			}
			cell := cellAt(1+d, row)
			f.SetCellValue(sheet, cell, code)
			if styleID, ok := fills[paletteFor(code, nightSet)]; ok {
				f.SetCellStyle(sheet, cell, cell, styleID)
			}
		}
		f.SetCellValue(sheet, cellAt(2+days, row), r.OffDays)
		f.SetCellValue(sheet, cellAt(3+days, row), r.WorkDays)
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("シフト表_%s_%d-%02d.xlsx", grid.BranchCode, grid.Year, grid.Month)
	return buf, filename, nil
}

// ── 補助関数 ──

// paletteFor コードを配色キーへ分類する。対象外は空文字
// E 系は早番、H 系は遅番、I 系は中番として塗る。G 系は塗らない
func paletteFor(code string, nightSet map[string]bool) string {
	switch {
	case code == model.ShiftOff:
		return "off"
	case code == model.ShiftPublicOff:
		return "public"
	case nightSet[code]:
		return "night"
	case code == model.SkillL1:
		return "l1"
	}
	switch {
	case strings.HasPrefix(code, "E"):
		return "early"
	case strings.HasPrefix(code, "H"):
		return "late"
	case strings.HasPrefix(code, "I"):
		return "mid"
	}
	return ""
}

func fillStyles(f *excelize.File) (map[string]int, error) {
	styles := make(map[string]int, len(shiftPalette))
	for key, color := range shiftPalette {
		id, err := f.NewStyle(&excelize.Style{
			Fill:      excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center"},
		})
		if err != nil {
			return nil, err
		}
		styles[key] = id
	}
	return styles, nil
}

// daysIn 指定月の日数
func daysIn(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func columnOf(n int) string {
	name, _ := excelize.ColumnNumberToName(n)
	return name
}

func cellAt(col, row int) string {
	return columnOf(col) + strconv.Itoa(row)
}
