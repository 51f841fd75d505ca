package export

import (
	"bytes"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/taehong0711/shiftmaster/internal/model"
)

// StaffMonth iCalendar に変換する 1 人分の月次シフト
type StaffMonth struct {
	BranchName string
	BranchCode string
	Year       int
	Month      int
	Row        *model.MonthlyShift
}

// ═══════════════════════════════════════════════════════════
// StaffCalendar — 1 人の 1 か月分を iCalendar に変換
// ═══════════════════════════════════════════════════════════
//
// 出力形式：
//   - 勤務日 1 日 = 終日イベント 1 件（SUMMARY はスタッフ名: コード）
//   - 休みコード（- と 公）の日と空欄の日はイベントにしない
//   - カレンダー名は「店舗 スタッフ 年月」
//
// 返り値：buf（ics 内容）, filename（推奨ファイル名）, error

func StaffCalendar(sm StaffMonth) (*bytes.Buffer, string, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//shiftmaster//shift schedule//JA")
	calName := fmt.Sprintf("%s %s %d年%d月", sm.BranchName, sm.Row.StaffName, sm.Year, sm.Month)
	cal.SetXWRCalName(calName)
	cal.SetName(calName)

	days := daysIn(sm.Year, sm.Month)
	now := time.Now().UTC()
	for d := 1; d <= days; d++ {
		code := sm.Row.ShiftOn(d)
		if code == "" || model.IsOffCode(code) {
			continue
		}
		date := time.Date(sm.Year, time.Month(sm.Month), d, 0, 0, 0, 0, time.UTC)
		evt := cal.AddEvent(fmt.Sprintf("%s-%s@shiftmaster", sm.Row.ID, date.Format("20060102")))
		evt.SetDtStampTime(now)
		evt.SetAllDayStartAt(date)
		evt.SetAllDayEndAt(date.AddDate(0, 0, 1))
		evt.SetSummary(fmt.Sprintf("%s: %s", sm.Row.StaffName, code))
		evt.SetDescription(fmt.Sprintf("%s %d年%d月のシフト", sm.BranchName, sm.Year, sm.Month))
	}

	buf := bytes.NewBufferString(cal.Serialize())
	filename := fmt.Sprintf("shift_%s_%d-%02d.ics", sm.Row.StaffName, sm.Year, sm.Month)
	return buf, filename, nil
}
