package model

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestJSONMap_ScanValue(t *testing.T) {
	var m JSONMap
	if err := m.Scan([]byte(`{"day_shifts": ["E1", "L1"], "is_default": true}`)); err != nil {
		t.Fatalf("Scan は成功するべき: %v", err)
	}
	if m["is_default"] != true {
		t.Errorf("is_default の読み出しに失敗: %v", m["is_default"])
	}

	v, err := m.Value()
	if err != nil {
		t.Fatalf("Value は成功するべき: %v", err)
	}
	var back map[string]any
	if err := json.Unmarshal([]byte(v.(string)), &back); err != nil {
		t.Fatalf("Value の出力が JSON ではない: %v", err)
	}

	// nil マップは NOT NULL 列向けに '{}' となる
	var empty JSONMap
	v, err = empty.Value()
	if err != nil || v.(string) != "{}" {
		t.Errorf("nil JSONMap は '{}' になるべき: v=%v err=%v", v, err)
	}

	// NULL 列は空マップとして読める
	if err := m.Scan(nil); err != nil {
		t.Fatalf("NULL の Scan は成功するべき: %v", err)
	}
	if len(m) != 0 {
		t.Errorf("NULL は空マップになるべき: %v", m)
	}
}

func TestJSONRaw_PreservesBytes(t *testing.T) {
	src := []byte(`{"type": "mystery", "rule": {"anything": [1, 2, 3]}}`)

	var j JSONRaw
	if err := j.Scan(src); err != nil {
		t.Fatalf("Scan は成功するべき: %v", err)
	}

	// 元のバッファを書き換えても保持値は変わらない（複製確認）
	src[2] = 'X'
	v, err := j.Value()
	if err != nil {
		t.Fatalf("Value は成功するべき: %v", err)
	}
	if v.(string) != `{"type": "mystery", "rule": {"anything": [1, 2, 3]}}` {
		t.Errorf("バイト列が保持されていない: %s", v)
	}

	// 空値は '{}' になる
	var empty JSONRaw
	v, _ = empty.Value()
	if v.(string) != "{}" {
		t.Errorf("空 JSONRaw は '{}' になるべき: %v", v)
	}

	// encoding/json 経由でも透過する
	out, err := json.Marshal(j)
	if err != nil {
		t.Fatalf("Marshal は成功するべき: %v", err)
	}
	var round JSONRaw
	if err := json.Unmarshal(out, &round); err != nil {
		t.Fatalf("Unmarshal は成功するべき: %v", err)
	}
	if string(round) != string(out) {
		t.Errorf("JSON 往復でバイト列が変わった: %s → %s", out, round)
	}
}

func TestSplitTags(t *testing.T) {
	got := SplitTags("L1, NIGHT ,,FRONT")
	want := []string{"L1", "NIGHT", "FRONT"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("期待 %v、実際 %v", want, got)
	}
	if SplitTags("") != nil {
		t.Error("空文字列は nil になるべき")
	}
	if JoinTags(want) != "L1,NIGHT,FRONT" {
		t.Errorf("JoinTags の結果が不正: %s", JoinTags(want))
	}
}

func TestStaff_SkillHelpers(t *testing.T) {
	s := Staff{Name: "田中", Skills: "L1,NIGHT", Prefer: "E1,G1"}

	if !s.HasSkill(SkillL1) || !s.HasSkill(SkillNight) {
		t.Error("L1 と NIGHT の両方を持つはず")
	}
	if s.HasSkill("FRONT") {
		t.Error("持っていないスキルに true を返した")
	}
	if !s.NightCapable() || !s.L1Capable() {
		t.Error("夜勤可・L1 可のはず")
	}
	if got := s.PreferList(); !reflect.DeepEqual(got, []string{"E1", "G1"}) {
		t.Errorf("PreferList が不正: %v", got)
	}

	none := Staff{Name: "佐藤"}
	if none.NightCapable() {
		t.Error("スキル未設定のスタッフは夜勤不可のはず")
	}
}

func TestIsOffCode(t *testing.T) {
	cases := map[string]bool{
		ShiftOff:       true,
		ShiftPublicOff: true,
		ShiftSunday:    false, // 日曜勤務は休みではない
		"E1":           false,
		"Q1":           false,
		"":             false,
	}
	for code, want := range cases {
		if got := IsOffCode(code); got != want {
			t.Errorf("IsOffCode(%q) = %v、期待 %v", code, got, want)
		}
	}
}

func TestMonthlyShift_ShiftOn(t *testing.T) {
	m := MonthlyShift{ShiftData: JSONMap{"1": "E1", "15": "-"}}
	if m.ShiftOn(1) != "E1" {
		t.Errorf("1 日のコードが不正: %s", m.ShiftOn(1))
	}
	if m.ShiftOn(15) != "-" {
		t.Errorf("15 日のコードが不正: %s", m.ShiftOn(15))
	}
	if m.ShiftOn(20) != "" {
		t.Errorf("未設定日は空文字のはず: %s", m.ShiftOn(20))
	}
}

func TestBranch_ShiftSettings(t *testing.T) {
	b := Branch{Settings: JSONMap{
		"day_shifts":   []any{"E1", "L1"},
		"night_shifts": []any{"Q1", "X1", "R1"},
	}}
	if got := b.DayShifts(); !reflect.DeepEqual(got, []string{"E1", "L1"}) {
		t.Errorf("DayShifts が不正: %v", got)
	}
	if got := b.NightShifts(); len(got) != 3 {
		t.Errorf("NightShifts が不正: %v", got)
	}

	empty := Branch{Settings: JSONMap{}}
	if empty.DayShifts() != nil {
		t.Error("設定なしの場合は nil になるべき")
	}
}
