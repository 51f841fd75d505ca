package rules

import (
	"bytes"
	"testing"
)

func TestDecode_Sequence(t *testing.T) {
	raw := []byte(`{"type": "sequence", "description_ja": "夜勤後は必ず明け休み", "rule": {"after_shifts": ["Q1", "X1", "R1"], "next_day_must_be": ["-"]}}`)

	def, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode は成功するべき: %v", err)
	}
	if def.Kind != KindSequence {
		t.Errorf("期待 Kind=sequence、実際=%s", def.Kind)
	}
	if def.DescriptionJA != "夜勤後は必ず明け休み" {
		t.Errorf("description_ja が不正: %s", def.DescriptionJA)
	}
	if def.Sequence == nil {
		t.Fatal("Sequence バリアントが設定されるべき")
	}
	if len(def.Sequence.AfterShifts) != 3 || def.Sequence.AfterShifts[0] != "Q1" {
		t.Errorf("after_shifts が不正: %v", def.Sequence.AfterShifts)
	}
	if len(def.Sequence.NextDayMustBe) != 1 || def.Sequence.NextDayMustBe[0] != "-" {
		t.Errorf("next_day_must_be が不正: %v", def.Sequence.NextDayMustBe)
	}
	if def.Opaque() {
		t.Error("既知の type が不透明扱いになった")
	}
}

func TestDecode_AllKnownKinds(t *testing.T) {
	cases := []struct {
		raw   string
		check func(t *testing.T, d *Definition)
	}{
		{`{"type": "rolling_window", "rule": {"max_consecutive_work_days": 5}}`,
			func(t *testing.T, d *Definition) {
				if d.RollingWindow == nil || d.RollingWindow.MaxConsecutiveWorkDays != 5 {
					t.Errorf("rolling_window の解析に失敗: %+v", d.RollingWindow)
				}
			}},
		{`{"type": "basic", "rule": {"exactly_one_shift_per_day": true}}`,
			func(t *testing.T, d *Definition) {
				if d.Basic == nil || !d.Basic.ExactlyOneShiftPerDay {
					t.Errorf("basic の解析に失敗: %+v", d.Basic)
				}
			}},
		{`{"type": "skill_match", "rule": {"shift_skill_map": {"L1": "L1", "Q1": "NIGHT"}}}`,
			func(t *testing.T, d *Definition) {
				if d.SkillMatch == nil || d.SkillMatch.ShiftSkillMap["Q1"] != "NIGHT" {
					t.Errorf("skill_match の解析に失敗: %+v", d.SkillMatch)
				}
			}},
		{`{"type": "forbidden", "rule": {"respect_ng_assignments": true}}`,
			func(t *testing.T, d *Definition) {
				if d.Forbidden == nil || !d.Forbidden.RespectNGAssignments {
					t.Errorf("forbidden の解析に失敗: %+v", d.Forbidden)
				}
			}},
		{`{"type": "preference", "rule": {"maximize_request_satisfaction": true}}`,
			func(t *testing.T, d *Definition) {
				if d.Preference == nil || !d.Preference.MaximizeRequestSatisfaction {
					t.Errorf("preference の解析に失敗: %+v", d.Preference)
				}
			}},
		{`{"type": "balance", "rule": {"balance_shifts": ["Q1", "X1", "R1"], "among_staff_with_skill": "NIGHT"}}`,
			func(t *testing.T, d *Definition) {
				if d.Balance == nil || d.Balance.AmongStaffWithSkill != "NIGHT" {
					t.Errorf("balance の解析に失敗: %+v", d.Balance)
				}
			}},
		{`{"type": "coverage", "rule": {"min_staff_per_day": 3, "exclude_shifts": ["-", "公"]}}`,
			func(t *testing.T, d *Definition) {
				if d.Coverage == nil || d.Coverage.MinStaffPerDay != 3 {
					t.Errorf("coverage の解析に失敗: %+v", d.Coverage)
				}
				if len(d.Coverage.ExcludeShifts) != 2 || d.Coverage.ExcludeShifts[1] != "公" {
					t.Errorf("exclude_shifts が不正: %v", d.Coverage.ExcludeShifts)
				}
			}},
	}

	for _, c := range cases {
		def, err := Decode([]byte(c.raw))
		if err != nil {
			t.Fatalf("Decode は成功するべき (%s): %v", c.raw, err)
		}
		c.check(t, def)
	}
}

func TestDecode_UnknownKindPreservesRaw(t *testing.T) {
	raw := []byte(`{"type": "quantum_fairness", "description_ja": "未知のルール", "rule": {"entanglement": [1, 2, 3], "threshold": 0.5}}`)

	def, err := Decode(raw)
	if err != nil {
		t.Fatalf("未知 type の Decode はエラーにならないべき: %v", err)
	}
	if !def.Opaque() {
		t.Error("未知 type は不透明になるべき")
	}
	if def.Kind != Kind("quantum_fairness") {
		t.Errorf("type 文字列は保持されるべき: %s", def.Kind)
	}
	if def.DescriptionJA != "未知のルール" {
		t.Errorf("説明文は不透明でも読めるべき: %s", def.DescriptionJA)
	}

	// Raw は元のバイト列をそのまま返す
	if !bytes.Equal(def.Raw(), raw) {
		t.Errorf("Raw がバイト列を保持していない:\n元   %s\n実際 %s", raw, def.Raw())
	}

	// 不透明な Definition の Encode も元のバイト列を返す
	out, err := def.Encode()
	if err != nil {
		t.Fatalf("Encode は成功するべき: %v", err)
	}
	if !bytes.Equal(out, raw) {
		t.Errorf("不透明 Encode がバイト列を保持していない:\n元   %s\n実際 %s", raw, out)
	}
}

func TestDecode_Empty(t *testing.T) {
	def, err := Decode(nil)
	if err != nil {
		t.Fatalf("空ドキュメントの Decode は成功するべき: %v", err)
	}
	if !def.Opaque() {
		t.Error("空ドキュメントは不透明になるべき")
	}
}

func TestDecode_MalformedJSON(t *testing.T) {
	if _, err := Decode([]byte(`{"type": `)); err == nil {
		t.Error("壊れた JSON はエラーになるべき")
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	def := &Definition{
		Kind:          KindCoverage,
		DescriptionJA: "毎日L1を1人配置",
		DescriptionKO: "매일 L1 1명 배치",
		DescriptionEN: "One L1 post per day",
		Coverage:      &CoverageRule{ShiftCode: "L1", ExactlyPerDay: 1},
	}

	raw, err := def.Encode()
	if err != nil {
		t.Fatalf("Encode は成功するべき: %v", err)
	}

	back, err := Decode(raw)
	if err != nil {
		t.Fatalf("再 Decode は成功するべき: %v", err)
	}
	if back.Kind != KindCoverage {
		t.Errorf("Kind が往復で変わった: %s", back.Kind)
	}
	if back.DescriptionKO != def.DescriptionKO {
		t.Errorf("description_ko が往復で変わった: %s", back.DescriptionKO)
	}
	if back.Coverage == nil || back.Coverage.ShiftCode != "L1" || back.Coverage.ExactlyPerDay != 1 {
		t.Errorf("Coverage が往復で変わった: %+v", back.Coverage)
	}
}

func TestKind_Known(t *testing.T) {
	for _, k := range []Kind{KindSequence, KindRollingWindow, KindBasic, KindSkillMatch, KindForbidden, KindPreference, KindBalance, KindCoverage} {
		if !k.Known() {
			t.Errorf("%s は既知のはず", k)
		}
	}
	if Kind("mystery").Known() {
		t.Error("mystery は未知のはず")
	}
	if Kind("").Known() {
		t.Error("空文字列は未知のはず")
	}
}
