// Package rules は constraints.rule_definition ドキュメントの型付き読み書きを提供する。
// 中身を解釈するのはソルバーであり、この層は形の保証と未知ドキュメントの
// 透過（バイト列の保持）だけを行う。
package rules

import (
	"encoding/json"
	"fmt"
)

// Kind rule_definition の type 判別子
type Kind string

const (
	KindSequence      Kind = "sequence"
	KindRollingWindow Kind = "rolling_window"
	KindBasic         Kind = "basic"
	KindSkillMatch    Kind = "skill_match"
	KindForbidden     Kind = "forbidden"
	KindPreference    Kind = "preference"
	KindBalance       Kind = "balance"
	KindCoverage      Kind = "coverage"
)

// Known 既知の type か。未知でも Decode は失敗しない
func (k Kind) Known() bool {
	switch k {
	case KindSequence, KindRollingWindow, KindBasic, KindSkillMatch,
		KindForbidden, KindPreference, KindBalance, KindCoverage:
		return true
	}
	return false
}

// ── バリアント ──

// SequenceRule 特定シフトの翌日を固定する（例：夜勤の翌日は明け休み）
type SequenceRule struct {
	AfterShifts   []string `json:"after_shifts"`
	NextDayMustBe []string `json:"next_day_must_be"`
}

// RollingWindowRule 連続勤務日数の上限
type RollingWindowRule struct {
	MaxConsecutiveWorkDays int `json:"max_consecutive_work_days"`
}

// BasicRule 基本整合性（1日1シフト）
type BasicRule struct {
	ExactlyOneShiftPerDay bool `json:"exactly_one_shift_per_day"`
}

// SkillMatchRule シフトコード → 必要スキルの対応表
type SkillMatchRule struct {
	ShiftSkillMap map[string]string `json:"shift_skill_map"`
}

// ForbiddenRule NG 指定シフトの割り当て禁止
type ForbiddenRule struct {
	RespectNGAssignments bool `json:"respect_ng_assignments"`
}

// PreferenceRule 希望の充足・回避
type PreferenceRule struct {
	MaximizeRequestSatisfaction bool `json:"maximize_request_satisfaction,omitempty"`
	PreferFullWeekendOffOrWork  bool `json:"prefer_full_weekend_off_or_work,omitempty"`
}

// BalanceRule 勤務の均等配分
type BalanceRule struct {
	TargetOffDaysField  string   `json:"target_off_days_field,omitempty"`
	DeviationPenalty    bool     `json:"deviation_penalty,omitempty"`
	BalanceShifts       []string `json:"balance_shifts,omitempty"`
	AmongStaffWithSkill string   `json:"among_staff_with_skill,omitempty"`
	BalanceWeekendWork  bool     `json:"balance_weekend_work,omitempty"`
}

// CoverageRule 人数配置
type CoverageRule struct {
	MinStaffPerDay  int      `json:"min_staff_per_day,omitempty"`
	ExcludeShifts   []string `json:"exclude_shifts,omitempty"`
	ShiftCode       string   `json:"shift_code,omitempty"`
	ExactlyPerDay   int      `json:"exactly_per_day,omitempty"`
	OnClosedDays    bool     `json:"on_closed_days,omitempty"`
	NightShiftCount int      `json:"night_shift_count,omitempty"`
}

// ── Definition ──

// Definition rule_definition ドキュメントの型付きビュー
// Kind が未知の場合はバリアントを持たず、Raw() が唯一の内容になる
type Definition struct {
	Kind          Kind
	DescriptionJA string
	DescriptionKO string
	DescriptionEN string

	Sequence      *SequenceRule
	RollingWindow *RollingWindowRule
	Basic         *BasicRule
	SkillMatch    *SkillMatchRule
	Forbidden     *ForbiddenRule
	Preference    *PreferenceRule
	Balance       *BalanceRule
	Coverage      *CoverageRule

	raw json.RawMessage
}

type envelope struct {
	Type          string          `json:"type"`
	DescriptionJA string          `json:"description_ja,omitempty"`
	DescriptionKO string          `json:"description_ko,omitempty"`
	DescriptionEN string          `json:"description_en,omitempty"`
	Rule          json.RawMessage `json:"rule,omitempty"`
}

// Decode rule_definition のバイト列を型付きビューへ展開する
// 未知の type でもエラーにせず、元のバイト列を保持した不透明な Definition を返す
func Decode(raw []byte) (*Definition, error) {
	if len(raw) == 0 {
		raw = []byte("{}")
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("rule_definition の解析に失敗: %w", err)
	}

	def := &Definition{
		Kind:          Kind(env.Type),
		DescriptionJA: env.DescriptionJA,
		DescriptionKO: env.DescriptionKO,
		DescriptionEN: env.DescriptionEN,
		raw:           append(json.RawMessage(nil), raw...),
	}

	if !def.Kind.Known() {
		return def, nil
	}

	rule := env.Rule
	if len(rule) == 0 {
		rule = []byte("{}")
	}

	var err error
	switch def.Kind {
	case KindSequence:
		def.Sequence = &SequenceRule{}
		err = json.Unmarshal(rule, def.Sequence)
	case KindRollingWindow:
		def.RollingWindow = &RollingWindowRule{}
		err = json.Unmarshal(rule, def.RollingWindow)
	case KindBasic:
		def.Basic = &BasicRule{}
		err = json.Unmarshal(rule, def.Basic)
	case KindSkillMatch:
		def.SkillMatch = &SkillMatchRule{}
		err = json.Unmarshal(rule, def.SkillMatch)
	case KindForbidden:
		def.Forbidden = &ForbiddenRule{}
		err = json.Unmarshal(rule, def.Forbidden)
	case KindPreference:
		def.Preference = &PreferenceRule{}
		err = json.Unmarshal(rule, def.Preference)
	case KindBalance:
		def.Balance = &BalanceRule{}
		err = json.Unmarshal(rule, def.Balance)
	case KindCoverage:
		def.Coverage = &CoverageRule{}
		err = json.Unmarshal(rule, def.Coverage)
	}
	if err != nil {
		return nil, fmt.Errorf("rule 部の解析に失敗 (type=%s): %w", env.Type, err)
	}

	return def, nil
}

// Opaque バリアントを持たない（未知 type の）ドキュメントか
func (d *Definition) Opaque() bool {
	return !d.Kind.Known()
}

// Raw Decode に渡された元のドキュメント。透過保存にはこれを使う
func (d *Definition) Raw() json.RawMessage {
	return append(json.RawMessage(nil), d.raw...)
}

// Encode 型付きフィールドからドキュメントを構築する
// 不透明な Definition は元のバイト列をそのまま返す
func (d *Definition) Encode() ([]byte, error) {
	var rule any
	switch {
	case d.Sequence != nil:
		rule = d.Sequence
	case d.RollingWindow != nil:
		rule = d.RollingWindow
	case d.Basic != nil:
		rule = d.Basic
	case d.SkillMatch != nil:
		rule = d.SkillMatch
	case d.Forbidden != nil:
		rule = d.Forbidden
	case d.Preference != nil:
		rule = d.Preference
	case d.Balance != nil:
		rule = d.Balance
	case d.Coverage != nil:
		rule = d.Coverage
	default:
		if len(d.raw) > 0 {
			return d.Raw(), nil
		}
		rule = map[string]any{}
	}

	ruleRaw, err := json.Marshal(rule)
	if err != nil {
		return nil, fmt.Errorf("rule 部のエンコードに失敗: %w", err)
	}

	return json.Marshal(envelope{
		Type:          string(d.Kind),
		DescriptionJA: d.DescriptionJA,
		DescriptionKO: d.DescriptionKO,
		DescriptionEN: d.DescriptionEN,
		Rule:          ruleRaw,
	})
}
