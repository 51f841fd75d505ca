// Package seed はデフォルト店舗とデフォルト制約カタログの投入を提供する。
// カタログはマイグレーション 000003 が MAIN 店舗へ入れる内容と同一で、
// 000003 より後に作られた店舗にはこのパッケージ経由で投入する。
package seed

import (
	"fmt"

	"github.com/taehong0711/shiftmaster/internal/model"
	"github.com/taehong0711/shiftmaster/internal/rules"
)

// デフォルト店舗の勤務シフトコード
var (
	DefaultDayShifts   = []string{"E1", "E2", "G1", "G1U", "H1", "H2", "I1", "I2", "L1"}
	DefaultNightShifts = []string{"Q1", "X1", "R1"}
)

// ハード制約の重みとソフト制約の重み帯
const (
	HardPenaltyWeight = 200000
	SoftWeightMin     = 10000
	SoftWeightMax     = 50000
)

type catalogEntry struct {
	name     string
	code     string
	category string
	ctype    string
	weight   int
	priority int
	def      rules.Definition
}

// defaultCatalog ハード 5 件 + ソフト 12 件
var defaultCatalog = []catalogEntry{
	// ── ハード制約（priority 1-5） ──
	{
		name: "night_after_night_off", code: "NIGHT_AFTER_OFF",
		category: model.CategorySequence, ctype: model.ConstraintHard,
		weight: HardPenaltyWeight, priority: 1,
		def: rules.Definition{
			Kind:          rules.KindSequence,
			DescriptionJA: "夜勤後は必ず明け休み",
			DescriptionKO: "야간 근무 후 반드시 명휴",
			DescriptionEN: "Off day required after night shift",
			Sequence: &rules.SequenceRule{
				AfterShifts:   []string{"Q1", "X1", "R1"},
				NextDayMustBe: []string{model.ShiftOff},
			},
		},
	},
	{
		name: "max_consecutive_work", code: "MAX_CONSEC_WORK",
		category: model.CategorySequence, ctype: model.ConstraintHard,
		weight: HardPenaltyWeight, priority: 2,
		def: rules.Definition{
			Kind:          rules.KindRollingWindow,
			DescriptionJA: "連続勤務は最大5日",
			DescriptionKO: "연속 근무 최대 5일",
			DescriptionEN: "At most 5 consecutive work days",
			RollingWindow: &rules.RollingWindowRule{MaxConsecutiveWorkDays: 5},
		},
	},
	{
		name: "one_shift_per_day", code: "ONE_SHIFT_DAY",
		category: model.CategoryCoverage, ctype: model.ConstraintHard,
		weight: HardPenaltyWeight, priority: 3,
		def: rules.Definition{
			Kind:          rules.KindBasic,
			DescriptionJA: "1日1シフトのみ",
			DescriptionKO: "하루 1개 시프트만",
			DescriptionEN: "Exactly one shift per day",
			Basic:         &rules.BasicRule{ExactlyOneShiftPerDay: true},
		},
	},
	{
		name: "skill_required", code: "SKILL_REQ",
		category: model.CategorySkill, ctype: model.ConstraintHard,
		weight: HardPenaltyWeight, priority: 4,
		def: rules.Definition{
			Kind:          rules.KindSkillMatch,
			DescriptionJA: "スキル要件を満たす必要あり",
			DescriptionKO: "스킬 요건 충족 필요",
			DescriptionEN: "Shift skill requirements must be met",
			SkillMatch: &rules.SkillMatchRule{
				ShiftSkillMap: map[string]string{
					"L1": model.SkillL1,
					"Q1": model.SkillNight,
					"X1": model.SkillNight,
					"R1": model.SkillNight,
				},
			},
		},
	},
	{
		name: "ng_shifts_forbidden", code: "NG_FORBIDDEN",
		category: model.CategoryPreference, ctype: model.ConstraintHard,
		weight: HardPenaltyWeight, priority: 5,
		def: rules.Definition{
			Kind:          rules.KindForbidden,
			DescriptionJA: "NG指定シフトは割り当て禁止",
			DescriptionKO: "NG 지정 시프트 배정 금지",
			DescriptionEN: "NG-marked shifts must not be assigned",
			Forbidden:     &rules.ForbiddenRule{RespectNGAssignments: true},
		},
	},

	// ── ソフト制約（priority 10-17） ──
	{
		name: "request_satisfaction", code: "REQ_SATISFY",
		category: model.CategoryPreference, ctype: model.ConstraintSoft,
		weight: 50000, priority: 10,
		def: rules.Definition{
			Kind:          rules.KindPreference,
			DescriptionJA: "希望シフトをなるべく満たす",
			DescriptionKO: "희망 시프트 최대한 반영",
			DescriptionEN: "Maximize request satisfaction",
			Preference:    &rules.PreferenceRule{MaximizeRequestSatisfaction: true},
		},
	},
	{
		name: "target_off_days", code: "TARGET_OFF",
		category: model.CategoryBalance, ctype: model.ConstraintSoft,
		weight: 30000, priority: 11,
		def: rules.Definition{
			Kind:          rules.KindBalance,
			DescriptionJA: "目標休日数に近づける",
			DescriptionKO: "목표 휴일 수에 근접",
			DescriptionEN: "Approach target off days",
			Balance: &rules.BalanceRule{
				TargetOffDaysField: "target_off",
				DeviationPenalty:   true,
			},
		},
	},
	{
		name: "night_shift_balance", code: "NIGHT_BALANCE",
		category: model.CategoryBalance, ctype: model.ConstraintSoft,
		weight: 20000, priority: 12,
		def: rules.Definition{
			Kind:          rules.KindBalance,
			DescriptionJA: "夜勤を均等に配分",
			DescriptionKO: "야간 근무 균등 배분",
			DescriptionEN: "Balance night shifts among night-capable staff",
			Balance: &rules.BalanceRule{
				BalanceShifts:       []string{"Q1", "X1", "R1"},
				AmongStaffWithSkill: model.SkillNight,
			},
		},
	},
	{
		name: "min_daily_coverage", code: "MIN_COVERAGE",
		category: model.CategoryCoverage, ctype: model.ConstraintSoft,
		weight: 40000, priority: 13,
		def: rules.Definition{
			Kind:          rules.KindCoverage,
			DescriptionJA: "日別最低人数を確保",
			DescriptionKO: "일별 최소 인원 확보",
			DescriptionEN: "Minimum staffing per day",
			Coverage: &rules.CoverageRule{
				MinStaffPerDay: 3,
				ExcludeShifts:  []string{model.ShiftOff, model.ShiftPublicOff},
			},
		},
	},
	{
		name: "q1_daily_coverage", code: "Q1_COVERAGE",
		category: model.CategoryCoverage, ctype: model.ConstraintSoft,
		weight: 45000, priority: 13,
		def: rules.Definition{
			Kind:          rules.KindCoverage,
			DescriptionJA: "毎日Q1を1人配置",
			DescriptionKO: "매일 Q1 1명 배치",
			DescriptionEN: "One Q1 night post per day",
			Coverage:      &rules.CoverageRule{ShiftCode: "Q1", ExactlyPerDay: 1},
		},
	},
	{
		name: "x1_daily_coverage", code: "X1_COVERAGE",
		category: model.CategoryCoverage, ctype: model.ConstraintSoft,
		weight: 45000, priority: 13,
		def: rules.Definition{
			Kind:          rules.KindCoverage,
			DescriptionJA: "毎日X1を1人配置",
			DescriptionKO: "매일 X1 1명 배치",
			DescriptionEN: "One X1 night post per day",
			Coverage:      &rules.CoverageRule{ShiftCode: "X1", ExactlyPerDay: 1},
		},
	},
	{
		name: "r1_daily_coverage", code: "R1_COVERAGE",
		category: model.CategoryCoverage, ctype: model.ConstraintSoft,
		weight: 45000, priority: 13,
		def: rules.Definition{
			Kind:          rules.KindCoverage,
			DescriptionJA: "毎日R1を1人配置",
			DescriptionKO: "매일 R1 1명 배치",
			DescriptionEN: "One R1 night post per day",
			Coverage:      &rules.CoverageRule{ShiftCode: "R1", ExactlyPerDay: 1},
		},
	},
	{
		name: "weekend_balance", code: "WEEKEND_BALANCE",
		category: model.CategoryBalance, ctype: model.ConstraintSoft,
		weight: 15000, priority: 14,
		def: rules.Definition{
			Kind:          rules.KindBalance,
			DescriptionJA: "週末勤務を均等に",
			DescriptionKO: "주말 근무 균등 배분",
			DescriptionEN: "Balance weekend work",
			Balance:       &rules.BalanceRule{BalanceWeekendWork: true},
		},
	},
	{
		name: "l1_daily_coverage", code: "L1_COVERAGE",
		category: model.CategoryCoverage, ctype: model.ConstraintSoft,
		weight: 35000, priority: 15,
		def: rules.Definition{
			Kind:          rules.KindCoverage,
			DescriptionJA: "毎日L1を1人配置",
			DescriptionKO: "매일 L1 1명 배치",
			DescriptionEN: "One L1 post per day",
			Coverage:      &rules.CoverageRule{ShiftCode: "L1", ExactlyPerDay: 1},
		},
	},
	{
		name: "avoid_split_weekends", code: "AVOID_SPLIT_WEEKEND",
		category: model.CategoryPreference, ctype: model.ConstraintSoft,
		weight: 10000, priority: 16,
		def: rules.Definition{
			Kind:          rules.KindPreference,
			DescriptionJA: "土日の片方だけ勤務を避ける",
			DescriptionKO: "주말 한쪽만 근무 회피",
			DescriptionEN: "Avoid split weekends",
			Preference:    &rules.PreferenceRule{PreferFullWeekendOffOrWork: true},
		},
	},
	{
		name: "day_shift_balance", code: "DAY_BALANCE",
		category: model.CategoryBalance, ctype: model.ConstraintSoft,
		weight: 12000, priority: 16,
		def: rules.Definition{
			Kind:          rules.KindBalance,
			DescriptionJA: "日勤を均等に配分",
			DescriptionKO: "주간 근무 균등 배분",
			DescriptionEN: "Balance day shifts",
			Balance: &rules.BalanceRule{
				BalanceShifts: []string{"E1", "E2", "G1", "G1U", "H1", "H2", "I1", "I2"},
			},
		},
	},
	{
		name: "closed_day_night_count", code: "CLOSED_NIGHT",
		category: model.CategoryCoverage, ctype: model.ConstraintSoft,
		weight: 25000, priority: 17,
		def: rules.Definition{
			Kind:          rules.KindCoverage,
			DescriptionJA: "休館日の夜勤人数",
			DescriptionKO: "휴관일 야간 인원",
			DescriptionEN: "Night staffing on closed days",
			Coverage:      &rules.CoverageRule{OnClosedDays: true, NightShiftCount: 2},
		},
	},
}

// Codes デフォルトカタログの制約コード一覧（カタログ順）
func Codes() []string {
	codes := make([]string, len(defaultCatalog))
	for i, e := range defaultCatalog {
		codes[i] = e.code
	}
	return codes
}

// DefaultWeight カタログ上のデフォルト重みを返す。カタログ外のコードは false
func DefaultWeight(code string) (int, bool) {
	for _, e := range defaultCatalog {
		if e.code == code {
			return e.weight, true
		}
	}
	return 0, false
}

// DefaultConstraints 指定店舗向けのデフォルト制約カタログを組み立てる
func DefaultConstraints(branchID string) ([]model.Constraint, error) {
	out := make([]model.Constraint, 0, len(defaultCatalog))
	for _, e := range defaultCatalog {
		raw, err := e.def.Encode()
		if err != nil {
			return nil, fmt.Errorf("制約 %s の rule_definition 構築に失敗: %w", e.code, err)
		}
		out = append(out, model.Constraint{
			BranchID:       branchID,
			Name:           e.name,
			Code:           e.code,
			Category:       e.category,
			ConstraintType: e.ctype,
			IsEnabled:      true,
			PenaltyWeight:  e.weight,
			PriorityOrder:  e.priority,
			RuleDefinition: model.JSONRaw(raw),
		})
	}
	return out, nil
}
