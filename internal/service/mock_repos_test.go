package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/taehong0711/shiftmaster/internal/model"
	"github.com/taehong0711/shiftmaster/internal/repository"
)

// ── Mock BranchRepository ──

type mockBranchRepo struct {
	branches  map[string]*model.Branch
	idCounter int
}

func newMockBranchRepo() *mockBranchRepo {
	return &mockBranchRepo{branches: make(map[string]*model.Branch)}
}

func (m *mockBranchRepo) Create(_ context.Context, branch *model.Branch) error {
	for _, b := range m.branches {
		if b.Code == branch.Code {
			return gorm.ErrDuplicatedKey
		}
	}
	if branch.ID == "" {
		m.idCounter++
		branch.ID = fmt.Sprintf("branch-%d", m.idCounter)
	}
	m.branches[branch.ID] = branch
	return nil
}

func (m *mockBranchRepo) GetByID(_ context.Context, id string) (*model.Branch, error) {
	if b, ok := m.branches[id]; ok {
		return b, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockBranchRepo) GetByCode(_ context.Context, code string) (*model.Branch, error) {
	for _, b := range m.branches {
		if b.Code == code {
			return b, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockBranchRepo) List(_ context.Context, activeOnly bool) ([]model.Branch, error) {
	var result []model.Branch
	for _, b := range m.branches {
		if activeOnly && !b.IsActive {
			continue
		}
		result = append(result, *b)
	}
	return result, nil
}

func (m *mockBranchRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.branches)), nil
}

func (m *mockBranchRepo) Update(_ context.Context, branch *model.Branch) error {
	m.branches[branch.ID] = branch
	return nil
}

func (m *mockBranchRepo) Deactivate(_ context.Context, id string) error {
	b, ok := m.branches[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	b.IsActive = false
	return nil
}

func (m *mockBranchRepo) HardDelete(_ context.Context, id string) error {
	if _, ok := m.branches[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.branches, id)
	return nil
}

// ── Mock UserBranchRepository ──

type mockUserBranchRepo struct {
	grants map[string]*model.UserBranch // key: userID + "/" + branchID
}

func newMockUserBranchRepo() *mockUserBranchRepo {
	return &mockUserBranchRepo{grants: make(map[string]*model.UserBranch)}
}

func grantKey(userID, branchID string) string { return userID + "/" + branchID }

func (m *mockUserBranchRepo) Upsert(_ context.Context, ub *model.UserBranch) error {
	key := grantKey(ub.UserID, ub.BranchID)
	if existing, ok := m.grants[key]; ok {
		existing.Role = ub.Role
		existing.IsPrimary = ub.IsPrimary
		return nil
	}
	if ub.ID == "" {
		ub.ID = fmt.Sprintf("grant-%d", len(m.grants)+1)
	}
	m.grants[key] = ub
	return nil
}

func (m *mockUserBranchRepo) Remove(_ context.Context, userID, branchID string) error {
	key := grantKey(userID, branchID)
	if _, ok := m.grants[key]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.grants, key)
	return nil
}

func (m *mockUserBranchRepo) GetRole(_ context.Context, userID, branchID string) (string, error) {
	if g, ok := m.grants[grantKey(userID, branchID)]; ok {
		return g.Role, nil
	}
	return "", gorm.ErrRecordNotFound
}

func (m *mockUserBranchRepo) ListByUser(_ context.Context, userID string) ([]model.UserBranch, error) {
	var result []model.UserBranch
	for _, g := range m.grants {
		if g.UserID == userID {
			result = append(result, *g)
		}
	}
	return result, nil
}

func (m *mockUserBranchRepo) ListByBranch(_ context.Context, branchID string) ([]model.UserBranch, error) {
	var result []model.UserBranch
	for _, g := range m.grants {
		if g.BranchID == branchID {
			result = append(result, *g)
		}
	}
	return result, nil
}

func (m *mockUserBranchRepo) SetPrimary(_ context.Context, userID, branchID string) error {
	if _, ok := m.grants[grantKey(userID, branchID)]; !ok {
		return gorm.ErrRecordNotFound
	}
	for _, g := range m.grants {
		if g.UserID == userID {
			g.IsPrimary = g.BranchID == branchID
		}
	}
	return nil
}

// ── Mock StaffRepository ──

type mockStaffRepo struct {
	staff     map[string]*model.Staff
	audits    []model.StaffAudit
	idCounter int
}

func newMockStaffRepo() *mockStaffRepo {
	return &mockStaffRepo{staff: make(map[string]*model.Staff)}
}

func (m *mockStaffRepo) Create(_ context.Context, staff *model.Staff) error {
	if staff.ID == "" {
		m.idCounter++
		staff.ID = fmt.Sprintf("staff-%d", m.idCounter)
	}
	cp := *staff
	m.staff[staff.ID] = &cp
	return nil
}

func (m *mockStaffRepo) GetByID(_ context.Context, id string) (*model.Staff, error) {
	if s, ok := m.staff[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStaffRepo) GetByName(_ context.Context, branchID, name string) (*model.Staff, error) {
	for _, s := range m.staff {
		if s.BranchID == branchID && s.Name == name {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStaffRepo) ListByBranch(_ context.Context, branchID string, includeInactive bool) ([]model.Staff, error) {
	var result []model.Staff
	for _, s := range m.staff {
		if s.BranchID != branchID {
			continue
		}
		if !includeInactive && !s.IsActive {
			continue
		}
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].DisplayOrder != result[j].DisplayOrder {
			return result[i].DisplayOrder < result[j].DisplayOrder
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

func (m *mockStaffRepo) Update(_ context.Context, staff *model.Staff) error {
	if _, ok := m.staff[staff.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *staff
	m.staff[staff.ID] = &cp
	return nil
}

func (m *mockStaffRepo) Deactivate(_ context.Context, id string) error {
	s, ok := m.staff[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.IsActive = false
	return nil
}

func (m *mockStaffRepo) AppendAudit(_ context.Context, audit *model.StaffAudit) error {
	if audit.ID == "" {
		audit.ID = fmt.Sprintf("audit-%d", len(m.audits)+1)
	}
	audit.CreatedAt = time.Now()
	m.audits = append(m.audits, *audit)
	return nil
}

func (m *mockStaffRepo) ListAudit(_ context.Context, staffID string, limit int) ([]model.StaffAudit, error) {
	if limit <= 0 {
		limit = 50
	}
	var result []model.StaffAudit
	for i := len(m.audits) - 1; i >= 0 && len(result) < limit; i-- {
		if m.audits[i].StaffID == staffID {
			result = append(result, m.audits[i])
		}
	}
	return result, nil
}

// ── Mock ConstraintRepository ──

type mockConstraintRepo struct {
	constraints map[string]*model.Constraint
	idCounter   int
}

func newMockConstraintRepo() *mockConstraintRepo {
	return &mockConstraintRepo{constraints: make(map[string]*model.Constraint)}
}

func (m *mockConstraintRepo) Create(_ context.Context, c *model.Constraint) error {
	for _, ex := range m.constraints {
		if ex.BranchID == c.BranchID && ex.Code == c.Code {
			return gorm.ErrDuplicatedKey
		}
	}
	if c.ID == "" {
		m.idCounter++
		c.ID = fmt.Sprintf("con-%d", m.idCounter)
	}
	cp := *c
	m.constraints[c.ID] = &cp
	return nil
}

func (m *mockConstraintRepo) BatchCreate(ctx context.Context, cs []model.Constraint) error {
	for i := range cs {
		if err := m.Create(ctx, &cs[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockConstraintRepo) GetByID(_ context.Context, id string) (*model.Constraint, error) {
	if c, ok := m.constraints[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockConstraintRepo) GetByCode(_ context.Context, branchID, code string) (*model.Constraint, error) {
	for _, c := range m.constraints {
		if c.BranchID == branchID && c.Code == code {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockConstraintRepo) ListByBranch(_ context.Context, branchID string) ([]model.Constraint, error) {
	var result []model.Constraint
	for _, c := range m.constraints {
		if c.BranchID == branchID {
			result = append(result, *c)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].PriorityOrder < result[j].PriorityOrder
	})
	return result, nil
}

func (m *mockConstraintRepo) ListEnabled(ctx context.Context, branchID string) ([]model.Constraint, error) {
	all, _ := m.ListByBranch(ctx, branchID)
	var result []model.Constraint
	for _, c := range all {
		if c.IsEnabled {
			result = append(result, c)
		}
	}
	return result, nil
}

func (m *mockConstraintRepo) CountByBranch(_ context.Context, branchID string) (int64, error) {
	var count int64
	for _, c := range m.constraints {
		if c.BranchID == branchID {
			count++
		}
	}
	return count, nil
}

func (m *mockConstraintRepo) Update(_ context.Context, c *model.Constraint) error {
	if _, ok := m.constraints[c.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *c
	m.constraints[c.ID] = &cp
	return nil
}

func (m *mockConstraintRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.constraints[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.constraints, id)
	return nil
}

func (m *mockConstraintRepo) DeleteByBranch(_ context.Context, branchID string) error {
	for id, c := range m.constraints {
		if c.BranchID == branchID {
			delete(m.constraints, id)
		}
	}
	return nil
}

func (m *mockConstraintRepo) SetEnabled(_ context.Context, id string, enabled bool) error {
	c, ok := m.constraints[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.IsEnabled = enabled
	return nil
}

func (m *mockConstraintRepo) SetWeight(_ context.Context, id string, weight int) error {
	c, ok := m.constraints[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.PenaltyWeight = weight
	return nil
}

func (m *mockConstraintRepo) SetPriority(_ context.Context, id string, priority int) error {
	c, ok := m.constraints[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.PriorityOrder = priority
	return nil
}

func (m *mockConstraintRepo) Reorder(_ context.Context, branchID string, orderedIDs []string) error {
	for i, id := range orderedIDs {
		c, ok := m.constraints[id]
		if !ok || c.BranchID != branchID {
			return gorm.ErrRecordNotFound
		}
		c.PriorityOrder = i + 1
	}
	return nil
}

// ── Mock MonthlyShiftRepository ──

type monthKey struct {
	branchID    string
	year, month int
}

type mockMonthlyShiftRepo struct {
	rows      map[monthKey][]model.MonthlyShift
	summaries map[monthKey]*model.MonthlyShiftSummary
	idCounter int
}

func newMockMonthlyShiftRepo() *mockMonthlyShiftRepo {
	return &mockMonthlyShiftRepo{
		rows:      make(map[monthKey][]model.MonthlyShift),
		summaries: make(map[monthKey]*model.MonthlyShiftSummary),
	}
}

func (m *mockMonthlyShiftRepo) ReplaceMonth(_ context.Context, branchID string, year, month int, rows []model.MonthlyShift) error {
	key := monthKey{branchID, year, month}
	if len(rows) == 0 {
		delete(m.rows, key)
		return nil
	}
	stored := make([]model.MonthlyShift, len(rows))
	for i := range rows {
		m.idCounter++
		rows[i].ID = fmt.Sprintf("row-%d", m.idCounter)
		rows[i].BranchID = branchID
		rows[i].Year = year
		rows[i].Month = month
		stored[i] = rows[i]
	}
	m.rows[key] = stored
	return nil
}

func (m *mockMonthlyShiftRepo) ListMonth(_ context.Context, branchID string, year, month int) ([]model.MonthlyShift, error) {
	result := append([]model.MonthlyShift(nil), m.rows[monthKey{branchID, year, month}]...)
	sort.Slice(result, func(i, j int) bool {
		return result[i].StaffName < result[j].StaffName
	})
	return result, nil
}

func (m *mockMonthlyShiftRepo) DeleteMonth(_ context.Context, branchID string, year, month int) error {
	key := monthKey{branchID, year, month}
	delete(m.rows, key)
	delete(m.summaries, key)
	return nil
}

func (m *mockMonthlyShiftRepo) SavedMonths(_ context.Context, branchID string) ([]repository.YearMonth, error) {
	var result []repository.YearMonth
	for key := range m.rows {
		if key.branchID == branchID {
			result = append(result, repository.YearMonth{Year: key.year, Month: key.month})
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Year != result[j].Year {
			return result[i].Year > result[j].Year
		}
		return result[i].Month > result[j].Month
	})
	return result, nil
}

func (m *mockMonthlyShiftRepo) UpsertSummary(_ context.Context, s *model.MonthlyShiftSummary) error {
	key := monthKey{s.BranchID, s.Year, s.Month}
	if existing, ok := m.summaries[key]; ok {
		existing.SummaryData = s.SummaryData
		existing.CreatedBy = s.CreatedBy
		return nil
	}
	if s.ID == "" {
		s.ID = fmt.Sprintf("sum-%d", len(m.summaries)+1)
	}
	cp := *s
	m.summaries[key] = &cp
	return nil
}

func (m *mockMonthlyShiftRepo) GetSummary(_ context.Context, branchID string, year, month int) (*model.MonthlyShiftSummary, error) {
	if s, ok := m.summaries[monthKey{branchID, year, month}]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock SwapRepository ──

type mockSwapRepo struct {
	swaps     map[string]*model.SwapRequest
	idCounter int
}

func newMockSwapRepo() *mockSwapRepo {
	return &mockSwapRepo{swaps: make(map[string]*model.SwapRequest)}
}

func (m *mockSwapRepo) Create(_ context.Context, req *model.SwapRequest) error {
	if req.ID == "" {
		m.idCounter++
		req.ID = fmt.Sprintf("swap-%d", m.idCounter)
	}
	req.CreatedAt = time.Now()
	cp := *req
	m.swaps[req.ID] = &cp
	return nil
}

func (m *mockSwapRepo) GetByID(_ context.Context, id string) (*model.SwapRequest, error) {
	if s, ok := m.swaps[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSwapRepo) ListByBranch(_ context.Context, branchID, status string) ([]model.SwapRequest, error) {
	var result []model.SwapRequest
	for _, s := range m.swaps {
		if s.BranchID != branchID {
			continue
		}
		if status != "" && s.Status != status {
			continue
		}
		result = append(result, *s)
	}
	return result, nil
}

func (m *mockSwapRepo) ListForStaff(_ context.Context, branchID, staffName string) ([]model.SwapRequest, error) {
	var result []model.SwapRequest
	for _, s := range m.swaps {
		if s.BranchID != branchID {
			continue
		}
		if s.Requester != staffName && s.Target != staffName {
			continue
		}
		result = append(result, *s)
	}
	return result, nil
}

func (m *mockSwapRepo) UpdateStatus(_ context.Context, id, status, approvedBy string) error {
	s, ok := m.swaps[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	now := time.Now()
	s.Status = status
	s.ApprovedBy = &approvedBy
	s.ApprovedAt = &now
	return nil
}

// ── Mock NotificationRepository ──

type mockNotificationRepo struct {
	notifications map[string]*model.Notification
	idCounter     int
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{notifications: make(map[string]*model.Notification)}
}

func (m *mockNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	if n.ID == "" {
		m.idCounter++
		n.ID = fmt.Sprintf("ntf-%d", m.idCounter)
	}
	n.CreatedAt = time.Now()
	cp := *n
	m.notifications[n.ID] = &cp
	return nil
}

func (m *mockNotificationRepo) List(_ context.Context, branchID, userID string, unreadOnly bool, limit int) ([]model.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	var result []model.Notification
	for _, n := range m.notifications {
		if n.BranchID != branchID || n.UserID != userID {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		result = append(result, *n)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, id string) error {
	n, ok := m.notifications[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	n.Read = true
	return nil
}

func (m *mockNotificationRepo) MarkAllRead(_ context.Context, branchID, userID string) error {
	for _, n := range m.notifications {
		if n.BranchID == branchID && n.UserID == userID {
			n.Read = true
		}
	}
	return nil
}

func (m *mockNotificationRepo) CountUnread(_ context.Context, branchID, userID string) (int64, error) {
	var count int64
	for _, n := range m.notifications {
		if n.BranchID == branchID && n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}
