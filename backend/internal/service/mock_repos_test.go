package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"uruti-hub/backend/internal/model"
	"uruti-hub/backend/internal/repository"
	pkgerrors "uruti-hub/backend/pkg/errors"
)

// ═══════════════════════════════════════════════════════════
// 内存存储：模拟数据库的唯一约束与预加载
// ═══════════════════════════════════════════════════════════

var mockEpoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type mockStore struct {
	users       map[string]*model.User
	interns     map[string]*model.Intern
	tasks       map[string]*model.Task
	internTasks map[string]*model.InternTask
	submissions map[string]*model.Submission
	seq         int
}

func newMockStore() *mockStore {
	return &mockStore{
		users:       make(map[string]*model.User),
		interns:     make(map[string]*model.Intern),
		tasks:       make(map[string]*model.Task),
		internTasks: make(map[string]*model.InternTask),
		submissions: make(map[string]*model.Submission),
	}
}

// tick 单调递增的时间戳，保证顺序可复现
func (st *mockStore) tick() time.Time {
	st.seq++
	return mockEpoch.Add(time.Duration(st.seq) * time.Second)
}

// internTaskWithRefs 模拟 Preload("Task").Preload("Intern")
func (st *mockStore) internTaskWithRefs(id string) *model.InternTask {
	it, ok := st.internTasks[id]
	if !ok {
		return nil
	}
	cp := *it
	cp.Task = st.tasks[it.TaskID]
	cp.Intern = st.interns[it.InternID]
	return &cp
}

func (st *mockStore) submissionWithRefs(s *model.Submission) model.Submission {
	cp := *s
	cp.InternTask = st.internTaskWithRefs(s.InternTaskID)
	return cp
}

// mockRepos 测试中可直接访问各 mock 以注入错误
type mockRepos struct {
	store      *mockStore
	user       *mockUserRepo
	intern     *mockInternRepo
	task       *mockTaskRepo
	internTask *mockInternTaskRepo
	submission *mockSubmissionRepo
}

func newMockRepos() (*repository.Repository, *mockRepos) {
	st := newMockStore()
	m := &mockRepos{
		store:      st,
		user:       &mockUserRepo{st: st},
		intern:     &mockInternRepo{st: st},
		task:       &mockTaskRepo{st: st},
		internTask: &mockInternTaskRepo{st: st},
		submission: &mockSubmissionRepo{st: st},
	}
	repo := &repository.Repository{
		User:       m.user,
		Intern:     m.intern,
		Task:       m.task,
		InternTask: m.internTask,
		Submission: m.submission,
	}
	return repo, m
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	st        *mockStore
	createErr error
	getErr    error
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, u := range m.st.users {
		if u.Email == user.Email {
			return pkgerrors.ErrDuplicate
		}
	}
	if user.UserID == "" {
		user.UserID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = m.st.tick()
	}
	m.st.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if u, ok := m.st.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, u := range m.st.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock InternRepository ──

type mockInternRepo struct {
	st        *mockStore
	createErr error
}

func (m *mockInternRepo) Create(_ context.Context, intern *model.Intern) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, i := range m.st.interns {
		if i.UserID == intern.UserID {
			return pkgerrors.ErrDuplicate
		}
	}
	if intern.InternID == "" {
		intern.InternID = uuid.NewString()
	}
	if intern.CreatedAt.IsZero() {
		intern.CreatedAt = m.st.tick()
	}
	m.st.interns[intern.InternID] = intern
	return nil
}

func (m *mockInternRepo) withUser(i *model.Intern) *model.Intern {
	cp := *i
	cp.User = m.st.users[i.UserID]
	return &cp
}

func (m *mockInternRepo) GetByID(_ context.Context, id string) (*model.Intern, error) {
	if i, ok := m.st.interns[id]; ok {
		return m.withUser(i), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockInternRepo) GetByUserID(_ context.Context, userID string) (*model.Intern, error) {
	for _, i := range m.st.interns {
		if i.UserID == userID {
			return m.withUser(i), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockInternRepo) List(_ context.Context) ([]model.Intern, error) {
	result := make([]model.Intern, 0, len(m.st.interns))
	for _, i := range m.st.interns {
		result = append(result, *m.withUser(i))
	}
	sort.Slice(result, func(a, b int) bool { return result[a].CreatedAt.After(result[b].CreatedAt) })
	return result, nil
}

func (m *mockInternRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.st.interns)), nil
}

// ── Mock TaskRepository ──

type mockTaskRepo struct {
	st      *mockStore
	listErr error
}

func (m *mockTaskRepo) Create(_ context.Context, task *model.Task) error {
	if task.TaskID == "" {
		task.TaskID = uuid.NewString()
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = m.st.tick()
	}
	m.st.tasks[task.TaskID] = task
	return nil
}

func (m *mockTaskRepo) GetByID(_ context.Context, id string) (*model.Task, error) {
	if t, ok := m.st.tasks[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTaskRepo) List(_ context.Context) ([]model.Task, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	result := make([]model.Task, 0, len(m.st.tasks))
	for _, t := range m.st.tasks {
		result = append(result, *t)
	}
	sort.Slice(result, func(a, b int) bool { return result[a].CreatedAt.After(result[b].CreatedAt) })
	return result, nil
}

func (m *mockTaskRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.st.tasks)), nil
}

// ── Mock InternTaskRepository ──

type mockInternTaskRepo struct {
	st *mockStore
	// existsBlind 为 true 时 Exists 恒返回 false，模拟并发下两次请求都通过存在性检查
	existsBlind bool
	createErr   error
}

func (m *mockInternTaskRepo) Create(_ context.Context, it *model.InternTask) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, existing := range m.st.internTasks {
		if existing.InternID == it.InternID && existing.TaskID == it.TaskID {
			return pkgerrors.ErrDuplicate
		}
	}
	if it.InternTaskID == "" {
		it.InternTaskID = uuid.NewString()
	}
	if it.AssignedAt.IsZero() {
		it.AssignedAt = m.st.tick()
	}
	m.st.internTasks[it.InternTaskID] = it
	return nil
}

func (m *mockInternTaskRepo) GetByID(_ context.Context, id string) (*model.InternTask, error) {
	if it := m.st.internTaskWithRefs(id); it != nil {
		return it, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockInternTaskRepo) Exists(_ context.Context, internID, taskID string) (bool, error) {
	if m.existsBlind {
		return false, nil
	}
	for _, it := range m.st.internTasks {
		if it.InternID == internID && it.TaskID == taskID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockInternTaskRepo) ListWithStatusByIntern(_ context.Context, internID string) ([]model.AssignmentWithStatus, error) {
	var result []model.AssignmentWithStatus
	for _, it := range m.st.internTasks {
		if it.InternID != internID {
			continue
		}
		task := m.st.tasks[it.TaskID]
		row := model.AssignmentWithStatus{
			InternTaskID: it.InternTaskID,
			InternID:     it.InternID,
			TaskID:       it.TaskID,
			AssignedAt:   it.AssignedAt,
			Title:        task.Title,
			Description:  task.Description,
			DueDate:      task.DueDate,
		}

		var latest *model.Submission
		for _, s := range m.st.submissions {
			if s.InternTaskID == it.InternTaskID && (latest == nil || s.Attempt > latest.Attempt) {
				latest = s
			}
		}
		if latest != nil {
			id, st, at, attempt := latest.SubmissionID, latest.Status, latest.SubmittedAt, latest.Attempt
			row.LatestSubmissionID = &id
			row.LatestSubmissionStatus = &st
			row.LatestSubmittedAt = &at
			row.LatestAttempt = &attempt
		}
		result = append(result, row)
	}

	// due_date ASC NULLS LAST, assigned_at ASC
	sort.Slice(result, func(a, b int) bool {
		da, db := result[a].DueDate, result[b].DueDate
		switch {
		case da == nil && db == nil:
			return result[a].AssignedAt.Before(result[b].AssignedAt)
		case da == nil:
			return false
		case db == nil:
			return true
		case !da.Equal(*db):
			return da.Before(*db)
		default:
			return result[a].AssignedAt.Before(result[b].AssignedAt)
		}
	})
	return result, nil
}

func (m *mockInternTaskRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.st.internTasks)), nil
}

// ── Mock SubmissionRepository ──

type mockSubmissionRepo struct {
	st *mockStore
	// activeBlind 为 true 时 HasActive 恒返回 false，模拟并发提交
	activeBlind bool
	updateErr   error
	updateCalls int
	listErr     error
}

func (m *mockSubmissionRepo) Create(_ context.Context, sub *model.Submission) error {
	for _, s := range m.st.submissions {
		if s.InternTaskID != sub.InternTaskID {
			continue
		}
		// uq_submissions_active / uq_submissions_attempt
		if s.Status != model.SubmissionDenied || s.Attempt == sub.Attempt {
			return pkgerrors.ErrDuplicate
		}
	}
	if sub.SubmissionID == "" {
		sub.SubmissionID = uuid.NewString()
	}
	sub.SubmittedAt = m.st.tick()
	m.st.submissions[sub.SubmissionID] = sub
	return nil
}

func (m *mockSubmissionRepo) GetByID(_ context.Context, id string) (*model.Submission, error) {
	if s, ok := m.st.submissions[id]; ok {
		cp := m.st.submissionWithRefs(s)
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubmissionRepo) HasActive(_ context.Context, internTaskID string) (bool, error) {
	if m.activeBlind {
		return false, nil
	}
	for _, s := range m.st.submissions {
		if s.InternTaskID == internTaskID && s.Status != model.SubmissionDenied {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockSubmissionRepo) MaxAttempt(_ context.Context, internTaskID string) (int, error) {
	max := 0
	for _, s := range m.st.submissions {
		if s.InternTaskID == internTaskID && s.Attempt > max {
			max = s.Attempt
		}
	}
	return max, nil
}

func (m *mockSubmissionRepo) UpdateReview(_ context.Context, id string, upd repository.ReviewUpdate) (int64, error) {
	m.updateCalls++
	if m.updateErr != nil {
		return 0, m.updateErr
	}
	s, ok := m.st.submissions[id]
	if !ok {
		return 0, nil
	}
	if upd.OnlyPending && s.Status != model.SubmissionPendingReview {
		return 0, nil
	}
	// uq_submissions_active：同一分配至多一条非 Denied 提交
	if upd.Status != model.SubmissionDenied {
		for _, other := range m.st.submissions {
			if other.SubmissionID != s.SubmissionID && other.InternTaskID == s.InternTaskID && other.Status != model.SubmissionDenied {
				return 0, gorm.ErrDuplicatedKey
			}
		}
	}
	reviewer := upd.ReviewerID
	reviewedAt := upd.ReviewedAt
	s.Status = upd.Status
	s.Feedback = upd.Feedback
	s.ReviewedBy = &reviewer
	s.ReviewedAt = &reviewedAt
	return 1, nil
}

func (m *mockSubmissionRepo) filter(keep func(*model.Submission) bool) []model.Submission {
	var result []model.Submission
	for _, s := range m.st.submissions {
		if keep(s) {
			result = append(result, m.st.submissionWithRefs(s))
		}
	}
	return result
}

func (m *mockSubmissionRepo) ListByStatus(_ context.Context, status model.SubmissionStatus) ([]model.Submission, error) {
	result := m.filter(func(s *model.Submission) bool { return s.Status == status })
	sort.Slice(result, func(a, b int) bool { return result[a].SubmittedAt.After(result[b].SubmittedAt) })
	return result, nil
}

func (m *mockSubmissionRepo) ListByIntern(_ context.Context, internID string) ([]model.Submission, error) {
	result := m.filter(func(s *model.Submission) bool {
		it, ok := m.st.internTasks[s.InternTaskID]
		return ok && it.InternID == internID
	})
	sort.Slice(result, func(a, b int) bool {
		if result[a].InternTaskID != result[b].InternTaskID {
			return result[a].InternTaskID < result[b].InternTaskID
		}
		return result[a].Attempt > result[b].Attempt
	})
	return result, nil
}

func (m *mockSubmissionRepo) ListByInternTask(_ context.Context, internTaskID string) ([]model.Submission, error) {
	result := m.filter(func(s *model.Submission) bool { return s.InternTaskID == internTaskID })
	sort.Slice(result, func(a, b int) bool { return result[a].Attempt < result[b].Attempt })
	return result, nil
}

func (m *mockSubmissionRepo) ListAll(_ context.Context) ([]model.Submission, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	result := m.filter(func(*model.Submission) bool { return true })
	sort.Slice(result, func(a, b int) bool { return result[a].SubmittedAt.After(result[b].SubmittedAt) })
	return result, nil
}

func (m *mockSubmissionRepo) CountByStatus(_ context.Context) (map[model.SubmissionStatus]int64, error) {
	result := make(map[model.SubmissionStatus]int64)
	for _, s := range m.st.submissions {
		result[s.Status]++
	}
	return result, nil
}

// ═══════════════════════════════════════════════════════════
// 数据构造辅助
// ═══════════════════════════════════════════════════════════

func seedAdmin(m *mockRepos) *model.User {
	u := &model.User{Email: "admin@x.com", PasswordHash: "-", Role: model.RoleAdmin}
	_ = m.user.Create(context.Background(), u)
	return u
}

func seedIntern(m *mockRepos, name, email string) (*model.User, *model.Intern) {
	u := &model.User{Email: email, PasswordHash: "-", Role: model.RoleIntern}
	_ = m.user.Create(context.Background(), u)
	i := &model.Intern{UserID: u.UserID, Name: name}
	_ = m.intern.Create(context.Background(), i)
	return u, i
}

func seedTask(m *mockRepos, title string, due *time.Time, adminID string) *model.Task {
	t := &model.Task{Title: title, DueDate: due, AssignedBy: adminID}
	_ = m.task.Create(context.Background(), t)
	return t
}

func seedAssignment(m *mockRepos, internID, taskID string) *model.InternTask {
	it := &model.InternTask{InternID: internID, TaskID: taskID}
	_ = m.internTask.Create(context.Background(), it)
	return it
}

func datePtr(y int, mo time.Month, d int) *time.Time {
	t := time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
	return &t
}
