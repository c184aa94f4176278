package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"

	"uruti-hub/backend/internal/dto"
	"uruti-hub/backend/pkg/events"
)

// recordingPublisher 记录发布的事件
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, evt events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

func setupTestAssignmentService() (AssignmentService, *mockRepos, *recordingPublisher) {
	repo, m := newMockRepos()
	pub := &recordingPublisher{}
	return NewAssignmentService(repo, pub, zap.NewNop()), m, pub
}

func TestAssign_PartialSuccess(t *testing.T) {
	svc, m, pub := setupTestAssignmentService()
	admin := seedAdmin(m)
	_, jane := seedIntern(m, "Jane", "jane@x.com")
	_, john := seedIntern(m, "John", "john@x.com")
	task := seedTask(m, "T1", nil, admin.UserID)
	seedAssignment(m, john.InternID, task.TaskID)

	missing := "0f8fad5b-d9cb-469f-a165-70867728950e"
	result, err := svc.Assign(context.Background(), &dto.CreateAssignmentRequest{
		TaskID:    task.TaskID,
		InternIDs: []string{jane.InternID, john.InternID, missing},
	})
	if err != nil {
		t.Fatalf("部分成功时不应返回错误: %v", err)
	}

	if len(result.Assignments) != 1 || result.Assignments[0].InternID != jane.InternID {
		t.Errorf("期望仅 Jane 分配成功，实际: %+v", result.Assignments)
	}
	if len(result.Errors) != 2 {
		t.Fatalf("期望 2 项错误，实际: %+v", result.Errors)
	}
	if result.Errors[0].InternID != john.InternID || result.Errors[0].Message != ErrAssignmentExists.Error() {
		t.Errorf("John 应报告已分配，实际: %+v", result.Errors[0])
	}
	if result.Errors[1].InternID != missing || result.Errors[1].Message != ErrInternNotFound.Error() {
		t.Errorf("不存在的实习生应报告未找到，实际: %+v", result.Errors[1])
	}

	if got := pub.types(); len(got) != 1 || got[0] != events.TypeAssignmentCreated {
		t.Errorf("期望发布 1 个 assignment.created 事件，实际: %v", got)
	}
}

func TestAssign_AllFailed(t *testing.T) {
	svc, m, _ := setupTestAssignmentService()
	admin := seedAdmin(m)
	_, jane := seedIntern(m, "Jane", "jane@x.com")
	task := seedTask(m, "T1", nil, admin.UserID)
	seedAssignment(m, jane.InternID, task.TaskID)

	_, err := svc.Assign(context.Background(), &dto.CreateAssignmentRequest{
		TaskID:    task.TaskID,
		InternIDs: []string{jane.InternID, "not-a-uuid"},
	})
	if !errors.Is(err, ErrAssignAllFailed) {
		t.Fatalf("期望 ErrAssignAllFailed，实际: %v", err)
	}

	var failed *AssignFailedError
	if !errors.As(err, &failed) {
		t.Fatalf("应可提取 AssignFailedError")
	}
	if len(failed.Errors) != 2 {
		t.Errorf("期望 2 项错误明细，实际: %+v", failed.Errors)
	}
}

func TestAssign_Validation(t *testing.T) {
	svc, m, _ := setupTestAssignmentService()
	_, jane := seedIntern(m, "Jane", "jane@x.com")

	if _, err := svc.Assign(context.Background(), &dto.CreateAssignmentRequest{TaskID: "x"}); !errors.Is(err, ErrAssignNoInterns) {
		t.Errorf("空实习生列表期望 ErrAssignNoInterns，实际: %v", err)
	}

	_, err := svc.Assign(context.Background(), &dto.CreateAssignmentRequest{
		TaskID:    "0f8fad5b-d9cb-469f-a165-70867728950e",
		InternIDs: []string{jane.InternID},
	})
	if !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("任务不存在期望 ErrTaskNotFound，实际: %v", err)
	}
	if len(m.store.internTasks) != 0 {
		t.Error("任务不存在时不应写入分配")
	}
}

func TestAssignOne_SequentialDuplicateConflict(t *testing.T) {
	svc, m, _ := setupTestAssignmentService()
	admin := seedAdmin(m)
	_, jane := seedIntern(m, "Jane", "jane@x.com")
	task := seedTask(m, "T1", nil, admin.UserID)

	if _, err := svc.AssignOne(context.Background(), jane.InternID, task.TaskID); err != nil {
		t.Fatalf("首次分配失败: %v", err)
	}
	if _, err := svc.AssignOne(context.Background(), jane.InternID, task.TaskID); !errors.Is(err, ErrAssignmentExists) {
		t.Errorf("重复分配期望 ErrAssignmentExists，实际: %v", err)
	}
}

func TestAssignOne_UniqueViolationMapsToConflict(t *testing.T) {
	svc, m, _ := setupTestAssignmentService()
	admin := seedAdmin(m)
	_, jane := seedIntern(m, "Jane", "jane@x.com")
	task := seedTask(m, "T1", nil, admin.UserID)
	seedAssignment(m, jane.InternID, task.TaskID)

	// 模拟并发：存在性检查放行，插入时被唯一索引拦截
	m.internTask.existsBlind = true

	if _, err := svc.AssignOne(context.Background(), jane.InternID, task.TaskID); !errors.Is(err, ErrAssignmentExists) {
		t.Errorf("唯一约束冲突应映射为 ErrAssignmentExists，实际: %v", err)
	}
	if len(m.store.internTasks) != 1 {
		t.Errorf("不应产生重复分配，实际=%d", len(m.store.internTasks))
	}
}

func TestAssign_StorageErrorIsOpaqueItem(t *testing.T) {
	svc, m, _ := setupTestAssignmentService()
	admin := seedAdmin(m)
	_, jane := seedIntern(m, "Jane", "jane@x.com")
	task := seedTask(m, "T1", nil, admin.UserID)
	m.internTask.createErr = errors.New(`pq: relation "intern_tasks" does not exist`)

	_, err := svc.Assign(context.Background(), &dto.CreateAssignmentRequest{
		TaskID:    task.TaskID,
		InternIDs: []string{jane.InternID},
	})
	var failed *AssignFailedError
	if !errors.As(err, &failed) {
		t.Fatalf("期望 AssignFailedError，实际: %v", err)
	}
	if failed.Errors[0].Message != errAssignCreateFailure.Error() {
		t.Errorf("存储错误不应泄露细节，实际: %q", failed.Errors[0].Message)
	}
}

func TestAssign_PublishFailureDoesNotFailRequest(t *testing.T) {
	svc, m, pub := setupTestAssignmentService()
	pub.err = errors.New("broker down")
	admin := seedAdmin(m)
	_, jane := seedIntern(m, "Jane", "jane@x.com")
	task := seedTask(m, "T1", nil, admin.UserID)

	if _, err := svc.AssignOne(context.Background(), jane.InternID, task.TaskID); err != nil {
		t.Errorf("事件发布失败不应影响分配结果: %v", err)
	}
}
