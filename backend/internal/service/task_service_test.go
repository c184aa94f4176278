package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"uruti-hub/backend/internal/dto"
)

func setupTestTaskService() (TaskService, *mockRepos) {
	repo, m := newMockRepos()
	return NewTaskService(repo, zap.NewNop()), m
}

func TestTaskService_Create_Success(t *testing.T) {
	svc, m := setupTestTaskService()
	admin := seedAdmin(m)

	resp, err := svc.Create(context.Background(), &dto.CreateTaskRequest{
		Title:       "T1",
		Description: strPtr("Read **the** handbook"),
		DueDate:     strPtr("2026-11-01"),
	}, admin.UserID)
	if err != nil {
		t.Fatalf("Create 失败: %v", err)
	}

	if resp.AssignedBy != admin.UserID {
		t.Errorf("assigned_by 应为调用者，实际=%s", resp.AssignedBy)
	}
	if resp.DueDate == nil || *resp.DueDate != "2026-11-01" {
		t.Errorf("期望 due_date=2026-11-01，实际=%v", resp.DueDate)
	}
	if !strings.Contains(resp.DescriptionHTML, "<strong>the</strong>") {
		t.Errorf("描述应渲染为 HTML，实际=%q", resp.DescriptionHTML)
	}
}

func TestTaskService_Create_Validation(t *testing.T) {
	svc, m := setupTestTaskService()
	admin := seedAdmin(m)

	cases := []struct {
		name string
		req  dto.CreateTaskRequest
		want error
	}{
		{"空标题", dto.CreateTaskRequest{Title: ""}, ErrTaskTitleRequired},
		{"空白标题", dto.CreateTaskRequest{Title: "   "}, ErrTaskTitleRequired},
		{"日期格式错误", dto.CreateTaskRequest{Title: "T", DueDate: strPtr("01/11/2026")}, ErrTaskDueDateInvalid},
		{"非法日期", dto.CreateTaskRequest{Title: "T", DueDate: strPtr("2026-02-30")}, ErrTaskDueDateInvalid},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := tc.req
			if _, err := svc.Create(context.Background(), &req, admin.UserID); !errors.Is(err, tc.want) {
				t.Errorf("期望 %v，实际: %v", tc.want, err)
			}
		})
	}
	if len(m.store.tasks) != 0 {
		t.Errorf("校验失败不应写入任务，实际=%d", len(m.store.tasks))
	}
}

func TestTaskService_Create_NoDueDate(t *testing.T) {
	svc, m := setupTestTaskService()
	admin := seedAdmin(m)

	resp, err := svc.Create(context.Background(), &dto.CreateTaskRequest{Title: "T", DueDate: strPtr("")}, admin.UserID)
	if err != nil {
		t.Fatalf("Create 失败: %v", err)
	}
	if resp.DueDate != nil {
		t.Errorf("空 due_date 应视为未设置，实际=%v", *resp.DueDate)
	}
}

func TestTaskService_GetByID_NotFound(t *testing.T) {
	svc, _ := setupTestTaskService()

	for _, id := range []string{"bogus", "0f8fad5b-d9cb-469f-a165-70867728950e"} {
		if _, err := svc.GetByID(context.Background(), id); !errors.Is(err, ErrTaskNotFound) {
			t.Errorf("GetByID(%s) 期望 ErrTaskNotFound，实际: %v", id, err)
		}
	}
}

func TestTaskService_List_StorageError(t *testing.T) {
	svc, m := setupTestTaskService()
	m.task.listErr = errors.New("timeout")

	if _, err := svc.List(context.Background()); err == nil {
		t.Error("存储错误应向上返回")
	}
}
