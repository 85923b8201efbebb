package v1

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-taskboard/internal/models"
	"github.com/adanyl0v/go-taskboard/internal/services"
)

type stubTaskService struct {
	createTask func(params services.CreateTaskParams) (*models.Task, error)
	findTasks  func(query services.TaskQuery) (*services.TaskPage, error)
	findByID   func(id string) (*models.Task, error)
	updateTask func(id string, params services.UpdateTaskParams) (*models.Task, error)
	toggleTask func(id string) (*models.Task, error)
	deleteTask func(id string) error
}

func (s *stubTaskService) CreateTask(_ context.Context, params services.CreateTaskParams) (*models.Task, error) {
	return s.createTask(params)
}

func (s *stubTaskService) FindTasks(_ context.Context, query services.TaskQuery) (*services.TaskPage, error) {
	return s.findTasks(query)
}

func (s *stubTaskService) FindTaskByID(_ context.Context, id string) (*models.Task, error) {
	return s.findByID(id)
}

func (s *stubTaskService) UpdateTask(_ context.Context, id string, params services.UpdateTaskParams) (*models.Task, error) {
	return s.updateTask(id, params)
}

func (s *stubTaskService) ToggleTaskDone(_ context.Context, id string) (*models.Task, error) {
	return s.toggleTask(id)
}

func (s *stubTaskService) DeleteTask(_ context.Context, id string) error {
	return s.deleteTask(id)
}

type stubCategoryService struct {
	deleteCategory func(id string) error
}

func (s *stubCategoryService) CreateCategory(context.Context, services.CreateCategoryParams) (*models.Category, error) {
	return nil, nil
}

func (s *stubCategoryService) FindCategories(context.Context) ([]*models.Category, error) {
	return nil, nil
}

func (s *stubCategoryService) FindCategoryByName(context.Context, string) (*models.Category, error) {
	return nil, nil
}

func (s *stubCategoryService) FindCategoryByID(context.Context, string) (*models.Category, error) {
	return nil, nil
}

func (s *stubCategoryService) UpdateCategory(context.Context, string, services.UpdateCategoryParams) (*models.Category, error) {
	return nil, nil
}

func (s *stubCategoryService) DeleteCategory(_ context.Context, id string) error {
	return s.deleteCategory(id)
}

type stubStatsService struct {
	getStats func() (*models.TasksStats, error)
}

func (s *stubStatsService) GetTasksStats(context.Context) (*models.TasksStats, error) {
	return s.getStats()
}

func newTestRouter(h Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	router.POST("/tasks", h.HandleCreateTask)
	router.GET("/tasks", h.HandleGetTasks)
	router.GET("/tasks/:id", h.HandleGetTask)
	router.DELETE("/categories/:id", h.HandleDeleteCategory)
	router.GET("/stats", h.HandleGetStats)
	return router
}

func newTestHandler(tasks services.TaskService, categories services.CategoryService, stats services.StatsService) Handler {
	return New(zerolog.Nop(), tasks, categories, stats)
}

func TestHandleGetTasksDefaults(t *testing.T) {
	var captured services.TaskQuery
	tasks := &stubTaskService{
		findTasks: func(query services.TaskQuery) (*services.TaskPage, error) {
			captured = query
			return &services.TaskPage{
				Tasks: []*models.Task{},
				Pagination: services.Pagination{
					Page: query.Page, Limit: query.Limit,
				},
			}, nil
		},
	}
	router := newTestRouter(newTestHandler(tasks, nil, nil))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusOK)
	}
	if captured.Page != 1 || captured.Limit != 20 {
		t.Errorf("defaults: got page %d limit %d, want 1/20", captured.Page, captured.Limit)
	}

	var resp getTasksResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Tasks == nil {
		t.Error("tasks should encode as an empty array, not null")
	}
}

func TestHandleGetTasksPassesFilters(t *testing.T) {
	var captured services.TaskQuery
	tasks := &stubTaskService{
		findTasks: func(query services.TaskQuery) (*services.TaskPage, error) {
			captured = query
			return &services.TaskPage{}, nil
		},
	}
	router := newTestRouter(newTestHandler(tasks, nil, nil))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/tasks?search=buy&status=undone&category=Home&sortField=priority&sortBy=asc&page=2&limit=5", nil)
	router.ServeHTTP(rec, req)

	want := services.TaskQuery{
		Search:    "buy",
		Status:    "undone",
		Category:  "Home",
		SortField: "priority",
		SortBy:    "asc",
		Page:      2,
		Limit:     5,
	}
	if captured != want {
		t.Errorf("query: got %+v, want %+v", captured, want)
	}
}

func TestHandleGetTasksRejectsBadQuery(t *testing.T) {
	tasks := &stubTaskService{
		findTasks: func(services.TaskQuery) (*services.TaskPage, error) {
			t.Fatal("service must not be called on invalid input")
			return nil, nil
		},
	}
	router := newTestRouter(newTestHandler(tasks, nil, nil))

	for _, query := range []string{
		"?status=finished",
		"?sortBy=sideways",
		"?page=0",
		"?limit=0",
	} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/tasks"+query, nil)
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status got %d, want %d", query, rec.Code, http.StatusBadRequest)
		}
	}
}

func TestHandleCreateTaskValidation(t *testing.T) {
	tasks := &stubTaskService{
		createTask: func(services.CreateTaskParams) (*models.Task, error) {
			t.Fatal("service must not be called on invalid input")
			return nil, nil
		},
	}
	router := newTestRouter(newTestHandler(tasks, nil, nil))

	for name, body := range map[string]string{
		"missing title":     `{"description":"no title"}`,
		"priority too high": `{"title":"t","priority":11}`,
		"priority too low":  `{"title":"t","priority":0}`,
		"bad category id":   `{"title":"t","categoryId":"42"}`,
	} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status got %d, want %d", name, rec.Code, http.StatusBadRequest)
		}
	}
}

func TestHandleGetTaskErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"invalid id", services.ErrInvalidID, http.StatusBadRequest},
		{"not found", services.ErrTaskNotFound, http.StatusNotFound},
		{"store failure", errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks := &stubTaskService{
				findByID: func(string) (*models.Task, error) { return nil, tt.err },
			}
			router := newTestRouter(newTestHandler(tasks, nil, nil))

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/tasks/some-id", nil)
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status: got %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestHandleDeleteCategoryConflictCitesCount(t *testing.T) {
	categories := &stubCategoryService{
		deleteCategory: func(string) error {
			return &services.CategoryInUseError{TaskCount: 5}
		},
	}
	router := newTestRouter(newTestHandler(nil, categories, nil))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/categories/some-id", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusConflict)
	}
	if !strings.Contains(rec.Body.String(), "5") {
		t.Errorf("conflict body does not cite the blocking count: %s", rec.Body.String())
	}
}

func TestHandleGetStats(t *testing.T) {
	stats := &stubStatsService{
		getStats: func() (*models.TasksStats, error) {
			return &models.TasksStats{
				TotalTasks:     3,
				DoneTasks:      1,
				PendingTasks:   2,
				CompletionRate: 33,
				OverdueTasks:   1,
			}, nil
		},
	}
	router := newTestRouter(newTestHandler(nil, nil, stats))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusOK)
	}

	var resp getStatsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.TotalTasks != 3 || resp.DoneTasks != 1 || resp.PendingTasks != 2 {
		t.Errorf("counts: got %d/%d/%d, want 3/1/2",
			resp.TotalTasks, resp.DoneTasks, resp.PendingTasks)
	}
	if resp.CompletionRate != 33 {
		t.Errorf("completion rate: got %d, want 33", resp.CompletionRate)
	}
	if resp.TopCategories == nil {
		t.Error("topCategories should encode as an empty array, not null")
	}
}
