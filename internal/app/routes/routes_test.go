package routes_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yigit/registry/internal/app/controllers"
	"github.com/yigit/registry/internal/app/repositories/memory"
	"github.com/yigit/registry/internal/app/routes"
	"github.com/yigit/registry/internal/app/services"
	"github.com/yigit/registry/internal/middleware"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, middleware.SetupValidator())

	svc := services.New(memory.NewRepositories(), nil, services.Options{BcryptCost: bcrypt.MinCost})
	router := gin.New()
	router.Use(middleware.Metrics())
	routes.SetupRouter(router, routes.Controllers{
		Students:    controllers.NewStudentController(svc.Students, svc.Relationships),
		Lecturers:   controllers.NewLecturerController(svc.Lecturers, svc.Relationships),
		Admins:      controllers.NewAdminController(svc.Admins),
		Departments: controllers.NewDepartmentController(svc.Departments, svc.Cascade),
		Courses:     controllers.NewCourseController(svc.Courses, svc.Relationships, svc.Cascade),
		Accounts:    controllers.NewAccountController(svc.Accounts),
	}, routes.MetricsOptions{Enabled: true, Path: "/metrics"})
	return router
}

func call(t *testing.T, router *gin.Engine, method, path string, body interface{}) (int, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func decode(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, v))
}

func student(username string) gin.H {
	return gin.H{"username": username, "password": "s3cret-pass", "firstName": "Test"}
}

func TestPing(t *testing.T) {
	router := newRouter(t)
	code, env := call(t, router, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)
	assert.Equal(t, "pong", env.Message)
}

func TestEnrollmentFlow(t *testing.T) {
	router := newRouter(t)

	code, env := call(t, router, http.MethodPost, "/api/v1/departments", gin.H{"name": "Computer Engineering"})
	require.Equal(t, http.StatusCreated, code)
	var dept struct {
		DepartmentID string `json:"departmentId"`
	}
	decode(t, env, &dept)
	assert.Equal(t, "DEP-00001", dept.DepartmentID)

	code, env = call(t, router, http.MethodPost, "/api/v1/courses", gin.H{"name": "Algorithms", "departmentId": dept.DepartmentID})
	require.Equal(t, http.StatusCreated, code)
	var course struct {
		CourseID string `json:"courseId"`
	}
	decode(t, env, &course)
	assert.Equal(t, "COURSE-00001", course.CourseID)

	code, env = call(t, router, http.MethodPost, "/api/v1/students", student("ada"))
	require.Equal(t, http.StatusCreated, code)
	var st struct {
		UserID    string `json:"userId"`
		StudentID string `json:"studentId"`
	}
	decode(t, env, &st)
	assert.Equal(t, "USER-0000001", st.UserID)
	assert.Equal(t, "STD-0000001", st.StudentID)

	enroll := "/api/v1/students/STD-0000001/courses/COURSE-00001"
	code, _ = call(t, router, http.MethodPost, enroll, nil)
	require.Equal(t, http.StatusOK, code)

	code, env = call(t, router, http.MethodPost, enroll, nil)
	assert.Equal(t, http.StatusConflict, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "RES_004", env.Error.Code)

	code, env = call(t, router, http.MethodGet, "/api/v1/courses/COURSE-00001/students", nil)
	require.Equal(t, http.StatusOK, code)
	var enrolled []struct {
		StudentID string `json:"studentId"`
	}
	decode(t, env, &enrolled)
	require.Len(t, enrolled, 1)
	assert.Equal(t, "STD-0000001", enrolled[0].StudentID)

	code, _ = call(t, router, http.MethodDelete, enroll, nil)
	assert.Equal(t, http.StatusOK, code)
	code, env = call(t, router, http.MethodDelete, enroll, nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "RES_004", env.Error.Code)
}

func TestErrorMapping(t *testing.T) {
	router := newRouter(t)
	code, _ := call(t, router, http.MethodPost, "/api/v1/students", student("ada"))
	require.Equal(t, http.StatusCreated, code)

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		status int
		code   string
	}{
		{"malformed identifier", http.MethodGet, "/api/v1/students/bogus", nil, http.StatusBadRequest, "VAL_002"},
		{"wrong series", http.MethodGet, "/api/v1/students/LEC-00001", nil, http.StatusBadRequest, "VAL_002"},
		{"unknown student", http.MethodGet, "/api/v1/students/STD-9999999", nil, http.StatusNotFound, "RES_001"},
		{"unknown course", http.MethodPost, "/api/v1/students/STD-0000001/courses/COURSE-00042", nil, http.StatusNotFound, "RES_001"},
		{"missing username", http.MethodPost, "/api/v1/students", gin.H{"password": "s3cret-pass"}, http.StatusBadRequest, "VAL_001"},
		{"bad username", http.MethodPost, "/api/v1/students", student("a b"), http.StatusBadRequest, "VAL_001"},
		{"duplicate username", http.MethodPost, "/api/v1/students", student("ada"), http.StatusConflict, "RES_002"},
		{"wrong password", http.MethodPost, "/api/v1/accounts/verify", gin.H{"username": "ada", "password": "nope-nope"}, http.StatusUnauthorized, "AUTH_001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := call(t, router, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, code)
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
		})
	}
}

func TestStudentListPagination(t *testing.T) {
	router := newRouter(t)
	for _, name := range []string{"ada", "alan", "barbara"} {
		code, _ := call(t, router, http.MethodPost, "/api/v1/students", student(name))
		require.Equal(t, http.StatusCreated, code)
	}

	code, env := call(t, router, http.MethodGet, "/api/v1/students?page=2&size=2", nil)
	require.Equal(t, http.StatusOK, code)
	var page struct {
		Items []struct {
			Username string `json:"username"`
		} `json:"items"`
		Pagination struct {
			CurrentPage int `json:"currentPage"`
			TotalPages  int `json:"totalPages"`
			TotalItems  int `json:"totalItems"`
		} `json:"pagination"`
	}
	decode(t, env, &page)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "barbara", page.Items[0].Username)
	assert.Equal(t, 2, page.Pagination.CurrentPage)
	assert.Equal(t, 2, page.Pagination.TotalPages)
	assert.Equal(t, 3, page.Pagination.TotalItems)
}

func TestDeleteDepartmentReturnsReport(t *testing.T) {
	router := newRouter(t)
	code, _ := call(t, router, http.MethodPost, "/api/v1/departments", gin.H{"name": "Physics"})
	require.Equal(t, http.StatusCreated, code)

	body := student("ada")
	body["departmentId"] = "DEP-00001"
	code, _ = call(t, router, http.MethodPost, "/api/v1/students", body)
	require.Equal(t, http.StatusCreated, code)

	code, env := call(t, router, http.MethodDelete, "/api/v1/departments/DEP-00001", nil)
	require.Equal(t, http.StatusOK, code)
	var resp struct {
		Deleted bool `json:"deleted"`
		Report  struct {
			OrphanedStudents int `json:"orphanedStudents"`
		} `json:"report"`
	}
	decode(t, env, &resp)
	assert.True(t, resp.Deleted)
	assert.Equal(t, 1, resp.Report.OrphanedStudents)

	code, env = call(t, router, http.MethodGet, "/api/v1/students/STD-0000001", nil)
	require.Equal(t, http.StatusOK, code)
	var st map[string]interface{}
	decode(t, env, &st)
	assert.NotContains(t, st, "departmentId")
}

func TestMetricsEndpoint(t *testing.T) {
	router := newRouter(t)
	call(t, router, http.MethodGet, "/ping", nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "registry_http_requests_total")
}

func TestSwaggerDocServed(t *testing.T) {
	router := newRouter(t)
	routes.SetupSwagger(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Registry API")
	assert.Contains(t, w.Body.String(), "/students/{id}/courses/{courseId}")
}
