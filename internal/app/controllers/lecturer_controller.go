package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/registry/internal/app/models"
	"github.com/yigit/registry/internal/app/models/dto"
	"github.com/yigit/registry/internal/app/services"
	"github.com/yigit/registry/internal/middleware"
)

// LecturerController handles lecturer-related operations
type LecturerController struct {
	lecturerService     *services.LecturerService
	relationshipService *services.RelationshipService
}

// NewLecturerController creates a new LecturerController
func NewLecturerController(lecturerService *services.LecturerService, relationshipService *services.RelationshipService) *LecturerController {
	return &LecturerController{
		lecturerService:     lecturerService,
		relationshipService: relationshipService,
	}
}

// CreateLecturer handles lecturer creation
// @Summary Create a new lecturer
// @Description Registers a lecturer and issues its user and lecturer identifiers
// @Tags lecturers
// @Accept json
// @Produce json
// @Param request body dto.CreateLecturerRequest true "Lecturer information"
// @Success 201 {object} dto.APIResponse{data=models.Lecturer} "Lecturer created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Department not found"
// @Failure 409 {object} dto.ErrorResponse "Username already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /lecturers [post]
func (c *LecturerController) CreateLecturer(ctx *gin.Context) {
	var req dto.CreateLecturerRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	lecturer, err := c.lecturerService.Create(ctx, services.NewLecturer{
		NewUser:      newUser(req.CreateUserRequest),
		DepartmentID: req.DepartmentID,
		IsLIC:        req.IsLIC,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, lecturer, "Lecturer created successfully")
}

// GetLecturers lists lecturers
// @Summary List lecturers
// @Description Lists all lecturers, the lecturers of a department, or the lecturer with a username
// @Tags lecturers
// @Produce json
// @Param departmentId query string false "Filter by department ID"
// @Param username query string false "Look up by username"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]models.Lecturer}} "Lecturers retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid department ID"
// @Failure 404 {object} dto.ErrorResponse "Department or lecturer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /lecturers [get]
func (c *LecturerController) GetLecturers(ctx *gin.Context) {
	if username := ctx.Query("username"); username != "" {
		lecturer, err := c.lecturerService.GetByUsername(ctx, username)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		respond(ctx, http.StatusOK, lecturer, "Lecturer retrieved successfully")
		return
	}

	var (
		lecturers []*models.Lecturer
		err       error
	)
	if departmentID := ctx.Query("departmentId"); departmentID != "" {
		lecturers, err = c.lecturerService.GetByDepartment(ctx, departmentID)
	} else {
		lecturers, err = c.lecturerService.GetAll(ctx)
	}
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondPage(ctx, http.StatusOK, lecturers, "Lecturers retrieved successfully")
}

// GetLecturerByID retrieves a lecturer
// @Summary Get lecturer by ID
// @Description Retrieves a lecturer, or its summary projection (with course ids) with view=summary
// @Tags lecturers
// @Produce json
// @Param id path string true "Lecturer ID" example(LEC-00001)
// @Param view query string false "Use summary for the projection map" Enums(summary)
// @Success 200 {object} dto.APIResponse{data=models.Lecturer} "Lecturer retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid lecturer ID"
// @Failure 404 {object} dto.ErrorResponse "Lecturer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /lecturers/{id} [get]
func (c *LecturerController) GetLecturerByID(ctx *gin.Context) {
	id := ctx.Param("id")
	if ctx.Query("view") == viewSummary {
		summary, err := c.lecturerService.Summary(ctx, id)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		respond(ctx, http.StatusOK, summary, "Lecturer retrieved successfully")
		return
	}

	lecturer, err := c.lecturerService.Get(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, lecturer, "Lecturer retrieved successfully")
}

// UpdateLecturer replaces the profile of a lecturer
// @Summary Update a lecturer
// @Tags lecturers
// @Accept json
// @Produce json
// @Param id path string true "Lecturer ID"
// @Param request body dto.UpdateLecturerRequest true "Profile"
// @Success 200 {object} dto.APIResponse{data=models.Lecturer} "Lecturer updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Lecturer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /lecturers/{id} [put]
func (c *LecturerController) UpdateLecturer(ctx *gin.Context) {
	var req dto.UpdateLecturerRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	lecturer, err := c.lecturerService.Update(ctx, ctx.Param("id"), req.ToProfile())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, lecturer, "Lecturer updated successfully")
}

// DeleteLecturer deletes a lecturer and its course assignments
// @Summary Delete a lecturer
// @Tags lecturers
// @Produce json
// @Param id path string true "Lecturer ID"
// @Success 200 {object} dto.APIResponse{data=dto.DeletedResponse} "Lecturer deleted successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid lecturer ID"
// @Failure 404 {object} dto.ErrorResponse "Lecturer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /lecturers/{id} [delete]
func (c *LecturerController) DeleteLecturer(ctx *gin.Context) {
	if err := c.lecturerService.Delete(ctx, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, dto.DeletedResponse{Deleted: true}, "Lecturer deleted successfully")
}

// SetLIC marks a lecturer as lecturer in charge
// @Summary Set the LIC flag
// @Tags lecturers
// @Produce json
// @Param id path string true "Lecturer ID"
// @Success 200 {object} dto.APIResponse{data=models.Lecturer} "Lecturer updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid lecturer ID"
// @Failure 404 {object} dto.ErrorResponse "Lecturer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /lecturers/{id}/lic [post]
func (c *LecturerController) SetLIC(ctx *gin.Context) {
	c.setLIC(ctx, true)
}

// ClearLIC removes the lecturer in charge flag
// @Summary Clear the LIC flag
// @Tags lecturers
// @Produce json
// @Param id path string true "Lecturer ID"
// @Success 200 {object} dto.APIResponse{data=models.Lecturer} "Lecturer updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid lecturer ID"
// @Failure 404 {object} dto.ErrorResponse "Lecturer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /lecturers/{id}/lic [delete]
func (c *LecturerController) ClearLIC(ctx *gin.Context) {
	c.setLIC(ctx, false)
}

func (c *LecturerController) setLIC(ctx *gin.Context, isLIC bool) {
	lecturer, err := c.relationshipService.SetLIC(ctx, ctx.Param("id"), isLIC)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, lecturer, "Lecturer updated successfully")
}

// AssignDepartment sets the department of a lecturer
// @Summary Assign a lecturer to a department
// @Description Overwrites the department reference; on failure the previous one is kept
// @Tags lecturers
// @Produce json
// @Param id path string true "Lecturer ID"
// @Param departmentId path string true "Department ID"
// @Success 200 {object} dto.APIResponse{data=models.Lecturer} "Lecturer assigned successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid identifier"
// @Failure 404 {object} dto.ErrorResponse "Lecturer or department not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /lecturers/{id}/department/{departmentId} [put]
func (c *LecturerController) AssignDepartment(ctx *gin.Context) {
	lecturer, err := c.relationshipService.AssignLecturerToDepartment(ctx, ctx.Param("id"), ctx.Param("departmentId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, lecturer, "Lecturer assigned successfully")
}

// AssignCourse assigns a lecturer to a course
// @Summary Assign a lecturer to a course
// @Tags lecturers
// @Produce json
// @Param id path string true "Lecturer ID"
// @Param courseId path string true "Course ID"
// @Success 200 {object} dto.APIResponse{data=models.CourseView} "Lecturer assigned successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid identifier"
// @Failure 404 {object} dto.ErrorResponse "Lecturer or course not found"
// @Failure 409 {object} dto.ErrorResponse "Lecturer already assigned"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /lecturers/{id}/courses/{courseId} [post]
func (c *LecturerController) AssignCourse(ctx *gin.Context) {
	view, err := c.relationshipService.AssignLecturerToCourse(ctx, ctx.Param("id"), ctx.Param("courseId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, view, "Lecturer assigned successfully")
}

// UnassignCourse removes a lecturer from a course
// @Summary Unassign a lecturer from a course
// @Tags lecturers
// @Produce json
// @Param id path string true "Lecturer ID"
// @Param courseId path string true "Course ID"
// @Success 200 {object} dto.APIResponse{data=models.CourseView} "Lecturer unassigned successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid identifier"
// @Failure 404 {object} dto.ErrorResponse "Lecturer or course not found"
// @Failure 409 {object} dto.ErrorResponse "Lecturer not assigned"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /lecturers/{id}/courses/{courseId} [delete]
func (c *LecturerController) UnassignCourse(ctx *gin.Context) {
	view, err := c.relationshipService.UnassignLecturerFromCourse(ctx, ctx.Param("id"), ctx.Param("courseId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, view, "Lecturer unassigned successfully")
}

// GetLecturerCourses lists the courses of a lecturer
// @Summary List the courses of a lecturer
// @Tags lecturers
// @Produce json
// @Param id path string true "Lecturer ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Course} "Courses retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid lecturer ID"
// @Failure 404 {object} dto.ErrorResponse "Lecturer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /lecturers/{id}/courses [get]
func (c *LecturerController) GetLecturerCourses(ctx *gin.Context) {
	courses, err := c.relationshipService.ListCoursesForLecturer(ctx, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, courses, "Courses retrieved successfully")
}
