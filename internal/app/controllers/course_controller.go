package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/registry/internal/app/models"
	"github.com/yigit/registry/internal/app/models/dto"
	"github.com/yigit/registry/internal/app/services"
	"github.com/yigit/registry/internal/middleware"
)

// CourseController handles course-related operations
type CourseController struct {
	courseService       *services.CourseService
	relationshipService *services.RelationshipService
	cascadeService      *services.CascadeService
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService *services.CourseService, relationshipService *services.RelationshipService, cascadeService *services.CascadeService) *CourseController {
	return &CourseController{
		courseService:       courseService,
		relationshipService: relationshipService,
		cascadeService:      cascadeService,
	}
}

// CreateCourse handles course creation
// @Summary Create a new course
// @Tags courses
// @Accept json
// @Produce json
// @Param request body dto.CreateCourseRequest true "Course information"
// @Success 201 {object} dto.APIResponse{data=models.Course} "Course created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Department not found"
// @Failure 409 {object} dto.ErrorResponse "Course already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	var req dto.CreateCourseRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	course, err := c.courseService.Create(ctx, req.Name, req.DepartmentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, course, "Course created successfully")
}

// GetCourses lists courses
// @Summary List courses
// @Description Lists all courses, the courses of a department, or the course with a name
// @Tags courses
// @Produce json
// @Param name query string false "Look up by name"
// @Param departmentId query string false "Filter by department ID"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]models.Course}} "Courses retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid department ID"
// @Failure 404 {object} dto.ErrorResponse "Department or course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses [get]
func (c *CourseController) GetCourses(ctx *gin.Context) {
	if name := ctx.Query("name"); name != "" {
		course, err := c.courseService.GetByName(ctx, name)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		respond(ctx, http.StatusOK, course, "Course retrieved successfully")
		return
	}

	var (
		courses []*models.Course
		err     error
	)
	if departmentID := ctx.Query("departmentId"); departmentID != "" {
		courses, err = c.courseService.GetByDepartment(ctx, departmentID)
	} else {
		courses, err = c.courseService.GetAll(ctx)
	}
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondPage(ctx, http.StatusOK, courses, "Courses retrieved successfully")
}

// GetCourseByID retrieves a course with its students and lecturers
// @Summary Get course by ID
// @Tags courses
// @Produce json
// @Param id path string true "Course ID" example(COURSE-00001)
// @Success 200 {object} dto.APIResponse{data=models.CourseView} "Course retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid course ID"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id} [get]
func (c *CourseController) GetCourseByID(ctx *gin.Context) {
	view, err := c.courseService.View(ctx, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, view, "Course retrieved successfully")
}

// UpdateCourse updates an existing course
// @Summary Update a course
// @Tags courses
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param request body dto.UpdateCourseRequest true "Updated course information"
// @Success 200 {object} dto.APIResponse{data=models.Course} "Course updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 404 {object} dto.ErrorResponse "Course or department not found"
// @Failure 409 {object} dto.ErrorResponse "Course name already taken"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	var req dto.UpdateCourseRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	course, err := c.courseService.Update(ctx, ctx.Param("id"), req.Name, req.DepartmentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, course, "Course updated successfully")
}

// DeleteCourse deletes a course and every enrollment and assignment of it
// @Summary Delete a course
// @Tags courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} dto.APIResponse{data=dto.DeletedResponse} "Course deleted successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid course ID"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	if err := c.cascadeService.DeleteCourse(ctx, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, dto.DeletedResponse{Deleted: true}, "Course deleted successfully")
}

// GetCourseStudents lists the students enrolled in a course
// @Summary List the students of a course
// @Tags courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Student} "Students retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid course ID"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id}/students [get]
func (c *CourseController) GetCourseStudents(ctx *gin.Context) {
	students, err := c.relationshipService.ListStudentsForCourse(ctx, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, students, "Students retrieved successfully")
}

// GetCourseLecturers lists the lecturers assigned to a course
// @Summary List the lecturers of a course
// @Tags courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Lecturer} "Lecturers retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid course ID"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id}/lecturers [get]
func (c *CourseController) GetCourseLecturers(ctx *gin.Context) {
	lecturers, err := c.relationshipService.ListLecturersForCourse(ctx, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, lecturers, "Lecturers retrieved successfully")
}
