package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/registry/internal/app/models"
	"github.com/yigit/registry/internal/app/models/dto"
	"github.com/yigit/registry/internal/app/services"
	"github.com/yigit/registry/internal/middleware"
)

// StudentController handles student-related operations
type StudentController struct {
	studentService      *services.StudentService
	relationshipService *services.RelationshipService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService *services.StudentService, relationshipService *services.RelationshipService) *StudentController {
	return &StudentController{
		studentService:      studentService,
		relationshipService: relationshipService,
	}
}

// CreateStudent handles student creation
// @Summary Create a new student
// @Description Registers a student and issues its user and student identifiers
// @Tags students
// @Accept json
// @Produce json
// @Param request body dto.CreateStudentRequest true "Student information"
// @Success 201 {object} dto.APIResponse{data=models.Student} "Student created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Department not found"
// @Failure 409 {object} dto.ErrorResponse "Username already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students [post]
func (c *StudentController) CreateStudent(ctx *gin.Context) {
	var req dto.CreateStudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	student, err := c.studentService.Create(ctx, newStudent(req))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, student, "Student created successfully")
}

// CreateStudentsBatch handles batch student creation
// @Summary Create students in batch
// @Description Registers several students in one transaction; either all are created or none
// @Tags students
// @Accept json
// @Produce json
// @Param request body dto.BatchCreateStudentsRequest true "Students"
// @Success 201 {object} dto.APIResponse{data=[]models.Student} "Students created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Username already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/batch [post]
func (c *StudentController) CreateStudentsBatch(ctx *gin.Context) {
	var req dto.BatchCreateStudentsRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	in := make([]services.NewStudent, 0, len(req.Students))
	for _, s := range req.Students {
		in = append(in, newStudent(s))
	}
	students, err := c.studentService.CreateBatch(ctx, in)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, students, "Students created successfully")
}

// GetStudents lists students
// @Summary List students
// @Description Lists all students, the students of a department, or the student with a username
// @Tags students
// @Produce json
// @Param departmentId query string false "Filter by department ID"
// @Param username query string false "Look up by username"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]models.Student}} "Students retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid department ID"
// @Failure 404 {object} dto.ErrorResponse "Department or student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students [get]
func (c *StudentController) GetStudents(ctx *gin.Context) {
	if username := ctx.Query("username"); username != "" {
		student, err := c.studentService.GetByUsername(ctx, username)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		respond(ctx, http.StatusOK, student, "Student retrieved successfully")
		return
	}

	var (
		students []*models.Student
		err      error
	)
	if departmentID := ctx.Query("departmentId"); departmentID != "" {
		students, err = c.studentService.GetByDepartment(ctx, departmentID)
	} else {
		students, err = c.studentService.GetAll(ctx)
	}
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondPage(ctx, http.StatusOK, students, "Students retrieved successfully")
}

// GetStudentByID retrieves a student
// @Summary Get student by ID
// @Description Retrieves a student, or its summary projection with view=summary
// @Tags students
// @Produce json
// @Param id path string true "Student ID" example(STD-0000001)
// @Param view query string false "Use summary for the projection map" Enums(summary)
// @Success 200 {object} dto.APIResponse{data=models.Student} "Student retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid student ID"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id} [get]
func (c *StudentController) GetStudentByID(ctx *gin.Context) {
	id := ctx.Param("id")
	if ctx.Query("view") == viewSummary {
		summary, err := c.studentService.Summary(ctx, id)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		respond(ctx, http.StatusOK, summary, "Student retrieved successfully")
		return
	}

	student, err := c.studentService.Get(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, student, "Student retrieved successfully")
}

// UpdateStudent replaces the profile of a student
// @Summary Update a student
// @Description Replaces the profile fields of a student; identifiers and username never change
// @Tags students
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param request body dto.UpdateStudentRequest true "Profile"
// @Success 200 {object} dto.APIResponse{data=models.Student} "Student updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id} [put]
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	var req dto.UpdateStudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	student, err := c.studentService.Update(ctx, ctx.Param("id"), req.ToProfile())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, student, "Student updated successfully")
}

// DeleteStudent deletes a student and its enrollments
// @Summary Delete a student
// @Tags students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.DeletedResponse} "Student deleted successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid student ID"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id} [delete]
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	if err := c.studentService.Delete(ctx, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, dto.DeletedResponse{Deleted: true}, "Student deleted successfully")
}

// AssignDepartment sets the department of a student
// @Summary Assign a student to a department
// @Description Overwrites the department reference; on failure the previous one is kept
// @Tags students
// @Produce json
// @Param id path string true "Student ID"
// @Param departmentId path string true "Department ID"
// @Success 200 {object} dto.APIResponse{data=models.Student} "Student assigned successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid identifier"
// @Failure 404 {object} dto.ErrorResponse "Student or department not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id}/department/{departmentId} [put]
func (c *StudentController) AssignDepartment(ctx *gin.Context) {
	student, err := c.relationshipService.AssignStudentToDepartment(ctx, ctx.Param("id"), ctx.Param("departmentId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, student, "Student assigned successfully")
}

// EnrollCourse enrolls a student in a course
// @Summary Enroll a student in a course
// @Tags students
// @Produce json
// @Param id path string true "Student ID"
// @Param courseId path string true "Course ID"
// @Success 200 {object} dto.APIResponse{data=models.CourseView} "Student enrolled successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid identifier"
// @Failure 404 {object} dto.ErrorResponse "Student or course not found"
// @Failure 409 {object} dto.ErrorResponse "Student already enrolled"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id}/courses/{courseId} [post]
func (c *StudentController) EnrollCourse(ctx *gin.Context) {
	view, err := c.relationshipService.Enroll(ctx, ctx.Param("id"), ctx.Param("courseId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, view, "Student enrolled successfully")
}

// DropCourse removes a student from a course
// @Summary Drop a course
// @Tags students
// @Produce json
// @Param id path string true "Student ID"
// @Param courseId path string true "Course ID"
// @Success 200 {object} dto.APIResponse{data=models.CourseView} "Course dropped successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid identifier"
// @Failure 404 {object} dto.ErrorResponse "Student or course not found"
// @Failure 409 {object} dto.ErrorResponse "Student not enrolled"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id}/courses/{courseId} [delete]
func (c *StudentController) DropCourse(ctx *gin.Context) {
	view, err := c.relationshipService.Drop(ctx, ctx.Param("id"), ctx.Param("courseId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, view, "Course dropped successfully")
}

// GetStudentCourses lists the courses of a student
// @Summary List the courses of a student
// @Tags students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Course} "Courses retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid student ID"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id}/courses [get]
func (c *StudentController) GetStudentCourses(ctx *gin.Context) {
	courses, err := c.relationshipService.ListCoursesForStudent(ctx, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, courses, "Courses retrieved successfully")
}
