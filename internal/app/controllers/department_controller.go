package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/registry/internal/app/models/dto"
	"github.com/yigit/registry/internal/app/services"
	"github.com/yigit/registry/internal/middleware"
)

// DepartmentController handles department-related operations
type DepartmentController struct {
	departmentService *services.DepartmentService
	cascadeService    *services.CascadeService
}

// NewDepartmentController creates a new DepartmentController
func NewDepartmentController(departmentService *services.DepartmentService, cascadeService *services.CascadeService) *DepartmentController {
	return &DepartmentController{
		departmentService: departmentService,
		cascadeService:    cascadeService,
	}
}

// CreateDepartment handles department creation
// @Summary Create a new department
// @Description Creates a department and issues its identifier
// @Tags departments
// @Accept json
// @Produce json
// @Param request body dto.CreateDepartmentRequest true "Department information"
// @Success 201 {object} dto.APIResponse{data=models.Department} "Department created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Department already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /departments [post]
func (c *DepartmentController) CreateDepartment(ctx *gin.Context) {
	var req dto.CreateDepartmentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	department, err := c.departmentService.Create(ctx, req.Name, req.Description)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, department, "Department created successfully")
}

// GetAllDepartments retrieves all departments
// @Summary Get all departments
// @Description Lists every department, or the department with a name
// @Tags departments
// @Produce json
// @Param name query string false "Look up by name"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]models.Department}} "Departments retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Department not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /departments [get]
func (c *DepartmentController) GetAllDepartments(ctx *gin.Context) {
	if name := ctx.Query("name"); name != "" {
		department, err := c.departmentService.GetByName(ctx, name)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		respond(ctx, http.StatusOK, department, "Department retrieved successfully")
		return
	}

	departments, err := c.departmentService.GetAll(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondPage(ctx, http.StatusOK, departments, "Departments retrieved successfully")
}

// GetDepartmentByID retrieves a department by ID
// @Summary Get department by ID
// @Tags departments
// @Produce json
// @Param id path string true "Department ID" example(DEP-00001)
// @Success 200 {object} dto.APIResponse{data=models.Department} "Department retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid department ID"
// @Failure 404 {object} dto.ErrorResponse "Department not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /departments/{id} [get]
func (c *DepartmentController) GetDepartmentByID(ctx *gin.Context) {
	department, err := c.departmentService.Get(ctx, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, department, "Department retrieved successfully")
}

// UpdateDepartment updates an existing department
// @Summary Update a department
// @Tags departments
// @Accept json
// @Produce json
// @Param id path string true "Department ID"
// @Param request body dto.UpdateDepartmentRequest true "Updated department information"
// @Success 200 {object} dto.APIResponse{data=models.Department} "Department updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 404 {object} dto.ErrorResponse "Department not found"
// @Failure 409 {object} dto.ErrorResponse "Department name already taken"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /departments/{id} [put]
func (c *DepartmentController) UpdateDepartment(ctx *gin.Context) {
	var req dto.UpdateDepartmentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	department, err := c.departmentService.Update(ctx, ctx.Param("id"), req.Name, req.Description)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, department, "Department updated successfully")
}

// DeleteDepartment deletes a department after handling its dependents
// @Summary Delete a department
// @Description Orphans the students and lecturers of the department. Its courses move to the successor
// @Description department when successorId is given and are deleted otherwise.
// @Tags departments
// @Produce json
// @Param id path string true "Department ID"
// @Param successorId query string false "Department that adopts the courses"
// @Success 200 {object} dto.APIResponse{data=dto.DeleteDepartmentResponse} "Department deleted successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid department ID"
// @Failure 404 {object} dto.ErrorResponse "Department or successor not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /departments/{id} [delete]
func (c *DepartmentController) DeleteDepartment(ctx *gin.Context) {
	report, err := c.cascadeService.DeleteDepartment(ctx, ctx.Param("id"), ctx.Query("successorId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, dto.DeleteDepartmentResponse{Deleted: true, Report: report}, "Department deleted successfully")
}

// GetDepartmentStudents lists the students of a department
// @Summary List the students of a department
// @Tags departments
// @Produce json
// @Param id path string true "Department ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Student} "Students retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid department ID"
// @Failure 404 {object} dto.ErrorResponse "Department not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /departments/{id}/students [get]
func (c *DepartmentController) GetDepartmentStudents(ctx *gin.Context) {
	students, err := c.departmentService.ListStudents(ctx, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, students, "Students retrieved successfully")
}

// GetDepartmentLecturers lists the lecturers of a department
// @Summary List the lecturers of a department
// @Tags departments
// @Produce json
// @Param id path string true "Department ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Lecturer} "Lecturers retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid department ID"
// @Failure 404 {object} dto.ErrorResponse "Department not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /departments/{id}/lecturers [get]
func (c *DepartmentController) GetDepartmentLecturers(ctx *gin.Context) {
	lecturers, err := c.departmentService.ListLecturers(ctx, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, lecturers, "Lecturers retrieved successfully")
}

// GetDepartmentCourses lists the courses of a department
// @Summary List the courses of a department
// @Tags departments
// @Produce json
// @Param id path string true "Department ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Course} "Courses retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid department ID"
// @Failure 404 {object} dto.ErrorResponse "Department not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /departments/{id}/courses [get]
func (c *DepartmentController) GetDepartmentCourses(ctx *gin.Context) {
	courses, err := c.departmentService.ListCourses(ctx, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, courses, "Courses retrieved successfully")
}
