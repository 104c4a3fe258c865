package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/yigit/registry/docs" // registers the registry API spec with swag
	"github.com/yigit/registry/internal/app/controllers"
	"github.com/yigit/registry/internal/app/models/dto"
)

// Controllers groups every controller the router mounts
type Controllers struct {
	Students    *controllers.StudentController
	Lecturers   *controllers.LecturerController
	Admins      *controllers.AdminController
	Departments *controllers.DepartmentController
	Courses     *controllers.CourseController
	Accounts    *controllers.AccountController
}

// MetricsOptions controls the Prometheus endpoint
type MetricsOptions struct {
	Enabled bool
	Path    string
}

// SetupSwagger serves the registry API docs under /swagger, e.g. /swagger/index.html
func SetupSwagger(router *gin.Engine) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, metricsOpts MetricsOptions) {
	router.GET("/ping", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, dto.NewAPIResponse(gin.H{"status": "ok"}, "pong"))
	})
	if metricsOpts.Enabled {
		router.GET(metricsOpts.Path, gin.WrapH(promhttp.Handler()))
	}

	v1 := router.Group("/api/v1")

	students := v1.Group("/students")
	{
		students.POST("", c.Students.CreateStudent)
		students.POST("/batch", c.Students.CreateStudentsBatch)
		students.GET("", c.Students.GetStudents)
		students.GET("/:id", c.Students.GetStudentByID)
		students.PUT("/:id", c.Students.UpdateStudent)
		students.DELETE("/:id", c.Students.DeleteStudent)
		students.PUT("/:id/department/:departmentId", c.Students.AssignDepartment)
		students.GET("/:id/courses", c.Students.GetStudentCourses)
		students.POST("/:id/courses/:courseId", c.Students.EnrollCourse)
		students.DELETE("/:id/courses/:courseId", c.Students.DropCourse)
	}

	lecturers := v1.Group("/lecturers")
	{
		lecturers.POST("", c.Lecturers.CreateLecturer)
		lecturers.GET("", c.Lecturers.GetLecturers)
		lecturers.GET("/:id", c.Lecturers.GetLecturerByID)
		lecturers.PUT("/:id", c.Lecturers.UpdateLecturer)
		lecturers.DELETE("/:id", c.Lecturers.DeleteLecturer)
		lecturers.POST("/:id/lic", c.Lecturers.SetLIC)
		lecturers.DELETE("/:id/lic", c.Lecturers.ClearLIC)
		lecturers.PUT("/:id/department/:departmentId", c.Lecturers.AssignDepartment)
		lecturers.GET("/:id/courses", c.Lecturers.GetLecturerCourses)
		lecturers.POST("/:id/courses/:courseId", c.Lecturers.AssignCourse)
		lecturers.DELETE("/:id/courses/:courseId", c.Lecturers.UnassignCourse)
	}

	admins := v1.Group("/admins")
	{
		admins.POST("", c.Admins.CreateAdmin)
		admins.GET("", c.Admins.GetAdmins)
		admins.GET("/:id", c.Admins.GetAdminByID)
		admins.PUT("/:id", c.Admins.UpdateAdmin)
		admins.DELETE("/:id", c.Admins.DeleteAdmin)
	}

	departments := v1.Group("/departments")
	{
		departments.POST("", c.Departments.CreateDepartment)
		departments.GET("", c.Departments.GetAllDepartments)
		departments.GET("/:id", c.Departments.GetDepartmentByID)
		departments.PUT("/:id", c.Departments.UpdateDepartment)
		departments.DELETE("/:id", c.Departments.DeleteDepartment)
		departments.GET("/:id/students", c.Departments.GetDepartmentStudents)
		departments.GET("/:id/lecturers", c.Departments.GetDepartmentLecturers)
		departments.GET("/:id/courses", c.Departments.GetDepartmentCourses)
	}

	courses := v1.Group("/courses")
	{
		courses.POST("", c.Courses.CreateCourse)
		courses.GET("", c.Courses.GetCourses)
		courses.GET("/:id", c.Courses.GetCourseByID)
		courses.PUT("/:id", c.Courses.UpdateCourse)
		courses.DELETE("/:id", c.Courses.DeleteCourse)
		courses.GET("/:id/students", c.Courses.GetCourseStudents)
		courses.GET("/:id/lecturers", c.Courses.GetCourseLecturers)
	}

	accounts := v1.Group("/accounts")
	{
		accounts.PUT("/password", c.Accounts.ChangePassword)
		accounts.POST("/verify", c.Accounts.VerifyCredentials)
	}
}
