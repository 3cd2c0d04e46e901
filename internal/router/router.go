package router

import (
	"school/backend/foundation/web"
	"school/backend/internal/auth"
	"school/backend/internal/middleware"
	"school/backend/internal/pkg/repository/postgresql"
	"school/backend/internal/repository/postgres/attendance"
	"school/backend/internal/repository/postgres/class"
	"school/backend/internal/repository/postgres/dashboard"
	"school/backend/internal/repository/postgres/fine"
	"school/backend/internal/repository/postgres/user"

	attendance_controller "school/backend/internal/controller/http/v1/attendance"
	auth_controller "school/backend/internal/controller/http/v1/auth"
	class_controller "school/backend/internal/controller/http/v1/class"
	dashboard_controller "school/backend/internal/controller/http/v1/dashboard"
	fine_controller "school/backend/internal/controller/http/v1/fine"
	user_controller "school/backend/internal/controller/http/v1/user"

	"github.com/gin-contrib/cors"
	"github.com/redis/go-redis/v9"
)

type Router struct {
	*web.App
	postgresDB *postgresql.Database
	redisDB    *redis.Client
	port       string
	auth       *auth.Auth
	jwtKey     string
}

func NewRouter(
	app *web.App,
	postgresDB *postgresql.Database,
	redisDB *redis.Client,
	port string,
	auth *auth.Auth,
	jwtKey string,
) *Router {
	return &Router{
		app,
		postgresDB,
		redisDB,
		port,
		auth,
		jwtKey,
	}
}

func (r Router) Init() error {

	r.HandleMethodNotAllowed = true
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://school.eduflow.uz", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// - postgresql
	userPostgres := user.NewRepository(r.postgresDB)
	classPostgres := class.NewRepository(r.postgresDB)
	finePostgres := fine.NewRepository(r.postgresDB)
	attendancePostgres := attendance.NewRepository(r.postgresDB, finePostgres)
	dashboardPostgres := dashboard.NewRepository(r.postgresDB, r.redisDB)

	// controller
	userController := user_controller.NewController(userPostgres)
	authController := auth_controller.NewController(userPostgres, r.jwtKey)
	classController := class_controller.NewController(classPostgres)
	attendanceController := attendance_controller.NewController(attendancePostgres)
	fineController := fine_controller.NewController(finePostgres)
	dashboardController := dashboard_controller.NewController(dashboardPostgres)

	// #auth
	r.Post("/api/v1/sign-in", authController.SignIn)
	r.Post("/api/v1/refresh-token", authController.RefreshToken)

	// #user
	r.Get("/api/v1/user/list", userController.GetUserList, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleTeacher))
	r.Get("/api/v1/user/:id", userController.GetUserDetailById, middleware.Authenticate(r.auth))
	r.Get("/api/v1/user/:id/qrcard", userController.GetQrCard, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleTeacher))
	r.Post("/api/v1/user/create", userController.CreateUser, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Patch("/api/v1/user/:id", userController.UpdateUserColumns, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Delete("/api/v1/user/:id", userController.DeleteUser, middleware.Authenticate(r.auth, auth.RoleAdmin))

	// #class
	r.Get("/api/v1/class/list", classController.GetList, middleware.Authenticate(r.auth))
	r.Get("/api/v1/class/:id", classController.GetDetailById, middleware.Authenticate(r.auth))
	r.Post("/api/v1/class/create", classController.Create, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Patch("/api/v1/class/:id", classController.UpdateColumns, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Delete("/api/v1/class/:id", classController.Delete, middleware.Authenticate(r.auth, auth.RoleAdmin))

	// #attendance
	r.Post("/api/v1/attendance/mark", attendanceController.Mark, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleTeacher))
	r.Post("/api/v1/attendance/mark-bulk", attendanceController.MarkBulk, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleTeacher))
	r.Get("/api/v1/attendance/class/:class_id", attendanceController.GetClassList, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleTeacher))
	r.Get("/api/v1/attendance/student/:student_id", attendanceController.GetStudentHistory, middleware.Authenticate(r.auth))
	r.Get("/api/v1/attendance/report/:class_id", attendanceController.GetReport, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleTeacher))
	r.Get("/api/v1/attendance/report/:class_id/excel", attendanceController.ExportReportExcel, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleTeacher))
	r.Put("/api/v1/attendance/:id", attendanceController.UpdateAll, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleTeacher))
	r.Patch("/api/v1/attendance/:id", attendanceController.UpdateColumns, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleTeacher))
	r.Delete("/api/v1/attendance/:id", attendanceController.Delete, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleTeacher))

	// #fine
	r.Patch("/api/v1/fine/:id/payment", fineController.ApplyPayment, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleTeacher))
	r.Post("/api/v1/fine/student/:student_id/clear", fineController.ClearStudent, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleTeacher))
	r.Post("/api/v1/fine/sync", fineController.Sync, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Get("/api/v1/fine/class/:class_id", fineController.GetClassFines, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleTeacher))
	r.Get("/api/v1/fine/class/:class_id/excel", fineController.ExportClassFinesExcel, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleTeacher))
	r.Get("/api/v1/fine/student/:student_id/summary", fineController.GetStudentSummary, middleware.Authenticate(r.auth))
	r.Get("/api/v1/fine/:id/payments", fineController.GetPaymentHistory, middleware.Authenticate(r.auth))
	r.Get("/api/v1/fine/:id/receipt", fineController.ExportReceiptPdf, middleware.Authenticate(r.auth))

	// #dashboard
	r.Get("/api/v1/dashboard/today", dashboardController.GetTodaySummary, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleTeacher))

	return r.Run(r.port)
}
