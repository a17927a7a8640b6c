package main

import (
	"fmt"
	"net/http"

	"github.com/smart-attendance/attendance-backend-go/internal/config"
	appHTTP "github.com/smart-attendance/attendance-backend-go/internal/handler/http"
	"github.com/smart-attendance/attendance-backend-go/internal/pkg/cron"
	"github.com/smart-attendance/attendance-backend-go/internal/pkg/database"
	"github.com/smart-attendance/attendance-backend-go/internal/pkg/jwt"
	"github.com/smart-attendance/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/smart-attendance/attendance-backend-go/internal/service/attendance"
	authService "github.com/smart-attendance/attendance-backend-go/internal/service/auth"
	policyService "github.com/smart-attendance/attendance-backend-go/internal/service/policy"
	reportService "github.com/smart-attendance/attendance-backend-go/internal/service/report"
	userService "github.com/smart-attendance/attendance-backend-go/internal/service/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	loc := cfg.Location()

	userRepo := postgresql.NewUserRepository(db)
	deviceRepo := postgresql.NewDeviceRepository(db)
	sessionRepo := postgresql.NewSessionRepository(db)
	janitorRepo := postgresql.NewJanitorRepository(db)
	policyRepo := postgresql.NewPolicyRepository(db)
	reportRepo := postgresql.NewReportRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)

	authSvc := authService.NewAuthService(db, userRepo, jwtService)
	policySvc := policyService.NewPolicyService(db, policyRepo)
	attendanceSvc := attendanceService.NewAttendanceService(db, sessionRepo, deviceRepo, policySvc, loc)
	userSvc := userService.NewUserService(db, userRepo, deviceRepo)
	reportSvc := reportService.NewReportService(db, reportRepo, userRepo, loc)

	scheduler := cron.NewScheduler()
	cron.NewAttendanceJobs(sessionRepo, janitorRepo, policySvc, loc).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	authHandler := appHTTP.NewAuthHandler(authSvc)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	settingsHandler := appHTTP.NewSettingsHandler(policySvc)
	userHandler := appHTTP.NewUserHandler(userSvc)
	reportHandler := appHTTP.NewReportHandler(reportSvc)

	router := appHTTP.NewRouter(
		jwtService,
		authHandler,
		attendanceHandler,
		settingsHandler,
		userHandler,
		reportHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
