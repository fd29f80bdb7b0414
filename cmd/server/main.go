package main // Entry point package

import (
    "log"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"

    "github.com/teachdesk/classroom-seating/internal/config"
    "github.com/teachdesk/classroom-seating/internal/database"
    "github.com/teachdesk/classroom-seating/internal/handler"
    appmw "github.com/teachdesk/classroom-seating/internal/middleware"
    "github.com/teachdesk/classroom-seating/internal/queue"
    "github.com/teachdesk/classroom-seating/internal/repository"
    "github.com/teachdesk/classroom-seating/internal/router"
)

func main() {
    // Load .env if present; real environments set variables directly.
    _ = godotenv.Load()

    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database: %v", err)
    }
    defer db.Close()

    // Redis backs rate limiting and response caching.  A nil client
    // disables both; the middlewares degrade to pass-through.
    rdb := config.NewRedisClient()
    if rdb == nil {
        log.Println("redis unavailable; rate limiting and caching disabled")
    }

    e := echo.New()
    e.Use(appmw.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
    e.Use(appmw.NewRedisCache(config.LoadCacheConfig(), rdb))

    users := repository.NewUserRepo(db)
    tokens := repository.NewTokenRepo(db)
    classes := repository.NewClassRepo(db)
    students := repository.NewStudentRepo(db)
    roster := repository.NewRosterRepo(db)
    layouts := repository.NewLayoutRepo(db)
    periods := repository.NewPeriodRepo(db)
    assignments := repository.NewAssignmentRepo(db)
    ratings := repository.NewRatingRepo(db)

    auth := handler.NewAuthHandler(cfg, users, tokens)
    teacher := handler.NewTeacherHandler(classes, students, roster, layouts, periods, assignments, ratings)

    router.RegisterRoutes(e)
    router.RegisterAuth(e, auth, cfg.JWTSecret)
    router.RegisterTeacher(e, teacher, cfg.JWTSecret)

    // Background consumer logging closed seating periods.
    go func() {
        if err := queue.StartPeriodConsumer(); err != nil {
            log.Printf("period consumer stopped: %v", err)
        }
    }()

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)

    if err := e.Start(addr); err != nil {
        log.Fatal(err)
    }
}
