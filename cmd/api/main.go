package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NguyenDinhAn-2002/quiz-game-backend/internal"
	"github.com/NguyenDinhAn-2002/quiz-game-backend/internal/config"
	"github.com/NguyenDinhAn-2002/quiz-game-backend/internal/game"
	"github.com/NguyenDinhAn-2002/quiz-game-backend/internal/server"
	"github.com/NguyenDinhAn-2002/quiz-game-backend/internal/store"
)

func main() {
	cfg := config.Load()

	var (
		quizzes game.QuizProvider
		results game.ResultSink
	)
	if cfg.DatabaseURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		db, err := store.New(ctx, cfg.DatabaseURL)
		if err != nil {
			cancel()
			log.Fatalf("[main] connecting to database: %v", err)
		}
		if err := db.Migrate(ctx); err != nil {
			cancel()
			log.Fatalf("[main] migrating schema: %v", err)
		}
		cancel()
		defer db.Close()
		quizzes = db
		results = db
		log.Println("[main] using postgres quiz store")
	} else {
		mem := game.NewMemoryQuizzes()
		mem.Add("demo", demoQuiz())
		quizzes = mem
		log.Println("[main] DATABASE_URL not set, serving the in-memory demo quiz")
	}

	sessionCfg := game.DefaultConfig()
	sessionCfg.SweepInterval = cfg.SweepInterval
	sessionCfg.InactiveAfter = cfg.InactiveAfter

	session := game.NewSession(sessionCfg, quizzes, results)
	defer session.Close()

	srv := server.NewServer(cfg.Port, session)

	go func() {
		log.Printf("[main] listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[main] server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[main] shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("[main] shutdown: %v", err)
	}
}

func demoQuiz() []internal.Question {
	return []internal.Question{
		{
			Id:   "q1",
			Type: internal.QuestionSingleChoice,
			Text: "Which planet is closest to the sun?",
			Options: []internal.Option{
				{Id: "a", Text: "Venus"},
				{Id: "b", Text: "Mercury", IsCorrect: true},
				{Id: "c", Text: "Mars"},
				{Id: "d", Text: "Earth"},
			},
		},
		{
			Id:   "q2",
			Type: internal.QuestionMultipleChoice,
			Text: "Which of these are primary colors?",
			Options: []internal.Option{
				{Id: "a", Text: "Red", IsCorrect: true},
				{Id: "b", Text: "Green"},
				{Id: "c", Text: "Blue", IsCorrect: true},
				{Id: "d", Text: "Yellow", IsCorrect: true},
			},
		},
		{
			Id:   "q3",
			Type: internal.QuestionOrdering,
			Text: "Order these numbers from smallest to largest.",
			Options: []internal.Option{
				{Id: "a", Text: "1"},
				{Id: "b", Text: "10"},
				{Id: "c", Text: "100"},
			},
		},
		{
			Id:        "q4",
			Type:      internal.QuestionFreeText,
			Text:      "What is the capital of Vietnam?",
			TimeLimit: 15,
			Accepted:  []string{"ha noi", "hanoi"},
		},
	}
}
