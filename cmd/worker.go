package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Jakababa94/kenya-liga-hub/internal/tournament"
	tournamentPostgres "github.com/Jakababa94/kenya-liga-hub/internal/tournament/postgres"
	"github.com/Jakababa94/kenya-liga-hub/pkg/logger"
	"github.com/go-co-op/gocron/v2"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start the maintenance scheduler",
	Long:  `Periodically close registration for tournaments past their deadline.`,
	Run: func(cmd *cobra.Command, args []string) {
		startWorker()
	},
}

var sweepInterval time.Duration

type sweepJob struct {
	name string
	run  func(ctx context.Context) (int64, error)
}

func startWorker() {
	config, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	gormDB, err := initGorm(db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize gorm: %v\n", err)
		os.Exit(1)
	}

	tournamentService := tournament.NewService(tournamentPostgres.NewRepository(gormDB), log)

	jobs := []sweepJob{
		{name: "close-expired-registrations", run: tournamentService.CloseExpiredRegistrations},
	}

	interval := config.Scheduler.SweepInterval
	if sweepInterval > 0 {
		interval = sweepInterval
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched, err := gocron.NewScheduler()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create scheduler: %v\n", err)
		os.Exit(1)
	}

	for _, job := range jobs {
		if _, err := sched.NewJob(
			gocron.DurationJob(interval),
			gocron.NewTask(runSweep, ctx, log, job, interval),
			gocron.WithName(job.name),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
			gocron.WithStartAt(gocron.WithStartImmediately()),
		); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to schedule %s: %v\n", job.name, err)
			os.Exit(1)
		}
	}

	sched.Start()
	log.Info("worker started", "interval", interval.String(), "jobs", len(jobs))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	log.Info("received signal, shutting down worker", "signal", sig)
	cancel()

	if err := sched.Shutdown(); err != nil {
		log.Error("scheduler shutdown error", "error", err)
	}
	log.Info("worker stopped")
}

// runSweep bounds one run by the interval.
func runSweep(ctx context.Context, log *slog.Logger, job sweepJob, interval time.Duration) {
	runCtx, cancel := context.WithTimeout(ctx, interval)
	defer cancel()

	start := time.Now()
	n, err := job.run(runCtx)
	if err != nil {
		log.Error("sweep failed", "job", job.name, "error", err)
		return
	}
	log.Debug("sweep finished", "job", job.name, "affected", n, "duration_ms", time.Since(start).Milliseconds())
}

func init() {
	workerCmd.Flags().DurationVar(&sweepInterval, "interval", 0, "sweep interval (overrides config)")
}
