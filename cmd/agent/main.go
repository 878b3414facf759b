package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"task-reminder/backend/internal/client"
	"task-reminder/backend/internal/config"
	"task-reminder/backend/internal/notify"
	"task-reminder/backend/internal/scheduler"
	"task-reminder/backend/internal/session"
)

// The reminder agent watches one owner's tasks and fires local
// notifications when they come due. It reconciles its timers against
// the task store on every poll, so edits made elsewhere take effect
// within one interval.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ownerPath := cfg.Agent.SessionFile
	if ownerPath == "" {
		ownerPath, err = session.DefaultOwnerPath()
		if err != nil {
			log.Fatalf("Failed to resolve session file path: %v", err)
		}
	}
	ownerStore := session.NewOwnerStore(ownerPath)

	owner := cfg.Agent.Email
	if owner == "" {
		saved, err := ownerStore.Load()
		if err != nil {
			log.Fatalf("Failed to read saved session: %v", err)
		}
		owner = saved
	}
	if owner == "" {
		log.Fatal("No owner configured: set AGENT_EMAIL or log in once")
	}
	if cfg.Agent.Password == "" {
		log.Fatal("AGENT_PASSWORD is required")
	}

	api := client.New(cfg.Agent.APIBaseURL)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	if err := api.Login(ctx, owner, cfg.Agent.Password); err != nil {
		cancel()
		log.Fatalf("Login failed for %s: %v", owner, err)
	}
	cancel()

	if err := ownerStore.Save(owner); err != nil {
		log.Printf("Failed to persist session: %v", err)
	}
	log.Printf("Logged in as %s", owner)

	notifier := notify.New(
		&notify.ExecAlerter{Command: cfg.Notify.AlertCommand},
		&notify.ExecChimer{Command: cfg.Notify.ChimeCommand, SoundFile: cfg.Notify.SoundFile},
	)
	if perm := notifier.RequestPermission(); perm != notify.PermissionGranted {
		log.Printf("Desktop alerts unavailable (%s), falling back to sound only", perm)
	}

	sched := scheduler.New(notifier)

	resync := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		tasks, err := api.ListTasks(ctx, owner)
		if err != nil {
			// Keep the current timers armed and retry on the next tick.
			log.Printf("Failed to fetch tasks: %v", err)
			return
		}

		sched.Resync(tasks, time.Now())
		log.Printf("Reconciled %d tasks, %d reminders armed", len(tasks), sched.Armed())
	}

	resync()

	ticker := time.NewTicker(cfg.Agent.PollInterval)
	defer ticker.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			resync()
		case sig := <-quit:
			log.Printf("Received %s, shutting down", sig)
			sched.Teardown()
			return
		}
	}
}
