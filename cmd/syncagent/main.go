// syncagent - клиент офлайн-очереди: копит отчеты без сети и воспроизводит их на сервере.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/incident_hub/internal/config"
	"github.com/shenikar/incident_hub/internal/models"
	"github.com/shenikar/incident_hub/internal/syncer"
	"github.com/shenikar/incident_hub/pkg/logger"
	redisclient "github.com/shenikar/incident_hub/pkg/redis"
	"github.com/sirupsen/logrus"
)

const (
	submitTimeout = 10 * time.Second
	usage         = `usage: syncagent <command> [flags]

commands:
  enqueue       queue an incident report (JSON from -file or stdin)
  status        queue a status change (-id or -target-key, -status)
  run           replay the queue (-once for a single pass)
  pending       list actions waiting for delivery
  dead-letters  list actions that need attention
  requeue       return a dead-lettered action to the queue (-id)
  outcome       print the server incident id of a queued action (-id)
`
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	// stdout занят результатами команд
	log := logger.NewWithOutput(cfg.LogLevel, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	queue, closeQueue, err := openQueue(ctx, cfg, log)
	if err != nil {
		log.Fatalf("Failed to open sync queue: %v", err)
	}
	defer closeQueue()

	coordinator := syncer.NewCoordinator(
		queue,
		syncer.NewHTTPSubmitter(cfg.SyncServerURL, submitTimeout),
		log,
		syncer.Options{MaxAttempts: cfg.SyncMaxAttempts, BaseDelay: cfg.SyncBaseDelay},
	)

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "enqueue":
		err = runEnqueue(ctx, coordinator, args)
	case "status":
		err = runStatus(ctx, coordinator, args)
	case "run":
		err = runReplay(ctx, coordinator, cfg.SyncInterval, log, args)
	case "pending":
		err = printActions(coordinator.Pending(ctx))
	case "dead-letters":
		err = printActions(coordinator.DeadLetters(ctx))
	case "requeue":
		err = runRequeue(ctx, coordinator, args)
	case "outcome":
		err = runOutcome(ctx, coordinator, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.WithField("command", cmd).Errorf("Command failed: %v", err)
		os.Exit(1)
	}
}

// openQueue выбирает хранилище очереди: Redis переживает перезапуск агента, память - нет
func openQueue(ctx context.Context, cfg *config.Config, log *logrus.Logger) (syncer.QueueStore, func(), error) {
	if cfg.RedisAddr == "" {
		log.Warn("REDIS_ADDR is not set, sync queue lives only for this process")
		return syncer.NewMemoryQueue(), func() {}, nil
	}
	client, err := redisclient.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err != nil {
		return nil, nil, err
	}
	return syncer.NewRedisQueue(client, cfg.SyncClientID), func() { client.Close() }, nil
}

func runEnqueue(ctx context.Context, c *syncer.Coordinator, args []string) error {
	fs := flag.NewFlagSet("enqueue", flag.ContinueOnError)
	file := fs.String("file", "", "path to report JSON, stdin when empty")
	key := fs.String("key", "", "idempotency key, generated when empty")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var in io.Reader = os.Stdin
	if *file != "" {
		f, err := os.Open(*file)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	var report models.RawReport
	if err := json.NewDecoder(in).Decode(&report); err != nil {
		return fmt.Errorf("could not decode report: %w", err)
	}

	queuedID, err := c.Enqueue(ctx, syncer.Action{
		Kind:           syncer.KindCreateIncident,
		IdempotencyKey: *key,
		Report:         &report,
	})
	if err != nil {
		return err
	}
	fmt.Println(queuedID)
	return nil
}

func runStatus(ctx context.Context, c *syncer.Coordinator, args []string) error {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	id := fs.String("id", "", "incident id on the server")
	targetKey := fs.String("target-key", "", "idempotency key of a queued report")
	status := fs.String("status", "", "new status")
	if err := fs.Parse(args); err != nil {
		return err
	}

	action := syncer.Action{Kind: syncer.KindUpdateStatus, TargetKey: *targetKey, Status: *status}
	if *id != "" {
		parsed, err := uuid.Parse(*id)
		if err != nil {
			return fmt.Errorf("invalid -id: %w", err)
		}
		action.TargetID = &parsed
	}

	queuedID, err := c.Enqueue(ctx, action)
	if err != nil {
		return err
	}
	fmt.Println(queuedID)
	return nil
}

func runReplay(ctx context.Context, c *syncer.Coordinator, interval time.Duration, log *logrus.Logger, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	once := fs.Bool("once", false, "single replay pass")
	if err := fs.Parse(args); err != nil {
		return err
	}

	replay := func() error {
		result, err := c.Replay(ctx)
		if err != nil {
			return err
		}
		log.WithFields(logrus.Fields{
			"acknowledged":  result.Acknowledged,
			"failed":        result.Failed,
			"deferred":      result.Deferred,
			"dead_lettered": result.DeadLettered,
			"failed_ids":    result.FailedIDs,
		}).Info("Replay pass finished")
		return nil
	}

	if *once {
		return replay()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if err := replay(); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			log.WithError(err).Error("Replay pass failed")
		}
		select {
		case <-ctx.Done():
			log.Info("Sync agent stopped")
			return nil
		case <-ticker.C:
		}
	}
}

func runRequeue(ctx context.Context, c *syncer.Coordinator, args []string) error {
	fs := flag.NewFlagSet("requeue", flag.ContinueOnError)
	id := fs.String("id", "", "queued action id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	queuedID, err := uuid.Parse(*id)
	if err != nil {
		return fmt.Errorf("invalid -id: %w", err)
	}
	action, err := c.Requeue(ctx, queuedID)
	if err != nil {
		return err
	}
	return printActions([]*syncer.Action{action}, nil)
}

func runOutcome(ctx context.Context, c *syncer.Coordinator, args []string) error {
	fs := flag.NewFlagSet("outcome", flag.ContinueOnError)
	id := fs.String("id", "", "queued action id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	queuedID, err := uuid.Parse(*id)
	if err != nil {
		return fmt.Errorf("invalid -id: %w", err)
	}
	incidentID, err := c.Outcome(ctx, queuedID)
	if err != nil {
		return err
	}
	if incidentID == nil {
		fmt.Println("pending")
		return nil
	}
	fmt.Println(incidentID)
	return nil
}

func printActions(actions []*syncer.Action, err error) error {
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(actions)
}
