package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/petteraas52-ux/Surat-sub000/internal/children"
	"github.com/petteraas52-ux/Surat-sub000/internal/config"
	"github.com/petteraas52-ux/Surat-sub000/internal/dateutil"
	"github.com/petteraas52-ux/Surat-sub000/internal/docstore"
	"github.com/petteraas52-ux/Surat-sub000/internal/queue"
	"github.com/petteraas52-ux/Surat-sub000/internal/store"
)

// Worker consumes change messages and rebuilds each child's
// denormalized absence cache from the authoritative absence log.
func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer db.Close()

	docs, err := docstore.NewPostgres(ctx, db.Client)
	if err != nil {
		log.Fatalf("docstore init failed: %v", err)
	}
	repo := children.NewRepository(docs)

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "nursery:changes")
	}

	messages, err := q.Consume(ctx)
	if err != nil {
		log.Fatalf("queue consume init failed: %v", err)
	}

	log.Println("worker started, waiting for messages...")
	for msg := range messages {
		switch msg.Kind {
		case queue.KindAttendanceChanged, queue.KindAbsenceRecorded:
		default:
			continue
		}

		today := dateutil.Today()
		for _, id := range msg.ChildIDs {
			if err := repo.RebuildAbsenceCache(ctx, id, today); err != nil {
				log.Printf("rebuild absence cache for %s failed: %v", id, err)
				continue
			}
			log.Printf("absence cache rebuilt for %s (%s)", id, msg.Kind)
		}
	}

	log.Println("worker stopped")
}
