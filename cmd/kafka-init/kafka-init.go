package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/NordCoder/ResultWatch/internal/obs"
	"github.com/NordCoder/ResultWatch/internal/repository/kafka"
)

// kafka-init creates the monitor event topic ahead of the first deployment.
func main() {
	brokers := strings.Split(env("KAFKA_BROKERS", "kafka:9092"), ",")
	topic := env("KAFKA_TOPIC", "resultwatch.monitor.events")

	l, err := obs.NewLogger(obs.LogConfig{Level: env("LOG_LEVEL", "info"), App: "kafka-init"})
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	err = kafka.EnsureTopic(ctx, brokers, kafka.TopicSpec{
		Name:              topic,
		NumPartitions:     envInt("KAFKA_PARTITIONS", 1),
		ReplicationFactor: envInt("KAFKA_RF", 1),
		MaxWait:           30 * time.Second,
	}, l)
	if err != nil {
		l.Fatal("ensure topic", zap.String("topic", topic), zap.Error(err))
	}
	l.Info("kafka-init ok", zap.String("topic", topic))
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, _ := strconv.Atoi(v); n > 0 {
			return n
		}
	}
	return def
}
