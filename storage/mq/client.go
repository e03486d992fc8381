package mq

import (
	"context"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"HabitPulse/config"
	"HabitPulse/pkg/logger"
)

// 消息拓扑：延迟交换机 + 各业务队列。
// 依赖 rabbitmq_delayed_message_exchange 插件。
const (
	DelayedExchange = "scheduler.delayed"

	ReminderDueQueue    = "habit.reminder.due"
	CompassionScanQueue = "habit.compassion.scan"

	ReminderDueRoutingKey    = "reminder.due"
	CompassionScanRoutingKey = "compassion.scan"
)

var (
	conn     *amqp.Connection
	connOnce sync.Once
	connErr  error
)

func Init() error {
	connOnce.Do(func() {
		url := config.Cfg.GetRabbitMQURL()

		conn, connErr = amqp.Dial(url)
		if connErr != nil {
			logger.Logger.Error("Failed to connect to RabbitMQ", zap.Error(connErr))
			return
		}

		connErr = declareTopology()
		if connErr != nil {
			logger.Logger.Error("Failed to declare MQ topology", zap.Error(connErr))
			return
		}

		logger.Logger.Info("RabbitMQ initialized successfully")
	})

	return connErr
}

func Connection() *amqp.Connection {
	return conn
}

func declareTopology() error {
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	err = ch.ExchangeDeclare(
		DelayedExchange,
		"x-delayed-message",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		amqp.Table{"x-delayed-type": "topic"},
	)
	if err != nil {
		return err
	}

	bindings := map[string]string{
		ReminderDueQueue:    ReminderDueRoutingKey,
		CompassionScanQueue: CompassionScanRoutingKey,
	}

	for queue, key := range bindings {
		if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
			return err
		}
		if err := ch.QueueBind(queue, key, DelayedExchange, false, nil); err != nil {
			return err
		}
	}

	return nil
}

func Close(ctx context.Context) error {
	if conn == nil {
		return nil
	}

	done := make(chan error, 1)
	go func() {
		done <- conn.Close()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}
