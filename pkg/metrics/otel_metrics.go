package metrics

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OTelMetrics OpenTelemetry 指标集合
type OTelMetrics struct {
	// 提醒相关指标
	RemindersPlannedTotal   metric.Int64Counter
	RemindersPublishedTotal metric.Int64Counter
	RemindersDroppedTotal   metric.Int64Counter
	ReminderPlanDuration    metric.Float64Histogram

	// 关怀 / 恢复相关指标
	CompassionTriggersTotal    metric.Int64Counter
	RecoverySessionsStarted    metric.Int64Counter
	RecoverySessionsCompleted  metric.Int64Counter
	ActiveRecoverySessions     metric.Int64UpDownCounter

	// 徽章相关指标
	BadgesAwardedTotal metric.Int64Counter
}

var (
	// 全局指标实例
	metrics *OTelMetrics
	// meter 用于创建指标
	meter = otel.Meter("habitpulse")
)

// InitMetrics 初始化 OpenTelemetry 指标
func InitMetrics() error {
	var err error

	metrics = &OTelMetrics{}

	metrics.RemindersPlannedTotal, err = meter.Int64Counter(
		"reminders_planned_total",
		metric.WithDescription("Total number of reminder candidates produced by the planner"),
		metric.WithUnit("{reminder}"),
	)
	if err != nil {
		return err
	}

	metrics.RemindersPublishedTotal, err = meter.Int64Counter(
		"reminders_published_total",
		metric.WithDescription("Total number of reminder messages published to the queue"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return err
	}

	metrics.RemindersDroppedTotal, err = meter.Int64Counter(
		"reminders_dropped_total",
		metric.WithDescription("Total number of reminder candidates dropped (past-due or duplicate)"),
		metric.WithUnit("{reminder}"),
	)
	if err != nil {
		return err
	}

	metrics.ReminderPlanDuration, err = meter.Float64Histogram(
		"reminder_plan_duration_seconds",
		metric.WithDescription("Time spent planning reminders per habit in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	metrics.CompassionTriggersTotal, err = meter.Int64Counter(
		"compassion_triggers_total",
		metric.WithDescription("Total number of compassion triggers fired"),
		metric.WithUnit("{trigger}"),
	)
	if err != nil {
		return err
	}

	metrics.RecoverySessionsStarted, err = meter.Int64Counter(
		"recovery_sessions_started_total",
		metric.WithDescription("Total number of recovery sessions started"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return err
	}

	metrics.RecoverySessionsCompleted, err = meter.Int64Counter(
		"recovery_sessions_completed_total",
		metric.WithDescription("Total number of recovery sessions completed"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return err
	}

	metrics.ActiveRecoverySessions, err = meter.Int64UpDownCounter(
		"recovery_sessions_active",
		metric.WithDescription("Number of currently active recovery sessions"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return err
	}

	metrics.BadgesAwardedTotal, err = meter.Int64Counter(
		"badges_awarded_total",
		metric.WithDescription("Total number of badges awarded"),
		metric.WithUnit("{badge}"),
	)
	if err != nil {
		return err
	}

	return nil
}

// GetMetrics 获取全局指标实例
func GetMetrics() *OTelMetrics {
	return metrics
}

// RecordReminderPlanned 记录一次提醒规划结果
func (m *OTelMetrics) RecordReminderPlanned(ctx context.Context, frequency, priority string, duration float64) {
	attrs := []attribute.KeyValue{
		attribute.String("frequency", frequency),
		attribute.String("priority", priority),
	}
	m.RemindersPlannedTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.ReminderPlanDuration.Record(ctx, duration, metric.WithAttributes(attrs...))
}

// RecordReminderPublished 记录一次提醒消息发布
func (m *OTelMetrics) RecordReminderPublished(ctx context.Context, reminderType string) {
	m.RemindersPublishedTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("type", reminderType),
	))
}

// RecordReminderDropped 记录一次提醒丢弃
func (m *OTelMetrics) RecordReminderDropped(ctx context.Context, reason string) {
	m.RemindersDroppedTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("reason", reason),
	))
}

// RecordCompassionTrigger 记录一次关怀触发
func (m *OTelMetrics) RecordCompassionTrigger(ctx context.Context, severity string) {
	m.CompassionTriggersTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("severity", severity),
	))
}

// RecordRecoveryStarted 记录一次恢复计划启动
func (m *OTelMetrics) RecordRecoveryStarted(ctx context.Context, recoveryType string) {
	attrs := metric.WithAttributes(attribute.String("recovery_type", recoveryType))
	m.RecoverySessionsStarted.Add(ctx, 1, attrs)
	m.ActiveRecoverySessions.Add(ctx, 1, attrs)
}

// RecordRecoveryCompleted 记录一次恢复计划结束
func (m *OTelMetrics) RecordRecoveryCompleted(ctx context.Context, outcome string) {
	m.RecoverySessionsCompleted.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
	m.ActiveRecoverySessions.Add(ctx, -1)
}

// RecordBadgeAwarded 记录一次徽章授予
func (m *OTelMetrics) RecordBadgeAwarded(ctx context.Context, requirementType string) {
	m.BadgesAwardedTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("requirement_type", requirementType),
	))
}
