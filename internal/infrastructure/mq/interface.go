// Package mq 提供通知的消息队列镜像
// 通知以数据库为准，这里只把已落库的通知异步写一份到 Kafka，供下游（邮件、推送）消费
package mq

import (
	"context"

	"course_match_server/internal/model"

	"github.com/segmentio/kafka-go"
)

// NotificationPublisher 通知镜像接口
// Publish 不阻塞调用方，也不返回错误，失败只记录日志
type NotificationPublisher interface {
	Publish(ctx context.Context, notifications ...model.Notification)
	Close() error
}

// MessageWriter 抽象 kafka.Writer，便于测试替换
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NopPublisher 未开启 Kafka 时使用
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ...model.Notification) {}

func (NopPublisher) Close() error { return nil }

var _ NotificationPublisher = NopPublisher{}
