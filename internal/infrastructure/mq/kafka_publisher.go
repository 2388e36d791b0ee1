package mq

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	myconfig "course_match_server/internal/config"
	"course_match_server/internal/model"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// notificationEnvelope 写入 Kafka 的消息体
type notificationEnvelope struct {
	Id        string          `json:"id"`
	UserId    string          `json:"userId"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"createdAt"`
}

// KafkaPublisher 基于 Worker Pool 的 Kafka 通知镜像
// 请求线程只负责把任务放进通道，由后台 Worker 写 Kafka
type KafkaPublisher struct {
	writer  MessageWriter
	timeout time.Duration
	tasks   chan []kafka.Message
	wg      sync.WaitGroup
	once    sync.Once
}

// NewKafkaPublisher 根据配置创建 Kafka 通知镜像
func NewKafkaPublisher(conf myconfig.KafkaConfig, workerNum, bufferSize int) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(conf.HostPort),
		Topic:                  conf.NotificationTopic,
		Balancer:               &kafka.Hash{}, // 同一用户的通知落在同一分区，保持顺序
		WriteTimeout:           conf.Timeout * time.Second,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: false,
	}
	return NewPublisher(writer, conf.Timeout*time.Second, workerNum, bufferSize)
}

// NewPublisher 使用给定的 writer 创建镜像并启动 Worker
func NewPublisher(writer MessageWriter, timeout time.Duration, workerNum, bufferSize int) *KafkaPublisher {
	if workerNum <= 0 {
		workerNum = 1
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	p := &KafkaPublisher{
		writer:  writer,
		timeout: timeout,
		tasks:   make(chan []kafka.Message, bufferSize),
	}
	for i := 0; i < workerNum; i++ {
		p.wg.Add(1)
		go p.startWorker()
	}
	zap.L().Info("Kafka notification workers started", zap.Int("workers", workerNum), zap.Int("buffer", bufferSize))
	return p
}

// startWorker 单个 Worker 消费循环，panic 后重启
func (p *KafkaPublisher) startWorker() {
	defer func() {
		if rec := recover(); rec != nil {
			zap.L().Error("Kafka worker panic", zap.Any("recover", rec))
			go p.startWorker()
			return
		}
		p.wg.Done()
	}()

	for msgs := range p.tasks {
		p.write(msgs)
	}
}

func (p *KafkaPublisher) write(msgs []kafka.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		zap.L().Warn("mirror notifications to kafka failed", zap.Int("count", len(msgs)), zap.Error(err))
	}
}

// Publish 提交通知镜像任务
// 通道已满时降级为同步写入
func (p *KafkaPublisher) Publish(_ context.Context, notifications ...model.Notification) {
	if len(notifications) == 0 {
		return
	}
	msgs := make([]kafka.Message, 0, len(notifications))
	for _, n := range notifications {
		value, err := encodeNotification(n)
		if err != nil {
			zap.L().Warn("encode notification failed", zap.String("id", n.Id), zap.Error(err))
			continue
		}
		msgs = append(msgs, kafka.Message{Key: []byte(n.UserId), Value: value})
	}
	if len(msgs) == 0 {
		return
	}

	select {
	case p.tasks <- msgs:
	default:
		zap.L().Warn("Kafka notification channel full, writing synchronously")
		p.write(msgs)
	}
}

// Close 等待已提交的任务写完后关闭 writer
func (p *KafkaPublisher) Close() error {
	var err error
	p.once.Do(func() {
		close(p.tasks)
		p.wg.Wait()
		err = p.writer.Close()
	})
	return err
}

// EnsureTopic 创建通知主题（已存在时 Kafka 返回错误，记录后忽略）
func EnsureTopic(conf myconfig.KafkaConfig) {
	conn, err := kafka.Dial("tcp", conf.HostPort)
	if err != nil {
		zap.L().Warn("dial kafka failed", zap.String("addr", conf.HostPort), zap.Error(err))
		return
	}
	defer conn.Close()

	if err := conn.CreateTopics(kafka.TopicConfig{
		Topic:             conf.NotificationTopic,
		NumPartitions:     conf.Partition,
		ReplicationFactor: 1,
	}); err != nil {
		zap.L().Info("create kafka topic skipped", zap.String("topic", conf.NotificationTopic), zap.Error(err))
	}
}

func encodeNotification(n model.Notification) ([]byte, error) {
	payload := json.RawMessage(n.Payload)
	if !json.Valid(payload) {
		payload = json.RawMessage("{}")
	}
	return json.Marshal(notificationEnvelope{
		Id:        n.Id,
		UserId:    n.UserId,
		Type:      n.Type,
		Payload:   payload,
		CreatedAt: n.CreatedAt,
	})
}

var _ NotificationPublisher = (*KafkaPublisher)(nil)
