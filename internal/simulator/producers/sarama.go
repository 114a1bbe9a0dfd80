package producers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/IBM/sarama"
	"github.com/charmbracelet/log"
	"github.com/chrisdamba/hotelsim/internal/models"
)

var ErrProducerClosed = errors.New("sarama producer is not initialized")

// SaramaProducer publishes booking events to Kafka with a synchronous producer.
type SaramaProducer struct {
	producer sarama.SyncProducer
	logger   *log.Logger
}

// NewSaramaConfig is the producer configuration used for booking events.
func NewSaramaConfig(cfg models.EventsConfig) *sarama.Config {
	saramaConfig := sarama.NewConfig()
	saramaConfig.ClientID = "hotelsim"
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 5
	saramaConfig.Producer.Retry.Backoff = 100 * time.Millisecond
	saramaConfig.Producer.Return.Successes = true // required by SyncProducer
	saramaConfig.Net.DialTimeout = 30 * time.Second
	saramaConfig.Net.ReadTimeout = 30 * time.Second
	saramaConfig.Net.WriteTimeout = 30 * time.Second

	if cfg.SessionTimeoutMs > 0 {
		saramaConfig.Consumer.Group.Session.Timeout = time.Duration(cfg.SessionTimeoutMs) * time.Millisecond
	} else {
		saramaConfig.Consumer.Group.Session.Timeout = 45 * time.Second
	}
	return saramaConfig
}

func NewSaramaProducer(cfg models.EventsConfig, logger *log.Logger) (*SaramaProducer, error) {
	brokerList := strings.Split(cfg.KafkaBrokerList, ",")

	producer, err := sarama.NewSyncProducer(brokerList, NewSaramaConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create Sarama producer: %w", err)
	}

	logger = logger.WithPrefix("kafka")
	logger.Info("sarama producer created", "brokers", brokerList)
	return NewSaramaProducerFrom(producer, logger), nil
}

// NewSaramaProducerFrom wraps an existing producer, such as a sarama mock.
func NewSaramaProducerFrom(producer sarama.SyncProducer, logger *log.Logger) *SaramaProducer {
	return &SaramaProducer{producer: producer, logger: logger}
}

func (s *SaramaProducer) WriteMessage(topic string, msg []byte) error {
	if s.producer == nil {
		return ErrProducerClosed
	}

	partition, offset, err := s.producer.SendMessage(&sarama.ProducerMessage{
		Topic: topic,
		Value: sarama.ByteEncoder(msg),
	})
	if err != nil {
		return fmt.Errorf("failed to send message to topic %s: %w", topic, err)
	}

	s.logger.Debug("message delivered", "topic", topic, "partition", partition, "offset", offset)
	return nil
}

func (s *SaramaProducer) Close() error {
	if s.producer == nil {
		return nil
	}
	err := s.producer.Close()
	s.producer = nil
	return err
}
