package services

import (
	"encoding/json"
	"log"
	"time"

	"github.com/FixerMob/Protocol-Service/internal/models"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

// EventPublisher announces created protocols on NATS JetStream so downstream
// consumers (archival, notifications) can react without coupling to this
// service.
type EventPublisher struct {
	nc *nats.Conn
	js nats.JetStreamContext
}

// ConnectNATS connects to NATS, initializes JetStream and makes sure the
// protocol-events stream exists.
func ConnectNATS(url string) (*EventPublisher, error) {
	opts := []nats.Option{
		nats.Name("protocol-service"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Printf("[NATS] disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("[NATS] reconnected to %s", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			log.Println("[NATS] connection closed")
		}),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, err
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, err
	}

	p := &EventPublisher{nc: nc, js: js}
	if err := p.ensureStream(); err != nil {
		log.Printf("[NATS] warning: failed to ensure stream: %v", err)
	}

	log.Println("[NATS] connected and JetStream initialized")
	return p, nil
}

func (p *EventPublisher) ensureStream() error {
	if _, err := p.js.StreamInfo("protocol-events"); err == nil {
		return nil
	}
	_, err := p.js.AddStream(&nats.StreamConfig{
		Name:     "protocol-events",
		Subjects: []string{"protocols.*"},
		Storage:  nats.FileStorage,
		MaxAge:   30 * 24 * time.Hour,
	})
	return err
}

// ProtocolCreated publishes a protocols.created event for a freshly
// appended record.
func (p *EventPublisher) ProtocolCreated(record models.ProtocolRecord) error {
	payload := map[string]interface{}{
		"protocol_id": record.ID,
		"type":        record.Kind,
		"device_id":   record.DeviceID,
		"file_count":  len(record.Files),
		"created_at":  record.CreatedAt.UTC().Format(time.RFC3339),
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = p.js.Publish("protocols.created", data, nats.MsgId(uuid.New().String()))
	return err
}

func (p *EventPublisher) Close() {
	if p.nc != nil {
		p.nc.Close()
	}
}
