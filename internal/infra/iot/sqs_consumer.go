package iot

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"parkgate/internal/pkg/errs"
	"parkgate/internal/usecase/commands"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

const (
	maxMessagesPerPoll = 10
	waitTimeSeconds    = 20
	visibilityTimeout  = 60
	receiveErrorDelay  = 5 * time.Second
)

// queueMessage is the envelope every producer on the event queue uses. The
// camera bridge sends plate_detection, gate controllers send
// command_acknowledgement.
type queueMessage struct {
	MessageType string          `json:"message_type"`
	Data        json.RawMessage `json:"data"`
}

type detectionMessage struct {
	Plate      string    `json:"plate"`
	GateID     string    `json:"gate_id"`
	Direction  string    `json:"direction"`
	DetectedAt time.Time `json:"detected_at"`
	Confidence int       `json:"confidence"`
	ImageRef   string    `json:"image_ref"`
}

type ackMessage struct {
	RequestID string    `json:"request_id"`
	GateID    string    `json:"gate_id"`
	AckedAt   time.Time `json:"acked_at"`
}

// SQSConsumer long-polls the event queue and routes messages to the detection
// pipeline or the gate dispatcher. Messages are deleted only after successful
// processing so failures are redelivered once visibility expires.
type SQSConsumer struct {
	client     *sqs.Client
	queueURL   string
	detections commands.DetectionCommands
	dispatcher *Dispatcher
}

func NewSQSConsumer(client *sqs.Client, queueURL string, detections commands.DetectionCommands, dispatcher *Dispatcher) *SQSConsumer {
	return &SQSConsumer{
		client:     client,
		queueURL:   queueURL,
		detections: detections,
		dispatcher: dispatcher,
	}
}

func (c *SQSConsumer) Start(ctx context.Context) {
	slog.Info("starting event queue consumer", "queue_url", c.queueURL)

	for {
		select {
		case <-ctx.Done():
			slog.Info("event queue consumer stopped")
			return
		default:
		}

		out, err := c.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(c.queueURL),
			MaxNumberOfMessages: maxMessagesPerPoll,
			WaitTimeSeconds:     waitTimeSeconds,
			VisibilityTimeout:   visibilityTimeout,
		})
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			slog.Error("failed to receive messages", "error", err.Error())
			select {
			case <-ctx.Done():
			case <-time.After(receiveErrorDelay):
			}
			continue
		}

		for _, msg := range out.Messages {
			if err := c.process(ctx, msg); err != nil {
				slog.Error("failed to process message",
					"message_id", aws.ToString(msg.MessageId), "error", err.Error())
				continue
			}
			c.delete(ctx, msg)
		}
	}
}

func (c *SQSConsumer) process(ctx context.Context, msg types.Message) error {
	var envelope queueMessage
	if err := json.Unmarshal([]byte(aws.ToString(msg.Body)), &envelope); err != nil {
		// Malformed bodies will never parse on redelivery either; report
		// success so the message is removed from the queue.
		slog.Warn("discarding unparseable message", "message_id", aws.ToString(msg.MessageId))
		return nil
	}

	switch envelope.MessageType {
	case "plate_detection":
		return c.handleDetection(ctx, envelope.Data)
	case "command_acknowledgement":
		return c.handleAck(envelope.Data)
	default:
		slog.Warn("discarding message with unknown type", "message_type", envelope.MessageType)
		return nil
	}
}

func (c *SQSConsumer) handleDetection(ctx context.Context, data json.RawMessage) error {
	var d detectionMessage
	if err := json.Unmarshal(data, &d); err != nil {
		return errs.Wrap(err, "failed to unmarshal detection payload")
	}

	result, err := c.detections.Ingest(ctx, commands.IngestInput{
		Plate:      d.Plate,
		GateID:     d.GateID,
		Direction:  d.Direction,
		DetectedAt: d.DetectedAt,
		Confidence: d.Confidence,
		ImageRef:   d.ImageRef,
	})
	if err != nil {
		// Lifecycle rejections (duplicate active session, no active session)
		// are terminal for this event; redelivering would just repeat them.
		if errs.Is(err, errs.ErrDuplicateActiveSession) ||
			errs.Is(err, errs.ErrNoActiveSession) ||
			errs.Is(err, commands.ErrInvalidDirection) {
			slog.Warn("detection rejected",
				"plate", d.Plate, "gate_id", d.GateID, "error", err.Error())
			return nil
		}
		return err
	}

	slog.Debug("detection processed",
		"plate", d.Plate, "gate_id", d.GateID, "outcome", string(result.Outcome))
	return nil
}

func (c *SQSConsumer) handleAck(data json.RawMessage) error {
	var a ackMessage
	if err := json.Unmarshal(data, &a); err != nil {
		return errs.Wrap(err, "failed to unmarshal acknowledgement payload")
	}
	if a.AckedAt.IsZero() {
		a.AckedAt = time.Now()
	}
	c.dispatcher.HandleAck(a.RequestID, a.AckedAt)
	return nil
}

func (c *SQSConsumer) delete(ctx context.Context, msg types.Message) {
	_, err := c.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(c.queueURL),
		ReceiptHandle: msg.ReceiptHandle,
	})
	if err != nil {
		slog.Error("failed to delete message",
			"message_id", aws.ToString(msg.MessageId), "error", err.Error())
	}
}
