package iot

import (
	"context"

	"parkgate/internal/pkg/errs"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iotdataplane"
)

// MQTTPublisher is the narrow surface the dispatcher needs; the AWS IoT data
// plane client satisfies it through the adapter below.
type MQTTPublisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
}

type IoTDataPublisher struct {
	client *iotdataplane.Client
}

func NewIoTDataPublisher(client *iotdataplane.Client) *IoTDataPublisher {
	return &IoTDataPublisher{client: client}
}

// Publish sends at QoS 1: the broker redelivers to the gate controller until
// it confirms receipt, so application-level retries stay coarse.
func (p *IoTDataPublisher) Publish(ctx context.Context, topic string, payload []byte) error {
	_, err := p.client.Publish(ctx, &iotdataplane.PublishInput{
		Topic:   aws.String(topic),
		Qos:     1,
		Payload: payload,
	})
	if err != nil {
		return errs.Wrapf(err, "failed to publish to %s", topic)
	}
	return nil
}
