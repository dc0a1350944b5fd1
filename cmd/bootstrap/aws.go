package bootstrap

import (
	"context"

	appconfig "parkgate/internal/pkg/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/iotdataplane"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"go.uber.org/fx"
)

var AWSModule = fx.Module("aws",
	fx.Provide(
		NewAWSConfig,
		NewIoTDataClient,
		NewSQSClient,
	),
)

func NewAWSConfig(cfg appconfig.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.AWS.Region),
	)
}

func NewIoTDataClient(awsCfg aws.Config, cfg appconfig.Config) *iotdataplane.Client {
	return iotdataplane.NewFromConfig(awsCfg, func(o *iotdataplane.Options) {
		// The IoT data endpoint is account specific and not discoverable
		// from the region alone.
		if cfg.AWS.IoTMQTTEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.AWS.IoTMQTTEndpoint)
		}
	})
}

func NewSQSClient(awsCfg aws.Config) *sqs.Client {
	return sqs.NewFromConfig(awsCfg)
}
