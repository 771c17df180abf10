// Package metrics publishes application counters to CloudWatch.
// file: metrics/metrics.go
package metrics

import (
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/cloudwatch"
	"github.com/aws/aws-sdk-go/service/cloudwatch/cloudwatchiface"
	"go-youth-feed/logger"
)

// Namespace for all application metrics
const Namespace = "YouthFeed"

// metric names
const (
	FeedCreated       = "FeedCreated"
	FeedUpdated       = "FeedUpdated"
	FeedDeleted       = "FeedDeleted"
	SignupCompleted   = "SignupCompleted"
	SignupFailed      = "SignupFailed"
	ViewerConnections = "ViewerConnections"
)

// Publisher records a single metric value.
type Publisher interface {
	Count(name string)
	Gauge(name string, value float64)
}

// Noop drops everything.
type Noop struct{}

func (Noop) Count(string)          {}
func (Noop) Gauge(string, float64) {}

// CloudWatch pushes each value as a PutMetricData call.
type CloudWatch struct {
	client      cloudwatchiface.CloudWatchAPI
	environment string
}

// NewCloudWatch builds a client from the default AWS credential chain.
func NewCloudWatch(region, environment string) (*CloudWatch, error) {
	sess, err := session.NewSession(aws.NewConfig().WithRegion(region))
	if err != nil {
		return nil, err
	}
	return NewCloudWatchWithClient(cloudwatch.New(sess), environment), nil
}

// NewCloudWatchWithClient uses the given client, which tests replace with a mock.
func NewCloudWatchWithClient(client cloudwatchiface.CloudWatchAPI, environment string) *CloudWatch {
	return &CloudWatch{client: client, environment: environment}
}

// Count adds one to name.
func (c *CloudWatch) Count(name string) {
	c.put(name, 1, cloudwatch.StandardUnitCount)
}

// Gauge records value for name.
func (c *CloudWatch) Gauge(name string, value float64) {
	c.put(name, value, cloudwatch.StandardUnitCount)
}

// -----------------------------------------------------------
// internal helper function to package up CloudWatch calls
// -----------------------------------------------------------
func (c *CloudWatch) put(name string, value float64, unit string) {
	_, err := c.client.PutMetricData(&cloudwatch.PutMetricDataInput{
		Namespace: aws.String(Namespace),
		MetricData: []*cloudwatch.MetricDatum{
			{
				MetricName: aws.String(name),
				Dimensions: []*cloudwatch.Dimension{
					{
						Name:  aws.String("Environment"),
						Value: aws.String(c.environment),
					},
				},
				Timestamp: aws.Time(time.Now()),
				Value:     aws.Float64(value),
				Unit:      aws.String(unit),
			},
		},
	})
	if err != nil {
		logger.Error.Printf("[metrics] CloudWatch metric failed (%s): %v", name, err)
	}
}
