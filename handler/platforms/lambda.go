package platforms

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/taufiqnair-gif/codebounty-ai-sub000/handler"
)

// LambdaAdapter runs the engine handler inside AWS Lambda, consuming SQS
// events. Each SQS record carries one operation envelope; failed records
// are reported individually so the rest of the batch is not retried.
type LambdaAdapter struct {
	handler *handler.Handler
	config  *LambdaConfig
}

// LambdaConfig tunes SQS batch processing.
type LambdaConfig struct {
	// ProcessingTimeout bounds a single record
	ProcessingTimeout time.Duration
	// EnablePartialBatchFailure reports per-record failures to SQS
	EnablePartialBatchFailure bool
}

func DefaultLambdaConfig() *LambdaConfig {
	return &LambdaConfig{
		ProcessingTimeout:         30 * time.Second,
		EnablePartialBatchFailure: true,
	}
}

func NewLambdaAdapter(h *handler.Handler, config *LambdaConfig) *LambdaAdapter {
	if config == nil {
		config = DefaultLambdaConfig()
	}
	return &LambdaAdapter{handler: h, config: config}
}

// Start hands control to the Lambda runtime.
func (a *LambdaAdapter) Start() {
	lambda.Start(a.HandleEvent)
}

// HandleEvent routes the raw Lambda event to the matching processor.
func (a *LambdaAdapter) HandleEvent(ctx context.Context, event json.RawMessage) (interface{}, error) {
	var sqsEvent events.SQSEvent
	if err := json.Unmarshal(event, &sqsEvent); err == nil && len(sqsEvent.Records) > 0 {
		return a.handleSQSEvent(ctx, sqsEvent)
	}
	return nil, fmt.Errorf("unsupported event type")
}

func (a *LambdaAdapter) handleSQSEvent(ctx context.Context, event events.SQSEvent) (events.SQSEventResponse, error) {
	response := events.SQSEventResponse{
		BatchItemFailures: []events.SQSBatchItemFailure{},
	}

	for _, record := range event.Records {
		if err := a.processRecord(ctx, record); err != nil {
			if a.config.EnablePartialBatchFailure {
				response.BatchItemFailures = append(response.BatchItemFailures,
					events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
				continue
			}
			return response, err
		}
	}

	return response, nil
}

func (a *LambdaAdapter) processRecord(ctx context.Context, record events.SQSMessage) error {
	req := a.buildRequest(record)

	if a.config.ProcessingTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.config.ProcessingTimeout)
		defer cancel()
	}

	resp, err := a.handler.Handle(ctx, req)
	if err != nil {
		return fmt.Errorf("handler error: %w", err)
	}

	// only retryable failures bounce back to SQS; domain rejections are
	// terminal for the record
	if !resp.Success && resp.Error != nil && resp.Error.Retryable {
		return fmt.Errorf("retryable error: %s", resp.Error.Message)
	}

	return nil
}

func (a *LambdaAdapter) buildRequest(record events.SQSMessage) handler.Request {
	metadata := make(map[string]string)
	for key, attr := range record.MessageAttributes {
		if attr.StringValue != nil {
			metadata[key] = *attr.StringValue
		}
	}
	metadata["sqs_message_id"] = record.MessageId
	metadata["sqs_event_source"] = record.EventSource

	var payload json.RawMessage
	if err := json.Unmarshal([]byte(record.Body), &payload); err != nil {
		wrapped, _ := json.Marshal(record.Body)
		payload = wrapped
	}

	requestType := "sqs_message"
	if msgType, ok := metadata["type"]; ok {
		requestType = msgType
	}

	requestID := record.MessageId
	if id, ok := metadata["request_id"]; ok {
		requestID = id
	}

	return handler.Request{
		ID:        requestID,
		Source:    "sqs",
		Type:      requestType,
		Payload:   payload,
		Metadata:  metadata,
		Timestamp: time.Now().UTC(),
	}
}
