package queue

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"go.uber.org/zap"
)

// SQSAPI is the subset of the SQS client the consumer uses.
type SQSAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// MessageHandler processes one message body. Returning nil acknowledges the
// message; any error other than one matching a drop error leaves it for
// redelivery after the visibility timeout.
type MessageHandler interface {
	HandleMessage(ctx context.Context, body string) error
}

type SQSConsumer struct {
	client     SQSAPI
	queueURL   string
	handler    MessageHandler
	dropErrors []error
	retryDelay time.Duration
	log        *zap.SugaredLogger
}

// NewSQSConsumer builds a long-poll consumer. Messages whose handler error
// matches one of dropErrors are deleted rather than retried.
func NewSQSConsumer(client SQSAPI, queueURL string, handler MessageHandler, log *zap.SugaredLogger, dropErrors ...error) *SQSConsumer {
	return &SQSConsumer{
		client:     client,
		queueURL:   queueURL,
		handler:    handler,
		dropErrors: dropErrors,
		retryDelay: 5 * time.Second,
		log:        log,
	}
}

func (c *SQSConsumer) Start(ctx context.Context) {
	c.log.Infow("SQS consumer listening", "queue_url", c.queueURL)
	for {
		select {
		case <-ctx.Done():
			c.log.Info("SQS consumer: context cancelled, stopping")
			return
		default:
		}

		if err := c.poll(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			c.log.Warnw("SQS consumer: receive failed", "error", err)
			select {
			case <-time.After(c.retryDelay):
			case <-ctx.Done():
				return
			}
		}
	}
}

// poll receives one batch and processes it.
func (c *SQSConsumer) poll(ctx context.Context) error {
	result, err := c.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(c.queueURL),
		MaxNumberOfMessages: 10,
		WaitTimeSeconds:     20,
		VisibilityTimeout:   60,
	})
	if err != nil {
		return err
	}
	if len(result.Messages) > 0 {
		c.log.Debugw("SQS consumer: received messages", "count", len(result.Messages))
	}

	for _, message := range result.Messages {
		if message.Body == nil {
			c.deleteMessage(ctx, message.ReceiptHandle)
			continue
		}

		err := c.handler.HandleMessage(ctx, *message.Body)
		switch {
		case err == nil:
			c.deleteMessage(ctx, message.ReceiptHandle)
		case c.shouldDrop(err):
			c.log.Warnw("SQS consumer: dropping unprocessable message",
				"message_id", aws.ToString(message.MessageId), "error", err)
			c.deleteMessage(ctx, message.ReceiptHandle)
		default:
			c.log.Errorw("SQS consumer: message failed, leaving for redelivery",
				"message_id", aws.ToString(message.MessageId), "error", err)
		}
	}
	return nil
}

func (c *SQSConsumer) shouldDrop(err error) bool {
	for _, target := range c.dropErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func (c *SQSConsumer) deleteMessage(ctx context.Context, receiptHandle *string) {
	if receiptHandle == nil {
		c.log.Warn("SQS consumer: empty receipt handle, cannot delete message")
		return
	}
	_, err := c.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(c.queueURL),
		ReceiptHandle: receiptHandle,
	})
	if err != nil {
		c.log.Warnw("SQS consumer: delete failed", "error", err)
	}
}
