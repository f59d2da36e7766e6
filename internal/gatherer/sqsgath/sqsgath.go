// Package sqsgath streams run events to an SQS queue.
package sqsgath

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/trapcheck/trapcheck/api"
	"github.com/trapcheck/trapcheck/internal/fault"
)

type sqsGatherer struct {
	sqsClient *sqs.Client
	queueUrl  string
	runUuid   string
}

func New(sqsClient *sqs.Client, queueUrl string) *sqsGatherer {
	return &sqsGatherer{sqsClient: sqsClient, queueUrl: queueUrl}
}

func (s *sqsGatherer) send(msg interface{}) {
	b, err := json.Marshal(msg)
	if err != nil {
		slog.Warn("failed to marshal run event", "error", err)
		return
	}
	_, err = s.sqsClient.SendMessage(context.TODO(), &sqs.SendMessageInput{
		QueueUrl:    aws.String(s.queueUrl),
		MessageBody: aws.String(string(b)),
	})
	if err != nil {
		slog.Warn("failed to send run event to SQS", "error", err)
	}
}

func (s *sqsGatherer) StartRun(runUuid string, systemInfo string) {
	s.runUuid = runUuid
	s.send(api.NewStartedRun(runUuid, systemInfo))
}

func (s *sqsGatherer) StartScenario(name string, expected fault.Kind) {
	s.send(api.NewStartedScenario(s.runUuid, name, string(expected)))
}

func (s *sqsGatherer) FinishScenario(result api.ScenarioResult) {
	result.Run = api.TrimRunData(result.Run, api.MaxRunDataHeight, api.MaxRunDataWidth)
	s.send(api.NewFinishedScenario(s.runUuid, result))
}

func (s *sqsGatherer) HostCheck(alive bool, millis int64) {
	s.send(api.NewHostCheck(s.runUuid, alive, millis))
}

func (s *sqsGatherer) FatalError(msg string) {
	s.send(api.NewFatal(s.runUuid, msg))
}

func (s *sqsGatherer) FinishRun(ok bool) {
	s.send(api.NewFinishedRun(s.runUuid, ok))
}
