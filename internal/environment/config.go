package environment

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

type EnvConfig struct {
	NatsUrl     string
	SqsQueueUrl string
	AwsRegion   string
	ArtifactDir string
}

func ReadEnvConfig() *EnvConfig {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	result := &EnvConfig{
		NatsUrl:     os.Getenv("NATS_URL"),
		SqsQueueUrl: os.Getenv("SQS_QUEUE_URL"),
		AwsRegion:   os.Getenv("AWS_REGION"),
		ArtifactDir: os.Getenv("TRAPCHECK_ARTIFACT_DIR"),
	}

	if result.AwsRegion == "" {
		result.AwsRegion = "eu-central-1"
	}
	if result.ArtifactDir == "" {
		result.ArtifactDir = filepath.Join(os.TempDir(), "trapcheck-crashes")
	}

	return result
}
