package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

type Destination interface {
	WriteMessage(topic string, msg []byte) error
	Close() error
}

// envelope holds the fields every lifecycle event carries.
type envelope struct {
	Timestamp int64  `json:"timestamp"`
	EventType string `json:"eventType"`
	RunID     string `json:"runId"`
}

func parseEnvelope(msg []byte) (envelope, error) {
	var env envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		return envelope{}, err
	}
	if env.Timestamp == 0 {
		return envelope{}, fmt.Errorf("invalid timestamp")
	}
	return env, nil
}

// partitionPath returns the hive style directory for an event time.
func partitionPath(timestampMs int64) string {
	eventTime := time.UnixMilli(timestampMs).UTC()
	year, month, day := eventTime.Date()
	return fmt.Sprintf("year=%d/month=%02d/day=%02d/hour=%02d", year, month, day, eventTime.Hour())
}

func partitionDir(basePath, folder, topic string, timestampMs int64) (string, error) {
	fullPath := filepath.Join(basePath, folder, topic, partitionPath(timestampMs))
	if err := os.MkdirAll(fullPath, os.ModePerm); err != nil {
		return "", err
	}
	return fullPath, nil
}

type ConsoleOutput struct {
	w io.Writer
}

func NewConsoleOutput(w io.Writer) *ConsoleOutput {
	if w == nil {
		w = os.Stdout
	}
	return &ConsoleOutput{w: w}
}

func (c *ConsoleOutput) WriteMessage(topic string, msg []byte) error {
	if _, err := fmt.Fprintf(c.w, "[%s] %s\n", topic, msg); err != nil {
		return fmt.Errorf("failed to write to console: %w", err)
	}
	return nil
}

func (c *ConsoleOutput) Close() error {
	return nil
}

// NoopOutput discards every message.
type NoopOutput struct{}

func (NoopOutput) WriteMessage(string, []byte) error { return nil }
func (NoopOutput) Close() error                      { return nil }
