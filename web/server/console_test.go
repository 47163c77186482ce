package server

import (
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestConsoleLog_KeepsOrder(t *testing.T) {
	log := NewConsoleLog(10)
	for i := 0; i < 3; i++ {
		log.Append(ConsoleMessage{Message: fmt.Sprintf("Message %d", i+1)})
	}

	messages := log.Messages()
	if len(messages) != 3 {
		t.Fatalf("Expected 3 messages, got %d", len(messages))
	}
	for i, msg := range messages {
		if expected := fmt.Sprintf("Message %d", i+1); msg.Message != expected {
			t.Errorf("Message %d: expected '%s', got '%s'", i, expected, msg.Message)
		}
	}
}

func TestConsoleLog_DropsOldest(t *testing.T) {
	log := NewConsoleLog(3)
	for i := 0; i < 5; i++ {
		log.Append(ConsoleMessage{Message: fmt.Sprintf("%d", i)})
	}

	messages := log.Messages()
	if len(messages) != 3 {
		t.Fatalf("Expected ring to hold 3 messages, got %d", len(messages))
	}
	got := []string{messages[0].Message, messages[1].Message, messages[2].Message}
	if strings.Join(got, ",") != "2,3,4" {
		t.Errorf("Expected the newest messages 2,3,4, got %v", got)
	}
}

func TestConsoleLog_MessagesIsCopy(t *testing.T) {
	log := NewConsoleLog(2)
	log.Append(ConsoleMessage{Message: "original"})
	messages := log.Messages()
	messages[0].Message = "changed"

	if log.Messages()[0].Message != "original" {
		t.Error("Messages should return a copy")
	}
}

func TestConsoleHandler_BasicLogging(t *testing.T) {
	log := NewConsoleLog(10)
	logger := slog.New(NewConsoleHandler(log, nil, slog.LevelInfo))

	logger.Info("rendering frame", "frame", 2, "bands", 9)

	messages := log.Messages()
	if len(messages) != 1 {
		t.Fatalf("Expected 1 message, got %d", len(messages))
	}
	msg := messages[0]
	if msg.Message != "rendering frame frame=2 bands=9" {
		t.Errorf("Unexpected message '%s'", msg.Message)
	}
	if msg.Level != "info" {
		t.Errorf("Expected level 'info', got '%s'", msg.Level)
	}
	if time.Since(msg.Timestamp) > time.Second {
		t.Errorf("Timestamp seems too old: %v", msg.Timestamp)
	}
}

func TestConsoleHandler_Levels(t *testing.T) {
	log := NewConsoleLog(10)
	logger := slog.New(NewConsoleHandler(log, nil, slog.LevelInfo))

	logger.Debug("band done")
	logger.Warn("cpu probe failed")
	logger.Error("render failed")

	messages := log.Messages()
	if len(messages) != 2 {
		t.Fatalf("Expected debug to be filtered, got %d messages", len(messages))
	}
	if messages[0].Level != "warning" || messages[1].Level != "error" {
		t.Errorf("Unexpected levels %q, %q", messages[0].Level, messages[1].Level)
	}
}

func TestConsoleHandler_WithAttrs(t *testing.T) {
	log := NewConsoleLog(10)
	logger := slog.New(NewConsoleHandler(log, nil, nil)).With("scene", "default")

	logger.Info("served render")

	if got := log.Messages()[0].Message; got != "served render scene=default" {
		t.Errorf("Unexpected message '%s'", got)
	}
}

func TestConsoleHandler_ForwardsToNext(t *testing.T) {
	log := NewConsoleLog(10)
	var sb strings.Builder
	next := slog.NewTextHandler(&sb, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(NewConsoleHandler(log, next, slog.LevelInfo))

	logger.Debug("band done", "band", 3)

	if len(log.Messages()) != 0 {
		t.Error("Debug line should not reach the console")
	}
	if !strings.Contains(sb.String(), "band done") {
		t.Errorf("Expected the next handler to receive the debug line, got %q", sb.String())
	}
}
