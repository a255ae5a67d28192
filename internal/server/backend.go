package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/joybind/internal/agent"
	"github.com/muurk/joybind/internal/device"
	"github.com/muurk/joybind/internal/logging"
)

// Backend supplies the agent with devices and raw input events. The real
// HID/XInput backend lives outside this repository; the replay and synthetic
// backends here cover development and tests.
type Backend interface {
	// Devices returns the current enumeration, in enumeration order. The
	// order defines the auto slot table on the client, so it must be the
	// order the hardware layer reported.
	Devices() []device.Info

	// Stream delivers raw input events to emit until ctx is cancelled.
	Stream(ctx context.Context, emit func(agent.DetectedInput)) error
}

// replayRecord is one line of a replay capture file.
type replayRecord struct {
	DelayMS int                 `json:"delay_ms"`
	Input   agent.DetectedInput `json:"input"`
}

// ReplayBackend replays a JSONL capture of input events, looping until the
// context ends. Each line holds a delay and the event to emit after it.
type ReplayBackend struct {
	devices []device.Info
	records []replayRecord
}

// NewReplayBackend loads a capture file and the device list to advertise.
func NewReplayBackend(path string, devices []device.Info) (*ReplayBackend, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open replay file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var records []replayRecord
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var rec replayRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("replay file line %d: %w", line, err)
		}
		if rec.Input.Input == "" {
			return nil, fmt.Errorf("replay file line %d: record has no input", line)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read replay file: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("replay file %s holds no events", path)
	}

	logging.Info("Replay backend loaded",
		zap.String("path", path),
		zap.Int("events", len(records)),
	)
	return &ReplayBackend{devices: devices, records: records}, nil
}

// Devices implements Backend.
func (b *ReplayBackend) Devices() []device.Info {
	return b.devices
}

// Stream implements Backend. The capture loops so a capture shorter than a
// test run still produces events.
func (b *ReplayBackend) Stream(ctx context.Context, emit func(agent.DetectedInput)) error {
	for {
		for _, rec := range b.records {
			delay := time.Duration(rec.DelayMS) * time.Millisecond
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			emit(rec.Input)
		}
	}
}

// SyntheticBackend emits a fixed script of events once per detection pass.
// Tests and demos use it; Feed pushes extra events at will.
type SyntheticBackend struct {
	devices []device.Info
	script  []agent.DetectedInput
	extra   chan agent.DetectedInput
}

// NewSyntheticBackend creates a backend that advertises the given devices
// and emits the script, one event per scriptInterval.
func NewSyntheticBackend(devices []device.Info, script []agent.DetectedInput) *SyntheticBackend {
	return &SyntheticBackend{
		devices: devices,
		script:  script,
		extra:   make(chan agent.DetectedInput, 16),
	}
}

// Devices implements Backend.
func (b *SyntheticBackend) Devices() []device.Info {
	return b.devices
}

// Feed injects an event as if the hardware produced it.
func (b *SyntheticBackend) Feed(ev agent.DetectedInput) {
	select {
	case b.extra <- ev:
	default:
	}
}

// Stream implements Backend.
func (b *SyntheticBackend) Stream(ctx context.Context, emit func(agent.DetectedInput)) error {
	for _, ev := range b.script {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(10 * time.Millisecond):
		}
		emit(ev)
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-b.extra:
			emit(ev)
		}
	}
}
