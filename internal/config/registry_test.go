package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestGetConfigDir(t *testing.T) {
	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	// Should not be empty
	if configDir == "" {
		t.Error("GetConfigDir() returned empty string")
	}

	// Should contain "joybind"
	if !contains(configDir, "joybind") {
		t.Errorf("GetConfigDir() = %v, should contain 'joybind'", configDir)
	}

	// Platform-specific checks
	switch runtime.GOOS {
	case "windows":
		if !contains(configDir, "AppData") && !contains(configDir, "Local") {
			t.Errorf("Windows config dir should contain 'AppData' or 'Local', got: %v", configDir)
		}
	case "darwin", "linux":
		if !contains(configDir, ".config") {
			t.Errorf("Unix config dir should contain '.config', got: %v", configDir)
		}
	}

	t.Logf("Config directory: %s", configDir)
}

func TestGetConfigPath(t *testing.T) {
	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}

	// Should end with config.yaml
	if filepath.Base(configPath) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", configPath)
	}

	t.Logf("Config path: %s", configPath)
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()

	if reg.Version != 1 {
		t.Errorf("NewRegistry().Version = %v, want 1", reg.Version)
	}

	if reg.Devices == nil {
		t.Error("NewRegistry().Devices should not be nil")
	}

	if reg.Preferences == nil {
		t.Error("NewRegistry().Preferences should not be nil")
	}

	if reg.Preferences.AutoDiscover != true {
		t.Error("NewRegistry().Preferences.AutoDiscover should be true by default")
	}

	if reg.Preferences.DiscoverTimeout != 10 {
		t.Errorf("NewRegistry().Preferences.DiscoverTimeout = %v, want 10", reg.Preferences.DiscoverTimeout)
	}
}

func TestRegistryEnsureDevice(t *testing.T) {
	reg := NewRegistry()

	// First call should create device
	device1 := reg.EnsureDevice("231d:0200")
	if device1 == nil {
		t.Fatal("EnsureDevice() returned nil")
	}

	// Second call should return same device
	device2 := reg.EnsureDevice("231d:0200")
	if device1 != device2 {
		t.Error("EnsureDevice() should return same instance for same UUID")
	}

	// Different UUID should create new device
	device3 := reg.EnsureDevice("xinput_0")
	if device1 == device3 {
		t.Error("EnsureDevice() should create new instance for different UUID")
	}
}

func TestRegistryUpdateDeviceLastSeen(t *testing.T) {
	reg := NewRegistry()

	before := time.Now()
	reg.UpdateDeviceLastSeen("231d:0200")
	after := time.Now()

	device := reg.GetDevice("231d:0200")
	if device == nil {
		t.Fatal("Device should exist after UpdateDeviceLastSeen()")
	}

	if device.LastSeen.Before(before) || device.LastSeen.After(after) {
		t.Errorf("LastSeen = %v, should be between %v and %v", device.LastSeen, before, after)
	}
}

func TestRegistrySetDeviceNickname(t *testing.T) {
	reg := NewRegistry()

	reg.SetDeviceNickname("231d:0200", "VKB Gladiator")

	device := reg.GetDevice("231d:0200")
	if device == nil {
		t.Fatal("Device should exist after SetDeviceNickname()")
	}

	if device.Nickname != "VKB Gladiator" {
		t.Errorf("Nickname = %v, want 'VKB Gladiator'", device.Nickname)
	}
}

func TestRegistryPrefixOverrides(t *testing.T) {
	reg := NewRegistry()

	reg.SetPrefixOverride("231d:0200", "js1")
	reg.SetPrefixOverride("044f:0402", "js2")
	reg.SetDeviceNickname("xinput_0", "Pad") // no override

	overrides := reg.PrefixOverrides()
	if len(overrides) != 2 {
		t.Fatalf("PrefixOverrides() = %d entries, want 2", len(overrides))
	}
	if overrides["231d:0200"] != "js1" || overrides["044f:0402"] != "js2" {
		t.Errorf("PrefixOverrides() = %v", overrides)
	}

	// Removing an override takes the device back to auto-detection.
	reg.SetPrefixOverride("231d:0200", "")
	if _, ok := reg.PrefixOverrides()["231d:0200"]; ok {
		t.Error("cleared override still present")
	}

	// Clearing an override for an unknown device must not create an entry.
	reg.SetPrefixOverride("unknown", "")
	if reg.GetDevice("unknown") != nil {
		t.Error("clearing an override created a device entry")
	}
}

func TestRegistrySaveAndLoad(t *testing.T) {
	// Use a temporary directory for testing
	tmpDir, err := os.MkdirTemp("", "joybind-config-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	testConfigPath := filepath.Join(tmpDir, "config.yaml")

	// Create and populate registry
	reg := NewRegistry()
	reg.SetDeviceNickname("231d:0200", "VKB Gladiator")
	reg.SetPrefixOverride("231d:0200", "js1")

	data, err := yaml.Marshal(reg)
	if err != nil {
		t.Fatalf("Failed to marshal registry: %v", err)
	}

	if err := os.WriteFile(testConfigPath, data, 0600); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	// Load from test path
	raw, err := os.ReadFile(testConfigPath)
	if err != nil {
		t.Fatalf("Failed to read test config: %v", err)
	}
	var loadedReg Registry
	if err := yaml.Unmarshal(raw, &loadedReg); err != nil {
		t.Fatalf("Failed to parse test config: %v", err)
	}

	// Verify loaded data
	device := loadedReg.GetDevice("231d:0200")
	if device == nil {
		t.Fatal("Device should exist in loaded registry")
	}

	if device.Nickname != "VKB Gladiator" {
		t.Errorf("Loaded nickname = %v, want 'VKB Gladiator'", device.Nickname)
	}

	if device.Prefix != "js1" {
		t.Errorf("Loaded prefix = %v, want 'js1'", device.Prefix)
	}
}

// Helper functions

func contains(s, substr string) bool {
	return len(s) >= len(substr) && (s == substr || len(substr) == 0 ||
		(len(s) > 0 && (s[:len(substr)] == substr || contains(s[1:], substr))))
}

// Benchmark tests

func BenchmarkGetConfigDir(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = GetConfigDir()
	}
}

func BenchmarkEnsureDevice(b *testing.B) {
	reg := NewRegistry()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		reg.EnsureDevice("231d:0200")
	}
}

func BenchmarkPrefixOverrides(b *testing.B) {
	reg := NewRegistry()
	reg.SetPrefixOverride("231d:0200", "js1")
	reg.SetPrefixOverride("044f:0402", "js2")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		reg.PrefixOverrides()
	}
}
