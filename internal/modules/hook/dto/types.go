package dto

import "time"

type HookInfo struct {
	Name    string
	Version string
	Enabled bool
	Binary  string
	Events  []string
}

type DoctorResult struct {
	Name            string
	ChecksumValid   bool
	BinaryReachable bool
	LifecycleOK     bool
	Error           string
}

// EventInput is one timer event fanned out to subscribed hooks.
type EventInput struct {
	Name      string
	RunID     string
	Mode      string
	At        time.Time
	Title     string
	Message   string
	LogKind   string
	Duration  time.Duration
	VaultPath string
}

type DispatchOutput struct {
	Delivered []string
}
