package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventFilesDiscoveredBatch EventType = "FilesDiscoveredBatch"
	EventScanStarted          EventType = "ScanStarted"
	EventScanCompleted        EventType = "ScanCompleted"
	EventScanRequested        EventType = "ScanRequested"
	EventFileChanged          EventType = "FileChanged"
	EventFileRemoved          EventType = "FileRemoved"
	EventWatchError           EventType = "WatchError"
	EventConfigLoaded         EventType = "ConfigLoaded"
	EventConfigSaved          EventType = "ConfigSaved"
	EventError                EventType = "Error"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// FilesDiscoveredBatchEvent is emitted for each batch of markdown files found
type FilesDiscoveredBatchEvent struct {
	Files []DocFile
}

func (e FilesDiscoveredBatchEvent) Type() EventType { return EventFilesDiscoveredBatch }

// ScanStartedEvent is emitted when document scanning begins
type ScanStartedEvent struct {
	Root string
}

func (e ScanStartedEvent) Type() EventType { return EventScanStarted }

// ScanCompletedEvent is emitted when document scanning completes
type ScanCompletedEvent struct {
	FilesFound int
}

func (e ScanCompletedEvent) Type() EventType { return EventScanCompleted }

// ScanRequestedEvent is emitted to request a new scan
type ScanRequestedEvent struct {
	Root string
}

func (e ScanRequestedEvent) Type() EventType { return EventScanRequested }

// FileChangedEvent is emitted when the watched document is modified on disk
type FileChangedEvent struct {
	Path string
}

func (e FileChangedEvent) Type() EventType { return EventFileChanged }

// FileRemovedEvent is emitted when the watched document is deleted or renamed
// away. The watcher stops itself; the last-rendered content stays visible.
type FileRemovedEvent struct {
	Path string
}

func (e FileRemovedEvent) Type() EventType { return EventFileRemoved }

// WatchErrorEvent is emitted when the filesystem watcher fails
type WatchErrorEvent struct {
	Path string
	Err  error
}

func (e WatchErrorEvent) Type() EventType { return EventWatchError }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }
