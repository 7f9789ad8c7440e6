// pkg/mrsh/progress.go
package mrsh

// ProgressCallback is called for various progress events.
// AddAll invokes it from several goroutines; it must be safe for concurrent use.
type ProgressCallback func(event ProgressEvent)

// ProgressEvent contains progress information
type ProgressEvent struct {
	Type         EventType
	Index        int    // input position in the batch
	Label        string // source label
	Current      int64  // inputs finished so far
	Total        int64  // inputs in the batch
	CurrentBytes uint64 // bytes read so far for this input
	TotalBytes   uint64 // input size when known, 0 otherwise
	Err          error  // set for EventError
}

// EventType indicates the type of progress event
type EventType int

const (
	EventStart EventType = iota
	EventFileStart
	EventFileProgress
	EventFileComplete
	EventError
	EventComplete
)

func (t EventType) String() string {
	switch t {
	case EventStart:
		return "start"
	case EventFileStart:
		return "file_start"
	case EventFileProgress:
		return "file_progress"
	case EventFileComplete:
		return "file_complete"
	case EventError:
		return "error"
	case EventComplete:
		return "complete"
	default:
		return "unknown"
	}
}
