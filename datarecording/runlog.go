package datarecording

import (
	"time"
)

// RunTableName is the table self-test runs are recorded into.
const RunTableName = "test_runs"

// RunEntry is one recorded self-test run. Per-unit counts are folded
// into the single Errors scalar before recording.
type RunEntry struct {
	RunID      string
	StartTime  string
	Seed       uint32
	FirstAddr  uint64
	LastAddr   uint64
	UnitCount  int
	Iterations uint64
	Errors     uint64
	Passed     bool
	DurationMS int64
}

// A RunLogger records self-test runs through a DataRecorder.
type RunLogger struct {
	recorder DataRecorder
}

// NewRunLogger creates the run table on the recorder and returns a
// logger for it.
func NewRunLogger(recorder DataRecorder) *RunLogger {
	recorder.CreateTable(RunTableName, RunEntry{})

	return &RunLogger{recorder: recorder}
}

// Record logs one finished run. The start time is stamped here if the
// entry does not carry one.
func (l *RunLogger) Record(entry RunEntry) {
	if entry.StartTime == "" {
		entry.StartTime = time.Now().Format("2006-01-02 15:04:05")
	}

	l.recorder.InsertData(RunTableName, entry)
}

// Flush forces buffered entries into the database.
func (l *RunLogger) Flush() {
	l.recorder.Flush()
}
