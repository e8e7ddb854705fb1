package ui

import (
	"github.com/linuxmatters/trackmaster/internal/mastering"
)

// ProgressMsg represents a progress update from the mastering engine
type ProgressMsg struct {
	Stage    string  // StageEQ, StageCompress, StageNormalize, StageLimit
	Channel  int     // Channel being processed (-1 during analysis)
	Channels int     // Total channels in the working buffer
	Progress float64 // 0.0 to 1.0 across the whole pipeline
}

// FileStartMsg indicates a new file has started mastering
type FileStartMsg struct {
	FileIndex int
	FileName  string
}

// FileCompleteMsg indicates a file has finished mastering
type FileCompleteMsg struct {
	FileIndex  int
	Mode       mastering.Mode
	InputLUFS  float64
	OutputLUFS float64
	OutputPath string
	Error      error
}

// AllCompleteMsg indicates all files have been processed
type AllCompleteMsg struct{}
