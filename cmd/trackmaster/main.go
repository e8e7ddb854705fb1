package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/linuxmatters/trackmaster/internal/audio"
	"github.com/linuxmatters/trackmaster/internal/cli"
	"github.com/linuxmatters/trackmaster/internal/logging"
	"github.com/linuxmatters/trackmaster/internal/mastering"
	"github.com/linuxmatters/trackmaster/internal/ui"
)

var (
	version = "0.0.1"
)

// CLI defines the command-line interface
type CLI struct {
	Version   bool     `short:"v" help:"Show version information"`
	Target    float64  `short:"t" default:"-14" help:"Target integrated loudness in LUFS"`
	Reference string   `short:"r" type:"existingfile" help:"Reference track to match (WAV)"`
	Analyze   bool     `short:"a" help:"Analyze files and print their profiles without mastering"`
	Logs      bool     `help:"Save detailed mastering reports"`
	Files     []string `arg:"" name:"files" help:"Audio files to master (WAV)" type:"existingfile" optional:""`
}

func main() {
	cliArgs := &CLI{}
	ctx := kong.Parse(cliArgs,
		kong.Name("trackmaster"),
		kong.Description("Automated audio mastering engine"),
		kong.UsageOnError(),
		kong.Vars{
			"version": version,
		},
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	)

	// Handle version flag
	if cliArgs.Version {
		cli.PrintVersion(version)
		os.Exit(0)
	}

	// Validate input
	if len(cliArgs.Files) == 0 {
		cli.PrintError("No input files specified")
		ctx.PrintUsage(false)
		os.Exit(1)
	}

	// Analysis-only mode prints profiles to the console and exits
	if cliArgs.Analyze {
		os.Exit(runAnalyze(cliArgs.Files))
	}

	// Load the reference track once; it is reused for every input file
	var reference *audio.Buffer
	if cliArgs.Reference != "" {
		ref, err := audio.ReadWAV(cliArgs.Reference)
		if err != nil {
			cli.PrintError(fmt.Sprintf("Failed to read reference %s: %v", cliArgs.Reference, err))
			os.Exit(1)
		}
		reference = ref
	}

	config := mastering.DefaultConfig()
	config.TargetLUFS = cliArgs.Target

	// Open debug log file
	debugLog, _ := os.Create("trackmaster-debug.log")
	defer debugLog.Close()
	log := func(format string, args ...interface{}) {
		if debugLog != nil {
			fmt.Fprintf(debugLog, format+"\n", args...)
		}
	}

	// Create the Bubbletea UI model
	model := ui.NewModel(cliArgs.Files, cliArgs.Target)

	// Start the TUI
	p := tea.NewProgram(model, tea.WithAltScreen())

	// Start mastering in background
	go func() {
		for i, inputPath := range cliArgs.Files {
			fileStartTime := time.Now()

			// Signal file start
			log("[MAIN] Sending FileStartMsg for file %d: %s", i, inputPath)
			p.Send(ui.FileStartMsg{
				FileIndex: i,
				FileName:  inputPath,
			})

			ph := &progressHandler{
				p:   p,
				log: log,
			}

			buf, err := audio.ReadWAV(inputPath)
			if err != nil {
				log("[MAIN] ReadWAV failed: %v", err)
				p.Send(ui.FileCompleteMsg{FileIndex: i, Error: err})
				continue
			}

			log("[MAIN] Starting Master for %s", inputPath)
			result, err := mastering.Master(buf, config, reference, ph.callback)
			if err != nil {
				log("[MAIN] Master failed: %v", err)
				p.Send(ui.FileCompleteMsg{FileIndex: i, Error: err})
				continue
			}

			outputPath := generateOutputPath(inputPath)
			if err := audio.WriteWAV(outputPath, result.Buffer, audio.DefaultBitDepth); err != nil {
				log("[MAIN] WriteWAV failed: %v", err)
				p.Send(ui.FileCompleteMsg{FileIndex: i, Error: err})
				continue
			}

			// Generate mastering report if --logs flag is set
			if cliArgs.Logs {
				target := config.TargetLUFS
				if result.Profile != nil {
					target = result.Profile.TargetLUFS
				}
				reportData := logging.ReportData{
					InputPath:    inputPath,
					OutputPath:   outputPath,
					StartTime:    fileStartTime,
					EndTime:      time.Now(),
					Mode:         result.Mode,
					TargetLUFS:   target,
					InputLUFS:    result.InputLUFS,
					OutputLUFS:   result.OutputLUFS,
					InputPeak:    bufferPeak(buf),
					OutputPeak:   bufferPeak(result.Buffer),
					Profile:      result.Profile,
					SampleRate:   result.Buffer.SampleRate,
					Channels:     result.Buffer.Channels(),
					DurationSecs: result.Buffer.Duration(),
				}
				if err := logging.GenerateReport(reportData); err != nil {
					log("[MAIN] Failed to generate log file: %v", err)
				}
			}

			// Signal file complete with actual data
			log("[MAIN] Sending FileCompleteMsg for file %d", i)
			p.Send(ui.FileCompleteMsg{
				FileIndex:  i,
				Mode:       result.Mode,
				InputLUFS:  result.InputLUFS,
				OutputLUFS: result.OutputLUFS,
				OutputPath: outputPath,
			})
		}

		// Signal all complete
		log("[MAIN] Sending AllCompleteMsg")
		p.Send(ui.AllCompleteMsg{})
	}()

	// Run the program
	if _, err := p.Run(); err != nil {
		cli.PrintError(fmt.Sprintf("UI error: %v", err))
		os.Exit(1)
	}
}

// runAnalyze prints the reference profile of each file to the console.
// Returns the process exit code.
func runAnalyze(files []string) int {
	exitCode := 0
	for _, path := range files {
		buf, err := audio.ReadWAV(path)
		if err != nil {
			cli.PrintError(fmt.Sprintf("Failed to read %s: %v", path, err))
			exitCode = 1
			continue
		}
		profile, err := mastering.AnalyzeReference(buf)
		if err != nil {
			cli.PrintError(fmt.Sprintf("Failed to analyze %s: %v", path, err))
			exitCode = 1
			continue
		}
		logging.DisplayProfile(os.Stdout, path, buf.SampleRate, buf.Channels(), buf.Duration(), profile)
	}
	return exitCode
}

// generateOutputPath derives the mastered filename from the input path
func generateOutputPath(input string) string {
	ext := filepath.Ext(input)
	base := strings.TrimSuffix(input, ext)
	return base + "-mastered.wav"
}

// bufferPeak returns the largest absolute sample value across all channels
func bufferPeak(buf *audio.Buffer) float64 {
	peak := 0.0
	for _, ch := range buf.Data {
		for _, s := range ch {
			if a := math.Abs(s); a > peak {
				peak = a
			}
		}
	}
	return peak
}

// progressHandler forwards engine progress updates to the TUI
type progressHandler struct {
	p   *tea.Program
	log func(string, ...interface{})
}

func (ph *progressHandler) callback(stage string, channel, channels int, progress float64) {
	ph.log("[MAIN] Sending ProgressMsg: %s ch %d/%d, Progress %.1f%%", stage, channel, channels, progress*100)

	ph.p.Send(ui.ProgressMsg{
		Stage:    stage,
		Channel:  channel,
		Channels: channels,
		Progress: progress,
	})
}
