package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

type testGrammar struct {
	Target  float64  `short:"t" default:"-14" help:"Target integrated loudness in LUFS"`
	Analyze bool     `short:"a" help:"Analyze files without mastering"`
	Files   []string `arg:"" optional:"" help:"Audio files to master"`
}

func TestStyledHelpPrinterSections(t *testing.T) {
	var out bytes.Buffer
	parser, err := kong.New(&testGrammar{},
		kong.Name("trackmaster"),
		kong.Writers(&out, &out),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		t.Fatalf("kong.New failed: %v", err)
	}
	ctx, err := parser.Parse([]string{})
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	printer := StyledHelpPrinter(kong.HelpOptions{Compact: true})
	if err := printer(kong.HelpOptions{Compact: true}, ctx); err != nil {
		t.Fatalf("help printer failed: %v", err)
	}

	help := out.String()
	for _, want := range []string{
		"Trackmaster",
		"Usage:",
		"trackmaster [flags] <files> ...",
		"Flags:",
		"-h, --help",
		"-t, --target",
		"-a, --analyze",
		"Examples:",
		"reference.wav",
	} {
		if !strings.Contains(help, want) {
			t.Errorf("help output missing %q:\n%s", want, help)
		}
	}
}

func TestHelpFlagsPutsHelpFirst(t *testing.T) {
	var out bytes.Buffer
	parser, err := kong.New(&testGrammar{},
		kong.Name("trackmaster"),
		kong.Writers(&out, &out),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		t.Fatalf("kong.New failed: %v", err)
	}
	ctx, err := parser.Parse([]string{})
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	flags := helpFlags(ctx)
	if len(flags) < 3 {
		t.Fatalf("got %d flags, want at least 3", len(flags))
	}
	if flags[0].flags != "-h, --help" {
		t.Errorf("first flag = %q, want -h, --help", flags[0].flags)
	}
	for _, f := range flags[1:] {
		if f.flags == "-h, --help" {
			t.Error("help flag listed twice")
		}
	}
}
