// Command rec2wav wraps a raw S32LE recording or dataset record in a WAV
// header so it can be auditioned.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/linuxmatters/doaprep/internal/audio"
	"github.com/linuxmatters/doaprep/internal/cli"
	"github.com/linuxmatters/doaprep/internal/processor"
)

var version = "0.1.0"

type CLI struct {
	Version    bool   `short:"v" help:"Show version information"`
	Config     string `short:"c" type:"existingfile" help:"YAML config supplying channels and sample rate"`
	Channels   int    `help:"Interleaved channel count (overrides config)"`
	SampleRate int    `short:"r" help:"Sample rate in Hz (overrides config)"`
	Input      string `arg:"" name:"raw-file" help:"Raw recording or dataset record" type:"existingfile" optional:""`
	Output     string `arg:"" name:"out.wav" help:"WAV file to write" type:"path" optional:""`
}

func main() {
	cliArgs := &CLI{}
	ctx := kong.Parse(cliArgs,
		kong.Name("rec2wav"),
		kong.Description("Convert raw S32LE audio to WAV"),
		kong.UsageOnError(),
		kong.Help(cli.StyledHelpPrinter("rec2wav", "Wrap raw S32LE audio in a WAV header for listening")),
	)

	if cliArgs.Version {
		cli.PrintVersion("rec2wav", version)
		os.Exit(0)
	}

	if cliArgs.Input == "" || cliArgs.Output == "" {
		cli.PrintError("A raw input file and a WAV output path are required")
		_ = ctx.PrintUsage(false)
		os.Exit(1)
	}

	if err := convert(cliArgs); err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}
}

func convert(args *CLI) error {
	config := processor.DefaultConfig()
	if args.Config != "" {
		var err error
		if config, err = processor.LoadConfig(args.Config); err != nil {
			return err
		}
	}
	if args.Channels > 0 {
		config.Channels = args.Channels
	}
	if args.SampleRate > 0 {
		config.SampleRate = args.SampleRate
	}

	buf, err := audio.OpenSampleBuffer(args.Input)
	if err != nil {
		return err
	}
	defer buf.Close()

	err = audio.SaveWAV(args.Output, buf.Samples(), audio.WAVFormat{
		SampleRate: config.SampleRate,
		Channels:   config.Channels,
		BitDepth:   32,
	})
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", args.Output, err)
	}

	cli.PrintKeyValue("Frames", buf.Len()/config.Channels)
	cli.PrintKeyValue("Duration", fmt.Sprintf("%.2fs", buf.Duration(config.SampleRate, config.Channels)))
	cli.PrintKeyValue("Written", args.Output)
	return nil
}
