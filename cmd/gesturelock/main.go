// Command gesturelock is a 3x3 pattern lock for the terminal, with tools to
// render and check patterns.
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ha1tch/gesture-lock/pkg/lifecycle"
	"github.com/ha1tch/gesture-lock/pkg/lock"
	"github.com/ha1tch/gesture-lock/pkg/render"
)

const usage = `gesturelock - 3x3 pattern lock

Usage:
  gesturelock <command> [options]

Commands:
  run        Draw patterns with the mouse in the terminal
  check      Replay a code against the secret
  render     Render a replayed code to PNG or SVG
  dot        Print the gesture lifecycle as Graphviz DOT
  validate   Check that a code can be traced

Common options:
  --config <file>   settings file (default ~/.gesturelock)
  --secret <code>   override the configured secret
  --save            write --secret and --size back to the config file

Examples:
  gesturelock run --secret 0148
  gesturelock check 0148 --secret 0148
  gesturelock render 042 --secret 048 -o fail.png --labels
  gesturelock dot | dot -Tpng -o lifecycle.png

Use "gesturelock <command> -h" for more information about a command.
`

// exitNoMatch is the status of check when the code does not match.
const exitNoMatch = 2

// osExit is replaced in tests.
var osExit = os.Exit

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "run":
		cmdRun(args)
	case "check":
		cmdCheck(args)
	case "render":
		cmdRender(args)
	case "dot":
		cmdDot(args)
	case "validate":
		cmdValidate(args)
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Print(usage)
		os.Exit(1)
	}
}

// commonArgs holds options shared by several commands.
type commonArgs struct {
	configPath string
	secret     string
	hasSecret  bool
	output     string
	size       int
	labels     bool
	save       bool
	positional []string
}

func parseArgs(args []string) (commonArgs, error) {
	ca := commonArgs{configPath: ConfigPath()}
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--config", "-c":
			if i+1 >= len(args) {
				return ca, fmt.Errorf("%s needs a file", args[i])
			}
			ca.configPath = args[i+1]
			i++
		case "--secret", "-s":
			if i+1 >= len(args) {
				return ca, fmt.Errorf("%s needs a code", args[i])
			}
			ca.secret = args[i+1]
			ca.hasSecret = true
			i++
		case "-o", "--output":
			if i+1 >= len(args) {
				return ca, fmt.Errorf("%s needs a file", args[i])
			}
			ca.output = args[i+1]
			i++
		case "--size", "--width":
			if i+1 >= len(args) {
				return ca, fmt.Errorf("%s needs a number", args[i])
			}
			n, err := strconv.Atoi(args[i+1])
			if err != nil || n <= 0 {
				return ca, fmt.Errorf("%s: invalid size %q", args[i], args[i+1])
			}
			ca.size = n
			i++
		case "--labels":
			ca.labels = true
		case "--save":
			ca.save = true
		default:
			if strings.HasPrefix(args[i], "-") {
				return ca, fmt.Errorf("unknown option %s", args[i])
			}
			ca.positional = append(ca.positional, args[i])
		}
	}
	return ca, nil
}

// loadSettings loads the config file and applies command line overrides.
func loadSettings(ca commonArgs, logFallback io.Writer) (Config, func(), error) {
	cfg, err := LoadConfig(ca.configPath)
	if err != nil {
		return cfg, nil, err
	}
	if ca.hasSecret {
		cfg.Secret = ca.secret
		cfg.HasSecret = true
	}
	if ca.size > 0 {
		cfg.Width = ca.size
	}
	closeLog, err := setupLogging(cfg, logFallback)
	if err != nil {
		return cfg, nil, err
	}
	if ca.save {
		if err := SaveConfig(ca.configPath, cfg); err != nil {
			closeLog()
			return cfg, nil, fmt.Errorf("saving settings: %w", err)
		}
		log.Infof("Saved settings to %s", ca.configPath)
	}
	if cfg.HasSecret {
		if err := lock.ValidateCode(cfg.Secret); err != nil {
			log.Warnf("Secret can never be traced: %v", err)
		}
	} else {
		log.Warnf("No secret configured, every gesture will fail")
	}
	return cfg, closeLog, nil
}

func fail(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error "+format+"\n", args...)
	exit(1)
}

// exit closes the log file, which deferred calls would miss, and exits.
func exit(code int) {
	closeLogFile()
	osExit(code)
}

func cmdCheck(args []string) {
	ca, err := parseArgs(args)
	if err != nil || len(ca.positional) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: gesturelock check <code> [--secret code] [--config file]")
		os.Exit(1)
	}
	cfg, closeLog, err := loadSettings(ca, os.Stderr)
	if err != nil {
		fail("loading settings: %v", err)
	}
	defer closeLog()

	matched, err := check(context.Background(), cfg, ca.positional[0])
	if err != nil {
		fail("checking %s: %v", ca.positional[0], err)
	}
	if !matched {
		fmt.Println("no match")
		exit(exitNoMatch)
	}
	fmt.Println("match")
}

// check replays code against the configured secret.
func check(ctx context.Context, cfg Config, code string) (bool, error) {
	ids, err := lock.ParseCode(code)
	if err != nil {
		return false, err
	}
	w, err := newReplayWidget(ctx, cfg, float64(cfg.Width))
	if err != nil {
		return false, err
	}
	defer w.Close()

	res, _, err := replay(ctx, w, ids)
	if err != nil {
		return false, err
	}
	return res.Outcome.Matched, nil
}

func cmdRender(args []string) {
	ca, err := parseArgs(args)
	if err != nil || len(ca.positional) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: gesturelock render <code> [-o output.png|output.svg] [--size N] [--secret code] [--labels]")
		os.Exit(1)
	}
	cfg, closeLog, err := loadSettings(ca, os.Stderr)
	if err != nil {
		fail("loading settings: %v", err)
	}
	defer closeLog()

	code := ca.positional[0]
	output := ca.output
	if output == "" {
		output = "pattern-" + code + ".png"
	}

	data, err := renderCode(context.Background(), cfg, code, filepath.Ext(output), ca.labels)
	if err != nil {
		fail("rendering %s: %v", code, err)
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		fail("writing %s: %v", output, err)
	}
	fmt.Printf("Written: %s\n", output)
}

// renderCode replays code and renders the evaluated state in the format
// named by ext.
func renderCode(ctx context.Context, cfg Config, code, ext string, labels bool) ([]byte, error) {
	ids, err := lock.ParseCode(code)
	if err != nil {
		return nil, err
	}
	w, err := newReplayWidget(ctx, cfg, float64(cfg.Width))
	if err != nil {
		return nil, err
	}
	defer w.Close()

	_, rs, err := replay(ctx, w, ids)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(ext) {
	case ".svg":
		opts := render.DefaultSVGOptions()
		opts.Size = cfg.Width
		opts.Labels = labels
		svg, err := render.RenderSVG(rs, opts)
		return []byte(svg), err
	case ".png", "":
		opts := render.DefaultPNGOptions()
		opts.Size = cfg.Width
		opts.Labels = labels
		var buf bytes.Buffer
		if err := render.RenderPNG(rs, &buf, opts); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", ext)
	}
}

func cmdDot(args []string) {
	ca, err := parseArgs(args)
	if err != nil || len(ca.positional) != 0 {
		fmt.Fprintln(os.Stderr, "Usage: gesturelock dot [-o output.dot]")
		os.Exit(1)
	}

	dot := lifecycle.GenerateDOT(lock.Lifecycle(), "Gesture lifecycle")
	if ca.output == "" {
		fmt.Print(dot)
		return
	}
	if err := os.WriteFile(ca.output, []byte(dot), 0644); err != nil {
		fail("writing %s: %v", ca.output, err)
	}
}

func cmdValidate(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: gesturelock validate <code>")
		os.Exit(1)
	}
	if err := lock.ValidateCode(args[0]); err != nil {
		if errors.Is(err, lock.ErrInvalidCode) {
			fmt.Printf("Invalid: %v\n", err)
			os.Exit(1)
		}
		fail("validating: %v", err)
	}
	fmt.Println("Valid")
}
