package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pucktrack/recorder/internal/config"
	"github.com/pucktrack/recorder/internal/dispatcher"
	"github.com/pucktrack/recorder/internal/model"
	"github.com/pucktrack/recorder/internal/project"
	"github.com/pucktrack/recorder/internal/session"
)

// registerCommands wires the engine operations into the dispatcher. The
// hotkey path stays synchronous so marker results come back on the same
// line; export runs buffered since a long ffmpeg run must not block tagging.
func registerCommands(d *dispatcher.Dispatcher, svc *session.Service) {
	d.Register("open", func(c dispatcher.Command) (any, error) {
		if len(c.Args) < 4 {
			return nil, fmt.Errorf("usage: open <name> <videoPath> <fps> <totalFrames>")
		}
		fps, err := strconv.ParseFloat(c.Args[2], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid fps %q: %w", c.Args[2], err)
		}
		totalFrames, err := strconv.Atoi(c.Args[3])
		if err != nil {
			return nil, fmt.Errorf("invalid frame count %q: %w", c.Args[3], err)
		}
		p := project.New(c.Args[0], c.Args[1], fps, totalFrames)
		if err := svc.Open(p, config.GetAutosaveConfig()); err != nil {
			return nil, err
		}
		return map[string]any{"project": p.Name}, nil
	}, dispatcher.Logged())

	d.Register("load", func(c dispatcher.Command) (any, error) {
		if len(c.Args) < 1 {
			return nil, fmt.Errorf("usage: load <path>")
		}
		p, err := project.Load(c.Args[0])
		if err != nil {
			return nil, err
		}
		if err := svc.Open(p, config.GetAutosaveConfig()); err != nil {
			return nil, err
		}
		return map[string]any{"project": p.Name, "markers": len(p.Markers)}, nil
	}, dispatcher.Logged())

	d.Register("key", func(c dispatcher.Command) (any, error) {
		if len(c.Args) < 2 {
			return nil, fmt.Errorf("usage: key <hotkey> <frame>")
		}
		frame, err := strconv.Atoi(c.Args[1])
		if err != nil {
			return nil, fmt.Errorf("invalid frame %q: %w", c.Args[1], err)
		}
		res, err := svc.HandleHotkey(c.Args[0], frame)
		if err != nil {
			return nil, err
		}
		return res, nil
	})

	d.Register("cancel", func(c dispatcher.Command) (any, error) {
		return svc.Cancel(), nil
	})

	d.Register("mode", func(c dispatcher.Command) (any, error) {
		if len(c.Args) < 1 {
			return nil, fmt.Errorf("usage: mode <dynamic|fixed_length>")
		}
		res, err := svc.SetMode(model.RecordingMode(c.Args[0]))
		if err != nil {
			return nil, err
		}
		return res, nil
	}, dispatcher.Logged())

	d.Register("timing", func(c dispatcher.Command) (any, error) {
		if len(c.Args) < 3 {
			return nil, fmt.Errorf("usage: timing <fixedDurationSec> <preRollSec> <postRollSec>")
		}
		var vals [3]float64
		for i := range vals {
			v, err := strconv.ParseFloat(c.Args[i], 64)
			if err != nil {
				return nil, fmt.Errorf("invalid duration %q: %w", c.Args[i], err)
			}
			vals[i] = v
		}
		cfg := model.TimingConfig{
			FixedDurationSec: vals[0],
			PreRollSec:       vals[1],
			PostRollSec:      vals[2],
		}
		svc.SetTiming(cfg)
		return cfg, nil
	}, dispatcher.Logged())

	d.Register("undo", func(c dispatcher.Command) (any, error) {
		if err := svc.Undo(); err != nil {
			return nil, err
		}
		return "ok", nil
	})

	d.Register("redo", func(c dispatcher.Command) (any, error) {
		if err := svc.Redo(); err != nil {
			return nil, err
		}
		return "ok", nil
	})

	d.Register("remove", func(c dispatcher.Command) (any, error) {
		if len(c.Args) < 1 {
			return nil, fmt.Errorf("usage: remove <markerID>")
		}
		id, err := strconv.ParseUint(c.Args[0], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid marker id %q: %w", c.Args[0], err)
		}
		if err := svc.RemoveMarker(uint(id)); err != nil {
			return nil, err
		}
		return "ok", nil
	})

	d.Register("markers", func(c dispatcher.Command) (any, error) {
		if svc.Project() == nil {
			return nil, session.ErrNoProject
		}
		return svc.Project().Markers, nil
	})

	d.Register("status", func(c dispatcher.Command) (any, error) {
		st := map[string]any{"recording": false}
		sess := svc.Recorder().Session()
		if sess.Active {
			st["recording"] = true
			st["event"] = sess.EventName
			st["startFrame"] = sess.StartFrame
		}
		if p := svc.Project(); p != nil {
			st["project"] = p.Name
			st["markers"] = len(p.Markers)
			st["dirty"] = p.Dirty()
		}
		return st, nil
	})

	d.Register("save", func(c dispatcher.Command) (any, error) {
		path := ""
		if len(c.Args) > 0 {
			path = c.Args[0]
		}
		if err := svc.Save(path); err != nil {
			return nil, err
		}
		return "saved", nil
	}, dispatcher.Logged())

	d.Register("export", func(c dispatcher.Command) (any, error) {
		out := ""
		if len(c.Args) > 0 {
			out = c.Args[0]
		} else {
			p := svc.Project()
			if p == nil {
				return nil, session.ErrNoProject
			}
			out = filepath.Join(config.GetExportConfig().OutputDir, p.Name+"_clips.mp4")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()
		outputs, err := svc.Export(ctx, out)
		if err != nil {
			return nil, err
		}
		return map[string]any{"outputs": outputs}, nil
	}, dispatcher.Buffered(4), dispatcher.Logged())
}

type response struct {
	OK     bool   `json:"ok"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// runLoop reads newline-delimited commands and writes one JSON response per
// line. after, when non-nil, runs once per processed command; the status
// monitor hooks in there. Returns when the input closes or a "quit" command
// arrives.
func runLoop(d *dispatcher.Dispatcher, in io.Reader, out io.Writer, after func()) error {
	scanner := bufio.NewScanner(in)
	enc := json.NewEncoder(out)

	for scanner.Scan() {
		name, args := parseCommand(scanner.Text())
		if name == "" {
			continue
		}
		if name == "quit" || name == "exit" {
			return nil
		}

		result, err := d.Dispatch(dispatcher.Command{
			Name:      name,
			Args:      args,
			Timestamp: time.Now(),
		})

		resp := response{OK: err == nil, Result: result}
		if err != nil {
			resp.Error = err.Error()
		}
		if encErr := enc.Encode(resp); encErr != nil {
			return encErr
		}
		if after != nil {
			after()
		}
	}
	return scanner.Err()
}

// parseCommand splits an input line into a command name and arguments.
// Double quotes group arguments containing spaces.
func parseCommand(line string) (string, []string) {
	fields := splitQuoted(strings.TrimSpace(line))
	if len(fields) == 0 {
		return "", nil
	}
	return strings.ToLower(fields[0]), fields[1:]
}

func splitQuoted(s string) []string {
	var fields []string
	var cur strings.Builder
	inQuote := false

	for _, r := range s {
		switch {
		case r == '"':
			inQuote = !inQuote
		case r == ' ' && !inQuote:
			if cur.Len() > 0 {
				fields = append(fields, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteRune(r)
		}
	}
	if cur.Len() > 0 {
		fields = append(fields, cur.String())
	}
	return fields
}
