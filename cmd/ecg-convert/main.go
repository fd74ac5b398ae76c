/*
DESCRIPTION
  ecg-convert reads vendor ECG XML files, decodes them into the canonical
  multi-lead signal and writes JSON or CSV for downstream rendering and
  validation, with optional lead preprocessing and a WAV export for quick
  inspection of a single lead.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>
  Trek Hopton <trek@ausocean.org>
  David Sutton <davidsutton@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package main is the ecg-convert command.
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/ecg"
	"github.com/ausocean/ecg/filter"
	"github.com/ausocean/ecg/format"
	"github.com/ausocean/utils/logging"
)

// Current software version.
const version = "v1.0.0"

// Logging configuration.
const (
	logMaxSize   = 100 // MB
	logMaxBackup = 5
	logMaxAge    = 28 // days
	logSuppress  = true
)

// Filter configuration.
const (
	notchHalfWidth = 5.0 // Hz either side of the mains frequency.
	baselineCutoff = 0.5 // Hz highpass corner for wander removal.
	filterTaps     = 400
)

// env holds settings that may be supplied through the environment rather
// than flags, prefixed ECG_ (e.g. ECG_LOG_PATH).
type env struct {
	LogPath  string `split_words:"true" default:"ecg-convert.log"`
	LogLevel int    `split_words:"true" default:"4"`
	OutDir   string `split_words:"true" default:"."`
}

func main() {
	var cfg env
	if err := envconfig.Process("ecg", &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "could not process environment config: %v\n", err)
		os.Exit(1)
	}

	var (
		showVersion = flag.Bool("version", false, "show version")
		outDir      = flag.String("out", cfg.OutDir, "output directory")
		outFormat   = flag.String("format", "json", "output format, json or csv")
		wavLead     = flag.String("wav", "", "also export the named lead as 16-bit mono WAV")
		notch       = flag.Int("notch", 0, "apply a mains notch filter at 50 or 60 Hz")
		baseline    = flag.Bool("baseline", false, "apply 0.5 Hz highpass baseline wander removal")
		watch       = flag.String("watch", "", "watch a directory and convert files as they appear")
		logLevel    = flag.Int("LogLevel", cfg.LogLevel, "log level")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	if *logLevel < int(logging.Debug) || *logLevel > int(logging.Fatal) {
		*logLevel = int(logging.Info)
	}

	fileLog := &lumberjack.Logger{
		Filename:   cfg.LogPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	log := logging.New(int8(*logLevel), io.MultiWriter(fileLog, os.Stderr), logSuppress)
	log.Info("ecg-convert: logger initialized", "version", version)

	c := &converter{
		log:       log,
		outDir:    *outDir,
		outFormat: *outFormat,
		wavLead:   *wavLead,
	}
	var err error
	c.filters, err = buildFilters(*notch, *baseline)
	if err != nil {
		log.Fatal("could not build filters", "error", err.Error())
	}

	if *watch != "" {
		watchDir(log, c, *watch)
		return
	}

	if flag.NArg() == 0 {
		log.Fatal("no input files; pass paths or use -watch")
	}
	failures := 0
	for _, path := range flag.Args() {
		if err := c.convert(path); err != nil {
			log.Error("conversion failed", "file", path, "error", err.Error())
			failures++
		}
	}
	if failures > 0 {
		os.Exit(1)
	}
}

// converter holds the per-run settings for file conversion.
type converter struct {
	log       logging.Logger
	outDir    string
	outFormat string
	wavLead   string
	filters   []filterSpec
}

// filterSpec defers FIR design until the sample rate is known.
type filterSpec struct {
	name  string
	build func(rate int) (filter.Filter, error)
}

// buildFilters validates the filter flags and returns the specs to apply,
// in order, to every lead.
func buildFilters(notch int, baseline bool) ([]filterSpec, error) {
	var specs []filterSpec
	if baseline {
		specs = append(specs, filterSpec{
			name: "baseline highpass",
			build: func(rate int) (filter.Filter, error) {
				return filter.NewHighPass(baselineCutoff, rate, filterTaps)
			},
		})
	}
	switch notch {
	case 0:
	case 50, 60:
		f := float64(notch)
		specs = append(specs, filterSpec{
			name: "mains notch",
			build: func(rate int) (filter.Filter, error) {
				return filter.NewBandStop(f-notchHalfWidth, f+notchHalfWidth, rate, filterTaps)
			},
		})
	default:
		return nil, fmt.Errorf("unsupported notch frequency: %d", notch)
	}
	return specs, nil
}

// convert parses one file and writes the requested outputs.
func (c *converter) convert(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not read input: %w", err)
	}

	f := format.Detect(b)
	c.log.Debug("detected format", "file", path, "format", f.String())

	res, err := format.Parse(b)
	if err != nil {
		return fmt.Errorf("could not parse %s: %w", f, err)
	}
	sig := res.Signal

	if err := c.applyFilters(sig); err != nil {
		return err
	}

	c.logQuality(path, sig)

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	switch c.outFormat {
	case "json":
		err = writeJSON(filepath.Join(c.outDir, base+".json"), res)
	case "csv":
		err = writeCSV(filepath.Join(c.outDir, base+".csv"), sig)
	default:
		err = fmt.Errorf("unsupported output format: %s", c.outFormat)
	}
	if err != nil {
		return err
	}

	if c.wavLead != "" {
		lead, err := ecg.LeadFromString(c.wavLead)
		if err != nil {
			return err
		}
		err = writeWAV(filepath.Join(c.outDir, base+"-"+string(lead)+".wav"), sig, lead)
		if err != nil {
			return err
		}
	}

	c.log.Info("converted", "file", path, "format", f.String(),
		"leads", len(sig.Leads), "duration(s)", sig.Duration())
	return nil
}

// applyFilters runs the configured filters over every lead in place.
func (c *converter) applyFilters(sig *ecg.Signal) error {
	for _, spec := range c.filters {
		f, err := spec.build(sig.SampleRate)
		if err != nil {
			return fmt.Errorf("could not build %s: %w", spec.name, err)
		}
		for lead, samples := range sig.Leads {
			if len(samples) == 0 {
				continue
			}
			out, err := f.Apply(samples)
			if err != nil {
				return fmt.Errorf("could not apply %s to lead %s: %w", spec.name, lead, err)
			}
			sig.Leads[lead] = out
		}
	}
	return nil
}

// logQuality reports per-lead quality so suspect recordings surface in the
// logs without failing the conversion.
func (c *converter) logQuality(path string, sig *ecg.Signal) {
	for lead, q := range ecg.Quality(sig) {
		if q.Flatline {
			c.log.Warning("flatline lead", "file", path, "lead", string(lead))
		}
		if q.MainsShare > 0.2 {
			c.log.Warning("mains interference", "file", path, "lead", string(lead),
				"share", q.MainsShare)
		}
	}
}

// output is the JSON document shape consumed by the renderer and the
// validation tooling.
type output struct {
	Patient    ecg.Patient            `json:"patient"`
	Test       ecg.Test               `json:"test"`
	SampleRate int                    `json:"sampleRate"`
	Duration   float64                `json:"duration"`
	Leads      map[ecg.Lead][]float64 `json:"leads"`
}

func writeJSON(path string, res *ecg.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create output: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	return enc.Encode(output{
		Patient:    res.Patient,
		Test:       res.Test,
		SampleRate: res.Signal.SampleRate,
		Duration:   res.Signal.Duration(),
		Leads:      res.Signal.Leads,
	})
}

func writeCSV(path string, sig *ecg.Signal) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create output: %w", err)
	}
	defer f.Close()

	var leads []ecg.Lead
	n := 0
	for _, l := range append(append([]ecg.Lead{}, ecg.StandardLeads...), ecg.ExtraLeads...) {
		if samples, ok := sig.Leads[l]; ok && len(samples) > 0 {
			leads = append(leads, l)
			if len(samples) > n {
				n = len(samples)
			}
		}
	}

	w := csv.NewWriter(f)
	header := make([]string, len(leads))
	for i, l := range leads {
		header[i] = string(l)
	}
	if err := w.Write(header); err != nil {
		return err
	}
	row := make([]string, len(leads))
	for i := 0; i < n; i++ {
		for j, l := range leads {
			samples := sig.Leads[l]
			if i < len(samples) {
				row[j] = strconv.FormatFloat(samples[i], 'f', -1, 64)
			} else {
				row[j] = ""
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// writeWAV exports one lead as 16-bit mono audio, a quick way to eyeball a
// trace in any waveform viewer.
func writeWAV(path string, sig *ecg.Signal, lead ecg.Lead) error {
	samples, ok := sig.Leads[lead]
	if !ok || len(samples) == 0 {
		return fmt.Errorf("lead %s not present in signal", lead)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create output: %w", err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sig.SampleRate, 16, 1, 1)
	data := make([]int, len(samples))
	for i, v := range samples {
		data[i] = int(clamp16(v))
	}
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sig.SampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("could not write WAV data: %w", err)
	}
	return enc.Close()
}

// clamp16 caps a microvolt value at the signed 16-bit range instead of
// wrapping.
func clamp16(v float64) int16 {
	switch {
	case v > math.MaxInt16:
		return math.MaxInt16
	case v < math.MinInt16:
		return math.MinInt16
	default:
		return int16(v)
	}
}

// watchDir converts files as they are created or modified in dir, until
// interrupted.
func watchDir(log logging.Logger, c *converter, dir string) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		log.Fatal("could not create watcher", "error", err.Error())
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		log.Fatal("could not watch directory", "dir", dir, "error", err.Error())
	}
	log.Info("watching", "dir", dir)

	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if strings.ToLower(filepath.Ext(ev.Name)) != ".xml" {
				continue
			}
			if err := c.convert(ev.Name); err != nil {
				log.Error("conversion failed", "file", ev.Name, "error", err.Error())
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Error("watcher error", "error", err.Error())
		}
	}
}
