package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/stepan-anokhin/audio-processor/audiofile"
	"github.com/stepan-anokhin/audio-processor/dsp/level"
)

type channelReport struct {
	Channel       int     `json:"channel"`
	PeakDB        float64 `json:"peak_db"`
	RMSDB         float64 `json:"rms_db"`
	DC            float64 `json:"dc"`
	CrestDB       float64 `json:"crest_db"`
	ZeroCrossings int     `json:"zero_crossings"`
}

type probeReport struct {
	Path     string          `json:"path"`
	Rate     int             `json:"rate"`
	Channels int             `json:"channels"`
	Samples  int             `json:"samples"`
	Duration float64         `json:"duration"`
	Levels   []channelReport `json:"levels,omitempty"`
}

func newProbeCommand() *cobra.Command {
	var formatFlag string
	var levels bool

	cmd := &cobra.Command{
		Use:         "probe <file>",
		Short:       "Print the format of an audio file and, optionally, its levels",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(formatFlag)
			if err != nil {
				return err
			}

			report, err := probe(args[0], levels)
			if err != nil {
				return err
			}

			if format == formatJSON {
				return writeJSON(cmd, jsonSafe(report))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Path", "Rate", "Channels", "Samples", "Duration"},
				[][]string{{
					report.Path,
					strconv.Itoa(report.Rate),
					strconv.Itoa(report.Channels),
					strconv.Itoa(report.Samples),
					(time.Duration(report.Duration * float64(time.Second))).Round(time.Millisecond).String(),
				}},
				[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight},
			))

			if len(report.Levels) > 0 {
				rows := make([][]string, len(report.Levels))
				for i, l := range report.Levels {
					rows[i] = []string{
						strconv.Itoa(l.Channel),
						formatDB(l.PeakDB),
						formatDB(l.RMSDB),
						strconv.FormatFloat(l.DC, 'g', 4, 64),
						formatDB(l.CrestDB),
						strconv.Itoa(l.ZeroCrossings),
					}
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Channel", "Peak dBFS", "RMS dBFS", "DC", "Crest dB", "Zero crossings"},
					rows,
					[]columnAlignment{alignRight, alignRight, alignRight, alignRight, alignRight, alignRight},
				))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&formatFlag, "format", "f", string(formatTable), "Output format (table or json)")
	cmd.Flags().BoolVar(&levels, "levels", false, "Decode the whole file and report per-channel levels")
	return cmd
}

func probe(path string, withLevels bool) (probeReport, error) {
	r, err := audiofile.Open(path)
	if err != nil {
		return probeReport{}, err
	}
	defer r.Close()

	report := probeReport{
		Path:     path,
		Rate:     r.Rate(),
		Channels: r.Channels(),
		Samples:  r.Samples(),
		Duration: r.Duration(),
	}

	if !withLevels {
		return report, nil
	}

	meter := level.NewMeter()
	for {
		block, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return probeReport{}, err
		}
		if err := meter.Update(block); err != nil {
			return probeReport{}, err
		}
	}

	for c, l := range meter.Result() {
		report.Levels = append(report.Levels, channelReport{
			Channel:       c,
			PeakDB:        l.PeakdB,
			RMSDB:         l.RMSdB,
			DC:            l.DC,
			CrestDB:       l.CrestdB,
			ZeroCrossings: l.ZeroCrossings,
		})
	}

	return report, nil
}

func formatDB(v float64) string {
	if math.IsInf(v, -1) {
		return "-inf"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// jsonSafe clamps -Inf levels of silent channels, which JSON cannot
// represent, to the lowest finite float.
func jsonSafe(r probeReport) probeReport {
	clamp := func(v float64) float64 {
		if math.IsInf(v, -1) {
			return -math.MaxFloat64
		}
		return v
	}

	levels := make([]channelReport, len(r.Levels))
	for i, l := range r.Levels {
		l.PeakDB = clamp(l.PeakDB)
		l.RMSDB = clamp(l.RMSDB)
		levels[i] = l
	}
	r.Levels = levels

	return r
}
