package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/burnsim/internal/ballistics"
)

const (
	colTime        = "Time (seconds)"
	colPressure    = "Pressure (psi)"
	colMassOverall = "Mass Generated Overall (lbm)"
	colMassGrain   = "Mass Generated by grain: "
	colPortThroat  = "Port to Throat by port: "
	colMassFlux    = "Mass Flow per grain: "
	colBurnArea    = "Burn Area (in^2)"
	colBurnRate    = "Burn Rate (in /sec)"
	colKn          = "KN ()"
	colLStar       = "L Star (in)"
	colSystemMass  = "Mass of the System (lbm)"
	colCG          = "Center of Gravity (inches)"
	colThrust      = "Thrust (lbf)"

	// fixed columns around the three per-grain groups
	leadingCols  = 3
	trailingCols = 7
)

// CSVHeader labels the trace columns for a motor with n grains.
func CSVHeader(n int) []string {
	header := []string{colTime, colPressure, colMassOverall}
	for _, prefix := range []string{colMassGrain, colPortThroat, colMassFlux} {
		for i := 0; i < n; i++ {
			header = append(header, prefix+strconv.Itoa(i))
		}
	}
	return append(header, colBurnArea, colBurnRate, colKn, colLStar, colSystemMass, colCG, colThrust)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteCSV writes one header row and one row per snapshot.
func WriteCSV(w io.Writer, snapshots []ballistics.Snapshot, grains int) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(CSVHeader(grains)); err != nil {
		return err
	}

	for _, s := range snapshots {
		if len(s.MassGenerated) != grains {
			return fmt.Errorf("step %d: %d grain columns, want %d", s.Step, len(s.MassGenerated), grains)
		}
		row := make([]string, 0, leadingCols+3*grains+trailingCols)
		row = append(row, formatFloat(s.Time), formatFloat(s.ChamberPressure), formatFloat(s.MassGeneratedOverall))
		for _, group := range [][]float64{s.MassGenerated, s.PortToThroat, s.MassFlux} {
			for _, v := range group {
				row = append(row, formatFloat(v))
			}
		}
		row = append(row,
			formatFloat(s.BurnArea),
			formatFloat(s.BurnRate),
			formatFloat(s.Kn),
			formatFloat(s.LStar),
			formatFloat(s.SystemMass),
			formatFloat(s.CenterOfGravity),
			formatFloat(s.Thrust),
		)
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a trace written by WriteCSV. Fields the CSV does not carry
// (burning flags, nozzle flux, calibration tag) are left zero.
func ReadCSV(r io.Reader) ([]ballistics.Snapshot, error) {
	cr := csv.NewReader(r)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty trace")
	}

	width := len(records[0])
	n := (width - leadingCols - trailingCols) / 3
	if n < 0 || leadingCols+3*n+trailingCols != width {
		return nil, fmt.Errorf("trace header has %d columns", width)
	}

	snapshots := make([]ballistics.Snapshot, 0, len(records)-1)
	for i, record := range records[1:] {
		vals := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %d: %w", i+1, j, err)
			}
			vals[j] = v
		}

		s := ballistics.Snapshot{
			Step:                 i + 1,
			Time:                 vals[0],
			ChamberPressure:      vals[1],
			MassGeneratedOverall: vals[2],
			MassGenerated:        append([]float64(nil), vals[leadingCols:leadingCols+n]...),
			PortToThroat:         append([]float64(nil), vals[leadingCols+n:leadingCols+2*n]...),
			MassFlux:             append([]float64(nil), vals[leadingCols+2*n:leadingCols+3*n]...),
		}
		tail := vals[leadingCols+3*n:]
		s.BurnArea = tail[0]
		s.BurnRate = tail[1]
		s.Kn = tail[2]
		s.LStar = tail[3]
		s.SystemMass = tail[4]
		s.CenterOfGravity = tail[5]
		s.Thrust = tail[6]

		snapshots = append(snapshots, s)
	}
	return snapshots, nil
}
