package storage

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/san-kum/burnsim/internal/ballistics"
)

type ExportData struct {
	Run       RunMetadata           `json:"run"`
	Steps     int                   `json:"steps"`
	Snapshots []ballistics.Snapshot `json:"snapshots"`
}

func ExportJSON(w io.Writer, meta RunMetadata, snapshots []ballistics.Snapshot) error {
	data := ExportData{
		Run:       meta,
		Steps:     len(snapshots),
		Snapshots: snapshots,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// Artifact is one named file of an exported run.
type Artifact struct {
	Name        string
	ContentType string
	Body        []byte
}

// Artifacts renders a stored run as metadata.json and trace.csv regardless
// of which driver holds it.
func Artifacts(s Store, runID string) ([]Artifact, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	trace, err := s.LoadTrace(runID)
	if err != nil {
		return nil, err
	}

	metaJSON, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return nil, err
	}

	var csvBuf bytes.Buffer
	if err := WriteCSV(&csvBuf, trace, meta.Grains); err != nil {
		return nil, err
	}

	return []Artifact{
		{Name: metadataFile, ContentType: "application/json", Body: metaJSON},
		{Name: traceFile, ContentType: "text/csv", Body: csvBuf.Bytes()},
	}, nil
}
