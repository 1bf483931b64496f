package report

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/piezosim/internal/sim"
	"github.com/san-kum/piezosim/internal/storage"
)

type ExportData struct {
	Run     *storage.RunMetadata `json:"run"`
	Count   int                  `json:"count"`
	Samples []sim.Sample         `json:"samples"`
}

func ExportJSON(path string, meta *storage.RunMetadata, samples []sim.Sample) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := WriteJSON(file, meta, samples); err != nil {
		return err
	}
	return file.Sync()
}

func WriteJSON(w io.Writer, meta *storage.RunMetadata, samples []sim.Sample) error {
	data := ExportData{
		Run:     meta,
		Count:   len(samples),
		Samples: samples,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
