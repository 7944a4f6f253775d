package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/san-kum/balancesim/internal/dynamo"
)

type ExportData struct {
	Run    *RunMetadata   `json:"run"`
	Frames []dynamo.Frame `json:"frames"`
}

// ExportCSV writes frames to path. Any I/O failure wraps ErrExportIO.
func ExportCSV(path string, frames []dynamo.Frame) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", dynamo.ErrExportIO, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %v", dynamo.ErrExportIO, cerr)
		}
	}()

	if err := WriteFramesCSV(file, frames); err != nil {
		return fmt.Errorf("%w: %v", dynamo.ErrExportIO, err)
	}
	return nil
}

func ExportJSON(w io.Writer, meta *RunMetadata, frames []dynamo.Frame) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(ExportData{Run: meta, Frames: frames}); err != nil {
		return fmt.Errorf("%w: %v", dynamo.ErrExportIO, err)
	}
	return nil
}
