package export

import (
	"fmt"
	"io"
	"os"
	"path"

	"github.com/gocarina/gocsv"
	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/put-screener/src/models"
)

// WriteCandidatesCSV streams candidates as CSV, header included.
func WriteCandidatesCSV(w io.Writer, candidates []models.PutCandidate) error {
	if err := gocsv.Marshal(candidates, w); err != nil {
		return fmt.Errorf("WriteCandidatesCSV: failed to marshal candidates: %v", err)
	}

	return nil
}

// ExportCandidates writes the run to outDir/fname. An existing file is left
// untouched so repeated runs do not clobber an earlier export.
func ExportCandidates(outDir, fname string, candidates []models.PutCandidate) (string, error) {
	if _, err := os.Stat(outDir); os.IsNotExist(err) {
		if err := os.MkdirAll(outDir, 0755); err != nil {
			return "", fmt.Errorf("ExportCandidates: failed to create out dir: %v", err)
		}
	}

	outFile := path.Join(outDir, fname)
	if _, err := os.Stat(outFile); err == nil {
		log.Infof("Data file %s already exists", outFile)
		return outFile, nil
	}

	file, err := os.Create(outFile)
	if err != nil {
		return "", fmt.Errorf("ExportCandidates: error creating CSV file: %v", err)
	}

	defer file.Close()

	if err := WriteCandidatesCSV(file, candidates); err != nil {
		return "", fmt.Errorf("ExportCandidates: %v", err)
	}

	log.Infof("Exported %d put candidates to %s", len(candidates), outFile)

	return outFile, nil
}
