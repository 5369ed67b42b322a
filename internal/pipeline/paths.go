package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ShortID returns the batch id fragment used in artifact file names.
func ShortID(batchID string) string {
	id := strings.ReplaceAll(strings.TrimSpace(batchID), "-", "")
	if len(id) > 8 {
		id = id[:8]
	}
	return id
}

// ArtifactPaths are the file locations for one segment's artifacts.
type ArtifactPaths struct {
	Clip       string
	Transcript string
	Summary    string
	Caption    string
	TitleCard  string
}

// NewArtifactPaths applies the segment_{index}_{id} naming convention. The
// title card is scratch output and lives in workDir.
func NewArtifactPaths(outputDir, workDir string, index int, batchID string) ArtifactPaths {
	base := fmt.Sprintf("segment_%d_%s", index, ShortID(batchID))
	if workDir == "" {
		workDir = outputDir
	}
	return ArtifactPaths{
		Clip:       filepath.Join(outputDir, base+".mp4"),
		Transcript: filepath.Join(outputDir, base+".txt"),
		Summary:    filepath.Join(outputDir, base+"_summary.txt"),
		Caption:    filepath.Join(outputDir, base+"_social_title.txt"),
		TitleCard:  filepath.Join(workDir, base+"_title.png"),
	}
}
