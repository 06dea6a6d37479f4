package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Paths gathers every filesystem location the loader needs, resolved once at
// startup instead of read from process-global state. BaseDir is normally the
// directory containing the running binary; tests and unusual layouts can
// override it freely.
type Paths struct {
	BaseDir    string
	SchemaFile string
	MbdumpDir  string
}

// ResolvePaths computes Paths from baseDir, following the MusicBrainz export
// layout: the schema lives at <base>/schema/create_tables.json, and the dump
// directory is <base>/data/fullexport/<LATEST>/mbdump, where <LATEST> is the
// single line of text in
// <base>/ftp.musicbrainz.org/pub/musicbrainz/data/fullexport/LATEST.
func ResolvePaths(baseDir string) (Paths, error) {
	latestFile := filepath.Join(baseDir, "ftp.musicbrainz.org", "pub", "musicbrainz", "data", "fullexport", "LATEST")
	raw, err := os.ReadFile(latestFile)
	if err != nil {
		return Paths{}, fmt.Errorf("%w: reading %s: %v", ErrSchema, latestFile, err)
	}
	latest := strings.TrimSpace(string(raw))
	if latest == "" {
		return Paths{}, fmt.Errorf("%w: %s is empty", ErrSchema, latestFile)
	}

	return Paths{
		BaseDir:    baseDir,
		SchemaFile: filepath.Join(baseDir, "schema", "create_tables.json"),
		MbdumpDir:  filepath.Join(baseDir, "data", "fullexport", latest, "mbdump"),
	}, nil
}

// DumpFile returns the path to the dump file for table under p.MbdumpDir; the
// dump file is named identically to its target collection.
func (p Paths) DumpFile(table string) string {
	return filepath.Join(p.MbdumpDir, table)
}
