package audio

import (
	"os"
	"path/filepath"

	"github.com/xvierd/lofi-cli/internal/domain"
)

// TrackInfo describes one entry of the track pool on disk.
type TrackInfo struct {
	Index    int    `json:"index" yaml:"index"`
	File     string `json:"file" yaml:"file"`
	Present  bool   `json:"present" yaml:"present"`
	Excluded bool   `json:"excluded" yaml:"excluded"`
	Default  bool   `json:"default" yaml:"default"`
}

// Catalog lists the pool's tracks and whether each file exists in dir.
func Catalog(dir string, pool domain.TrackPool) []TrackInfo {
	infos := make([]TrackInfo, 0, pool.Total)
	for i := 0; i < pool.Total; i++ {
		file := filepath.Join(dir, domain.TrackFileName(i))
		_, err := os.Stat(file)
		infos = append(infos, TrackInfo{
			Index:    i,
			File:     file,
			Present:  err == nil,
			Excluded: i == pool.Excluded,
			Default:  i == pool.Default,
		})
	}
	return infos
}
