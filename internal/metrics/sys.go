package metrics

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/dustin/go-humanize"
)

// SysHealth is a runtime snapshot served by the health endpoint.
type SysHealth struct {
	Status        string `json:"status"`
	Database      string `json:"database"`
	AllocMB       uint64 `json:"alloc_mb"`
	TotalAllocMB  uint64 `json:"total_alloc_mb"`
	SysMB         uint64 `json:"sys_mb"`
	NumGC         uint32 `json:"num_gc"`
	Goroutines    int    `json:"goroutines"`
	MediaDiskSize string `json:"media_disk_size"`
}

// GetSysHealth collects runtime data and the size of the media directory.
// dbErr is the result of a database ping; a failure marks the snapshot
// degraded.
func GetSysHealth(mediaPath string, dbErr error) SysHealth {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	status, database := "ok", "ok"
	if dbErr != nil {
		status, database = "degraded", dbErr.Error()
	}

	return SysHealth{
		Status:        status,
		Database:      database,
		AllocMB:       m.Alloc / 1024 / 1024,
		TotalAllocMB:  m.TotalAlloc / 1024 / 1024,
		SysMB:         m.Sys / 1024 / 1024,
		NumGC:         m.NumGC,
		Goroutines:    runtime.NumGoroutine(),
		MediaDiskSize: calculateDirSize(mediaPath),
	}
}

func calculateDirSize(path string) string {
	return humanize.IBytes(uint64(dirSize(path)))
}

func dirSize(path string) int64 {
	var size int64
	_ = filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	return size
}
