package system

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// InitResourceLimits raises the open-file limit. Importing a many-page
// PDF opens one document handle per render worker.
func InitResourceLimits() {
	var rLimit syscall.Rlimit
	err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Printf("[!] Failed to read open-file limit: %v", err)
		return
	}

	rLimit.Cur = 2048
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}

	if err := syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		log.Printf("[!] Failed to raise open-file limit: %v", err)
	}
}

// FindLatestAudio returns the most recently modified audio file in dir.
// Used when no explicit song path is given.
func FindLatestAudio(dir string) (string, error) {
	return findLatest(dir, []string{".mp3", ".wav", ".ogg", ".flac"}, "audio files")
}

// FindLatestProject returns the most recently modified project file in dir.
func FindLatestProject(dir string) (string, error) {
	return findLatest(dir, []string{".gris"}, "project files")
}

func findLatest(dir string, extensions []string, what string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() {
			continue
		}
		match := false
		for _, ext := range extensions {
			if strings.HasSuffix(strings.ToLower(f.Name()), ext) {
				match = true
				break
			}
		}
		if !match {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(dir, f.Name())
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("no %s found in %s", what, dir)
	}
	return latestFile, nil
}

// PrintStats reports the process footprint after a run.
func PrintStats() {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		log.Printf("[!] Stats unavailable: %v", err)
		return
	}

	if mem, err := p.MemoryInfo(); err == nil {
		fmt.Printf("[*] Memory: RSS %.1f MB\n", float64(mem.RSS)/(1<<20))
	}
	if cpu, err := p.Times(); err == nil {
		fmt.Printf("[*] CPU: %.2fs user, %.2fs system\n", cpu.User, cpu.System)
	}
}
