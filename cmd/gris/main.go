package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/gris/internal/audio"
	"github.com/ivlev/gris/internal/autosave"
	"github.com/ivlev/gris/internal/config"
	"github.com/ivlev/gris/internal/cue"
	"github.com/ivlev/gris/internal/grisfile"
	"github.com/ivlev/gris/internal/session"
	"github.com/ivlev/gris/internal/source"
	"github.com/ivlev/gris/internal/system"
)

func main() {
	system.InitResourceLimits()

	dirs := []string{"input/audio", "input/projects", "output"}
	for _, d := range dirs {
		os.MkdirAll(d, 0755)
	}

	cfg, err := config.LoadFile("gris.yaml")
	if err != nil {
		log.Fatalf("[-] Config error: %v", err)
	}

	projectPtr := flag.String("project", cfg.ProjectPath, "Path to a .gris project (default: most recent file in input/projects/, then autosave)")
	audioPtr := flag.String("audio", cfg.AudioPath, "Path to the song (default: most recent file in input/audio/)")
	durationPtr := flag.Float64("duration", 0, "Timeline duration in seconds (default: taken from the audio file)")
	cuesPtr := flag.String("cues", cfg.CuesPath, "Export sampled cues to this JSON file")
	tickPtr := flag.Float64("tick", cfg.Tick, "Cue sampling interval in seconds (clamped to [0.001, 1])")
	savePtr := flag.String("save", cfg.SavePath, "Write the project back to this path before exit")
	importPDFPtr := flag.String("import-pdf", cfg.ImportPDF, "Import PDF pages as background layers")
	importImagePtr := flag.String("import-image", cfg.ImportImage, "Import an image file or directory as background layers")
	dpiPtr := flag.Int("dpi", cfg.DPI, "Render DPI for PDF import")
	workersPtr := flag.Int("workers", workersDefault(cfg.Workers), "Import workers")
	qrPtr := flag.String("qr", cfg.QRPath, "Write a QR code of the exported cue path to this PNG")
	autosaveDirPtr := flag.String("autosave-dir", cfg.AutosaveDir, "Autosave database directory")
	statsPtr := flag.Bool("stats", cfg.ShowStats, "Print process stats before exit")

	flag.Parse()

	sess := session.New()

	slots, err := autosave.OpenSlotStore(*autosaveDirPtr)
	if err != nil {
		log.Fatalf("[-] Autosave error: %v", err)
	}
	defer slots.Close()

	saver := autosave.NewSaver(slots, autosave.DefaultDebounce)
	defer saver.Close()

	loadProject(sess, slots, *projectPtr)
	sess.SetSaver(saver)

	// Audio bounds the timeline; a missing song is not fatal.
	audioPath := *audioPtr
	if audioPath == "" {
		if latest, err := system.FindLatestAudio("input/audio"); err == nil {
			audioPath = latest
			fmt.Printf("[*] Using audio: %s\n", audioPath)
		}
	}
	if audioPath != "" {
		if dur, err := audio.Duration(audioPath); err == nil {
			sess.SetDuration(dur)
			sess.Store.SetSongFilename(filepath.Base(audioPath))
			fmt.Printf("[*] Timeline duration from audio: %.2fs\n", dur)
		} else {
			log.Printf("[!] Audio probe failed: %v", err)
		}
	}
	if *durationPtr > 0 {
		sess.SetDuration(*durationPtr)
	}

	if *importPDFPtr != "" {
		importBackgrounds(sess, *importPDFPtr, true, *dpiPtr, *workersPtr)
	}
	if *importImagePtr != "" {
		importBackgrounds(sess, *importImagePtr, false, *dpiPtr, *workersPtr)
	}

	// Cue list and project snapshot are independent outputs; write them
	// concurrently.
	var g errgroup.Group
	if *cuesPtr != "" {
		g.Go(func() error {
			return exportCues(sess, *cuesPtr, *tickPtr, *qrPtr)
		})
	}
	if *savePtr != "" {
		state := sess.Store.State()
		g.Go(func() error {
			if err := grisfile.Save(state, *savePtr); err != nil {
				return fmt.Errorf("save project: %w", err)
			}
			fmt.Printf("[+] Project saved: %s\n", *savePtr)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatalf("[-] Export failed: %v", err)
	}

	saver.Flush()

	if *statsPtr {
		system.PrintStats()
	}
}

func workersDefault(configured int) int {
	if configured > 0 {
		return configured
	}
	return runtime.NumCPU()
}

// loadProject fills the session from, in order: an explicit path, the
// most recent project file, the autosave slot, or a blank project.
func loadProject(sess *session.Session, slots *autosave.SlotStore, path string) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("[-] Cannot read project: %v", err)
		}
		if err := sess.LoadFile(data); err != nil {
			log.Fatalf("[-] Cannot load project: %v", err)
		}
		fmt.Printf("[*] Loaded project: %s\n", path)
		return
	}

	if latest, err := system.FindLatestProject("input/projects"); err == nil {
		data, err := os.ReadFile(latest)
		if err == nil && sess.LoadFile(data) == nil {
			fmt.Printf("[*] Loaded project: %s\n", latest)
			return
		}
		log.Printf("[!] Skipping unreadable project %s", latest)
	}

	if payload, ok, err := slots.Get(autosave.SlotName); err == nil && ok {
		if sess.LoadFile(payload) == nil {
			fmt.Printf("[*] Recovered autosave snapshot (%s)\n", slots.Path())
			return
		}
		log.Printf("[!] Autosave snapshot is unreadable, starting blank")
	}

	fmt.Println("[*] Starting with a blank project")
}

func importBackgrounds(sess *session.Session, path string, pdf bool, dpi, workers int) {
	var (
		src source.Source
		err error
	)
	if pdf || strings.HasSuffix(strings.ToLower(path), ".pdf") {
		src, err = source.NewPDFSource(path)
	} else {
		src, err = source.NewImageSource(path)
	}
	if err != nil {
		log.Fatalf("[-] Import source error: %v", err)
	}
	defer src.Close()

	n, err := source.Import(context.Background(), sess.Store, src, dpi, workers)
	if err != nil {
		log.Fatalf("[-] Import failed: %v", err)
	}
	fmt.Printf("[+] Imported %d background pages from %s\n", n, path)
}

func exportCues(sess *session.Session, path string, tick float64, qrPath string) error {
	tick = config.ClampTick(tick)
	cues := cue.Generate(sess.Store.State().Actors, sess.Playback.Duration, tick)

	if err := cue.Write(cues, path); err != nil {
		return fmt.Errorf("export cues: %w", err)
	}
	fmt.Printf("[+] Exported %d cues: %s\n", len(cues), path)

	if qrPath == "" {
		return nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if err := qrcode.WriteFile(abs, qrcode.Medium, 256, qrPath); err != nil {
		log.Printf("[!] QR code failed: %v", err)
		return nil
	}
	fmt.Printf("[+] QR code written: %s\n", qrPath)
	return nil
}
