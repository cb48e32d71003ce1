// Package main runs the interactive similarity explorer: a terminal UI over
// the parse → embed → similarity pipeline with live reload when the contents
// file changes on disk.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"

	"semsi/internal/config"
	"semsi/internal/service"
	"semsi/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	var keepDuplicates bool
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/semsi/config.yaml if not provided)")
	flag.BoolVar(&keepDuplicates, "keep-duplicates", false, "Preserve duplicate document identifiers when parsing")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Println("Usage: semsi-explorer [--config=config.yaml] contents.txt")
		os.Exit(1)
	}
	contentsPath := flag.Arg(0)

	if !isatty.IsTerminal(os.Stdout.Fd()) {
		log.Fatal("semsi-explorer needs an interactive terminal; use the semsi CLI for scripted output")
	}

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	opts := service.Options{
		KeepDuplicates: keepDuplicates || cfg.Parser.KeepDuplicates,
		Decimals:       cfg.Matrix.Decimals,
	}
	result, err := service.BuildFromFile(contentsPath, opts)
	if err != nil {
		log.Fatalf("failed to build similarity matrix: %v", err)
	}

	m := tui.New(result, cfg.Query.TopN, cfg.Preview.Decimals)
	p := tea.NewProgram(m)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Fatalf("failed to watch contents file: %v", err)
	}
	defer watcher.Close()
	if err := watcher.Add(contentsPath); err != nil {
		log.Fatalf("failed to watch %s: %v", contentsPath, err)
	}
	go watchContents(watcher, p, contentsPath, opts)

	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}
}

// watchContents recomputes the pipeline whenever the contents file is written
// and forwards the result to the running program.
func watchContents(watcher *fsnotify.Watcher, p *tea.Program, path string, opts service.Options) {
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			result, err := service.BuildFromFile(path, opts)
			p.Send(tui.ReloadMsg{Result: result, Err: err})
		case _, ok := <-watcher.Errors:
			if !ok {
				return
			}
		}
	}
}
