package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	flag "github.com/spf13/pflag"

	"github.com/jask/linkview/internal/config"
	"github.com/jask/linkview/internal/database"
	"github.com/jask/linkview/internal/database/repository"
	"github.com/jask/linkview/internal/links"
	"github.com/jask/linkview/internal/permission"
	"github.com/jask/linkview/internal/renderer"
	"github.com/jask/linkview/internal/tui"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: linkview [--list]\n       linkview export [file]\n       linkview import <file>\n       linkview config init\n")
	flag.PrintDefaults()
}

func main() {
	list := flag.BoolP("list", "l", false, "print saved links and exit")
	flag.Usage = usage
	flag.Parse()

	ctx := context.Background()
	args := flag.Args()

	if len(args) > 0 && args[0] == "config" {
		if len(args) != 2 || args[1] != "init" {
			usage()
			os.Exit(2)
		}
		path, created, err := config.Init()
		if err != nil {
			log.Fatalf("config: %v", err)
		}
		if created {
			fmt.Printf("wrote %s\n", path)
		} else {
			fmt.Printf("%s already exists\n", path)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := openDB(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	store := links.NewStore(repository.NewLinkRepo(db))
	if _, err := store.Load(ctx); err != nil {
		log.Fatalf("load links: %v", err)
	}

	switch {
	case *list:
		for _, l := range store.Links() {
			fmt.Println(l)
		}
		return
	case len(args) > 0 && args[0] == "export":
		if err := export(store, args[1:]); err != nil {
			log.Fatalf("export: %v", err)
		}
		return
	case len(args) > 0 && args[0] == "import":
		if len(args) != 2 {
			usage()
			os.Exit(2)
		}
		n, err := importFile(ctx, store, args[1])
		if err != nil {
			log.Fatalf("import: %v", err)
		}
		fmt.Printf("imported %d links\n", n)
		return
	case len(args) > 0:
		usage()
		os.Exit(2)
	}

	// the TUI owns stdout from here on
	if err := os.MkdirAll(filepath.Dir(cfg.Log.Path), 0o755); err != nil {
		log.Fatalf("mkdir log dir: %v", err)
	}
	logFile, err := tea.LogToFile(cfg.Log.Path, "linkview")
	if err != nil {
		log.Fatalf("log file: %v", err)
	}
	defer logFile.Close()

	rend, err := renderer.New(renderer.Options{
		Timeout:   cfg.Renderer.Timeout,
		CacheSize: cfg.Renderer.CacheSize,
		UserAgent: cfg.Renderer.UserAgent,
	})
	if err != nil {
		log.Fatalf("renderer: %v", err)
	}

	perms := permission.NewService(repository.NewPermissionRepo(db), permission.Location)
	perms.OnChange(func(st permission.Status) {
		if st != permission.Granted {
			log.Printf("location access %s; enable it from the link list (L)", st)
		}
	})

	app := tui.New(ctx,
		tui.Deps{Links: store, Renderer: rend, Permission: perms},
		tui.Options{Title: cfg.UI.Title, EdgeWidth: cfg.UI.EdgeWidth, SwipeThreshold: cfg.UI.SwipeThreshold},
	)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}

func openDB(cfg config.Config) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}
	if err := database.RunMigrations(cfg.Database.Driver, cfg.Database.Path); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.Database.Driver, cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return db, nil
}

// export writes the list to args[0], or stdout when no file is given.
func export(store *links.Store, args []string) error {
	var w io.Writer = os.Stdout
	if len(args) > 0 {
		f, err := os.Create(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return store.Export(w)
}

func importFile(ctx context.Context, store *links.Store, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return store.Import(ctx, f)
}
