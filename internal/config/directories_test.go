package config

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/afero"
)

func TestEnsureDirectoriesIsIdempotent(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg, err := Load(Options{FS: fs, Overrides: map[string]string{"data.charts_dir": "out/charts"}})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := cfg.EnsureDirectories(); err != nil {
			t.Fatalf("call %d: unexpected error: %v", i+1, err)
		}
	}

	for _, dir := range []string{"out/charts", "reports", LogsDir, TempDir} {
		info, err := fs.Stat(dir)
		if err != nil {
			t.Fatalf("expected %s to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %s to be a directory", dir)
		}
	}
}

func TestEnsureDirectoriesConcurrent(t *testing.T) {
	root := t.TempDir()
	cfg, err := Load(Options{FS: afero.NewBasePathFs(afero.NewOsFs(), root)})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- cfg.EnsureDirectories()
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent call failed: %v", err)
		}
	}
	for _, dir := range cfg.Directories() {
		if _, err := os.Stat(filepath.Join(root, dir)); err != nil {
			t.Fatalf("expected %s to exist: %v", dir, err)
		}
	}
}

func TestEnsureDirectoriesDenied(t *testing.T) {
	cfg, err := Load(Options{FS: afero.NewReadOnlyFs(afero.NewMemMapFs())})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	err = cfg.EnsureDirectories()
	var derr *DirectoryCreationError
	if !errors.As(err, &derr) {
		t.Fatalf("expected DirectoryCreationError, got %v", err)
	}
	if derr.Path != "charts" {
		t.Fatalf("expected first directory to fail, got %s", derr.Path)
	}
	if !errors.Is(err, ErrDirectoryCreation) {
		t.Fatalf("expected error to match ErrDirectoryCreation")
	}
}

func TestEnsureDirectoriesPathIsFile(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "reports"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	cfg, err := Load(Options{FS: afero.NewBasePathFs(afero.NewOsFs(), root)})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	err = cfg.EnsureDirectories()
	var derr *DirectoryCreationError
	if !errors.As(err, &derr) || derr.Path != "reports" {
		t.Fatalf("expected DirectoryCreationError for reports, got %v", err)
	}
}
