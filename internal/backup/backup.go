// Package backup archives the rigplanner database as tar.gz together with a
// readable export of the stored catalog, and restores such archives.
package backup

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/HerbHall/rigplanner/internal/services"
	"github.com/HerbHall/rigplanner/internal/store"
	"github.com/HerbHall/rigplanner/pkg/catalog"
)

// Archive member names.
const (
	DatabaseMember = "rigplanner.db"
	CatalogMember  = "catalog.yaml"
	ConfigMember   = "config.yaml"
)

// ErrExists is returned by Restore when a target file exists and force is off.
var ErrExists = errors.New("target file exists")

// Backup writes an archive with the database at dbPath, a YAML export of its
// catalog and, when configPath names an existing file, the configuration.
// The WAL is checkpointed first so the copied file is self-contained.
func Backup(ctx context.Context, dbPath, configPath, outputPath string) error {
	if _, err := os.Stat(dbPath); err != nil {
		return fmt.Errorf("database file not found: %w", err)
	}

	export, err := checkpointAndExport(ctx, dbPath)
	if err != nil {
		return err
	}

	outFile, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer outFile.Close()

	gw := gzip.NewWriter(outFile)
	tw := tar.NewWriter(gw)

	if err := addFileToTar(tw, dbPath, DatabaseMember); err != nil {
		return fmt.Errorf("adding database to archive: %w", err)
	}
	if err := addBytesToTar(tw, export, CatalogMember); err != nil {
		return fmt.Errorf("adding catalog export to archive: %w", err)
	}
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := addFileToTar(tw, configPath, ConfigMember); err != nil {
				return fmt.Errorf("adding config to archive: %w", err)
			}
		}
	}

	if err := tw.Close(); err != nil {
		return err
	}
	if err := gw.Close(); err != nil {
		return err
	}
	return outFile.Close()
}

// Restore extracts the members of archivePath into dataDir. Existing files
// are only overwritten when force is set. Member paths are flattened to
// their base name.
func Restore(_ context.Context, archivePath, dataDir string, force bool) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	gr, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("reading gzip: %w", err)
	}
	defer gr.Close()

	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		return err
	}

	tr := tar.NewReader(gr)
	restored := 0
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("reading archive: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}

		target := filepath.Join(dataDir, filepath.Base(hdr.Name))
		if !force {
			if _, err := os.Stat(target); err == nil {
				return fmt.Errorf("%w: %s", ErrExists, target)
			}
		}
		if err := writeFile(target, tr); err != nil {
			return fmt.Errorf("restoring %s: %w", hdr.Name, err)
		}
		restored++
	}
	if restored == 0 {
		return errors.New("archive contains no files")
	}
	return nil
}

// DefaultOutput returns a timestamped archive name.
func DefaultOutput(now time.Time) string {
	return fmt.Sprintf("rigplanner-backup-%s.tar.gz", now.Format("20060102-150405"))
}

// checkpointAndExport flushes the WAL and renders the stored catalog as YAML.
func checkpointAndExport(ctx context.Context, dbPath string) ([]byte, error) {
	db, err := store.New(dbPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	repo, err := services.NewSQLiteComponentRepository(ctx, db)
	if err != nil {
		return nil, err
	}
	items, err := repo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	prebuilts, err := repo.Prebuilts(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading prebuilts: %w", err)
	}
	export, err := catalog.Encode(&catalog.Document{Components: items, Prebuilts: prebuilts}, "yaml")
	if err != nil {
		return nil, err
	}

	if _, err := db.DB().ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return nil, fmt.Errorf("WAL checkpoint failed: %w", err)
	}
	return export, nil
}

func writeFile(path string, r io.Reader) error {
	out, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil { //nolint:gosec // archive members are our own backups
		out.Close()
		return err
	}
	return out.Close()
}

// addFileToTar adds a single file to the tar archive under the given name.
func addFileToTar(tw *tar.Writer, filePath, archiveName string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	hdr.Name = archiveName

	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}

	_, err = io.Copy(tw, f)
	return err
}

func addBytesToTar(tw *tar.Writer, data []byte, archiveName string) error {
	hdr := &tar.Header{
		Name:    archiveName,
		Mode:    0o600,
		Size:    int64(len(data)),
		ModTime: time.Now(),
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	_, err := io.Copy(tw, bytes.NewReader(data))
	return err
}
