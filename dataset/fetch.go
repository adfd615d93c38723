package dataset

import (
	"context"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-getter"
	"go.uber.org/zap"

	"github.com/teranos/mangagraph/errors"
	grapherr "github.com/teranos/mangagraph/graph/error"
)

// PreferredFileName is picked first when a fetched archive holds several JSON files
const PreferredFileName = "manga.json"

// Source is a dataset resolved to a readable local file
type Source struct {
	LocalPath     string
	OriginalInput string
	IsFetched     bool
	cleanup       func()
}

// Cleanup removes any temporary copy. Safe to call more than once.
func (s *Source) Cleanup() {
	if s.cleanup != nil {
		s.cleanup()
		s.cleanup = nil
	}
}

// Resolve maps input to a local file.
// Supports:
//   - Local paths: /data/manga.json, ./data/manga.json, ~/manga.json
//   - HTTP(S) URLs: https://example.com/manga.json
//   - Archives: https://example.com/dataset.tar.gz (auto-extracted)
func Resolve(ctx context.Context, input string, logger *zap.SugaredLogger) (*Source, error) {
	if strings.TrimSpace(input) == "" {
		return nil, fetchError(errors.New("dataset source is empty"), input)
	}

	pwd, err := os.Getwd()
	if err != nil {
		pwd = "."
	}

	localPath := input
	if strings.HasPrefix(localPath, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fetchError(errors.Wrap(err, "failed to expand home directory"), input)
		}
		localPath = filepath.Join(home, localPath[2:])
	}

	detected, err := getter.Detect(localPath, pwd, getter.Detectors)
	if err != nil {
		return nil, fetchError(errors.Wrap(err, "failed to detect dataset source type"), input)
	}

	logger.Debugw("go-getter detected source", "input", input, "detected", detected)

	parsed, err := url.Parse(detected)
	if err != nil {
		return nil, fetchError(errors.Wrap(err, "failed to parse detected URL"), input)
	}

	if parsed.Scheme == "file" || parsed.Scheme == "" {
		path := localPath
		if parsed.Scheme == "file" && !isArchive(parsed.Path) {
			path = parsed.Path
		}
		if !filepath.IsAbs(path) {
			path = filepath.Join(pwd, path)
		}
		if !isArchive(path) {
			if _, err := os.Stat(path); err != nil {
				return nil, fetchError(errors.Wrapf(err, "dataset not found at %s", path), input)
			}
			return &Source{LocalPath: path, OriginalInput: input, cleanup: func() {}}, nil
		}
	}

	return fetch(ctx, input, detected, logger)
}

// fetch downloads (and unpacks) a remote or archived dataset into a temp dir
func fetch(ctx context.Context, input, detected string, logger *zap.SugaredLogger) (*Source, error) {
	tempDir, err := os.MkdirTemp("", "mangagraph-dataset-*")
	if err != nil {
		return nil, fetchError(errors.Wrap(err, "failed to create temp directory"), input)
	}
	cleanup := func() { os.RemoveAll(tempDir) }

	client := &getter.Client{
		Ctx:     ctx,
		Src:     detected,
		Dst:     tempDir,
		Mode:    getter.ClientModeAny,
		Getters: getter.Getters,
	}

	logger.Infow("Fetching dataset", "source", input, "destination", tempDir)

	if err := client.Get(); err != nil {
		cleanup()
		return nil, fetchError(errors.Wrap(err, "failed to fetch dataset"), input)
	}

	path, err := findDocument(tempDir)
	if err != nil {
		cleanup()
		return nil, fetchError(err, input)
	}

	logger.Infow("Dataset fetch completed", "path", path)

	return &Source{
		LocalPath:     path,
		OriginalInput: input,
		IsFetched:     true,
		cleanup:       cleanup,
	}, nil
}

// findDocument returns manga.json if present, otherwise the first .json file
func findDocument(root string) (string, error) {
	var first string
	var preferred string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".json") {
			return nil
		}
		if first == "" {
			first = path
		}
		if d.Name() == PreferredFileName && preferred == "" {
			preferred = path
		}
		return nil
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to scan fetched dataset")
	}
	if preferred != "" {
		return preferred, nil
	}
	if first == "" {
		return "", errors.Newf("no .json document found in fetched dataset")
	}
	return first, nil
}

func isArchive(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range []string{".zip", ".tar.gz", ".tgz", ".tar.bz2", ".tar.xz", ".gz"} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func fetchError(err error, input string) error {
	return grapherr.New(grapherr.CategoryDataset, err, "").
		WithSubcategory(grapherr.SubcategoryDatasetFetch).
		WithContext("source", input)
}
