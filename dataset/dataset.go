// Package dataset reads the static manga dataset document.
//
// The document is fetched once at startup from a local path or any source
// go-getter understands (http(s), s3, gcs, archives) and decoded into the
// record types consumed by graph.Store.Load.
package dataset

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/teranos/mangagraph/errors"
	"github.com/teranos/mangagraph/graph"
	grapherr "github.com/teranos/mangagraph/graph/error"
)

// Document is the dataset file: {nodes: [...], edges: [...]}
type Document struct {
	Nodes []graph.DatasetNode `json:"nodes"`
	Edges []graph.DatasetEdge `json:"edges"`
}

// Decode parses a dataset document.
// Entries are not validated individually; missing fields stay zero.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, grapherr.New(grapherr.CategoryDataset, errors.Wrap(err, "failed to decode dataset"), "").
			WithSubcategory(grapherr.SubcategoryDatasetDecode)
	}
	return &doc, nil
}

// DecodeFile opens and decodes a local dataset file
func DecodeFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, grapherr.New(grapherr.CategoryDataset, errors.Wrapf(err, "failed to open dataset %s", path), "").
			WithSubcategory(grapherr.SubcategoryDatasetFetch).
			WithContext("path", path)
	}
	defer f.Close()
	return Decode(f)
}

// Load resolves input, decodes the document and releases any fetched copy
func Load(ctx context.Context, input string, logger *zap.SugaredLogger) (*Document, error) {
	src, err := Resolve(ctx, input, logger)
	if err != nil {
		return nil, err
	}
	defer src.Cleanup()

	doc, err := DecodeFile(src.LocalPath)
	if err != nil {
		return nil, err
	}

	logger.Infow("Dataset decoded",
		"source", input,
		"nodes", len(doc.Nodes),
		"edges", len(doc.Edges))
	return doc, nil
}
