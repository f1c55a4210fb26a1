package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	rterrors "github.com/matzehuels/routetrace/pkg/errors"
)

// Format names a graph file encoding.
type Format string

// Supported graph file formats.
const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatFromPath detects the file format from the path extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", rterrors.New(rterrors.ErrCodeInvalidFormat,
			"unsupported graph file %q (want .json or .toml)", filepath.Base(path))
	}
}

// =============================================================================
// Graph Serialization API
// =============================================================================

// Marshal converts a graph to indented JSON bytes.
// Nodes and edges keep insertion order.
func Marshal(g *Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(g, &buf, FormatJSON); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile writes a graph to path, choosing the format from its extension.
func WriteFile(g *Graph, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(g, f, format)
}

// Write encodes g to w in the given format.
func Write(g *Graph, w io.Writer, format Format) error {
	s := g.Snapshot()
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(s); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	default:
		return rterrors.New(rterrors.ErrCodeInvalidFormat, "unknown graph format %q", format)
	}
	return nil
}

// ReadFile reads a graph from path, choosing the format from its extension.
// Structural problems (dangling edges, self-loops, bad weights) are returned
// as validation errors.
func ReadFile(path string) (*Graph, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, format)
}

// Read decodes a graph in the given format from r.
func Read(r io.Reader, format Format) (*Graph, error) {
	var s Snapshot
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&s); err != nil {
			return nil, rterrors.Wrap(rterrors.ErrCodeInvalidFormat, err, "decode graph")
		}
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&s); err != nil {
			return nil, rterrors.Wrap(rterrors.ErrCodeInvalidFormat, err, "decode graph")
		}
	default:
		return nil, rterrors.New(rterrors.ErrCodeInvalidFormat, "unknown graph format %q", format)
	}
	return FromSnapshot(s)
}
