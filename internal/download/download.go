// Package download saves a generated image to disk or the clipboard.
package download

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ncruces/zenity"
)

const DefaultFilename = "cartoon.png"

var ErrNotDataURI = errors.New("not a base64 data URI")

// Decode returns the bytes embedded in a base64 data URI.
func Decode(dataURI string) ([]byte, error) {
	rest, ok := strings.CutPrefix(dataURI, "data:")
	if !ok {
		return nil, ErrNotDataURI
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return nil, ErrNotDataURI
	}
	b, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode data URI: %w", err)
	}
	return b, nil
}

// PickFunc asks where to save. An empty path with a nil error means the user
// cancelled.
type PickFunc func(defaultName string) (string, error)

// Saver writes data URIs to a user-chosen file.
type Saver struct {
	pick PickFunc
	log  *slog.Logger
}

// NewSaver uses pick to choose the destination. A nil pick opens the native
// save dialog.
func NewSaver(pick PickFunc, log *slog.Logger) *Saver {
	if pick == nil {
		pick = dialogPick
	}
	if log == nil {
		log = slog.Default()
	}
	return &Saver{pick: pick, log: log}
}

// Save asks for a destination and writes the image there. It returns the
// written path, or "" when the user cancelled. Save blocks while the dialog
// is open.
func (s *Saver) Save(dataURI string) (string, error) {
	data, err := Decode(dataURI)
	if err != nil {
		return "", err
	}
	path, err := s.pick(DefaultFilename)
	if err != nil {
		return "", fmt.Errorf("choose destination: %w", err)
	}
	if path == "" {
		return "", nil
	}
	if filepath.Ext(path) == "" {
		path += ".png"
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	s.log.Info("image saved", "path", path, "bytes", len(data))
	return path, nil
}

// SaveTo writes the image as DefaultFilename inside dir without asking.
func SaveTo(dir, dataURI string) (string, error) {
	data, err := Decode(dataURI)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, DefaultFilename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return path, nil
}

func dialogPick(defaultName string) (string, error) {
	path, err := zenity.SelectFileSave(
		zenity.Title("Download Image"),
		zenity.Filename(defaultName),
		zenity.ConfirmOverwrite(),
		zenity.FileFilters{{
			Name:     "PNG image",
			Patterns: []string{"*.png"},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return "", nil
		}
		return "", err
	}
	return path, nil
}
