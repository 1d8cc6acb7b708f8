package service

import (
	"errors"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

const localImagePrefix = "/images/"

// AssetService decides where image files are read from. In development it
// serves files out of a local directory; in production it points at an
// external asset host.
type AssetService struct {
	root       string
	cdnURL     string
	production bool
}

func NewAssetService(root, cdnURL string, production bool) *AssetService {
	return &AssetService{
		root:       filepath.Clean(root),
		cdnURL:     strings.TrimSuffix(strings.TrimSpace(cdnURL), "/"),
		production: production,
	}
}

func (s *AssetService) Production() bool {
	return s.production
}

// LocalPath returns the on-disk path for filename inside the configured
// root. Names that could reach outside the root are rejected.
func (s *AssetService) LocalPath(filename string) (string, error) {
	if err := validateAssetName(filename); err != nil {
		return "", err
	}

	full := filepath.Join(s.root, filename)
	rel, err := filepath.Rel(s.root, full)
	if err != nil || rel != filename {
		return "", ErrInvalidAssetName
	}

	info, err := os.Stat(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrAssetNotFound
		}
		return "", err
	}
	if info.IsDir() {
		return "", ErrAssetNotFound
	}

	return full, nil
}

// RemoteURL returns the asset host URL for filename.
func (s *AssetService) RemoteURL(filename string) (string, error) {
	if err := validateAssetName(filename); err != nil {
		return "", err
	}
	if s.cdnURL == "" {
		return "", ErrAssetNotFound
	}
	return s.cdnURL + "/" + url.PathEscape(filename), nil
}

// URL is the address templates should link to for filename.
func (s *AssetService) URL(filename string) string {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return ""
	}
	if s.production && s.cdnURL != "" {
		return s.cdnURL + "/" + url.PathEscape(filename)
	}
	return localImagePrefix + url.PathEscape(filename)
}

func validateAssetName(filename string) error {
	switch {
	case filename == "", filename == ".", filename == "..":
		return ErrInvalidAssetName
	case strings.ContainsAny(filename, "/\\\x00"):
		return ErrInvalidAssetName
	case filepath.IsAbs(filename), filepath.VolumeName(filename) != "":
		return ErrInvalidAssetName
	}
	return nil
}
