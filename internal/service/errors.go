package service

import "errors"

var (
	ErrCombinationNotFound = errors.New("combination not found")
	ErrJobNotFound         = errors.New("job not found")
	ErrPageNotFound        = errors.New("page not found")
	ErrAssetNotFound       = errors.New("asset not found")
	ErrInvalidAssetName    = errors.New("invalid asset name")
	ErrSlugCollision       = errors.New("slug collision")
)
