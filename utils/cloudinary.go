package utils

import (
	"fmt"

	"repairhub/config"

	"github.com/cloudinary/cloudinary-go/v2"
)

// Cloudinary returns a Cloudinary client configured from cfg.
func Cloudinary(cfg config.Config) (*cloudinary.Cloudinary, error) {
	if cfg.CloudinaryCloudName == "" {
		return nil, fmt.Errorf("cloudinary cloud name not set in configuration")
	}
	cld, err := cloudinary.NewFromParams(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		return nil, fmt.Errorf("utils.Cloudinary: failed to initialize Cloudinary: %w", err)
	}
	return cld, nil
}
