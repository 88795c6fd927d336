package storage

import (
	"fmt"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
)

// AvatarTransformation is the thumbnail used in technician listings.
const AvatarTransformation = "c_fill,g_face,h_96,w_96"

// MediaService builds delivery URLs for stored media. Uploads are done by
// the mobile clients directly.
type MediaService interface {
	AvatarURL(profileImage string) (string, error)
}

// CloudinaryMediaService implements MediaService with the Cloudinary SDK.
type CloudinaryMediaService struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryMediaService(cld *cloudinary.Cloudinary) *CloudinaryMediaService {
	return &CloudinaryMediaService{cld: cld}
}

// AvatarURL turns a Cloudinary public ID into a thumbnail URL. Absolute URLs
// are returned unchanged and an empty value yields an empty URL.
func (s *CloudinaryMediaService) AvatarURL(profileImage string) (string, error) {
	profileImage = strings.TrimSpace(profileImage)
	if profileImage == "" || isAbsoluteURL(profileImage) {
		return profileImage, nil
	}

	img, err := s.cld.Image(profileImage)
	if err != nil {
		return "", fmt.Errorf("CloudinaryMediaService: failed to get asset: %w", err)
	}
	img.Transformation = AvatarTransformation
	url, err := img.String()
	if err != nil {
		return "", fmt.Errorf("CloudinaryMediaService: failed to get URL string: %w", err)
	}
	return url, nil
}

func isAbsoluteURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
