package properties

import "errors"

var (
	ErrUnknownFeature  = errors.New("properties: unknown amenity, facility or safety entry")
	ErrUnknownRoomType = errors.New("properties: unknown room type vocabulary entry")
	ErrHostRequired    = errors.New("properties: host id is required")
	ErrUploaderMissing = errors.New("properties: media uploader unavailable")
	ErrMediaRequired   = errors.New("properties: media content is required")
)
