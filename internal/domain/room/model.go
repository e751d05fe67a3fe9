package room

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Room type constants
const (
	TypeSingle    = "single"
	TypeDouble    = "double"
	TypeApartment = "apartment"
)

// ValidTypes contains all valid room types in display order.
var ValidTypes = []string{TypeSingle, TypeDouble, TypeApartment}

// TypeLabels maps room types to the labels shown on the website.
var TypeLabels = map[string]string{
	TypeSingle:    "Jednolůžkový",
	TypeDouble:    "Dvoulůžkový",
	TypeApartment: "Apartmá",
}

// Max length constants for user-editable fields.
const (
	MaxNameLength        = 100
	MaxDescriptionLength = 5000
	MaxAmenities         = 30
	MaxImages            = 20
)

// Domain errors
var (
	ErrEmptyName        = errors.New("room name cannot be empty")
	ErrNameTooLong      = errors.New("room name cannot exceed 100 characters")
	ErrInvalidType      = errors.New("room type must be one of: single, double, apartment")
	ErrInvalidPrice     = errors.New("price per night must be positive")
	ErrInvalidCapacity  = errors.New("capacity cannot be negative")
	ErrDescriptionLong  = errors.New("description cannot exceed 5000 characters")
	ErrTooManyAmenities = errors.New("a room cannot list more than 30 amenities")
	ErrEmptyAmenity     = errors.New("amenity name cannot be empty")
	ErrTooManyImages    = errors.New("a room cannot have more than 20 images")
	ErrImageNotFound    = errors.New("image is not attached to this room")
)

// Amenity is one listed feature of a room with its icon key.
type Amenity struct {
	Name string
	Icon string
}

// Room is a bookable unit of the hotel.
type Room struct {
	ID          string
	Name        string
	Type        string
	Price       int // CZK per night
	Capacity    int
	Description string
	Amenities   []Amenity
	ImageURLs   []string
	CreatedAt   time.Time
}

// Validate checks if the Room has valid data.
// PRE: Room struct is populated
// POST: Returns nil if valid, error otherwise
func (r *Room) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrEmptyName
	}
	if len(r.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if !IsValidType(r.Type) {
		return ErrInvalidType
	}
	if r.Price <= 0 {
		return ErrInvalidPrice
	}
	if r.Capacity < 0 {
		return ErrInvalidCapacity
	}
	if len(r.Description) > MaxDescriptionLength {
		return ErrDescriptionLong
	}
	if len(r.Amenities) > MaxAmenities {
		return ErrTooManyAmenities
	}
	for _, a := range r.Amenities {
		if strings.TrimSpace(a.Name) == "" {
			return ErrEmptyAmenity
		}
	}
	if len(r.ImageURLs) > MaxImages {
		return ErrTooManyImages
	}
	return nil
}

// TypeLabel returns the display label of the room type.
func (r *Room) TypeLabel() string {
	if l, ok := TypeLabels[r.Type]; ok {
		return l
	}
	return r.Type
}

// AddImage appends an image URL.
// PRE: url is non-empty
// POST: ImageURLs ends with url, or ErrTooManyImages is returned
func (r *Room) AddImage(url string) error {
	if len(r.ImageURLs) >= MaxImages {
		return ErrTooManyImages
	}
	r.ImageURLs = append(r.ImageURLs, url)
	return nil
}

// RemoveImage drops url from ImageURLs, keeping the order of the rest.
func (r *Room) RemoveImage(url string) error {
	for i, u := range r.ImageURLs {
		if u == url {
			r.ImageURLs = append(r.ImageURLs[:i:i], r.ImageURLs[i+1:]...)
			return nil
		}
	}
	return ErrImageNotFound
}

// IsValidType reports whether t is a known room type.
func IsValidType(t string) bool {
	for _, v := range ValidTypes {
		if v == t {
			return true
		}
	}
	return false
}

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9.]`)

// ImageFileName builds the stored file name of an uploaded room image. index is the
// position of the file within one upload batch, keeping names unique within a batch.
// The original name is reduced to ASCII letters, digits and dots.
func ImageFileName(roomID string, uploadedAt time.Time, index int, original string) string {
	return roomID + "_" + strconv.FormatInt(uploadedAt.UnixNano(), 10) + "_" + strconv.Itoa(index) + "_" +
		unsafeFileChars.ReplaceAllString(original, "_")
}
