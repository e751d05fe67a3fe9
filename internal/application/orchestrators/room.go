package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"hoteladmin/internal/adapters/images"
	"hoteladmin/internal/domain/room"
)

// RoomStoreForOrchestrator defines the store interface needed by the room orchestrators.
type RoomStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (room.Room, error)
	Save(ctx context.Context, r room.Room) error
	Delete(ctx context.Context, id string) error
}

// RoomInput carries the editable room fields.
type RoomInput struct {
	Name        string
	Type        string
	Price       int
	Capacity    int
	Description string
	Amenities   []room.Amenity
}

// RoomDeps holds dependencies for the room orchestrators.
type RoomDeps struct {
	RoomStore  RoomStoreForOrchestrator
	ImageStore images.Store
	GenerateID func() string
	Now        func() time.Time
}

// ImageUpload is one file from a multipart upload.
type ImageUpload struct {
	FileName string
	Data     []byte
}

func (in RoomInput) apply(r *room.Room) {
	r.Name = strings.TrimSpace(in.Name)
	r.Type = in.Type
	r.Price = in.Price
	r.Capacity = in.Capacity
	r.Description = strings.TrimSpace(in.Description)
	r.Amenities = in.Amenities
}

// ExecuteCreateRoom adds a room.
// PRE: input has a name, a known type and a positive price
// POST: room persisted with no images
func ExecuteCreateRoom(ctx context.Context, input RoomInput, deps RoomDeps) (room.Room, error) {
	r := room.Room{ID: deps.GenerateID(), CreatedAt: deps.Now()}
	input.apply(&r)
	if err := r.Validate(); err != nil {
		return room.Room{}, err
	}
	if err := deps.RoomStore.Save(ctx, r); err != nil {
		return room.Room{}, err
	}
	slog.Info("room_event", "event", "created", "id", r.ID, "type", r.Type, "price", r.Price)
	return r, nil
}

// ExecuteUpdateRoom replaces the editable fields of a room. Images are left untouched.
// POST: room updated, or ErrRoomNotFound
func ExecuteUpdateRoom(ctx context.Context, id string, input RoomInput, deps RoomDeps) (room.Room, error) {
	r, err := getRoom(ctx, deps.RoomStore, id)
	if err != nil {
		return room.Room{}, err
	}
	input.apply(&r)
	if err := r.Validate(); err != nil {
		return room.Room{}, err
	}
	if err := deps.RoomStore.Save(ctx, r); err != nil {
		return room.Room{}, err
	}
	slog.Info("room_event", "event", "updated", "id", r.ID)
	return r, nil
}

// ExecuteDeleteRoom removes a room together with its reservations and image files.
// POST: room and its reservations removed; image removal failures are logged only
func ExecuteDeleteRoom(ctx context.Context, id string, deps RoomDeps) error {
	r, err := getRoom(ctx, deps.RoomStore, id)
	if err != nil {
		return err
	}
	if err := deps.RoomStore.Delete(ctx, id); err != nil {
		return err
	}
	for _, url := range r.ImageURLs {
		if err := deps.ImageStore.Delete(ctx, url); err != nil {
			slog.Warn("room_event", "event", "image_cleanup_failed", "id", id, "url", url, "error", err)
		}
	}
	slog.Info("room_event", "event", "deleted", "id", id, "images", len(r.ImageURLs))
	return nil
}

// ExecuteAddRoomImages processes and stores uploads, then appends their URLs to the room.
// PRE: len(uploads) > 0
// POST: all images stored and linked, or none linked and stored files removed
func ExecuteAddRoomImages(ctx context.Context, id string, uploads []ImageUpload, deps RoomDeps) (room.Room, error) {
	r, err := getRoom(ctx, deps.RoomStore, id)
	if err != nil {
		return room.Room{}, err
	}
	if len(r.ImageURLs)+len(uploads) > room.MaxImages {
		return room.Room{}, room.ErrTooManyImages
	}

	var stored []string
	rollback := func() {
		for _, url := range stored {
			_ = deps.ImageStore.Delete(ctx, url)
		}
	}
	uploadedAt := deps.Now()
	for i, up := range uploads {
		name := room.ImageFileName(r.ID, uploadedAt, i, up.FileName)
		url, err := deps.ImageStore.Save(ctx, name, up.Data)
		if err != nil {
			rollback()
			return room.Room{}, fmt.Errorf("%s: %w", up.FileName, err)
		}
		stored = append(stored, url)
		if err := r.AddImage(url); err != nil {
			rollback()
			return room.Room{}, err
		}
	}

	if err := deps.RoomStore.Save(ctx, r); err != nil {
		rollback()
		return room.Room{}, err
	}
	slog.Info("room_event", "event", "images_added", "id", r.ID, "count", len(stored))
	return r, nil
}

// ExecuteRemoveRoomImage unlinks url from the room and deletes the file.
// POST: room no longer lists url, or room.ErrImageNotFound
func ExecuteRemoveRoomImage(ctx context.Context, id, url string, deps RoomDeps) (room.Room, error) {
	r, err := getRoom(ctx, deps.RoomStore, id)
	if err != nil {
		return room.Room{}, err
	}
	if err := r.RemoveImage(url); err != nil {
		return room.Room{}, err
	}
	if err := deps.RoomStore.Save(ctx, r); err != nil {
		return room.Room{}, err
	}
	if err := deps.ImageStore.Delete(ctx, url); err != nil {
		slog.Warn("room_event", "event", "image_cleanup_failed", "id", id, "url", url, "error", err)
	}
	slog.Info("room_event", "event", "image_removed", "id", id)
	return r, nil
}

func getRoom(ctx context.Context, store RoomStoreForOrchestrator, id string) (room.Room, error) {
	r, err := store.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return room.Room{}, ErrRoomNotFound
	}
	return r, err
}
