package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"hoteladmin/internal/adapters/images"
	"hoteladmin/internal/application/orchestrators"
	"hoteladmin/internal/domain/audit"
	"hoteladmin/internal/domain/room"
)

var errInvalidUpload = errors.New("invalid multipart upload")

// roomRequest is the JSON body for creating or editing a room.
type roomRequest struct {
	Name        string
	Type        string
	Price       int
	Capacity    int
	Description string
	Amenities   []room.Amenity
}

func (in roomRequest) input() orchestrators.RoomInput {
	return orchestrators.RoomInput{
		Name:        in.Name,
		Type:        in.Type,
		Price:       in.Price,
		Capacity:    in.Capacity,
		Description: in.Description,
		Amenities:   in.Amenities,
	}
}

func (s *Server) roomDeps() orchestrators.RoomDeps {
	return orchestrators.RoomDeps{
		RoomStore:  s.stores.RoomStore,
		ImageStore: s.images,
		GenerateID: s.genID,
		Now:        s.now,
	}
}

// handleRooms handles GET (list), POST (create) and DELETE (?id=) for /api/rooms
func (s *Server) handleRooms(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case "GET":
		rooms, err := s.stores.RoomStore.List(ctx)
		if err != nil {
			internalError(w, err)
			return
		}
		if rooms == nil {
			rooms = []room.Room{}
		}
		writeJSON(w, http.StatusOK, rooms)

	case "POST":
		var req roomRequest
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		created, err := orchestrators.ExecuteCreateRoom(ctx, req.input(), s.roomDeps())
		if err != nil {
			writeError(w, err)
			return
		}
		s.recordAudit(r, audit.CategoryRoom, audit.ActionCreate, created.ID, created.Name)
		writeJSON(w, http.StatusCreated, created)

	case "DELETE":
		id, ok := requireID(w, r)
		if !ok {
			return
		}
		if err := orchestrators.ExecuteDeleteRoom(ctx, id, s.roomDeps()); err != nil {
			writeError(w, err)
			return
		}
		s.recordAudit(r, audit.CategoryRoom, audit.ActionDelete, id, "")
		w.WriteHeader(http.StatusNoContent)

	default:
		methodNotAllowed(w)
	}
}

// handleRoomDetail handles GET and PUT for /api/rooms/detail?id=
func (s *Server) handleRoomDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case "GET":
		rm, err := s.stores.RoomStore.GetByID(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rm)

	case "PUT":
		var req roomRequest
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		updated, err := orchestrators.ExecuteUpdateRoom(r.Context(), id, req.input(), s.roomDeps())
		if err != nil {
			writeError(w, err)
			return
		}
		s.recordAudit(r, audit.CategoryRoom, audit.ActionUpdate, id, updated.Name)
		writeJSON(w, http.StatusOK, updated)

	default:
		methodNotAllowed(w)
	}
}

// handleRoomImages handles POST (multipart "images") and DELETE (?url=) for /api/rooms/images?id=
func (s *Server) handleRoomImages(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case "POST":
		uploads, err := readUploads(w, r)
		if err != nil {
			writeError(w, err)
			return
		}
		if len(uploads) == 0 {
			http.Error(w, "no images uploaded", http.StatusBadRequest)
			return
		}
		updated, err := orchestrators.ExecuteAddRoomImages(r.Context(), id, uploads, s.roomDeps())
		if err != nil {
			writeError(w, err)
			return
		}
		s.recordAudit(r, audit.CategoryRoom, audit.ActionUpdate, id, fmt.Sprintf("added %d image(s)", len(uploads)))
		writeJSON(w, http.StatusOK, updated)

	case "DELETE":
		url := r.URL.Query().Get("url")
		if url == "" {
			http.Error(w, "url is required", http.StatusBadRequest)
			return
		}
		updated, err := orchestrators.ExecuteRemoveRoomImage(r.Context(), id, url, s.roomDeps())
		if err != nil {
			writeError(w, err)
			return
		}
		s.recordAudit(r, audit.CategoryRoom, audit.ActionUpdate, id, "removed image "+url)
		writeJSON(w, http.StatusOK, updated)

	default:
		methodNotAllowed(w)
	}
}

// readUploads reads every file of the "images" form field, each capped at images.MaxUploadBytes.
func readUploads(w http.ResponseWriter, r *http.Request) ([]orchestrators.ImageUpload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, int64(room.MaxImages)*images.MaxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return nil, images.ErrTooLarge
		}
		return nil, errInvalidUpload
	}
	defer r.MultipartForm.RemoveAll()

	var uploads []orchestrators.ImageUpload
	for _, fh := range r.MultipartForm.File["images"] {
		if fh.Size > images.MaxUploadBytes {
			return nil, images.ErrTooLarge
		}
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, orchestrators.ImageUpload{FileName: fh.Filename, Data: data})
	}
	return uploads, nil
}
