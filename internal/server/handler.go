package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/mkrassel/territory-app/internal/app"
	"github.com/mkrassel/territory-app/internal/dataset"
	"github.com/mkrassel/territory-app/internal/operator"
	"github.com/mkrassel/territory-app/internal/zone"
)

type Handler struct {
	logger    *log.Logger
	validator *validator.Validate
	zones     *zone.Service
	datasets  *dataset.Service
	operators *operator.Service
}

func NewHandler(l *log.Logger) *Handler {
	return &Handler{
		logger:    l,
		validator: validator.New(),
	}
}

func (h *Handler) NewLogWriter(w http.ResponseWriter, r *http.Request) *LogWriter {
	return NewLogWriter(h.logger, w, r)
}

func (h *Handler) HelloWorld() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		type res struct {
			Message string `json:"message"`
		}

		h.NewLogWriter(w, r).Write(Response{
			Status: http.StatusOK,
			Body:   res{Message: "Hello, World!"},
		})
	}
}

type signupPayload struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginPayload struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// decodeJSON decodes a request body into dst and validates it.
// Failures come back as ServerResponseErrors ready to write.
func (h *Handler) decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &app.ServerResponseError{
			Err:        fmt.Errorf("decoding request body: %w", err),
			Msg:        "Invalid request body",
			StatusCode: http.StatusBadRequest,
		}
	}

	if err := h.validator.Struct(dst); err != nil {
		return &app.ServerResponseError{
			Err:        fmt.Errorf("validating request body: %w", err),
			Msg:        "Username must be 3-32 characters and password at least 8",
			StatusCode: http.StatusUnprocessableEntity,
		}
	}

	return nil
}

func (h *Handler) HandlePostSignup() http.HandlerFunc {
	type res struct {
		Message string `json:"message"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		writer := h.NewLogWriter(w, r)

		var payload signupPayload
		if err := h.decodeJSON(r, &payload); err != nil {
			h.logger.Printf("HandlePostSignup: rejecting signup payload: %v", err)
			writer.WriteError(err)
			return
		}

		if err := h.operators.Signup(r.Context(), payload.Username, payload.Password); err != nil {
			h.logger.Printf("HandlePostSignup: failed to signup operator (username=%q): %v", payload.Username, err)
			writer.WriteError(err)
			return
		}

		writer.Write(Response{
			Status: http.StatusCreated,
			Body:   res{Message: "Signup successful"},
		})
	}
}

func (h *Handler) HandlePostLogin() http.HandlerFunc {
	type res struct {
		Message string `json:"message"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		writer := h.NewLogWriter(w, r)

		var payload loginPayload
		if err := h.decodeJSON(r, &payload); err != nil {
			h.logger.Printf("HandlePostLogin: rejecting login payload: %v", err)
			writer.WriteError(err)
			return
		}

		token, err := h.operators.Login(r.Context(), payload.Username, payload.Password)
		if err != nil {
			h.logger.Printf("HandlePostLogin: failed to login operator (username=%q): %v", payload.Username, err)
			writer.WriteError(err)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     operatorTokenCookieKey,
			Value:    token,
			Path:     "/",
			Expires:  time.Now().Add(time.Hour),
			HttpOnly: true,
			SameSite: http.SameSiteStrictMode,
		})

		writer.Write(Response{
			Status: http.StatusOK,
			Body:   res{Message: "Logged in"},
		})
	}
}

// HandleImportDataset accepts a multipart form with a "file" field
// holding a CSV export of a legacy territory table and an optional
// "name" field. The dataset name defaults to the uploaded file name.
func (h *Handler) HandleImportDataset() http.HandlerFunc {
	type res struct {
		DatasetID  string    `json:"dataset_id"`
		Name       string    `json:"name"`
		SourceFile string    `json:"source_file"`
		PointCount int       `json:"point_count"`
		ImportedAt time.Time `json:"imported_at"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		writer := h.NewLogWriter(w, r)

		file, header, err := r.FormFile("file")
		if err != nil {
			appErr := &app.ServerResponseError{
				Err:        fmt.Errorf("reading file field: %w", err),
				Msg:        "Must upload a CSV file in the \"file\" form field",
				StatusCode: http.StatusBadRequest,
			}
			h.logger.Printf("HandleImportDataset: rejecting upload: %v", appErr.Err)
			writer.WriteError(appErr)
			return
		}
		defer file.Close()

		name := r.FormValue("name")
		if name == "" {
			name = header.Filename
		}

		ds, err := h.datasets.Import(r.Context(), name, header.Filename, file)
		if err != nil {
			h.logger.Printf("HandleImportDataset: failed to import dataset (name=%q): %v", name, err)
			writer.WriteError(err)
			return
		}

		writer.Write(Response{
			Status: http.StatusCreated,
			Body: res{
				DatasetID:  ds.ID.String(),
				Name:       ds.Name,
				SourceFile: ds.SourceFile,
				PointCount: ds.PointCount,
				ImportedAt: ds.ImportedAt,
			},
		})
	}
}

func (h *Handler) HandleGetDataset() http.HandlerFunc {
	type res struct {
		DatasetID  string    `json:"dataset_id"`
		Name       string    `json:"name"`
		SourceFile string    `json:"source_file"`
		PointCount int       `json:"point_count"`
		ImportedAt time.Time `json:"imported_at"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		writer := h.NewLogWriter(w, r)

		datasetID, err := ParseDatasetID(chi.URLParam(r, "datasetID"))
		if err != nil {
			writer.WriteError(err)
			return
		}

		ds, err := h.datasets.Get(r.Context(), datasetID)
		if err != nil {
			h.logger.Printf("HandleGetDataset: failed to get dataset (datasetID=%s): %v", datasetID, err)
			writer.WriteError(err)
			return
		}

		writer.Write(Response{
			Status: http.StatusOK,
			Body: res{
				DatasetID:  ds.ID.String(),
				Name:       ds.Name,
				SourceFile: ds.SourceFile,
				PointCount: ds.PointCount,
				ImportedAt: ds.ImportedAt,
			},
		})
	}
}

// HandleRebuildDataset runs a rebuild over every zone of a dataset
// and reports the outcome counts. Failed zones are listed by key;
// their errors are in the server log.
func (h *Handler) HandleRebuildDataset() http.HandlerFunc {
	type failure struct {
		Key string `json:"key"`
	}

	type res struct {
		DatasetID   string    `json:"dataset_id"`
		TotalZones  int       `json:"total_zones"`
		TotalWrites int       `json:"total_writes"`
		TotalAbsent int       `json:"total_absent"`
		Fails       []failure `json:"fails"`
		StartedAt   time.Time `json:"started_at"`
		FinishedAt  time.Time `json:"finished_at"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		writer := h.NewLogWriter(w, r)

		datasetID, err := ParseDatasetID(chi.URLParam(r, "datasetID"))
		if err != nil {
			writer.WriteError(err)
			return
		}

		result, err := h.zones.Rebuild(r.Context(), datasetID)
		if err != nil {
			h.logger.Printf("HandleRebuildDataset: failed to rebuild dataset (datasetID=%s): %v", datasetID, err)
			writer.WriteError(err)
			return
		}

		fails := make([]failure, 0, len(result.Fails))
		for _, f := range result.Fails {
			fails = append(fails, failure{Key: f.Key})
		}

		writer.Write(Response{
			Status: http.StatusOK,
			Body: res{
				DatasetID:   result.DatasetID.String(),
				TotalZones:  result.TotalZones(),
				TotalWrites: len(result.Writes),
				TotalAbsent: len(result.Absent),
				Fails:       fails,
				StartedAt:   result.StartedAt,
				FinishedAt:  result.FinishedAt,
			},
		})
	}
}

// HandleGetZone serves one rebuilt zone geometry as GeoJSON, WKT
// or WKB depending on the format query parameter.
func (h *Handler) HandleGetZone() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writer := h.NewLogWriter(w, r)

		datasetID, err := ParseDatasetID(r.URL.Query().Get("dataset_id"))
		if err != nil {
			writer.WriteError(err)
			return
		}

		key, err := ParseZoneKey(r.URL.Query().Get("key"))
		if err != nil {
			writer.WriteError(err)
			return
		}

		format, err := ParseFormat(r.URL.Query().Get("format"))
		if err != nil {
			writer.WriteError(err)
			return
		}

		z, err := h.zones.Get(r.Context(), datasetID, key)
		if err != nil {
			h.logger.Printf("HandleGetZone: failed to get zone (datasetID=%s, key=%q): %v", datasetID, key, err)
			writer.WriteError(err)
			return
		}

		switch format {
		case FormatWKT:
			text, err := z.WKT()
			if err != nil {
				h.logger.Printf("HandleGetZone: failed to encode zone (key=%q) as WKT: %v", key, err)
				writer.WriteError(err)
				return
			}
			writer.WriteRaw(RawResponse{
				Status:      http.StatusOK,
				ContentType: "text/plain; charset=utf-8",
				Body:        []byte(text),
			})
		case FormatWKB:
			data, err := z.WKB()
			if err != nil {
				h.logger.Printf("HandleGetZone: failed to encode zone (key=%q) as WKB: %v", key, err)
				writer.WriteError(err)
				return
			}
			writer.WriteRaw(RawResponse{
				Status:      http.StatusOK,
				ContentType: "application/octet-stream",
				Body:        data,
			})
		default:
			data, err := z.GeoJSON()
			if err != nil {
				h.logger.Printf("HandleGetZone: failed to encode zone (key=%q) as GeoJSON: %v", key, err)
				writer.WriteError(err)
				return
			}
			writer.WriteRaw(RawResponse{
				Status:      http.StatusOK,
				ContentType: "application/geo+json",
				Body:        data,
			})
		}
	}
}

func (h *Handler) HandleGetZoneKeys() http.HandlerFunc {
	type zoneKey struct {
		Key       string    `json:"key"`
		Parts     int       `json:"parts"`
		RebuiltAt time.Time `json:"rebuilt_at"`
	}

	type res struct {
		DatasetID string    `json:"dataset_id"`
		Zones     []zoneKey `json:"zones"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		writer := h.NewLogWriter(w, r)

		datasetID, err := ParseDatasetID(r.URL.Query().Get("dataset_id"))
		if err != nil {
			writer.WriteError(err)
			return
		}

		keys, err := h.zones.Keys(r.Context(), datasetID)
		if err != nil {
			h.logger.Printf("HandleGetZoneKeys: failed to list zones (datasetID=%s): %v", datasetID, err)
			writer.WriteError(err)
			return
		}

		zones := make([]zoneKey, 0, len(keys))
		for _, k := range keys {
			zones = append(zones, zoneKey{Key: k.Key, Parts: k.Parts, RebuiltAt: k.RebuiltAt})
		}

		writer.Write(Response{
			Status: http.StatusOK,
			Body:   res{DatasetID: datasetID.String(), Zones: zones},
		})
	}
}

// HandleLocateZones lists the zones of a dataset whose rebuilt
// geometry contains the point given by the x and y parameters.
func (h *Handler) HandleLocateZones() http.HandlerFunc {
	type res struct {
		DatasetID string   `json:"dataset_id"`
		X         float64  `json:"x"`
		Y         float64  `json:"y"`
		Keys      []string `json:"keys"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		writer := h.NewLogWriter(w, r)

		datasetID, err := ParseDatasetID(r.URL.Query().Get("dataset_id"))
		if err != nil {
			writer.WriteError(err)
			return
		}

		point, err := ParsePoint(r.URL.Query().Get("x"), r.URL.Query().Get("y"))
		if err != nil {
			writer.WriteError(err)
			return
		}

		keys, err := h.zones.Locate(r.Context(), datasetID, point)
		if err != nil {
			h.logger.Printf("HandleLocateZones: failed to locate (datasetID=%s, x=%v, y=%v): %v",
				datasetID, point.X, point.Y, err)
			writer.WriteError(err)
			return
		}

		writer.Write(Response{
			Status: http.StatusOK,
			Body:   res{DatasetID: datasetID.String(), X: point.X, Y: point.Y, Keys: keys},
		})
	}
}
