package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"gaiaeye/models"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// handleCreateAOI inserts a new area of interest. Area is computed from
// the bounding box when the client does not supply it.
func (a *App) handleCreateAOI(w http.ResponseWriter, r *http.Request) {
	uid := mustUserID(r)

	var req createAOIReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "bad json")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "name is required")
		return
	}
	if err := toProviderBox(req.BBox).Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid bbox: "+err.Error())
		return
	}

	aoi := models.AOI{
		OwnerID:   uid,
		Name:      req.Name,
		BBox:      req.BBox,
		CreatedAt: time.Now(),
		Photo:     req.Photo,
	}
	area := req.AreaHa
	if area == nil {
		ha := areaHectares(toProviderBox(req.BBox))
		area = &ha
	}
	aoi.Meta = &models.AOIMeta{AreaHa: area, Notes: req.Notes, Crop: req.Crop}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	res, err := a.aois.InsertOne(ctx, &aoi)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error", "db error")
		return
	}
	aoi.ID = res.InsertedID.(primitive.ObjectID)
	writeJSON(w, http.StatusOK, aoi)
}

// handleListAOIs returns the current user's areas, newest first.
func (a *App) handleListAOIs(w http.ResponseWriter, r *http.Request) {
	uid := mustUserID(r)
	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	cur, err := a.aois.Find(ctx, bson.M{"ownerId": uid}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error", "db error")
		return
	}
	defer cur.Close(ctx)

	var out []models.AOI
	if err := cur.All(ctx, &out); err != nil {
		writeError(w, http.StatusInternalServerError, "db_error", "decode error")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// handleGetAOI returns a single area by id (owned by the user).
func (a *App) handleGetAOI(w http.ResponseWriter, r *http.Request) {
	uid := mustUserID(r)
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "bad id")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var aoi models.AOI
	if err := a.aois.FindOne(ctx, bson.M{"_id": oid, "ownerId": uid}).Decode(&aoi); err != nil {
		writeError(w, http.StatusNotFound, "not_found", "not found")
		return
	}
	writeJSON(w, http.StatusOK, aoi)
}

// handleUpdateAOI updates name/bbox and meta fields if provided. A bbox
// change recomputes the stored area unless the client sent one.
func (a *App) handleUpdateAOI(w http.ResponseWriter, r *http.Request) {
	uid := mustUserID(r)
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "bad id")
		return
	}

	var req struct {
		Name   string       `json:"name,omitempty"`
		BBox   *models.BBox `json:"bbox,omitempty"`
		AreaHa *float64     `json:"areaHa,omitempty"`
		Notes  *string      `json:"notes,omitempty"`
		Crop   *string      `json:"crop,omitempty"`
		Photo  *string      `json:"photo,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "bad json")
		return
	}

	set := bson.M{}
	if req.Name != "" {
		set["name"] = req.Name
	}
	if req.BBox != nil {
		if err := toProviderBox(*req.BBox).Validate(); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "invalid bbox: "+err.Error())
			return
		}
		set["bbox"] = req.BBox
		if req.AreaHa == nil {
			set["meta.areaHa"] = areaHectares(toProviderBox(*req.BBox))
		}
	}
	if req.AreaHa != nil {
		set["meta.areaHa"] = req.AreaHa
	}
	if req.Notes != nil {
		set["meta.notes"] = *req.Notes
	}
	if req.Crop != nil {
		set["meta.crop"] = *req.Crop
	}
	if req.Photo != nil {
		set["photo"] = *req.Photo
	}
	if len(set) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", "nothing to update")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	res := a.aois.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid, "ownerId": uid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var out models.AOI
	if err := res.Decode(&out); err != nil {
		writeError(w, http.StatusNotFound, "not_found", "not found")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// handleDeleteAOI removes an area and its stored reports.
func (a *App) handleDeleteAOI(w http.ResponseWriter, r *http.Request) {
	uid := mustUserID(r)
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "bad id")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := a.aois.DeleteOne(ctx, bson.M{"_id": oid, "ownerId": uid})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error", "db error")
		return
	}
	if res.DeletedCount == 0 {
		writeError(w, http.StatusNotFound, "not_found", "not found")
		return
	}
	_, _ = a.reports.DeleteMany(ctx, bson.M{"aoiId": oid, "ownerId": uid})
	writeJSON(w, http.StatusOK, bson.M{"ok": true})
}
