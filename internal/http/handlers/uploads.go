package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"dinehall-pos-services/internal/storage"
	"dinehall-pos-services/internal/utils"
	"dinehall-pos-services/pkg/response"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/zap"
)

const itemImageMaxSide = 1000

func (h *Handler) makeStore(r *http.Request) (*storage.ObjectStore, error) {
	return storage.NewObjectStore(r.Context(), storage.Config{
		Endpoint:        h.Config.ObjectStoreEndpoint,
		Region:          h.Config.ObjectStoreRegion,
		AccessKeyID:     h.Config.ObjectStoreAccessKeyID,
		SecretAccessKey: h.Config.ObjectStoreSecretAccessKey,
		Bucket:          h.Config.ObjectStoreBucket,
		PublicBaseURL:   h.Config.ObjectStorePublicBaseURL,
		StorageClass:    h.Config.ObjectStoreStorageClass,
	})
}

func (h *Handler) readImageBytes(r *http.Request, field string) ([]byte, string, bool) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, "File is required", false
	}
	defer file.Close()

	maxBytes := h.Config.MaxFileSizeBytes
	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return nil, "Failed to read file", false
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Sprintf("File size must be less than %dMB", maxBytes/(1024*1024)), false
	}

	ct := strings.ToLower(strings.TrimSpace(header.Header.Get("Content-Type")))
	if ct == "" {
		ct = utils.DetectContentType(data)
	}
	if !utils.ValidateImageContentType(ct) {
		return nil, "Invalid file type. Please upload an image file.", false
	}
	return data, "", true
}

// ItemImageUpload normalizes the uploaded photo to a JPEG, stores it on
// the object store and swaps the item's image URL, removing the previous
// object when there was one.
func (h *Handler) ItemImageUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	itemID, err := readPathInt64(r, "itemId")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_PAYLOAD", "Invalid item id")
		return
	}

	var oldImageURL pgtype.Text
	err = h.DB.QueryRow(ctx, `select image_url from items where id = $1`, itemID).Scan(&oldImageURL)
	if errors.Is(err, pgx.ErrNoRows) {
		response.Error(w, http.StatusNotFound, "ITEM_NOT_FOUND", "Item does not exist")
		return
	}
	if err != nil {
		h.Logger.Error("item lookup failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to upload image")
		return
	}

	data, message, ok := h.readImageBytes(r, "image")
	if !ok {
		response.Error(w, http.StatusBadRequest, "UPLOAD_VALIDATION_ERROR", message)
		return
	}

	encoded, err := utils.EncodeItemImage(data, itemImageMaxSide, 85)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "UPLOAD_VALIDATION_ERROR", "Could not decode the uploaded image")
		return
	}

	store, err := h.makeStore(r)
	if err != nil {
		h.Logger.Error("object store init failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "STORAGE_ERROR", "Image storage is not configured")
		return
	}

	key := fmt.Sprintf("items/%d/%s.jpg", itemID, uuid.NewString())
	url, err := store.PutObject(ctx, key, encoded, "image/jpeg")
	if err != nil {
		h.Logger.Error("object store put failed", zap.String("key", key), zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to store image")
		return
	}

	if _, err := h.DB.Exec(ctx, `
		update items set image_url = $1, updated_at = now() where id = $2
	`, url, itemID); err != nil {
		h.Logger.Error("item image update failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to upload image")
		return
	}

	if oldImageURL.Valid {
		if oldKey, found := store.ResolveKeyFromURL(oldImageURL.String); found {
			if err := store.DeleteKey(ctx, oldKey); err != nil {
				h.Logger.Warn("old image delete failed", zap.String("key", oldKey), zap.Error(err))
			}
		}
	}

	response.Success(w, map[string]any{"imageUrl": url})
}

func (h *Handler) ItemImageDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	itemID, err := readPathInt64(r, "itemId")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_PAYLOAD", "Invalid item id")
		return
	}

	var imageURL pgtype.Text
	err = h.DB.QueryRow(ctx, `select image_url from items where id = $1`, itemID).Scan(&imageURL)
	if errors.Is(err, pgx.ErrNoRows) {
		response.Error(w, http.StatusNotFound, "ITEM_NOT_FOUND", "Item does not exist")
		return
	}
	if err != nil {
		h.Logger.Error("item lookup failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete image")
		return
	}
	if !imageURL.Valid {
		response.Success(w, map[string]any{"deleted": false})
		return
	}

	if _, err := h.DB.Exec(ctx, `
		update items set image_url = null, updated_at = now() where id = $1
	`, itemID); err != nil {
		h.Logger.Error("item image clear failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete image")
		return
	}

	if store, err := h.makeStore(r); err == nil {
		if key, found := store.ResolveKeyFromURL(imageURL.String); found {
			if err := store.DeleteKey(ctx, key); err != nil {
				h.Logger.Warn("image delete failed", zap.String("key", key), zap.Error(err))
			}
		}
	}

	response.Success(w, map[string]any{"deleted": true})
}
