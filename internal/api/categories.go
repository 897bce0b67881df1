package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"example.com/healthtrack/internal/domain"
)

type categoryView struct {
	ID           string `json:"id"`
	CategoryName string `json:"categoryName"`
}

type categoryItemView struct {
	ID       string `json:"id"`
	Datetime string `json:"datetime"`
	Note     string `json:"note"`
}

// makeItemID turns a 0-based index into the external item id, "item-1"
// for index 0.
func makeItemID(index int) string {
	return fmt.Sprintf("item-%d", index+1)
}

// parseItemID accepts both "item-3" (1-based) and a bare 0-based
// number, mirroring what the frontend sends.
func parseItemID(raw string) (int, bool) {
	if rest, ok := strings.CutPrefix(raw, "item-"); ok {
		n, err := strconv.Atoi(rest)
		if err != nil || n <= 0 {
			return 0, false
		}
		return n - 1, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func (h *Handler) categoryList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "unsupported method")
		return
	}
	token, ok := tokenOf(w, r)
	if !ok {
		return
	}

	names, err := h.store.Categories(token)
	if err != nil {
		writeStoreError(w, err, "User not found")
		return
	}
	views := make([]categoryView, 0, len(names))
	for _, name := range names {
		views = append(views, categoryView{ID: name, CategoryName: name})
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) categoryCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "unsupported method")
		return
	}
	token, ok := tokenOf(w, r)
	if !ok {
		return
	}

	var req struct {
		CategoryName *string `json:"categoryName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.CategoryName == nil {
		writeError(w, http.StatusBadRequest, "Missing categoryName")
		return
	}

	if err := h.store.CreateCategory(token, *req.CategoryName); err != nil {
		writeStoreError(w, err, "User not found")
		return
	}
	writeJSON(w, http.StatusCreated, categoryView{ID: *req.CategoryName, CategoryName: *req.CategoryName})
}

// categoryByPath dispatches /category/{name}, /category/{name}/list,
// /category/{name}/add and /category/{name}/{itemId}.
func (h *Handler) categoryByPath(w http.ResponseWriter, r *http.Request) {
	token, ok := tokenOf(w, r)
	if !ok {
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/category/")
	parts := strings.Split(rest, "/")
	if len(parts) == 0 || parts[0] == "" {
		writeError(w, http.StatusBadRequest, "Missing category name")
		return
	}
	name := parts[0]

	switch {
	case len(parts) == 1:
		if r.Method != http.MethodDelete {
			writeError(w, http.StatusMethodNotAllowed, "unsupported method")
			return
		}
		if err := h.store.DeleteCategory(token, name); err != nil {
			writeStoreError(w, err, "Category not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	case len(parts) == 2 && parts[1] == "list":
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "unsupported method")
			return
		}
		h.listCategoryItems(w, r, token, name)
	case len(parts) == 2 && parts[1] == "add":
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "unsupported method")
			return
		}
		h.addCategoryItem(w, r, token, name)
	case len(parts) == 2:
		h.categoryItemByID(w, r, token, name, parts[1])
	default:
		writeError(w, http.StatusNotFound, "Category not found")
	}
}

func (h *Handler) listCategoryItems(w http.ResponseWriter, r *http.Request, token, name string) {
	items, err := h.store.CategoryItems(token, name)
	if err != nil {
		writeStoreError(w, err, "Category not found")
		return
	}
	views := make([]categoryItemView, 0, len(items))
	for i, item := range items {
		views = append(views, categoryItemView{
			ID:       makeItemID(i),
			Datetime: item.Datetime,
			Note:     item.Note,
		})
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) addCategoryItem(w http.ResponseWriter, r *http.Request, token, name string) {
	var req struct {
		Datetime *string `json:"datetime"`
		Note     *string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	if req.Datetime == nil || req.Note == nil {
		writeError(w, http.StatusBadRequest, "Missing datetime or note")
		return
	}

	// The internal value field is not part of the API; zero suffices.
	item := domain.CategoryItem{Datetime: *req.Datetime, Note: *req.Note}
	index, err := h.store.AddCategoryItem(token, name, item)
	if err != nil {
		writeStoreError(w, err, "Category not found")
		return
	}
	writeJSON(w, http.StatusCreated, struct {
		ID         string `json:"id"`
		CategoryID string `json:"categoryId"`
		Datetime   string `json:"datetime"`
		Note       string `json:"note"`
	}{
		ID:         strconv.Itoa(index),
		CategoryID: name,
		Datetime:   item.Datetime,
		Note:       item.Note,
	})
}

func (h *Handler) categoryItemByID(w http.ResponseWriter, r *http.Request, token, name, rawID string) {
	index, ok := parseItemID(rawID)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid item id")
		return
	}

	switch r.Method {
	case http.MethodPatch:
		var req struct {
			Datetime *string `json:"datetime"`
			Note     *string `json:"note"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
			return
		}

		items, err := h.store.CategoryItems(token, name)
		if err != nil {
			writeStoreError(w, err, "Category or item not found")
			return
		}
		if index >= len(items) {
			writeError(w, http.StatusNotFound, "Category or item not found")
			return
		}

		item := items[index]
		if req.Datetime != nil {
			item.Datetime = *req.Datetime
		}
		if req.Note != nil {
			item.Note = *req.Note
		}
		if err := h.store.UpdateCategoryItem(token, name, index, item); err != nil {
			writeStoreError(w, err, "Category or item not found")
			return
		}
		writeJSON(w, http.StatusOK, struct {
			ID         string `json:"id"`
			CategoryID string `json:"categoryId"`
			Datetime   string `json:"datetime"`
			Note       string `json:"note"`
		}{
			ID:         rawID,
			CategoryID: name,
			Datetime:   item.Datetime,
			Note:       item.Note,
		})
	case http.MethodDelete:
		if err := h.store.DeleteCategoryItem(token, name, index); err != nil {
			writeStoreError(w, err, "Category or item not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, http.StatusMethodNotAllowed, "unsupported method")
	}
}
