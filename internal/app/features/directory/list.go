// internal/app/features/directory/list.go
package directory

import (
	"context"
	"net/http"
	"strings"

	"github.com/campusgrid/campusgrid/internal/app/system/apierr"
	"github.com/campusgrid/campusgrid/internal/app/system/paging"
	"github.com/campusgrid/campusgrid/internal/app/system/search"
	"github.com/campusgrid/campusgrid/internal/app/system/timeouts"
	"github.com/campusgrid/campusgrid/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// listResponse is the GET /directory payload.
type listResponse struct {
	Rows       []models.PublicProfile `json:"rows"`
	Shown      int                    `json:"shown"`
	Total      int64                  `json:"total"`
	HasPrev    bool                   `json:"has_prev"`
	HasNext    bool                   `json:"has_next"`
	PrevCursor string                 `json:"prev_cursor,omitempty"`
	NextCursor string                 `json:"next_cursor,omitempty"`
}

// ServeList handles GET /directory.
//
// Supports name-prefix search, a field-of-study filter, and keyset pagination
// sorted on {display_name_ci, _id}. Location state never leaves this endpoint;
// rows are the public projection only.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	searchQ := strings.TrimSpace(r.URL.Query().Get("search"))
	field := strings.TrimSpace(r.URL.Query().Get("field_of_study"))
	before, after := paging.Cursors(r)

	base := bson.M{"status": "active"}
	if field != "" {
		base["field_of_study"] = field
	}
	if searchQ != "" {
		base["display_name_ci"] = search.PrefixRange(searchQ)
	}

	total, _ := h.DB.Collection("profiles").CountDocuments(ctx, base)

	f := bson.M{}
	for k, v := range base {
		f[k] = v
	}

	const sortField = "display_name_ci"
	cfg := paging.ConfigureKeyset(before, after)
	if win := cfg.KeysetWindow(sortField); win != nil {
		// A prefix search constrains the same field the window rides on;
		// AND them so neither clobbers the other.
		if rangeAny, ok := base["display_name_ci"]; ok {
			delete(f, "display_name_ci")
			f["$and"] = []bson.M{
				{"display_name_ci": rangeAny},
				win,
			}
		} else {
			for k, v := range win {
				f[k] = v
			}
		}
	}

	find := options.Find()
	cfg.ApplyToFind(find, sortField)

	cur, err := h.DB.Collection("profiles").Find(ctx, f, find)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "directory query failed", err, "Failed to load directory.")
		return
	}
	defer cur.Close(ctx)

	var raw []models.Profile
	if err := cur.All(ctx, &raw); err != nil {
		h.ErrLog.LogServerError(w, r, "directory decode failed", err, "Failed to load directory.")
		return
	}

	page := paging.TrimPage(&raw, before, after)
	if before != "" {
		paging.Reverse(raw)
	}
	shown := len(raw)

	rows := make([]models.PublicProfile, 0, shown)
	for i := range raw {
		rows = append(rows, raw[i].Public())
	}

	prevCur, nextCur := paging.BuildCursors(raw,
		func(p models.Profile) string { return p.DisplayNameCI },
		func(p models.Profile) primitive.ObjectID { return p.ID })

	apierr.WriteJSON(w, http.StatusOK, listResponse{
		Rows:       rows,
		Shown:      shown,
		Total:      total,
		HasPrev:    page.HasPrev,
		HasNext:    page.HasNext,
		PrevCursor: prevCur,
		NextCursor: nextCur,
	})
}
