package api

import (
	"github.com/vladelaina/Catime/internal/models"
)

// SelectFontRequest is the request body for selecting a font by menu id.
type SelectFontRequest struct {
	ID int `json:"id" example:"2000" validate:"required"`
}

// SetCurrentFontRequest records a selection made by path rather than id.
// Path accepts any reference shape the normalizer understands.
type SetCurrentFontRequest struct {
	Path string `json:"path" example:"nerd/Hack.ttf" validate:"required"`
}

// FontListResponse wraps the snapshot listing.
type FontListResponse struct {
	Fonts []models.FontRecord `json:"fonts" validate:"required"`
	Total int                 `json:"total" example:"42" validate:"required"`
	State string              `json:"state" example:"fresh" validate:"required"`
}

// MenuResponse wraps the synthesized menu tree.
type MenuResponse struct {
	Menu *models.MenuNode `json:"menu" validate:"required"`
}

// SelectFontResponse is returned after a successful selection.
type SelectFontResponse struct {
	Path string `json:"path" validate:"required"`
}

// FontUploadResponse is returned after a successful font upload.
type FontUploadResponse struct {
	Filename string `json:"filename" example:"Hack.ttf" validate:"required"`
	Size     int64  `json:"size" example:"12345" validate:"required"`
	URL      string `json:"url" example:"/fonts/files/Hack.ttf" validate:"required"`
}
