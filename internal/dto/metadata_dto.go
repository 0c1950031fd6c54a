package dto

import "github.com/inkwell-cms/inkwell/internal/model"

type CreateMetadataRequest struct {
	Menu []model.MenuItem `json:"menu" validate:"required,min=1,dive"`
}

type UpdateMenuRequest struct {
	Menu []model.MenuItem `json:"menu" validate:"required,min=1,dive"`
}
