package request

import "hospital-booking/pkg/utils"

type PaginatedRequest struct {
	Page    int `json:"page" validate:"omitempty,min=1"`
	PerPage int `json:"per_page" validate:"omitempty,min=1,max=100"`
}

func (p PaginatedRequest) Offset() int {
	return utils.PageOffset(p.Page, p.PerPage)
}

func (p PaginatedRequest) Limit() int {
	_, perPage := utils.ClampPage(p.Page, p.PerPage)
	return perPage
}

// CurrentPage is the 1-based page actually served
func (p PaginatedRequest) CurrentPage() int {
	page, _ := utils.ClampPage(p.Page, p.PerPage)
	return page
}
