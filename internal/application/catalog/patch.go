package catalog

import "github.com/jhoicas/estoque/internal/application/dto"

// Las funciones de este archivo nunca modifican data: devuelven una página nueva o (nil, false).

func prependProduct(data any, p dto.ProductResponse) (any, bool) {
	page, ok := data.(*dto.ProductListResponse)
	if !ok || page == nil {
		return nil, false
	}
	next := *page
	next.Items = make([]dto.ProductResponse, 0, len(page.Items)+1)
	next.Items = append(next.Items, p)
	next.Items = append(next.Items, page.Items...)
	next.Page = dto.NewPageResponse(dto.PageRequest{Page: page.Page.Page, PageSize: page.Page.PageSize}, page.Page.Count+1)
	return &next, true
}

func mapProducts(data any, fn func(dto.ProductResponse) (dto.ProductResponse, bool)) (any, bool) {
	page, ok := data.(*dto.ProductListResponse)
	if !ok || page == nil {
		return nil, false
	}
	items := make([]dto.ProductResponse, len(page.Items))
	changed := false
	for i, p := range page.Items {
		next, hit := fn(p)
		items[i] = next
		changed = changed || hit
	}
	if !changed {
		return nil, false
	}
	next := *page
	next.Items = items
	return &next, true
}

func removeProduct(data any, id string) (any, bool) {
	page, ok := data.(*dto.ProductListResponse)
	if !ok || page == nil {
		return nil, false
	}
	items := make([]dto.ProductResponse, 0, len(page.Items))
	for _, p := range page.Items {
		if p.ID != id {
			items = append(items, p)
		}
	}
	if len(items) == len(page.Items) {
		return nil, false
	}
	next := *page
	next.Items = items
	next.Page = dto.NewPageResponse(dto.PageRequest{Page: page.Page.Page, PageSize: page.Page.PageSize}, max(0, page.Page.Count-1))
	return &next, true
}

func prependMovement(data any, m dto.MovementResponse) (any, bool) {
	page, ok := data.(*dto.MovementListResponse)
	if !ok || page == nil {
		return nil, false
	}
	next := *page
	next.Items = make([]dto.MovementResponse, 0, len(page.Items)+1)
	next.Items = append(next.Items, m)
	next.Items = append(next.Items, page.Items...)
	next.Page = dto.NewPageResponse(dto.PageRequest{Page: page.Page.Page, PageSize: page.Page.PageSize}, page.Page.Count+1)
	return &next, true
}

func patchProduct(p dto.ProductResponse, in dto.UpdateProductRequest) dto.ProductResponse {
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.SKU != nil {
		p.SKU = *in.SKU
	}
	if in.CategoryID != nil {
		p.CategoryID = *in.CategoryID
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Cost != nil {
		p.Cost = *in.Cost
	}
	if in.CurrentStock != nil {
		p.CurrentStock = *in.CurrentStock
	}
	if in.MinStock != nil {
		p.MinStock = *in.MinStock
	}
	if in.MaxStock != nil {
		p.MaxStock = *in.MaxStock
	}
	return p
}
